package handler

import (
	"net/http"
	"strconv"
	"time"

	"mesapos/internal/apierror"
	"mesapos/internal/config"
	"mesapos/internal/dto"
	"mesapos/internal/middleware"
	"mesapos/internal/repository"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnoHandler struct {
	turnos      service.TurnoService
	movimientos service.MovimientoService
	mesas       service.MesaService
	cfg         *config.Config
}

func NewTurnoHandler(
	turnos service.TurnoService,
	movimientos service.MovimientoService,
	mesas service.MesaService,
	cfg *config.Config,
) *TurnoHandler {
	return &TurnoHandler{turnos: turnos, movimientos: movimientos, mesas: mesas, cfg: cfg}
}

// resolveCaja picks the caja for a request: explicit body value first, then
// the caja assigned to the user in their token, then the configured default.
func (h *TurnoHandler) resolveCaja(c *gin.Context, caja string) string {
	if caja != "" {
		return caja
	}
	if claims := middleware.GetClaims(c); claims != nil && claims.Caja != nil && *claims.Caja != "" {
		return *claims.Caja
	}
	return h.cfg.CajaDefault
}

// Abrir godoc
// @Summary Abre un nuevo turno de caja
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirTurnoRequest true "Datos de apertura"
// @Success 201 {object} dto.TurnoResponse
// @Failure 409 {object} apierror.ConflictError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/turnos/abrir [post]
func (h *TurnoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Caja = h.resolveCaja(c, req.Caja)

	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}

	resp, err := h.turnos.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra un turno con arqueo de efectivo
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del turno"
// @Param body body dto.CerrarTurnoRequest true "Declaración de cierre"
// @Success 200 {object} dto.CierreTurnoResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.ConflictError
// @Router /v1/turnos/{id}/cerrar [post]
func (h *TurnoHandler) Cerrar(c *gin.Context) {
	turnoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}

	resp, err := h.turnos.Cerrar(c.Request.Context(), turnoID, usuarioID, claims.Rol, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CierreForzado godoc
// @Summary Cierre forzado de un turno (solo supervisores)
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del turno"
// @Param body body dto.CierreForzadoRequest true "Motivo y conteo"
// @Success 200 {object} dto.CierreTurnoResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.ConflictError
// @Router /v1/turnos/{id}/cierre-forzado [post]
func (h *TurnoHandler) CierreForzado(c *gin.Context) {
	turnoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CierreForzadoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}

	resp, err := h.turnos.CierreForzado(c.Request.Context(), turnoID, usuarioID, claims.Rol, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activo returns the open turno for a caja, with its running resumen.
func (h *TurnoHandler) Activo(c *gin.Context) {
	caja := h.resolveCaja(c, c.Param("caja"))

	resp, err := h.turnos.Activo(c.Request.Context(), caja)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns a paginated, filterable list of past turnos for a caja.
func (h *TurnoHandler) Historial(c *gin.Context) {
	caja := h.resolveCaja(c, c.Param("caja"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.HistorialFilter{
		Estado: c.Query("estado"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("desde"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Parámetro desde inválido (AAAA-MM-DD)"))
			return
		}
		filter.Desde = &t
	}
	if v := c.Query("hasta"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Parámetro hasta inválido (AAAA-MM-DD)"))
			return
		}
		filter.Hasta = &t
	}

	resp, err := h.turnos.Historial(c.Request.Context(), caja, filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un movimiento en el turno abierto de la caja
// @Tags turnos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/turnos/movimiento [post]
func (h *TurnoHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Caja = h.resolveCaja(c, req.Caja)

	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}

	resp, err := h.movimientos.Registrar(c.Request.Context(), usuarioID, claims.Rol, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MesasPendientes lists the mesas currently billed but uncollected — the
// same set that would block a turno close.
func (h *TurnoHandler) MesasPendientes(c *gin.Context) {
	mesas, err := h.mesas.PendientesDeCobro(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mesas": mesas, "total": len(mesas)})
}
