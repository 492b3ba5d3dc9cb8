package handler

import (
	"errors"
	"net/http"

	"mesapos/internal/apierror"
	"mesapos/internal/dto"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct{ svc service.DestinatariosService }

func NewConfigHandler(svc service.DestinatariosService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

// GetDestinatarios returns the recipient list for the consolidated daily report.
func (h *ConfigHandler) GetDestinatarios(c *gin.Context) {
	emails, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer destinatarios"))
		return
	}
	c.JSON(http.StatusOK, dto.DestinatariosResponse{Emails: emails})
}

// PostDestinatarios replaces the recipient list. An empty list is valid and
// disables report dispatch without touching the consolidation trigger.
func (h *ConfigHandler) PostDestinatarios(c *gin.Context) {
	var req dto.DestinatariosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Guardar(c.Request.Context(), req.Emails); err != nil {
		if errors.Is(err, service.ErrDemasiadosDestinatarios) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.DestinatariosResponse{Emails: req.Emails})
}
