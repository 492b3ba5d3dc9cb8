package handler

import (
	"errors"
	"net/http"
	"reflect"

	"mesapos/internal/apierror"
	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeDomainError maps service-layer errors to HTTP responses. Conflict
// (409) and forbidden (403) responses carry structured data so the UI can
// act on them: list the mesas blocking a close, link to the turno already
// open, or name the user who must close it.
func writeDomainError(c *gin.Context, err error) {
	var (
		abierto      *service.TurnoAbiertoError
		duplicado    *service.TurnoDuplicadoError
		noEncontrado *service.TurnoNoEncontradoError
		noAbierto    *service.TurnoNoAbiertoError
		mesas        *service.MesasPendientesError
		cierreNoAut  *service.CierreNoAutorizadoError
		autRequerida *service.AutorizacionRequeridaError
	)

	switch {
	case errors.As(err, &abierto):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), gin.H{
			"turno_id":    abierto.TurnoID.String(),
			"nombre":      abierto.Nombre,
			"abierto_por": abierto.AbiertoPor.String(),
		}))
	case errors.As(err, &duplicado):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), gin.H{
			"caja":   duplicado.Caja,
			"nombre": duplicado.Nombre,
		}))
	case errors.As(err, &noAbierto):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), gin.H{
			"turno_id": noAbierto.TurnoID.String(),
			"estado":   noAbierto.Estado,
		}))
	case errors.As(err, &mesas):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error(), gin.H{
			"mesas_pendientes": mesas.Mesas,
		}))
	case errors.As(err, &cierreNoAut):
		c.JSON(http.StatusForbidden, apierror.NewForbidden(err.Error(), gin.H{
			"abierto_por": cierreNoAut.AbiertoPor.String(),
		}))
	case errors.As(err, &autRequerida):
		c.JSON(http.StatusForbidden, apierror.NewForbidden(err.Error(), gin.H{
			"tipo":   autRequerida.Tipo,
			"monto":  autRequerida.Monto.StringFixed(2),
			"umbral": autRequerida.Umbral.StringFixed(2),
		}))
	case errors.Is(err, service.ErrRolInsuficiente):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.As(err, &noEncontrado), errors.Is(err, service.ErrSinTurnoAbierto):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrMontoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
