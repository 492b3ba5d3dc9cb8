package service

import (
	"errors"
	"fmt"

	"mesapos/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors carry the structured detail a client needs to resolve the
// condition without a second round-trip; handlers map them to HTTP status
// codes with errors.As.

var (
	ErrMontoInvalido   = errors.New("el monto debe ser mayor a 0")
	ErrRolInsuficiente = errors.New("se requiere rol supervisor o administrador")
	ErrSinTurnoAbierto = errors.New("no hay un turno abierto en esta caja")
)

// TurnoAbiertoError: an open turno already exists for the caja.
type TurnoAbiertoError struct {
	TurnoID    uuid.UUID
	Nombre     string
	AbiertoPor uuid.UUID
}

func (e *TurnoAbiertoError) Error() string {
	return fmt.Sprintf("ya existe un turno abierto (%s) en esta caja", e.Nombre)
}

// TurnoDuplicadoError: a turno with the same (caja, nombre) was already
// opened on the same calendar day.
type TurnoDuplicadoError struct {
	Caja   string
	Nombre string
}

func (e *TurnoDuplicadoError) Error() string {
	return fmt.Sprintf("el turno %q ya fue abierto hoy en la caja %s", e.Nombre, e.Caja)
}

// TurnoNoEncontradoError: unknown turno id.
type TurnoNoEncontradoError struct {
	TurnoID uuid.UUID
}

func (e *TurnoNoEncontradoError) Error() string {
	return "turno no encontrado"
}

// TurnoNoAbiertoError: the target turno is in a terminal state.
type TurnoNoAbiertoError struct {
	TurnoID uuid.UUID
	Estado  string
}

func (e *TurnoNoAbiertoError) Error() string {
	return fmt.Sprintf("el turno ya está cerrado (estado %s)", e.Estado)
}

// MesasPendientesError blocks any turno close while mesas remain billed but
// uncollected. Forced close does not bypass this gate.
type MesasPendientesError struct {
	Mesas []dto.MesaPendienteResponse
}

func (e *MesasPendientesError) Error() string {
	return fmt.Sprintf("hay %d mesa(s) facturadas sin cobrar", len(e.Mesas))
}

// CierreNoAutorizadoError: the closer is neither the opener nor elevated.
// AbiertoPor lets the UI explain who must close the turno.
type CierreNoAutorizadoError struct {
	AbiertoPor uuid.UUID
}

func (e *CierreNoAutorizadoError) Error() string {
	return "solo quien abrió el turno o un supervisor puede cerrarlo"
}

// AutorizacionRequeridaError: a high-value movement lacks both an elevated
// recording role and an authorizing supervisor reference.
type AutorizacionRequeridaError struct {
	Tipo   string
	Monto  decimal.Decimal
	Umbral decimal.Decimal
}

func (e *AutorizacionRequeridaError) Error() string {
	return fmt.Sprintf("un movimiento %s de %s supera el umbral de %s y requiere autorización de un supervisor",
		e.Tipo, e.Monto.StringFixed(2), e.Umbral.StringFixed(2))
}
