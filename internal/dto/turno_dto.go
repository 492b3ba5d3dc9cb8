package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirTurnoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=60"`
	// Caja defaults to the user's assigned caja (or CAJA_DEFAULT) when empty.
	Caja       string `json:"caja" validate:"omitempty,max=40"`
	HoraInicio string `json:"hora_inicio" validate:"required,datetime=15:04"`
	HoraFin    string `json:"hora_fin"    validate:"required,datetime=15:04"`
	// FondoInicial is only effective when no prior closed turno exists for
	// the caja; otherwise the carried balance overrides it.
	FondoInicial  decimal.Decimal `json:"fondo_inicial" validate:"min=0"`
	NotasApertura string          `json:"notas_apertura"`
}

type CerrarTurnoRequest struct {
	EfectivoContado decimal.Decimal `json:"efectivo_contado" validate:"min=0"`
	NotasCierre     *string         `json:"notas_cierre"`
	NotasArqueo     *string         `json:"notas_arqueo"`
}

type CierreForzadoRequest struct {
	Motivo          string          `json:"motivo" validate:"required,min=5"`
	EfectivoContado decimal.Decimal `json:"efectivo_contado" validate:"min=0"`
}

type RegistrarMovimientoRequest struct {
	Caja       string          `json:"caja"        validate:"omitempty,max=40"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=venta ingreso_fondo retiro gasto pago_proveedor ajuste transferencia"`
	Concepto   string          `json:"concepto"    validate:"required,min=3"`
	Monto      decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	MetodoPago string          `json:"metodo_pago" validate:"required,oneof=efectivo debito credito transferencia billetera_qr"`
	Notas      *string         `json:"notas"`
	// AutorizadoPor: supervisor who approved a high-value movement recorded
	// by a cajero.
	AutorizadoPor *string `json:"autorizado_por" validate:"omitempty,uuid"`
	VentaID       *string `json:"venta_id"       validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumenCaja aggregates a turno's ledger. TotalEfectivo is the net cash
// movement excluding the opening fund: efectivo amounts add for
// venta/ingreso_fondo, subtract for every other tipo, and arqueo rows
// contribute their own sign.
type ResumenCaja struct {
	PorTipo       map[string]decimal.Decimal `json:"por_tipo"`
	PorMetodo     map[string]decimal.Decimal `json:"por_metodo"`
	TotalEfectivo decimal.Decimal            `json:"total_efectivo"`
}

type MovimientoResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Concepto      string          `json:"concepto"`
	Monto         decimal.Decimal `json:"monto"`
	MetodoPago    string          `json:"metodo_pago"`
	RegistradoPor string          `json:"registrado_por"`
	AutorizadoPor *string         `json:"autorizado_por,omitempty"`
	Notas         *string         `json:"notas,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type TurnoResponse struct {
	ID              string           `json:"id"`
	Nombre          string           `json:"nombre"`
	Caja            string           `json:"caja"`
	HoraInicio      string           `json:"hora_inicio"`
	HoraFin         string           `json:"hora_fin"`
	Estado          string           `json:"estado"`
	FondoInicial    decimal.Decimal  `json:"fondo_inicial"`
	FondoFinal      *decimal.Decimal `json:"fondo_final,omitempty"`
	EfectivoContado *decimal.Decimal `json:"efectivo_contado,omitempty"`
	EfectivoSistema *decimal.Decimal `json:"efectivo_sistema,omitempty"`
	Diferencia      *decimal.Decimal `json:"diferencia,omitempty"`
	AbiertoPor      string           `json:"abierto_por"`
	AbiertoAt       string           `json:"abierto_at"`
	CerradoPor      *string          `json:"cerrado_por,omitempty"`
	CerradoAt       *string          `json:"cerrado_at,omitempty"`
	NotasApertura   string           `json:"notas_apertura,omitempty"`
	NotasCierre     *string          `json:"notas_cierre,omitempty"`
	NotasArqueo     *string          `json:"notas_arqueo,omitempty"`
	TurnoAnteriorID *string          `json:"turno_anterior_id,omitempty"`

	Resumen     *ResumenCaja         `json:"resumen,omitempty"`
	Movimientos []MovimientoResponse `json:"movimientos,omitempty"`
}

// CierreTurnoResponse is the close-operation payload: the terminal turno,
// its ledger summary, and the consolidation outcome.
type CierreTurnoResponse struct {
	Turno         TurnoResponse          `json:"turno"`
	Resumen       ResumenCaja            `json:"resumen"`
	Consolidacion *ConsolidacionResponse `json:"consolidacion,omitempty"`
}

// ConsolidacionResponse reports what the daily trigger did after a close.
type ConsolidacionResponse struct {
	Disparado       bool   `json:"disparado"`
	TurnosCerrados  int64  `json:"turnos_cerrados"`
	Destinatarios   int    `json:"destinatarios"`
	ReporteEncolado bool   `json:"reporte_encolado"`
	Detalle         string `json:"detalle,omitempty"`
}

type MesaPendienteResponse struct {
	ID     string `json:"id"`
	Numero int    `json:"numero"`
	Sector string `json:"sector"`
	Estado string `json:"estado"`
}

type HistorialResponse struct {
	Turnos []TurnoResponse `json:"data"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
