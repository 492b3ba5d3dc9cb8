package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de turno. Transitions are one-way: abierto → cerrado or
// abierto → cierre_forzado; there is no way out of a terminal state.
const (
	TurnoAbierto       = "abierto"
	TurnoCerrado       = "cerrado"
	TurnoCierreForzado = "cierre_forzado"
)

// Tipos de movimiento de caja.
const (
	MovVenta         = "venta"
	MovIngresoFondo  = "ingreso_fondo"
	MovRetiro        = "retiro"
	MovGasto         = "gasto"
	MovPagoProveedor = "pago_proveedor"
	MovAjuste        = "ajuste"
	MovArqueo        = "arqueo"
	MovTransferencia = "transferencia"
)

// Metodos de pago.
const (
	MetodoEfectivo      = "efectivo"
	MetodoDebito        = "debito"
	MetodoCredito       = "credito"
	MetodoTransferencia = "transferencia"
	MetodoBilleteraQR   = "billetera_qr"
)

// Turno represents one opening-to-closing working period of a caja.
// At most one turno per caja may be in estado "abierto" at any time; that
// invariant is enforced at the storage level by a partial unique index
// (see infra.applySchemaPatches), not only by the application check.
type Turno struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"type:varchar(60);not null"`
	Caja   string    `gorm:"type:varchar(40);not null;index"`
	// Scheduled start/end time-of-day, "HH:MM"
	HoraInicio string `gorm:"type:varchar(5)"`
	HoraFin    string `gorm:"type:varchar(5)"`
	// FondoInicial is the effective opening fund. When a previous closed
	// turno exists for the caja it is carried from that turno's FondoFinal.
	FondoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'abierto'"`
	AbiertoPor   uuid.UUID       `gorm:"type:uuid;not null"`
	AbiertoAt    time.Time       `gorm:"not null"`
	CerradoPor   *uuid.UUID      `gorm:"type:uuid"`
	CerradoAt    *time.Time      `gorm:"index"`
	// Close-time amounts — all nil while abierto, all non-nil once closed.
	FondoFinal      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoContado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoSistema *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferencia = contado - sistema
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	NotasApertura string
	NotasCierre   *string
	NotasArqueo   *string
	// TurnoAnteriorID chains drawer custody: the immediately preceding
	// closed turno for the same caja.
	TurnoAnteriorID *uuid.UUID `gorm:"type:uuid"`

	Movimientos []MovimientoCaja `gorm:"foreignKey:TurnoID"`
}

// Cerrado reports whether the turno reached a terminal state.
func (t *Turno) Cerrado() bool {
	return t.Estado == TurnoCerrado || t.Estado == TurnoCierreForzado
}

// MovimientoCaja is an immutable event in the cash register ledger.
// Movements are NEVER modified or deleted — corrections append new
// ajuste/arqueo entries.
//
// Monto is always a positive magnitude; direction is derived from Tipo.
// The single exception is tipo "arqueo", whose rows carry the signed
// reconciliation difference.
type MovimientoCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TurnoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Concepto      string          `gorm:"not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago    string          `gorm:"type:varchar(20);not null"`
	RegistradoPor uuid.UUID       `gorm:"type:uuid;not null"`
	Notas         *string
	// FondoApertura marks the automatic opening-fund movement. It is part
	// of the audit trail but excluded from the summarize aggregates: the
	// reconciliation formula already adds FondoInicial separately.
	FondoApertura bool `gorm:"not null;default:false"`
	// AutorizadoPor is required for high-value retiros/pagos/ajustes
	// recorded by a non-elevated user.
	AutorizadoPor *uuid.UUID `gorm:"type:uuid"`
	VentaID       *uuid.UUID `gorm:"type:uuid"`
	// Fiscal snapshot when the movement documents a sale
	TipoComprobante   *string `gorm:"type:varchar(30)"`
	NumeroComprobante *string `gorm:"type:varchar(30)"`
	CAE               *string `gorm:"type:varchar(20);column:cae"`
	CreatedAt         time.Time
}
