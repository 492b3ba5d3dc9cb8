package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is consumed read-only by the daily consolidated report; sale
// ingestion happens in a separate subsystem that also records the matching
// MovimientoCaja entries.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int64           `gorm:"uniqueIndex;not null"`
	TurnoID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"index"`

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem carries a denormalized product description snapshot so the
// top-sellers report needs no join against a catalog table.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
