package model

import (
	"github.com/google/uuid"
)

// Estados de mesa. "facturada" means a fiscal or internal document was
// emitted but payment is not yet confirmed — the state that blocks any
// turno close until resolved.
const (
	MesaLibre           = "libre"
	MesaOcupada         = "ocupada"
	MesaEsperandoPedido = "esperando_pedido"
	MesaFacturada       = "facturada"
	MesaReservada       = "reservada"
	MesaFueraDeServicio = "fuera_de_servicio"
)

// Sector groups mesas by salon area.
type Sector struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"type:varchar(60);not null;uniqueIndex"`
}

// Mesa is the table billing read model consumed by the closure gate.
// Layout CRUD lives elsewhere; this service only ever queries estado.
type Mesa struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero   int       `gorm:"not null"`
	SectorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Sector   Sector    `gorm:"foreignKey:SectorID"`
	Estado   string    `gorm:"type:varchar(20);not null;default:'libre';index"`
}
