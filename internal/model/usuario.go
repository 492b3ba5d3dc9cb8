package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles. Supervisor and administrador are the elevated roles: they may
// close turnos opened by others, force-close, authorize high-value
// movements and edit report recipients.
const (
	RolCajero        = "cajero"
	RolSupervisor    = "supervisor"
	RolAdministrador = "administrador"
)

// RolElevado reports whether rol carries supervisor-level permissions.
func RolElevado(rol string) bool {
	return rol == RolSupervisor || rol == RolAdministrador
}

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// Caja restricts a cashier to a specific register; nil = all registers
	Caja      *string `gorm:"type:varchar(40)"`
	Activo    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
