package repository

import (
	"context"

	"mesapos/internal/model"

	"gorm.io/gorm"
)

type MesaRepository interface {
	// PendientesDeCobro returns every mesa in estado "facturada", with its
	// sector preloaded. Pure query, no mutation.
	PendientesDeCobro(ctx context.Context) ([]model.Mesa, error)
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) PendientesDeCobro(ctx context.Context) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).
		Preload("Sector").
		Where("estado = ?", model.MesaFacturada).
		Order("numero ASC").
		Find(&mesas).Error
	return mesas, err
}
