package repository

import (
	"context"
	"time"

	"mesapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoVendido is one row of the day's best-seller ranking.
type ProductoVendido struct {
	Descripcion string
	Cantidad    int64
}

type VentaRepository interface {
	// TotalVentasDelDia returns count and summed total of the day's ventas.
	TotalVentasDelDia(ctx context.Context, dia time.Time) (int64, decimal.Decimal, error)
	TopProductosDelDia(ctx context.Context, dia time.Time, limit int) ([]ProductoVendido, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) TotalVentasDelDia(ctx context.Context, dia time.Time) (int64, decimal.Decimal, error) {
	desde, hasta := rangoDia(dia)

	var count int64
	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("created_at >= ? AND created_at < ?", desde, hasta)
	if err := q.Count(&count).Error; err != nil {
		return 0, decimal.Zero, err
	}

	var row struct{ Total decimal.Decimal }
	if err := q.Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return count, row.Total, nil
}

func (r *ventaRepo) TopProductosDelDia(ctx context.Context, dia time.Time, limit int) ([]ProductoVendido, error) {
	desde, hasta := rangoDia(dia)
	var rows []ProductoVendido
	err := r.db.WithContext(ctx).Model(&model.VentaItem{}).
		Select("venta_items.descripcion, SUM(venta_items.cantidad) AS cantidad").
		Joins("JOIN ventas ON ventas.id = venta_items.venta_id").
		Where("ventas.created_at >= ? AND ventas.created_at < ?", desde, hasta).
		Group("venta_items.descripcion").
		Order("cantidad DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
