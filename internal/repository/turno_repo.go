package repository

import (
	"context"
	"errors"
	"time"

	"mesapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialFilter narrows the turno history listing.
type HistorialFilter struct {
	Desde  *time.Time
	Hasta  *time.Time
	Estado string
	Page   int
	Limit  int
}

type TurnoRepository interface {
	// DB exposes the underlying handle so services can compose multi-row
	// writes into one transaction. Nil in unit tests.
	DB() *gorm.DB

	CreateTx(tx *gorm.DB, t *model.Turno) error
	UpdateTx(tx *gorm.DB, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error)
	// FindAbiertoPorCaja returns (nil, nil) when no turno is open.
	FindAbiertoPorCaja(ctx context.Context, caja string) (*model.Turno, error)
	FindAbiertoPorCajaTx(tx *gorm.DB, caja string) (*model.Turno, error)
	// ExisteDelDiaTx reports whether a turno with the same (caja, nombre)
	// was already opened on dia's calendar date.
	ExisteDelDiaTx(tx *gorm.DB, caja, nombre string, dia time.Time) (bool, error)
	// UltimoCerradoTx returns the most recently closed turno for the caja,
	// or (nil, nil) if none exists.
	UltimoCerradoTx(tx *gorm.DB, caja string) (*model.Turno, error)
	CountCerradosDelDia(ctx context.Context, caja string, dia time.Time) (int64, error)
	ListDelDia(ctx context.Context, caja string, dia time.Time) ([]model.Turno, error)
	Historial(ctx context.Context, caja string, f HistorialFilter) ([]model.Turno, int64, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) CreateTx(tx *gorm.DB, t *model.Turno) error {
	return tx.Create(t).Error
}

func (r *turnoRepo) UpdateTx(tx *gorm.DB, t *model.Turno) error {
	return tx.Save(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).Preload("Movimientos").First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	if err := tx.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindAbiertoPorCaja(ctx context.Context, caja string) (*model.Turno, error) {
	return findAbierto(r.db.WithContext(ctx), caja)
}

func (r *turnoRepo) FindAbiertoPorCajaTx(tx *gorm.DB, caja string) (*model.Turno, error) {
	return findAbierto(tx, caja)
}

func findAbierto(db *gorm.DB, caja string) (*model.Turno, error) {
	var t model.Turno
	err := db.Where("caja = ? AND estado = ?", caja, model.TurnoAbierto).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) ExisteDelDiaTx(tx *gorm.DB, caja, nombre string, dia time.Time) (bool, error) {
	desde, hasta := rangoDia(dia)
	var count int64
	err := tx.Model(&model.Turno{}).
		Where("caja = ? AND nombre = ? AND abierto_at >= ? AND abierto_at < ?", caja, nombre, desde, hasta).
		Count(&count).Error
	return count > 0, err
}

func (r *turnoRepo) UltimoCerradoTx(tx *gorm.DB, caja string) (*model.Turno, error) {
	var t model.Turno
	err := tx.Where("caja = ? AND estado IN ?", caja, []string{model.TurnoCerrado, model.TurnoCierreForzado}).
		Order("cerrado_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) CountCerradosDelDia(ctx context.Context, caja string, dia time.Time) (int64, error) {
	desde, hasta := rangoDia(dia)
	var count int64
	// Only estado "cerrado" counts toward the daily trigger; cierre_forzado
	// intentionally does not.
	err := r.db.WithContext(ctx).Model(&model.Turno{}).
		Where("caja = ? AND estado = ? AND cerrado_at >= ? AND cerrado_at < ?",
			caja, model.TurnoCerrado, desde, hasta).
		Count(&count).Error
	return count, err
}

func (r *turnoRepo) ListDelDia(ctx context.Context, caja string, dia time.Time) ([]model.Turno, error) {
	desde, hasta := rangoDia(dia)
	var turnos []model.Turno
	err := r.db.WithContext(ctx).
		Where("caja = ? AND abierto_at >= ? AND abierto_at < ?", caja, desde, hasta).
		Order("abierto_at ASC").
		Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) Historial(ctx context.Context, caja string, f HistorialFilter) ([]model.Turno, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Turno{}).Where("caja = ?", caja)
	if f.Desde != nil {
		q = q.Where("abierto_at >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("abierto_at < ?", *f.Hasta)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var turnos []model.Turno
	err := q.Order("abierto_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&turnos).Error
	return turnos, total, err
}

// rangoDia returns the local calendar-day boundaries [00:00, 24:00) of t.
func rangoDia(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	desde := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return desde, desde.AddDate(0, 0, 1)
}
