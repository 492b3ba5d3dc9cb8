package repository

import (
	"context"

	"mesapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TotalTipoMetodo is one GROUP BY (tipo, metodo_pago) aggregation row.
type TotalTipoMetodo struct {
	Tipo       string
	MetodoPago string
	Total      decimal.Decimal
}

// MovimientoRepository is append-only: there is no Update or Delete, by
// construction. Corrections insert compensating ajuste/arqueo rows.
type MovimientoRepository interface {
	Create(ctx context.Context, m *model.MovimientoCaja) error
	CreateTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error)
	SumPorTipoYMetodo(ctx context.Context, turnoID uuid.UUID) ([]TotalTipoMetodo, error)
	SumPorTipoYMetodoTx(tx *gorm.DB, turnoID uuid.UUID) ([]TotalTipoMetodo, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) Create(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) SumPorTipoYMetodo(ctx context.Context, turnoID uuid.UUID) ([]TotalTipoMetodo, error) {
	return sumPorTipoYMetodo(r.db.WithContext(ctx), turnoID)
}

func (r *movimientoRepo) SumPorTipoYMetodoTx(tx *gorm.DB, turnoID uuid.UUID) ([]TotalTipoMetodo, error) {
	return sumPorTipoYMetodo(tx, turnoID)
}

// sumPorTipoYMetodo skips the automatic opening-fund row: reconciliation
// adds the fondo inicial on its own, so including it here would count the
// fund twice.
func sumPorTipoYMetodo(db *gorm.DB, turnoID uuid.UUID) ([]TotalTipoMetodo, error) {
	var rows []TotalTipoMetodo
	err := db.Model(&model.MovimientoCaja{}).
		Select("tipo, metodo_pago, SUM(monto) AS total").
		Where("turno_id = ? AND fondo_apertura = false", turnoID).
		Group("tipo, metodo_pago").
		Scan(&rows).Error
	return rows, err
}
