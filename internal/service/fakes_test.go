package service

import (
	"context"
	"sort"
	"time"

	"mesapos/internal/config"
	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		ToleranciaArqueo:   0.01,
		UmbralAutorizacion: 10000,
		TurnosCierreDia:    3,
		CajaDefault:        "PRINCIPAL",
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ── Full in-memory TurnoRepository ───────────────────────────────────────────

type fakeTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
	// abiertoTxLookups counts open-turno lookups made inside a transaction
	// body; movement inserts must resolve their turno there, not outside.
	abiertoTxLookups int
}

func newFakeTurnoRepo() *fakeTurnoRepo {
	return &fakeTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

// DB returns nil so services run their transaction bodies directly.
func (r *fakeTurnoRepo) DB() *gorm.DB { return nil }

func (r *fakeTurnoRepo) CreateTx(_ *gorm.DB, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *fakeTurnoRepo) UpdateTx(_ *gorm.DB, t *model.Turno) error {
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *fakeTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	return r.findByID(id)
}

func (r *fakeTurnoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	return r.findByID(id)
}

func (r *fakeTurnoRepo) findByID(id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTurnoRepo) FindAbiertoPorCaja(_ context.Context, caja string) (*model.Turno, error) {
	return r.findAbierto(caja)
}

func (r *fakeTurnoRepo) FindAbiertoPorCajaTx(_ *gorm.DB, caja string) (*model.Turno, error) {
	r.abiertoTxLookups++
	return r.findAbierto(caja)
}

func (r *fakeTurnoRepo) findAbierto(caja string) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.Caja == caja && t.Estado == model.TurnoAbierto {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTurnoRepo) ExisteDelDiaTx(_ *gorm.DB, caja, nombre string, dia time.Time) (bool, error) {
	for _, t := range r.turnos {
		if t.Caja == caja && t.Nombre == nombre && sameDay(t.AbiertoAt, dia) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTurnoRepo) UltimoCerradoTx(_ *gorm.DB, caja string) (*model.Turno, error) {
	var ultimo *model.Turno
	for _, t := range r.turnos {
		if t.Caja != caja || !t.Cerrado() || t.CerradoAt == nil {
			continue
		}
		if ultimo == nil || t.CerradoAt.After(*ultimo.CerradoAt) {
			ultimo = t
		}
	}
	if ultimo == nil {
		return nil, nil
	}
	cp := *ultimo
	return &cp, nil
}

func (r *fakeTurnoRepo) CountCerradosDelDia(_ context.Context, caja string, dia time.Time) (int64, error) {
	var count int64
	for _, t := range r.turnos {
		if t.Caja == caja && t.Estado == model.TurnoCerrado && t.CerradoAt != nil && sameDay(*t.CerradoAt, dia) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTurnoRepo) ListDelDia(_ context.Context, caja string, dia time.Time) ([]model.Turno, error) {
	var turnos []model.Turno
	for _, t := range r.turnos {
		if t.Caja == caja && sameDay(t.AbiertoAt, dia) {
			turnos = append(turnos, *t)
		}
	}
	sort.Slice(turnos, func(i, j int) bool { return turnos[i].AbiertoAt.Before(turnos[j].AbiertoAt) })
	return turnos, nil
}

func (r *fakeTurnoRepo) Historial(_ context.Context, caja string, f repository.HistorialFilter) ([]model.Turno, int64, error) {
	var all []model.Turno
	for _, t := range r.turnos {
		if t.Caja != caja {
			continue
		}
		if f.Estado != "" && t.Estado != f.Estado {
			continue
		}
		if f.Desde != nil && t.AbiertoAt.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && !t.AbiertoAt.Before(*f.Hasta) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AbiertoAt.After(all[j].AbiertoAt) })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.TurnoRepository = (*fakeTurnoRepo)(nil)

// ── Full in-memory MovimientoRepository ──────────────────────────────────────

type fakeMovimientoRepo struct {
	movimientos []model.MovimientoCaja
}

func (r *fakeMovimientoRepo) Create(_ context.Context, m *model.MovimientoCaja) error {
	return r.append(m)
}

func (r *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	return r.append(m)
}

func (r *fakeMovimientoRepo) append(m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoRepo) ListByTurno(_ context.Context, turnoID uuid.UUID) ([]model.MovimientoCaja, error) {
	var result []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.TurnoID == turnoID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovimientoRepo) SumPorTipoYMetodo(_ context.Context, turnoID uuid.UUID) ([]repository.TotalTipoMetodo, error) {
	return r.sum(turnoID)
}

func (r *fakeMovimientoRepo) SumPorTipoYMetodoTx(_ *gorm.DB, turnoID uuid.UUID) ([]repository.TotalTipoMetodo, error) {
	return r.sum(turnoID)
}

// sum mirrors the SQL aggregate: GROUP BY (tipo, metodo_pago), skipping the
// opening-fund row.
func (r *fakeMovimientoRepo) sum(turnoID uuid.UUID) ([]repository.TotalTipoMetodo, error) {
	type clave struct{ tipo, metodo string }
	totales := make(map[clave]decimal.Decimal)
	for _, m := range r.movimientos {
		if m.TurnoID != turnoID || m.FondoApertura {
			continue
		}
		k := clave{m.Tipo, m.MetodoPago}
		totales[k] = totales[k].Add(m.Monto)
	}
	rows := make([]repository.TotalTipoMetodo, 0, len(totales))
	for k, total := range totales {
		rows = append(rows, repository.TotalTipoMetodo{Tipo: k.tipo, MetodoPago: k.metodo, Total: total})
	}
	return rows, nil
}

// ultimo returns the most recently appended movement of the given tipo.
func (r *fakeMovimientoRepo) ultimo(turnoID uuid.UUID, tipo string) *model.MovimientoCaja {
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].TurnoID == turnoID && r.movimientos[i].Tipo == tipo {
			return &r.movimientos[i]
		}
	}
	return nil
}

var _ repository.MovimientoRepository = (*fakeMovimientoRepo)(nil)

// ── Gate, report and venta fakes ─────────────────────────────────────────────

type fakeMesaService struct {
	pendientes []dto.MesaPendienteResponse
}

func (s *fakeMesaService) PendientesDeCobro(context.Context) ([]dto.MesaPendienteResponse, error) {
	return s.pendientes, nil
}

var _ MesaService = (*fakeMesaService)(nil)

type fakeReporteService struct {
	evaluaciones []string // cajas passed to EvaluarCierreDelDia
	resp         dto.ConsolidacionResponse
}

func (s *fakeReporteService) EvaluarCierreDelDia(_ context.Context, caja string, _ time.Time) *dto.ConsolidacionResponse {
	s.evaluaciones = append(s.evaluaciones, caja)
	resp := s.resp
	return &resp
}

func (s *fakeReporteService) ReporteDelDia(context.Context, string, time.Time) (*dto.ReporteDiario, error) {
	return nil, nil
}

var _ ReporteService = (*fakeReporteService)(nil)

type fakeVentaRepo struct {
	cantidad int64
	total    decimal.Decimal
	top      []repository.ProductoVendido
}

func (r *fakeVentaRepo) TotalVentasDelDia(context.Context, time.Time) (int64, decimal.Decimal, error) {
	return r.cantidad, r.total, nil
}

func (r *fakeVentaRepo) TopProductosDelDia(_ context.Context, _ time.Time, limit int) ([]repository.ProductoVendido, error) {
	if len(r.top) > limit {
		return r.top[:limit], nil
	}
	return r.top, nil
}

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

type fakeDestinatarios struct {
	emails []string
}

func (s *fakeDestinatarios) Listar(context.Context) ([]string, error) { return s.emails, nil }

func (s *fakeDestinatarios) Guardar(_ context.Context, emails []string) error {
	s.emails = emails
	return nil
}

var _ DestinatariosService = (*fakeDestinatarios)(nil)
