package service

import (
	"context"
	"time"

	"mesapos/internal/config"
	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoService is the till ledger: it appends movements to the open
// turno of a caja and aggregates them. Movements are immutable — there is
// no update or delete path anywhere in the service or its repository.
type MovimientoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, rol string, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.ResumenCaja, error)
}

type movimientoService struct {
	repo   repository.MovimientoRepository
	turnos repository.TurnoRepository
	cfg    *config.Config
}

func NewMovimientoService(repo repository.MovimientoRepository, turnos repository.TurnoRepository, cfg *config.Config) MovimientoService {
	return &movimientoService{repo: repo, turnos: turnos, cfg: cfg}
}

// tiposConAutorizacion are gated by the high-value authorization policy.
var tiposConAutorizacion = map[string]bool{
	model.MovRetiro:        true,
	model.MovPagoProveedor: true,
	model.MovAjuste:        true,
}

func (s *movimientoService) Registrar(ctx context.Context, usuarioID uuid.UUID, rol string, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	mov := &model.MovimientoCaja{
		Tipo:          req.Tipo,
		Concepto:      req.Concepto,
		Monto:         req.Monto,
		MetodoPago:    req.MetodoPago,
		RegistradoPor: usuarioID,
		Notas:         req.Notas,
	}

	// Authorization policy: evaluated before anything is persisted.
	umbral := decimal.NewFromFloat(s.cfg.UmbralAutorizacion)
	if tiposConAutorizacion[req.Tipo] && req.Monto.GreaterThan(umbral) {
		switch {
		case model.RolElevado(rol):
			mov.AutorizadoPor = &usuarioID
		case req.AutorizadoPor != nil:
			autorizante, err := uuid.Parse(*req.AutorizadoPor)
			if err != nil {
				return nil, &AutorizacionRequeridaError{Tipo: req.Tipo, Monto: req.Monto, Umbral: umbral}
			}
			mov.AutorizadoPor = &autorizante
		default:
			return nil, &AutorizacionRequeridaError{Tipo: req.Tipo, Monto: req.Monto, Umbral: umbral}
		}
	}

	if req.VentaID != nil {
		if ventaID, err := uuid.Parse(*req.VentaID); err == nil {
			mov.VentaID = &ventaID
		}
	}

	// The open-turno lookup and the insert share one transaction: a close
	// committing in between would otherwise land this movement on a turno
	// whose reconciliation already summed the ledger.
	txErr := runTx(ctx, s.turnos.DB(), func(tx *gorm.DB) error {
		turno, err := s.turnos.FindAbiertoPorCajaTx(tx, req.Caja)
		if err != nil {
			return err
		}
		if turno == nil {
			return ErrSinTurnoAbierto
		}
		mov.TurnoID = turno.ID
		return s.repo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *movimientoService) Resumen(ctx context.Context, turnoID uuid.UUID) (*dto.ResumenCaja, error) {
	rows, err := s.repo.SumPorTipoYMetodo(ctx, turnoID)
	if err != nil {
		return nil, err
	}
	resumen := foldResumen(rows)
	return &resumen, nil
}

// foldResumen collapses GROUP BY (tipo, metodo) rows into the per-tipo and
// per-metodo totals plus the net cash figure used for reconciliation.
func foldResumen(rows []repository.TotalTipoMetodo) dto.ResumenCaja {
	porTipo := map[string]decimal.Decimal{
		model.MovVenta:         decimal.Zero,
		model.MovIngresoFondo:  decimal.Zero,
		model.MovRetiro:        decimal.Zero,
		model.MovGasto:         decimal.Zero,
		model.MovPagoProveedor: decimal.Zero,
		model.MovAjuste:        decimal.Zero,
		model.MovArqueo:        decimal.Zero,
		model.MovTransferencia: decimal.Zero,
	}
	porMetodo := map[string]decimal.Decimal{
		model.MetodoEfectivo:      decimal.Zero,
		model.MetodoDebito:        decimal.Zero,
		model.MetodoCredito:       decimal.Zero,
		model.MetodoTransferencia: decimal.Zero,
		model.MetodoBilleteraQR:   decimal.Zero,
	}

	for _, row := range rows {
		porTipo[row.Tipo] = porTipo[row.Tipo].Add(row.Total)

		signed := row.Total
		if direccion(row.Tipo) < 0 {
			signed = signed.Neg()
		}
		porMetodo[row.MetodoPago] = porMetodo[row.MetodoPago].Add(signed)
	}

	return dto.ResumenCaja{
		PorTipo:       porTipo,
		PorMetodo:     porMetodo,
		TotalEfectivo: porMetodo[model.MetodoEfectivo],
	}
}

// direccion resolves a tipo's ledger direction. Ventas and fund injections
// add; arqueo rows are stored signed so they add as-is; everything else is
// money leaving the drawer.
func direccion(tipo string) int {
	switch tipo {
	case model.MovVenta, model.MovIngresoFondo, model.MovArqueo:
		return 1
	default:
		return -1
	}
}

func movimientoToResponse(m *model.MovimientoCaja) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:            m.ID.String(),
		Tipo:          m.Tipo,
		Concepto:      m.Concepto,
		Monto:         m.Monto,
		MetodoPago:    m.MetodoPago,
		RegistradoPor: m.RegistradoPor.String(),
		Notas:         m.Notas,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
	if m.AutorizadoPor != nil {
		aut := m.AutorizadoPor.String()
		resp.AutorizadoPor = &aut
	}
	return resp
}
