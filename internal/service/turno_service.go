package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mesapos/internal/config"
	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TurnoService owns the shift state machine: abierto → cerrado or
// abierto → cierre_forzado, never out of a terminal state. Every open and
// close runs as a single transaction — precondition checks, the state
// mutation and the ledger inserts commit together or not at all.
type TurnoService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, turnoID, usuarioID uuid.UUID, rol string, req dto.CerrarTurnoRequest) (*dto.CierreTurnoResponse, error)
	CierreForzado(ctx context.Context, turnoID, usuarioID uuid.UUID, rol string, req dto.CierreForzadoRequest) (*dto.CierreTurnoResponse, error)
	Activo(ctx context.Context, caja string) (*dto.TurnoResponse, error)
	Historial(ctx context.Context, caja string, f repository.HistorialFilter) (*dto.HistorialResponse, error)
}

type turnoService struct {
	turnos      repository.TurnoRepository
	movimientos repository.MovimientoRepository
	mesas       MesaService
	reportes    ReporteService
	cfg         *config.Config
}

func NewTurnoService(
	turnos repository.TurnoRepository,
	movimientos repository.MovimientoRepository,
	mesas MesaService,
	reportes ReporteService,
	cfg *config.Config,
) TurnoService {
	return &turnoService{
		turnos:      turnos,
		movimientos: movimientos,
		mesas:       mesas,
		reportes:    reportes,
		cfg:         cfg,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *turnoService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	now := time.Now()
	turno := &model.Turno{
		Nombre:        req.Nombre,
		Caja:          req.Caja,
		HoraInicio:    req.HoraInicio,
		HoraFin:       req.HoraFin,
		Estado:        model.TurnoAbierto,
		AbiertoPor:    usuarioID,
		AbiertoAt:     now,
		NotasApertura: req.NotasApertura,
	}

	txErr := runTx(ctx, s.turnos.DB(), func(tx *gorm.DB) error {
		existente, err := s.turnos.FindAbiertoPorCajaTx(tx, req.Caja)
		if err != nil {
			return err
		}
		if existente != nil {
			return &TurnoAbiertoError{
				TurnoID:    existente.ID,
				Nombre:     existente.Nombre,
				AbiertoPor: existente.AbiertoPor,
			}
		}

		duplicado, err := s.turnos.ExisteDelDiaTx(tx, req.Caja, req.Nombre, now)
		if err != nil {
			return err
		}
		if duplicado {
			return &TurnoDuplicadoError{Caja: req.Caja, Nombre: req.Nombre}
		}

		// Balance chaining: the carried fund of the last closed turno
		// overrides the caller-supplied amount — unbroken drawer custody.
		fondo := req.FondoInicial
		ultimo, err := s.turnos.UltimoCerradoTx(tx, req.Caja)
		if err != nil {
			return err
		}
		if ultimo != nil && ultimo.FondoFinal != nil {
			fondo = *ultimo.FondoFinal
			turno.TurnoAnteriorID = &ultimo.ID
		}
		turno.FondoInicial = fondo

		if err := s.turnos.CreateTx(tx, turno); err != nil {
			return err
		}

		return s.movimientos.CreateTx(tx, &model.MovimientoCaja{
			TurnoID:       turno.ID,
			Tipo:          model.MovIngresoFondo,
			Concepto:      "Fondo de apertura",
			Monto:         fondo,
			MetodoPago:    model.MetodoEfectivo,
			RegistradoPor: usuarioID,
			FondoApertura: true,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := turnoToResponse(turno)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *turnoService) Cerrar(ctx context.Context, turnoID, usuarioID uuid.UUID, rol string, req dto.CerrarTurnoRequest) (*dto.CierreTurnoResponse, error) {
	if err := s.verificarMesas(ctx); err != nil {
		return nil, err
	}

	turno, resumen, err := s.cerrarTx(ctx, turnoID, usuarioID, req.EfectivoContado, cierreParams{
		estadoFinal:   model.TurnoCerrado,
		notasCierre:   req.NotasCierre,
		notasArqueo:   req.NotasArqueo,
		arqueoForzado: false,
		validarCierre: func(t *model.Turno) error {
			if usuarioID != t.AbiertoPor && !model.RolElevado(rol) {
				return &CierreNoAutorizadoError{AbiertoPor: t.AbiertoPor}
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	// The consolidation trigger runs after the close committed; its outcome
	// is informational and its failures never surface as a close failure.
	consolidacion := s.reportes.EvaluarCierreDelDia(ctx, turno.Caja, *turno.CerradoAt)

	turnoResp := turnoToResponse(turno)
	return &dto.CierreTurnoResponse{
		Turno:         turnoResp,
		Resumen:       *resumen,
		Consolidacion: consolidacion,
	}, nil
}

// ── CierreForzado ─────────────────────────────────────────────────────────────

func (s *turnoService) CierreForzado(ctx context.Context, turnoID, usuarioID uuid.UUID, rol string, req dto.CierreForzadoRequest) (*dto.CierreTurnoResponse, error) {
	if !model.RolElevado(rol) {
		return nil, ErrRolInsuficiente
	}
	// Forced close checks the same gate: accounting never closes while
	// money owed is unrecorded.
	if err := s.verificarMesas(ctx); err != nil {
		return nil, err
	}

	notas := fmt.Sprintf("[CIERRE FORZADO] %s", req.Motivo)
	motivo := req.Motivo
	turno, resumen, err := s.cerrarTx(ctx, turnoID, usuarioID, req.EfectivoContado, cierreParams{
		estadoFinal:   model.TurnoCierreForzado,
		notasCierre:   &notas,
		notasArqueo:   &motivo,
		arqueoForzado: true,
		validarCierre: func(*model.Turno) error { return nil },
	})
	if err != nil {
		return nil, err
	}

	log.Warn().
		Str("turno_id", turno.ID.String()).
		Str("caja", turno.Caja).
		Str("supervisor", usuarioID.String()).
		Str("motivo", req.Motivo).
		Msg("turno cerrado forzadamente")

	turnoResp := turnoToResponse(turno)
	return &dto.CierreTurnoResponse{Turno: turnoResp, Resumen: *resumen}, nil
}

type cierreParams struct {
	estadoFinal   string
	notasCierre   *string
	notasArqueo   *string
	arqueoForzado bool
	validarCierre func(*model.Turno) error
}

// cerrarTx runs the shared close transaction: state checks, reconciliation
// arithmetic, the terminal-state mutation and the arqueo movement.
func (s *turnoService) cerrarTx(ctx context.Context, turnoID, usuarioID uuid.UUID, contado decimal.Decimal, p cierreParams) (*model.Turno, *dto.ResumenCaja, error) {
	var turno *model.Turno
	var resumen dto.ResumenCaja
	tolerancia := decimal.NewFromFloat(s.cfg.ToleranciaArqueo)

	txErr := runTx(ctx, s.turnos.DB(), func(tx *gorm.DB) error {
		var err error
		turno, err = s.turnos.FindByIDTx(tx, turnoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &TurnoNoEncontradoError{TurnoID: turnoID}
		}
		if err != nil {
			return err
		}
		if turno.Cerrado() {
			return &TurnoNoAbiertoError{TurnoID: turnoID, Estado: turno.Estado}
		}
		if err := p.validarCierre(turno); err != nil {
			return err
		}

		rows, err := s.movimientos.SumPorTipoYMetodoTx(tx, turnoID)
		if err != nil {
			return err
		}
		resumen = foldResumen(rows)

		sistema := turno.FondoInicial.Add(resumen.TotalEfectivo)
		diferencia := contado.Sub(sistema)
		now := time.Now()

		turno.Estado = p.estadoFinal
		turno.CerradoPor = &usuarioID
		turno.CerradoAt = &now
		turno.FondoFinal = &contado
		turno.EfectivoContado = &contado
		turno.EfectivoSistema = &sistema
		turno.Diferencia = &diferencia
		turno.NotasCierre = p.notasCierre
		turno.NotasArqueo = p.notasArqueo

		if err := s.turnos.UpdateTx(tx, turno); err != nil {
			return err
		}

		// Arqueo movement: on forced close always (explicit audit trail of
		// the override); otherwise only when the difference exceeds the
		// rounding tolerance. The row carries the signed difference.
		if p.arqueoForzado || diferencia.Abs().GreaterThan(tolerancia) {
			mov := &model.MovimientoCaja{
				TurnoID:       turnoID,
				Tipo:          model.MovArqueo,
				Concepto:      conceptoArqueo(diferencia, tolerancia),
				Monto:         diferencia,
				MetodoPago:    model.MetodoEfectivo,
				RegistradoPor: usuarioID,
				Notas:         p.notasArqueo,
			}
			if p.arqueoForzado {
				mov.AutorizadoPor = &usuarioID
			}
			if err := s.movimientos.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}
	return turno, &resumen, nil
}

func conceptoArqueo(diferencia, tolerancia decimal.Decimal) string {
	switch {
	case diferencia.GreaterThan(tolerancia):
		return fmt.Sprintf("Sobrante de arqueo: %s", diferencia.StringFixed(2))
	case diferencia.Neg().GreaterThan(tolerancia):
		return fmt.Sprintf("Faltante de arqueo: %s", diferencia.Abs().StringFixed(2))
	default:
		return "Arqueo de cierre sin diferencia"
	}
}

// ── Activo ────────────────────────────────────────────────────────────────────

func (s *turnoService) Activo(ctx context.Context, caja string) (*dto.TurnoResponse, error) {
	turno, err := s.turnos.FindAbiertoPorCaja(ctx, caja)
	if err != nil {
		return nil, err
	}
	if turno == nil {
		return nil, ErrSinTurnoAbierto
	}

	rows, err := s.movimientos.SumPorTipoYMetodo(ctx, turno.ID)
	if err != nil {
		return nil, err
	}
	resumen := foldResumen(rows)

	movs, err := s.movimientos.ListByTurno(ctx, turno.ID)
	if err != nil {
		return nil, err
	}

	resp := turnoToResponse(turno)
	resp.Resumen = &resumen
	resp.Movimientos = make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		resp.Movimientos[i] = movimientoToResponse(&movs[i])
	}
	return &resp, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *turnoService) Historial(ctx context.Context, caja string, f repository.HistorialFilter) (*dto.HistorialResponse, error) {
	turnos, total, err := s.turnos.Historial(ctx, caja, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialResponse{
		Turnos: make([]dto.TurnoResponse, len(turnos)),
		Total:  total,
		Page:   f.Page,
		Limit:  f.Limit,
	}
	for i := range turnos {
		resp.Turnos[i] = turnoToResponse(&turnos[i])
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *turnoService) verificarMesas(ctx context.Context) error {
	pendientes, err := s.mesas.PendientesDeCobro(ctx)
	if err != nil {
		return err
	}
	if len(pendientes) > 0 {
		return &MesasPendientesError{Mesas: pendientes}
	}
	return nil
}

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	resp := dto.TurnoResponse{
		ID:              t.ID.String(),
		Nombre:          t.Nombre,
		Caja:            t.Caja,
		HoraInicio:      t.HoraInicio,
		HoraFin:         t.HoraFin,
		Estado:          t.Estado,
		FondoInicial:    t.FondoInicial,
		FondoFinal:      t.FondoFinal,
		EfectivoContado: t.EfectivoContado,
		EfectivoSistema: t.EfectivoSistema,
		Diferencia:      t.Diferencia,
		AbiertoPor:      t.AbiertoPor.String(),
		AbiertoAt:       t.AbiertoAt.Format(time.RFC3339),
		NotasApertura:   t.NotasApertura,
		NotasCierre:     t.NotasCierre,
		NotasArqueo:     t.NotasArqueo,
	}
	if t.CerradoPor != nil {
		v := t.CerradoPor.String()
		resp.CerradoPor = &v
	}
	if t.CerradoAt != nil {
		v := t.CerradoAt.Format(time.RFC3339)
		resp.CerradoAt = &v
	}
	if t.TurnoAnteriorID != nil {
		v := t.TurnoAnteriorID.String()
		resp.TurnoAnteriorID = &v
	}
	return resp
}
