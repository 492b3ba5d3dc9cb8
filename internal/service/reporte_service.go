package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mesapos/internal/config"
	"mesapos/internal/dto"
	"mesapos/internal/repository"
	"mesapos/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const topProductosReporte = 10

// ReporteService evaluates the daily consolidation trigger after a turno
// closes and assembles the day-level report. Everything here is
// best-effort: the close already committed, so failures are logged and
// reported in the outcome, never raised.
type ReporteService interface {
	EvaluarCierreDelDia(ctx context.Context, caja string, cierre time.Time) *dto.ConsolidacionResponse
	ReporteDelDia(ctx context.Context, caja string, dia time.Time) (*dto.ReporteDiario, error)
}

type reporteService struct {
	turnos        repository.TurnoRepository
	movimientos   repository.MovimientoRepository
	ventas        repository.VentaRepository
	destinatarios DestinatariosService
	dispatcher    *worker.Dispatcher
	cfg           *config.Config
}

func NewReporteService(
	turnos repository.TurnoRepository,
	movimientos repository.MovimientoRepository,
	ventas repository.VentaRepository,
	destinatarios DestinatariosService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) ReporteService {
	return &reporteService{
		turnos:        turnos,
		movimientos:   movimientos,
		ventas:        ventas,
		destinatarios: destinatarios,
		dispatcher:    dispatcher,
		cfg:           cfg,
	}
}

// EvaluarCierreDelDia fires when the count of turnos cerrados for the caja
// on cierre's calendar day equals exactly the configured threshold: the
// trigger runs once, at the transition, and never re-fires on later closes.
// Forced closes do not count toward the threshold.
func (s *reporteService) EvaluarCierreDelDia(ctx context.Context, caja string, cierre time.Time) *dto.ConsolidacionResponse {
	resp := &dto.ConsolidacionResponse{}

	count, err := s.turnos.CountCerradosDelDia(ctx, caja, cierre)
	if err != nil {
		log.Error().Err(err).Str("caja", caja).Msg("consolidacion: no se pudo contar los turnos del dia")
		resp.Detalle = "no se pudo evaluar la consolidación"
		return resp
	}
	resp.TurnosCerrados = count

	if count != int64(s.cfg.TurnosCierreDia) {
		return resp
	}
	resp.Disparado = true

	reporte, err := s.ReporteDelDia(ctx, caja, cierre)
	if err != nil {
		log.Error().Err(err).Str("caja", caja).Msg("consolidacion: error armando el reporte diario")
		resp.Detalle = "error armando el reporte diario"
		return resp
	}

	emails, err := s.destinatarios.Listar(ctx)
	if err != nil {
		log.Error().Err(err).Msg("consolidacion: no se pudieron leer los destinatarios")
		resp.Detalle = "no se pudieron leer los destinatarios"
		return resp
	}
	resp.Destinatarios = len(emails)
	if len(emails) == 0 {
		log.Info().Str("caja", caja).Msg("consolidacion: sin destinatarios configurados, envio omitido")
		resp.Detalle = "sin destinatarios configurados"
		return resp
	}

	if s.dispatcher == nil {
		resp.Detalle = "sin despachador de trabajos"
		return resp
	}

	payload := worker.ReporteJobPayload{
		Para:    emails,
		Asunto:  fmt.Sprintf("Cierre de caja %s — %s", caja, reporte.Fecha),
		Cuerpo:  cuerpoReporte(reporte),
		Reporte: *reporte,
	}
	if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
		log.Error().Err(err).Str("caja", caja).Msg("consolidacion: no se pudo encolar el reporte")
		resp.Detalle = "no se pudo encolar el reporte"
		return resp
	}

	resp.ReporteEncolado = true
	log.Info().
		Str("caja", caja).
		Str("fecha", reporte.Fecha).
		Int("destinatarios", len(emails)).
		Msg("consolidacion: reporte diario encolado")
	return resp
}

// ReporteDelDia aggregates every turno of the caja's calendar day plus the
// day's ventas into the consolidated snapshot. Computed on demand, never
// persisted.
func (s *reporteService) ReporteDelDia(ctx context.Context, caja string, dia time.Time) (*dto.ReporteDiario, error) {
	turnos, err := s.turnos.ListDelDia(ctx, caja, dia)
	if err != nil {
		return nil, err
	}

	reporte := &dto.ReporteDiario{
		Caja:             caja,
		Fecha:            dia.Format("2006-01-02"),
		Turnos:           make([]dto.ReporteTurno, 0, len(turnos)),
		TotalesPorMetodo: map[string]decimal.Decimal{},
	}

	for i := range turnos {
		t := &turnos[i]
		rows, err := s.movimientos.SumPorTipoYMetodo(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		resumen := foldResumen(rows)

		fila := dto.ReporteTurno{
			Nombre:        t.Nombre,
			Estado:        t.Estado,
			AbiertoAt:     t.AbiertoAt.Format("15:04"),
			AbiertoPor:    t.AbiertoPor.String(),
			FondoInicial:  t.FondoInicial,
			FondoFinal:    t.FondoFinal,
			Diferencia:    t.Diferencia,
			TotalEfectivo: resumen.TotalEfectivo,
			NotasCierre:   t.NotasCierre,
		}
		if t.CerradoAt != nil {
			v := t.CerradoAt.Format("15:04")
			fila.CerradoAt = &v
		}
		if t.CerradoPor != nil {
			v := t.CerradoPor.String()
			fila.CerradoPor = &v
		}
		reporte.Turnos = append(reporte.Turnos, fila)

		for metodo, total := range resumen.PorMetodo {
			acumulado, ok := reporte.TotalesPorMetodo[metodo]
			if !ok {
				acumulado = decimal.Zero
			}
			reporte.TotalesPorMetodo[metodo] = acumulado.Add(total)
		}
	}

	cantidad, total, err := s.ventas.TotalVentasDelDia(ctx, dia)
	if err != nil {
		return nil, err
	}
	reporte.CantidadVentas = cantidad
	reporte.TotalVentas = total

	top, err := s.ventas.TopProductosDelDia(ctx, dia, topProductosReporte)
	if err != nil {
		return nil, err
	}
	for _, p := range top {
		reporte.TopProductos = append(reporte.TopProductos, dto.ProductoVendidoResponse{
			Descripcion: p.Descripcion,
			Cantidad:    p.Cantidad,
		})
	}

	return reporte, nil
}

func cuerpoReporte(r *dto.ReporteDiario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cierre consolidado de la caja %s — %s\n\n", r.Caja, r.Fecha)
	fmt.Fprintf(&b, "Turnos del día: %d\n", len(r.Turnos))
	for _, t := range r.Turnos {
		diferencia := "-"
		if t.Diferencia != nil {
			diferencia = t.Diferencia.StringFixed(2)
		}
		fmt.Fprintf(&b, "  • %s (%s): efectivo neto %s, diferencia %s\n",
			t.Nombre, t.Estado, t.TotalEfectivo.StringFixed(2), diferencia)
	}
	fmt.Fprintf(&b, "\nVentas del día: %d por un total de %s\n", r.CantidadVentas, r.TotalVentas.StringFixed(2))
	b.WriteString("El detalle completo se adjunta en PDF.\n")
	return b.String()
}
