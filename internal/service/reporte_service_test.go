package service

import (
	"context"
	"testing"
	"time"

	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reporteFixture struct {
	turnos        *fakeTurnoRepo
	movs          *fakeMovimientoRepo
	ventas        *fakeVentaRepo
	destinatarios *fakeDestinatarios
	svc           ReporteService
}

func newReporteFixture() *reporteFixture {
	f := &reporteFixture{
		turnos:        newFakeTurnoRepo(),
		movs:          &fakeMovimientoRepo{},
		ventas:        &fakeVentaRepo{},
		destinatarios: &fakeDestinatarios{emails: []string{"gerencia@mesapos.local"}},
	}
	// nil dispatcher: enqueueing is skipped, which the outcome reports
	f.svc = NewReporteService(f.turnos, f.movs, f.ventas, f.destinatarios, nil, testConfig())
	return f
}

// cerrado seeds one closed turno for the caja at the given close time.
func (f *reporteFixture) cerrado(t *testing.T, nombre string, estado string, cerradoAt time.Time) uuid.UUID {
	t.Helper()
	contado := decimal.NewFromFloat(1000)
	turno := &model.Turno{
		Nombre: nombre, Caja: "PRINCIPAL", Estado: estado,
		AbiertoPor: uuid.New(), AbiertoAt: cerradoAt.Add(-8 * time.Hour),
		FondoInicial: decimal.NewFromFloat(1000),
		CerradoAt:    &cerradoAt, FondoFinal: &contado,
	}
	require.NoError(t, f.turnos.CreateTx(nil, turno))
	return turno.ID
}

func TestConsolidacionNoDisparaAntesDelTercero(t *testing.T) {
	f := newReporteFixture()
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	f.cerrado(t, "Mañana", model.TurnoCerrado, ahora.Add(-6*time.Hour))
	f.cerrado(t, "Tarde", model.TurnoCerrado, ahora.Add(-2*time.Hour))

	resp := f.svc.EvaluarCierreDelDia(context.Background(), "PRINCIPAL", ahora)
	assert.False(t, resp.Disparado)
	assert.Equal(t, int64(2), resp.TurnosCerrados)
}

func TestConsolidacionDisparaEnElTercero(t *testing.T) {
	f := newReporteFixture()
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	f.cerrado(t, "Mañana", model.TurnoCerrado, ahora.Add(-6*time.Hour))
	f.cerrado(t, "Tarde", model.TurnoCerrado, ahora.Add(-2*time.Hour))
	f.cerrado(t, "Noche", model.TurnoCerrado, ahora)

	resp := f.svc.EvaluarCierreDelDia(context.Background(), "PRINCIPAL", ahora)
	assert.True(t, resp.Disparado)
	assert.Equal(t, int64(3), resp.TurnosCerrados)
	assert.Equal(t, 1, resp.Destinatarios)
}

func TestConsolidacionNoRedisparaEnElCuarto(t *testing.T) {
	f := newReporteFixture()
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	for i, nombre := range []string{"Mañana", "Mediodía", "Tarde", "Noche"} {
		f.cerrado(t, nombre, model.TurnoCerrado, ahora.Add(time.Duration(i-3)*time.Hour))
	}

	// Equality, not ">=": with four closes the trigger stays silent
	resp := f.svc.EvaluarCierreDelDia(context.Background(), "PRINCIPAL", ahora)
	assert.False(t, resp.Disparado)
	assert.Equal(t, int64(4), resp.TurnosCerrados)
}

func TestCierreForzadoNoCuentaParaElDisparo(t *testing.T) {
	f := newReporteFixture()
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	f.cerrado(t, "Mañana", model.TurnoCerrado, ahora.Add(-6*time.Hour))
	f.cerrado(t, "Tarde", model.TurnoCierreForzado, ahora.Add(-2*time.Hour))
	f.cerrado(t, "Noche", model.TurnoCerrado, ahora)

	resp := f.svc.EvaluarCierreDelDia(context.Background(), "PRINCIPAL", ahora)
	assert.False(t, resp.Disparado)
	assert.Equal(t, int64(2), resp.TurnosCerrados)
}

func TestConsolidacionSinDestinatarios(t *testing.T) {
	f := newReporteFixture()
	f.destinatarios.emails = nil
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	for i, nombre := range []string{"Mañana", "Tarde", "Noche"} {
		f.cerrado(t, nombre, model.TurnoCerrado, ahora.Add(time.Duration(i-2)*time.Hour))
	}

	// Dispatch is skipped, not failed: the trigger still fired
	resp := f.svc.EvaluarCierreDelDia(context.Background(), "PRINCIPAL", ahora)
	assert.True(t, resp.Disparado)
	assert.Equal(t, 0, resp.Destinatarios)
	assert.False(t, resp.ReporteEncolado)
	assert.Equal(t, "sin destinatarios configurados", resp.Detalle)
}

func TestReporteDelDiaAgrega(t *testing.T) {
	f := newReporteFixture()
	ahora := time.Date(2026, time.March, 14, 21, 0, 0, 0, time.Local)
	id1 := f.cerrado(t, "Mañana", model.TurnoCerrado, ahora.Add(-4*time.Hour))
	id2 := f.cerrado(t, "Tarde", model.TurnoCerrado, ahora)

	agregar := func(turnoID uuid.UUID, tipo, metodo string, monto float64) {
		f.movs.movimientos = append(f.movs.movimientos, model.MovimientoCaja{
			ID: uuid.New(), TurnoID: turnoID, Tipo: tipo,
			MetodoPago: metodo, Monto: decimal.NewFromFloat(monto),
		})
	}
	agregar(id1, model.MovVenta, model.MetodoEfectivo, 3000)
	agregar(id1, model.MovVenta, model.MetodoDebito, 1200)
	agregar(id2, model.MovVenta, model.MetodoEfectivo, 2000)
	agregar(id2, model.MovGasto, model.MetodoEfectivo, 500)

	f.ventas.cantidad = 7
	f.ventas.total = decimal.NewFromFloat(6200)
	f.ventas.top = []repository.ProductoVendido{
		{Descripcion: "Milanesa napolitana", Cantidad: 4},
		{Descripcion: "Agua con gas", Cantidad: 3},
	}

	reporte, err := f.svc.ReporteDelDia(context.Background(), "PRINCIPAL", ahora)
	require.NoError(t, err)

	require.Len(t, reporte.Turnos, 2)
	assert.Equal(t, "Mañana", reporte.Turnos[0].Nombre)
	assert.Equal(t, "3000", reporte.Turnos[0].TotalEfectivo.String())
	assert.Equal(t, "1500", reporte.Turnos[1].TotalEfectivo.String())

	assert.Equal(t, "4500", reporte.TotalesPorMetodo[model.MetodoEfectivo].String())
	assert.Equal(t, "1200", reporte.TotalesPorMetodo[model.MetodoDebito].String())

	assert.Equal(t, int64(7), reporte.CantidadVentas)
	assert.Equal(t, "6200", reporte.TotalVentas.String())
	require.Len(t, reporte.TopProductos, 2)
	assert.Equal(t, "Milanesa napolitana", reporte.TopProductos[0].Descripcion)
}
