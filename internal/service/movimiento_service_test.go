package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mesapos/internal/dto"
	"mesapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movimientoFixture struct {
	turnos *fakeTurnoRepo
	movs   *fakeMovimientoRepo
	svc    MovimientoService
	turno  *model.Turno
}

func newMovimientoFixture(t *testing.T) *movimientoFixture {
	t.Helper()
	f := &movimientoFixture{
		turnos: newFakeTurnoRepo(),
		movs:   &fakeMovimientoRepo{},
	}
	f.svc = NewMovimientoService(f.movs, f.turnos, testConfig())

	f.turno = &model.Turno{
		ID: uuid.New(), Nombre: "Mañana", Caja: "PRINCIPAL",
		Estado: model.TurnoAbierto, AbiertoPor: uuid.New(), AbiertoAt: time.Now(),
		FondoInicial: decimal.NewFromFloat(1000),
	}
	require.NoError(t, f.turnos.CreateTx(nil, f.turno))
	return f
}

func TestRegistrarMontoInvalido(t *testing.T) {
	f := newMovimientoFixture(t)

	for _, monto := range []decimal.Decimal{decimal.Zero, decimal.NewFromFloat(-50)} {
		_, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
			Caja: "PRINCIPAL", Tipo: model.MovVenta, Concepto: "Venta mostrador",
			Monto: monto, MetodoPago: model.MetodoEfectivo,
		})
		assert.True(t, errors.Is(err, ErrMontoInvalido), "monto %s", monto)
	}
	assert.Empty(t, f.movs.movimientos)
}

func TestRegistrarSinTurnoAbierto(t *testing.T) {
	f := newMovimientoFixture(t)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "SECUNDARIA", Tipo: model.MovGasto, Concepto: "Hielo",
		Monto: decimal.NewFromFloat(300), MetodoPago: model.MetodoEfectivo,
	})
	assert.True(t, errors.Is(err, ErrSinTurnoAbierto))
}

func TestRegistrarMovimientoSimple(t *testing.T) {
	f := newMovimientoFixture(t)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovVenta, Concepto: "Venta mesa 4",
		Monto: decimal.NewFromFloat(4500), MetodoPago: model.MetodoBilleteraQR,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovVenta, resp.Tipo)
	assert.Nil(t, resp.AutorizadoPor)

	require.Len(t, f.movs.movimientos, 1)
	assert.Equal(t, f.turno.ID, f.movs.movimientos[0].TurnoID)
}

func TestRegistrarResuelveTurnoDentroDeLaTransaccion(t *testing.T) {
	f := newMovimientoFixture(t)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovVenta, Concepto: "Venta mesa 2",
		Monto: decimal.NewFromFloat(1200), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	// The open-turno lookup must happen inside the insert transaction, so a
	// close committing in between cannot leave the movement on a turno whose
	// ledger was already reconciled.
	assert.Equal(t, 1, f.turnos.abiertoTxLookups)

	// Once the turno is closed, the same transactional lookup rejects the
	// movement instead of appending to a settled ledger.
	f.turno.Estado = model.TurnoCerrado
	require.NoError(t, f.turnos.UpdateTx(nil, f.turno))
	_, err = f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovGasto, Concepto: "Verdulería",
		Monto: decimal.NewFromFloat(800), MetodoPago: model.MetodoEfectivo,
	})
	assert.True(t, errors.Is(err, ErrSinTurnoAbierto))
	assert.Len(t, f.movs.movimientos, 1)
}

// ── Authorization policy ──────────────────────────────────────────────────────

func TestAutorizacionRequeridaSobreUmbral(t *testing.T) {
	f := newMovimientoFixture(t)

	// Un retiro de 15000 supera el umbral de 10000
	_, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovRetiro, Concepto: "Retiro a tesorería",
		Monto: decimal.NewFromFloat(15000), MetodoPago: model.MetodoEfectivo,
	})

	var autErr *AutorizacionRequeridaError
	require.ErrorAs(t, err, &autErr)
	assert.Equal(t, model.MovRetiro, autErr.Tipo)
	assert.Empty(t, f.movs.movimientos, "nada se persiste cuando falta autorización")
}

func TestAutorizacionConSupervisorReferido(t *testing.T) {
	f := newMovimientoFixture(t)

	supervisor := uuid.NewString()
	resp, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovPagoProveedor, Concepto: "Pago distribuidora",
		Monto: decimal.NewFromFloat(22000), MetodoPago: model.MetodoTransferencia,
		AutorizadoPor: &supervisor,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.AutorizadoPor)
	assert.Equal(t, supervisor, *resp.AutorizadoPor)
}

func TestRolElevadoSeAutoautoriza(t *testing.T) {
	f := newMovimientoFixture(t)

	supervisorID := uuid.New()
	resp, err := f.svc.Registrar(context.Background(), supervisorID, model.RolSupervisor, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovAjuste, Concepto: "Ajuste por diferencia de vuelto",
		Monto: decimal.NewFromFloat(12000), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.AutorizadoPor)
	assert.Equal(t, supervisorID.String(), *resp.AutorizadoPor)
}

func TestBajoUmbralNoRequiereAutorizacion(t *testing.T) {
	f := newMovimientoFixture(t)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovRetiro, Concepto: "Retiro menor",
		Monto: decimal.NewFromFloat(9999), MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.AutorizadoPor)
}

func TestGastoSobreUmbralNoGateado(t *testing.T) {
	// La política solo cubre retiro, pago_proveedor y ajuste.
	f := newMovimientoFixture(t)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), model.RolCajero, dto.RegistrarMovimientoRequest{
		Caja: "PRINCIPAL", Tipo: model.MovGasto, Concepto: "Reparación de heladera",
		Monto: decimal.NewFromFloat(18000), MetodoPago: model.MetodoEfectivo,
	})
	assert.NoError(t, err)
}

// ── Resumen ───────────────────────────────────────────────────────────────────

func TestResumenDirecciones(t *testing.T) {
	f := newMovimientoFixture(t)
	turnoID := f.turno.ID

	agregar := func(tipo, metodo string, monto float64) {
		f.movs.movimientos = append(f.movs.movimientos, model.MovimientoCaja{
			ID: uuid.New(), TurnoID: turnoID, Tipo: tipo,
			MetodoPago: metodo, Monto: decimal.NewFromFloat(monto),
		})
	}
	agregar(model.MovVenta, model.MetodoEfectivo, 1000)
	agregar(model.MovVenta, model.MetodoDebito, 500)
	agregar(model.MovGasto, model.MetodoEfectivo, 200)
	agregar(model.MovIngresoFondo, model.MetodoEfectivo, 300)
	// Arqueo rows are stored signed and add as-is
	agregar(model.MovArqueo, model.MetodoEfectivo, -20)

	resumen, err := f.svc.Resumen(context.Background(), turnoID)
	require.NoError(t, err)

	assert.Equal(t, "1500", resumen.PorTipo[model.MovVenta].String())
	assert.Equal(t, "200", resumen.PorTipo[model.MovGasto].String())
	// efectivo: +1000 -200 +300 -20 = 1080
	assert.Equal(t, "1080", resumen.PorMetodo[model.MetodoEfectivo].String())
	assert.Equal(t, "500", resumen.PorMetodo[model.MetodoDebito].String())
	assert.Equal(t, "1080", resumen.TotalEfectivo.String())
	// Every tipo and metodo is present even with no movements
	assert.True(t, resumen.PorTipo[model.MovTransferencia].IsZero())
	assert.True(t, resumen.PorMetodo[model.MetodoCredito].IsZero())
}
