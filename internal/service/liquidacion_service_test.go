package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/config"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeFX struct {
	tc  decimal.Decimal
	err error
}

func (f *fakeFX) TipoCambio(_ context.Context) (decimal.Decimal, error) { return f.tc, f.err }

type liquidacionFixture struct {
	svc       LiquidacionService
	repo      *fakeLiquidacionRepo
	entregas  *fakeEntregaRepo
	caja      *fakeCajaRepo
	abonos    *fakeAbonoRepo
	prestamos *fakePrestamoRepo
	fx        *fakeFX

	proveedorID uuid.UUID
	userID      uuid.UUID
}

func nuevaLiquidacionFixture(t *testing.T) *liquidacionFixture {
	t.Helper()
	cfg := &config.Config{
		ReversalDatePolicy: config.ReversalDesembolso,
		RevisionStrategy:   config.RevisionDelta,
	}
	prestamos := newFakePrestamoRepo()
	abonos := newFakeAbonoRepo()
	prestamos.abonos = abonos
	entregas := newFakeEntregaRepo()
	caja := newFakeCajaRepo()
	repo := newFakeLiquidacionRepo(abonos)
	fx := &fakeFX{tc: decimal.RequireFromString("36.62")}
	ledger := NewPrestamoService(prestamos, abonos, &fakeAlertaRepo{}, cfg)
	svc := NewLiquidacionService(repo, entregas, caja, abonos, prestamos, ledger, fx, nil, nil)

	return &liquidacionFixture{
		svc:         svc,
		repo:        repo,
		entregas:    entregas,
		caja:        caja,
		abonos:      abonos,
		prestamos:   prestamos,
		fx:          fx,
		proveedorID: uuid.New(),
		userID:      uuid.New(),
	}
}

func (f *liquidacionFixture) sembrarEntrega(t *testing.T, pesoNeto string) *model.Entrega {
	t.Helper()
	e := &model.Entrega{
		ProveedorID:   f.proveedorID,
		FechaEntrega:  fecha(2026, time.January, 10),
		TipoCafe:      "pergamino",
		Humedad:       decimal.RequireFromString("12.5"),
		CantidadSacos: 10,
		PesoNeto:      decimal.RequireFromString(pesoNeto),
		CreadoPor:     f.userID,
	}
	require.NoError(t, f.entregas.Create(context.Background(), e))
	return e
}

func (f *liquidacionFixture) sembrarPrestamo(t *testing.T) *model.Prestamo {
	t.Helper()
	p := prestamoDePrueba("1000000", "12", fecha(2026, time.January, 1))
	p.ProveedorID = f.proveedorID
	require.NoError(t, f.prestamos.Create(context.Background(), p))
	return p
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestLiquidacionCrear_ConAbonoAPrestamo(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e1 := f.sembrarEntrega(t, "120")
	e2 := f.sembrarEntrega(t, "80")
	p := f.sembrarPrestamo(t)

	montoAbono := decimal.RequireFromString("50000")
	prestamoID := p.ID.String()
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e1.ID.String(), e2.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		PrestamoID:        &prestamoID,
		MontoAbono:        &montoAbono,
	})
	require.NoError(t, err)

	// 200 qq * 500 = 100,000 bruto; 50,000 retenidos; 50,000 netos.
	assert.True(t, resp.TotalQQLiquidados.Equal(decimal.RequireFromString("200")))
	assert.True(t, resp.MontoBruto.Equal(decimal.RequireFromString("100000")))
	assert.True(t, resp.MontoNeto.Equal(decimal.RequireFromString("50000")))
	assert.True(t, resp.TotalQQAbonados.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, model.LiquidacionEstadoActivo, resp.Estado)
	assert.Len(t, resp.Detalles, 2)
	require.Len(t, resp.Abonos, 1)

	// Split del abono: 30 días al 12% sobre 1,000,000 son 10,000 de interés.
	assert.True(t, resp.Abonos[0].Intereses.Equal(decimal.RequireFromString("10000")))
	assert.True(t, resp.Abonos[0].AbonoCapital.Equal(decimal.RequireFromString("40000")))

	// Entregas consumidas.
	for _, id := range []uuid.UUID{e1.ID, e2.ID} {
		e, err := f.entregas.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, e.Liquidada)
	}

	// Ledger aplicado.
	actualizado, _ := f.prestamos.FindByID(context.Background(), p.ID)
	assert.True(t, actualizado.Saldo.Equal(decimal.RequireFromString("960000")))

	// Salida de caja por el neto, referenciada a la liquidación.
	liqID := uuid.MustParse(resp.ID)
	mov, err := f.caja.FindByReferencia(context.Background(), liqID)
	require.NoError(t, err)
	assert.Equal(t, model.CajaTipoSalida, mov.Tipo)
	assert.Equal(t, model.CajaConceptoLiquidacion, mov.Concepto)
	assert.True(t, mov.Monto.Equal(decimal.RequireFromString("50000")))
	assert.Equal(t, model.CajaEstadoActivo, mov.Estado)
}

func TestLiquidacionCrear_NetoCeroNoTocaCaja(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")
	p := f.sembrarPrestamo(t)

	// Retención total: neto en cero, la caja no debe registrar nada.
	montoAbono := decimal.RequireFromString("50000")
	prestamoID := p.ID.String()
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		PrestamoID:        &prestamoID,
		MontoAbono:        &montoAbono,
	})
	require.NoError(t, err)

	assert.True(t, resp.MontoNeto.IsZero())
	_, err = f.caja.FindByReferencia(context.Background(), uuid.MustParse(resp.ID))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLiquidacionCrear_UsaTipoCambioDelServicio(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "10")

	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TipoCambio.Equal(decimal.RequireFromString("36.62")))
}

func TestLiquidacionCrear_TipoCambioEnviadoPrevalece(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	f.fx.err = errors.New("fx caído")
	e := f.sembrarEntrega(t, "10")

	tc := decimal.RequireFromString("37.00")
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		TipoCambio:        &tc,
	})
	require.NoError(t, err, "con tipo_cambio explícito el servicio caído no importa")
	assert.True(t, resp.TipoCambio.Equal(tc))
}

func TestLiquidacionCrear_FallaSinTipoCambio(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	f.fx.err = errors.New("circuito abierto")
	e := f.sembrarEntrega(t, "10")

	_, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
	})
	assert.Error(t, err)
}

func TestLiquidacionCrear_Validaciones(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	p := f.sembrarPrestamo(t)

	base := func() dto.CrearLiquidacionRequest {
		e := f.sembrarEntrega(t, "100")
		return dto.CrearLiquidacionRequest{
			ProveedorID:       f.proveedorID.String(),
			FechaLiquidacion:  "2026-01-31",
			EntregaIDs:        []string{e.ID.String()},
			PrecioLiquidacion: decimal.RequireFromString("500"),
		}
	}

	t.Run("entrega de otro proveedor", func(t *testing.T) {
		req := base()
		ajena := f.sembrarEntrega(t, "50")
		ajena.ProveedorID = uuid.New()
		require.NoError(t, f.entregas.SaveTx(nil, ajena))
		req.EntregaIDs = []string{ajena.ID.String()}
		_, err := f.svc.Crear(context.Background(), f.userID, req)
		assert.Error(t, err)
	})

	t.Run("entrega ya liquidada", func(t *testing.T) {
		req := base()
		consumida := f.sembrarEntrega(t, "50")
		consumida.Liquidada = true
		require.NoError(t, f.entregas.SaveTx(nil, consumida))
		req.EntregaIDs = []string{consumida.ID.String()}
		_, err := f.svc.Crear(context.Background(), f.userID, req)
		assert.Error(t, err)
	})

	t.Run("prestamo_id sin monto_abono", func(t *testing.T) {
		req := base()
		id := p.ID.String()
		req.PrestamoID = &id
		_, err := f.svc.Crear(context.Background(), f.userID, req)
		assert.Error(t, err)
	})

	t.Run("abono mayor al bruto", func(t *testing.T) {
		req := base()
		id := p.ID.String()
		monto := decimal.RequireFromString("50001") // bruto es 50,000
		req.PrestamoID = &id
		req.MontoAbono = &monto
		_, err := f.svc.Crear(context.Background(), f.userID, req)
		assert.Error(t, err)
	})

	t.Run("prestamo de otro proveedor", func(t *testing.T) {
		req := base()
		ajeno := prestamoDePrueba("500000", "10", fecha(2026, time.January, 1))
		ajeno.ProveedorID = uuid.New()
		require.NoError(t, f.prestamos.Create(context.Background(), ajeno))
		id := ajeno.ID.String()
		monto := decimal.RequireFromString("1000")
		req.PrestamoID = &id
		req.MontoAbono = &monto
		_, err := f.svc.Crear(context.Background(), f.userID, req)
		assert.Error(t, err)
	})
}

// ── Anular / Reactivar ────────────────────────────────────────────────────────

func TestLiquidacionAnular_IdempotenteYSincronizaCaja(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")

	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
	})
	require.NoError(t, err)
	liqID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Anular(context.Background(), liqID, f.userID, "precio mal digitado"))
	require.NoError(t, f.svc.Anular(context.Background(), liqID, f.userID, "precio mal digitado"),
		"anular dos veces no debe fallar")

	liq, _ := f.repo.FindByID(context.Background(), liqID)
	assert.Equal(t, model.LiquidacionEstadoAnulado, liq.Estado)
	require.NotNil(t, liq.RazonAnula)

	mov, err := f.caja.FindByReferencia(context.Background(), liqID)
	require.NoError(t, err)
	assert.Equal(t, model.CajaEstadoAnulado, mov.Estado)

	// El saldo de caja ignora movimientos anulados.
	saldo, err := f.caja.Saldo(context.Background())
	require.NoError(t, err)
	assert.True(t, saldo.IsZero())

	// Reactivar restaura ambos estados.
	require.NoError(t, f.svc.Reactivar(context.Background(), liqID))
	liq, _ = f.repo.FindByID(context.Background(), liqID)
	assert.Equal(t, model.LiquidacionEstadoActivo, liq.Estado)
	assert.Nil(t, liq.RazonAnula)
	mov, _ = f.caja.FindByReferencia(context.Background(), liqID)
	assert.Equal(t, model.CajaEstadoActivo, mov.Estado)
}

func TestLiquidacionAnular_SinMovimientoDeCajaEsNoOp(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")
	p := f.sembrarPrestamo(t)

	// Retención total: no hay movimiento de caja que sincronizar.
	montoAbono := decimal.RequireFromString("50000")
	prestamoID := p.ID.String()
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		PrestamoID:        &prestamoID,
		MontoAbono:        &montoAbono,
	})
	require.NoError(t, err)

	assert.NoError(t, f.svc.Anular(context.Background(), uuid.MustParse(resp.ID), f.userID, "prueba"))
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func TestLiquidacionEliminar_CascadaCompleta(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "200")
	p := f.sembrarPrestamo(t)

	montoAbono := decimal.RequireFromString("50000")
	prestamoID := p.ID.String()
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		PrestamoID:        &prestamoID,
		MontoAbono:        &montoAbono,
	})
	require.NoError(t, err)
	liqID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Eliminar(context.Background(), liqID))

	// Saldo del prestamo restaurado al monto original.
	actualizado, _ := f.prestamos.FindByID(context.Background(), p.ID)
	assert.True(t, actualizado.Saldo.Equal(decimal.RequireFromString("1000000")))
	assert.Nil(t, actualizado.FechaUltimoPago)

	// Entrega liberada para otra liquidación.
	liberada, _ := f.entregas.FindByID(context.Background(), e.ID)
	assert.False(t, liberada.Liquidada)

	// Abono, caja y liquidación eliminados.
	assert.Empty(t, f.abonos.abonos)
	_, err = f.caja.FindByReferencia(context.Background(), liqID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = f.repo.FindByID(context.Background(), liqID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLiquidacionEliminar_EntregaYaBorradaSeOmite(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")

	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	// La entrega desapareció por otros medios; la cascada no debe fallar.
	require.NoError(t, f.entregas.Delete(context.Background(), e.ID))
	assert.NoError(t, f.svc.Eliminar(context.Background(), uuid.MustParse(resp.ID)))
}

// ── Atomicidad ────────────────────────────────────────────────────────────────

func TestLiquidacionCrear_RollbackEnFalloIntermedio(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	f.repo.db = gdb
	f.repo.failOnDetalle = errors.New("detalle roto")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "un fallo intermedio debe revertir la transacción")
}

func TestLiquidacionEliminar_RollbackEnFalloIntermedio(t *testing.T) {
	f := nuevaLiquidacionFixture(t)
	e := f.sembrarEntrega(t, "100")
	p := f.sembrarPrestamo(t)

	// Liquidación con abono y movimiento de caja: la cascada de borrado
	// ejecuta sus tres pasos (revertir abonos, liberar entregas, borrar caja).
	montoAbono := decimal.RequireFromString("20000")
	prestamoID := p.ID.String()
	resp, err := f.svc.Crear(context.Background(), f.userID, dto.CrearLiquidacionRequest{
		ProveedorID:       f.proveedorID.String(),
		FechaLiquidacion:  "2026-01-31",
		EntregaIDs:        []string{e.ID.String()},
		PrecioLiquidacion: decimal.RequireFromString("500"),
		PrestamoID:        &prestamoID,
		MontoAbono:        &montoAbono,
	})
	require.NoError(t, err)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	f.repo.db = gdb
	f.caja.failOnDeleteReferencia = errors.New("caja rota")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(resp.ID))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(),
		"un fallo en el tercer paso de la cascada debe revertir la transacción")

	// La liquidación sobrevive al intento fallido.
	_, err = f.repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	assert.NoError(t, err)
}
