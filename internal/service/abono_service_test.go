package service

import (
	"context"
	"testing"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/config"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoAbonoService(t *testing.T) (AbonoService, *fakePrestamoRepo, *fakeAbonoRepo) {
	t.Helper()
	cfg := &config.Config{
		ReversalDatePolicy: config.ReversalDesembolso,
		RevisionStrategy:   config.RevisionDelta,
	}
	prestamos := newFakePrestamoRepo()
	abonos := newFakeAbonoRepo()
	prestamos.abonos = abonos
	ledger := NewPrestamoService(prestamos, abonos, &fakeAlertaRepo{}, cfg)
	return NewAbonoService(abonos, prestamos, ledger), prestamos, abonos
}

func TestAbonoCrear_DivideYAplica(t *testing.T) {
	svc, prestamos, _ := nuevoAbonoService(t)
	p := sembrarPrestamo(t, prestamos, "1000000", "12", fecha(2026, time.January, 1))

	resp, err := svc.Crear(context.Background(), dto.CrearAbonoRequest{
		PrestamoID: p.ID.String(),
		Monto:      decimal.RequireFromString("50000"),
		FechaPago:  "2026-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DiasInteres)
	assert.True(t, resp.Intereses.Equal(decimal.RequireFromString("10000")))
	assert.True(t, resp.AbonoCapital.Equal(decimal.RequireFromString("40000")))
	assert.True(t, resp.SaldoPrestamo.Equal(decimal.RequireFromString("960000")))

	actualizado, _ := prestamos.FindByID(context.Background(), p.ID)
	assert.True(t, actualizado.Saldo.Equal(decimal.RequireFromString("960000")))
}

func TestAbonoCrear_PrestamoInexistenteFallaDuro(t *testing.T) {
	svc, _, _ := nuevoAbonoService(t)

	_, err := svc.Crear(context.Background(), dto.CrearAbonoRequest{
		PrestamoID: uuid.NewString(),
		Monto:      decimal.RequireFromString("1000"),
		FechaPago:  "2026-01-31",
	})
	assert.ErrorIs(t, err, ErrPrestamoNoEncontrado)
}

func TestAbonoCrear_FechaAnteriorRechazada(t *testing.T) {
	svc, prestamos, _ := nuevoAbonoService(t)
	p := sembrarPrestamo(t, prestamos, "1000000", "12", fecha(2026, time.June, 1))

	_, err := svc.Crear(context.Background(), dto.CrearAbonoRequest{
		PrestamoID: p.ID.String(),
		Monto:      decimal.RequireFromString("1000"),
		FechaPago:  "2026-05-01",
	})
	assert.ErrorIs(t, err, ErrRangoFechasInvalido)
}

func TestAbonoActualizar_ReDivideYAjustaSaldo(t *testing.T) {
	svc, prestamos, _ := nuevoAbonoService(t)
	p := sembrarPrestamo(t, prestamos, "1000000", "12", fecha(2026, time.January, 1))

	creado, err := svc.Crear(context.Background(), dto.CrearAbonoRequest{
		PrestamoID: p.ID.String(),
		Monto:      decimal.RequireFromString("50000"),
		FechaPago:  "2026-01-31",
	})
	require.NoError(t, err)

	abonoID := uuid.MustParse(creado.ID)
	resp, err := svc.Actualizar(context.Background(), abonoID, dto.ActualizarAbonoRequest{
		Monto:     decimal.RequireFromString("60000"),
		FechaPago: "2026-01-31",
	})
	require.NoError(t, err)

	// La fecha de referencia ya avanzó al 31, así que la re-división corre con
	// 0 días: todo el monto es capital.
	assert.Equal(t, 0, resp.DiasInteres)
	assert.True(t, resp.AbonoCapital.Equal(decimal.RequireFromString("60000")))
}

func TestAbonoActualizar_RechazaAbonoDeLiquidacion(t *testing.T) {
	svc, prestamos, abonos := nuevoAbonoService(t)
	p := sembrarPrestamo(t, prestamos, "1000000", "12", fecha(2026, time.January, 1))

	liqID := uuid.New()
	abono := &model.Abono{
		ID:            uuid.New(),
		PrestamoID:    p.ID,
		LiquidacionID: &liqID,
		FechaPago:     fecha(2026, time.January, 31),
		Monto:         decimal.RequireFromString("5000"),
	}
	require.NoError(t, abonos.CreateTx(nil, abono))

	_, err := svc.Actualizar(context.Background(), abono.ID, dto.ActualizarAbonoRequest{
		Monto:     decimal.RequireFromString("6000"),
		FechaPago: "2026-01-31",
	})
	assert.ErrorIs(t, err, ErrAbonoDeLiquidacion)

	err = svc.Eliminar(context.Background(), abono.ID)
	assert.ErrorIs(t, err, ErrAbonoDeLiquidacion)
}

func TestAbonoEliminar_RevierteYBorra(t *testing.T) {
	svc, prestamos, abonos := nuevoAbonoService(t)
	p := sembrarPrestamo(t, prestamos, "1000000", "12", fecha(2026, time.January, 1))

	creado, err := svc.Crear(context.Background(), dto.CrearAbonoRequest{
		PrestamoID: p.ID.String(),
		Monto:      decimal.RequireFromString("50000"),
		FechaPago:  "2026-01-31",
	})
	require.NoError(t, err)

	abonoID := uuid.MustParse(creado.ID)
	require.NoError(t, svc.Eliminar(context.Background(), abonoID))

	_, err = abonos.FindByID(context.Background(), abonoID)
	assert.Error(t, err, "el abono debe desaparecer")

	actualizado, _ := prestamos.FindByID(context.Background(), p.ID)
	assert.True(t, actualizado.Saldo.Equal(decimal.RequireFromString("1000000")),
		"el saldo debe restaurarse al monto original")
	assert.Nil(t, actualizado.FechaUltimoPago)
}
