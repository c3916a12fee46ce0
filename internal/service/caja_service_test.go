package service

import (
	"context"
	"testing"

	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCajaRegistrarMovimiento_Manual(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo)
	usuarioID := uuid.New()

	resp, err := svc.RegistrarMovimiento(context.Background(), usuarioID, dto.MovimientoManualRequest{
		Tipo:        model.CajaTipoEntrada,
		Monto:       decimal.RequireFromString("1500.50"),
		Descripcion: "fondo inicial de caja",
	})
	require.NoError(t, err)

	assert.Equal(t, model.CajaTipoEntrada, resp.Tipo)
	assert.Equal(t, model.CajaConceptoManual, resp.Concepto)
	assert.Equal(t, model.CajaEstadoActivo, resp.Estado)
	assert.Nil(t, resp.Referencia, "un movimiento manual no referencia liquidación")
	require.NotNil(t, resp.Descripcion)
	assert.Equal(t, "fondo inicial de caja", *resp.Descripcion)
}

func TestCajaSaldo_EntradasMenosSalidas(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo)
	usuarioID := uuid.New()

	movimientos := []struct {
		tipo  string
		monto string
	}{
		{model.CajaTipoEntrada, "10000"},
		{model.CajaTipoEntrada, "2500.25"},
		{model.CajaTipoSalida, "4000"},
	}
	for _, m := range movimientos {
		_, err := svc.RegistrarMovimiento(context.Background(), usuarioID, dto.MovimientoManualRequest{
			Tipo:        m.tipo,
			Monto:       decimal.RequireFromString(m.monto),
			Descripcion: "mov",
		})
		require.NoError(t, err)
	}

	resp, err := svc.Saldo(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Saldo.Equal(decimal.RequireFromString("8500.25")),
		"esperaba 8500.25, obtuve %s", resp.Saldo)
}

func TestCajaSaldo_IgnoraAnulados(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo)

	mov := &model.Caja{
		Monto:  decimal.RequireFromString("9999"),
		Tipo:   model.CajaTipoSalida,
		UserID: uuid.New(),
		Estado: model.CajaEstadoAnulado,
	}
	require.NoError(t, repo.Create(context.Background(), mov))

	resp, err := svc.Saldo(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Saldo.IsZero())
}

func TestCajaListarMovimientos_Paginado(t *testing.T) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo)

	_, err := svc.RegistrarMovimiento(context.Background(), uuid.New(), dto.MovimientoManualRequest{
		Tipo:        model.CajaTipoEntrada,
		Monto:       decimal.RequireFromString("100"),
		Descripcion: "x",
	})
	require.NoError(t, err)

	resp, err := svc.ListarMovimientos(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Data, 1)
}
