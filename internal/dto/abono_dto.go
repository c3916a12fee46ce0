package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearAbonoRequest struct {
	PrestamoID string          `json:"prestamo_id" validate:"required,uuid"`
	Monto      decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	FechaPago  string          `json:"fecha_pago"  validate:"required,datetime=2006-01-02"`
}

type ActualizarAbonoRequest struct {
	Monto     decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	FechaPago string          `json:"fecha_pago" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbonoResponse struct {
	ID            string          `json:"id"`
	PrestamoID    string          `json:"prestamo_id"`
	LiquidacionID *string         `json:"liquidacion_id"`
	FechaPago     string          `json:"fecha_pago"`
	Monto         decimal.Decimal `json:"monto"`
	DiasInteres   int             `json:"dias_interes"`
	Intereses     decimal.Decimal `json:"intereses"`
	AbonoCapital  decimal.Decimal `json:"abono_capital"`
	SaldoPrestamo decimal.Decimal `json:"saldo_prestamo"`
}
