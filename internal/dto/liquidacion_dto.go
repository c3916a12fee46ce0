package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearLiquidacionRequest struct {
	ProveedorID      string           `json:"proveedor_id"       validate:"required,uuid"`
	FechaLiquidacion string           `json:"fecha_liquidacion"  validate:"required,datetime=2006-01-02"`
	EntregaIDs       []string         `json:"entrega_ids"        validate:"required,min=1,dive,uuid"`
	PrecioLiquidacion decimal.Decimal `json:"precio_liquidacion" validate:"required,gt=0"`
	// TipoCambio is fetched from the exchange-rate service when omitted.
	TipoCambio *decimal.Decimal `json:"tipo_cambio" validate:"omitempty,gt=0"`
	// PrestamoID + MontoAbono withhold part of the payout to service the
	// supplier's loan; both must be present together.
	PrestamoID    *string          `json:"prestamo_id" validate:"omitempty,uuid"`
	MontoAbono    *decimal.Decimal `json:"monto_abono" validate:"omitempty,gt=0"`
	Observaciones *string          `json:"observaciones"`
}

type AnularLiquidacionRequest struct {
	Razon string `json:"razon" validate:"required,min=3,max=255"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleLiquidacionResponse struct {
	EntregaID string          `json:"entrega_id"`
	PesoNeto  decimal.Decimal `json:"peso_neto"`
}

type LiquidacionResponse struct {
	ID                string                       `json:"id"`
	FechaLiquidacion  string                       `json:"fecha_liquidacion"`
	ProveedorID       string                       `json:"proveedor_id"`
	PrestamoID        *string                      `json:"prestamo_id"`
	TipoCambio        decimal.Decimal              `json:"tipo_cambio"`
	TotalQQLiquidados decimal.Decimal              `json:"total_qq_liquidados"`
	TotalQQAbonados   decimal.Decimal              `json:"total_qq_abonados"`
	PrecioLiquidacion decimal.Decimal              `json:"precio_liquidacion"`
	MontoBruto        decimal.Decimal              `json:"monto_bruto"`
	MontoNeto         decimal.Decimal              `json:"monto_neto"`
	Estado            string                       `json:"estado"`
	RazonAnula        *string                      `json:"razon_anula"`
	Observaciones     *string                      `json:"observaciones"`
	Detalles          []DetalleLiquidacionResponse `json:"detalles"`
	Abonos            []AbonoResponse              `json:"abonos"`
}

// ReciboResponse reports the async receipt pipeline state for a settlement.
type ReciboResponse struct {
	ID            string  `json:"id"`
	LiquidacionID string  `json:"liquidacion_id"`
	Estado        string  `json:"estado"`
	PDFPath       *string `json:"pdf_path"`
	RetryCount    int     `json:"retry_count"`
	NextRetryAt   *string `json:"next_retry_at"`
	LastError     *string `json:"last_error"`
}

type LiquidacionListResponse struct {
	Data  []LiquidacionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
