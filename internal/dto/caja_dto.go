package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MovimientoManualRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=entrada salida"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID          string          `json:"id"`
	Monto       decimal.Decimal `json:"monto"`
	Tipo        string          `json:"tipo"`
	Concepto    string          `json:"concepto"`
	Referencia  *string         `json:"referencia"`
	Estado      string          `json:"estado"`
	Descripcion *string         `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

type CajaListResponse struct {
	Data  []CajaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type SaldoCajaResponse struct {
	Saldo decimal.Decimal `json:"saldo"`
}
