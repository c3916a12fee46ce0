package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEntregaRequest struct {
	ProveedorID   string          `json:"proveedor_id"   validate:"required,uuid"`
	FechaEntrega  string          `json:"fecha_entrega"  validate:"required,datetime=2006-01-02"`
	TipoCafe      string          `json:"tipo_cafe"      validate:"required,min=2,max=40"`
	Humedad       decimal.Decimal `json:"humedad"        validate:"required,gte=0"`
	CantidadSacos int             `json:"cantidad_sacos" validate:"required,gt=0"`
	PesoNeto      decimal.Decimal `json:"peso_neto"      validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntregaResponse struct {
	ID            string          `json:"id"`
	ProveedorID   string          `json:"proveedor_id"`
	FechaEntrega  string          `json:"fecha_entrega"`
	TipoCafe      string          `json:"tipo_cafe"`
	Humedad       decimal.Decimal `json:"humedad"`
	CantidadSacos int             `json:"cantidad_sacos"`
	PesoNeto      decimal.Decimal `json:"peso_neto"`
	Liquidada     bool            `json:"liquidada"`
}

// InventarioItemResponse is one row of the pending-stock summary, grouped by
// coffee type and humidity.
type InventarioItemResponse struct {
	TipoCafe      string          `json:"tipo_cafe"`
	Humedad       decimal.Decimal `json:"humedad"`
	CantidadSacos int             `json:"cantidad_sacos"`
	PesoNeto      decimal.Decimal `json:"peso_neto"`
}
