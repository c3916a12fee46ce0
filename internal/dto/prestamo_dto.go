package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPrestamoRequest struct {
	ProveedorID     string          `json:"proveedor_id"     validate:"required,uuid"`
	Monto           decimal.Decimal `json:"monto"            validate:"required,gt=0"`
	Interes         decimal.Decimal `json:"interes"          validate:"required,gte=0"`
	FechaDesembolso string          `json:"fecha_desembolso" validate:"required,datetime=2006-01-02"`
	Observaciones   *string         `json:"observaciones"`
}

type ActualizarPrestamoRequest struct {
	Interes       *decimal.Decimal `json:"interes" validate:"omitempty,gte=0"`
	Observaciones *string          `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PrestamoResponse struct {
	ID              string          `json:"id"`
	ProveedorID     string          `json:"proveedor_id"`
	Monto           decimal.Decimal `json:"monto"`
	Interes         decimal.Decimal `json:"interes"`
	FechaDesembolso string          `json:"fecha_desembolso"`
	FechaUltimoPago *string         `json:"fecha_ultimo_pago"`
	Saldo           decimal.Decimal `json:"saldo"`
	Observaciones   *string         `json:"observaciones"`
}

// CorteInteresResponse is the accrued-interest projection for a loan at a
// given cut-off date.
type CorteInteresResponse struct {
	PrestamoID string          `json:"prestamo_id"`
	FechaCorte string          `json:"fecha_corte"`
	Dias       int             `json:"dias"`
	Intereses  decimal.Decimal `json:"intereses"`
}

type AlertaConciliacionResponse struct {
	ID         string          `json:"id"`
	PrestamoID string          `json:"prestamo_id"`
	AbonoID    *string         `json:"abono_id"`
	Operacion  string          `json:"operacion"`
	Monto      decimal.Decimal `json:"monto"`
	Detalle    string          `json:"detalle"`
	CreatedAt  string          `json:"created_at"`
}

type AlertaListResponse struct {
	Data  []AlertaConciliacionResponse `json:"data"`
	Total int64                        `json:"total"`
	Page  int                          `json:"page"`
	Limit int                          `json:"limit"`
}
