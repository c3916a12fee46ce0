package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LiquidacionEstadoActivo  = "ACTIVO"
	LiquidacionEstadoAnulado = "ANULADO"
)

// Liquidacion settles a batch of entregas against a price: it consumes the
// deliveries, optionally withholds abonos to service the supplier's loan, and
// produces one cash-register salida for the net payout.
// Estado: ACTIVO | ANULADO. Voiding keeps the row and mirrors the estado onto
// the caja entry; deleting runs the full reversal cascade.
type Liquidacion struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaLiquidacion  time.Time       `gorm:"not null"`
	ProveedorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PrestamoID        *uuid.UUID      `gorm:"type:uuid;index"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null"`
	TipoCambio        decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	TotalQQLiquidados decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalQQAbonados   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioLiquidacion decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoBruto        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoNeto         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Observaciones     *string
	Estado            string `gorm:"type:varchar(20);not null;default:'ACTIVO'"`
	RazonAnula        *string
	FechaAnula        *time.Time
	UsuarioAnula      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Proveedor *Proveedor           `gorm:"foreignKey:ProveedorID"`
	Detalles  []DetalleLiquidacion `gorm:"foreignKey:LiquidacionID"`
	Abonos    []Abono              `gorm:"foreignKey:LiquidacionID"`
}

func (Liquidacion) TableName() string { return "liquidaciones" }

// DetalleLiquidacion links a settlement to one consumed entrega.
type DetalleLiquidacion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LiquidacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntregaID     uuid.UUID       `gorm:"type:uuid;not null"`
	PesoNeto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time

	Entrega *Entrega `gorm:"foreignKey:EntregaID"`
}

func (DetalleLiquidacion) TableName() string { return "detalle_liquidaciones" }
