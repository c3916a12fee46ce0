package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entrega is a physical coffee intake record. Liquidada marks that a
// settlement consumed it; the flag is cleared again when that settlement is
// deleted.
type Entrega struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	FechaEntrega  time.Time       `gorm:"not null"`
	TipoCafe      string          `gorm:"type:varchar(40);not null"`
	Humedad       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CantidadSacos int             `gorm:"not null"`
	// PesoNeto is in quintales (qq).
	PesoNeto  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Liquidada bool            `gorm:"not null;default:false;index"`
	CreadoPor uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Entrega) TableName() string { return "entregas" }
