package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja movement types and statuses.
const (
	CajaTipoEntrada = "entrada"
	CajaTipoSalida  = "salida"

	CajaEstadoActivo  = "ACTIVO"
	CajaEstadoAnulado = "ANULADO"

	// CajaConceptoLiquidacion tags the salida created for a settlement payout.
	CajaConceptoLiquidacion = "LIQUIDACION"
	CajaConceptoManual      = "MANUAL"
)

// Caja is a cash-register entry. Referencia links the entry to the settlement
// that produced it (match by value, there is no FK); its Estado mirrors that
// settlement's estado and the row is removed when the settlement is deleted.
type Caja struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Monto    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Tipo     string          `gorm:"type:varchar(10);not null"`
	Concepto string          `gorm:"type:varchar(40);not null"`
	// Referencia holds the originating liquidacion id; nil for manual movements.
	Referencia  *uuid.UUID `gorm:"type:uuid;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null"`
	Estado      string     `gorm:"type:varchar(20);not null;default:'ACTIVO'"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Caja) TableName() string { return "caja" }
