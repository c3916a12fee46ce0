package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Abono is a payment recorded against a prestamo, split into interest and
// principal at creation time. The split (Intereses / AbonoCapital) is frozen
// once persisted; editing the payment goes through the revision flow in
// AbonoService, which re-splits and adjusts the loan balance.
//
// LiquidacionID is set when the abono was withheld from a settlement payout;
// such abonos are owned by the settlement and can only be removed through the
// settlement delete cascade.
type Abono struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrestamoID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	LiquidacionID *uuid.UUID `gorm:"type:uuid;index"`
	FechaPago     time.Time  `gorm:"not null"`
	// FechaLiquidacion overrides FechaPago as the effective date when set.
	FechaLiquidacion *time.Time
	Monto            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiasInteres      int             `gorm:"not null"`
	Intereses        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// AbonoCapital may be negative when Monto does not even cover accrued
	// interest; the sign is preserved, never clamped.
	AbonoCapital decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Prestamo *Prestamo `gorm:"foreignKey:PrestamoID"`
}

func (Abono) TableName() string { return "abonos" }

// FechaEfectiva returns the date the payment takes effect on the loan.
func (a *Abono) FechaEfectiva() time.Time {
	if a.FechaLiquidacion != nil {
		return *a.FechaLiquidacion
	}
	return a.FechaPago
}
