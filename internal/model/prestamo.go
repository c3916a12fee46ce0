package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prestamo is a line of credit extended to a coffee supplier.
// Saldo is maintained by the ledger operations in PrestamoService; it always
// equals Monto minus the sum of abono_capital of all non-reversed abonos.
// It is NOT a derived column: every mutation goes through the ledger.
type Prestamo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Monto is the disbursed principal; Interes is the annual rate in percent.
	Monto           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Interes         decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FechaDesembolso time.Time       `gorm:"not null"`
	// FechaUltimoPago is nil until the first abono is applied; interest accrues
	// from FechaDesembolso in that case.
	FechaUltimoPago *time.Time
	Saldo           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Observaciones   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
	Abonos    []Abono    `gorm:"foreignKey:PrestamoID"`
}

func (Prestamo) TableName() string { return "prestamos" }

// FechaReferencia is the date interest accrues from: the last payment when one
// exists, the disbursement date otherwise.
func (p *Prestamo) FechaReferencia() time.Time {
	if p.FechaUltimoPago != nil {
		return *p.FechaUltimoPago
	}
	return p.FechaDesembolso
}
