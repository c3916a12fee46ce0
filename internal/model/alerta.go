package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger operations that can produce a reconciliation alert.
const (
	AlertaOperacionAplicar  = "aplicar"
	AlertaOperacionRevertir = "revertir"
	AlertaOperacionRevisar  = "revisar"
)

// AlertaConciliacion records a tolerated ledger no-op: a balance mutation was
// requested for a prestamo that no longer resolves. The row makes the silent
// path queryable so operators can reconcile orphaned abonos later.
type AlertaConciliacion struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrestamoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AbonoID    *uuid.UUID      `gorm:"type:uuid"`
	Operacion  string          `gorm:"type:varchar(20);not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Detalle    string          `gorm:"not null"`
	CreatedAt  time.Time
}

func (AlertaConciliacion) TableName() string { return "alertas_conciliacion" }
