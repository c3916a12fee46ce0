package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReciboEstadoPendiente = "pendiente"
	ReciboEstadoGenerado  = "generado"
	ReciboEstadoError     = "error"
)

// Recibo tracks the settlement receipt PDF generated asynchronously by the
// worker pool. Failed recibos keep NextRetryAt so the retry cron can pick
// them up; once the retry budget is exhausted NextRetryAt is cleared and the
// job lands in the DLQ.
type Recibo struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LiquidacionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Estado        string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	PDFPath       *string
	RetryCount    int `gorm:"not null;default:0"`
	NextRetryAt   *time.Time
	LastError     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Recibo) TableName() string { return "recibos" }
