package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a coffee supplier: the counterparty of entregas, prestamos and
// liquidaciones.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Cedula    string    `gorm:"column:cedula;uniqueIndex;not null"`
	Telefono  *string
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Prestamos []Prestamo `gorm:"foreignKey:ProveedorID"`
	Entregas  []Entrega  `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
