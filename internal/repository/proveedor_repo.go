package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByCedula(ctx context.Context, cedula string) (*model.Proveedor, error)
	List(ctx context.Context, soloActivos bool) ([]model.Proveedor, error)
	Save(ctx context.Context, p *model.Proveedor) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *proveedorRepo) FindByCedula(ctx context.Context, cedula string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("cedula = ?", cedula).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, soloActivos bool) ([]model.Proveedor, error) {
	q := r.db.WithContext(ctx).Order("nombre")
	if soloActivos {
		q = q.Where("activo = true")
	}
	var proveedores []model.Proveedor
	err := q.Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Save(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}
