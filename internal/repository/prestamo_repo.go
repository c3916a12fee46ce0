package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrestamoRepository interface {
	Create(ctx context.Context, p *model.Prestamo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error)
	// FindByIDForUpdateTx takes a row lock on the prestamo for the duration
	// of the enclosing transaction so concurrent settlements against the
	// same loan cannot lose saldo updates.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error)
	SaveTx(tx *gorm.DB, p *model.Prestamo) error
	List(ctx context.Context, proveedorID *uuid.UUID) ([]model.Prestamo, error)
	CountAbonos(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type prestamoRepo struct{ db *gorm.DB }

func NewPrestamoRepository(db *gorm.DB) PrestamoRepository { return &prestamoRepo{db: db} }

func (r *prestamoRepo) Create(ctx context.Context, p *model.Prestamo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *prestamoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *prestamoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Prestamo, error) {
	var p model.Prestamo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *prestamoRepo) SaveTx(tx *gorm.DB, p *model.Prestamo) error {
	return tx.Save(p).Error
}

func (r *prestamoRepo) List(ctx context.Context, proveedorID *uuid.UUID) ([]model.Prestamo, error) {
	q := r.db.WithContext(ctx).Order("fecha_desembolso DESC")
	if proveedorID != nil {
		q = q.Where("proveedor_id = ?", *proveedorID)
	}
	var prestamos []model.Prestamo
	err := q.Find(&prestamos).Error
	return prestamos, err
}

func (r *prestamoRepo) CountAbonos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Abono{}).Where("prestamo_id = ?", id).Count(&n).Error
	return n, err
}

func (r *prestamoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Prestamo{}, id).Error
}

func (r *prestamoRepo) DB() *gorm.DB { return r.db }
