package repository

import (
	"context"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AbonoRepository interface {
	CreateTx(tx *gorm.DB, a *model.Abono) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Abono, error)
	ListByPrestamo(ctx context.Context, prestamoID uuid.UUID) ([]model.Abono, error)
	SaveTx(tx *gorm.DB, a *model.Abono) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// UltimaFechaEfectivaTx returns the most recent effective date among the
	// prestamo's abonos, excluding the one being reversed. Nil when none remain.
	UltimaFechaEfectivaTx(tx *gorm.DB, prestamoID, excluir uuid.UUID) (*time.Time, error)
	DB() *gorm.DB
}

type abonoRepo struct{ db *gorm.DB }

func NewAbonoRepository(db *gorm.DB) AbonoRepository { return &abonoRepo{db: db} }

func (r *abonoRepo) CreateTx(tx *gorm.DB, a *model.Abono) error {
	return tx.Create(a).Error
}

func (r *abonoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Abono, error) {
	var a model.Abono
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *abonoRepo) ListByPrestamo(ctx context.Context, prestamoID uuid.UUID) ([]model.Abono, error) {
	var abonos []model.Abono
	err := r.db.WithContext(ctx).
		Where("prestamo_id = ?", prestamoID).
		Order("fecha_pago ASC").
		Find(&abonos).Error
	return abonos, err
}

func (r *abonoRepo) SaveTx(tx *gorm.DB, a *model.Abono) error {
	return tx.Save(a).Error
}

func (r *abonoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Abono{}, id).Error
}

func (r *abonoRepo) UltimaFechaEfectivaTx(tx *gorm.DB, prestamoID, excluir uuid.UUID) (*time.Time, error) {
	var fecha *time.Time
	err := tx.Model(&model.Abono{}).
		Select("MAX(COALESCE(fecha_liquidacion, fecha_pago))").
		Where("prestamo_id = ? AND id <> ?", prestamoID, excluir).
		Scan(&fecha).Error
	return fecha, err
}

func (r *abonoRepo) DB() *gorm.DB { return r.db }
