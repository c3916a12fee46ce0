package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiquidacionRepository interface {
	CreateTx(tx *gorm.DB, l *model.Liquidacion) error
	CreateDetalleTx(tx *gorm.DB, d *model.DetalleLiquidacion) error
	// FindByID preloads Detalles and Abonos; the delete cascade iterates both.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error)
	Save(ctx context.Context, l *model.Liquidacion) error
	List(ctx context.Context, page, limit int) ([]model.Liquidacion, int64, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteDetallesTx(tx *gorm.DB, liquidacionID uuid.UUID) error
	DB() *gorm.DB
}

type liquidacionRepo struct{ db *gorm.DB }

func NewLiquidacionRepository(db *gorm.DB) LiquidacionRepository { return &liquidacionRepo{db: db} }

func (r *liquidacionRepo) CreateTx(tx *gorm.DB, l *model.Liquidacion) error {
	return tx.Create(l).Error
}

func (r *liquidacionRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetalleLiquidacion) error {
	return tx.Create(d).Error
}

func (r *liquidacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error) {
	var l model.Liquidacion
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Abonos").
		First(&l, id).Error
	return &l, err
}

func (r *liquidacionRepo) Save(ctx context.Context, l *model.Liquidacion) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *liquidacionRepo) List(ctx context.Context, page, limit int) ([]model.Liquidacion, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Liquidacion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var liquidaciones []model.Liquidacion
	err := r.db.WithContext(ctx).
		Order("fecha_liquidacion DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&liquidaciones).Error
	return liquidaciones, total, err
}

func (r *liquidacionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Liquidacion{}, id).Error
}

func (r *liquidacionRepo) DeleteDetallesTx(tx *gorm.DB, liquidacionID uuid.UUID) error {
	return tx.Where("liquidacion_id = ?", liquidacionID).Delete(&model.DetalleLiquidacion{}).Error
}

func (r *liquidacionRepo) DB() *gorm.DB { return r.db }
