package repository

import (
	"context"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReciboRepository interface {
	Create(ctx context.Context, rec *model.Recibo) error
	Update(ctx context.Context, rec *model.Recibo) error
	FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) (*model.Recibo, error)
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error)
}

type reciboRepo struct{ db *gorm.DB }

func NewReciboRepository(db *gorm.DB) ReciboRepository { return &reciboRepo{db: db} }

func (r *reciboRepo) Create(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *reciboRepo) Update(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *reciboRepo) FindByLiquidacion(ctx context.Context, liquidacionID uuid.UUID) (*model.Recibo, error) {
	var rec model.Recibo
	err := r.db.WithContext(ctx).Where("liquidacion_id = ?", liquidacionID).First(&rec).Error
	return &rec, err
}

func (r *reciboRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error) {
	var recibos []model.Recibo
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at <= ?", model.ReciboEstadoError, now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&recibos).Error
	return recibos, err
}
