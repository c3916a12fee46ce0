package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"gorm.io/gorm"
)

type AlertaRepository interface {
	CreateTx(tx *gorm.DB, a *model.AlertaConciliacion) error
	List(ctx context.Context, page, limit int) ([]model.AlertaConciliacion, int64, error)
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) CreateTx(tx *gorm.DB, a *model.AlertaConciliacion) error {
	return tx.Create(a).Error
}

func (r *alertaRepo) List(ctx context.Context, page, limit int) ([]model.AlertaConciliacion, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.AlertaConciliacion{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var alertas []model.AlertaConciliacion
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&alertas).Error
	return alertas, total, err
}
