package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	CreateTx(tx *gorm.DB, c *model.Caja) error
	// FindByReferencia resolves the entry created for a liquidacion.
	// Returns gorm.ErrRecordNotFound when the settlement never produced one
	// (zero net amount); callers treat that as a no-op, not a failure.
	FindByReferencia(ctx context.Context, referencia uuid.UUID) (*model.Caja, error)
	Save(ctx context.Context, c *model.Caja) error
	DeleteByReferenciaTx(tx *gorm.DB, referencia uuid.UUID) error
	List(ctx context.Context, page, limit int) ([]model.Caja, int64, error)
	Saldo(ctx context.Context) (decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) CreateTx(tx *gorm.DB, c *model.Caja) error {
	return tx.Create(c).Error
}

func (r *cajaRepo) FindByReferencia(ctx context.Context, referencia uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("referencia = ?", referencia).First(&c).Error
	return &c, err
}

func (r *cajaRepo) Save(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cajaRepo) DeleteByReferenciaTx(tx *gorm.DB, referencia uuid.UUID) error {
	return tx.Where("referencia = ?", referencia).Delete(&model.Caja{}).Error
}

func (r *cajaRepo) List(ctx context.Context, page, limit int) ([]model.Caja, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Caja{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var movimientos []model.Caja
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movimientos).Error
	return movimientos, total, err
}

func (r *cajaRepo) Saldo(ctx context.Context) (decimal.Decimal, error) {
	var saldo decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Caja{}).
		Select("SUM(CASE WHEN tipo = 'entrada' THEN monto ELSE -monto END)").
		Where("estado = ?", model.CajaEstadoActivo).
		Scan(&saldo).Error
	if err != nil || !saldo.Valid {
		return decimal.Zero, err
	}
	return saldo.Decimal, nil
}
