package repository

import (
	"context"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResumenInventario aggregates pending (not yet settled) coffee stock.
type ResumenInventario struct {
	TipoCafe      string          `json:"tipo_cafe"`
	Humedad       decimal.Decimal `json:"humedad"`
	CantidadSacos int             `json:"cantidad_sacos"`
	PesoNeto      decimal.Decimal `json:"peso_neto"`
}

type EntregaRepository interface {
	Create(ctx context.Context, e *model.Entrega) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entrega, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Entrega, error)
	SaveTx(tx *gorm.DB, e *model.Entrega) error
	List(ctx context.Context, proveedorID *uuid.UUID, soloPendientes bool) ([]model.Entrega, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ResumenInventario(ctx context.Context) ([]ResumenInventario, error)
	DB() *gorm.DB
}

type entregaRepo struct{ db *gorm.DB }

func NewEntregaRepository(db *gorm.DB) EntregaRepository { return &entregaRepo{db: db} }

func (r *entregaRepo) Create(ctx context.Context, e *model.Entrega) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *entregaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Entrega, error) {
	var e model.Entrega
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *entregaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Entrega, error) {
	var e model.Entrega
	err := tx.First(&e, id).Error
	return &e, err
}

func (r *entregaRepo) SaveTx(tx *gorm.DB, e *model.Entrega) error {
	return tx.Save(e).Error
}

func (r *entregaRepo) List(ctx context.Context, proveedorID *uuid.UUID, soloPendientes bool) ([]model.Entrega, error) {
	q := r.db.WithContext(ctx).Order("fecha_entrega DESC")
	if proveedorID != nil {
		q = q.Where("proveedor_id = ?", *proveedorID)
	}
	if soloPendientes {
		q = q.Where("liquidada = false")
	}
	var entregas []model.Entrega
	err := q.Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Entrega{}, id).Error
}

func (r *entregaRepo) ResumenInventario(ctx context.Context) ([]ResumenInventario, error) {
	var resumen []ResumenInventario
	err := r.db.WithContext(ctx).
		Model(&model.Entrega{}).
		Select("tipo_cafe, humedad, SUM(cantidad_sacos) AS cantidad_sacos, SUM(peso_neto) AS peso_neto").
		Where("liquidada = false").
		Group("tipo_cafe, humedad").
		Order("tipo_cafe, humedad").
		Scan(&resumen).Error
	return resumen, err
}

func (r *entregaRepo) DB() *gorm.DB { return r.db }
