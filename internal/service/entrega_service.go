package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/google/uuid"
)

type EntregaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearEntregaRequest) (*dto.EntregaResponse, error)
	Listar(ctx context.Context, proveedorID *uuid.UUID, soloPendientes bool) ([]dto.EntregaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Inventario(ctx context.Context) ([]dto.InventarioItemResponse, error)
}

type entregaService struct {
	repo        repository.EntregaRepository
	proveedores repository.ProveedorRepository
}

func NewEntregaService(repo repository.EntregaRepository, proveedores repository.ProveedorRepository) EntregaService {
	return &entregaService{repo: repo, proveedores: proveedores}
}

func (s *entregaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearEntregaRequest) (*dto.EntregaResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	if _, err := s.proveedores.FindByID(ctx, proveedorID); err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	fecha, err := time.Parse("2006-01-02", req.FechaEntrega)
	if err != nil {
		return nil, fmt.Errorf("fecha_entrega inválida: %w", err)
	}

	entrega := &model.Entrega{
		ProveedorID:   proveedorID,
		FechaEntrega:  fecha,
		TipoCafe:      req.TipoCafe,
		Humedad:       req.Humedad,
		CantidadSacos: req.CantidadSacos,
		PesoNeto:      req.PesoNeto,
		CreadoPor:     usuarioID,
	}
	if err := s.repo.Create(ctx, entrega); err != nil {
		return nil, err
	}
	return entregaToResponse(entrega), nil
}

func (s *entregaService) Listar(ctx context.Context, proveedorID *uuid.UUID, soloPendientes bool) ([]dto.EntregaResponse, error) {
	entregas, err := s.repo.List(ctx, proveedorID, soloPendientes)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EntregaResponse, 0, len(entregas))
	for i := range entregas {
		resp = append(resp, *entregaToResponse(&entregas[i]))
	}
	return resp, nil
}

func (s *entregaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	entrega, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("entrega no encontrada")
	}
	if entrega.Liquidada {
		return errors.New("la entrega ya fue liquidada y no puede eliminarse")
	}
	return s.repo.Delete(ctx, id)
}

func (s *entregaService) Inventario(ctx context.Context) ([]dto.InventarioItemResponse, error) {
	resumen, err := s.repo.ResumenInventario(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventarioItemResponse, 0, len(resumen))
	for _, r := range resumen {
		items = append(items, dto.InventarioItemResponse{
			TipoCafe:      r.TipoCafe,
			Humedad:       r.Humedad,
			CantidadSacos: r.CantidadSacos,
			PesoNeto:      r.PesoNeto,
		})
	}
	return items, nil
}

func entregaToResponse(e *model.Entrega) *dto.EntregaResponse {
	return &dto.EntregaResponse{
		ID:            e.ID.String(),
		ProveedorID:   e.ProveedorID.String(),
		FechaEntrega:  e.FechaEntrega.Format("2006-01-02"),
		TipoCafe:      e.TipoCafe,
		Humedad:       e.Humedad,
		CantidadSacos: e.CantidadSacos,
		PesoNeto:      e.PesoNeto,
		Liquidada:     e.Liquidada,
	}
}
