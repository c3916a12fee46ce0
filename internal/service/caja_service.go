package service

import (
	"context"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/google/uuid"
)

type CajaService interface {
	// RegistrarMovimiento records a manual entrada/salida. Settlement salidas
	// are created by LiquidacionService, never through this path.
	RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.CajaResponse, error)
	ListarMovimientos(ctx context.Context, page, limit int) (*dto.CajaListResponse, error)
	Saldo(ctx context.Context) (*dto.SaldoCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) RegistrarMovimiento(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.CajaResponse, error) {
	mov := &model.Caja{
		Monto:       req.Monto,
		Tipo:        req.Tipo,
		Concepto:    model.CajaConceptoManual,
		UserID:      usuarioID,
		Estado:      model.CajaEstadoActivo,
		Descripcion: &req.Descripcion,
	}
	if err := s.repo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return cajaToResponse(mov), nil
}

func (s *cajaService) ListarMovimientos(ctx context.Context, page, limit int) (*dto.CajaListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	movimientos, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CajaResponse, 0, len(movimientos))
	for i := range movimientos {
		items = append(items, *cajaToResponse(&movimientos[i]))
	}
	return &dto.CajaListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *cajaService) Saldo(ctx context.Context) (*dto.SaldoCajaResponse, error) {
	saldo, err := s.repo.Saldo(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SaldoCajaResponse{Saldo: saldo}, nil
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	var referencia *string
	if c.Referencia != nil {
		ref := c.Referencia.String()
		referencia = &ref
	}
	return &dto.CajaResponse{
		ID:          c.ID.String(),
		Monto:       c.Monto,
		Tipo:        c.Tipo,
		Concepto:    c.Concepto,
		Referencia:  referencia,
		Estado:      c.Estado,
		Descripcion: c.Descripcion,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
