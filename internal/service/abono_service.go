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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrAbonoDeLiquidacion rejects direct edits of settlement-owned payments;
// those only change through the settlement cascade.
var ErrAbonoDeLiquidacion = errors.New("el abono pertenece a una liquidación y solo puede modificarse a través de ella")

type AbonoService interface {
	Crear(ctx context.Context, req dto.CrearAbonoRequest) (*dto.AbonoResponse, error)
	Listar(ctx context.Context, prestamoID uuid.UUID) ([]dto.AbonoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAbonoRequest) (*dto.AbonoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type abonoService struct {
	repo      repository.AbonoRepository
	prestamos repository.PrestamoRepository
	ledger    PrestamoService
}

func NewAbonoService(
	repo repository.AbonoRepository,
	prestamos repository.PrestamoRepository,
	ledger PrestamoService,
) AbonoService {
	return &abonoService{repo: repo, prestamos: prestamos, ledger: ledger}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Standalone payment: resolve the loan (hard failure), split the amount into
// interest and principal, then persist the abono and apply it to the ledger
// in one transaction.

func (s *abonoService) Crear(ctx context.Context, req dto.CrearAbonoRequest) (*dto.AbonoResponse, error) {
	prestamoID, err := uuid.Parse(req.PrestamoID)
	if err != nil {
		return nil, fmt.Errorf("prestamo_id inválido: %w", err)
	}
	fechaPago, err := time.Parse("2006-01-02", req.FechaPago)
	if err != nil {
		return nil, fmt.Errorf("fecha_pago inválida: %w", err)
	}

	p, err := s.prestamos.FindByID(ctx, prestamoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPrestamoNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	particion, err := DividirAbono(p, req.Monto, fechaPago)
	if err != nil {
		return nil, err
	}

	abono := &model.Abono{
		PrestamoID:   prestamoID,
		FechaPago:    fechaPago,
		Monto:        req.Monto,
		DiasInteres:  particion.Dias,
		Intereses:    particion.Intereses,
		AbonoCapital: particion.AbonoCapital,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, abono); err != nil {
			return err
		}
		return s.ledger.AplicarAbonoTx(tx, abono)
	})
	if txErr != nil {
		return nil, txErr
	}

	return abonoToResponse(abono, p.Saldo.Sub(particion.AbonoCapital)), nil
}

func (s *abonoService) Listar(ctx context.Context, prestamoID uuid.UUID) ([]dto.AbonoResponse, error) {
	p, err := s.prestamos.FindByID(ctx, prestamoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPrestamoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	abonos, err := s.repo.ListByPrestamo(ctx, prestamoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AbonoResponse, 0, len(abonos))
	for i := range abonos {
		resp = append(resp, *abonoToResponse(&abonos[i], p.Saldo))
	}
	return resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Revision flow: re-split against the loan's current reference date, persist
// the new split, and let the ledger reconcile the balance delta.

func (s *abonoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarAbonoRequest) (*dto.AbonoResponse, error) {
	abono, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("abono no encontrado")
	}
	if abono.LiquidacionID != nil {
		return nil, ErrAbonoDeLiquidacion
	}
	fechaPago, err := time.Parse("2006-01-02", req.FechaPago)
	if err != nil {
		return nil, fmt.Errorf("fecha_pago inválida: %w", err)
	}

	p, err := s.prestamos.FindByID(ctx, abono.PrestamoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPrestamoNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	particion, err := DividirAbono(p, req.Monto, fechaPago)
	if err != nil {
		return nil, err
	}

	capitalAnterior := abono.AbonoCapital
	abono.FechaPago = fechaPago
	abono.Monto = req.Monto
	abono.DiasInteres = particion.Dias
	abono.Intereses = particion.Intereses
	abono.AbonoCapital = particion.AbonoCapital

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, abono); err != nil {
			return err
		}
		return s.ledger.RevisarAbonoTx(tx, abono, capitalAnterior)
	})
	if txErr != nil {
		return nil, txErr
	}

	saldo := decimal.Zero
	if actualizado, err := s.prestamos.FindByID(ctx, abono.PrestamoID); err == nil {
		saldo = actualizado.Saldo
	}
	return abonoToResponse(abono, saldo), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *abonoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	abono, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("abono no encontrado")
	}
	if abono.LiquidacionID != nil {
		return ErrAbonoDeLiquidacion
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.ledger.RevertirAbonoTx(tx, abono); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, abono.ID)
	})
}

func abonoToResponse(a *model.Abono, saldo decimal.Decimal) *dto.AbonoResponse {
	var liquidacionID *string
	if a.LiquidacionID != nil {
		id := a.LiquidacionID.String()
		liquidacionID = &id
	}
	return &dto.AbonoResponse{
		ID:            a.ID.String(),
		PrestamoID:    a.PrestamoID.String(),
		LiquidacionID: liquidacionID,
		FechaPago:     a.FechaEfectiva().Format("2006-01-02"),
		Monto:         a.Monto,
		DiasInteres:   a.DiasInteres,
		Intereses:     a.Intereses,
		AbonoCapital:  a.AbonoCapital,
		SaldoPrestamo: saldo,
	}
}
