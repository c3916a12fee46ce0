package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/config"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PrestamoService interface {
	Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*model.Prestamo, error)
	Obtener(ctx context.Context, id uuid.UUID) (*model.Prestamo, error)
	Listar(ctx context.Context, proveedorID *uuid.UUID) ([]model.Prestamo, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPrestamoRequest) (*model.Prestamo, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	// InteresAlCorte projects accrued interest at a cut-off date. Fails hard
	// with ErrPrestamoNoEncontrado, unlike the ledger mutations below.
	InteresAlCorte(ctx context.Context, id uuid.UUID, fecha time.Time) (CorteInteres, error)

	// Ledger mutations. Each runs inside the caller's transaction, locks the
	// loan row FOR UPDATE, and atomically updates saldo + fecha_ultimo_pago.
	// A loan that no longer resolves is tolerated: the mutation becomes a
	// no-op that logs a warning and persists an AlertaConciliacion row.
	AplicarAbonoTx(tx *gorm.DB, a *model.Abono) error
	RevertirAbonoTx(tx *gorm.DB, a *model.Abono) error
	RevisarAbonoTx(tx *gorm.DB, a *model.Abono, capitalAnterior decimal.Decimal) error

	ListarAlertas(ctx context.Context, page, limit int) (*dto.AlertaListResponse, error)
}

type prestamoService struct {
	repo    repository.PrestamoRepository
	abonos  repository.AbonoRepository
	alertas repository.AlertaRepository

	politicaReversion  string
	estrategiaRevision string

	// now is swappable in tests.
	now func() time.Time
}

func NewPrestamoService(
	repo repository.PrestamoRepository,
	abonos repository.AbonoRepository,
	alertas repository.AlertaRepository,
	cfg *config.Config,
) PrestamoService {
	return &prestamoService{
		repo:               repo,
		abonos:             abonos,
		alertas:            alertas,
		politicaReversion:  cfg.ReversalDatePolicy,
		estrategiaRevision: cfg.RevisionStrategy,
		now:                time.Now,
	}
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *prestamoService) Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*model.Prestamo, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	fecha, err := time.Parse("2006-01-02", req.FechaDesembolso)
	if err != nil {
		return nil, fmt.Errorf("fecha_desembolso inválida: %w", err)
	}

	p := &model.Prestamo{
		ProveedorID:     proveedorID,
		Monto:           req.Monto,
		Interes:         req.Interes,
		FechaDesembolso: fecha,
		Saldo:           req.Monto,
		Observaciones:   req.Observaciones,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *prestamoService) Obtener(ctx context.Context, id uuid.UUID) (*model.Prestamo, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPrestamoNoEncontrado
	}
	return p, err
}

func (s *prestamoService) Listar(ctx context.Context, proveedorID *uuid.UUID) ([]model.Prestamo, error) {
	return s.repo.List(ctx, proveedorID)
}

// Actualizar only touches descriptive fields. Monto, saldo and dates belong to
// the ledger and are never edited directly.
func (s *prestamoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPrestamoRequest) (*model.Prestamo, error) {
	p, err := s.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Interes != nil {
		p.Interes = *req.Interes
	}
	if req.Observaciones != nil {
		p.Observaciones = req.Observaciones
	}
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SaveTx(tx, p)
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *prestamoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Obtener(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountAbonos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.New("el prestamo tiene abonos registrados y no puede eliminarse")
	}
	return s.repo.Delete(ctx, id)
}

func (s *prestamoService) InteresAlCorte(ctx context.Context, id uuid.UUID, fecha time.Time) (CorteInteres, error) {
	p, err := s.Obtener(ctx, id)
	if err != nil {
		return CorteInteres{}, err
	}
	return CalcularInteres(p, fecha)
}

// ── Ledger ────────────────────────────────────────────────────────────────────

// AplicarAbonoTx discounts the payment's principal portion from the loan
// balance and advances fecha_ultimo_pago to the payment's effective date.
func (s *prestamoService) AplicarAbonoTx(tx *gorm.DB, a *model.Abono) error {
	p, err := s.lockPrestamo(tx, a, model.AlertaOperacionAplicar)
	if err != nil || p == nil {
		return err
	}
	p.Saldo = p.Saldo.Sub(a.AbonoCapital)
	fecha := a.FechaEfectiva()
	p.FechaUltimoPago = &fecha
	return s.repo.SaveTx(tx, p)
}

// RevertirAbonoTx restores the payment's principal portion to the loan
// balance. What fecha_ultimo_pago resets to is a configuration choice
// (REVERSAL_DATE_POLICY): the legacy system had both reset-to-disbursement
// and reset-to-now in its history, and neither is obviously right.
func (s *prestamoService) RevertirAbonoTx(tx *gorm.DB, a *model.Abono) error {
	p, err := s.lockPrestamo(tx, a, model.AlertaOperacionRevertir)
	if err != nil || p == nil {
		return err
	}
	p.Saldo = p.Saldo.Add(a.AbonoCapital)

	switch s.politicaReversion {
	case config.ReversalAhora:
		ahora := s.now()
		p.FechaUltimoPago = &ahora
	case config.ReversalUltimoAbono:
		fecha, err := s.abonos.UltimaFechaEfectivaTx(tx, p.ID, a.ID)
		if err != nil {
			return err
		}
		p.FechaUltimoPago = fecha
	default: // config.ReversalDesembolso
		// Nil makes interest accrue from fecha_desembolso again.
		p.FechaUltimoPago = nil
	}
	return s.repo.SaveTx(tx, p)
}

// RevisarAbonoTx adjusts the balance after an already-applied payment was
// edited. The delta-guarded strategy is the authoritative one; the direct
// strategy (+old, -new) is kept behind REVISION_STRATEGY so both can be run
// against historical data until parity is confirmed.
func (s *prestamoService) RevisarAbonoTx(tx *gorm.DB, a *model.Abono, capitalAnterior decimal.Decimal) error {
	p, err := s.lockPrestamo(tx, a, model.AlertaOperacionRevisar)
	if err != nil || p == nil {
		return err
	}

	switch s.estrategiaRevision {
	case config.RevisionDirecta:
		p.Saldo = p.Saldo.Add(capitalAnterior).Sub(a.AbonoCapital)
	default: // config.RevisionDelta
		delta := capitalAnterior.Sub(a.AbonoCapital)
		switch {
		case delta.IsPositive():
			p.Saldo = p.Saldo.Add(a.AbonoCapital)
		case delta.IsNegative():
			p.Saldo = p.Saldo.Sub(a.AbonoCapital)
		}
	}

	fecha := a.FechaEfectiva()
	p.FechaUltimoPago = &fecha
	return s.repo.SaveTx(tx, p)
}

// lockPrestamo resolves and row-locks the abono's loan. On a missing loan it
// returns (nil, nil) after recording the tolerated no-op: a warning log plus
// a persisted AlertaConciliacion so the orphaned abono stays queryable.
func (s *prestamoService) lockPrestamo(tx *gorm.DB, a *model.Abono, operacion string) (*model.Prestamo, error) {
	p, err := s.repo.FindByIDForUpdateTx(tx, a.PrestamoID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	log.Warn().
		Str("prestamo_id", a.PrestamoID.String()).
		Str("abono_id", a.ID.String()).
		Str("operacion", operacion).
		Str("abono_capital", a.AbonoCapital.String()).
		Msg("prestamo no encontrado, mutación de saldo ignorada")

	abonoID := a.ID
	alerta := &model.AlertaConciliacion{
		PrestamoID: a.PrestamoID,
		AbonoID:    &abonoID,
		Operacion:  operacion,
		Monto:      a.AbonoCapital,
		Detalle:    fmt.Sprintf("prestamo %s no existe; operación %s de %s no aplicada", a.PrestamoID, operacion, a.AbonoCapital),
	}
	return nil, s.alertas.CreateTx(tx, alerta)
}

func (s *prestamoService) ListarAlertas(ctx context.Context, page, limit int) (*dto.AlertaListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	alertas, total, err := s.alertas.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertaConciliacionResponse, 0, len(alertas))
	for _, al := range alertas {
		var abonoID *string
		if al.AbonoID != nil {
			id := al.AbonoID.String()
			abonoID = &id
		}
		items = append(items, dto.AlertaConciliacionResponse{
			ID:         al.ID.String(),
			PrestamoID: al.PrestamoID.String(),
			AbonoID:    abonoID,
			Operacion:  al.Operacion,
			Monto:      al.Monto,
			Detalle:    al.Detalle,
			CreatedAt:  al.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.AlertaListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}
