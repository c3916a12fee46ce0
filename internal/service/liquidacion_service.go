package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"
	"github.com/AlexRayo/lcr-acopio/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoCambioClient resolves the settlement-date exchange rate from the
// external FX service. Implemented in internal/infra behind a circuit breaker.
type TipoCambioClient interface {
	TipoCambio(ctx context.Context) (decimal.Decimal, error)
}

type LiquidacionService interface {
	Crear(ctx context.Context, userID uuid.UUID, req dto.CrearLiquidacionRequest) (*dto.LiquidacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.LiquidacionListResponse, error)
	Anular(ctx context.Context, id, usuarioID uuid.UUID, razon string) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error
	Recibo(ctx context.Context, id uuid.UUID) (*model.Recibo, error)
}

type liquidacionService struct {
	repo       repository.LiquidacionRepository
	entregas   repository.EntregaRepository
	cajaRepo   repository.CajaRepository
	abonos     repository.AbonoRepository
	prestamos  repository.PrestamoRepository
	ledger     PrestamoService
	fx         TipoCambioClient
	reciboRepo repository.ReciboRepository
	dispatcher *worker.Dispatcher

	now func() time.Time
}

func NewLiquidacionService(
	repo repository.LiquidacionRepository,
	entregas repository.EntregaRepository,
	cajaRepo repository.CajaRepository,
	abonos repository.AbonoRepository,
	prestamos repository.PrestamoRepository,
	ledger PrestamoService,
	fx TipoCambioClient,
	reciboRepo repository.ReciboRepository,
	dispatcher *worker.Dispatcher,
) LiquidacionService {
	return &liquidacionService{
		repo:       repo,
		entregas:   entregas,
		cajaRepo:   cajaRepo,
		abonos:     abonos,
		prestamos:  prestamos,
		ledger:     ledger,
		fx:         fx,
		reciboRepo: reciboRepo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. settlement row
//   2. per entrega: mark liquidada + detalle row
//   3. optional abono withheld against the supplier's loan (split + apply)
//   4. caja salida for the net payout when positive
// Receipt generation is dispatched after commit, best-effort.

func (s *liquidacionService) Crear(ctx context.Context, userID uuid.UUID, req dto.CrearLiquidacionRequest) (*dto.LiquidacionResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	fecha, err := time.Parse("2006-01-02", req.FechaLiquidacion)
	if err != nil {
		return nil, fmt.Errorf("fecha_liquidacion inválida: %w", err)
	}

	tipoCambio, err := s.resolverTipoCambio(ctx, req.TipoCambio)
	if err != nil {
		return nil, err
	}

	// Pre-flight: every entrega must belong to the proveedor and still be
	// pending. The sum of their peso neto is the settled quantity.
	entregas := make([]*model.Entrega, 0, len(req.EntregaIDs))
	totalQQ := decimal.Zero
	for _, idStr := range req.EntregaIDs {
		entregaID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("entrega_id inválido: %w", err)
		}
		e, err := s.entregas.FindByID(ctx, entregaID)
		if err != nil {
			return nil, fmt.Errorf("entrega %s no encontrada", idStr)
		}
		if e.ProveedorID != proveedorID {
			return nil, fmt.Errorf("la entrega %s pertenece a otro proveedor", idStr)
		}
		if e.Liquidada {
			return nil, fmt.Errorf("la entrega %s ya fue liquidada", idStr)
		}
		entregas = append(entregas, e)
		totalQQ = totalQQ.Add(e.PesoNeto)
	}

	montoBruto := totalQQ.Mul(req.PrecioLiquidacion).Round(2)

	// Optional loan servicing: resolve the loan hard and split the withheld
	// amount before opening the transaction.
	var prestamo *model.Prestamo
	var prestamoID *uuid.UUID
	var particion ParticionAbono
	montoAbonado := decimal.Zero
	if req.PrestamoID != nil {
		if req.MontoAbono == nil {
			return nil, errors.New("monto_abono es requerido cuando se indica prestamo_id")
		}
		pid, err := uuid.Parse(*req.PrestamoID)
		if err != nil {
			return nil, fmt.Errorf("prestamo_id inválido: %w", err)
		}
		prestamo, err = s.prestamos.FindByID(ctx, pid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrestamoNoEncontrado
		}
		if err != nil {
			return nil, err
		}
		if prestamo.ProveedorID != proveedorID {
			return nil, errors.New("el prestamo pertenece a otro proveedor")
		}
		particion, err = DividirAbono(prestamo, *req.MontoAbono, fecha)
		if err != nil {
			return nil, err
		}
		montoAbonado = *req.MontoAbono
		prestamoID = &pid
	}

	if montoAbonado.GreaterThan(montoBruto) {
		return nil, errors.New("el monto del abono excede el monto bruto de la liquidación")
	}
	montoNeto := montoBruto.Sub(montoAbonado)

	totalQQAbonados := decimal.Zero
	if montoAbonado.IsPositive() {
		totalQQAbonados = montoAbonado.Div(req.PrecioLiquidacion).Round(2)
	}

	liq := &model.Liquidacion{
		FechaLiquidacion:  fecha,
		ProveedorID:       proveedorID,
		PrestamoID:        prestamoID,
		UserID:            userID,
		TipoCambio:        tipoCambio,
		TotalQQLiquidados: totalQQ,
		TotalQQAbonados:   totalQQAbonados,
		PrecioLiquidacion: req.PrecioLiquidacion,
		MontoBruto:        montoBruto,
		MontoNeto:         montoNeto,
		Observaciones:     req.Observaciones,
		Estado:            model.LiquidacionEstadoActivo,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, liq); err != nil {
			return err
		}

		for _, e := range entregas {
			e.Liquidada = true
			if err := s.entregas.SaveTx(tx, e); err != nil {
				return err
			}
			detalle := &model.DetalleLiquidacion{
				LiquidacionID: liq.ID,
				EntregaID:     e.ID,
				PesoNeto:      e.PesoNeto,
			}
			if err := s.repo.CreateDetalleTx(tx, detalle); err != nil {
				return err
			}
			liq.Detalles = append(liq.Detalles, *detalle)
		}

		if prestamo != nil && montoAbonado.IsPositive() {
			fechaLiq := fecha
			abono := &model.Abono{
				PrestamoID:       prestamo.ID,
				LiquidacionID:    &liq.ID,
				FechaPago:        fecha,
				FechaLiquidacion: &fechaLiq,
				Monto:            montoAbonado,
				DiasInteres:      particion.Dias,
				Intereses:        particion.Intereses,
				AbonoCapital:     particion.AbonoCapital,
			}
			if err := s.abonos.CreateTx(tx, abono); err != nil {
				return err
			}
			if err := s.ledger.AplicarAbonoTx(tx, abono); err != nil {
				return err
			}
			liq.Abonos = append(liq.Abonos, *abono)
		}

		// A zero-payout settlement never creates a caja entry.
		if montoNeto.IsPositive() {
			referencia := liq.ID
			mov := &model.Caja{
				Monto:      montoNeto,
				Tipo:       model.CajaTipoSalida,
				Concepto:   model.CajaConceptoLiquidacion,
				Referencia: &referencia,
				UserID:     userID,
				Estado:     model.CajaEstadoActivo,
			}
			if err := s.cajaRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.solicitarRecibo(ctx, liq.ID)

	return liquidacionToResponse(liq), nil
}

// solicitarRecibo registers the pending receipt and enqueues its generation.
// Best-effort: a failure here never fails the settlement, the retry cron
// picks the recibo up later.
func (s *liquidacionService) solicitarRecibo(ctx context.Context, liquidacionID uuid.UUID) {
	if s.dispatcher == nil || s.reciboRepo == nil {
		return
	}
	recibo := &model.Recibo{LiquidacionID: liquidacionID, Estado: model.ReciboEstadoPendiente}
	if err := s.reciboRepo.Create(ctx, recibo); err != nil {
		log.Warn().Err(err).Str("liquidacion_id", liquidacionID.String()).Msg("no se pudo registrar el recibo")
		return
	}
	payload := worker.ReciboJobPayload{LiquidacionID: liquidacionID.String()}
	if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
		log.Warn().Err(err).Str("liquidacion_id", liquidacionID.String()).Msg("no se pudo encolar el recibo")
	}
}

func (s *liquidacionService) Recibo(ctx context.Context, id uuid.UUID) (*model.Recibo, error) {
	recibo, err := s.reciboRepo.FindByLiquidacion(ctx, id)
	if err != nil {
		return nil, errors.New("recibo no encontrado")
	}
	return recibo, nil
}

func (s *liquidacionService) resolverTipoCambio(ctx context.Context, enviado *decimal.Decimal) (decimal.Decimal, error) {
	if enviado != nil {
		return *enviado, nil
	}
	if s.fx == nil {
		return decimal.Zero, errors.New("tipo_cambio es requerido: el servicio de cambio no está configurado")
	}
	tc, err := s.fx.TipoCambio(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no se pudo obtener el tipo de cambio: %w", err)
	}
	return tc, nil
}

func (s *liquidacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error) {
	liq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("liquidación no encontrada")
	}
	return liquidacionToResponse(liq), nil
}

func (s *liquidacionService) Listar(ctx context.Context, page, limit int) (*dto.LiquidacionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	liquidaciones, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LiquidacionResponse, 0, len(liquidaciones))
	for i := range liquidaciones {
		items = append(items, *liquidacionToResponse(&liquidaciones[i]))
	}
	return &dto.LiquidacionListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── Anular / Reactivar ────────────────────────────────────────────────────────
// Status transitions mirror onto the caja entry located by referencia. A
// missing caja entry is a no-op (a zero-payout settlement never created one).
// Both transitions are idempotent.

func (s *liquidacionService) Anular(ctx context.Context, id, usuarioID uuid.UUID, razon string) error {
	liq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("liquidación no encontrada")
	}
	if liq.Estado != model.LiquidacionEstadoAnulado {
		ahora := s.now()
		liq.Estado = model.LiquidacionEstadoAnulado
		liq.RazonAnula = &razon
		liq.FechaAnula = &ahora
		liq.UsuarioAnula = &usuarioID
		if err := s.repo.Save(ctx, liq); err != nil {
			return err
		}
	}
	return s.sincronizarCaja(ctx, liq)
}

func (s *liquidacionService) Reactivar(ctx context.Context, id uuid.UUID) error {
	liq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("liquidación no encontrada")
	}
	if liq.Estado != model.LiquidacionEstadoActivo {
		liq.Estado = model.LiquidacionEstadoActivo
		liq.RazonAnula = nil
		liq.FechaAnula = nil
		liq.UsuarioAnula = nil
		if err := s.repo.Save(ctx, liq); err != nil {
			return err
		}
	}
	return s.sincronizarCaja(ctx, liq)
}

// sincronizarCaja mirrors the settlement estado onto its caja entry. Only the
// estado field is touched.
func (s *liquidacionService) sincronizarCaja(ctx context.Context, liq *model.Liquidacion) error {
	mov, err := s.cajaRepo.FindByReferencia(ctx, liq.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	estado := model.CajaEstadoActivo
	if liq.Estado == model.LiquidacionEstadoAnulado {
		estado = model.CajaEstadoAnulado
	}
	if mov.Estado == estado {
		return nil
	}
	mov.Estado = estado
	return s.cajaRepo.Save(ctx, mov)
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Full reversal cascade in one transaction, ordered:
//   1. reverse and delete every abono owned by this settlement
//   2. clear liquidada on every referenced entrega (missing ones are skipped)
//   3. remove the caja entry, detalles and the settlement row
// A failure at any step rolls everything back; a partial cascade would leave
// the loan, entregas and caja mutually inconsistent.

func (s *liquidacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	liq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("liquidación no encontrada")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range liq.Abonos {
			abono := &liq.Abonos[i]
			// Ownership check: only abonos whose liquidacion_id matches may
			// be reversed here, whatever the preload brought back.
			if abono.LiquidacionID == nil || *abono.LiquidacionID != liq.ID {
				log.Warn().
					Str("abono_id", abono.ID.String()).
					Str("liquidacion_id", liq.ID.String()).
					Msg("abono cargado sin pertenecer a la liquidación, omitido")
				continue
			}
			if err := s.ledger.RevertirAbonoTx(tx, abono); err != nil {
				return err
			}
			if err := s.abonos.DeleteTx(tx, abono.ID); err != nil {
				return err
			}
		}

		for i := range liq.Detalles {
			detalle := &liq.Detalles[i]
			entrega, err := s.entregas.FindByIDTx(tx, detalle.EntregaID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already deleted by other means; nothing to clear.
				continue
			}
			if err != nil {
				return err
			}
			entrega.Liquidada = false
			if err := s.entregas.SaveTx(tx, entrega); err != nil {
				return err
			}
		}

		if err := s.cajaRepo.DeleteByReferenciaTx(tx, liq.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteDetallesTx(tx, liq.ID); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, liq.ID)
	})
}

func liquidacionToResponse(l *model.Liquidacion) *dto.LiquidacionResponse {
	var prestamoID *string
	if l.PrestamoID != nil {
		id := l.PrestamoID.String()
		prestamoID = &id
	}
	detalles := make([]dto.DetalleLiquidacionResponse, 0, len(l.Detalles))
	for _, d := range l.Detalles {
		detalles = append(detalles, dto.DetalleLiquidacionResponse{
			EntregaID: d.EntregaID.String(),
			PesoNeto:  d.PesoNeto,
		})
	}
	abonos := make([]dto.AbonoResponse, 0, len(l.Abonos))
	for i := range l.Abonos {
		abonos = append(abonos, *abonoToResponse(&l.Abonos[i], decimal.Zero))
	}
	return &dto.LiquidacionResponse{
		ID:                l.ID.String(),
		FechaLiquidacion:  l.FechaLiquidacion.Format("2006-01-02"),
		ProveedorID:       l.ProveedorID.String(),
		PrestamoID:        prestamoID,
		TipoCambio:        l.TipoCambio,
		TotalQQLiquidados: l.TotalQQLiquidados,
		TotalQQAbonados:   l.TotalQQAbonados,
		PrecioLiquidacion: l.PrecioLiquidacion,
		MontoBruto:        l.MontoBruto,
		MontoNeto:         l.MontoNeto,
		Estado:            l.Estado,
		RazonAnula:        l.RazonAnula,
		Observaciones:     l.Observaciones,
		Detalles:          detalles,
		Abonos:            abonos,
	}
}
