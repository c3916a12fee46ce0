package worker

// recibo_worker.go
// Processes receipt-generation jobs from QueueRecibos: renders the settlement
// PDF and, when the supplier has an email on file, enqueues its delivery.
// Failures schedule a retry with exponential backoff; once the budget is
// exhausted the job moves to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/infra"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxReciboRetries = 5

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	LiquidacionID string `json:"liquidacion_id"`
}

// ReciboWorker renders settlement receipt PDFs.
type ReciboWorker struct {
	reciboRepo      repository.ReciboRepository
	liquidacionRepo repository.LiquidacionRepository
	proveedorRepo   repository.ProveedorRepository
	dispatcher      *Dispatcher
	rdb             *redis.Client
	pdfStoragePath  string
}

func NewReciboWorker(
	reciboRepo repository.ReciboRepository,
	liquidacionRepo repository.LiquidacionRepository,
	proveedorRepo repository.ProveedorRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *ReciboWorker {
	return &ReciboWorker{
		reciboRepo:      reciboRepo,
		liquidacionRepo: liquidacionRepo,
		proveedorRepo:   proveedorRepo,
		dispatcher:      dispatcher,
		rdb:             rdb,
		pdfStoragePath:  pdfStoragePath,
	}
}

// Process handles a single recibo job.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}
	liquidacionID, err := uuid.Parse(payload.LiquidacionID)
	if err != nil {
		log.Error().Str("liquidacion_id", payload.LiquidacionID).Msg("recibo_worker: invalid liquidacion_id")
		return
	}

	recibo, err := w.reciboRepo.FindByLiquidacion(ctx, liquidacionID)
	if err != nil {
		log.Error().Err(err).Str("liquidacion_id", payload.LiquidacionID).Msg("recibo_worker: recibo not found")
		return
	}
	if recibo.Estado == model.ReciboEstadoGenerado {
		return // already done, duplicate job
	}

	liq, err := w.liquidacionRepo.FindByID(ctx, liquidacionID)
	if err != nil {
		w.fail(ctx, recibo, raw, fmt.Sprintf("liquidacion not found: %v", err))
		return
	}
	proveedor, err := w.proveedorRepo.FindByID(ctx, liq.ProveedorID)
	if err != nil {
		proveedor = nil // receipt still renders, without supplier block
	}

	pdfPath, err := infra.GenerateReciboPDF(liq, proveedor, w.pdfStoragePath)
	if err != nil {
		w.fail(ctx, recibo, raw, fmt.Sprintf("pdf generation: %v", err))
		return
	}

	recibo.Estado = model.ReciboEstadoGenerado
	recibo.PDFPath = &pdfPath
	recibo.LastError = nil
	recibo.NextRetryAt = nil
	if err := w.reciboRepo.Update(ctx, recibo); err != nil {
		log.Error().Err(err).Str("liquidacion_id", payload.LiquidacionID).Msg("recibo_worker: failed to update recibo")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("liquidacion_id", payload.LiquidacionID).Msg("recibo_worker: PDF generated")

	if proveedor != nil && proveedor.Email != nil && *proveedor.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *proveedor.Email,
			Subject: "Recibo de liquidación de café",
			Body:    fmt.Sprintf("Adjunto el recibo de su liquidación del %s.\nNeto pagado: %s", liq.FechaLiquidacion.Format("02/01/2006"), liq.MontoNeto.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *proveedor.Email).Msg("recibo_worker: failed to enqueue email")
		}
	}
}

// fail records the error and either schedules a retry (exponential backoff,
// picked up by the retry cron) or moves the job to the DLQ.
func (w *ReciboWorker) fail(ctx context.Context, recibo *model.Recibo, raw json.RawMessage, reason string) {
	recibo.RetryCount++
	recibo.Estado = model.ReciboEstadoError
	recibo.LastError = &reason

	if recibo.RetryCount >= maxReciboRetries {
		recibo.NextRetryAt = nil
		SendToDLQ(ctx, w.rdb, QueueRecibos, "recibo", raw, reason, recibo.RetryCount)
	} else {
		// 2m, 4m, 8m, 16m
		next := time.Now().Add(time.Duration(1<<uint(recibo.RetryCount)) * time.Minute)
		recibo.NextRetryAt = &next
	}
	if err := w.reciboRepo.Update(ctx, recibo); err != nil {
		log.Error().Err(err).Msg("recibo_worker: failed to persist failure state")
	}
	log.Warn().Str("reason", reason).Int("retry_count", recibo.RetryCount).Msg("recibo_worker: generation failed")
}
