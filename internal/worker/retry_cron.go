package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues receipt jobs for recibos
// stuck in estado='error' with a next_retry_at in the past.

import (
	"context"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds the dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReciboRepo repository.ReciboRepository
	Dispatcher *Dispatcher
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries failed recibos whose backoff expired, and re-enqueues them.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	recibos, err := cfg.ReciboRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(recibos) == 0 {
		return
	}

	log.Info().Int("count", len(recibos)).Msg("retry_cron: re-enqueuing failed recibos")

	for i := range recibos {
		payload := ReciboJobPayload{LiquidacionID: recibos[i].LiquidacionID.String()}
		if err := cfg.Dispatcher.EnqueueRecibo(ctx, payload); err != nil {
			log.Error().Err(err).
				Str("liquidacion_id", payload.LiquidacionID).
				Msg("retry_cron: failed to enqueue")
		}
	}
}
