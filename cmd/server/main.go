package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/config"
	"github.com/AlexRayo/lcr-acopio/internal/infra"
	"github.com/AlexRayo/lcr-acopio/internal/repository"
	"github.com/AlexRayo/lcr-acopio/internal/router"
	"github.com/AlexRayo/lcr-acopio/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Exchange-rate client behind a circuit breaker; settlements fall back to
	// a request-supplied tipo_cambio when the breaker is open.
	fxCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	fxClient := infra.NewFXClient(cfg.FXServiceURL, fxCB)
	mailer := infra.NewMailer(cfg)

	// Async receipt pipeline: PDF generation + email, fed through Redis
	// queues. Handlers are wired here (composition root) so the pool has
	// full access to all infrastructure dependencies.
	dispatcher := worker.NewDispatcher(rdb)
	reciboRepo := repository.NewReciboRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)

	handlers := worker.Handlers{
		Recibos: worker.NewReciboWorker(reciboRepo, liquidacionRepo, proveedorRepo, dispatcher, rdb, cfg.PDFStoragePath),
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{ReciboRepo: reciboRepo, Dispatcher: dispatcher})

	r := router.New(cfg, db, rdb, fxClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("LCR Acopio backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
