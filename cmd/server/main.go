// Command server runs the legal consultation HTTP backend.
//
// Startup order: environment → config → logging → tracing → MongoDB →
// services → HTTP server. Shutdown is the reverse, bounded by a grace
// period so in-flight consultations can finish.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-legal-backend/internal/config"
	httpapi "github.com/tbourn/go-legal-backend/internal/http"
	"github.com/tbourn/go-legal-backend/internal/llm"
	"github.com/tbourn/go-legal-backend/internal/observability"
	"github.com/tbourn/go-legal-backend/internal/repo"
	"github.com/tbourn/go-legal-backend/internal/sysutil"
)

func main() {
	// Absence of .env is fine in container/prod deployments.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	version := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), "dev")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	client, db, err := repo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Str("uri", cfg.Mongo.URI).Msg("mongodb connect failed")
	}
	coll := repo.ConsultationCollection(db)
	if err := repo.EnsureIndexes(ctx, coll); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	if cfg.OpenRouter.APIKey == "" {
		// The server still starts; /legal-consult fails until the key is set.
		log.Warn().Msg("OPENROUTER_API_KEY not set, consultations will be rejected")
	}
	llmClient := llm.New(cfg.OpenRouter)

	consultSvc, historySvc := httpapi.NewServices(coll, llmClient, cfg)

	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	httpapi.RegisterRoutes(engine, consultSvc, historySvc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("model", cfg.OpenRouter.Model).
			Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}
	log.Info().Msg("server stopped")
}
