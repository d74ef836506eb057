// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-legal-backend/internal/config"
	"github.com/tbourn/go-legal-backend/internal/domain"
	"github.com/tbourn/go-legal-backend/internal/http/handlers"
	"github.com/tbourn/go-legal-backend/internal/http/middleware"
	"github.com/tbourn/go-legal-backend/internal/repo"
	"github.com/tbourn/go-legal-backend/internal/services"
)

// historyRepoShim adapts the repository free functions to the
// services.HistoryRepo interface expected by the HistoryService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type historyRepoShim struct {
	coll *mongo.Collection
}

// Insert proxies repo.InsertConsultation.
func (s historyRepoShim) Insert(ctx context.Context, rec *domain.ConsultationRecord) error {
	return repo.InsertConsultation(ctx, s.coll, rec)
}

// Count proxies repo.CountConsultations.
func (s historyRepoShim) Count(ctx context.Context, userID string) (int64, error) {
	return repo.CountConsultations(ctx, s.coll, userID)
}

// ListPage proxies repo.ListConsultationsPage.
func (s historyRepoShim) ListPage(ctx context.Context, userID string, offset, limit int) ([]domain.ConsultationRecord, error) {
	return repo.ListConsultationsPage(ctx, s.coll, userID, offset, limit)
}

// Delete proxies repo.DeleteConsultation.
func (s historyRepoShim) Delete(ctx context.Context, id, userID string) (bool, error) {
	return repo.DeleteConsultation(ctx, s.coll, id, userID)
}

// DeleteAll proxies repo.DeleteAllConsultations.
func (s historyRepoShim) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return repo.DeleteAllConsultations(ctx, s.coll, userID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), rate limiting, CORS and security
// headers, health and metrics endpoints, the consultation endpoint, and the
// profile history API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs with e-mail scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and security headers
//  9. Gzip compression for history payloads
func RegisterRoutes(r *gin.Engine, consultSvc handlers.ConsultService, historySvc handlers.HistoryService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS allowlist. Config guarantees at least one origin (the dev
	// frontend by default); there is deliberately no allow-all mode.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Security headers (HSTS only when enabled and request is HTTPS).
	// History responses carry per-user legal questions, hence NoStore.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// 9) Compress large history pages
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Legal backend is running",
		})
	})

	h := handlers.New(consultSvc, historySvc)

	// Consultation endpoint
	r.POST("/legal-consult", h.LegalConsult)

	// Profile history API
	profile := r.Group("/api/profile")
	{
		profile.POST("/save-consultation", h.SaveConsultation)
		profile.GET("/history/:userId", h.GetHistory)
		profile.DELETE("/history/:consultationId", h.DeleteConsultation)
		profile.DELETE("/history/clear/:userId", h.ClearHistory)
	}
}

// NewServices builds the default service graph for the HTTP layer from the
// Mongo collection and LLM client, applying the configured limits.
func NewServices(coll *mongo.Collection, llm services.ChatCompleter, cfg config.Config) (*services.ConsultationService, *services.HistoryService) {
	consultSvc := services.NewConsultationService(llm)
	consultSvc.MaxQuestionRunes = cfg.MaxQuestionChars

	historySvc := services.NewHistoryService(historyRepoShim{coll: coll})
	historySvc.DefaultPageSize = cfg.DefaultPageSize

	return consultSvc, historySvc
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
