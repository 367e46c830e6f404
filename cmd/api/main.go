package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-webhook/config"
	httpHandler "payment-webhook/internal/adapter/http/handler"
	"payment-webhook/internal/adapter/notify"
	pgStorage "payment-webhook/internal/adapter/storage/postgres"
	redisStorage "payment-webhook/internal/adapter/storage/redis"
	"payment-webhook/internal/core/ports"
	"payment-webhook/internal/service"
	"payment-webhook/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	openAPIPath := flag.String("openapi", "docs/api/openapi.yaml", "path to the OpenAPI document served at /swagger")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("gateway_env", cfg.Gateway.Env).
		Str("notifier", cfg.Notifier.Provider).
		Msg("Starting payment webhook service")

	if _, err := cfg.Gateway.Secret(); err != nil {
		log.Error().Err(err).Msg("Signing secret missing, every delivery will be rejected until it is set")
	}

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Repositories and stores
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	processedCache := redisStorage.NewProcessedCache(rdb)
	notificationGuard := redisStorage.NewNotificationGuard(rdb)

	mailer, err := notify.NewMailer(cfg.Notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise mailer")
	}

	// Services
	verifier := service.NewHMACVerifier(cfg.Gateway)
	recorder := service.NewPaymentRecorder(paymentRepo, processedCache, cfg.Database.WriteTimeout, log)
	notifier := service.NewEmailNotifier(mailer, notificationGuard, cfg.Notifier.From, cfg.Notifier.Timeout, log)
	webhookSvc := service.NewWebhookService(verifier, recorder, notifier, service.WebhookOptions{
		RetryOnStoreFailure: cfg.Webhook.RetryOnStoreFailure,
	}, log)
	querySvc := service.NewPaymentQueryService(paymentRepo)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	deps := httpHandler.RouterDeps{
		WebhookSvc:      webhookSvc,
		QuerySvc:        querySvc,
		TokenSvc:        tokenSvc,
		AuditSvc:        auditSvc,
		HealthCheckers:  []ports.HealthChecker{pgStorage.NewSchemaCheck(pool), redisStorage.NewWriteCheck(rdb)},
		WebhookPath:     cfg.Gateway.WebhookPath,
		SignatureHeader: cfg.Gateway.SignatureHeader,
		EventIDHeader:   cfg.Gateway.EventIDHeader,
		MaxBodyBytes:    cfg.Webhook.MaxBodyBytes,
		Logger:          log,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimitStore = redisStorage.NewRateLimitStore(rdb)
	}

	if specBytes, err := os.ReadFile(*openAPIPath); err == nil {
		deps.OpenAPISpec = specBytes
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router, err := httpHandler.SetupRouter(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("webhook_path", cfg.Gateway.WebhookPath).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
