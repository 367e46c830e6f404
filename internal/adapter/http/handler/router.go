package handler

import (
	"payment-webhook/internal/adapter/http/middleware"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WebhookSvc      ports.WebhookService
	QuerySvc        ports.PaymentQueryService
	TokenSvc        ports.TokenService
	AuditSvc        ports.AuditService        // nil = audit logging disabled
	RateLimitStore  middleware.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	WebhookPath     string
	SignatureHeader string
	EventIDHeader   string
	MaxBodyBytes    int64
	OpenAPISpec     []byte
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// It fails only when deps.OpenAPISpec is not a valid OpenAPI document.
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	swaggerHandler, err := NewSwaggerHandler(deps.OpenAPISpec)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, apperror.ErrMethodNotAllowed())
	})

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check (deep: PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", swaggerHandler.UI)
		swagger.GET("/spec", swaggerHandler.Spec)
		swagger.GET("/spec.json", swaggerHandler.SpecJSON)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Gateway deliveries (signature-authenticated inside the service) ---
	webhookChain := []gin.HandlerFunc{middleware.MaxBodySize(deps.MaxBodyBytes)}
	if deps.AuditSvc != nil {
		webhookChain = append(webhookChain, middleware.AuditDeliveries(deps.AuditSvc, deps.EventIDHeader))
	}
	webhookChain = append(webhookChain, rl("webhook"))

	webhookHandler := NewWebhookHandler(deps.WebhookSvc, deps.SignatureHeader, deps.EventIDHeader)
	r.POST(deps.WebhookPath, append(webhookChain, webhookHandler.Receive)...)

	// --- JWT-authenticated admin routes ---
	paymentHandler := NewPaymentHandler(deps.QuerySvc)
	admin := r.Group("/api/v1/admin", middleware.JWTAuth(deps.TokenSvc, deps.Logger), rl("admin"))
	{
		admin.GET("/payments", paymentHandler.ListPayments)
		admin.GET("/payments/stats", paymentHandler.GetStats)
		admin.GET("/payments/:payment_id", paymentHandler.GetPayment)
	}

	return r, nil
}
