package ports

import (
	"context"
	"time"

	"payment-webhook/internal/core/domain"
)

// SecretSource resolves the active webhook signing secret.
type SecretSource interface {
	Secret() ([]byte, error)
}

// ProcessedCache is the Redis-layer "already recorded" marker (fast path).
type ProcessedCache interface {
	IsProcessed(ctx context.Context, paymentID string) (bool, error)
	MarkProcessed(ctx context.Context, paymentID string, ttl time.Duration) error
}

// NotificationGuard ensures at most one receipt per payment.
type NotificationGuard interface {
	// Claim atomically reserves the right to notify for paymentID.
	// Returns true if this caller won the claim.
	Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error)
}

// Email is a single outbound message.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email through a transactional provider.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// TokenService handles admin JWT operations.
type TokenService interface {
	Generate(operator string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Operator string
	TokenID  string
}

// --- Service Ports (Business Logic) ---

// PaymentRecorder persists a captured payment, tolerating redelivery.
type PaymentRecorder interface {
	Record(ctx context.Context, event *domain.PaymentEvent) domain.RecordOutcome
}

// Notifier sends the payer a receipt. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, receipt domain.Receipt)
}

// WebhookService runs one gateway delivery through verify, classify,
// record and notify.
type WebhookService interface {
	HandleDelivery(ctx context.Context, req domain.WebhookRequest) (*domain.DeliveryResult, error)
}

// PaymentQueryService defines the reconciliation read side.
type PaymentQueryService interface {
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)
	ListPayments(ctx context.Context, params PaymentListParams) ([]domain.PaymentRecord, int64, error)
	GetStats(ctx context.Context, period string) (*PaymentStats, error)
}

// AuditService records webhook deliveries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
