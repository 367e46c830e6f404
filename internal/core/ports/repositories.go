package ports

import (
	"context"

	"payment-webhook/internal/core/domain"
)

// PaymentRepository persists payment records. The store's unique constraint
// on payment_id is the single source of truth for idempotency.
type PaymentRepository interface {
	// Insert writes rec unless a record with the same PaymentID exists.
	// It returns false, nil when the record already existed.
	Insert(ctx context.Context, rec *domain.PaymentRecord) (bool, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)
	// Reconciliation queries
	List(ctx context.Context, params PaymentListParams) ([]domain.PaymentRecord, int64, error)
	GetStats(ctx context.Context, periodStart *int64) (*PaymentStats, error)
}

// PaymentListParams holds filter + pagination for listing payments.
type PaymentListParams struct {
	Status   *string
	Currency *string
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// PaymentStats holds aggregated figures for the reconciliation dashboard.
type PaymentStats struct {
	TotalPayments int64
	Captured      int64
	ByCurrency    []CurrencyTotal
}

// CurrencyTotal is the captured sum for one currency, in minor units.
type CurrencyTotal struct {
	Currency       string
	Count          int64
	CapturedAmount int64
}

// AuditRepository persists webhook delivery audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
