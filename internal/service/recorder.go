package service

import (
	"context"
	"errors"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"

	"github.com/rs/zerolog"
)

// ErrMissingPaymentID is the failure reason for events without a payment id.
var ErrMissingPaymentID = errors.New("payment id missing")

// processedTTL bounds how long the Redis fast path remembers a payment.
// The database constraint remains the source of truth after expiry.
const processedTTL = 72 * time.Hour

type paymentRecorder struct {
	repo         ports.PaymentRepository
	cache        ports.ProcessedCache
	writeTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewPaymentRecorder creates a recorder. cache may be nil.
func NewPaymentRecorder(
	repo ports.PaymentRepository,
	cache ports.ProcessedCache,
	writeTimeout time.Duration,
	log zerolog.Logger,
) ports.PaymentRecorder {
	return &paymentRecorder{
		repo:         repo,
		cache:        cache,
		writeTimeout: writeTimeout,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log,
	}
}

// Record inserts the payment once. Redelivery of a known payment id is
// reported as RecordAlreadyExists and leaves the stored row untouched.
func (r *paymentRecorder) Record(ctx context.Context, event *domain.PaymentEvent) domain.RecordOutcome {
	if event.PaymentID == "" {
		return domain.RecordOutcome{Status: domain.RecordFailed, Err: ErrMissingPaymentID}
	}

	if r.cache != nil {
		seen, err := r.cache.IsProcessed(ctx, event.PaymentID)
		if err != nil {
			r.log.Warn().Err(err).Str("payment_id", event.PaymentID).Msg("processed cache lookup failed, falling through to store")
		} else if seen {
			return domain.RecordOutcome{Status: domain.RecordAlreadyExists}
		}
	}

	// Once started, the insert is not cut short by the client hanging up.
	writeCtx := context.WithoutCancel(ctx)
	if r.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(writeCtx, r.writeTimeout)
		defer cancel()
	}

	inserted, err := r.repo.Insert(writeCtx, domain.NewPaymentRecord(event, r.now()))
	if err != nil {
		return domain.RecordOutcome{Status: domain.RecordFailed, Err: err}
	}

	outcome := domain.RecordOutcome{Status: domain.RecordAlreadyExists}
	if inserted {
		outcome.Status = domain.RecordInserted
	}

	if r.cache != nil {
		if err := r.cache.MarkProcessed(writeCtx, event.PaymentID, processedTTL); err != nil {
			r.log.Warn().Err(err).Str("payment_id", event.PaymentID).Msg("failed to mark payment processed")
		}
	}

	return outcome
}
