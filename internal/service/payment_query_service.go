package service

import (
	"context"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"
)

// paymentQueryService implements ports.PaymentQueryService.
type paymentQueryService struct {
	repo ports.PaymentRepository
	now  func() time.Time
}

// NewPaymentQueryService creates the reconciliation read service.
func NewPaymentQueryService(repo ports.PaymentRepository) ports.PaymentQueryService {
	return &paymentQueryService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// GetPayment returns a single recorded payment.
func (s *paymentQueryService) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	rec, err := s.repo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if rec == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	return rec, nil
}

// ListPayments returns a page of payments, newest first.
func (s *paymentQueryService) ListPayments(ctx context.Context, params ports.PaymentListParams) ([]domain.PaymentRecord, int64, error) {
	if params.From != nil && params.To != nil && *params.From > *params.To {
		return nil, 0, apperror.Validation("from must not be after to")
	}

	payments, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return payments, total, nil
}

// GetStats aggregates recorded payments over period.
func (s *paymentQueryService) GetStats(ctx context.Context, period string) (*ports.PaymentStats, error) {
	var periodStart *int64
	now := s.now()

	switch period {
	case "today":
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()
		periodStart = &t
	case "week":
		t := now.AddDate(0, 0, -7).Unix()
		periodStart = &t
	case "month":
		t := now.AddDate(0, -1, 0).Unix()
		periodStart = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be today, week, month, or all")
	}

	stats, err := s.repo.GetStats(ctx, periodStart)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return stats, nil
}
