package postgres

import (
	"context"
	"fmt"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	var details any
	if log.Details != "" {
		details = log.Details
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, payment_id, event_id, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, string(log.Action), nullIfEmpty(log.PaymentID), nullIfEmpty(log.EventID),
		details, log.IPAddress, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
