package integration

import (
	"context"
	"errors"
	"sort"
	"sync"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
)

var errStoreDown = errors.New("store unavailable")

// --- In-Memory Payment Repo ---

// inMemoryPaymentRepo enforces the payment_id uniqueness the database
// constraint provides.
type inMemoryPaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]*domain.PaymentRecord
	failing  bool
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{payments: make(map[string]*domain.PaymentRecord)}
}

func (r *inMemoryPaymentRepo) setFailing(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing = v
}

func (r *inMemoryPaymentRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payments)
}

func (r *inMemoryPaymentRepo) Insert(_ context.Context, rec *domain.PaymentRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return false, errStoreDown
	}
	if _, exists := r.payments[rec.PaymentID]; exists {
		return false, nil
	}
	cp := *rec
	r.payments[rec.PaymentID] = &cp
	return true, nil
}

func (r *inMemoryPaymentRepo) GetByPaymentID(_ context.Context, paymentID string) (*domain.PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.payments[paymentID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryPaymentRepo) List(_ context.Context, params ports.PaymentListParams) ([]domain.PaymentRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.PaymentRecord
	for _, rec := range r.payments {
		if params.Status != nil && rec.Status != *params.Status {
			continue
		}
		if params.Currency != nil && rec.Currency != *params.Currency {
			continue
		}
		if params.From != nil && rec.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && rec.CreatedAt.Unix() > *params.To {
			continue
		}
		matched = append(matched, *rec)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.PaymentRecord{}, total, nil
	}
	end := min(start+params.PageSize, len(matched))
	return matched[start:end], total, nil
}

func (r *inMemoryPaymentRepo) GetStats(_ context.Context, periodStart *int64) (*ports.PaymentStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ports.PaymentStats{}
	byCurrency := make(map[string]*ports.CurrencyTotal)
	for _, rec := range r.payments {
		if periodStart != nil && rec.CreatedAt.Unix() < *periodStart {
			continue
		}
		stats.TotalPayments++
		if rec.Status != "captured" {
			continue
		}
		stats.Captured++
		ct, ok := byCurrency[rec.Currency]
		if !ok {
			ct = &ports.CurrencyTotal{Currency: rec.Currency}
			byCurrency[rec.Currency] = ct
		}
		ct.Count++
		if rec.Amount != nil {
			ct.CapturedAmount += *rec.Amount
		}
	}
	for _, ct := range byCurrency {
		stats.ByCurrency = append(stats.ByCurrency, *ct)
	}
	return stats, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// --- Recording Mailer ---

type recordingMailer struct {
	mu      sync.Mutex
	sent    []ports.Email
	failing bool
}

func (m *recordingMailer) setFailing(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = v
}

func (m *recordingMailer) Send(_ context.Context, msg ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("provider rejected message")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []ports.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Email(nil), m.sent...)
}
