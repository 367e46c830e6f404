package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const paymentColumns = `id, payment_id, order_id, amount, COALESCE(currency, ''), COALESCE(status, ''),
	email, raw_payload, created_at`

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Insert writes the record once. A conflicting payment_id is reported as
// (false, nil); the existing row is left as it was.
func (r *PaymentRepo) Insert(ctx context.Context, p *domain.PaymentRecord) (bool, error) {
	query := `INSERT INTO payments (id, payment_id, order_id, amount, currency, status, email, raw_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (payment_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.PaymentID, p.OrderID, p.Amount,
		p.Currency, p.Status, p.Email, p.RawPayload, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByPaymentID fetches a payment by its gateway identifier.
func (r *PaymentRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1`

	p := &domain.PaymentRecord{}
	err := scanPayment(r.pool.QueryRow(ctx, query, paymentID), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List fetches payments with filtering and pagination, newest first.
func (r *PaymentRepo) List(ctx context.Context, params ports.PaymentListParams) ([]domain.PaymentRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Currency != nil {
		conditions = append(conditions, fmt.Sprintf("currency = $%d", argIdx))
		args = append(args, *params.Currency)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.PaymentRecord{}
	for rows.Next() {
		var p domain.PaymentRecord
		if err := scanPayment(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, total, nil
}

// GetStats counts payments and sums captured amounts per currency.
func (r *PaymentRepo) GetStats(ctx context.Context, periodStart *int64) (*ports.PaymentStats, error) {
	var args []any
	where := ""
	if periodStart != nil {
		where = "WHERE created_at >= to_timestamp($1)"
		args = append(args, *periodStart)
	}

	totalsQuery := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'captured') AS captured
		FROM payments %s`, where)

	stats := &ports.PaymentStats{ByCurrency: []ports.CurrencyTotal{}}
	if err := r.pool.QueryRow(ctx, totalsQuery, args...).Scan(&stats.TotalPayments, &stats.Captured); err != nil {
		return nil, fmt.Errorf("get payment totals: %w", err)
	}

	currencyQuery := fmt.Sprintf(`SELECT
		COALESCE(currency, '') AS currency,
		COUNT(*) AS count,
		COALESCE(SUM(amount) FILTER (WHERE status = 'captured'), 0) AS captured_amount
		FROM payments %s
		GROUP BY 1 ORDER BY 1`, where)

	rows, err := r.pool.Query(ctx, currencyQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("get currency totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct ports.CurrencyTotal
		if err := rows.Scan(&ct.Currency, &ct.Count, &ct.CapturedAmount); err != nil {
			return nil, fmt.Errorf("scan currency total: %w", err)
		}
		stats.ByCurrency = append(stats.ByCurrency, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currency totals: %w", err)
	}
	return stats, nil
}

func scanPayment(row pgx.Row, p *domain.PaymentRecord) error {
	return row.Scan(
		&p.ID, &p.PaymentID, &p.OrderID, &p.Amount,
		&p.Currency, &p.Status, &p.Email, &p.RawPayload, &p.CreatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
