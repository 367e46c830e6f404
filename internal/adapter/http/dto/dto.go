package dto

import (
	"encoding/json"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
)

// PaymentIDParam binds the :payment_id path segment.
type PaymentIDParam struct {
	PaymentID string `uri:"payment_id" binding:"required,max=64,safe_id"`
}

// PaymentListQuery holds the filters for GET /api/v1/admin/payments.
type PaymentListQuery struct {
	Status   *string `form:"status" binding:"omitempty,max=32,safe_id"`
	Currency *string `form:"currency" binding:"omitempty,currency_code"`
	From     *int64  `form:"from" binding:"omitempty,gte=0"`
	To       *int64  `form:"to" binding:"omitempty,gte=0"`
	Page     int     `form:"page" binding:"omitempty,gte=1"`
	PageSize int     `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// Params converts the query into repository parameters with defaults applied.
func (q PaymentListQuery) Params() ports.PaymentListParams {
	p := ports.PaymentListParams{
		Status:   q.Status,
		Currency: q.Currency,
		From:     q.From,
		To:       q.To,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	return p
}

// PaymentResponse is the admin view of a recorded payment.
type PaymentResponse struct {
	ID            string          `json:"id"`
	PaymentID     string          `json:"payment_id"`
	OrderID       *string         `json:"order_id,omitempty"`
	Amount        *int64          `json:"amount,omitempty"`         // minor units
	AmountDisplay *string         `json:"amount_display,omitempty"` // e.g. "₹899.00"
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	Email         *string         `json:"email,omitempty"`
	RawPayload    json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// ToPaymentResponse maps a record to its response. The raw gateway payload
// is only included when withRaw is set.
func ToPaymentResponse(p *domain.PaymentRecord, withRaw bool) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID.String(),
		PaymentID: p.PaymentID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Amount != nil {
		display := displayAmount(p.Currency, *p.Amount)
		resp.AmountDisplay = &display
	}
	if withRaw {
		resp.RawPayload = p.RawPayload
	}
	return resp
}

// PaymentListResponse wraps a paginated payment list.
type PaymentListResponse struct {
	Items      []PaymentResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// CurrencyTotalResponse is one per-currency line of the stats response.
type CurrencyTotalResponse struct {
	Currency        string `json:"currency"`
	Count           int64  `json:"count"`
	CapturedAmount  int64  `json:"captured_amount"`
	CapturedDisplay string `json:"captured_display"`
}

// PaymentStatsResponse is the response for GET /api/v1/admin/payments/stats.
type PaymentStatsResponse struct {
	Period        string                  `json:"period"`
	TotalPayments int64                   `json:"total_payments"`
	Captured      int64                   `json:"captured"`
	ByCurrency    []CurrencyTotalResponse `json:"by_currency"`
}

// ToPaymentStatsResponse maps aggregated stats to the response.
func ToPaymentStatsResponse(period string, s *ports.PaymentStats) PaymentStatsResponse {
	resp := PaymentStatsResponse{
		Period:        period,
		TotalPayments: s.TotalPayments,
		Captured:      s.Captured,
		ByCurrency:    make([]CurrencyTotalResponse, 0, len(s.ByCurrency)),
	}
	for _, ct := range s.ByCurrency {
		resp.ByCurrency = append(resp.ByCurrency, CurrencyTotalResponse{
			Currency:        ct.Currency,
			Count:           ct.Count,
			CapturedAmount:  ct.CapturedAmount,
			CapturedDisplay: displayAmount(ct.Currency, ct.CapturedAmount),
		})
	}
	return resp
}

func displayAmount(currency string, minor int64) string {
	return domain.CurrencySymbol(currency) + domain.MinorUnits(minor).Major()
}
