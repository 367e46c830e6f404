package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventPaymentCaptured is the only gateway event that produces a record.
const EventPaymentCaptured = "payment.captured"

// MinorUnits is an amount in the currency's smallest unit (paise for INR).
// Amounts are never held as floating point.
type MinorUnits int64

// Major renders the amount in major units with two decimals, e.g. 89900 -> "899.00".
func (m MinorUnits) Major() string {
	v := int64(m)
	sign := ""
	mag := uint64(v)
	if v < 0 {
		sign = "-"
		mag = -mag // two's complement; exact for math.MinInt64 too
	}
	return fmt.Sprintf("%s%d.%02d", sign, mag/100, mag%100)
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol returns the display symbol for an ISO code, or "" if unknown.
func CurrencySymbol(code string) string {
	return currencySymbols[code]
}

// PaymentEvent is a verified, decoded gateway event.
type PaymentEvent struct {
	Kind       string
	PaymentID  string
	OrderID    *string
	Amount     *MinorUnits
	Currency   string
	Status     string
	PayerEmail *string
	Raw        json.RawMessage // verified body, byte for byte
}

// PaymentRecord is the durable, insert-once entity keyed by PaymentID.
type PaymentRecord struct {
	ID         uuid.UUID       `json:"id"`
	PaymentID  string          `json:"payment_id"`
	OrderID    *string         `json:"order_id,omitempty"`
	Amount     *int64          `json:"amount,omitempty"` // minor units
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	Email      *string         `json:"email,omitempty"`
	RawPayload json.RawMessage `json:"raw_payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewPaymentRecord builds the record to insert for an event.
func NewPaymentRecord(e *PaymentEvent, now time.Time) *PaymentRecord {
	rec := &PaymentRecord{
		ID:         uuid.New(),
		PaymentID:  e.PaymentID,
		OrderID:    e.OrderID,
		Currency:   e.Currency,
		Status:     e.Status,
		Email:      e.PayerEmail,
		RawPayload: e.Raw,
		CreatedAt:  now,
	}
	if e.Amount != nil {
		amt := int64(*e.Amount)
		rec.Amount = &amt
	}
	return rec
}

// RecordStatus is the result of trying to persist a PaymentRecord.
type RecordStatus int

const (
	RecordInserted RecordStatus = iota + 1
	RecordAlreadyExists
	RecordFailed
)

func (s RecordStatus) String() string {
	switch s {
	case RecordInserted:
		return "inserted"
	case RecordAlreadyExists:
		return "already_exists"
	case RecordFailed:
		return "failed"
	}
	return "unknown"
}

// RecordOutcome carries the status and, for RecordFailed, the reason.
type RecordOutcome struct {
	Status RecordStatus
	Err    error
}

// Receipt is what the payer is told about a captured payment.
type Receipt struct {
	PaymentID  string
	OrderID    *string
	Amount     *MinorUnits
	Currency   string
	Status     string
	PayerEmail *string
}

// ReceiptFor extracts the notification fields of an event.
func ReceiptFor(e *PaymentEvent) Receipt {
	return Receipt{
		PaymentID:  e.PaymentID,
		OrderID:    e.OrderID,
		Amount:     e.Amount,
		Currency:   e.Currency,
		Status:     e.Status,
		PayerEmail: e.PayerEmail,
	}
}
