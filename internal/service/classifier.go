package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"payment-webhook/internal/core/domain"
)

var (
	ErrMalformedPayload   = errors.New("malformed webhook payload")
	ErrEventNotActionable = errors.New("event not actionable")
)

// Classify decodes a verified body into a payment event. Only a body that
// is not JSON at all is malformed. Any other document whose "event" is not
// the string payment.captured, including a missing or non-string event and
// a top-level array or scalar, returns ErrEventNotActionable; the returned
// event carries whatever Kind could be read so the caller can log it.
func Classify(body VerifiedBody) (*domain.PaymentEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(body.raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedPayload)
	}

	doc, _ := v.(map[string]any)
	kind, _ := doc["event"].(string)

	event := &domain.PaymentEvent{Kind: kind, Raw: json.RawMessage(body.raw)}
	if kind != domain.EventPaymentCaptured {
		return event, ErrEventNotActionable
	}

	entity := objectAt(doc, "payload", "payment", "entity")
	event.PaymentID = stringField(entity, "id")
	event.OrderID = optionalString(entity, "order_id")
	event.Amount = minorUnitsField(entity, "amount")
	event.Currency = stringField(entity, "currency")
	event.Status = stringField(entity, "status")
	event.PayerEmail = optionalString(entity, "email")

	return event, nil
}

// objectAt walks nested objects; any missing or non-object step yields an
// empty map.
func objectAt(doc map[string]any, path ...string) map[string]any {
	cur := doc
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		cur = next
	}
	return cur
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optionalString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func minorUnitsField(m map[string]any, key string) *domain.MinorUnits {
	n, ok := m[key].(json.Number)
	if !ok {
		return nil
	}
	v, err := n.Int64()
	if err != nil {
		return nil
	}
	amt := domain.MinorUnits(v)
	return &amt
}
