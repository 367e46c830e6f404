package domain

// WebhookRequest is one inbound gateway delivery. Body is kept exactly as
// received; nothing may re-encode it before the signature is checked.
type WebhookRequest struct {
	Body        []byte
	Signature   *string // nil when the header was absent
	ContentType string
	EventID     string
	ClientIP    string
}

// DeliveryOutcome is what happened to a delivery that was not rejected.
type DeliveryOutcome string

const (
	DeliveryIgnored   DeliveryOutcome = "ignored"
	DeliveryRecorded  DeliveryOutcome = "recorded"
	DeliveryDuplicate DeliveryOutcome = "duplicate"
	DeliveryAccepted  DeliveryOutcome = "accepted" // store failed, acknowledged anyway
)

// DeliveryResult summarises a handled delivery for the response and audit log.
type DeliveryResult struct {
	Outcome   DeliveryOutcome
	EventKind string
	PaymentID string
}

// AuditAction maps the outcome to its audit log action.
func (o DeliveryOutcome) AuditAction() AuditAction {
	switch o {
	case DeliveryIgnored:
		return AuditActionWebhookIgnored
	case DeliveryRecorded:
		return AuditActionPaymentRecorded
	case DeliveryDuplicate:
		return AuditActionPaymentDuplicate
	case DeliveryAccepted:
		return AuditActionPaymentRecordFailed
	}
	return AuditActionWebhookRejected
}
