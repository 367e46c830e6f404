package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited webhook delivery.
type AuditAction string

const (
	AuditActionWebhookRejected     AuditAction = "WEBHOOK_REJECTED"
	AuditActionWebhookIgnored      AuditAction = "WEBHOOK_IGNORED"
	AuditActionPaymentRecorded     AuditAction = "PAYMENT_RECORDED"
	AuditActionPaymentDuplicate    AuditAction = "PAYMENT_DUPLICATE"
	AuditActionPaymentRecordFailed AuditAction = "PAYMENT_RECORD_FAILED"
)

// AuditLog records a single webhook delivery and how it was handled.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	Action    AuditAction `json:"action"`
	PaymentID string      `json:"payment_id,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	Details   string      `json:"details,omitempty"` // JSON string
	IPAddress string      `json:"ip_address"`
	CreatedAt time.Time   `json:"created_at"`
}
