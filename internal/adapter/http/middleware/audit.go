package middleware

import (
	"encoding/json"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditDeliveries records one audit entry per webhook delivery once the
// handler has answered. Deliveries the handler did not classify (bad
// signature, unreadable or malformed body) are logged as rejected.
func AuditDeliveries(auditSvc ports.AuditService, eventIDHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action := domain.AuditActionWebhookRejected
		var paymentID, eventKind, outcome string
		if v, ok := c.Get(CtxDelivery); ok {
			if res, ok := v.(*domain.DeliveryResult); ok {
				action = res.Outcome.AuditAction()
				paymentID = res.PaymentID
				eventKind = res.EventKind
				outcome = string(res.Outcome)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"status":     c.Writer.Status(),
			"event":      eventKind,
			"outcome":    outcome,
			"request_id": c.GetString(response.CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:        uuid.New(),
			Action:    action,
			PaymentID: paymentID,
			EventID:   c.GetHeader(eventIDHeader),
			IPAddress: c.ClientIP(),
			Details:   string(details),
			CreatedAt: time.Now().UTC(),
		})
	}
}
