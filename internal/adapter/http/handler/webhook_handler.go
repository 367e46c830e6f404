package handler

import (
	"io"

	"payment-webhook/internal/adapter/http/middleware"
	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
)

const retryAfterSeconds = "30"

// WebhookHandler receives gateway deliveries.
type WebhookHandler struct {
	webhookSvc      ports.WebhookService
	signatureHeader string
	eventIDHeader   string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc ports.WebhookService, signatureHeader, eventIDHeader string) *WebhookHandler {
	return &WebhookHandler{
		webhookSvc:      webhookSvc,
		signatureHeader: signatureHeader,
		eventIDHeader:   eventIDHeader,
	}
}

// Receive handles POST on the webhook path. The body is read once, as raw
// bytes, and handed to the service untouched.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.ErrUnreadableBody(err))
		return
	}

	var signature *string
	if values := c.Request.Header.Values(h.signatureHeader); len(values) > 0 {
		signature = &values[0]
	}

	result, err := h.webhookSvc.HandleDelivery(c.Request.Context(), domain.WebhookRequest{
		Body:        body,
		Signature:   signature,
		ContentType: c.ContentType(),
		EventID:     c.GetHeader(h.eventIDHeader),
		ClientIP:    c.ClientIP(),
	})
	if result != nil {
		c.Set(middleware.CtxDelivery, result)
	}
	if err != nil {
		if apperror.IsRetryable(err) {
			c.Header("Retry-After", retryAfterSeconds)
		}
		response.Error(c, err)
		return
	}

	response.Acknowledged(c, string(result.Outcome))
}
