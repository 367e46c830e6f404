package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testEventIDHeader = "X-Razorpay-Event-Id"

func auditRouter(auditSvc *mocks.MockAuditService, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.POST("/webhooks/razorpay", AuditDeliveries(auditSvc, testEventIDHeader), handler)
	return r
}

func TestAuditDeliveries_Recorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	var got *domain.AuditLog
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) { got = entry },
	)

	r := auditRouter(mockAudit, func(c *gin.Context) {
		c.Set(CtxDelivery, &domain.DeliveryResult{
			Outcome:   domain.DeliveryRecorded,
			EventKind: domain.EventPaymentCaptured,
			PaymentID: "pay_1",
		})
		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", nil)
	req.Header.Set(testEventIDHeader, "evt_1")
	req.RemoteAddr = "10.0.0.9:5555"
	r.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.Equal(t, domain.AuditActionPaymentRecorded, got.Action)
	assert.Equal(t, "pay_1", got.PaymentID)
	assert.Equal(t, "evt_1", got.EventID)
	assert.Equal(t, "10.0.0.9", got.IPAddress)

	var details map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Details), &details))
	assert.Equal(t, float64(200), details["status"])
	assert.Equal(t, "recorded", details["outcome"])
	assert.Equal(t, w.Header().Get(HeaderRequestID), details["request_id"])
}

func TestAuditDeliveries_RejectedWithoutResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	var got *domain.AuditLog
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) { got = entry },
	)

	r := auditRouter(mockAudit, func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error_code": "WHK_001"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", nil))

	require.NotNil(t, got)
	assert.Equal(t, domain.AuditActionWebhookRejected, got.Action)
	assert.Empty(t, got.PaymentID)
}

func TestAuditDeliveries_Ignored(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionWebhookIgnored, entry.Action)
		},
	)

	r := auditRouter(mockAudit, func(c *gin.Context) {
		c.Set(CtxDelivery, &domain.DeliveryResult{Outcome: domain.DeliveryIgnored, EventKind: "payment.failed"})
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
