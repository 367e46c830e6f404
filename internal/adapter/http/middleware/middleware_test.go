package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/internal/core/ports/mocks"
	"payment-webhook/pkg/apperror"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = c.GetString(response.CtxRequestID)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestRequestID_ReusesInbound(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-abc-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "has space")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "has space", w.Header().Get(HeaderRequestID))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for _, header := range []string{"", "Bearer ", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	tokenSvc.EXPECT().Validate("bad_token").Return(nil, assert.AnError)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	log := zerolog.Nop()

	tokenSvc.EXPECT().Validate("good_token").Return(&ports.TokenClaims{Operator: "ops@example.com", TokenID: "tok-1"}, nil)

	var operator, tokenID string
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, log), func(c *gin.Context) {
		operator = c.GetString(CtxOperator)
		tokenID = c.GetString(CtxTokenID)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops@example.com", operator)
	assert.Equal(t, "tok-1", tokenID)
}

func TestRequestLogger_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zerolog.New(&buf)))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "warn", entry["level"])
}

func TestRequestLogger_IncludesDeliveryOutcome(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.POST("/webhooks/razorpay", func(c *gin.Context) {
		c.Set(CtxDelivery, &domain.DeliveryResult{
			Outcome:   domain.DeliveryDuplicate,
			EventKind: domain.EventPaymentCaptured,
			PaymentID: "pay_7",
		})
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pay_7", entry["payment_id"])
	assert.Equal(t, "duplicate", entry["outcome"])
	assert.Equal(t, "payment.captured", entry["event"])
	assert.Equal(t, "info", entry["level"])
}

func TestRequestLogger_IncludesErrorCode(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.POST("/webhooks/razorpay", func(c *gin.Context) {
		response.Error(c, apperror.ErrSignatureVerification(errors.New("digest mismatch")))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WHK_001", entry["error_code"])
	assert.Equal(t, "digest mismatch", entry["cause"])
	assert.Equal(t, "warn", entry["level"])
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}
