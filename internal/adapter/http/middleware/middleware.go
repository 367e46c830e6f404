package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"payment-webhook/internal/core/domain"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxOperator = "operator"
	CtxTokenID  = "token_id"
	CtxDelivery = "webhook_delivery"
)

// RequestID assigns every request an ID, reusing a sane inbound X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 || strings.ContainsAny(id, " \t\r\n") {
			id = uuid.New().String()
		}
		c.Set(response.CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// JWTAuth creates a middleware that validates admin bearer tokens.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("admin token rejected")
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxOperator, claims.Operator)
		c.Set(CtxTokenID, claims.TokenID)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event = event.
			Str("request_id", c.GetString(response.CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP())

		if v, ok := c.Get(CtxDelivery); ok {
			if res, ok := v.(*domain.DeliveryResult); ok {
				event = event.
					Str("event", res.EventKind).
					Str("payment_id", res.PaymentID).
					Str("outcome", string(res.Outcome))
			}
		}
		if op := c.GetString(CtxOperator); op != "" {
			event = event.Str("operator", op).Str("token_id", c.GetString(CtxTokenID))
		}
		if last := c.Errors.Last(); last != nil {
			event = event.
				Str("error_code", apperror.CodeOf(last.Err)).
				AnErr("cause", errors.Unwrap(last.Err))
		}

		event.Msg("http request")
	}
}

// Recovery turns a panic into a SYS_001 response. A panic in the webhook
// path answers 500, so the gateway redelivers.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("request_id", c.GetString(response.CtxRequestID)).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				response.Error(c, apperror.InternalError(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
