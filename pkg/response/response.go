package response

import (
	"errors"
	"net/http"
	"time"

	"payment-webhook/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the request ID.
const CtxRequestID = "request_id"

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// AckResponse is what the gateway receives for an accepted delivery. Only
// the status code matters to the gateway; the body is for humans reading logs.
type AckResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: RequestID(c),
		Timestamp: timestamp(),
	})
}

// Acknowledged sends a 200 telling the gateway not to redeliver.
func Acknowledged(c *gin.Context, status string) {
	c.JSON(http.StatusOK, AckResponse{
		Status:    status,
		RequestID: RequestID(c),
	})
}

// Error writes the client-facing part of err and records err on the context
// so the request logger can report the internal cause. Errors that are not
// AppErrors answer 500 with SYS_000.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	status, body := http.StatusInternalServerError, ErrorResponse{
		ErrorCode: apperror.CodeUnknown,
		Message:   "Internal server error",
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus
		body.ErrorCode = appErr.Code
		body.Message = appErr.Message
	}
	body.RequestID = RequestID(c)
	body.Timestamp = timestamp()
	c.JSON(status, body)
}

// RequestID retrieves the request ID from context, or generates one.
func RequestID(c *gin.Context) string {
	if id, exists := c.Get(CtxRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
