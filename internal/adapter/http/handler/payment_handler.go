package handler

import (
	"math"

	"payment-webhook/internal/adapter/http/dto"
	"payment-webhook/internal/core/ports"
	"payment-webhook/pkg/apperror"
	"payment-webhook/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the admin reconciliation endpoints.
type PaymentHandler struct {
	querySvc ports.PaymentQueryService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(querySvc ports.PaymentQueryService) *PaymentHandler {
	return &PaymentHandler{querySvc: querySvc}
}

// GetPayment handles GET /api/v1/admin/payments/:payment_id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	var param dto.PaymentIDParam
	if err := c.ShouldBindUri(&param); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	rec, err := h.querySvc.GetPayment(c.Request.Context(), param.PaymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToPaymentResponse(rec, true))
}

// ListPayments handles GET /api/v1/admin/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var query dto.PaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	params := query.Params()

	records, total, err := h.querySvc.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PaymentResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.ToPaymentResponse(&records[i], false))
	}

	totalPages := int(math.Ceil(float64(total) / float64(params.PageSize)))

	response.OK(c, dto.PaymentListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

// GetStats handles GET /api/v1/admin/payments/stats.
func (h *PaymentHandler) GetStats(c *gin.Context) {
	period := c.DefaultQuery("period", "all")
	stats, err := h.querySvc.GetStats(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToPaymentStatsResponse(period, stats))
}
