package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordPaymentRequest 登记支付请求
type RecordPaymentRequest struct {
	OrderID     uint   `json:"order_id" binding:"required"`
	Method      string `json:"method" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ReferenceNo string `json:"reference_no"`
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentAmountInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentExceedsTotal, code: response.CodeBadRequest},
}

// RecordPayment 登记支付并同步订单支付状态
func (h *Handler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	payment, err := h.PaymentService.RecordPayment(service.RecordPaymentInput{
		OrderID:     req.OrderID,
		Method:      req.Method,
		Amount:      req.Amount,
		ReferenceNo: req.ReferenceNo,
		OperatorID:  operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "登记支付失败")
		return
	}
	response.Success(c, payment)
}

// FailPaymentRequest 支付失败标记请求
type FailPaymentRequest struct {
	Reason string `json:"reason"`
}

// FailPayment 标记支付失败
func (h *Handler) FailPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	payment, err := h.PaymentService.FailPayment(id, req.Reason, operatorID(c))
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "标记支付失败失败")
		return
	}
	response.Success(c, payment)
}

// ListPayments 支付记录列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, pageSize := parsePagination(c)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}

	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderID:     parseUintQuery(c, "order_id"),
		Method:      strings.TrimSpace(c.Query("method")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询支付记录失败", err)
		return
	}
	response.SuccessWithPage(c, payments, response.NewPagination(page, pageSize, total))
}

// ListOrderPayments 订单下的支付记录
func (h *Handler) ListOrderPayments(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListByOrder(orderID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "查询订单支付记录失败")
		return
	}
	response.Success(c, payments)
}
