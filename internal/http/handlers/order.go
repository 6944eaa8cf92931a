package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID      uint                     `json:"customer_id" binding:"required"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress string                   `json:"shipping_address"`
	BillingAddress  string                   `json:"billing_address"`
	Notes           string                   `json:"notes"`
}

// CreateOrderItemRequest 创建订单明细请求
type CreateOrderItemRequest struct {
	ProductID      uint   `json:"product_id" binding:"required"`
	VariantID      *uint  `json:"variant_id"`
	Quantity       int    `json:"quantity" binding:"required"`
	DiscountAmount string `json:"discount_amount"`
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerNotFound, code: response.CodeBadRequest},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest},
	{target: service.ErrProductInactive, code: response.CodeBadRequest},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest},
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			DiscountAmount: item.DiscountAmount,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		CustomerID:      req.CustomerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		OperatorID:      operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, service.ErrOrderCreateFailed.Error())
		return
	}
	response.Success(c, order)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, service.ErrOrderFetchFailed.Error())
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
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

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		CustomerID:    parseUintQuery(c, "customer_id"),
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, service.ErrOrderFetchFailed.Error(), err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// OrderStatusRequest 订单状态更新请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(id, req.Status, req.Note, operatorID(c))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, service.ErrOrderUpdateFailed.Error())
		return
	}
	response.Success(c, order)
}

// OrderCancelRequest 订单取消请求
type OrderCancelRequest struct {
	Note string `json:"note"`
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	order, err := h.OrderService.CancelOrder(id, req.Note, operatorID(c))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, service.ErrOrderUpdateFailed.Error())
		return
	}
	response.Success(c, order)
}

// ListOrderHistory 订单状态流转记录
func (h *Handler) ListOrderHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	history, err := h.OrderService.ListStatusHistory(id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, service.ErrOrderFetchFailed.Error())
		return
	}
	response.Success(c, history)
}
