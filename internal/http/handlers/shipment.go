package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateShipmentRequest 创建发货单请求
type CreateShipmentRequest struct {
	OrderID        uint                        `json:"order_id" binding:"required"`
	WarehouseID    uint                        `json:"warehouse_id" binding:"required"`
	Carrier        string                      `json:"carrier"`
	TrackingNumber string                      `json:"tracking_number"`
	Items          []CreateShipmentItemRequest `json:"items" binding:"required"`
}

// CreateShipmentItemRequest 发货明细请求
type CreateShipmentItemRequest struct {
	OrderItemID uint `json:"order_item_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required"`
}

var shipmentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrWarehouseNotFound, code: response.CodeBadRequest},
	{target: service.ErrShipmentNotFound, code: response.CodeNotFound},
	{target: service.ErrShipmentItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrShipmentStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
}

// CreateShipment 创建发货单并扣减库存
func (h *Handler) CreateShipment(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	items := make([]service.CreateShipmentItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateShipmentItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
		})
	}

	shipment, err := h.ShipmentService.CreateShipment(service.CreateShipmentInput{
		OrderID:        req.OrderID,
		WarehouseID:    req.WarehouseID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		Items:          items,
		OperatorID:     operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, shipmentErrorRules, response.CodeInternal, "创建发货单失败")
		return
	}
	response.Success(c, shipment)
}

// GetShipment 发货单详情
func (h *Handler) GetShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	shipment, err := h.ShipmentService.GetShipment(id)
	if err != nil {
		respondWithMappedError(c, err, shipmentErrorRules, response.CodeInternal, "查询发货单失败")
		return
	}
	response.Success(c, shipment)
}

// ListShipments 发货单列表
func (h *Handler) ListShipments(c *gin.Context) {
	page, pageSize := parsePagination(c)

	shipments, total, err := h.ShipmentService.ListShipments(repository.ShipmentListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderID:     parseUintQuery(c, "order_id"),
		WarehouseID: parseUintQuery(c, "warehouse_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		TrackingNo:  strings.TrimSpace(c.Query("tracking_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询发货单失败", err)
		return
	}
	response.SuccessWithPage(c, shipments, response.NewPagination(page, pageSize, total))
}

// ShipmentStatusRequest 发货单状态更新请求
type ShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateShipmentStatus 更新发货单状态
func (h *Handler) UpdateShipmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	shipment, err := h.ShipmentService.UpdateShipmentStatus(id, req.Status, operatorID(c))
	if err != nil {
		respondWithMappedError(c, err, shipmentErrorRules, response.CodeInternal, "更新发货单失败")
		return
	}
	response.Success(c, shipment)
}
