package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePurchaseOrderRequest 创建采购单请求
type CreatePurchaseOrderRequest struct {
	SupplierID  uint                             `json:"supplier_id" binding:"required"`
	WarehouseID uint                             `json:"warehouse_id" binding:"required"`
	Notes       string                           `json:"notes"`
	Items       []CreatePurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseOrderItemRequest 采购明细
type CreatePurchaseOrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitCost  string `json:"unit_cost" binding:"required"`
}

var purchaseOrderErrorRules = []mappedHandlerError{
	{target: service.ErrPurchaseOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrSupplierNotFound, code: response.CodeNotFound},
	{target: service.ErrWarehouseNotFound, code: response.CodeNotFound},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest},
	{target: service.ErrPurchaseStatusInvalid, code: response.CodeBadRequest},
}

// CreatePurchaseOrder 创建采购单
func (h *Handler) CreatePurchaseOrder(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	items := make([]service.CreatePurchaseOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreatePurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	po, err := h.PurchaseOrderService.CreatePurchaseOrder(service.CreatePurchaseOrderInput{
		SupplierID:  req.SupplierID,
		WarehouseID: req.WarehouseID,
		Notes:       req.Notes,
		Items:       items,
		OperatorID:  operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, purchaseOrderErrorRules, response.CodeInternal, "创建采购单失败")
		return
	}
	response.Success(c, po)
}

// GetPurchaseOrder 采购单详情
func (h *Handler) GetPurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.PurchaseOrderService.GetPurchaseOrder(id)
	if err != nil {
		respondWithMappedError(c, err, purchaseOrderErrorRules, response.CodeInternal, "查询采购单失败")
		return
	}
	response.Success(c, po)
}

// ListPurchaseOrders 采购单列表
func (h *Handler) ListPurchaseOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)

	orders, total, err := h.PurchaseOrderService.ListPurchaseOrders(repository.PurchaseOrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		SupplierID:  parseUintQuery(c, "supplier_id"),
		WarehouseID: parseUintQuery(c, "warehouse_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		PONumber:    strings.TrimSpace(c.Query("po_number")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询采购单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// PurchaseOrderStatusRequest 采购单状态流转请求
type PurchaseOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePurchaseOrderStatus 推进采购单状态
func (h *Handler) UpdatePurchaseOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PurchaseOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	po, err := h.PurchaseOrderService.UpdatePurchaseOrderStatus(id, req.Status, operatorID(c))
	if err != nil {
		respondWithMappedError(c, err, purchaseOrderErrorRules, response.CodeInternal, "更新采购单状态失败")
		return
	}
	response.Success(c, po)
}

// DeletePurchaseOrder 删除草稿采购单
func (h *Handler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PurchaseOrderService.DeletePurchaseOrder(id, operatorID(c)); err != nil {
		respondWithMappedError(c, err, purchaseOrderErrorRules, response.CodeInternal, "删除采购单失败")
		return
	}
	response.Success(c, nil)
}
