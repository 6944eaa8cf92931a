package handlers

import (
	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustInventoryRequest 库存调整请求
type AdjustInventoryRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	WarehouseID uint   `json:"warehouse_id" binding:"required"`
	Delta       int    `json:"delta" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// TransferInventoryRequest 库存调拨请求
type TransferInventoryRequest struct {
	ProductID       uint `json:"product_id" binding:"required"`
	FromWarehouseID uint `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uint `json:"to_warehouse_id" binding:"required"`
	Quantity        int  `json:"quantity" binding:"required,min=1"`
}

var inventoryErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrWarehouseNotFound, code: response.CodeNotFound},
	{target: service.ErrInventoryNotFound, code: response.CodeNotFound},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
}

// AdjustInventory 调整库存数量并留痕
func (h *Handler) AdjustInventory(c *gin.Context) {
	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	inv, err := h.InventoryService.Adjust(service.AdjustInput{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Delta:       req.Delta,
		Reason:      req.Reason,
		OperatorID:  operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, inventoryErrorRules, response.CodeInternal, "库存调整失败")
		return
	}
	response.Success(c, inv)
}

// TransferInventory 跨仓库调拨库存
func (h *Handler) TransferInventory(c *gin.Context) {
	var req TransferInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	err := h.InventoryService.Transfer(service.TransferInput{
		ProductID:       req.ProductID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		OperatorID:      operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, inventoryErrorRules, response.CodeInternal, "库存调拨失败")
		return
	}
	response.Success(c, nil)
}

// ListInventory 库存列表
func (h *Handler) ListInventory(c *gin.Context) {
	page, pageSize := parsePagination(c)

	rows, total, err := h.InventoryService.List(repository.InventoryListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProductID:    parseUintQuery(c, "product_id"),
		WarehouseID:  parseUintQuery(c, "warehouse_id"),
		OnlyLowStock: c.Query("low_stock") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询库存失败", err)
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// ListLowStock 低库存预警列表
func (h *Handler) ListLowStock(c *gin.Context) {
	threshold := int(parseUintQuery(c, "threshold"))
	if threshold <= 0 {
		threshold = h.Config.Inventory.LowStockThreshold
	}

	rows, err := h.InventoryService.ListLowStock(threshold)
	if err != nil {
		respondError(c, response.CodeInternal, "查询低库存失败", err)
		return
	}
	response.Success(c, gin.H{"threshold": threshold, "items": rows})
}
