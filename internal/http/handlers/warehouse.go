package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// WarehouseRequest 仓库创建/更新请求
type WarehouseRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
	IsActive *bool  `json:"is_active"`
}

var warehouseErrorRules = []mappedHandlerError{
	{target: service.ErrWarehouseNotFound, code: response.CodeNotFound},
	{target: service.ErrWarehouseCodeTaken, code: response.CodeConflict},
}

func (r WarehouseRequest) toInput(c *gin.Context) service.WarehouseInput {
	return service.WarehouseInput{
		Code:       r.Code,
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		IsActive:   r.IsActive,
		OperatorID: operatorID(c),
	}
}

// CreateWarehouse 创建仓库
func (h *Handler) CreateWarehouse(c *gin.Context) {
	var req WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	warehouse, err := h.WarehouseService.CreateWarehouse(req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "创建仓库失败")
		return
	}
	response.Success(c, warehouse)
}

// UpdateWarehouse 更新仓库
func (h *Handler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	warehouse, err := h.WarehouseService.UpdateWarehouse(id, req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "更新仓库失败")
		return
	}
	response.Success(c, warehouse)
}

// GetWarehouse 仓库详情
func (h *Handler) GetWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.WarehouseService.GetWarehouse(id)
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "查询仓库失败")
		return
	}
	response.Success(c, warehouse)
}

// ListWarehouses 仓库列表
func (h *Handler) ListWarehouses(c *gin.Context) {
	page, pageSize := parsePagination(c)

	warehouses, total, err := h.WarehouseService.ListWarehouses(repository.WarehouseListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询仓库失败", err)
		return
	}
	response.SuccessWithPage(c, warehouses, response.NewPagination(page, pageSize, total))
}

// DeleteWarehouse 停用仓库
func (h *Handler) DeleteWarehouse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.WarehouseService.DeleteWarehouse(id, operatorID(c)); err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "删除仓库失败")
		return
	}
	response.Success(c, nil)
}

// ZoneRequest 库区创建请求
type ZoneRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateZone 在仓库下创建库区
func (h *Handler) CreateZone(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	zone, err := h.WarehouseService.CreateZone(service.ZoneInput{
		WarehouseID: warehouseID,
		Code:        req.Code,
		Name:        req.Name,
	})
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "创建库区失败")
		return
	}
	response.Success(c, zone)
}

// ListZones 仓库库区列表
func (h *Handler) ListZones(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	zones, err := h.WarehouseService.ListZones(warehouseID)
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "查询库区失败")
		return
	}
	response.Success(c, zones)
}

// LocationRequest 库位创建请求
type LocationRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateLocation 在库区下创建库位
func (h *Handler) CreateLocation(c *gin.Context) {
	zoneID, ok := parseIDParam(c, "zone_id")
	if !ok {
		return
	}
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	location, err := h.WarehouseService.CreateLocation(zoneID, req.Code)
	if err != nil {
		respondWithMappedError(c, err, warehouseErrorRules, response.CodeInternal, "创建库位失败")
		return
	}
	response.Success(c, location)
}
