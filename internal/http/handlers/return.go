package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestReturnRequest 发起退货请求
type RequestReturnRequest struct {
	OrderID uint                       `json:"order_id" binding:"required"`
	Reason  string                     `json:"reason"`
	Items   []RequestReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RequestReturnItemRequest 退货明细
type RequestReturnItemRequest struct {
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Condition   string `json:"condition"`
}

var returnErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrReturnNotFound, code: response.CodeNotFound},
	{target: service.ErrReturnItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrReturnStatusInvalid, code: response.CodeBadRequest},
	{target: service.ErrReturnOrderNotReturnable, code: response.CodeBadRequest},
	{target: service.ErrWarehouseNotFound, code: response.CodeNotFound},
}

// RequestReturn 针对订单发起退货
func (h *Handler) RequestReturn(c *gin.Context) {
	var req RequestReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	items := make([]service.RequestReturnItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.RequestReturnItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Condition:   item.Condition,
		})
	}

	ret, err := h.ReturnService.RequestReturn(service.RequestReturnInput{
		OrderID:    req.OrderID,
		Reason:     req.Reason,
		Items:      items,
		OperatorID: operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "创建退货单失败")
		return
	}
	response.Success(c, ret)
}

// GetReturn 退货单详情
func (h *Handler) GetReturn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ret, err := h.ReturnService.GetReturn(id)
	if err != nil {
		respondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "查询退货单失败")
		return
	}
	response.Success(c, ret)
}

// ListReturns 退货单列表
func (h *Handler) ListReturns(c *gin.Context) {
	page, pageSize := parsePagination(c)

	returns, total, err := h.ReturnService.ListReturns(repository.ReturnListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  parseUintQuery(c, "order_id"),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询退货单失败", err)
		return
	}
	response.SuccessWithPage(c, returns, response.NewPagination(page, pageSize, total))
}

// ReturnStatusRequest 退货单状态流转请求
type ReturnStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	WarehouseID uint   `json:"warehouse_id"`
}

// UpdateReturnStatus 推进退货单状态
func (h *Handler) UpdateReturnStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	ret, err := h.ReturnService.UpdateReturnStatus(service.UpdateReturnStatusInput{
		ReturnID:    id,
		ToStatus:    req.Status,
		WarehouseID: req.WarehouseID,
		OperatorID:  operatorID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, returnErrorRules, response.CodeInternal, "更新退货单状态失败")
		return
	}
	response.Success(c, ret)
}
