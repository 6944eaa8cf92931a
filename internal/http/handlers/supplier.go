package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// SupplierRequest 供应商创建/更新请求
type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ContactName string `json:"contact_name"`
	IsActive    *bool  `json:"is_active"`
}

var supplierErrorRules = []mappedHandlerError{
	{target: service.ErrSupplierNotFound, code: response.CodeNotFound},
}

func (r SupplierRequest) toInput(c *gin.Context) service.SupplierInput {
	return service.SupplierInput{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		ContactName: r.ContactName,
		IsActive:    r.IsActive,
		OperatorID:  operatorID(c),
	}
}

// CreateSupplier 创建供应商
func (h *Handler) CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	supplier, err := h.SupplierService.CreateSupplier(req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, supplierErrorRules, response.CodeInternal, "创建供应商失败")
		return
	}
	response.Success(c, supplier)
}

// UpdateSupplier 更新供应商
func (h *Handler) UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	supplier, err := h.SupplierService.UpdateSupplier(id, req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, supplierErrorRules, response.CodeInternal, "更新供应商失败")
		return
	}
	response.Success(c, supplier)
}

// GetSupplier 供应商详情
func (h *Handler) GetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	supplier, err := h.SupplierService.GetSupplier(id)
	if err != nil {
		respondWithMappedError(c, err, supplierErrorRules, response.CodeInternal, "查询供应商失败")
		return
	}
	response.Success(c, supplier)
}

// ListSuppliers 供应商列表
func (h *Handler) ListSuppliers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	suppliers, total, err := h.SupplierService.ListSuppliers(repository.SupplierListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询供应商失败", err)
		return
	}
	response.SuccessWithPage(c, suppliers, response.NewPagination(page, pageSize, total))
}

// DeleteSupplier 停用供应商
func (h *Handler) DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.SupplierService.DeleteSupplier(id, operatorID(c)); err != nil {
		respondWithMappedError(c, err, supplierErrorRules, response.CodeInternal, "删除供应商失败")
		return
	}
	response.Success(c, nil)
}
