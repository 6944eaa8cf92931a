package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerRequest 客户创建/更新请求
type CustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	IsActive *bool  `json:"is_active"`
}

var customerErrorRules = []mappedHandlerError{
	{target: service.ErrCustomerNotFound, code: response.CodeNotFound},
	{target: service.ErrEmailTaken, code: response.CodeConflict},
}

func (r CustomerRequest) toInput(c *gin.Context) service.CustomerInput {
	return service.CustomerInput{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		Country:    r.Country,
		IsActive:   r.IsActive,
		OperatorID: operatorID(c),
	}
}

// CreateCustomer 创建客户
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	customer, err := h.CustomerService.CreateCustomer(req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "创建客户失败")
		return
	}
	response.Success(c, customer)
}

// UpdateCustomer 更新客户
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	customer, err := h.CustomerService.UpdateCustomer(id, req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "更新客户失败")
		return
	}
	response.Success(c, customer)
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.CustomerService.GetCustomer(id)
	if err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "查询客户失败")
		return
	}
	response.Success(c, customer)
}

// ListCustomers 客户列表
func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	customers, total, err := h.CustomerService.ListCustomers(repository.CustomerListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询客户失败", err)
		return
	}
	response.SuccessWithPage(c, customers, response.NewPagination(page, pageSize, total))
}

// DeleteCustomer 停用客户
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CustomerService.DeleteCustomer(id, operatorID(c)); err != nil {
		respondWithMappedError(c, err, customerErrorRules, response.CodeInternal, "删除客户失败")
		return
	}
	response.Success(c, nil)
}
