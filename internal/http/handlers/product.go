package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	SKU         string   `json:"sku" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	CategoryID  *uint    `json:"category_id"`
	UnitPrice   string   `json:"unit_price" binding:"required"`
	CostPrice   string   `json:"cost_price"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
	LowStock    int      `json:"low_stock"`
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound},
	{target: service.ErrSKUTaken, code: response.CodeConflict},
	{target: service.ErrCategorySlugTaken, code: response.CodeConflict},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest},
}

func (r ProductRequest) toInput(c *gin.Context) service.ProductInput {
	return service.ProductInput{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		UnitPrice:   r.UnitPrice,
		CostPrice:   r.CostPrice,
		Tags:        r.Tags,
		IsActive:    r.IsActive,
		LowStock:    r.LowStock,
		OperatorID:  operatorID(c),
	}
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	product, err := h.ProductService.CreateProduct(req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "创建商品失败")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	product, err := h.ProductService.UpdateProduct(id, req.toInput(c))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "更新商品失败")
		return
	}
	response.Success(c, product)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "查询商品失败")
		return
	}
	response.Success(c, product)
}

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   parseUintQuery(c, "category_id"),
		Search:       strings.TrimSpace(c.Query("search")),
		OnlyActive:   c.Query("only_active") == "true",
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询商品失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// DeleteProduct 下架并删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(id, operatorID(c)); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "删除商品失败")
		return
	}
	response.Success(c, nil)
}

// CategoryRequest 分类创建请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory 创建商品分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	category, err := h.ProductService.CreateCategory(service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "创建分类失败")
		return
	}
	response.Success(c, category)
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.ProductService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "查询分类失败", err)
		return
	}
	response.Success(c, categories)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteCategory(id); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "删除分类失败")
		return
	}
	response.Success(c, nil)
}
