package service

import (
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	auditService *AuditService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, auditService *AuditService) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditService: auditService,
	}
}

// ProductInput 商品写入输入
type ProductInput struct {
	SKU         string
	Name        string
	Description string
	CategoryID  *uint
	UnitPrice   string
	CostPrice   string
	Tags        []string
	IsActive    *bool
	LowStock    int
	OperatorID  *uint
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrderItem
	}
	existing, err := s.productRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSKUTaken
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	unitPrice, err := models.NewMoneyFromString(input.UnitPrice)
	if err != nil || unitPrice.Decimal.IsNegative() {
		return nil, ErrInvalidOrderItem
	}
	costPrice := models.Money{}
	if strings.TrimSpace(input.CostPrice) != "" {
		costPrice, err = models.NewMoneyFromString(input.CostPrice)
		if err != nil || costPrice.Decimal.IsNegative() {
			return nil, ErrInvalidOrderItem
		}
	}

	lowStock := input.LowStock
	if lowStock <= 0 {
		lowStock = constants.LowStockDefault
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now()
	product := &models.Product{
		SKU:         sku,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CategoryID:  input.CategoryID,
		UnitPrice:   unitPrice,
		CostPrice:   costPrice,
		Tags:        models.StringArray(input.Tags),
		IsActive:    active,
		LowStock:    lowStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "product", product.ID, models.JSON{
		"sku": product.SKU,
	})
	return product, nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if sku := strings.TrimSpace(input.SKU); sku != "" && sku != product.SKU {
		existing, err := s.productRepo.GetBySKU(sku)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrSKUTaken
		}
		product.SKU = sku
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = input.CategoryID
	}
	if strings.TrimSpace(input.UnitPrice) != "" {
		unitPrice, err := models.NewMoneyFromString(input.UnitPrice)
		if err != nil || unitPrice.Decimal.IsNegative() {
			return nil, ErrInvalidOrderItem
		}
		product.UnitPrice = unitPrice
	}
	if strings.TrimSpace(input.CostPrice) != "" {
		costPrice, err := models.NewMoneyFromString(input.CostPrice)
		if err != nil || costPrice.Decimal.IsNegative() {
			return nil, ErrInvalidOrderItem
		}
		product.CostPrice = costPrice
	}
	if input.Tags != nil {
		product.Tags = models.StringArray(input.Tags)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.LowStock > 0 {
		product.LowStock = input.LowStock
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "product", product.ID, models.JSON{
		"sku": product.SKU,
	})
	return product, nil
}

// GetProduct 获取商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(id uint, operatorID *uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.auditService.Record(operatorID, constants.AuditActionDelete, "product", id, models.JSON{
		"sku": product.SKU,
	})
	return nil
}

// CategoryInput 分类写入输入
type CategoryInput struct {
	Slug      string
	Name      string
	SortOrder int
}

// CreateCategory 创建分类
func (s *ProductService) CreateCategory(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrCategoryNotFound
	}
	existing, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategorySlugTaken
	}
	category := &models.Category{
		Slug:      slug,
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
		CreatedAt: time.Now(),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories 分类列表
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.ListAll()
}

// DeleteCategory 删除分类
func (s *ProductService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(id)
}
