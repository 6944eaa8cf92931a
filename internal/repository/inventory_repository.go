package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存数据访问接口
type InventoryRepository interface {
	Get(productID, warehouseID uint) (*models.Inventory, error)
	Upsert(inventory *models.Inventory) error
	AdjustQuantity(productID, warehouseID uint, delta int) error
	AdjustReserved(productID, warehouseID uint, delta int) error
	List(filter InventoryListFilter) ([]models.Inventory, int64, error)
	ListLowStock(threshold int) ([]models.Inventory, error)
	RecordAdjustment(adjustment *models.InventoryAdjustment) error
	TotalQuantityByProduct(productID uint) (int, error)
	WithTx(tx *gorm.DB) *GormInventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) *GormInventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Get 获取某仓库某商品的库存行
func (r *GormInventoryRepository) Get(productID, warehouseID uint) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&inventory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inventory, nil
}

// Upsert 保存库存行
func (r *GormInventoryRepository) Upsert(inventory *models.Inventory) error {
	return r.db.Save(inventory).Error
}

// AdjustQuantity 原子增减在库数量
func (r *GormInventoryRepository) AdjustQuantity(productID, warehouseID uint, delta int) error {
	result := r.db.Model(&models.Inventory{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity + ? >= 0", productID, warehouseID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustReserved 原子增减预留数量
func (r *GormInventoryRepository) AdjustReserved(productID, warehouseID uint, delta int) error {
	result := r.db.Model(&models.Inventory{}).
		Where("product_id = ? AND warehouse_id = ? AND reserved + ? >= 0", productID, warehouseID, delta).
		Update("reserved", gorm.Expr("reserved + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 库存列表
func (r *GormInventoryRepository) List(filter InventoryListFilter) ([]models.Inventory, int64, error) {
	query := r.db.Model(&models.Inventory{})

	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.OnlyLowStock {
		query = query.Joins("JOIN products ON products.id = inventories.product_id").
			Where("inventories.quantity - inventories.reserved <= products.low_stock")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Inventory
	if err := query.Preload("Product").Preload("Warehouse").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListLowStock 获取可用数低于阈值的库存行
func (r *GormInventoryRepository) ListLowStock(threshold int) ([]models.Inventory, error) {
	var rows []models.Inventory
	if err := r.db.Preload("Product").Preload("Warehouse").
		Where("quantity - reserved <= ?", threshold).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RecordAdjustment 记录库存调整流水
func (r *GormInventoryRepository) RecordAdjustment(adjustment *models.InventoryAdjustment) error {
	return r.db.Create(adjustment).Error
}

// TotalQuantityByProduct 汇总商品在所有仓库的在库数
func (r *GormInventoryRepository) TotalQuantityByProduct(productID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}
