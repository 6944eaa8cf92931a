package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// WarehouseRepository 仓库数据访问接口
type WarehouseRepository interface {
	GetByID(id uint) (*models.Warehouse, error)
	GetByCode(code string) (*models.Warehouse, error)
	Create(warehouse *models.Warehouse) error
	Update(warehouse *models.Warehouse) error
	Delete(id uint) error
	List(filter WarehouseListFilter) ([]models.Warehouse, int64, error)
	CreateZone(zone *models.Zone) error
	ListZones(warehouseID uint) ([]models.Zone, error)
	CreateLocation(location *models.Location) error
}

// GormWarehouseRepository GORM 实现
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库数据仓库
func NewWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// GetByID 根据 ID 获取仓库
func (r *GormWarehouseRepository) GetByID(id uint) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.Preload("Zones").Preload("Zones.Locations").First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &warehouse, nil
}

// GetByCode 根据编号获取仓库
func (r *GormWarehouseRepository) GetByCode(code string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.Where("code = ?", code).First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &warehouse, nil
}

// Create 创建仓库
func (r *GormWarehouseRepository) Create(warehouse *models.Warehouse) error {
	return r.db.Create(warehouse).Error
}

// Update 更新仓库
func (r *GormWarehouseRepository) Update(warehouse *models.Warehouse) error {
	return r.db.Save(warehouse).Error
}

// Delete 软删除仓库
func (r *GormWarehouseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Warehouse{}, id).Error
}

// List 仓库列表
func (r *GormWarehouseRepository) List(filter WarehouseListFilter) ([]models.Warehouse, int64, error) {
	query := r.db.Model(&models.Warehouse{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR city LIKE ?", like, like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var warehouses []models.Warehouse
	if err := query.Order("id DESC").Find(&warehouses).Error; err != nil {
		return nil, 0, err
	}
	return warehouses, total, nil
}

// CreateZone 创建库区
func (r *GormWarehouseRepository) CreateZone(zone *models.Zone) error {
	return r.db.Create(zone).Error
}

// ListZones 获取仓库下的库区
func (r *GormWarehouseRepository) ListZones(warehouseID uint) ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.db.Preload("Locations").Where("warehouse_id = ?", warehouseID).Order("id ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// CreateLocation 创建库位
func (r *GormWarehouseRepository) CreateLocation(location *models.Location) error {
	return r.db.Create(location).Error
}
