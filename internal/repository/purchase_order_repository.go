package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// PurchaseOrderRepository 采购单数据访问接口
type PurchaseOrderRepository interface {
	Create(po *models.PurchaseOrder, items []models.PurchaseOrderItem) error
	GetByID(id uint) (*models.PurchaseOrder, error)
	List(filter PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error)
	Update(po *models.PurchaseOrder) error
	WithTx(tx *gorm.DB) *GormPurchaseOrderRepository
}

// GormPurchaseOrderRepository GORM 实现
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository 创建采购单仓库
func NewPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseOrderRepository) WithTx(tx *gorm.DB) *GormPurchaseOrderRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseOrderRepository{db: tx}
}

// Create 创建采购单与采购项
func (r *GormPurchaseOrderRepository) Create(po *models.PurchaseOrder, items []models.PurchaseOrderItem) error {
	if err := r.db.Create(po).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseOrderID = po.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取采购单
func (r *GormPurchaseOrderRepository) GetByID(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.Preload("Items").Preload("Supplier").First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

// List 采购单列表
func (r *GormPurchaseOrderRepository) List(filter PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	query := r.db.Model(&models.PurchaseOrder{})

	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.WarehouseID != 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PONumber != "" {
		query = query.Where("po_number LIKE ?", "%"+filter.PONumber+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var pos []models.PurchaseOrder
	if err := query.Preload("Items").Preload("Supplier").Order("id DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}
	return pos, total, nil
}

// Update 更新采购单
func (r *GormPurchaseOrderRepository) Update(po *models.PurchaseOrder) error {
	return r.db.Save(po).Error
}
