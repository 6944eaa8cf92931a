package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// ShipmentRepository 发货单数据访问接口
type ShipmentRepository interface {
	Create(shipment *models.OrderShipment, items []models.OrderShipmentItem) error
	GetByID(id uint) (*models.OrderShipment, error)
	ListByOrder(orderID uint) ([]models.OrderShipment, error)
	List(filter ShipmentListFilter) ([]models.OrderShipment, int64, error)
	Update(shipment *models.OrderShipment) error
	WithTx(tx *gorm.DB) *GormShipmentRepository
}

// GormShipmentRepository GORM 实现
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository 创建发货单仓库
func NewShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShipmentRepository) WithTx(tx *gorm.DB) *GormShipmentRepository {
	if tx == nil {
		return r
	}
	return &GormShipmentRepository{db: tx}
}

// Create 创建发货单与发货明细
func (r *GormShipmentRepository) Create(shipment *models.OrderShipment, items []models.OrderShipmentItem) error {
	if err := r.db.Create(shipment).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ShipmentID = shipment.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取发货单
func (r *GormShipmentRepository) GetByID(id uint) (*models.OrderShipment, error) {
	var shipment models.OrderShipment
	if err := r.db.Preload("Items").First(&shipment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// ListByOrder 获取订单下全部发货单
func (r *GormShipmentRepository) ListByOrder(orderID uint) ([]models.OrderShipment, error) {
	var shipments []models.OrderShipment
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Order("id ASC").Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// List 发货单列表
func (r *GormShipmentRepository) List(filter ShipmentListFilter) ([]models.OrderShipment, int64, error) {
	query := r.db.Model(&models.OrderShipment{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.WarehouseID != 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TrackingNo != "" {
		query = query.Where("tracking_number = ?", filter.TrackingNo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var shipments []models.OrderShipment
	if err := query.Preload("Items").Order("id DESC").Find(&shipments).Error; err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// Update 更新发货单
func (r *GormShipmentRepository) Update(shipment *models.OrderShipment) error {
	return r.db.Save(shipment).Error
}
