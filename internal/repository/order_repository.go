package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	UpdatePaymentStatus(id uint, paymentStatus string) error
	AppendStatusHistory(history *models.OrderStatusHistory) error
	ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error)
	UpdateItemStatus(orderID uint, itemIDs []uint, status string) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("Customer").Preload("Shipments").Preload("Shipments.Items").Preload("Payments")
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("Customer").Preload("Shipments").Preload("Shipments.Items").Preload("Payments")
	if err := query.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+filter.OrderNo+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Preload("Customer").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdatePaymentStatus 更新订单支付状态
func (r *GormOrderRepository) UpdatePaymentStatus(id uint, paymentStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("payment_status", paymentStatus).Error
}

// AppendStatusHistory 追加订单状态历史
func (r *GormOrderRepository) AppendStatusHistory(history *models.OrderStatusHistory) error {
	return r.db.Create(history).Error
}

// ListStatusHistory 按时间顺序获取订单状态历史
func (r *GormOrderRepository) ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var histories []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// UpdateItemStatus 批量更新订单项状态
func (r *GormOrderRepository) UpdateItemStatus(orderID uint, itemIDs []uint, status string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.OrderItem{}).
		Where("order_id = ? AND id IN ?", orderID, itemIDs).
		Update("status", status).Error
}
