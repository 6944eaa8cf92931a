package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付记录数据访问接口
type PaymentRepository interface {
	Create(payment *models.PaymentRecord) error
	GetByID(id uint) (*models.PaymentRecord, error)
	GetByPaymentNo(paymentNo string) (*models.PaymentRecord, error)
	ListByOrder(orderID uint) ([]models.PaymentRecord, error)
	List(filter PaymentListFilter) ([]models.PaymentRecord, int64, error)
	Update(payment *models.PaymentRecord) error
	SumCompletedByOrder(orderID uint) (models.Money, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.PaymentRecord) error {
	return r.db.Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *GormPaymentRepository) GetByID(id uint) (*models.PaymentRecord, error) {
	var payment models.PaymentRecord
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByPaymentNo 根据流水号获取支付记录
func (r *GormPaymentRepository) GetByPaymentNo(paymentNo string) (*models.PaymentRecord, error) {
	var payment models.PaymentRecord
	if err := r.db.Where("payment_no = ?", paymentNo).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ListByOrder 获取订单的支付记录
func (r *GormPaymentRepository) ListByOrder(orderID uint) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	if err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// List 支付记录列表
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.PaymentRecord, int64, error) {
	query := r.db.Model(&models.PaymentRecord{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var payments []models.PaymentRecord
	if err := query.Order("id DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// Update 更新支付记录
func (r *GormPaymentRepository) Update(payment *models.PaymentRecord) error {
	return r.db.Save(payment).Error
}

// SumCompletedByOrder 汇总订单已完成支付金额
func (r *GormPaymentRepository) SumCompletedByOrder(orderID uint) (models.Money, error) {
	var row struct {
		Total string
	}
	err := r.db.Model(&models.PaymentRecord{}).
		Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return models.NewMoneyFromString(row.Total)
}
