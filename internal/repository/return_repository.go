package repository

import (
	"errors"

	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// ReturnRepository 退货单数据访问接口
type ReturnRepository interface {
	Create(ret *models.ReturnOrder, items []models.ReturnItem) error
	GetByID(id uint) (*models.ReturnOrder, error)
	ListByOrder(orderID uint) ([]models.ReturnOrder, error)
	List(filter ReturnListFilter) ([]models.ReturnOrder, int64, error)
	Update(ret *models.ReturnOrder) error
	WithTx(tx *gorm.DB) *GormReturnRepository
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnRepository) WithTx(tx *gorm.DB) *GormReturnRepository {
	if tx == nil {
		return r
	}
	return &GormReturnRepository{db: tx}
}

// Create 创建退货单与退货明细
func (r *GormReturnRepository) Create(ret *models.ReturnOrder, items []models.ReturnItem) error {
	if err := r.db.Create(ret).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ReturnID = ret.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取退货单
func (r *GormReturnRepository) GetByID(id uint) (*models.ReturnOrder, error) {
	var ret models.ReturnOrder
	if err := r.db.Preload("Items").First(&ret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// ListByOrder 获取订单下的退货单
func (r *GormReturnRepository) ListByOrder(orderID uint) ([]models.ReturnOrder, error) {
	var rets []models.ReturnOrder
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Order("id ASC").Find(&rets).Error; err != nil {
		return nil, err
	}
	return rets, nil
}

// List 退货单列表
func (r *GormReturnRepository) List(filter ReturnListFilter) ([]models.ReturnOrder, int64, error) {
	query := r.db.Model(&models.ReturnOrder{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rets []models.ReturnOrder
	if err := query.Preload("Items").Order("id DESC").Find(&rets).Error; err != nil {
		return nil, 0, err
	}
	return rets, total, nil
}

// Update 更新退货单
func (r *GormReturnRepository) Update(ret *models.ReturnOrder) error {
	return r.db.Save(ret).Error
}
