package models

import (
	"time"

	"gorm.io/gorm"
)

// Supplier 供应商表
type Supplier struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	Name        string         `gorm:"not null;index" json:"name"`       // 供应商名称
	Email       string         `gorm:"index" json:"email"`               // 邮箱
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`    // 电话
	Address     string         `gorm:"type:text" json:"address"`         // 地址
	ContactName string         `gorm:"type:varchar(100)" json:"contact_name"` // 联系人
	IsActive    bool           `gorm:"default:true" json:"is_active"`    // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间
}

// TableName 指定表名
func (Supplier) TableName() string {
	return "suppliers"
}

// PurchaseOrder 采购单表
type PurchaseOrder struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                   // 主键
	PONumber    string         `gorm:"uniqueIndex;not null" json:"po_number"`                  // 采购单号
	SupplierID  uint           `gorm:"index;not null" json:"supplier_id"`                      // 供应商ID
	WarehouseID uint           `gorm:"index;not null" json:"warehouse_id"`                     // 入库仓库ID
	Status      string         `gorm:"index;not null" json:"status"`                           // 采购状态
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 采购总额
	Notes       string         `gorm:"type:text" json:"notes"`                                 // 备注
	OrderedAt   *time.Time     `gorm:"index" json:"ordered_at"`                                // 下单时间
	ReceivedAt  *time.Time     `gorm:"index" json:"received_at"`                               // 收货时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Supplier *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`       // 供应商
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`     // 采购项
}

// TableName 指定表名
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem 采购项表
type PurchaseOrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                    // 主键
	PurchaseOrderID uint      `gorm:"index;not null" json:"purchase_order_id"`                 // 采购单ID
	ProductID       uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	Quantity        int       `gorm:"not null" json:"quantity"`                                // 采购数量
	UnitCost        Money     `gorm:"type:decimal(20,2);not null" json:"unit_cost"`            // 采购单价
	TotalCost       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_cost"` // 小计
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
