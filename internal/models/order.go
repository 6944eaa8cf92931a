package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单号
	CustomerID      uint           `gorm:"index;not null" json:"customer_id"`                           // 客户ID
	Status          string         `gorm:"index;not null" json:"status"`                                // 订单状态
	PaymentStatus   string         `gorm:"index;not null" json:"payment_status"`                        // 支付状态
	SubTotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"sub_total"`      // 商品小计
	TaxAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`     // 税费
	ShippingAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"` // 运费
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 折扣金额
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`   // 应付总额
	Currency        string         `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`     // 币种
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`                           // 收货地址
	BillingAddress  string         `gorm:"type:text" json:"billing_address"`                            // 账单地址
	Notes           string         `gorm:"type:text" json:"notes"`                                      // 备注
	CancelledAt     *time.Time     `json:"cancelled_at"`                                                // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Customer      *Customer            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`     // 客户
	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`           // 订单项
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`  // 状态历史
	Shipments     []OrderShipment      `gorm:"foreignKey:OrderID" json:"shipments,omitempty"`       // 发货单
	Payments      []PaymentRecord      `gorm:"foreignKey:OrderID" json:"payments,omitempty"`        // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表
type OrderItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`                                // 订单ID
	ProductID      uint      `gorm:"index;not null" json:"product_id"`                              // 商品ID
	VariantID      *uint     `gorm:"index" json:"variant_id"`                                       // 变体ID
	SKU            string    `gorm:"type:varchar(100);not null" json:"sku"`                         // 下单时SKU快照
	ProductName    string    `gorm:"type:varchar(255);not null" json:"product_name"`                // 下单时商品名快照
	Quantity       int       `gorm:"not null" json:"quantity"`                                      // 数量
	UnitPrice      Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`                 // 单价
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 单项折扣
	TotalPrice     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`      // 小计
	Status         string    `gorm:"index;not null" json:"status"`                                  // 明细状态
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory 订单状态历史表
type OrderStatusHistory struct {
	ID         uint      `gorm:"primarykey" json:"id"`                       // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`             // 订单ID
	FromStatus string    `gorm:"type:varchar(50)" json:"from_status"`        // 原状态
	ToStatus   string    `gorm:"type:varchar(50);not null" json:"to_status"` // 新状态
	Note       string    `gorm:"type:text" json:"note"`                      // 备注
	ChangedBy  *uint     `gorm:"index" json:"changed_by"`                    // 操作人ID
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                    // 变更时间
}

// TableName 指定表名
func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
