package models

import (
	"time"
)

// ReturnOrder 退货单表
type ReturnOrder struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                        // 主键
	ReturnNo     string     `gorm:"uniqueIndex;not null" json:"return_no"`                       // 退货单号
	OrderID      uint       `gorm:"index;not null" json:"order_id"`                              // 订单ID
	Status       string     `gorm:"index;not null" json:"status"`                                // 退货状态
	Reason       string     `gorm:"type:text" json:"reason"`                                     // 退货原因
	RefundAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"`  // 退款金额
	WarehouseID  *uint      `gorm:"index" json:"warehouse_id"`                                   // 入库仓库ID
	ApprovedBy   *uint      `gorm:"index" json:"approved_by"`                                    // 审批人ID
	ApprovedAt   *time.Time `json:"approved_at"`                                                 // 审批时间
	ReceivedAt   *time.Time `json:"received_at"`                                                 // 收货时间
	RefundedAt   *time.Time `json:"refunded_at"`                                                 // 退款时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt    time.Time  `gorm:"index" json:"updated_at"`                                     // 更新时间

	Items []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"` // 退货明细
}

// TableName 指定表名
func (ReturnOrder) TableName() string {
	return "return_orders"
}

// ReturnItem 退货明细表
type ReturnItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                 // 主键
	ReturnID    uint      `gorm:"index;not null" json:"return_id"`      // 退货单ID
	OrderItemID uint      `gorm:"index;not null" json:"order_item_id"`  // 订单项ID
	Quantity    int       `gorm:"not null" json:"quantity"`             // 退货数量
	Condition   string    `gorm:"type:varchar(50)" json:"condition"`    // 商品状况
	CreatedAt   time.Time `gorm:"index" json:"created_at"`              // 创建时间
}

// TableName 指定表名
func (ReturnItem) TableName() string {
	return "return_items"
}
