package models

import (
	"time"
)

// OrderShipment 发货单表
type OrderShipment struct {
	ID             uint       `gorm:"primarykey" json:"id"`                              // 主键
	ShipmentNo     string     `gorm:"uniqueIndex;not null" json:"shipment_no"`           // 发货单号
	OrderID        uint       `gorm:"index;not null" json:"order_id"`                    // 订单ID
	WarehouseID    uint       `gorm:"index;not null" json:"warehouse_id"`                // 发货仓库ID
	Status         string     `gorm:"index;not null" json:"status"`                      // 发货状态
	Carrier        string     `gorm:"type:varchar(100)" json:"carrier"`                  // 承运商
	TrackingNumber string     `gorm:"type:varchar(100);index" json:"tracking_number"`    // 运单号
	ShippedAt      *time.Time `gorm:"index" json:"shipped_at"`                           // 发出时间
	DeliveredAt    *time.Time `gorm:"index" json:"delivered_at"`                         // 签收时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt      time.Time  `gorm:"index" json:"updated_at"`                           // 更新时间

	Items []OrderShipmentItem `gorm:"foreignKey:ShipmentID" json:"items,omitempty"` // 发货明细
}

// TableName 指定表名
func (OrderShipment) TableName() string {
	return "order_shipments"
}

// OrderShipmentItem 发货明细表, 把发货单与订单项显式关联
type OrderShipmentItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                 // 主键
	ShipmentID  uint      `gorm:"index;not null" json:"shipment_id"`    // 发货单ID
	OrderItemID uint      `gorm:"index;not null" json:"order_item_id"`  // 订单项ID
	Quantity    int       `gorm:"not null" json:"quantity"`             // 发货数量
	CreatedAt   time.Time `gorm:"index" json:"created_at"`              // 创建时间
}

// TableName 指定表名
func (OrderShipmentItem) TableName() string {
	return "order_shipment_items"
}
