package models

import (
	"time"
)

// AuditLog 审计日志表
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`                         // 主键
	UserID     *uint     `gorm:"index" json:"user_id"`                         // 操作人ID
	Action     string    `gorm:"type:varchar(50);index;not null" json:"action"` // 操作类型
	Entity     string    `gorm:"type:varchar(50);index;not null" json:"entity"` // 实体类型
	EntityID   uint      `gorm:"index" json:"entity_id"`                       // 实体ID
	Detail     JSON      `gorm:"type:json" json:"detail"`                      // 详情
	IP         string    `gorm:"type:varchar(64)" json:"ip"`                   // 来源IP
	RequestID  string    `gorm:"type:varchar(64);index" json:"request_id"`     // 请求ID
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                      // 记录时间
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}

// InventoryAdjustment 库存调整记录表
type InventoryAdjustment struct {
	ID          uint      `gorm:"primarykey" json:"id"`                          // 主键
	ProductID   uint      `gorm:"index;not null" json:"product_id"`              // 商品ID
	WarehouseID uint      `gorm:"index;not null" json:"warehouse_id"`            // 仓库ID
	AdjustType  string    `gorm:"type:varchar(50);index;not null" json:"adjust_type"` // 调整类型
	Delta       int       `gorm:"not null" json:"delta"`                         // 数量变化
	Reason      string    `gorm:"type:text" json:"reason"`                       // 调整原因
	AdjustedBy  *uint     `gorm:"index" json:"adjusted_by"`                      // 操作人ID
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                       // 记录时间
}

// TableName 指定表名
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}
