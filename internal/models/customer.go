package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 客户表
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	Name      string         `gorm:"not null;index" json:"name"`        // 客户名称
	Email     string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`     // 电话
	Address   string         `gorm:"type:text" json:"address"`          // 默认地址
	City      string         `gorm:"type:varchar(100)" json:"city"`     // 城市
	Country   string         `gorm:"type:varchar(100)" json:"country"`  // 国家
	IsActive  bool           `gorm:"default:true" json:"is_active"`     // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间

	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"` // 客户订单
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
