package models

import (
	"time"

	"gorm.io/gorm"
)

// Warehouse 仓库表
type Warehouse struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 主键
	Code      string         `gorm:"uniqueIndex;not null" json:"code"` // 仓库编码
	Name      string         `gorm:"not null" json:"name"`             // 仓库名称
	Address   string         `gorm:"type:text" json:"address"`         // 地址
	City      string         `gorm:"type:varchar(100)" json:"city"`    // 城市
	IsActive  bool           `gorm:"default:true" json:"is_active"`    // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`          // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间

	Zones []Zone `gorm:"foreignKey:WarehouseID" json:"zones,omitempty"` // 库区
}

// TableName 指定表名
func (Warehouse) TableName() string {
	return "warehouses"
}

// Zone 库区表
type Zone struct {
	ID          uint           `gorm:"primarykey" json:"id"`                // 主键
	WarehouseID uint           `gorm:"index;not null" json:"warehouse_id"`  // 仓库ID
	Code        string         `gorm:"not null" json:"code"`                // 库区编码
	Name        string         `gorm:"not null" json:"name"`                // 库区名称
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`             // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                      // 软删除时间

	Locations []Location `gorm:"foreignKey:ZoneID" json:"locations,omitempty"` // 库位
}

// TableName 指定表名
func (Zone) TableName() string {
	return "zones"
}

// Location 库位表
type Location struct {
	ID        uint           `gorm:"primarykey" json:"id"`          // 主键
	ZoneID    uint           `gorm:"index;not null" json:"zone_id"` // 库区ID
	Code      string         `gorm:"not null" json:"code"`          // 库位编码
	CreatedAt time.Time      `gorm:"index" json:"created_at"`       // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                // 软删除时间
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}

// Inventory 库存表（商品 × 仓库）
type Inventory struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                    // 主键
	ProductID   uint       `gorm:"uniqueIndex:idx_inventory_product_warehouse;not null" json:"product_id"`   // 商品ID
	WarehouseID uint       `gorm:"uniqueIndex:idx_inventory_product_warehouse;not null" json:"warehouse_id"` // 仓库ID
	Quantity    int        `gorm:"not null;default:0" json:"quantity"`                      // 在库数量
	Reserved    int        `gorm:"not null;default:0" json:"reserved"`                      // 预留数量
	UpdatedAt   time.Time  `gorm:"index" json:"updated_at"`                                 // 更新时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间

	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`     // 商品
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"` // 仓库
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}

// Available 返回可用库存数量
func (i *Inventory) Available() int {
	if i == nil {
		return 0
	}
	available := i.Quantity - i.Reserved
	if available < 0 {
		return 0
	}
	return available
}
