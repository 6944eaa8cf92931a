package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类表
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	Name      string         `gorm:"not null" json:"name"`             // 分类名称
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                         // 主键
	SKU         string         `gorm:"uniqueIndex;not null" json:"sku"`              // 商品编码
	Name        string         `gorm:"not null;index" json:"name"`                   // 商品名称
	Description string         `gorm:"type:text" json:"description"`                 // 描述
	CategoryID  *uint          `gorm:"index" json:"category_id,omitempty"`           // 分类ID
	UnitPrice   Money          `gorm:"type:decimal(20,2);not null" json:"unit_price"`// 销售单价
	CostPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost_price"` // 成本价
	Tags        StringArray    `gorm:"type:json" json:"tags"`                        // 标签
	IsActive    bool           `gorm:"default:true" json:"is_active"`                // 是否上架
	LowStock    int            `gorm:"default:10" json:"low_stock_threshold"`        // 低库存阈值
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品规格表
type ProductVariant struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键
	ProductID uint           `gorm:"index;not null" json:"product_id"`              // 商品ID
	SKU       string         `gorm:"uniqueIndex;not null" json:"sku"`               // 规格编码
	Name      string         `gorm:"not null" json:"name"`                          // 规格名称
	UnitPrice Money          `gorm:"type:decimal(20,2);not null" json:"unit_price"` // 规格单价
	IsActive  bool           `gorm:"default:true" json:"is_active"`                 // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
