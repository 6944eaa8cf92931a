package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	CustomerID    uint
	Status        string
	PaymentStatus string
	OrderNo       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// SupplierListFilter 查询供应商列表的过滤条件
type SupplierListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// WarehouseListFilter 查询仓库列表的过滤条件
type WarehouseListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// InventoryListFilter 查询库存列表的过滤条件
type InventoryListFilter struct {
	Page         int
	PageSize     int
	ProductID    uint
	WarehouseID  uint
	OnlyLowStock bool
}

// ShipmentListFilter 查询发货单列表的过滤条件
type ShipmentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	WarehouseID uint
	Status      string
	TrackingNo  string
}

// PaymentListFilter 查询支付记录列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Method      string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReturnListFilter 查询退货单列表的过滤条件
type ReturnListFilter struct {
	Page     int
	PageSize int
	OrderID  uint
	Status   string
}

// PurchaseOrderListFilter 查询采购单列表的过滤条件
type PurchaseOrderListFilter struct {
	Page        int
	PageSize    int
	SupplierID  uint
	WarehouseID uint
	Status      string
	PONumber    string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuditLogListFilter 查询审计日志列表的过滤条件
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Action      string
	Entity      string
	EntityID    uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
