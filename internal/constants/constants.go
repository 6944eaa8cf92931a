package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 订单支付状态常量
const (
	OrderPaymentStatusPending = "pending"
	OrderPaymentStatusPartial = "partial"
	OrderPaymentStatusPaid    = "paid"
)

// 订单项状态常量
const (
	OrderItemStatusPending   = "pending"
	OrderItemStatusShipped   = "shipped"
	OrderItemStatusDelivered = "delivered"
	OrderItemStatusReturned  = "returned"
)

// 发货单状态常量
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusDelivered = "delivered"
)

// 支付记录状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// 退货单状态常量
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusReceived  = "received"
	ReturnStatusRefunded  = "refunded"
)

// 采购单状态常量
const (
	PurchaseOrderStatusDraft     = "draft"
	PurchaseOrderStatusPlaced    = "placed"
	PurchaseOrderStatusReceived  = "received"
	PurchaseOrderStatusCancelled = "cancelled"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 角色常量
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// 库存调整类型常量
const (
	InventoryAdjustTypeManual   = "manual"
	InventoryAdjustTypeShipment = "shipment"
	InventoryAdjustTypeReturn   = "return"
	InventoryAdjustTypePurchase = "purchase"
)

// 审计日志动作常量
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionLogin  = "login"
)

// 队列常量
const (
	QueueDefault     = "default"
	TaskAuditRecord  = "audit:record"
	TaskLowStockScan = "inventory:low_stock_scan"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "it"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin = "login"
)

// 金额计算常量（税率百分比与固定运费）
const (
	TaxRatePercent   = 10
	FlatShippingFee  = "10.00"
	DefaultCurrency  = "USD"
	LowStockDefault  = 10
	RefreshTokenDays = 7
)
