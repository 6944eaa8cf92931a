package repository

import (
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetStockStats() (DashboardStockStatsRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal     int64
	PendingOrders   int64
	ShippedOrders   int64
	DeliveredOrders int64
	CancelledOrders int64
	PaidOrders      int64
	RevenuePaid     float64
	ReturnsTotal    int64
	NewCustomers    int64
	ActiveProducts  int64
	Currency        string
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	OrdersPaid  int64
}

// DashboardStockStatsRow 库存统计
type DashboardStockStatsRow struct {
	OutOfStockRows int64
	LowStockRows   int64
	TotalUnits     int64
}

// DashboardProductRankingRow 商品排行原始行
type DashboardProductRankingRow struct {
	ProductID  uint
	Name       string
	Orders     int64
	Quantity   int64
	PaidAmount float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{Currency: constants.DefaultCurrency}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusPending).Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusShipped).Count(&result.ShippedOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusDelivered).Count(&result.DeliveredOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCancelled).Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.OrderPaymentStatusPaid).Count(&result.PaidOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().
		Where("payment_status = ?", constants.OrderPaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.RevenuePaid).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.ReturnOrder{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.ReturnsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewCustomers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderTrends 获取按日订单趋势
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	var rows []DashboardOrderTrendRow
	err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Select(
			dayBucketExpr(r.db, "created_at")+" AS day, "+
				"COUNT(*) AS orders_total, "+
				"SUM(CASE WHEN payment_status = ? THEN 1 ELSE 0 END) AS orders_paid",
			constants.OrderPaymentStatusPaid,
		).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetStockStats 获取库存统计
func (r *GormDashboardRepository) GetStockStats() (DashboardStockStatsRow, error) {
	result := DashboardStockStatsRow{}

	if err := r.db.Model(&models.Inventory{}).
		Where("quantity - reserved <= 0").
		Count(&result.OutOfStockRows).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Inventory{}).
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("inventories.quantity - inventories.reserved > 0 AND inventories.quantity - inventories.reserved <= products.low_stock").
		Count(&result.LowStockRows).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Inventory{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&result.TotalUnits).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetTopProducts 获取区间内商品销量排行
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardProductRankingRow
	err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", startAt, endAt, constants.OrderStatusCancelled).
		Select(
			"order_items.product_id AS product_id, " +
				"order_items.product_name AS name, " +
				"COUNT(DISTINCT order_items.order_id) AS orders, " +
				"SUM(order_items.quantity) AS quantity, " +
				"SUM(order_items.total_price) AS paid_amount",
		).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
