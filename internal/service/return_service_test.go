package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReturnServiceTest(t *testing.T) (*ReturnService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:return_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Warehouse{},
		&models.Inventory{},
		&models.InventoryAdjustment{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OrderShipment{},
		&models.OrderShipmentItem{},
		&models.PaymentRecord{},
		&models.ReturnOrder{},
		&models.ReturnItem{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewReturnService(
		db,
		repository.NewOrderRepository(db),
		repository.NewReturnRepository(db),
		repository.NewInventoryRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
	return svc, db
}

// createReturnFixture 直接落库一个带单条明细的订单，qty 2、单价 20、单项折扣 5。
func createReturnFixture(t *testing.T, db *gorm.DB, status string) (models.Order, models.OrderItem) {
	t.Helper()
	order := models.Order{
		OrderNo:       fmt.Sprintf("ORD-RET-%d", time.Now().UnixNano()),
		CustomerID:    1,
		Status:        status,
		PaymentStatus: constants.OrderPaymentStatusPaid,
		Currency:      "USD",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	unit, _ := models.NewMoneyFromString("20.00")
	discount, _ := models.NewMoneyFromString("5.00")
	total, _ := models.NewMoneyFromString("30.00")
	item := models.OrderItem{
		OrderID:        order.ID,
		ProductID:      77,
		SKU:            "SKU-RET",
		ProductName:    "Returnable",
		Quantity:       2,
		UnitPrice:      unit,
		DiscountAmount: discount,
		TotalPrice:     total,
		Status:         constants.OrderItemStatusDelivered,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order, item
}

func createReturnWarehouse(t *testing.T, db *gorm.DB) models.Warehouse {
	t.Helper()
	warehouse := models.Warehouse{
		Code:     fmt.Sprintf("WH-RET-%d", time.Now().UnixNano()),
		Name:     "Returns Warehouse",
		IsActive: true,
	}
	if err := db.Create(&warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	return warehouse
}

func TestRequestReturnComputesRefund(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	ret, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Reason:  "damaged in transit",
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 2, Condition: "damaged"}},
	})
	if err != nil {
		t.Fatalf("request return failed: %v", err)
	}
	if ret.Status != constants.ReturnStatusRequested {
		t.Fatalf("status want requested got %s", ret.Status)
	}
	// (20.00 − 5.00) × 2 = 30.00
	if got := ret.RefundAmount.String(); got != "30.00" {
		t.Fatalf("refund want 30.00 got %s", got)
	}
	if len(ret.Items) != 1 || ret.Items[0].Quantity != 2 {
		t.Fatalf("unexpected return items: %+v", ret.Items)
	}
}

func TestRequestReturnRejectsPendingOrder(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusPending)

	_, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrReturnOrderNotReturnable) {
		t.Fatalf("want ErrReturnOrderNotReturnable got %v", err)
	}
}

func TestRequestReturnRejectsBadQuantity(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	for _, quantity := range []int{0, -1, 3} {
		_, err := svc.RequestReturn(RequestReturnInput{
			OrderID: order.ID,
			Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: quantity}},
		})
		if !errors.Is(err, ErrReturnItemInvalid) {
			t.Fatalf("quantity %d: want ErrReturnItemInvalid got %v", quantity, err)
		}
	}
}

func TestRequestReturnRejectsCumulativeOverReturn(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	if _, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	// 明细已全量退过，再退任意数量都要拒绝
	_, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrReturnItemInvalid) {
		t.Fatalf("want ErrReturnItemInvalid got %v", err)
	}
}

func TestRequestReturnAllowsRemainderAndCountsRejectedOut(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	first, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	// 剩余 1 件可退，超出则拒绝
	if _, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 2}},
	}); !errors.Is(err, ErrReturnItemInvalid) {
		t.Fatalf("want ErrReturnItemInvalid got %v", err)
	}
	if _, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("remainder return failed: %v", err)
	}

	// 被驳回的退货单不占用额度
	if _, err := svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID: first.ID,
		ToStatus: constants.ReturnStatusRejected,
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if _, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("return after rejection failed: %v", err)
	}
}

func TestRequestReturnRejectsDuplicateLinesOverQuantity(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	// 同一请求内多行累计超量同样拒绝
	_, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items: []RequestReturnItem{
			{OrderItemID: item.ID, Quantity: 2},
			{OrderItemID: item.ID, Quantity: 1},
		},
	})
	if !errors.Is(err, ErrReturnItemInvalid) {
		t.Fatalf("want ErrReturnItemInvalid got %v", err)
	}
}

func TestUpdateReturnStatusLifecycleRestocks(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)
	warehouse := createReturnWarehouse(t, db)

	ret, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Reason:  "wrong size",
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 2, Condition: "good"}},
	})
	if err != nil {
		t.Fatalf("request return failed: %v", err)
	}

	operatorID := uint(5)
	approved, err := svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID:   ret.ID,
		ToStatus:   constants.ReturnStatusApproved,
		OperatorID: &operatorID,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.ApprovedAt == nil || approved.ApprovedBy == nil || *approved.ApprovedBy != operatorID {
		t.Fatalf("approval fields not set: %+v", approved)
	}

	received, err := svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID:    ret.ID,
		ToStatus:    constants.ReturnStatusReceived,
		WarehouseID: warehouse.ID,
		OperatorID:  &operatorID,
	})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if received.Status != constants.ReturnStatusReceived {
		t.Fatalf("status want received got %s", received.Status)
	}

	// 收货后回补库存（库存行不存在时新建）
	var inventory models.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", item.ProductID, warehouse.ID).First(&inventory).Error; err != nil {
		t.Fatalf("load inventory failed: %v", err)
	}
	if inventory.Quantity != 2 {
		t.Fatalf("restocked quantity want 2 got %d", inventory.Quantity)
	}

	var adjustments []models.InventoryAdjustment
	if err := db.Where("product_id = ?", item.ProductID).Find(&adjustments).Error; err != nil {
		t.Fatalf("list adjustments failed: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].Delta != 2 {
		t.Fatalf("unexpected adjustments: %+v", adjustments)
	}
	if adjustments[0].AdjustType != constants.InventoryAdjustTypeReturn {
		t.Fatalf("adjust type want return got %s", adjustments[0].AdjustType)
	}

	var reloadedItem models.OrderItem
	if err := db.First(&reloadedItem, item.ID).Error; err != nil {
		t.Fatalf("reload order item failed: %v", err)
	}
	if reloadedItem.Status != constants.OrderItemStatusReturned {
		t.Fatalf("item status want returned got %s", reloadedItem.Status)
	}

	refunded, err := svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID:   ret.ID,
		ToStatus:   constants.ReturnStatusRefunded,
		OperatorID: &operatorID,
	})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.RefundedAt == nil {
		t.Fatalf("refunded_at should be set")
	}
}

func TestUpdateReturnStatusRejectsInvalidTransition(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	ret, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("request return failed: %v", err)
	}

	// requested 不能直接跳到 received
	_, err = svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID: ret.ID,
		ToStatus: constants.ReturnStatusReceived,
	})
	if !errors.Is(err, ErrReturnStatusInvalid) {
		t.Fatalf("want ErrReturnStatusInvalid got %v", err)
	}
}

func TestUpdateReturnStatusReceivedRequiresWarehouse(t *testing.T) {
	svc, db := setupReturnServiceTest(t)
	order, item := createReturnFixture(t, db, constants.OrderStatusDelivered)

	ret, err := svc.RequestReturn(RequestReturnInput{
		OrderID: order.ID,
		Items:   []RequestReturnItem{{OrderItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("request return failed: %v", err)
	}
	if _, err := svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID: ret.ID,
		ToStatus: constants.ReturnStatusApproved,
	}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	_, err = svc.UpdateReturnStatus(UpdateReturnStatusInput{
		ReturnID: ret.ID,
		ToStatus: constants.ReturnStatusReceived,
	})
	if !errors.Is(err, ErrWarehouseNotFound) {
		t.Fatalf("want ErrWarehouseNotFound got %v", err)
	}
}
