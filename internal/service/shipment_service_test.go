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

type shipmentTestEnv struct {
	db           *gorm.DB
	orderSvc     *OrderService
	shipmentSvc  *ShipmentService
	inventoryRpo repository.InventoryRepository
}

func setupShipmentServiceTest(t *testing.T) *shipmentTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:shipment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.Warehouse{},
		&models.Zone{},
		&models.Location{},
		&models.Inventory{},
		&models.InventoryAdjustment{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OrderShipment{},
		&models.OrderShipmentItem{},
		&models.PaymentRecord{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	auditService := NewAuditService(repository.NewAuditLogRepository(db), nil)

	return &shipmentTestEnv{
		db: db,
		orderSvc: NewOrderService(
			db, orderRepo,
			repository.NewCustomerRepository(db),
			repository.NewProductRepository(db),
			auditService, 10, "10.00", "USD",
		),
		shipmentSvc: NewShipmentService(
			db, orderRepo,
			repository.NewShipmentRepository(db),
			inventoryRepo,
			repository.NewWarehouseRepository(db),
			auditService,
		),
		inventoryRpo: inventoryRepo,
	}
}

// createShipmentFixture 准备一个含两个商品的待发货订单，并给仓库备足库存。
func (env *shipmentTestEnv) createShipmentFixture(t *testing.T, stockA, stockB int) (*models.Order, models.Warehouse) {
	t.Helper()
	customer := createOrderCustomer(t, env.db, fmt.Sprintf("ship_%d@example.com", time.Now().UnixNano()))
	productA := createOrderProduct(t, env.db, fmt.Sprintf("SKU-SA-%d", time.Now().UnixNano()), "10.00", true)
	productB := createOrderProduct(t, env.db, fmt.Sprintf("SKU-SB-%d", time.Now().UnixNano()), "20.00", true)

	warehouse := models.Warehouse{
		Code:     fmt.Sprintf("WH-%d", time.Now().UnixNano()),
		Name:     "Test Warehouse",
		IsActive: true,
	}
	if err := env.db.Create(&warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	for productID, stock := range map[uint]int{productA.ID: stockA, productB.ID: stockB} {
		if err := env.db.Create(&models.Inventory{
			ProductID:   productID,
			WarehouseID: warehouse.ID,
			Quantity:    stock,
		}).Error; err != nil {
			t.Fatalf("create inventory failed: %v", err)
		}
	}

	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []CreateOrderItem{
			{ProductID: productA.ID, Quantity: 3},
			{ProductID: productB.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order, warehouse
}

func orderItemByProduct(t *testing.T, order *models.Order, productID uint) models.OrderItem {
	t.Helper()
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item
		}
	}
	t.Fatalf("order item for product %d missing", productID)
	return models.OrderItem{}
}

func TestCreateShipmentDecrementsStockAndPromotesOrder(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 10, 10)
	itemA := order.Items[0]

	shipment, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Carrier:     "SF Express",
		Items:       []CreateShipmentItem{{OrderItemID: itemA.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	if shipment.Status != constants.ShipmentStatusShipped {
		t.Fatalf("shipment status want shipped got %s", shipment.Status)
	}
	if shipment.ShippedAt == nil {
		t.Fatalf("shipped_at should be set")
	}

	row, err := env.inventoryRpo.Get(itemA.ProductID, warehouse.ID)
	if err != nil || row == nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if row.Quantity != 7 {
		t.Fatalf("stock want 7 got %d", row.Quantity)
	}

	var adjustments []models.InventoryAdjustment
	if err := env.db.Where("product_id = ?", itemA.ProductID).Find(&adjustments).Error; err != nil {
		t.Fatalf("list adjustments failed: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].Delta != -3 {
		t.Fatalf("unexpected adjustments: %+v", adjustments)
	}
	if adjustments[0].AdjustType != constants.InventoryAdjustTypeShipment {
		t.Fatalf("adjust type want shipment got %s", adjustments[0].AdjustType)
	}

	updated, err := env.orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("order status want shipped got %s", updated.Status)
	}
	shipped := orderItemByProduct(t, updated, itemA.ProductID)
	if shipped.Status != constants.OrderItemStatusShipped {
		t.Fatalf("item status want shipped got %s", shipped.Status)
	}
}

func TestCreateShipmentRejectsOverShip(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 10, 10)
	itemA := order.Items[0] // 订单数量 3

	if _, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateShipmentItem{{OrderItemID: itemA.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("first shipment failed: %v", err)
	}

	// 已发 2，再发 2 超出订单数量 3
	_, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateShipmentItem{{OrderItemID: itemA.ID, Quantity: 2}},
	})
	if !errors.Is(err, ErrShipmentItemInvalid) {
		t.Fatalf("want ErrShipmentItemInvalid got %v", err)
	}
}

func TestCreateShipmentRejectsInsufficientStock(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 1, 10)
	itemA := order.Items[0]

	_, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateShipmentItem{{OrderItemID: itemA.ID, Quantity: 3}},
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("want ErrStockInsufficient got %v", err)
	}

	// 事务回滚后库存不变
	row, err := env.inventoryRpo.Get(itemA.ProductID, warehouse.ID)
	if err != nil || row == nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if row.Quantity != 1 {
		t.Fatalf("stock want 1 got %d", row.Quantity)
	}
}

func TestCreateShipmentRejectsUnknownWarehouse(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, _ := env.createShipmentFixture(t, 10, 10)

	_, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: 9999,
		Items:       []CreateShipmentItem{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrWarehouseNotFound) {
		t.Fatalf("want ErrWarehouseNotFound got %v", err)
	}
}

func TestUpdateShipmentStatusDeliversOrderWhenComplete(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 10, 10)

	shipment, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items: []CreateShipmentItem{
			{OrderItemID: order.Items[0].ID, Quantity: order.Items[0].Quantity},
			{OrderItemID: order.Items[1].ID, Quantity: order.Items[1].Quantity},
		},
	})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}

	delivered, err := env.shipmentSvc.UpdateShipmentStatus(shipment.ID, constants.ShipmentStatusDelivered, nil)
	if err != nil {
		t.Fatalf("deliver shipment failed: %v", err)
	}
	if delivered.Status != constants.ShipmentStatusDelivered {
		t.Fatalf("shipment status want delivered got %s", delivered.Status)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("delivered_at should be set")
	}

	updated, err := env.orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("order status want delivered got %s", updated.Status)
	}
	for _, item := range updated.Items {
		if item.Status != constants.OrderItemStatusDelivered {
			t.Fatalf("item %d status want delivered got %s", item.ID, item.Status)
		}
	}
}

func TestUpdateShipmentStatusKeepsOrderShippedOnPartialDelivery(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 10, 10)

	// 只发第一个订单项，签收后订单仍有未发货明细
	shipment, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateShipmentItem{{OrderItemID: order.Items[0].ID, Quantity: order.Items[0].Quantity}},
	})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}

	if _, err := env.shipmentSvc.UpdateShipmentStatus(shipment.ID, constants.ShipmentStatusDelivered, nil); err != nil {
		t.Fatalf("deliver shipment failed: %v", err)
	}

	updated, err := env.orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("order status want shipped got %s", updated.Status)
	}
}

func TestUpdateShipmentStatusRejectsInvalidTransition(t *testing.T) {
	env := setupShipmentServiceTest(t)
	order, warehouse := env.createShipmentFixture(t, 10, 10)

	shipment, err := env.shipmentSvc.CreateShipment(CreateShipmentInput{
		OrderID:     order.ID,
		WarehouseID: warehouse.ID,
		Items:       []CreateShipmentItem{{OrderItemID: order.Items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}

	_, err = env.shipmentSvc.UpdateShipmentStatus(shipment.ID, constants.ShipmentStatusPending, nil)
	if !errors.Is(err, ErrShipmentStatusInvalid) {
		t.Fatalf("want ErrShipmentStatusInvalid got %v", err)
	}
}
