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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
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
	auditService := NewAuditService(repository.NewAuditLogRepository(db), nil)
	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		auditService,
		10,      // 税率 10%
		"10.00", // 固定运费
		"USD",
	)
	return svc, db
}

func createOrderCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	t.Helper()
	customer := models.Customer{
		Name:     "Test Customer",
		Email:    email,
		IsActive: true,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func createOrderProduct(t *testing.T, db *gorm.DB, sku, unitPrice string, active bool) models.Product {
	t.Helper()
	price, err := models.NewMoneyFromString(unitPrice)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := models.Product{
		SKU:       sku,
		Name:      "Product " + sku,
		UnitPrice: price,
		CostPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
		IsActive:  active,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	// gorm 对带默认值的零值字段不会写入，显式落库 is_active=false
	if !active {
		if err := db.Model(&product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func createOrderVariant(t *testing.T, db *gorm.DB, productID uint, sku, unitPrice string, active bool) models.ProductVariant {
	t.Helper()
	price, err := models.NewMoneyFromString(unitPrice)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	variant := models.ProductVariant{
		ProductID: productID,
		SKU:       sku,
		Name:      "Variant " + sku,
		UnitPrice: price,
		IsActive:  active,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	// gorm 对带默认值的零值字段不会写入，显式落库 is_active=false
	if !active {
		if err := db.Model(&variant).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate variant failed: %v", err)
		}
	}
	return variant
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "totals@example.com")
	cheap := createOrderProduct(t, db, "SKU-CHEAP", "10.00", true)
	dear := createOrderProduct(t, db, "SKU-DEAR", "20.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []CreateOrderItem{
			{ProductID: cheap.ID, Quantity: 3},
			{ProductID: dear.ID, Quantity: 1, DiscountAmount: "5.00"},
		},
		ShippingAddress: "1 Main St",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 3×10.00 + 1×(20.00−5.00) = 45.00，税 4.50，运费 10.00
	if got := order.SubTotal.String(); got != "45.00" {
		t.Fatalf("sub total want 45.00 got %s", got)
	}
	if got := order.TaxAmount.String(); got != "4.50" {
		t.Fatalf("tax want 4.50 got %s", got)
	}
	if got := order.ShippingAmount.String(); got != "10.00" {
		t.Fatalf("shipping want 10.00 got %s", got)
	}
	if got := order.TotalAmount.String(); got != "59.50" {
		t.Fatalf("total want 59.50 got %s", got)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if order.PaymentStatus != constants.OrderPaymentStatusPending {
		t.Fatalf("payment status want pending got %s", order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(order.Items))
	}

	history, err := svc.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 || history[0].ToStatus != constants.OrderStatusPending {
		t.Fatalf("unexpected initial history: %+v", history)
	}
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "unknown@example.com")

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: 9999, Quantity: 1}},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "inactive@example.com")
	product := createOrderProduct(t, db, "SKU-OFF", "10.00", false)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrProductInactive) {
		t.Fatalf("want ErrProductInactive got %v", err)
	}
}

func TestCreateOrderRejectsUnknownCustomer(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createOrderProduct(t, db, "SKU-NOCUST", "10.00", true)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: 9999,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound got %v", err)
	}
}

func TestCreateOrderRejectsDiscountAboveUnitPrice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "discount@example.com")
	product := createOrderProduct(t, db, "SKU-DISC", "10.00", true)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1, DiscountAmount: "10.01"}},
	})
	if !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("want ErrInvalidOrderItem got %v", err)
	}
}

func TestCreateOrderMergesDuplicateProducts(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "merge@example.com")
	product := createOrderProduct(t, db, "SKU-MERGE", "10.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []CreateOrderItem{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items want 1 got %d", len(order.Items))
	}
	if order.Items[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", order.Items[0].Quantity)
	}
}

func TestCreateOrderPricesDiscountLinesSeparately(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "split@example.com")
	product := createOrderProduct(t, db, "SKU-SPLIT", "10.00", true)

	// 同一商品折扣不同的两行不合并，各自计价
	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items: []CreateOrderItem{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 1, DiscountAmount: "5.00"},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(order.Items))
	}
	// 10.00 + (10.00−5.00) = 15.00
	if got := order.SubTotal.String(); got != "15.00" {
		t.Fatalf("sub total want 15.00 got %s", got)
	}
}

func TestCreateOrderUsesVariantPrice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "variant@example.com")
	product := createOrderProduct(t, db, "SKU-VAR", "10.00", true)
	variant := createOrderVariant(t, db, product.ID, "SKU-VAR-L", "12.50", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if got := order.SubTotal.String(); got != "25.00" {
		t.Fatalf("sub total want 25.00 got %s", got)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items want 1 got %d", len(order.Items))
	}
	if got := order.Items[0].UnitPrice.String(); got != "12.50" {
		t.Fatalf("unit price want 12.50 got %s", got)
	}
	if order.Items[0].SKU != variant.SKU {
		t.Fatalf("sku want %s got %s", variant.SKU, order.Items[0].SKU)
	}
}

func TestCreateOrderRejectsUnknownVariant(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "novariant@example.com")
	product := createOrderProduct(t, db, "SKU-NOVAR", "10.00", true)
	missing := uint(9999)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, VariantID: &missing, Quantity: 1}},
	})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("want ErrVariantNotFound got %v", err)
	}
}

func TestCreateOrderRejectsVariantOfOtherProduct(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "crossvariant@example.com")
	product := createOrderProduct(t, db, "SKU-CROSS-A", "10.00", true)
	other := createOrderProduct(t, db, "SKU-CROSS-B", "10.00", true)
	variant := createOrderVariant(t, db, other.ID, "SKU-CROSS-B-L", "12.00", true)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("want ErrVariantNotFound got %v", err)
	}
}

func TestCreateOrderRejectsInactiveVariant(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "offvariant@example.com")
	product := createOrderProduct(t, db, "SKU-OFFVAR", "10.00", true)
	variant := createOrderVariant(t, db, product.ID, "SKU-OFFVAR-L", "12.00", false)

	_, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrProductInactive) {
		t.Fatalf("want ErrProductInactive got %v", err)
	}
}

func TestMergeCreateOrderItems(t *testing.T) {
	variantID := uint(7)
	tests := []struct {
		name    string
		items   []CreateOrderItem
		want    int
		wantErr bool
	}{
		{
			name: "merges same product",
			items: []CreateOrderItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 1, Quantity: 2},
			},
			want: 1,
		},
		{
			name: "keeps variant rows separate",
			items: []CreateOrderItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 1, VariantID: &variantID, Quantity: 2},
			},
			want: 2,
		},
		{
			name: "keeps different discounts separate",
			items: []CreateOrderItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 1, Quantity: 1, DiscountAmount: "5.00"},
			},
			want: 2,
		},
		{
			name: "merges same discount",
			items: []CreateOrderItem{
				{ProductID: 1, Quantity: 1, DiscountAmount: "5.00"},
				{ProductID: 1, Quantity: 2, DiscountAmount: "5.00"},
			},
			want: 1,
		},
		{
			name:    "rejects zero product",
			items:   []CreateOrderItem{{ProductID: 0, Quantity: 1}},
			wantErr: true,
		},
		{
			name:    "rejects non-positive quantity",
			items:   []CreateOrderItem{{ProductID: 1, Quantity: 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := mergeCreateOrderItems(tt.items)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOrderItem) {
					t.Fatalf("want ErrInvalidOrderItem got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("merge failed: %v", err)
			}
			if len(merged) != tt.want {
				t.Fatalf("merged len want %d got %d", tt.want, len(merged))
			}
		})
	}
}

func TestMergeCreateOrderItemsKeepsBaseAndVariantQuantitiesApart(t *testing.T) {
	variantID := uint(7)
	// 规格行夹在两条裸商品行之间，裸商品数量不能混入规格行
	merged, err := mergeCreateOrderItems([]CreateOrderItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, VariantID: &variantID, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("merged len want 2 got %d", len(merged))
	}
	if merged[0].VariantID != nil || merged[0].Quantity != 4 {
		t.Fatalf("base row want qty 4 got %+v", merged[0])
	}
	if merged[1].VariantID == nil || *merged[1].VariantID != variantID || merged[1].Quantity != 2 {
		t.Fatalf("variant row want qty 2 got %+v", merged[1])
	}
}

func TestUpdateStatusSameStatusAddsNoHistory(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "noop@example.com")
	product := createOrderProduct(t, db, "SKU-NOOP", "10.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusPending, "noop", nil); err != nil {
		t.Fatalf("same status update failed: %v", err)
	}

	history, err := svc.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history want 1 got %d", len(history))
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "jump@example.com")
	product := createOrderProduct(t, db, "SKU-JUMP", "10.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// pending 不能直接跳到 delivered
	_, err = svc.UpdateStatus(order.ID, constants.OrderStatusDelivered, "", nil)
	if !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
}

func TestCancelOrderRejectsShippedOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "shipped@example.com")
	product := createOrderProduct(t, db, "SKU-SHIPPED", "10.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped, "shipped", nil); err != nil {
		t.Fatalf("transition to shipped failed: %v", err)
	}

	_, err = svc.CancelOrder(order.ID, "too late", nil)
	if !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("want ErrOrderCancelNotAllowed got %v", err)
	}
}

func TestCancelOrderIsIdempotent(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer := createOrderCustomer(t, db, "cancel@example.com")
	product := createOrderProduct(t, db, "SKU-CANCEL", "10.00", true)

	order, err := svc.CreateOrder(CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cancelled, err := svc.CancelOrder(order.ID, "customer request", nil)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled_at should be set")
	}

	again, err := svc.CancelOrder(order.ID, "again", nil)
	if err != nil {
		t.Fatalf("repeated cancel failed: %v", err)
	}
	if again.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", again.Status)
	}

	history, err := svc.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	// created + cancelled，重复取消不再追加
	if len(history) != 2 {
		t.Fatalf("history want 2 got %d", len(history))
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	_, err := svc.GetOrder(12345)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}
