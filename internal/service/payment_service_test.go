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

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
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
	svc := NewPaymentService(
		db,
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
	return svc, db
}

func createPaymentOrder(t *testing.T, db *gorm.DB, total string, status string) models.Order {
	t.Helper()
	amount, err := models.NewMoneyFromString(total)
	if err != nil {
		t.Fatalf("parse total failed: %v", err)
	}
	order := models.Order{
		OrderNo:       fmt.Sprintf("ORD-PAY-%d", time.Now().UnixNano()),
		CustomerID:    1,
		Status:        status,
		PaymentStatus: constants.OrderPaymentStatusPending,
		TotalAmount:   amount,
		Currency:      "USD",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func orderPaymentStatus(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order.PaymentStatus
}

func TestRecordPaymentReconcilesOrderStatus(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	order := createPaymentOrder(t, db, "100.00", constants.OrderStatusPending)

	payment, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "bank_transfer",
		Amount:  "40.00",
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusCompleted {
		t.Fatalf("payment status want completed got %s", payment.Status)
	}
	if payment.Currency != "USD" {
		t.Fatalf("currency want USD got %s", payment.Currency)
	}
	if got := orderPaymentStatus(t, db, order.ID); got != constants.OrderPaymentStatusPartial {
		t.Fatalf("order payment status want partial got %s", got)
	}

	if _, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "bank_transfer",
		Amount:  "60.00",
	}); err != nil {
		t.Fatalf("second payment failed: %v", err)
	}
	if got := orderPaymentStatus(t, db, order.ID); got != constants.OrderPaymentStatusPaid {
		t.Fatalf("order payment status want paid got %s", got)
	}
}

func TestRecordPaymentRejectsExceedingTotal(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	order := createPaymentOrder(t, db, "100.00", constants.OrderStatusPending)

	if _, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "cash",
		Amount:  "80.00",
	}); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	_, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "cash",
		Amount:  "30.00",
	})
	if !errors.Is(err, ErrPaymentExceedsTotal) {
		t.Fatalf("want ErrPaymentExceedsTotal got %v", err)
	}
}

func TestRecordPaymentRejectsInvalidAmount(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	order := createPaymentOrder(t, db, "100.00", constants.OrderStatusPending)

	for _, amount := range []string{"0", "-5.00", "abc"} {
		_, err := svc.RecordPayment(RecordPaymentInput{
			OrderID: order.ID,
			Method:  "cash",
			Amount:  amount,
		})
		if !errors.Is(err, ErrPaymentAmountInvalid) {
			t.Fatalf("amount %q: want ErrPaymentAmountInvalid got %v", amount, err)
		}
	}
}

func TestRecordPaymentRejectsCancelledOrder(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	order := createPaymentOrder(t, db, "100.00", constants.OrderStatusCancelled)

	_, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "cash",
		Amount:  "10.00",
	})
	if !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
}

func TestFailPaymentRecalculatesOrderStatus(t *testing.T) {
	svc, db := setupPaymentServiceTest(t)
	order := createPaymentOrder(t, db, "100.00", constants.OrderStatusPending)

	payment, err := svc.RecordPayment(RecordPaymentInput{
		OrderID: order.ID,
		Method:  "bank_transfer",
		Amount:  "40.00",
	})
	if err != nil {
		t.Fatalf("record payment failed: %v", err)
	}
	if got := orderPaymentStatus(t, db, order.ID); got != constants.OrderPaymentStatusPartial {
		t.Fatalf("order payment status want partial got %s", got)
	}

	failed, err := svc.FailPayment(payment.ID, "chargeback", nil)
	if err != nil {
		t.Fatalf("fail payment failed: %v", err)
	}
	if failed.Status != constants.PaymentStatusFailed {
		t.Fatalf("payment status want failed got %s", failed.Status)
	}
	if failed.FailureReason != "chargeback" {
		t.Fatalf("failure reason want chargeback got %s", failed.FailureReason)
	}
	if got := orderPaymentStatus(t, db, order.ID); got != constants.OrderPaymentStatusPending {
		t.Fatalf("order payment status want pending got %s", got)
	}

	// 重复标记失败应幂等
	if _, err := svc.FailPayment(payment.ID, "again", nil); err != nil {
		t.Fatalf("repeated fail failed: %v", err)
	}
}

func TestFailPaymentNotFound(t *testing.T) {
	svc, _ := setupPaymentServiceTest(t)
	_, err := svc.FailPayment(9999, "missing", nil)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("want ErrPaymentNotFound got %v", err)
	}
}

func TestReconcilePaymentStatus(t *testing.T) {
	money := func(s string) models.Money {
		m, err := models.NewMoneyFromString(s)
		if err != nil {
			t.Fatalf("parse money failed: %v", err)
		}
		return m
	}

	tests := []struct {
		name string
		paid string
		want string
	}{
		{"nothing paid", "0", constants.OrderPaymentStatusPending},
		{"partially paid", "50.00", constants.OrderPaymentStatusPartial},
		{"fully paid", "100.00", constants.OrderPaymentStatusPaid},
		{"overpaid", "120.00", constants.OrderPaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcilePaymentStatus(money(tt.paid), money("100.00"))
			if got != tt.want {
				t.Fatalf("want %s got %s", tt.want, got)
			}
		})
	}
}
