package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCustomerServiceTest(t *testing.T) *CustomerService {
	t.Helper()
	dsn := fmt.Sprintf("file:customer_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.AuditLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCustomerService(
		repository.NewCustomerRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
}

func TestCreateCustomerNormalizesEmail(t *testing.T) {
	svc := setupCustomerServiceTest(t)

	customer, err := svc.CreateCustomer(CustomerInput{
		Name:  "Acme Corp",
		Email: " Sales@Acme.COM ",
	})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	if customer.Email != "sales@acme.com" {
		t.Fatalf("email want sales@acme.com got %s", customer.Email)
	}
	if !customer.IsActive {
		t.Fatalf("customer should default to active")
	}
}

func TestCreateCustomerRejectsDuplicateEmail(t *testing.T) {
	svc := setupCustomerServiceTest(t)

	if _, err := svc.CreateCustomer(CustomerInput{Name: "First", Email: "dup@example.com"}); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	// 大小写不同也算重复
	_, err := svc.CreateCustomer(CustomerInput{Name: "Second", Email: "DUP@example.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken got %v", err)
	}
}

func TestCreateCustomerRejectsMalformedEmail(t *testing.T) {
	svc := setupCustomerServiceTest(t)

	_, err := svc.CreateCustomer(CustomerInput{Name: "Bad", Email: "not-an-email"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken got %v", err)
	}
}

func TestUpdateCustomerRejectsTakenEmail(t *testing.T) {
	svc := setupCustomerServiceTest(t)

	if _, err := svc.CreateCustomer(CustomerInput{Name: "First", Email: "one@example.com"}); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	second, err := svc.CreateCustomer(CustomerInput{Name: "Second", Email: "two@example.com"})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	_, err = svc.UpdateCustomer(second.ID, CustomerInput{Email: "one@example.com"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken got %v", err)
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc := setupCustomerServiceTest(t)
	if err := svc.DeleteCustomer(9999, nil); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("want ErrCustomerNotFound got %v", err)
	}
}
