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

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
	return svc, db
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	if _, err := svc.CreateProduct(ProductInput{
		SKU:       "SKU-DUP",
		Name:      "First",
		UnitPrice: "9.99",
	}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := svc.CreateProduct(ProductInput{
		SKU:       "SKU-DUP",
		Name:      "Second",
		UnitPrice: "19.99",
	})
	if !errors.Is(err, ErrSKUTaken) {
		t.Fatalf("want ErrSKUTaken got %v", err)
	}
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	svc, _ := setupProductServiceTest(t)
	categoryID := uint(9999)

	_, err := svc.CreateProduct(ProductInput{
		SKU:        "SKU-NOCAT",
		Name:       "Orphan",
		UnitPrice:  "9.99",
		CategoryID: &categoryID,
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("want ErrCategoryNotFound got %v", err)
	}
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	for _, price := range []string{"", "-1.00", "abc"} {
		_, err := svc.CreateProduct(ProductInput{
			SKU:       "SKU-BADPRICE",
			Name:      "Bad",
			UnitPrice: price,
		})
		if !errors.Is(err, ErrInvalidOrderItem) {
			t.Fatalf("price %q: want ErrInvalidOrderItem got %v", price, err)
		}
	}
}

func TestUpdateProductChangesFields(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	created, err := svc.CreateProduct(ProductInput{
		SKU:       "SKU-UPD",
		Name:      "Original",
		UnitPrice: "9.99",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	inactive := false
	updated, err := svc.UpdateProduct(created.ID, ProductInput{
		Name:      "Renamed",
		UnitPrice: "12.50",
		IsActive:  &inactive,
	})
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name want Renamed got %s", updated.Name)
	}
	if got := updated.UnitPrice.String(); got != "12.50" {
		t.Fatalf("unit price want 12.50 got %s", got)
	}
	if updated.IsActive {
		t.Fatalf("product should be inactive")
	}
	// 未传的字段保持原值
	if updated.SKU != "SKU-UPD" {
		t.Fatalf("sku should be unchanged, got %s", updated.SKU)
	}
}

func TestCreateCategoryRejectsDuplicateSlug(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	if _, err := svc.CreateCategory(CategoryInput{Slug: "electronics", Name: "电子产品"}); err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	_, err := svc.CreateCategory(CategoryInput{Slug: "electronics", Name: "重复"})
	if !errors.Is(err, ErrCategorySlugTaken) {
		t.Fatalf("want ErrCategorySlugTaken got %v", err)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := setupProductServiceTest(t)
	if err := svc.DeleteProduct(9999, nil); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}
