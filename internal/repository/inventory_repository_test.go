package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/inventrack/inventrack/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInventoryRepositoryTest(t *testing.T) (*GormInventoryRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Warehouse{},
		&models.Inventory{},
		&models.InventoryAdjustment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewInventoryRepository(db), db
}

func createInventoryFixture(t *testing.T, db *gorm.DB, sku string, quantity, reserved, lowStock int) (models.Product, models.Warehouse) {
	t.Helper()
	product := models.Product{
		SKU:       sku,
		Name:      "Widget " + sku,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CostPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(6)),
		IsActive:  true,
		LowStock:  lowStock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	warehouse := models.Warehouse{
		Code:     "WH-" + sku,
		Name:     "Warehouse " + sku,
		IsActive: true,
	}
	if err := db.Create(&warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	inventory := models.Inventory{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Quantity:    quantity,
		Reserved:    reserved,
	}
	if err := db.Create(&inventory).Error; err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	return product, warehouse
}

func TestInventoryRepositoryAdjustQuantity(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	product, warehouse := createInventoryFixture(t, db, "ADJ001", 20, 0, 5)

	if err := repo.AdjustQuantity(product.ID, warehouse.ID, -8); err != nil {
		t.Fatalf("adjust quantity failed: %v", err)
	}

	row, err := repo.Get(product.ID, warehouse.ID)
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if row == nil {
		t.Fatalf("inventory row missing")
	}
	if row.Quantity != 12 {
		t.Fatalf("quantity want 12 got %d", row.Quantity)
	}
}

func TestInventoryRepositoryAdjustQuantityRejectsNegativeResult(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	product, warehouse := createInventoryFixture(t, db, "ADJ002", 3, 0, 5)

	err := repo.AdjustQuantity(product.ID, warehouse.ID, -5)
	if err == nil {
		t.Fatalf("expected adjust below zero to fail")
	}

	row, err := repo.Get(product.ID, warehouse.ID)
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if row.Quantity != 3 {
		t.Fatalf("quantity should be unchanged, got %d", row.Quantity)
	}
}

func TestInventoryRepositoryListLowStock(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	createInventoryFixture(t, db, "LOW001", 2, 0, 5)
	createInventoryFixture(t, db, "OK001", 50, 0, 5)

	rows, err := repo.ListLowStock(5)
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("low stock rows want 1 got %d", len(rows))
	}
	if rows[0].Product == nil || rows[0].Product.SKU != "LOW001" {
		t.Fatalf("unexpected low stock product: %+v", rows[0].Product)
	}
}

func TestInventoryRepositoryTotalQuantityByProduct(t *testing.T) {
	repo, db := setupInventoryRepositoryTest(t)
	product, _ := createInventoryFixture(t, db, "SUM001", 7, 0, 5)

	secondWarehouse := models.Warehouse{Code: "WH-SUM-2", Name: "Second", IsActive: true}
	if err := db.Create(&secondWarehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	if err := db.Create(&models.Inventory{
		ProductID:   product.ID,
		WarehouseID: secondWarehouse.ID,
		Quantity:    13,
	}).Error; err != nil {
		t.Fatalf("create second inventory failed: %v", err)
	}

	total, err := repo.TotalQuantityByProduct(product.ID)
	if err != nil {
		t.Fatalf("total quantity failed: %v", err)
	}
	if total != 20 {
		t.Fatalf("total want 20 got %d", total)
	}
}
