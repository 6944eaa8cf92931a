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

func setupInventoryServiceTest(t *testing.T) (*InventoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Warehouse{},
		&models.Zone{},
		&models.Location{},
		&models.Inventory{},
		&models.InventoryAdjustment{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewInventoryService(
		db,
		repository.NewInventoryRepository(db),
		repository.NewProductRepository(db),
		repository.NewWarehouseRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
	return svc, db
}

func createInventoryTestRow(t *testing.T, db *gorm.DB, sku string, quantity int) (models.Product, models.Warehouse) {
	t.Helper()
	product := createOrderProduct(t, db, sku, "10.00", true)
	warehouse := models.Warehouse{
		Code:     "WH-" + sku,
		Name:     "Warehouse " + sku,
		IsActive: true,
	}
	if err := db.Create(&warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	if quantity >= 0 {
		if err := db.Create(&models.Inventory{
			ProductID:   product.ID,
			WarehouseID: warehouse.ID,
			Quantity:    quantity,
		}).Error; err != nil {
			t.Fatalf("create inventory failed: %v", err)
		}
	}
	return product, warehouse
}

func TestInventoryAdjustPositiveDelta(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, warehouse := createInventoryTestRow(t, db, "INV-UP", 5)

	row, err := svc.Adjust(AdjustInput{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Delta:       7,
		Reason:      "cycle count",
	})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if row.Quantity != 12 {
		t.Fatalf("quantity want 12 got %d", row.Quantity)
	}

	var adjustment models.InventoryAdjustment
	if err := db.Where("product_id = ?", product.ID).First(&adjustment).Error; err != nil {
		t.Fatalf("load adjustment failed: %v", err)
	}
	if adjustment.Delta != 7 || adjustment.AdjustType != constants.InventoryAdjustTypeManual {
		t.Fatalf("unexpected adjustment: %+v", adjustment)
	}
	if adjustment.Reason != "cycle count" {
		t.Fatalf("reason want cycle count got %s", adjustment.Reason)
	}
}

func TestInventoryAdjustCreatesMissingRow(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, warehouse := createInventoryTestRow(t, db, "INV-NEW", -1)

	row, err := svc.Adjust(AdjustInput{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Delta:       4,
		Reason:      "initial stock",
	})
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if row.Quantity != 4 {
		t.Fatalf("quantity want 4 got %d", row.Quantity)
	}
}

func TestInventoryAdjustRejectsBelowZero(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, warehouse := createInventoryTestRow(t, db, "INV-NEG", 3)

	_, err := svc.Adjust(AdjustInput{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Delta:       -5,
		Reason:      "shrinkage",
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("want ErrStockInsufficient got %v", err)
	}
}

func TestInventoryAdjustRejectsUnknownProduct(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	_, warehouse := createInventoryTestRow(t, db, "INV-NOPROD", 3)

	_, err := svc.Adjust(AdjustInput{
		ProductID:   9999,
		WarehouseID: warehouse.ID,
		Delta:       1,
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestInventoryTransferMovesStock(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, from := createInventoryTestRow(t, db, "INV-FROM", 10)
	to := models.Warehouse{Code: "WH-TO", Name: "Destination", IsActive: true}
	if err := db.Create(&to).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}

	if err := svc.Transfer(TransferInput{
		ProductID:       product.ID,
		FromWarehouseID: from.ID,
		ToWarehouseID:   to.ID,
		Quantity:        6,
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	var fromRow, toRow models.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", product.ID, from.ID).First(&fromRow).Error; err != nil {
		t.Fatalf("load source row failed: %v", err)
	}
	if err := db.Where("product_id = ? AND warehouse_id = ?", product.ID, to.ID).First(&toRow).Error; err != nil {
		t.Fatalf("load destination row failed: %v", err)
	}
	if fromRow.Quantity != 4 || toRow.Quantity != 6 {
		t.Fatalf("quantities want 4/6 got %d/%d", fromRow.Quantity, toRow.Quantity)
	}

	var count int64
	if err := db.Model(&models.InventoryAdjustment{}).Where("product_id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count adjustments failed: %v", err)
	}
	// 调出与调入各一条
	if count != 2 {
		t.Fatalf("adjustments want 2 got %d", count)
	}
}

func TestInventoryTransferRejectsInsufficientStock(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, from := createInventoryTestRow(t, db, "INV-SHORT", 2)
	to := models.Warehouse{Code: "WH-TO-2", Name: "Destination", IsActive: true}
	if err := db.Create(&to).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}

	err := svc.Transfer(TransferInput{
		ProductID:       product.ID,
		FromWarehouseID: from.ID,
		ToWarehouseID:   to.ID,
		Quantity:        5,
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("want ErrStockInsufficient got %v", err)
	}

	// 回滚后两边都不变
	var fromRow models.Inventory
	if err := db.Where("product_id = ? AND warehouse_id = ?", product.ID, from.ID).First(&fromRow).Error; err != nil {
		t.Fatalf("load source row failed: %v", err)
	}
	if fromRow.Quantity != 2 {
		t.Fatalf("source quantity want 2 got %d", fromRow.Quantity)
	}
}

func TestInventoryTransferRejectsSameWarehouse(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)
	product, from := createInventoryTestRow(t, db, "INV-SAME", 5)

	err := svc.Transfer(TransferInput{
		ProductID:       product.ID,
		FromWarehouseID: from.ID,
		ToWarehouseID:   from.ID,
		Quantity:        1,
	})
	if !errors.Is(err, ErrInventoryNotFound) {
		t.Fatalf("want ErrInventoryNotFound got %v", err)
	}
}

func TestInventoryScanLowStock(t *testing.T) {
	svc, db := setupInventoryServiceTest(t)

	low := createOrderProduct(t, db, "INV-LOW", "10.00", true)
	low.LowStock = 5
	if err := db.Save(&low).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	warehouse := models.Warehouse{Code: "WH-SCAN", Name: "Scan", IsActive: true}
	if err := db.Create(&warehouse).Error; err != nil {
		t.Fatalf("create warehouse failed: %v", err)
	}
	if err := db.Create(&models.Inventory{
		ProductID:   low.ID,
		WarehouseID: warehouse.ID,
		Quantity:    2,
	}).Error; err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}

	count, err := svc.ScanLowStock(5)
	if err != nil {
		t.Fatalf("scan low stock failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("low stock count want 1 got %d", count)
	}
}
