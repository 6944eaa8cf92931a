package service

import (
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存服务
type InventoryService struct {
	db            *gorm.DB
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	auditService  *AuditService
}

// NewInventoryService 创建库存服务
func NewInventoryService(db *gorm.DB, inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository, auditService *AuditService) *InventoryService {
	return &InventoryService{
		db:            db,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		auditService:  auditService,
	}
}

// AdjustInput 人工调整库存输入
type AdjustInput struct {
	ProductID   uint
	WarehouseID uint
	Delta       int
	Reason      string
	OperatorID  *uint
}

// Adjust 人工调整某仓某商品库存。
func (s *InventoryService) Adjust(input AdjustInput) (*models.Inventory, error) {
	if input.Delta == 0 {
		return nil, ErrInventoryNotFound
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil || product == nil {
		return nil, ErrProductNotFound
	}
	warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, ErrWarehouseNotFound
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		if input.Delta > 0 {
			if err := restockInventory(inventoryRepo, input.ProductID, input.WarehouseID, input.Delta); err != nil {
				return err
			}
		} else if err := inventoryRepo.AdjustQuantity(input.ProductID, input.WarehouseID, input.Delta); err != nil {
			return ErrStockInsufficient
		}
		return inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
			ProductID:   input.ProductID,
			WarehouseID: input.WarehouseID,
			AdjustType:  constants.InventoryAdjustTypeManual,
			Delta:       input.Delta,
			Reason:      input.Reason,
			AdjustedBy:  input.OperatorID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		if err == ErrStockInsufficient {
			return nil, ErrStockInsufficient
		}
		logger.Errorw("inventory_adjust_failed",
			"product_id", input.ProductID,
			"warehouse_id", input.WarehouseID,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "inventory", input.ProductID, models.JSON{
		"warehouse_id": input.WarehouseID,
		"delta":        input.Delta,
	})
	return s.inventoryRepo.Get(input.ProductID, input.WarehouseID)
}

// TransferInput 跨仓调拨输入
type TransferInput struct {
	ProductID       uint
	FromWarehouseID uint
	ToWarehouseID   uint
	Quantity        int
	OperatorID      *uint
}

// Transfer 跨仓库调拨，扣出与回补在同一事务内完成。
func (s *InventoryService) Transfer(input TransferInput) error {
	if input.Quantity <= 0 || input.FromWarehouseID == input.ToWarehouseID {
		return ErrInventoryNotFound
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		if err := inventoryRepo.AdjustQuantity(input.ProductID, input.FromWarehouseID, -input.Quantity); err != nil {
			return ErrStockInsufficient
		}
		if err := restockInventory(inventoryRepo, input.ProductID, input.ToWarehouseID, input.Quantity); err != nil {
			return err
		}
		if err := inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
			ProductID:   input.ProductID,
			WarehouseID: input.FromWarehouseID,
			AdjustType:  constants.InventoryAdjustTypeManual,
			Delta:       -input.Quantity,
			Reason:      "transfer out",
			AdjustedBy:  input.OperatorID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
			ProductID:   input.ProductID,
			WarehouseID: input.ToWarehouseID,
			AdjustType:  constants.InventoryAdjustTypeManual,
			Delta:       input.Quantity,
			Reason:      "transfer in",
			AdjustedBy:  input.OperatorID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		if err == ErrStockInsufficient {
			return ErrStockInsufficient
		}
		logger.Errorw("inventory_transfer_failed", "product_id", input.ProductID, "error", err)
		return ErrOrderUpdateFailed
	}
	return nil
}

// List 库存列表
func (s *InventoryService) List(filter repository.InventoryListFilter) ([]models.Inventory, int64, error) {
	return s.inventoryRepo.List(filter)
}

// ListLowStock 获取低于阈值的库存行
func (s *InventoryService) ListLowStock(threshold int) ([]models.Inventory, error) {
	if threshold <= 0 {
		threshold = constants.LowStockDefault
	}
	return s.inventoryRepo.ListLowStock(threshold)
}

// ScanLowStock 巡检低库存并输出告警日志，由 worker 周期触发。
func (s *InventoryService) ScanLowStock(threshold int) (int, error) {
	rows, err := s.ListLowStock(threshold)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		sku := ""
		if row.Product != nil {
			sku = row.Product.SKU
		}
		logger.Warnw("inventory_low_stock",
			"product_id", row.ProductID,
			"sku", sku,
			"warehouse_id", row.WarehouseID,
			"available", row.Available(),
		)
	}
	return len(rows), nil
}
