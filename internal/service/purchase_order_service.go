package service

import (
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderService 采购服务
type PurchaseOrderService struct {
	db            *gorm.DB
	poRepo        repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	auditService  *AuditService
}

// NewPurchaseOrderService 创建采购服务
func NewPurchaseOrderService(db *gorm.DB, poRepo repository.PurchaseOrderRepository, supplierRepo repository.SupplierRepository, warehouseRepo repository.WarehouseRepository, productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository, auditService *AuditService) *PurchaseOrderService {
	return &PurchaseOrderService{
		db:            db,
		poRepo:        poRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditService:  auditService,
	}
}

// CreatePurchaseOrderInput 创建采购单输入
type CreatePurchaseOrderInput struct {
	SupplierID  uint
	WarehouseID uint
	Notes       string
	Items       []CreatePurchaseOrderItem
	OperatorID  *uint
}

// CreatePurchaseOrderItem 采购项输入
type CreatePurchaseOrderItem struct {
	ProductID uint
	Quantity  int
	UnitCost  string
}

// purchaseTransitions 采购单状态流转表
var purchaseTransitions = map[string]map[string]bool{
	constants.PurchaseOrderStatusDraft: {
		constants.PurchaseOrderStatusPlaced:    true,
		constants.PurchaseOrderStatusCancelled: true,
	},
	constants.PurchaseOrderStatusPlaced: {
		constants.PurchaseOrderStatusReceived:  true,
		constants.PurchaseOrderStatusCancelled: true,
	},
}

// CreatePurchaseOrder 创建采购单
func (s *PurchaseOrderService) CreatePurchaseOrder(input CreatePurchaseOrderInput) (*models.PurchaseOrder, error) {
	if input.SupplierID == 0 || input.WarehouseID == 0 || len(input.Items) == 0 {
		return nil, ErrPurchaseOrderNotFound
	}
	supplier, err := s.supplierRepo.GetByID(input.SupplierID)
	if err != nil || supplier == nil {
		return nil, ErrSupplierNotFound
	}
	warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, ErrWarehouseNotFound
	}

	now := time.Now()
	total := decimal.Zero
	poItems := make([]models.PurchaseOrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, ErrProductNotFound
		}
		unitCost, err := decimal.NewFromString(item.UnitCost)
		if err != nil || unitCost.IsNegative() {
			return nil, ErrInvalidOrderItem
		}
		lineCost := unitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineCost)
		poItems = append(poItems, models.PurchaseOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  models.NewMoneyFromDecimal(unitCost),
			TotalCost: models.NewMoneyFromDecimal(lineCost),
			CreatedAt: now,
		})
	}

	po := &models.PurchaseOrder{
		PONumber:    generatePurchaseOrderNo(),
		SupplierID:  input.SupplierID,
		WarehouseID: input.WarehouseID,
		Status:      constants.PurchaseOrderStatusDraft,
		TotalAmount: models.NewMoneyFromDecimal(total),
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.poRepo.WithTx(tx).Create(po, poItems)
	})
	if err != nil {
		logger.Errorw("purchase_order_create_failed", "supplier_id", input.SupplierID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "purchase_order", po.ID, models.JSON{
		"po_number": po.PONumber,
	})
	return s.poRepo.GetByID(po.ID)
}

// GetPurchaseOrder 获取采购单详情
func (s *PurchaseOrderService) GetPurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, ErrPurchaseOrderNotFound
	}
	return po, nil
}

// ListPurchaseOrders 采购单列表
func (s *PurchaseOrderService) ListPurchaseOrders(filter repository.PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	return s.poRepo.List(filter)
}

// UpdatePurchaseOrderStatus 推进采购单状态，收货时回补采购仓库存。
func (s *PurchaseOrderService) UpdatePurchaseOrderStatus(id uint, toStatus string, operatorID *uint) (*models.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, ErrPurchaseOrderNotFound
	}

	toStatus = strings.ToLower(strings.TrimSpace(toStatus))
	if toStatus == po.Status {
		return po, nil
	}
	if nexts, ok := purchaseTransitions[po.Status]; !ok || !nexts[toStatus] {
		return nil, ErrPurchaseStatusInvalid
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		poRepo := s.poRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		switch toStatus {
		case constants.PurchaseOrderStatusPlaced:
			po.OrderedAt = &now
		case constants.PurchaseOrderStatusReceived:
			po.ReceivedAt = &now
			for _, item := range po.Items {
				if err := restockInventory(inventoryRepo, item.ProductID, po.WarehouseID, item.Quantity); err != nil {
					return err
				}
				if err := inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
					ProductID:   item.ProductID,
					WarehouseID: po.WarehouseID,
					AdjustType:  constants.InventoryAdjustTypePurchase,
					Delta:       item.Quantity,
					Reason:      "purchase " + po.PONumber,
					AdjustedBy:  operatorID,
					CreatedAt:   now,
				}); err != nil {
					return err
				}
			}
		}

		po.Status = toStatus
		po.UpdatedAt = now
		return poRepo.Update(po)
	})
	if err != nil {
		logger.Errorw("purchase_order_status_update_failed", "po_id", po.ID, "to", toStatus, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(operatorID, constants.AuditActionUpdate, "purchase_order", po.ID, models.JSON{
		"po_number": po.PONumber,
		"status":    toStatus,
	})
	return s.poRepo.GetByID(po.ID)
}

// DeletePurchaseOrder 删除采购单，已收货的采购单拒绝删除。
func (s *PurchaseOrderService) DeletePurchaseOrder(id uint, operatorID *uint) error {
	po, err := s.poRepo.GetByID(id)
	if err != nil {
		return err
	}
	if po == nil {
		return ErrPurchaseOrderNotFound
	}
	if po.Status == constants.PurchaseOrderStatusReceived {
		return ErrPurchaseStatusInvalid
	}
	if err := s.db.Delete(&models.PurchaseOrder{}, id).Error; err != nil {
		return err
	}
	s.auditService.Record(operatorID, constants.AuditActionDelete, "purchase_order", id, models.JSON{
		"po_number": po.PONumber,
	})
	return nil
}
