package service

import (
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"gorm.io/gorm"
)

// ShipmentService 发货服务
type ShipmentService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	shipmentRepo  repository.ShipmentRepository
	inventoryRepo repository.InventoryRepository
	warehouseRepo repository.WarehouseRepository
	auditService  *AuditService
}

// NewShipmentService 创建发货服务
func NewShipmentService(db *gorm.DB, orderRepo repository.OrderRepository, shipmentRepo repository.ShipmentRepository, inventoryRepo repository.InventoryRepository, warehouseRepo repository.WarehouseRepository, auditService *AuditService) *ShipmentService {
	return &ShipmentService{
		db:            db,
		orderRepo:     orderRepo,
		shipmentRepo:  shipmentRepo,
		inventoryRepo: inventoryRepo,
		warehouseRepo: warehouseRepo,
		auditService:  auditService,
	}
}

// CreateShipmentInput 创建发货单输入
type CreateShipmentInput struct {
	OrderID        uint
	WarehouseID    uint
	Carrier        string
	TrackingNumber string
	Items          []CreateShipmentItem
	OperatorID     *uint
}

// CreateShipmentItem 发货明细输入
type CreateShipmentItem struct {
	OrderItemID uint
	Quantity    int
}

// CreateShipment 创建发货单。
// 发货明细显式关联订单项，扣减发货仓库存，并把待发货订单推进到 shipped。
func (s *ShipmentService) CreateShipment(input CreateShipmentInput) (*models.OrderShipment, error) {
	if input.OrderID == 0 || input.WarehouseID == 0 || len(input.Items) == 0 {
		return nil, ErrShipmentItemInvalid
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusDelivered {
		return nil, ErrOrderStatusInvalid
	}

	warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil || warehouse == nil {
		return nil, ErrWarehouseNotFound
	}

	orderItemMap := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItemMap[item.ID] = item
	}

	// 已有发货单占用的数量
	shippedQty := make(map[uint]int)
	for _, shipment := range order.Shipments {
		for _, item := range shipment.Items {
			shippedQty[item.OrderItemID] += item.Quantity
		}
	}

	now := time.Now()
	shipmentItems := make([]models.OrderShipmentItem, 0, len(input.Items))
	for _, item := range input.Items {
		orderItem, ok := orderItemMap[item.OrderItemID]
		if !ok || item.Quantity <= 0 {
			return nil, ErrShipmentItemInvalid
		}
		if shippedQty[item.OrderItemID]+item.Quantity > orderItem.Quantity {
			return nil, ErrShipmentItemInvalid
		}
		shipmentItems = append(shipmentItems, models.OrderShipmentItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			CreatedAt:   now,
		})
	}

	shipment := &models.OrderShipment{
		ShipmentNo:     generateShipmentNo(),
		OrderID:        order.ID,
		WarehouseID:    input.WarehouseID,
		Status:         constants.ShipmentStatusShipped,
		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		ShippedAt:      &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		shipmentRepo := s.shipmentRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		if err := shipmentRepo.Create(shipment, shipmentItems); err != nil {
			return err
		}

		itemIDs := make([]uint, 0, len(shipmentItems))
		for _, item := range shipmentItems {
			orderItem := orderItemMap[item.OrderItemID]
			if err := inventoryRepo.AdjustQuantity(orderItem.ProductID, input.WarehouseID, -item.Quantity); err != nil {
				return ErrStockInsufficient
			}
			if err := inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
				ProductID:   orderItem.ProductID,
				WarehouseID: input.WarehouseID,
				AdjustType:  constants.InventoryAdjustTypeShipment,
				Delta:       -item.Quantity,
				Reason:      "shipment " + shipment.ShipmentNo,
				AdjustedBy:  input.OperatorID,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
			itemIDs = append(itemIDs, item.OrderItemID)
		}

		if err := orderRepo.UpdateItemStatus(order.ID, itemIDs, constants.OrderItemStatusShipped); err != nil {
			return err
		}

		if order.Status == constants.OrderStatusPending {
			updates := map[string]interface{}{"updated_at": now}
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusShipped, updates); err != nil {
				return err
			}
			if err := orderRepo.AppendStatusHistory(&models.OrderStatusHistory{
				OrderID:    order.ID,
				FromStatus: order.Status,
				ToStatus:   constants.OrderStatusShipped,
				Note:       "shipment " + shipment.ShipmentNo + " created",
				ChangedBy:  input.OperatorID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == ErrStockInsufficient {
			return nil, ErrStockInsufficient
		}
		logger.Errorw("shipment_create_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "shipment", shipment.ID, models.JSON{
		"shipment_no": shipment.ShipmentNo,
		"order_no":    order.OrderNo,
	})
	return s.shipmentRepo.GetByID(shipment.ID)
}

// GetShipment 获取发货单详情
func (s *ShipmentService) GetShipment(id uint) (*models.OrderShipment, error) {
	shipment, err := s.shipmentRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if shipment == nil {
		return nil, ErrShipmentNotFound
	}
	return shipment, nil
}

// ListShipments 发货单列表
func (s *ShipmentService) ListShipments(filter repository.ShipmentListFilter) ([]models.OrderShipment, int64, error) {
	return s.shipmentRepo.List(filter)
}

// UpdateShipmentStatus 更新发货单状态。
// 标记 delivered 时联动订单项，并在订单全部明细签收后把订单推进到 delivered。
func (s *ShipmentService) UpdateShipmentStatus(shipmentID uint, toStatus string, operatorID *uint) (*models.OrderShipment, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if shipment == nil {
		return nil, ErrShipmentNotFound
	}

	toStatus = strings.ToLower(strings.TrimSpace(toStatus))
	if toStatus == shipment.Status {
		return shipment, nil
	}
	if shipment.Status != constants.ShipmentStatusShipped || toStatus != constants.ShipmentStatusDelivered {
		return nil, ErrShipmentStatusInvalid
	}

	order, err := s.orderRepo.GetByID(shipment.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		shipmentRepo := s.shipmentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		shipment.Status = constants.ShipmentStatusDelivered
		shipment.DeliveredAt = &now
		shipment.UpdatedAt = now
		if err := shipmentRepo.Update(shipment); err != nil {
			return err
		}

		itemIDs := make([]uint, 0, len(shipment.Items))
		for _, item := range shipment.Items {
			itemIDs = append(itemIDs, item.OrderItemID)
		}
		if err := orderRepo.UpdateItemStatus(order.ID, itemIDs, constants.OrderItemStatusDelivered); err != nil {
			return err
		}

		if !orderFullyDelivered(order, shipment) {
			return nil
		}
		if order.Status == constants.OrderStatusDelivered {
			return nil
		}
		updates := map[string]interface{}{"updated_at": now}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusDelivered, updates); err != nil {
			return err
		}
		return orderRepo.AppendStatusHistory(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   constants.OrderStatusDelivered,
			Note:       "all shipment items delivered",
			ChangedBy:  operatorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		logger.Errorw("shipment_status_update_failed", "shipment_id", shipment.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	return s.shipmentRepo.GetByID(shipmentID)
}

// orderFullyDelivered 判断本次签收后订单全部明细是否都已签收。
func orderFullyDelivered(order *models.Order, delivered *models.OrderShipment) bool {
	deliveredQty := make(map[uint]int)
	for _, shipment := range order.Shipments {
		status := shipment.Status
		if shipment.ID == delivered.ID {
			status = constants.ShipmentStatusDelivered
		}
		if status != constants.ShipmentStatusDelivered {
			continue
		}
		for _, item := range shipment.Items {
			deliveredQty[item.OrderItemID] += item.Quantity
		}
	}
	for _, item := range order.Items {
		if deliveredQty[item.ID] < item.Quantity {
			return false
		}
	}
	return len(order.Items) > 0
}
