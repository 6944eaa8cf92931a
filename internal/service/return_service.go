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

// ReturnService 退货服务
type ReturnService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	returnRepo    repository.ReturnRepository
	inventoryRepo repository.InventoryRepository
	auditService  *AuditService
}

// NewReturnService 创建退货服务
func NewReturnService(db *gorm.DB, orderRepo repository.OrderRepository, returnRepo repository.ReturnRepository, inventoryRepo repository.InventoryRepository, auditService *AuditService) *ReturnService {
	return &ReturnService{
		db:            db,
		orderRepo:     orderRepo,
		returnRepo:    returnRepo,
		inventoryRepo: inventoryRepo,
		auditService:  auditService,
	}
}

// RequestReturnInput 申请退货输入
type RequestReturnInput struct {
	OrderID    uint
	Reason     string
	Items      []RequestReturnItem
	OperatorID *uint
}

// RequestReturnItem 退货明细输入
type RequestReturnItem struct {
	OrderItemID uint
	Quantity    int
	Condition   string
}

// returnTransitions 退货单状态流转表
var returnTransitions = map[string]map[string]bool{
	constants.ReturnStatusRequested: {
		constants.ReturnStatusApproved: true,
		constants.ReturnStatusRejected: true,
	},
	constants.ReturnStatusApproved: {
		constants.ReturnStatusReceived: true,
	},
	constants.ReturnStatusReceived: {
		constants.ReturnStatusRefunded: true,
	},
}

// RequestReturn 申请退货，仅已发货或已签收的订单可退。
func (s *ReturnService) RequestReturn(input RequestReturnInput) (*models.ReturnOrder, error) {
	if input.OrderID == 0 || len(input.Items) == 0 {
		return nil, ErrReturnItemInvalid
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusShipped && order.Status != constants.OrderStatusDelivered {
		return nil, ErrReturnOrderNotReturnable
	}

	orderItemMap := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItemMap[item.ID] = item
	}

	// 已有退货单占用的数量，被驳回的不计
	priorReturns, err := s.returnRepo.ListByOrder(order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	returnedQty := make(map[uint]int)
	for _, prior := range priorReturns {
		if prior.Status == constants.ReturnStatusRejected {
			continue
		}
		for _, item := range prior.Items {
			returnedQty[item.OrderItemID] += item.Quantity
		}
	}

	now := time.Now()
	refund := decimal.Zero
	returnItems := make([]models.ReturnItem, 0, len(input.Items))
	for _, item := range input.Items {
		orderItem, ok := orderItemMap[item.OrderItemID]
		if !ok || item.Quantity <= 0 {
			return nil, ErrReturnItemInvalid
		}
		if returnedQty[item.OrderItemID]+item.Quantity > orderItem.Quantity {
			return nil, ErrReturnItemInvalid
		}
		returnedQty[item.OrderItemID] += item.Quantity
		lineRefund := orderItem.UnitPrice.Decimal.
			Sub(orderItem.DiscountAmount.Decimal).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		refund = refund.Add(lineRefund)
		returnItems = append(returnItems, models.ReturnItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Condition:   item.Condition,
			CreatedAt:   now,
		})
	}

	ret := &models.ReturnOrder{
		ReturnNo:     generateReturnNo(),
		OrderID:      order.ID,
		Status:       constants.ReturnStatusRequested,
		Reason:       input.Reason,
		RefundAmount: models.NewMoneyFromDecimal(refund),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.returnRepo.WithTx(tx).Create(ret, returnItems)
	})
	if err != nil {
		logger.Errorw("return_request_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "return", ret.ID, models.JSON{
		"return_no": ret.ReturnNo,
		"order_no":  order.OrderNo,
	})
	return s.returnRepo.GetByID(ret.ID)
}

// GetReturn 获取退货单详情
func (s *ReturnService) GetReturn(id uint) (*models.ReturnOrder, error) {
	ret, err := s.returnRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}
	return ret, nil
}

// ListReturns 退货单列表
func (s *ReturnService) ListReturns(filter repository.ReturnListFilter) ([]models.ReturnOrder, int64, error) {
	return s.returnRepo.List(filter)
}

// UpdateReturnStatusInput 更新退货单状态输入
type UpdateReturnStatusInput struct {
	ReturnID    uint
	ToStatus    string
	WarehouseID uint
	OperatorID  *uint
}

// UpdateReturnStatus 推进退货单状态。
// received 时把退货数量回补指定仓库库存，refunded 时只做记账。
func (s *ReturnService) UpdateReturnStatus(input UpdateReturnStatusInput) (*models.ReturnOrder, error) {
	ret, err := s.returnRepo.GetByID(input.ReturnID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if ret == nil {
		return nil, ErrReturnNotFound
	}

	toStatus := strings.ToLower(strings.TrimSpace(input.ToStatus))
	if toStatus == ret.Status {
		return ret, nil
	}
	if nexts, ok := returnTransitions[ret.Status]; !ok || !nexts[toStatus] {
		return nil, ErrReturnStatusInvalid
	}
	if toStatus == constants.ReturnStatusReceived && input.WarehouseID == 0 {
		return nil, ErrWarehouseNotFound
	}

	order, err := s.orderRepo.GetByID(ret.OrderID)
	if err != nil || order == nil {
		return nil, ErrOrderFetchFailed
	}
	orderItemMap := make(map[uint]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItemMap[item.ID] = item
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		returnRepo := s.returnRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		switch toStatus {
		case constants.ReturnStatusApproved:
			ret.ApprovedBy = input.OperatorID
			ret.ApprovedAt = &now
		case constants.ReturnStatusReceived:
			ret.WarehouseID = &input.WarehouseID
			ret.ReceivedAt = &now
			itemIDs := make([]uint, 0, len(ret.Items))
			for _, item := range ret.Items {
				orderItem, ok := orderItemMap[item.OrderItemID]
				if !ok {
					return ErrReturnItemInvalid
				}
				if err := restockInventory(inventoryRepo, orderItem.ProductID, input.WarehouseID, item.Quantity); err != nil {
					return err
				}
				if err := inventoryRepo.RecordAdjustment(&models.InventoryAdjustment{
					ProductID:   orderItem.ProductID,
					WarehouseID: input.WarehouseID,
					AdjustType:  constants.InventoryAdjustTypeReturn,
					Delta:       item.Quantity,
					Reason:      "return " + ret.ReturnNo,
					AdjustedBy:  input.OperatorID,
					CreatedAt:   now,
				}); err != nil {
					return err
				}
				itemIDs = append(itemIDs, item.OrderItemID)
			}
			if err := orderRepo.UpdateItemStatus(order.ID, itemIDs, constants.OrderItemStatusReturned); err != nil {
				return err
			}
		case constants.ReturnStatusRefunded:
			ret.RefundedAt = &now
		}

		ret.Status = toStatus
		ret.UpdatedAt = now
		return returnRepo.Update(ret)
	})
	if err != nil {
		logger.Errorw("return_status_update_failed", "return_id", ret.ID, "to", toStatus, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionUpdate, "return", ret.ID, models.JSON{
		"return_no": ret.ReturnNo,
		"status":    toStatus,
	})
	return s.returnRepo.GetByID(ret.ID)
}

// restockInventory 回补库存，库存行不存在时先建行。
func restockInventory(inventoryRepo repository.InventoryRepository, productID, warehouseID uint, quantity int) error {
	row, err := inventoryRepo.Get(productID, warehouseID)
	if err != nil {
		return err
	}
	if row == nil {
		return inventoryRepo.Upsert(&models.Inventory{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    quantity,
		})
	}
	return inventoryRepo.AdjustQuantity(productID, warehouseID, quantity)
}
