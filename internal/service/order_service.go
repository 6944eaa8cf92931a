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

// OrderService 订单服务
type OrderService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	auditService *AuditService
	taxRate      decimal.Decimal
	shippingFee  models.Money
	currency     string
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, productRepo repository.ProductRepository, auditService *AuditService, taxRatePercent int, flatShippingFee string, currency string) *OrderService {
	shipping, err := models.NewMoneyFromString(flatShippingFee)
	if err != nil {
		shipping = models.NewMoneyFromDecimal(decimal.Zero)
	}
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		auditService: auditService,
		taxRate:      decimal.NewFromInt(int64(taxRatePercent)).Div(decimal.NewFromInt(100)),
		shippingFee:  shipping,
		currency:     currency,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID      uint
	Items           []CreateOrderItem
	ShippingAddress string
	BillingAddress  string
	Notes           string
	OperatorID      *uint
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID      uint
	VariantID      *uint
	Quantity       int
	DiscountAmount string
}

// allowedTransitions 订单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func canTransition(from, to string) bool {
	nexts, ok := allowedTransitions[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return false
	}
	return nexts[strings.ToLower(strings.TrimSpace(to))]
}

// CreateOrder 创建订单，校验、计价与落库在同一事务内完成。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == 0 || len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	merged, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(merged))
	variantIDs := make([]uint, 0, len(merged))
	for _, item := range merged {
		productIDs = append(productIDs, item.ProductID)
		if item.VariantID != nil {
			variantIDs = append(variantIDs, *item.VariantID)
		}
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	productMap := make(map[uint]models.Product, len(products))
	for _, product := range products {
		productMap[product.ID] = product
	}
	variants, err := s.productRepo.ListVariantsByIDs(variantIDs)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	variantMap := make(map[uint]models.ProductVariant, len(variants))
	for _, variant := range variants {
		variantMap[variant.ID] = variant
	}

	now := time.Now()
	subTotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(merged))
	for _, item := range merged {
		product, ok := productMap[item.ProductID]
		if !ok {
			// 任一商品不存在则整单拒绝
			return nil, ErrProductNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}

		// 指定规格的行按规格计价
		unit := product.UnitPrice.Decimal
		sku := product.SKU
		if item.VariantID != nil {
			variant, ok := variantMap[*item.VariantID]
			if !ok || variant.ProductID != product.ID {
				return nil, ErrVariantNotFound
			}
			if !variant.IsActive {
				return nil, ErrProductInactive
			}
			unit = variant.UnitPrice.Decimal
			sku = variant.SKU
		}

		discount := decimal.Zero
		if strings.TrimSpace(item.DiscountAmount) != "" {
			discount, err = decimal.NewFromString(item.DiscountAmount)
			if err != nil || discount.IsNegative() {
				return nil, ErrInvalidOrderItem
			}
		}
		if discount.GreaterThan(unit) {
			return nil, ErrInvalidOrderItem
		}
		lineTotal := unit.Sub(discount).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subTotal = subTotal.Add(lineTotal)

		orderItems = append(orderItems, models.OrderItem{
			ProductID:      product.ID,
			VariantID:      item.VariantID,
			SKU:            sku,
			ProductName:    product.Name,
			Quantity:       item.Quantity,
			UnitPrice:      models.NewMoneyFromDecimal(unit),
			DiscountAmount: models.NewMoneyFromDecimal(discount),
			TotalPrice:     models.NewMoneyFromDecimal(lineTotal),
			Status:         constants.OrderItemStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	taxAmount := subTotal.Mul(s.taxRate).Round(2)
	totalAmount := subTotal.Add(taxAmount).Add(s.shippingFee.Decimal)

	order := &models.Order{
		OrderNo:         generateOrderNo(),
		CustomerID:      customer.ID,
		Status:          constants.OrderStatusPending,
		PaymentStatus:   constants.OrderPaymentStatusPending,
		SubTotal:        models.NewMoneyFromDecimal(subTotal),
		TaxAmount:       models.NewMoneyFromDecimal(taxAmount),
		ShippingAmount:  s.shippingFee,
		DiscountAmount:  models.NewMoneyFromDecimal(decimal.Zero),
		TotalAmount:     models.NewMoneyFromDecimal(totalAmount),
		Currency:        s.currency,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Create(order, orderItems); err != nil {
			return err
		}
		history := &models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: "",
			ToStatus:   constants.OrderStatusPending,
			Note:       "order created",
			ChangedBy:  input.OperatorID,
			CreatedAt:  now,
		}
		return repo.AppendStatusHistory(history)
	})
	if err != nil {
		logger.Errorw("order_create_failed", "customer_id", input.CustomerID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "order", order.ID, models.JSON{
		"order_no": order.OrderNo,
		"total":    order.TotalAmount.String(),
	})

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListStatusHistory 获取订单状态历史
func (s *OrderService) ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.orderRepo.ListStatusHistory(orderID)
}

// UpdateStatus 按流转表更新订单状态，仅在状态实际变化时追加历史。
func (s *OrderService) UpdateStatus(orderID uint, toStatus, note string, operatorID *uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	toStatus = strings.ToLower(strings.TrimSpace(toStatus))
	if toStatus == order.Status {
		// 状态未变化，不追加历史
		return order, nil
	}
	if !canTransition(order.Status, toStatus) {
		return nil, ErrOrderStatusInvalid
	}

	if err := s.transitionStatus(order, toStatus, note, operatorID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(orderID)
}

// CancelOrder 取消订单，已发货或已签收的订单拒绝取消。
func (s *OrderService) CancelOrder(orderID uint, note string, operatorID *uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return order, nil
	}
	if order.Status == constants.OrderStatusShipped || order.Status == constants.OrderStatusDelivered {
		return nil, ErrOrderCancelNotAllowed
	}

	if err := s.transitionStatus(order, constants.OrderStatusCancelled, note, operatorID); err != nil {
		return nil, err
	}

	s.auditService.Record(operatorID, constants.AuditActionUpdate, "order", order.ID, models.JSON{
		"order_no": order.OrderNo,
		"status":   constants.OrderStatusCancelled,
	})
	return s.orderRepo.GetByID(orderID)
}

// transitionStatus 事务内写状态并追加历史
func (s *OrderService) transitionStatus(order *models.Order, toStatus, note string, operatorID *uint) error {
	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{"updated_at": now}
		if toStatus == constants.OrderStatusCancelled {
			updates["cancelled_at"] = now
		}
		if err := repo.UpdateStatus(order.ID, toStatus, updates); err != nil {
			return err
		}
		return repo.AppendStatusHistory(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   toStatus,
			Note:       note,
			ChangedBy:  operatorID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		logger.Errorw("order_status_update_failed",
			"order_id", order.ID,
			"from", order.Status,
			"to", toStatus,
			"error", err,
		)
		return ErrOrderUpdateFailed
	}
	return nil
}

// orderLineKey 下单项合并键，商品、规格与折扣都一致才视为同一行
type orderLineKey struct {
	productID uint
	variantID uint
	discount  string
}

// mergeCreateOrderItems 合并重复的下单项，折扣或规格不同的行各自独立计价
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	merged := make([]CreateOrderItem, 0, len(items))
	indexMap := make(map[orderLineKey]int)
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidOrderItem
		}
		key := orderLineKey{
			productID: item.ProductID,
			discount:  strings.TrimSpace(item.DiscountAmount),
		}
		if item.VariantID != nil {
			key.variantID = *item.VariantID
		}
		if idx, ok := indexMap[key]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		indexMap[key] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}
