package service

import (
	"time"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	auditService *AuditService
}

// NewPaymentService 创建支付服务
func NewPaymentService(db *gorm.DB, orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, auditService *AuditService) *PaymentService {
	return &PaymentService{
		db:           db,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		auditService: auditService,
	}
}

// RecordPaymentInput 登记支付输入
type RecordPaymentInput struct {
	OrderID     uint
	Method      string
	Amount      string
	ReferenceNo string
	OperatorID  *uint
}

// RecordPayment 登记一笔已完成支付并重算订单支付状态。
func (s *PaymentService) RecordPayment(input RecordPaymentInput) (*models.PaymentRecord, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStatusInvalid
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrPaymentAmountInvalid
	}

	paid, err := s.paymentRepo.SumCompletedByOrder(order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if paid.Decimal.Add(amount).GreaterThan(order.TotalAmount.Decimal) {
		return nil, ErrPaymentExceedsTotal
	}

	now := time.Now()
	payment := &models.PaymentRecord{
		PaymentNo: generatePaymentNo(),
		OrderID:   order.ID,
		Method:    input.Method,
		Amount:    models.NewMoneyFromDecimal(amount),
		Currency:  order.Currency,
		Status:    constants.PaymentStatusCompleted,
		ReferenceNo: input.ReferenceNo,
		PaidAt:    &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		total, err := paymentRepo.SumCompletedByOrder(order.ID)
		if err != nil {
			return err
		}
		return orderRepo.UpdatePaymentStatus(order.ID, reconcilePaymentStatus(total, order.TotalAmount))
	})
	if err != nil {
		logger.Errorw("payment_record_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(input.OperatorID, constants.AuditActionCreate, "payment", payment.ID, models.JSON{
		"payment_no": payment.PaymentNo,
		"order_no":   order.OrderNo,
		"amount":     payment.Amount.String(),
	})
	return payment, nil
}

// FailPayment 将支付记录标记为失败并重算订单支付状态。
func (s *PaymentService) FailPayment(paymentID uint, reason string, operatorID *uint) (*models.PaymentRecord, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusFailed {
		return payment, nil
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		payment.Status = constants.PaymentStatusFailed
		payment.FailureReason = reason
		payment.UpdatedAt = now
		if err := paymentRepo.Update(payment); err != nil {
			return err
		}

		order, err := orderRepo.GetByID(payment.OrderID)
		if err != nil || order == nil {
			return err
		}
		total, err := paymentRepo.SumCompletedByOrder(order.ID)
		if err != nil {
			return err
		}
		return orderRepo.UpdatePaymentStatus(order.ID, reconcilePaymentStatus(total, order.TotalAmount))
	})
	if err != nil {
		logger.Errorw("payment_fail_mark_failed", "payment_id", paymentID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	s.auditService.Record(operatorID, constants.AuditActionUpdate, "payment", payment.ID, models.JSON{
		"payment_no": payment.PaymentNo,
		"status":     constants.PaymentStatusFailed,
	})
	return payment, nil
}

// ListPayments 支付记录列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.PaymentRecord, int64, error) {
	return s.paymentRepo.List(filter)
}

// ListByOrder 获取订单支付记录
func (s *PaymentService) ListByOrder(orderID uint) ([]models.PaymentRecord, error) {
	return s.paymentRepo.ListByOrder(orderID)
}

// reconcilePaymentStatus 按已完成支付总额推导订单支付状态。
func reconcilePaymentStatus(paid, total models.Money) string {
	switch {
	case paid.Decimal.GreaterThanOrEqual(total.Decimal) && total.Decimal.IsPositive():
		return constants.OrderPaymentStatusPaid
	case paid.Decimal.IsPositive():
		return constants.OrderPaymentStatusPartial
	default:
		return constants.OrderPaymentStatusPending
	}
}
