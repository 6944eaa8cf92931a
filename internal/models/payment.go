package models

import (
	"time"
)

// PaymentRecord 支付记录表
type PaymentRecord struct {
	ID            uint       `gorm:"primarykey" json:"id"`                          // 主键
	PaymentNo     string     `gorm:"uniqueIndex;not null" json:"payment_no"`        // 支付流水号
	OrderID       uint       `gorm:"index;not null" json:"order_id"`                // 订单ID
	Method        string     `gorm:"type:varchar(50);not null" json:"method"`       // 支付方式
	Amount        Money      `gorm:"type:decimal(20,2);not null" json:"amount"`     // 支付金额
	Currency      string     `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"` // 币种
	Status        string     `gorm:"index;not null" json:"status"`                  // 支付状态
	ReferenceNo   string     `gorm:"type:varchar(100);index" json:"reference_no"`   // 外部参考号
	FailureReason string     `gorm:"type:text" json:"failure_reason"`               // 失败原因
	PaidAt        *time.Time `gorm:"index" json:"paid_at"`                          // 到账时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (PaymentRecord) TableName() string {
	return "payment_records"
}
