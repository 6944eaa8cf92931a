package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// 单号前缀常量
const (
	orderNoPrefix    = "IT"
	shipmentNoPrefix = "SH"
	paymentNoPrefix  = "PAY"
	returnNoPrefix   = "RT"
	poNoPrefix       = "PO"
)

func generateOrderNo() string {
	return generateNumber(orderNoPrefix)
}

func generateShipmentNo() string {
	return generateNumber(shipmentNoPrefix)
}

func generatePaymentNo() string {
	return generateNumber(paymentNoPrefix)
}

func generateReturnNo() string {
	return generateNumber(returnNoPrefix)
}

func generatePurchaseOrderNo() string {
	return generateNumber(poNoPrefix)
}

// generateNumber 生成时间戳加随机后缀的单号，唯一性最终由数据库唯一索引保证。
func generateNumber(prefix string) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", prefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
