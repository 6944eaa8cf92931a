package queue

import (
	"encoding/json"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"

	"github.com/hibiken/asynq"
)

const (
	// TaskAuditRecord 审计日志落库任务
	TaskAuditRecord = constants.TaskAuditRecord
	// TaskLowStockScan 低库存巡检任务
	TaskLowStockScan = constants.TaskLowStockScan
)

// AuditRecordPayload 审计日志任务载荷
type AuditRecordPayload struct {
	UserID    *uint       `json:"user_id"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  uint        `json:"entity_id"`
	Detail    models.JSON `json:"detail"`
	IP        string      `json:"ip"`
	RequestID string      `json:"request_id"`
}

// LowStockScanPayload 低库存巡检任务载荷
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewAuditRecordTask 创建审计日志任务
func NewAuditRecordTask(payload AuditRecordPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRecord, body), nil
}

// NewLowStockScanTask 创建低库存巡检任务
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body), nil
}
