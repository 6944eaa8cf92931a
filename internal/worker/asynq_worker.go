package worker

import (
	"context"
	"encoding/json"

	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/provider"
	"github.com/inventrack/inventrack/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAuditRecord, c.handleAuditRecord)
	mux.HandleFunc(queue.TaskLowStockScan, c.handleLowStockScan)
}

func (c *Consumer) handleAuditRecord(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_audit_record_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AuditRecordPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_audit_record_unmarshal_failed", "error", err)
		return err
	}
	if payload.Action == "" || payload.Entity == "" {
		logger.Debugw("worker_audit_record_skip_invalid_payload", "action", payload.Action, "entity", payload.Entity)
		return nil
	}
	if c.AuditService == nil {
		logger.Warnw("worker_audit_record_skip_audit_service_nil", "entity", payload.Entity)
		return nil
	}
	if err := c.AuditService.Persist(payload); err != nil {
		logger.Warnw("worker_audit_record_persist_failed",
			"action", payload.Action,
			"entity", payload.Entity,
			"entity_id", payload.EntityID,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleLowStockScan(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_low_stock_scan_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LowStockScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_low_stock_scan_unmarshal_failed", "error", err)
		return err
	}
	if c.InventoryService == nil {
		logger.Warnw("worker_low_stock_scan_skip_inventory_service_nil")
		return nil
	}
	count, err := c.InventoryService.ScanLowStock(payload.Threshold)
	if err != nil {
		logger.Warnw("worker_low_stock_scan_failed", "threshold", payload.Threshold, "error", err)
		return err
	}
	if count > 0 {
		logger.Infow("worker_low_stock_scan_done", "threshold", payload.Threshold, "hits", count)
	}
	return nil
}
