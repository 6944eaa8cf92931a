package worker

import (
	"context"
	"errors"
	"time"

	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultLowStockScanInterval = 30 * time.Minute

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	scanInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, inventoryCfg config.InventoryConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	scanInterval := defaultLowStockScanInterval
	if inventoryCfg.ScanIntervalMinutes > 0 {
		scanInterval = time.Duration(inventoryCfg.ScanIntervalMinutes) * time.Minute
	}

	return &Service{
		name:         "worker",
		server:       server,
		mux:          mux,
		consumer:     consumer,
		scanInterval: scanInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.InventoryService != nil {
		go s.runLowStockScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runLowStockScanLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.QueueClient == nil {
		return
	}
	threshold := 0
	if s.consumer.Config != nil {
		threshold = s.consumer.Config.Inventory.LowStockThreshold
	}
	runOnce := func() {
		if err := s.consumer.QueueClient.EnqueueLowStockScan(queue.LowStockScanPayload{Threshold: threshold}); err != nil {
			logger.Warnw("worker_enqueue_low_stock_scan_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
