package service

import (
	"time"

	"github.com/inventrack/inventrack/internal/logger"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/queue"
	"github.com/inventrack/inventrack/internal/repository"
)

// AuditService 审计日志服务。
// 写入优先走异步队列，队列不可用时直接落库，确保请求路径不中断。
type AuditService struct {
	auditRepo   repository.AuditLogRepository
	queueClient *queue.Client
}

// NewAuditService 创建审计服务
func NewAuditService(auditRepo repository.AuditLogRepository, queueClient *queue.Client) *AuditService {
	return &AuditService{
		auditRepo:   auditRepo,
		queueClient: queueClient,
	}
}

// Record 记录一条审计日志
func (s *AuditService) Record(userID *uint, action, entity string, entityID uint, detail models.JSON) {
	s.RecordWithRequest(userID, action, entity, entityID, detail, "", "")
}

// RecordWithRequest 记录带请求上下文的审计日志
func (s *AuditService) RecordWithRequest(userID *uint, action, entity string, entityID uint, detail models.JSON, ip, requestID string) {
	if s == nil {
		return
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueAuditRecord(queue.AuditRecordPayload{
			UserID:    userID,
			Action:    action,
			Entity:    entity,
			EntityID:  entityID,
			Detail:    detail,
			IP:        ip,
			RequestID: requestID,
		})
		if err == nil {
			return
		}
		logger.Warnw("audit_enqueue_failed", "entity", entity, "entity_id", entityID, "error", err)
	}
	s.persist(userID, action, entity, entityID, detail, ip, requestID)
}

// Persist 直接落库，供 worker 消费任务时调用。
func (s *AuditService) Persist(payload queue.AuditRecordPayload) error {
	log := &models.AuditLog{
		UserID:    payload.UserID,
		Action:    payload.Action,
		Entity:    payload.Entity,
		EntityID:  payload.EntityID,
		Detail:    payload.Detail,
		IP:        payload.IP,
		RequestID: payload.RequestID,
		CreatedAt: time.Now(),
	}
	return s.auditRepo.Create(log)
}

// List 审计日志列表
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(filter)
}

func (s *AuditService) persist(userID *uint, action, entity string, entityID uint, detail models.JSON, ip, requestID string) {
	log := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		IP:        ip,
		RequestID: requestID,
		CreatedAt: time.Now(),
	}
	if err := s.auditRepo.Create(log); err != nil {
		logger.Warnw("audit_persist_failed", "entity", entity, "entity_id", entityID, "error", err)
	}
}
