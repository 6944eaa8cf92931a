package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditLogs 审计日志列表
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := parsePagination(c)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "时间参数不合法", err)
		return
	}

	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		Action:      strings.TrimSpace(c.Query("action")),
		Entity:      strings.TrimSpace(c.Query("entity")),
		EntityID:    parseUintQuery(c, "entity_id"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询审计日志失败", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}
