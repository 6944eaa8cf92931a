package handlers

import (
	"strings"

	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/repository"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

var userErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound},
	{target: service.ErrPasswordPolicyTooWeak, code: response.CodeBadRequest},
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
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

	users, total, err := h.UserService.ListUsers(repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		Role:        strings.TrimSpace(c.Query("role")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询用户失败", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(id)
	if err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeInternal, "查询用户失败")
		return
	}
	response.Success(c, user)
}

// UserUpdateRequest 用户更新请求
type UserUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

// UpdateUser 更新用户资料、角色或状态
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	user, err := h.UserService.UpdateUser(operatorID(c), id, service.UserUpdateInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Status:      req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeInternal, "更新用户失败")
		return
	}
	response.Success(c, user)
}

// BatchUserStatusRequest 批量更新用户状态请求
type BatchUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
	Status  string `json:"status" binding:"required"`
}

// BatchUpdateUserStatus 批量启用/禁用用户
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.UserService.BatchUpdateStatus(operatorID(c), req.UserIDs, req.Status); err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeInternal, "批量更新用户状态失败")
		return
	}
	response.Success(c, nil)
}

// ResetPasswordRequest 管理员重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetUserPassword 管理员重置指定用户密码
func (h *Handler) ResetUserPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.UserService.ResetPassword(operatorID(c), id, req.NewPassword); err != nil {
		respondWithMappedError(c, err, userErrorRules, response.CodeInternal, "重置密码失败")
		return
	}
	response.Success(c, nil)
}
