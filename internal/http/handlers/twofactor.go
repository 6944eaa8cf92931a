package handlers

import (
	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

var twoFactorErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound},
	{target: service.ErrTwoFactorAlreadyOn, code: response.CodeConflict},
	{target: service.ErrTwoFactorNotEnabled, code: response.CodeBadRequest},
	{target: service.ErrTwoFactorCodeInvalid, code: response.CodeBadRequest},
}

// TwoFactorSetup 生成两步验证密钥
func (h *Handler) TwoFactorSetup(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	setup, err := h.TwoFactorService.GenerateSetup(userID)
	if err != nil {
		respondWithMappedError(c, err, twoFactorErrorRules, response.CodeInternal, "生成两步验证密钥失败")
		return
	}
	response.Success(c, setup)
}

// TwoFactorCodeRequest 两步验证动态码请求
type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// TwoFactorEnable 启用两步验证
func (h *Handler) TwoFactorEnable(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.TwoFactorService.Enable(userID, req.Code); err != nil {
		respondWithMappedError(c, err, twoFactorErrorRules, response.CodeInternal, "启用两步验证失败")
		return
	}
	response.Success(c, gin.H{"enabled": true})
}

// TwoFactorDisable 关闭两步验证
func (h *Handler) TwoFactorDisable(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.TwoFactorService.Disable(userID, req.Code); err != nil {
		respondWithMappedError(c, err, twoFactorErrorRules, response.CodeInternal, "关闭两步验证失败")
		return
	}
	response.Success(c, gin.H{"enabled": false})
}

// TwoFactorVerify 校验动态码（敏感操作二次确认）
func (h *Handler) TwoFactorVerify(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.TwoFactorService.Verify(userID, req.Code); err != nil {
		respondWithMappedError(c, err, twoFactorErrorRules, response.CodeInternal, "两步验证失败")
		return
	}
	response.Success(c, gin.H{"verified": true})
}
