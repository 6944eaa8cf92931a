package handlers

import (
	"errors"

	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/http/response"
	"github.com/inventrack/inventrack/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                        `json:"username" binding:"required"`
	Password       string                        `json:"password" binding:"required"`
	TwoFactorCode  string                        `json:"two_factor_code"`
	CaptchaPayload service.CaptchaVerifyPayload  `json:"captcha_payload"`
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized},
	{target: service.ErrUserDisabled, code: response.CodeForbidden},
	{target: service.ErrTwoFactorCodeInvalid, code: response.CodeUnauthorized},
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload); err != nil {
			respondError(c, response.CodeBadRequest, service.ErrCaptchaInvalid.Error(), nil)
			return
		}
	}

	result, err := h.AuthService.Login(service.LoginInput{
		Username:      req.Username,
		Password:      req.Password,
		TwoFactorCode: req.TwoFactorCode,
	})
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "登录失败")
		return
	}

	if result.RequiresTwoFactor {
		response.Success(c, gin.H{"requires_two_factor": true})
		return
	}
	response.Success(c, result)
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

var refreshErrorRules = []mappedHandlerError{
	{target: service.ErrRefreshTokenInvalid, code: response.CodeUnauthorized},
	{target: service.ErrRefreshTokenExpired, code: response.CodeUnauthorized},
	{target: service.ErrUserDisabled, code: response.CodeForbidden},
}

// Refresh 刷新会话
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	result, err := h.AuthService.Refresh(req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, refreshErrorRules, response.CodeInternal, "刷新会话失败")
		return
	}
	response.Success(c, result)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(userID); err != nil {
		respondError(c, response.CodeInternal, "登出失败", err)
		return
	}
	response.Success(c, gin.H{"logout": true})
}

// Me 当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, service.ErrUserNotFound.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "获取用户信息失败", err)
		return
	}
	response.Success(c, user)
}

// RegisterRequest 创建账号请求
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrUsernameTaken, code: response.CodeConflict},
	{target: service.ErrEmailTaken, code: response.CodeConflict},
	{target: service.ErrPasswordPolicyTooWeak, code: response.CodeBadRequest},
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest},
}

// Register 创建账号（管理员操作）
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "创建账号失败")
		return
	}
	response.Success(c, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

var changePasswordErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest},
	{target: service.ErrPasswordPolicyTooWeak, code: response.CodeBadRequest},
	{target: service.ErrUserNotFound, code: response.CodeNotFound},
}

// ChangePassword 修改当前用户密码
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}
	if err := h.AuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, changePasswordErrorRules, response.CodeInternal, "修改密码失败")
		return
	}
	response.Success(c, gin.H{"changed": true})
}

// CaptchaChallenge 获取图片验证码
func (h *Handler) CaptchaChallenge(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.SceneEnabled(constants.CaptchaSceneLogin) {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "生成验证码失败", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
