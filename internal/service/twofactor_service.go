package service

import (
	"context"
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/cache"
	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/pquerna/otp/totp"
)

const twoFactorIssuer = "InvenTrack"

// TwoFactorService 两步验证服务
// 基于 TOTP，密钥先写入待确认字段，校验通过后才正式启用
type TwoFactorService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	auditService     *AuditService
}

// NewTwoFactorService 创建两步验证服务
func NewTwoFactorService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	auditService *AuditService,
) *TwoFactorService {
	return &TwoFactorService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditService:     auditService,
	}
}

// TwoFactorSetup 两步验证初始化结果
type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
}

// GenerateSetup 生成 TOTP 密钥
// 重复调用会覆盖上一次未确认的密钥
func (s *TwoFactorService) GenerateSetup(userID uint) (*TwoFactorSetup, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyOn
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      twoFactorIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	user.TwoFactorPending = key.Secret()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return &TwoFactorSetup{
		Secret:     key.Secret(),
		OtpauthURL: key.URL(),
	}, nil
}

// Enable 校验动态码并正式启用两步验证
func (s *TwoFactorService) Enable(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.TwoFactorEnabled {
		return ErrTwoFactorAlreadyOn
	}
	if user.TwoFactorPending == "" {
		return ErrTwoFactorNotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), user.TwoFactorPending) {
		return ErrTwoFactorCodeInvalid
	}

	user.TwoFactorSecret = user.TwoFactorPending
	user.TwoFactorPending = ""
	user.TwoFactorEnabled = true
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	s.auditService.Record(&user.ID, constants.AuditActionUpdate, "user", user.ID, models.JSON{
		"two_factor_enabled": true,
	})
	return nil
}

// Verify 校验已启用账号的动态码
func (s *TwoFactorService) Verify(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), user.TwoFactorSecret) {
		return ErrTwoFactorCodeInvalid
	}
	return nil
}

// Disable 关闭两步验证
// 需要有效动态码，成功后吊销全部刷新令牌
func (s *TwoFactorService) Disable(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), user.TwoFactorSecret) {
		return ErrTwoFactorCodeInvalid
	}

	now := time.Now()
	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	user.TwoFactorPending = ""
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUser(user.ID, now); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	s.auditService.Record(&user.ID, constants.AuditActionUpdate, "user", user.ID, models.JSON{
		"two_factor_enabled": false,
	})
	return nil
}
