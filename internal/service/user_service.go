package service

import (
	"context"
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/cache"
	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"
)

// UserService 用户管理服务（管理员操作）
type UserService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	authService      *AuthService
	auditService     *AuditService
}

// NewUserService 创建用户管理服务
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	authService *AuthService,
	auditService *AuditService,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		authService:      authService,
		auditService:     auditService,
	}
}

// GetUser 获取用户
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers 用户列表
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UserUpdateInput 用户更新请求
type UserUpdateInput struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

// UpdateUser 更新用户资料、角色或状态
// 禁用账号时同时吊销其全部令牌
func (s *UserService) UpdateUser(operatorID *uint, id uint, input UserUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	changes := models.JSON{}
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
		changes["display_name"] = user.DisplayName
	}
	if input.Role != nil {
		user.Role = strings.TrimSpace(*input.Role)
		changes["role"] = user.Role
	}

	disabled := false
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrUserNotFound
		}
		if status != user.Status {
			user.Status = status
			changes["status"] = status
			disabled = status == constants.UserStatusDisabled
		}
	}

	if disabled {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
		if err := s.refreshTokenRepo.RevokeAllByUser(user.ID, now); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	if len(changes) > 0 {
		s.auditService.Record(operatorID, constants.AuditActionUpdate, "user", user.ID, changes)
	}
	return user, nil
}

// BatchUpdateStatus 批量启用/禁用用户
func (s *UserService) BatchUpdateStatus(operatorID *uint, userIDs []uint, status string) error {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return ErrUserNotFound
	}
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.userRepo.BatchUpdateStatus(userIDs, status); err != nil {
		return err
	}

	now := time.Now()
	for _, id := range userIDs {
		if status == constants.UserStatusDisabled {
			_ = s.refreshTokenRepo.RevokeAllByUser(id, now)
		}
		_ = cache.DelUserAuthState(context.Background(), id)
	}

	s.auditService.Record(operatorID, constants.AuditActionUpdate, "user", 0, models.JSON{
		"user_ids": userIDs,
		"status":   status,
	})
	return nil
}

// ResetPassword 管理员重置用户密码
func (s *UserService) ResetPassword(operatorID *uint, id uint, newPassword string) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.authService.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = hash
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUser(user.ID, now); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	s.auditService.Record(operatorID, constants.AuditActionUpdate, "user", user.ID, models.JSON{
		"password_reset": true,
	})
	return nil
}
