package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（后台账号）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // 主键
	Username           string         `gorm:"uniqueIndex;not null" json:"username"` // 用户名
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	DisplayName        string         `gorm:"default:''" json:"display_name"`       // 昵称
	Status             string         `gorm:"default:'active'" json:"status"`       // 账号状态
	Role               string         `gorm:"index;default:''" json:"role"`         // 所属角色
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`          // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                       // 该时间点前签发的 Token 失效
	TwoFactorEnabled   bool           `gorm:"default:false" json:"two_factor_enabled"`
	TwoFactorSecret    string         `gorm:"type:varchar(200)" json:"-"` // 已启用的 TOTP 密钥
	TwoFactorPending   string         `gorm:"type:varchar(200)" json:"-"` // 待确认的 TOTP 密钥
	LastLoginAt        *time.Time     `json:"last_login_at"`              // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`    // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`    // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`             // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// RefreshToken 刷新令牌表
type RefreshToken struct {
	ID        uint       `gorm:"primarykey" json:"id"`              // 主键
	UserID    uint       `gorm:"index;not null" json:"user_id"`     // 用户ID
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`     // 不透明令牌
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`  // 过期时间
	RevokedAt *time.Time `gorm:"index" json:"revoked_at,omitempty"` // 吊销时间
	CreatedAt time.Time  `gorm:"index" json:"created_at"`           // 创建时间
}

// TableName 指定表名
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Revoked 判断令牌是否已吊销
func (t *RefreshToken) Revoked() bool {
	return t != nil && t.RevokedAt != nil
}

// Expired 判断令牌在给定时间是否已过期
func (t *RefreshToken) Expired(now time.Time) bool {
	return t == nil || !t.ExpiresAt.After(now)
}
