package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/inventrack/inventrack/internal/cache"
	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证服务
type AuthService struct {
	cfg              *config.Config
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	auditService     *AuditService
}

// NewAuthService 创建认证服务实例
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	auditService *AuditService,
) *AuthService {
	return &AuthService{
		cfg:              cfg,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditService:     auditService,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// JWTClaims JWT 声明
type JWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// Authenticate 校验 Token 并返回鉴权状态
// 优先走 Redis 快照，未命中时回源数据库并回填
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*JWTClaims, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, err
	}

	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil || !hit {
		user, dbErr := s.userRepo.GetByID(claims.UserID)
		if dbErr != nil {
			return nil, dbErr
		}
		if user == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.BuildUserAuthState(user)
		_ = cache.SetUserAuthState(ctx, state)
	}

	if state.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	if state.TokenInvalidBefore > 0 && claims.IssuedAt != nil &&
		claims.IssuedAt.Unix() < state.TokenInvalidBefore {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// RegisterInput 注册请求
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Register 创建账号
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrEmailTaken
	}

	if existing, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = constants.RoleViewer
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Status:       constants.UserStatusActive,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.auditService.Record(nil, constants.AuditActionCreate, "user", user.ID, models.JSON{
		"username": user.Username,
		"role":     user.Role,
	})
	return user, nil
}

// LoginInput 登录请求
type LoginInput struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"two_factor_code"`
}

// LoginResult 登录结果
// RequiresTwoFactor 为 true 时不下发任何令牌
type LoginResult struct {
	User              *models.User `json:"user"`
	Token             string       `json:"token"`
	ExpiresAt         time.Time    `json:"expires_at"`
	RefreshToken      string       `json:"refresh_token"`
	RefreshExpiresAt  time.Time    `json:"refresh_expires_at"`
	RequiresTwoFactor bool         `json:"requires_two_factor"`
}

// Login 用户登录
// 已开启两步验证且未携带动态码时，返回需要两步验证的中间态
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	if err := s.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		code := strings.TrimSpace(input.TwoFactorCode)
		if code == "" {
			return &LoginResult{RequiresTwoFactor: true}, nil
		}
		if !totp.Validate(code, user.TwoFactorSecret) {
			return nil, ErrTwoFactorCodeInvalid
		}
	}

	return s.issueSession(user)
}

// issueSession 下发访问令牌与刷新令牌并更新登录状态
func (s *AuthService) issueSession(user *models.User) (*LoginResult, error) {
	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.issueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	s.auditService.Record(&user.ID, constants.AuditActionLogin, "user", user.ID, models.JSON{
		"username": user.Username,
	})

	return &LoginResult{
		User:             user,
		Token:            token,
		ExpiresAt:        expiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (s *AuthService) issueRefreshToken(userID uint) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(buf)

	days := s.cfg.JWT.RefreshExpireDays
	if days <= 0 {
		days = constants.RefreshTokenDays
	}
	expiresAt := time.Now().Add(time.Duration(days) * 24 * time.Hour)

	record := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.refreshTokenRepo.Create(record); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Refresh 使用刷新令牌换取新会话
// 旧刷新令牌吊销后轮换出新令牌
func (s *AuthService) Refresh(refreshToken string) (*LoginResult, error) {
	record, err := s.refreshTokenRepo.GetByToken(strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, err
	}
	if record == nil || record.Revoked() {
		return nil, ErrRefreshTokenInvalid
	}
	if record.Expired(time.Now()) {
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.userRepo.GetByID(record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRefreshTokenInvalid
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	if err := s.refreshTokenRepo.Revoke(record.Token, time.Now()); err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

// Logout 登出
// 吊销全部刷新令牌并使已签发的访问令牌失效，可重复调用
func (s *AuthService) Logout(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	now := time.Now()
	if err := s.refreshTokenRepo.RevokeAllByUser(userID, now); err != nil {
		return err
	}

	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// ChangePassword 修改密码
// 成功后使全部已签发令牌失效
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = hashedPassword
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByUser(userID, now); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}
