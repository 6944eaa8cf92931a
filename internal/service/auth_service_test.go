package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inventrack/inventrack/internal/config"
	"github.com/inventrack/inventrack/internal/constants"
	"github.com/inventrack/inventrack/internal/models"
	"github.com/inventrack/inventrack/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.JWT.RefreshExpireDays = 7
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}

	svc := NewAuthService(
		cfg,
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		NewAuditService(repository.NewAuditLogRepository(db), nil),
	)
	return svc, db
}

func registerAuthUser(t *testing.T, svc *AuthService, username, email, password string) *models.User {
	t.Helper()
	user, err := svc.Register(RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func TestRegisterDefaultsToViewerRole(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "alice", "alice@example.com", "s3cret-pass")

	if user.Role != constants.RoleViewer {
		t.Fatalf("role want viewer got %s", user.Role)
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("status want active got %s", user.Status)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatalf("password must not be stored in plain text")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerAuthUser(t, svc, "bob", "bob@example.com", "s3cret-pass")

	_, err := svc.Register(RegisterInput{
		Username: "bob",
		Email:    "other@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken got %v", err)
	}

	_, err = svc.Register(RegisterInput{
		Username: "bob2",
		Email:    "BOB@example.com", // 邮箱比较不区分大小写
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, err := svc.Register(RegisterInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrPasswordPolicyTooWeak) {
		t.Fatalf("want ErrPasswordPolicyTooWeak got %v", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerAuthUser(t, svc, "dave", "dave@example.com", "s3cret-pass")

	if _, err := svc.Login(LoginInput{Username: "dave", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login(LoginInput{Username: "nobody", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "erin", "erin@example.com", "s3cret-pass")

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	_, err := svc.Login(LoginInput{Username: "erin", Password: "s3cret-pass"})
	if !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("want ErrUserDisabled got %v", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "frank", "frank@example.com", "s3cret-pass")

	result, err := svc.Login(LoginInput{Username: "frank", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" || result.RefreshToken == "" {
		t.Fatalf("tokens missing: %+v", result)
	}

	claims, err := svc.ParseJWT(result.Token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "frank" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != constants.RoleViewer {
		t.Fatalf("claims role want viewer got %s", claims.Role)
	}
}

func TestLoginTwoFactorStepUp(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "grace", "grace@example.com", "s3cret-pass")

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: user.Email})
	if err != nil {
		t.Fatalf("generate totp key failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"two_factor_enabled": true,
		"two_factor_secret":  key.Secret(),
	}).Error; err != nil {
		t.Fatalf("enable two factor failed: %v", err)
	}

	// 未携带动态码时返回中间态，不下发令牌
	result, err := svc.Login(LoginInput{Username: "grace", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !result.RequiresTwoFactor {
		t.Fatalf("expected requires_two_factor")
	}
	if result.Token != "" || result.RefreshToken != "" {
		t.Fatalf("tokens must not be issued before two factor check")
	}

	if _, err := svc.Login(LoginInput{
		Username:      "grace",
		Password:      "s3cret-pass",
		TwoFactorCode: "000000",
	}); !errors.Is(err, ErrTwoFactorCodeInvalid) {
		t.Fatalf("want ErrTwoFactorCodeInvalid got %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}
	result, err = svc.Login(LoginInput{
		Username:      "grace",
		Password:      "s3cret-pass",
		TwoFactorCode: code,
	})
	if err != nil {
		t.Fatalf("two factor login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("token missing after two factor login")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	registerAuthUser(t, svc, "henry", "henry@example.com", "s3cret-pass")

	login, err := svc.Login(LoginInput{Username: "henry", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.RefreshToken == "" || refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token should rotate")
	}

	// 旧刷新令牌已吊销
	if _, err := svc.Refresh(login.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("want ErrRefreshTokenInvalid got %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "iris", "iris@example.com", "s3cret-pass")

	expired := models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("create refresh token failed: %v", err)
	}

	_, err := svc.Refresh("expired-token")
	if !errors.Is(err, ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired got %v", err)
	}
}

func TestLogoutInvalidatesIssuedTokens(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "judy", "judy@example.com", "s3cret-pass")

	login, err := svc.Login(LoginInput{Username: "judy", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), login.Token); err != nil {
		t.Fatalf("authenticate before logout failed: %v", err)
	}

	if err := svc.Logout(user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	// Token 版本已提升，旧访问令牌失效
	if _, err := svc.Authenticate(context.Background(), login.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid got %v", err)
	}
	// 全部刷新令牌已吊销
	if _, err := svc.Refresh(login.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("want ErrRefreshTokenInvalid got %v", err)
	}
	// 重复登出不报错
	if err := svc.Logout(user.ID); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user := registerAuthUser(t, svc, "kate", "kate@example.com", "s3cret-pass")

	if err := svc.ChangePassword(user.ID, "wrong-pass", "new-s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "s3cret-pass", "short"); !errors.Is(err, ErrPasswordPolicyTooWeak) {
		t.Fatalf("want ErrPasswordPolicyTooWeak got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "s3cret-pass", "new-s3cret-pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := svc.Login(LoginInput{Username: "kate", Password: "new-s3cret-pass"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestParseJWTRejectsForgedToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	other := &config.Config{}
	other.JWT.SecretKey = "another-secret"
	other.JWT.ExpireHours = 1
	forgedSvc := NewAuthService(other, nil, nil, nil)

	forged, _, err := forgedSvc.GenerateJWT(&models.User{ID: 1, Username: "mallory"})
	if err != nil {
		t.Fatalf("generate forged token failed: %v", err)
	}

	if _, err := svc.ParseJWT(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid got %v", err)
	}
}
