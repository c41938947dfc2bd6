package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/credential"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type noopMailer struct {
	mu   sync.Mutex
	sent int
}

func (m *noopMailer) SendVerificationEmail(email, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *noopMailer) SendPasswordResetEmail(email, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *noopMailer) SendPasswordChangedEmail(email, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			AccessExpireHours:  1,
			RefreshExpireHours: 24,
			BcryptCost:         4,
			Lockout: config.LockoutConfig{
				MaxAttempts: 5,
				LockMinutes: 120,
			},
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
	}
}

func setupAuthServiceTest(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users failed: %v", err)
	}
	// isolate from other tests sharing the in-memory database
	if err := db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		t.Fatalf("truncate users failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(authTestConfig(), userRepo, credential.NewBcrypt(4), &noopMailer{})
	return svc, userRepo
}

func registerAndVerify(t *testing.T, svc *AuthService, userRepo repository.UserRepository, username, email string) *models.User {
	t.Helper()
	user, err := svc.Register(RegisterInput{
		Username: username,
		Email:    email,
		Password: "Str0ngPass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if _, err := svc.VerifyEmail(stored.EmailVerificationToken); err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
	return user
}

func TestRegisterIssuesVerificationToken(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)

	user, err := svc.Register(RegisterInput{
		Username: "paver",
		Email:    "paver@example.com",
		Password: "Str0ngPass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.IsEmailVerified {
		t.Fatal("new account must start unverified")
	}

	stored, err := userRepo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(stored.EmailVerificationToken) != verificationTokenBytes*2 {
		t.Fatalf("verification token hex length want %d got %d", verificationTokenBytes*2, len(stored.EmailVerificationToken))
	}
	if stored.EmailVerificationExpire == nil || !stored.EmailVerificationExpire.After(time.Now()) {
		t.Fatal("verification token must have a future expiry")
	}

	// each colliding identifier gets its own error
	if _, err := svc.Register(RegisterInput{
		Username: "paver",
		Email:    "other@example.com",
		Password: "Str0ngPass",
	}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username want ErrUsernameTaken got %v", err)
	}
	if _, err := svc.Register(RegisterInput{
		Username: "other",
		Email:    "paver@example.com",
		Password: "Str0ngPass",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}
}

func TestRegisterNormalizesUsernameCase(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)

	user := registerAndVerify(t, svc, userRepo, "Alice", "alice@example.com")
	if user.Username != "alice" {
		t.Fatalf("username must be stored lowercase, got %q", user.Username)
	}

	// login with the username exactly as typed at registration
	logged, pair, err := svc.Login("Alice", "Str0ngPass")
	if err != nil {
		t.Fatalf("login with mixed-case username failed: %v", err)
	}
	if logged.ID != user.ID || pair.AccessToken == "" {
		t.Fatal("login must resolve the registered account")
	}

	// the case variant is the same identity, not a second account
	if _, err := svc.Register(RegisterInput{
		Username: "ALICE",
		Email:    "alice2@example.com",
		Password: "Str0ngPass",
	}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("case-variant username want ErrUsernameTaken got %v", err)
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user, err := svc.Register(RegisterInput{
		Username: "verifier",
		Email:    "verifier@example.com",
		Password: "Str0ngPass",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, _ := userRepo.GetByID(user.ID)
	token := stored.EmailVerificationToken

	verified, err := svc.VerifyEmail(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verified.IsEmailVerified {
		t.Fatal("verify must mark email verified")
	}

	// the token is single-use
	if _, err := svc.VerifyEmail(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("second verify want ErrTokenInvalid got %v", err)
	}
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	registerAndVerify(t, svc, userRepo, "worker", "worker@example.com")

	_, _, errUnknown := svc.Login("nobody@example.com", "Str0ngPass")
	_, _, errWrongPass := svc.Login("worker@example.com", "WrongPass1")
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown identifier want ErrInvalidCredentials got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatal("failure reasons must be indistinguishable")
	}
}

func TestLoginLockoutAfterMaxAttempts(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	registerAndVerify(t, svc, userRepo, "lockme", "lockme@example.com")

	for i := 0; i < 5; i++ {
		if _, _, err := svc.Login("lockme@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d want ErrInvalidCredentials got %v", i+1, err)
		}
	}

	// even the correct password is refused while locked
	if _, _, err := svc.Login("lockme@example.com", "Str0ngPass"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked login want ErrAccountLocked got %v", err)
	}
}

func TestLoginSuccessResetsAttemptsAndIssuesTokens(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	registerAndVerify(t, svc, userRepo, "driver", "driver@example.com")

	for i := 0; i < 3; i++ {
		svc.Login("driver@example.com", "WrongPass1")
	}

	user, pair, err := svc.Login("driver@example.com", "Str0ngPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login must issue both tokens")
	}
	if len(pair.RefreshToken) != refreshTokenBytes*2 {
		t.Fatalf("refresh token hex length want %d got %d", refreshTokenBytes*2, len(pair.RefreshToken))
	}

	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatal("claims must carry the user id")
	}

	stored, _ := userRepo.GetByID(user.ID)
	if stored.LoginAttempts != 0 {
		t.Fatalf("attempts after success want 0 got %d", stored.LoginAttempts)
	}
	if stored.LastLoginAt == nil {
		t.Fatal("success must stamp last login")
	}

	// login by username works too
	if _, _, err := svc.Login("driver", "Str0ngPass"); err != nil {
		t.Fatalf("login by username failed: %v", err)
	}
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	registerAndVerify(t, svc, userRepo, "refresher", "refresher@example.com")

	_, pair, err := svc.Login("refresher@example.com", "Str0ngPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, rotated, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// replaying the consumed token fails
	if _, _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("replay want ErrTokenInvalid got %v", err)
	}

	// the rotated token still works
	if _, _, err := svc.Refresh(rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token refresh failed: %v", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "departed", "departed@example.com")

	_, pair, err := svc.Login("departed@example.com", "Str0ngPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	stored, _ := userRepo.GetByID(user.ID)
	stored.IsActive = false
	if err := userRepo.Update(stored); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("deactivated refresh want ErrAccountDisabled got %v", err)
	}
}

func TestLogoutRevokesRefreshTokenIdempotently(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "leaver", "leaver@example.com")

	_, pair, err := svc.Login("leaver@example.com", "Str0ngPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := svc.Logout(user.ID); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
	if _, _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh after logout want ErrTokenInvalid got %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "forgetful", "forgetful@example.com")

	// unknown addresses succeed silently
	if err := svc.ForgotPassword("ghost@example.com"); err != nil {
		t.Fatalf("forgot for unknown address failed: %v", err)
	}

	if err := svc.ForgotPassword("forgetful@example.com"); err != nil {
		t.Fatalf("forgot failed: %v", err)
	}
	stored, _ := userRepo.GetByID(user.ID)
	if len(stored.PasswordResetToken) != resetTokenBytes*2 {
		t.Fatalf("reset token hex length want %d got %d", resetTokenBytes*2, len(stored.PasswordResetToken))
	}
	token := stored.PasswordResetToken

	if err := svc.ResetPassword(token, "N3wStrongPass"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// token is single-use
	if err := svc.ResetPassword(token, "An0therPass"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("reused reset token want ErrTokenInvalid got %v", err)
	}

	if _, _, err := svc.Login("forgetful@example.com", "Str0ngPass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password after reset want ErrInvalidCredentials got %v", err)
	}
	if _, _, err := svc.Login("forgetful@example.com", "N3wStrongPass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "changer", "changer@example.com")

	if err := svc.ChangePassword(user.ID, "WrongPass1", "N3wStrongPass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Str0ngPass", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak new password want ErrWeakPassword got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Str0ngPass", "N3wStrongPass"); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if _, _, err := svc.Login("changer@example.com", "N3wStrongPass"); err != nil {
		t.Fatalf("login with changed password failed: %v", err)
	}
}

func TestAccessTokenCarriesOnlyUserID(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "shape", "shape@example.com")

	signed, _, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("token must have three segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if body["user_id"] != user.ID {
		t.Fatalf("user_id claim want %q got %v", user.ID, body["user_id"])
	}
	for _, key := range []string{"username", "role", "email"} {
		if _, ok := body[key]; ok {
			t.Fatalf("access token must not embed %q", key)
		}
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	svc, userRepo := setupAuthServiceTest(t)
	user := registerAndVerify(t, svc, userRepo, "expiry", "expiry@example.com")

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired token want jwt.ErrTokenExpired got %v", err)
	}

	if _, err := svc.ParseAccessToken("not-a-token"); err == nil {
		t.Fatal("malformed token must fail")
	}
}
