package repository

import (
	"testing"
	"time"

	"github.com/paveworks/paveworks-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) (*GormUserRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users failed: %v", err)
	}
	return NewUserRepository(db), db
}

func createTestUser(t *testing.T, repo *GormUserRepository, username, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         "user",
		IsActive:     true,
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestGetByEmailOrUsername(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	created := createTestUser(t, repo, "mason", "mason@example.com")

	byEmail, err := repo.GetByEmailOrUsername("mason@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatal("lookup by email did not find user")
	}

	byName, err := repo.GetByEmailOrUsername("mason")
	if err != nil {
		t.Fatalf("get by username failed: %v", err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Fatal("lookup by username did not find user")
	}

	missing, err := repo.GetByEmailOrUsername("nobody")
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Fatal("missing lookup want nil user")
	}
}

func TestRotateRefreshTokenRejectsReplay(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "rotator", "rotator@example.com")

	expire := time.Now().Add(7 * 24 * time.Hour)
	if err := repo.SetRefreshToken(user.ID, "token-a", expire); err != nil {
		t.Fatalf("set refresh token failed: %v", err)
	}

	affected, err := repo.RotateRefreshToken(user.ID, "token-a", "token-b", expire)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first rotate affected want 1 got %d", affected)
	}

	// replaying the consumed token must not rotate again
	affected, err = repo.RotateRefreshToken(user.ID, "token-a", "token-c", expire)
	if err != nil {
		t.Fatalf("replay rotate failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("replay rotate affected want 0 got %d", affected)
	}

	got, err := repo.GetByRefreshToken("token-b")
	if err != nil {
		t.Fatalf("get by refresh token failed: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatal("rotated token should resolve to user")
	}
}

func TestGetByRefreshTokenIgnoresExpired(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "expired", "expired@example.com")

	if err := repo.SetRefreshToken(user.ID, "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("set refresh token failed: %v", err)
	}
	got, err := repo.GetByRefreshToken("stale")
	if err != nil {
		t.Fatalf("get by refresh token failed: %v", err)
	}
	if got != nil {
		t.Fatal("expired refresh token must not resolve")
	}
}

func TestClearRefreshTokenIsIdempotent(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "logout", "logout@example.com")

	if err := repo.SetRefreshToken(user.ID, "tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("set refresh token failed: %v", err)
	}
	if err := repo.ClearRefreshToken(user.ID); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := repo.ClearRefreshToken(user.ID); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	got, err := repo.GetByRefreshToken("tok")
	if err != nil {
		t.Fatalf("get by refresh token failed: %v", err)
	}
	if got != nil {
		t.Fatal("cleared token must not resolve")
	}
}

func TestRegisterFailedLoginLocksAtThreshold(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "locked", "locked@example.com")

	for i := 0; i < 4; i++ {
		if err := repo.RegisterFailedLogin(user.ID, 5, 2*time.Hour); err != nil {
			t.Fatalf("failed login %d: %v", i+1, err)
		}
	}
	got, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.LoginAttempts != 4 {
		t.Fatalf("attempts want 4 got %d", got.LoginAttempts)
	}
	if got.IsLocked() {
		t.Fatal("must not be locked before the threshold")
	}

	if err := repo.RegisterFailedLogin(user.ID, 5, 2*time.Hour); err != nil {
		t.Fatalf("fifth failed login: %v", err)
	}
	got, err = repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !got.IsLocked() {
		t.Fatal("fifth failure must lock the account")
	}

	if err := repo.ResetLoginAttempts(user.ID, time.Now()); err != nil {
		t.Fatalf("reset attempts failed: %v", err)
	}
	got, err = repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.LoginAttempts != 0 || got.IsLocked() {
		t.Fatal("reset must clear counter and lock")
	}
	if got.LastLoginAt == nil {
		t.Fatal("reset must stamp last login")
	}
}

func TestVerificationAndResetTokensExpire(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "tokens", "tokens@example.com")

	if err := repo.SetVerificationToken(user.ID, "verify-ok", time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("set verification token failed: %v", err)
	}
	got, err := repo.GetByVerificationToken("verify-ok")
	if err != nil {
		t.Fatalf("get by verification token failed: %v", err)
	}
	if got == nil {
		t.Fatal("valid verification token must resolve")
	}

	if err := repo.MarkEmailVerified(user.ID); err != nil {
		t.Fatalf("mark verified failed: %v", err)
	}
	got, err = repo.GetByVerificationToken("verify-ok")
	if err != nil {
		t.Fatalf("get burnt verification token failed: %v", err)
	}
	if got != nil {
		t.Fatal("burnt verification token must not resolve")
	}

	if err := repo.SetResetToken(user.ID, "reset-stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("set reset token failed: %v", err)
	}
	got, err = repo.GetByResetToken("reset-stale")
	if err != nil {
		t.Fatalf("get expired reset token failed: %v", err)
	}
	if got != nil {
		t.Fatal("expired reset token must not resolve")
	}
}

func TestUpdatePasswordRevokesSessionState(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	user := createTestUser(t, repo, "rotpass", "rotpass@example.com")

	if err := repo.SetRefreshToken(user.ID, "session", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("set refresh token failed: %v", err)
	}
	if err := repo.SetResetToken(user.ID, "reset", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("set reset token failed: %v", err)
	}

	if err := repo.UpdatePassword(user.ID, "new-hash"); err != nil {
		t.Fatalf("update password failed: %v", err)
	}

	got, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Fatal("password hash must change")
	}
	if got.RefreshToken != "" {
		t.Fatal("refresh token must be revoked on password change")
	}
	if got.PasswordResetToken != "" {
		t.Fatal("reset token must be burnt on password change")
	}
}

func TestGetByUsername(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)
	createTestUser(t, repo, "taken", "taken@example.com")

	got, err := repo.GetByUsername("taken")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got == nil || got.Username != "taken" {
		t.Fatalf("taken username must resolve, got %+v", got)
	}

	got, err = repo.GetByUsername("free")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got != nil {
		t.Fatal("free username must resolve to nil")
	}
}
