package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/credential"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func roleRouter(user *models.User, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	})
	r.GET("/guarded", RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	do := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(roleRouter(nil, constants.RoleAdmin)); code != http.StatusUnauthorized {
		t.Fatalf("anonymous want 401 got %d", code)
	}
	if code := do(roleRouter(&models.User{Role: constants.RoleUser}, constants.RoleAdmin)); code != http.StatusForbidden {
		t.Fatalf("wrong role want 403 got %d", code)
	}
	if code := do(roleRouter(&models.User{Role: constants.RoleAdmin}, constants.RoleAdmin, constants.RoleModerator)); code != http.StatusOK {
		t.Fatalf("admin want 200 got %d", code)
	}
	if code := do(roleRouter(&models.User{Role: "ADMIN"}, constants.RoleAdmin)); code != http.StatusOK {
		t.Fatalf("role match should be case-insensitive, got %d", code)
	}
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(user *models.User) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if user != nil {
				c.Set(ctxUserKey, user)
			}
			c.Next()
		})
		r.GET("/guarded", RequirePermission("content:write"), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}
	do := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(build(nil)); code != http.StatusUnauthorized {
		t.Fatalf("anonymous want 401 got %d", code)
	}
	if code := do(build(&models.User{Role: constants.RoleAdmin})); code != http.StatusOK {
		t.Fatalf("admin bypass want 200 got %d", code)
	}
	granted := &models.User{Role: constants.RoleUser, Permissions: models.StringArray{"content:write"}}
	if code := do(build(granted)); code != http.StatusOK {
		t.Fatalf("granted permission want 200 got %d", code)
	}
	denied := &models.User{Role: constants.RoleUser, Permissions: models.StringArray{"content:read"}}
	if code := do(build(denied)); code != http.StatusForbidden {
		t.Fatalf("missing permission want 403 got %d", code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(req *http.Request) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req
		return c
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	if got := extractBearerToken(newCtx(req)); got != "abc123" {
		t.Fatalf("header token want abc123 got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	if got := extractBearerToken(newCtx(req)); got != "" {
		t.Fatalf("non-bearer scheme should be rejected, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	if got := extractBearerToken(newCtx(req)); got != "cookie-token" {
		t.Fatalf("cookie token want cookie-token got %q", got)
	}
}

func TestRequireAuthRejectsDeactivatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users failed: %v", err)
	}
	userRepo := repository.NewUserRepository(db)

	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret:         "test-secret",
		AccessExpireHours: 1,
	}}
	authService := service.NewAuthService(cfg, userRepo, credential.NewBcrypt(4), nil)

	user := &models.User{
		Username:        "gatecheck",
		Email:           "gatecheck@example.com",
		PasswordHash:    "irrelevant",
		Role:            constants.RoleUser,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := authService.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	r := gin.New()
	r.GET("/private", RequireAuth(authService, userRepo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := call(); code != http.StatusOK {
		t.Fatalf("active user want 200 got %d", code)
	}

	// deactivation must bite before the token expires
	user.IsActive = false
	if err := userRepo.Update(user); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if code := call(); code != http.StatusUnauthorized {
		t.Fatalf("deactivated user with a valid token want 401 got %d", code)
	}
}
