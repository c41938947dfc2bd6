package ratelimit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"

	"github.com/gin-gonic/gin"
)

func newLimiterRouter(rule Rule, keyFunc KeyFunc, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limiter := NewLimiter(NewMemoryStore(), true, nil)
	r.POST("/target", limiter.Middleware(rule, keyFunc), func(c *gin.Context) {
		c.JSON(status, gin.H{"ok": status < 400})
	})
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/target", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAllowsNThenRejectsNPlusOne(t *testing.T) {
	rule := Rule{Name: "general", WindowSeconds: 60, MaxRequests: 3}
	r := newLimiterRouter(rule, KeyByIP, http.StatusOK)

	for i := 0; i < 3; i++ {
		if w := hit(r, "9.9.9.9"); w.Code != http.StatusOK {
			t.Fatalf("request %d want 200 got %d", i+1, w.Code)
		}
	}

	w := hit(r, "9.9.9.9")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request 4 want 429 got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 must carry Retry-After header")
	}
	if !strings.Contains(w.Body.String(), "retry_after") {
		t.Fatalf("429 body must carry retry_after, got %s", w.Body.String())
	}

	// another client is unaffected
	if w := hit(r, "8.8.8.8"); w.Code != http.StatusOK {
		t.Fatalf("other client want 200 got %d", w.Code)
	}
}

func TestMiddlewareWindowReset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewMemoryStore()
	limiter := NewLimiter(store, true, nil)
	rule := Rule{Name: "tiny", WindowSeconds: 1, MaxRequests: 1}

	r := gin.New()
	r.POST("/target", limiter.Middleware(rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if w := hit(r, "7.7.7.7"); w.Code != http.StatusOK {
		t.Fatalf("first request want 200 got %d", w.Code)
	}
	if w := hit(r, "7.7.7.7"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request want 429 got %d", w.Code)
	}

	time.Sleep(1100 * time.Millisecond)
	if w := hit(r, "7.7.7.7"); w.Code != http.StatusOK {
		t.Fatalf("request after window reset want 200 got %d", w.Code)
	}
}

func TestRefundSuccessOnlyCountsFailures(t *testing.T) {
	rule := Rule{Name: "auth", WindowSeconds: 60, MaxRequests: 2, RefundSuccess: true}

	// successful responses never exhaust the ceiling
	ok := newLimiterRouter(rule, KeyByIP, http.StatusOK)
	for i := 0; i < 10; i++ {
		if w := hit(ok, "6.6.6.6"); w.Code != http.StatusOK {
			t.Fatalf("successful request %d want 200 got %d", i+1, w.Code)
		}
	}

	// failures do count
	fail := newLimiterRouter(rule, KeyByIP, http.StatusUnauthorized)
	for i := 0; i < 2; i++ {
		if w := hit(fail, "5.5.5.5"); w.Code != http.StatusUnauthorized {
			t.Fatalf("failed request %d want 401 got %d", i+1, w.Code)
		}
	}
	if w := hit(fail, "5.5.5.5"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third failure want 429 got %d", w.Code)
	}
}

func TestTrustedIPBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewLimiter(NewMemoryStore(), true, []string{"10.0.0.1", "192.168.0.0/16"})
	rule := Rule{Name: "strict", WindowSeconds: 60, MaxRequests: 1}

	r := gin.New()
	r.POST("/target", limiter.Middleware(rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 5; i++ {
		if w := hit(r, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("trusted IP request %d want 200 got %d", i+1, w.Code)
		}
		if w := hit(r, "192.168.44.7"); w.Code != http.StatusOK {
			t.Fatalf("trusted CIDR request %d want 200 got %d", i+1, w.Code)
		}
	}

	hit(r, "4.4.4.4")
	if w := hit(r, "4.4.4.4"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("untrusted IP want 429 got %d", w.Code)
	}
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewLimiter(NewMemoryStore(), false, nil)
	rule := Rule{Name: "general", WindowSeconds: 60, MaxRequests: 1}

	r := gin.New()
	r.POST("/target", limiter.Middleware(rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 5; i++ {
		if w := hit(r, "3.3.3.3"); w.Code != http.StatusOK {
			t.Fatalf("disabled limiter request %d want 200 got %d", i+1, w.Code)
		}
	}
}

func TestSlowDownDelaysPastThreshold(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewLimiter(NewMemoryStore(), true, nil)
	cfg := config.SlowDownConfig{Threshold: 2, StepMS: 30, MaxDelayMS: 60}

	r := gin.New()
	r.POST("/target", limiter.SlowDown(cfg, 60), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// below threshold: effectively no delay
	start := time.Now()
	hit(r, "2.2.2.2")
	hit(r, "2.2.2.2")
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Fatalf("requests below threshold should not be delayed, took %v", elapsed)
	}

	// third request is one past the threshold: one step of delay
	start = time.Now()
	hit(r, "2.2.2.2")
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Fatalf("request past threshold should be delayed, took %v", elapsed)
	}

	// delay is capped at MaxDelayMS
	for i := 0; i < 5; i++ {
		hit(r, "2.2.2.2")
	}
	start = time.Now()
	hit(r, "2.2.2.2")
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Fatalf("delay should be capped, took %v", elapsed)
	}
}

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" Crew@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "crew@example.com|1.2.3.4" {
		t.Fatalf("key want crew@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Crew@Example.com") {
		t.Fatal("request body should be restored after reading field")
	}
}

func TestMemoryStoreIncrDecr(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	count, ttl, err := store.Incr(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("first incr want 1 got %d", count)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl out of range: %v", ttl)
	}

	count, _, _ = store.Incr(ctx, "k", time.Minute)
	if count != 2 {
		t.Fatalf("second incr want 2 got %d", count)
	}

	if err := store.Decr(ctx, "k"); err != nil {
		t.Fatalf("decr failed: %v", err)
	}
	count, _, _ = store.Incr(ctx, "k", time.Minute)
	if count != 2 {
		t.Fatalf("incr after decr want 2 got %d", count)
	}

	// decr on a missing key is a no-op
	if err := store.Decr(ctx, "missing"); err != nil {
		t.Fatalf("decr missing key failed: %v", err)
	}
}
