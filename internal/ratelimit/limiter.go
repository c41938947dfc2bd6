package ratelimit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/logger"

	"github.com/gin-gonic/gin"
)

// KeyFunc derives the counting key from a request.
type KeyFunc func(*gin.Context) string

// Rule is one route class's fixed-window admission policy.
type Rule struct {
	Name          string
	WindowSeconds int
	MaxRequests   int
	Message       string
	// RefundSuccess refunds hits for requests that finish below 400,
	// so only failures count toward the ceiling.
	RefundSuccess bool
}

// RuleFromConfig builds a Rule from a config class entry.
func RuleFromConfig(name string, cfg config.RateClassConfig) Rule {
	return Rule{
		Name:          name,
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxRequests,
	}
}

// Limiter owns the shared store and trusted-IP allowlist.
type Limiter struct {
	store      Store
	enabled    bool
	trustedIPs []*net.IPNet
}

// NewLimiter creates a limiter. Entries in trusted may be plain IPs or
// CIDR blocks; malformed entries are logged and skipped.
func NewLimiter(store Store, enabled bool, trusted []string) *Limiter {
	l := &Limiter{store: store, enabled: enabled}
	for _, entry := range trusted {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil {
				bits := 32
				if ip.To4() == nil {
					bits = 128
				}
				entry = fmt.Sprintf("%s/%d", entry, bits)
			}
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			logger.Warnw("trusted_ip_entry_invalid", "entry", entry, "error", err)
			continue
		}
		l.trustedIPs = append(l.trustedIPs, network)
	}
	return l
}

// IsTrusted reports whether an IP bypasses all limits.
func (l *Limiter) IsTrusted(clientIP string) bool {
	ip := net.ParseIP(clientIP)
	if ip == nil {
		return false
	}
	for _, network := range l.trustedIPs {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// Middleware enforces a rule. Request N within the window passes when
// N <= MaxRequests; request N+1 is rejected with 429 and a Retry-After
// hint.
func (l *Limiter) Middleware(rule Rule, keyFunc KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled || l.store == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}
		if l.IsTrusted(c.ClientIP()) {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		key = rule.Name + ":" + key

		window := time.Duration(rule.WindowSeconds) * time.Second
		count, ttl, err := l.store.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Errorw("rate_limit_store_failed", "rule", rule.Name, "error", err)
			response.InternalError(c, "rate limiter unavailable")
			c.Abort()
			return
		}

		if count > int64(rule.MaxRequests) {
			retryAfter := int(ttl / time.Second)
			if retryAfter < 1 {
				retryAfter = rule.WindowSeconds
			}
			msg := rule.Message
			if msg == "" {
				msg = "too many requests, slow down"
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.TooManyRequests(c, msg, retryAfter)
			c.Abort()
			return
		}

		c.Next()

		if rule.RefundSuccess && c.Writer.Status() < http.StatusBadRequest {
			if err := l.store.Decr(c.Request.Context(), key); err != nil {
				logger.Warnw("rate_limit_refund_failed", "rule", rule.Name, "error", err)
			}
		}
	}
}

// SlowDown adds a progressive delay once a client passes the threshold
// inside the window, before the hard ceiling rejects outright.
func (l *Limiter) SlowDown(cfg config.SlowDownConfig, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled || l.store == nil || cfg.Threshold <= 0 || windowSeconds <= 0 {
			c.Next()
			return
		}
		if l.IsTrusted(c.ClientIP()) {
			c.Next()
			return
		}

		key := "slowdown:" + c.ClientIP()
		window := time.Duration(windowSeconds) * time.Second
		count, _, err := l.store.Incr(c.Request.Context(), key, window)
		if err != nil {
			// delay layer fails open, the hard limiter still stands
			logger.Warnw("slow_down_store_failed", "error", err)
			c.Next()
			return
		}

		over := count - int64(cfg.Threshold)
		if over <= 0 {
			c.Next()
			return
		}

		delay := time.Duration(over) * time.Duration(cfg.StepMS) * time.Millisecond
		maxDelay := time.Duration(cfg.MaxDelayMS) * time.Millisecond
		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP keys counters on the client IP.
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUserOrIP keys counters on the authenticated user's ID, falling
// back to the client IP for anonymous requests. Apply it after the
// auth middleware so the user is already resolved.
func KeyByUserOrIP(c *gin.Context) string {
	if raw, ok := c.Get("user_id"); ok {
		if id, ok := raw.(string); ok && id != "" {
			return "user:" + id
		}
	}
	return c.ClientIP()
}

// KeyByIPAndJSONField keys counters on a JSON body field plus the
// client IP, so one address cannot spray many identifiers.
func KeyByIPAndJSONField(field string) KeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

// readJSONField peeks a field out of the request body and restores the
// body for downstream handlers.
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if text, ok := payload[field].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
