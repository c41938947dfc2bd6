package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"

	ctxUserKey   = "current_user"
	ctxUserIDKey = "user_id"
	bearerScheme = "Bearer"
)

// CORSMiddleware applies cross-origin headers.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware tags each request with an ID, honoring one sent
// by the client.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware writes one structured log line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RequireAuth validates the bearer token and loads the current user.
// An expired token gets a distinct message so clients know to refresh.
// Deactivated accounts are rejected even with a valid token.
func RequireAuth(authService *service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, authService, userRepo, true)
		if !ok {
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxUserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuth loads the current user when a valid token is present
// and stays silent otherwise.
func OptionalAuth(authService *service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := authenticate(c, authService, userRepo, false); ok && user != nil {
			c.Set(ctxUserKey, user)
			c.Set(ctxUserIDKey, user.ID)
		}
		c.Next()
	}
}

// authenticate resolves the bearer token to an active user. With
// required set, failures write the 401 response and abort.
func authenticate(c *gin.Context, authService *service.AuthService, userRepo repository.UserRepository, required bool) (*models.User, bool) {
	fail := func(msg string) (*models.User, bool) {
		if required {
			response.Unauthorized(c, msg)
			c.Abort()
		}
		return nil, false
	}

	tokenString := extractBearerToken(c)
	if tokenString == "" {
		return fail("authentication required")
	}

	claims, err := authService.ParseAccessToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fail("token expired")
		}
		return fail("invalid token")
	}

	user, err := userRepo.GetByID(claims.UserID)
	if err != nil || user == nil {
		return fail("invalid token")
	}
	if !user.IsActive {
		return fail("account disabled")
	}
	return user, true
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == bearerScheme {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	// browser clients may carry the access token in a cookie
	if cookie, err := c.Cookie("access_token"); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// RequireRole allows only the listed roles past.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToLower(role)] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if _, ok := allowed[strings.ToLower(user.Role)]; !ok {
			response.Forbidden(c, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission allows admins and users carrying the named
// permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if strings.EqualFold(user.Role, constants.RoleAdmin) {
			c.Next()
			return
		}
		for _, granted := range user.Permissions {
			if strings.EqualFold(granted, permission) {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}

// RequireVerifiedEmail rejects accounts that never confirmed their
// address.
func RequireVerifiedEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if !user.IsEmailVerified {
			response.Forbidden(c, "email verification required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context, nil when
// absent.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	if user, ok := value.(*models.User); ok {
		return user
	}
	return nil
}
