package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the account signup payload.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Register creates an account and sends the verification mail.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := h.AuthService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, "email already registered")
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, "username already taken")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid registration details")
		default:
			response.InternalError(c, "registration failed")
		}
		return
	}

	response.CreatedWithMsg(c, "account created, check your inbox to verify your email", gin.H{
		"user": user,
	})
}

// LoginRequest is the credential login payload. Identifier accepts
// either the email address or the username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

// Login authenticates and issues an access/refresh token pair.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		response.BadRequest(c, "identifier is required")
		return
	}

	user, pair, err := h.AuthService.Login(identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid credentials")
		case errors.Is(err, service.ErrAccountLocked):
			response.Error(c, http.StatusLocked, "account temporarily locked, try again later")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Unauthorized(c, "account disabled")
		default:
			response.InternalError(c, "login failed")
		}
		return
	}

	setAuthCookies(c, pair)
	response.Success(c, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// RefreshRequest carries the refresh token when it is not sent as a
// cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates the refresh token and mints a fresh access token.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)
	token := refreshTokenFromRequest(c, req.RefreshToken)
	if token == "" {
		response.Unauthorized(c, "refresh token required")
		return
	}

	user, pair, err := h.AuthService.Refresh(token)
	if err != nil {
		clearAuthCookies(c)
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			response.Unauthorized(c, "invalid refresh token")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Unauthorized(c, "account disabled")
		default:
			response.InternalError(c, "token refresh failed")
		}
		return
	}

	setAuthCookies(c, pair)
	response.Success(c, gin.H{
		"user":   user,
		"tokens": pair,
	})
}

// Logout revokes the stored refresh token.
func (h *Handler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(user.ID); err != nil {
		response.InternalError(c, "logout failed")
		return
	}
	clearAuthCookies(c)
	response.SuccessWithMsg(c, "logged out", nil)
}

// VerifyEmailRequest carries the verification token when it is not
// passed as a query parameter.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmail consumes a verification token.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	_ = c.ShouldBindJSON(&req)
	token := req.Token
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		response.BadRequest(c, "verification token required")
		return
	}

	user, err := h.AuthService.VerifyEmail(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			response.BadRequest(c, "invalid or expired verification token")
		default:
			response.InternalError(c, "email verification failed")
		}
		return
	}
	response.SuccessWithMsg(c, "email verified", gin.H{"user": user})
}

// EmailRequest is the payload for the resend and forgot endpoints.
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResendVerification mints a fresh verification token. The response
// never reveals whether the address exists.
func (h *Handler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.AuthService.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			response.BadRequest(c, "email is already verified")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid email address")
		default:
			response.InternalError(c, "could not send verification email")
		}
		return
	}
	response.SuccessWithMsg(c, "if that address needs verification, a link has been sent", nil)
}

// ForgotPassword mails a reset link. The response is identical whether
// or not the address exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.AuthService.ForgotPassword(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid email address")
		default:
			response.InternalError(c, "could not process the request")
		}
		return
	}
	response.SuccessWithMsg(c, "if that address is registered, a reset link has been sent", nil)
}

// ResetPasswordRequest is the token-based reset payload.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword consumes a reset token and replaces the password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.AuthService.ResetPassword(req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			response.BadRequest(c, "invalid or expired reset token")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "password reset failed")
		}
		return
	}
	response.SuccessWithMsg(c, "password updated, sign in with your new password", nil)
}

// ChangePasswordRequest is the logged-in password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword replaces the password after checking the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.AuthService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.BadRequest(c, "current password is incorrect")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "account not found")
		default:
			response.InternalError(c, "password change failed")
		}
		return
	}
	clearAuthCookies(c)
	response.SuccessWithMsg(c, "password changed, sign in again", nil)
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"user": user})
}

// ProfileUpdateRequest is the self-service profile payload. Absent
// fields are left untouched.
type ProfileUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Avatar    *string `json:"avatar"`
	Email     *string `json:"email"`
}

// UpdateProfile applies self-service profile edits.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	updated, err := h.UserService.UpdateProfile(user.ID, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Email:     req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "account not found")
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, "email is already in use")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid email address")
		default:
			response.InternalError(c, "profile update failed")
		}
		return
	}
	msg := "profile updated"
	if req.Email != nil && !updated.IsEmailVerified {
		msg = "profile updated, check your inbox to verify the new address"
	}
	response.SuccessWithMsg(c, msg, gin.H{"user": updated})
}

func refreshTokenFromRequest(c *gin.Context, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if cookie, err := c.Cookie("refresh_token"); err == nil {
		return cookie
	}
	return ""
}

func setAuthCookies(c *gin.Context, pair *service.TokenPair) {
	if pair == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken, int(time.Until(pair.AccessExpiresAt).Seconds()), "/", "", false, true)
	c.SetCookie("refresh_token", pair.RefreshToken, int(time.Until(pair.RefreshExpiresAt).Seconds()), "/", "", false, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
}
