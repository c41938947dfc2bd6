package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/credential"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	verificationTokenBytes = 32
	resetTokenBytes        = 32
	refreshTokenBytes      = 64

	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// Mailer dispatches transactional auth emails. Implementations may
// deliver directly or enqueue for a background worker.
type Mailer interface {
	SendVerificationEmail(email, name, token string) error
	SendPasswordResetEmail(email, name, token string) error
	SendPasswordChangedEmail(email, name string) error
}

// AuthService owns registration, login, token lifecycle and password
// recovery.
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	creds    credential.Credentials
	mailer   Mailer
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, creds credential.Credentials, mailer Mailer) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		creds:    creds,
		mailer:   mailer,
	}
}

// Claims is the JWT payload for access tokens. The user id is the
// only custom claim; everything else is loaded live so role changes
// and deactivation take effect before the token expires.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// GenerateAccessToken signs a short-lived JWT for the user.
func (s *AuthService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.Auth.AccessExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates a JWT and returns its claims. Expiry is
// reported via jwt.ErrTokenExpired so callers can distinguish it from
// a malformed token.
func (s *AuthService) ParseAccessToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*Claims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrTokenInvalid
}

// Register creates an account and emails a verification link. The new
// account stays unverified until the link is followed.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(s.cfg.Auth.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	if err := checkIdentifiersFree(s.userRepo, email, username); err != nil {
		return nil, err
	}

	hash, err := s.creds.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	verifyToken, err := s.creds.GenerateToken(verificationTokenBytes)
	if err != nil {
		return nil, err
	}

	expire := time.Now().Add(verificationTokenTTL)
	user := &models.User{
		Username:                username,
		Email:                   email,
		PasswordHash:            hash,
		FirstName:               strings.TrimSpace(input.FirstName),
		LastName:                strings.TrimSpace(input.LastName),
		Phone:                   strings.TrimSpace(input.Phone),
		Role:                    constants.RoleUser,
		IsActive:                true,
		EmailVerificationToken:  verifyToken,
		EmailVerificationExpire: &expire,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.dispatchMail("verification", func() error {
		return s.mailer.SendVerificationEmail(user.Email, user.FullName(), verifyToken)
	})
	return user, nil
}

// Login authenticates by email or username and issues a token pair.
// Wrong identifier and wrong password are indistinguishable to the
// caller; failures count toward the lockout threshold.
func (s *AuthService) Login(identifier, password string) (*models.User, *TokenPair, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	user, err := s.userRepo.GetByEmailOrUsername(identifier)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.IsLocked() {
		return nil, nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}
	if !s.creds.Verify(user.PasswordHash, password) {
		lockCfg := s.cfg.Auth.Lockout
		if err := s.userRepo.RegisterFailedLogin(user.ID, lockCfg.MaxAttempts, lockCfg.LockDuration()); err != nil {
			logger.Errorw("register_failed_login_failed", "user_id", user.ID, "error", err)
		}
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.ResetLoginAttempts(user.ID, now); err != nil {
		return nil, nil, err
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLoginAt = &now

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the refresh token and issues a fresh access token.
// A token that was already rotated (replay) is rejected.
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	newToken, err := s.creds.GenerateToken(refreshTokenBytes)
	if err != nil {
		return nil, nil, err
	}
	refreshExpire := time.Now().Add(s.refreshTokenTTL())
	affected, err := s.userRepo.RotateRefreshToken(user.ID, refreshToken, newToken, refreshExpire)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		// lost the race against another rotation or a logout
		return nil, nil, ErrTokenInvalid
	}

	accessToken, accessExpire, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpire,
		RefreshToken:     newToken,
		RefreshExpiresAt: refreshExpire,
	}, nil
}

// Logout revokes the stored refresh token. Calling it again is a no-op.
func (s *AuthService) Logout(userID string) error {
	return s.userRepo.ClearRefreshToken(userID)
}

// VerifyEmail consumes a verification token and marks the address
// verified. Expired or unknown tokens fail with ErrTokenInvalid.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	if err := s.userRepo.MarkEmailVerified(user.ID); err != nil {
		return nil, err
	}
	user.IsEmailVerified = true
	user.EmailVerificationToken = ""
	return user, nil
}

// ResendVerification mints a fresh verification token. It succeeds
// silently for unknown or already verified addresses so the endpoint
// cannot be used to probe for accounts.
func (s *AuthService) ResendVerification(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		// unknown addresses get the same success as real ones
		return nil
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	token, err := s.creds.GenerateToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetVerificationToken(user.ID, token, time.Now().Add(verificationTokenTTL)); err != nil {
		return err
	}
	s.dispatchMail("verification", func() error {
		return s.mailer.SendVerificationEmail(user.Email, user.FullName(), token)
	})
	return nil
}

// ForgotPassword mints a reset token and mails it. The response is the
// same whether or not the address exists.
func (s *AuthService) ForgotPassword(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.creds.GenerateToken(resetTokenBytes)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}
	s.dispatchMail("password_reset", func() error {
		return s.mailer.SendPasswordResetEmail(user.Email, user.FullName(), token)
	})
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
// Existing sessions are revoked.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := ValidatePassword(s.cfg.Auth.PasswordPolicy, newPassword); err != nil {
		return err
	}
	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrTokenInvalid
	}

	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	s.dispatchMail("password_changed", func() error {
		return s.mailer.SendPasswordChangedEmail(user.Email, user.FullName())
	})
	return nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if !s.creds.Verify(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(s.cfg.Auth.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	s.dispatchMail("password_changed", func() error {
		return s.mailer.SendPasswordChangedEmail(user.Email, user.FullName())
	})
	return nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, accessExpire, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.creds.GenerateToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}
	refreshExpire := time.Now().Add(s.refreshTokenTTL())
	if err := s.userRepo.SetRefreshToken(user.ID, refreshToken, refreshExpire); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpire,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpire,
	}, nil
}

func (s *AuthService) refreshTokenTTL() time.Duration {
	hours := s.cfg.Auth.RefreshExpireHours
	if hours <= 0 {
		hours = 7 * 24
	}
	return time.Duration(hours) * time.Hour
}

// dispatchMail fires a mail job without blocking the request. Delivery
// failures are logged, never surfaced to the caller.
func (s *AuthService) dispatchMail(kind string, send func() error) {
	if s.mailer == nil {
		return
	}
	go func() {
		if err := send(); err != nil {
			logger.Errorw("auth_mail_dispatch_failed", "kind", kind, "error", err)
		}
	}()
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" {
		return "", ErrInvalidInput
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidInput
	}
	return trimmed, nil
}

// normalizeUsername folds the username to lowercase so lookups stay
// case-insensitive end to end; login folds the identifier the same way.
func normalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(username))
	if trimmed == "" {
		return "", ErrInvalidInput
	}
	return trimmed, nil
}

// checkIdentifiersFree reports which registration identifier collides.
func checkIdentifiersFree(repo repository.UserRepository, email, username string) error {
	existing, err := repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	existing, err = repo.GetByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}
	return nil
}
