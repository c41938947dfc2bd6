package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto
// HTTP statuses; everything else is treated as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrTokenInvalid       = errors.New("token invalid or expired")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidInput       = errors.New("invalid input")
)
