package service

import (
	"fmt"
	"unicode"

	"github.com/paveworks/paveworks-api/internal/config"
)

// ValidatePassword checks a plaintext password against the configured
// strength policy. The returned error wraps ErrWeakPassword with a
// human-readable reason.
func ValidatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLen := policy.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(password) < minLen {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, minLen)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: must contain an uppercase letter", ErrWeakPassword)
	}
	if policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: must contain a lowercase letter", ErrWeakPassword)
	}
	if policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	}
	if policy.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: must contain a special character", ErrWeakPassword)
	}
	return nil
}
