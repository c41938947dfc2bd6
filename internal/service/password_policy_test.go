package service

import (
	"errors"
	"testing"

	"github.com/paveworks/paveworks-api/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	if err := ValidatePassword(policy, "Str0ngPass"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}

	cases := []string{
		"Sh0rt",      // too short
		"alllower1",  // no upper
		"ALLUPPER1",  // no lower
		"NoDigitsAB", // no number
	}
	for _, password := range cases {
		err := ValidatePassword(policy, password)
		if err == nil {
			t.Fatalf("password %q should be rejected", password)
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("error for %q should wrap ErrWeakPassword, got %v", password, err)
		}
	}
}

func TestValidatePasswordSpecialRequirement(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireSpecial: true}
	if err := ValidatePassword(policy, "password1"); err == nil {
		t.Fatal("missing special character should be rejected")
	}
	if err := ValidatePassword(policy, "password1!"); err != nil {
		t.Fatalf("password with special rejected: %v", err)
	}
}
