package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/paveworks/paveworks-api/internal/config"
)

func TestEmailServiceDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false}, nil)
	err := svc.SendVerificationEmail("user@example.com", "User", "token")
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled mailer want ErrEmailServiceDisabled got %v", err)
	}
}

func TestEmailServiceNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true}, nil)
	err := svc.SendPasswordResetEmail("user@example.com", "User", "token")
	if !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host want ErrEmailServiceNotConfigured got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	msg := buildEmailMessage("PaveWorks <no-reply@example.com>", "user@example.com", "Hello", "Body text")
	wantHeaders := []string{
		"From: PaveWorks <no-reply@example.com>\r\n",
		"To: user@example.com\r\n",
		"Subject: Hello\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
	}
	for _, header := range wantHeaders {
		if !strings.Contains(msg, header) {
			t.Fatalf("message missing header %q", header)
		}
	}
	if !strings.Contains(msg, "\r\n\r\nBody text") {
		t.Fatal("message must separate body with a blank line")
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("no-reply@example.com", ""); got != "no-reply@example.com" {
		t.Fatalf("bare from want plain address got %q", got)
	}
	got := buildFromAddress("no-reply@example.com", "PaveWorks")
	if !strings.Contains(got, "PaveWorks") || !strings.Contains(got, "no-reply@example.com") {
		t.Fatalf("named from missing parts: %q", got)
	}
}
