package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"
)

// Email delivery sentinels, kept here so handlers can detect a
// misconfigured mailer separately from transport failures.
var (
	ErrEmailServiceDisabled      = errors.New("email delivery disabled")
	ErrEmailServiceNotConfigured = errors.New("email delivery not configured")
)

// EmailService delivers transactional mail over SMTP. It implements
// both Mailer and ContactMailer.
type EmailService struct {
	cfg  *config.EmailConfig
	site *config.SiteConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig, site *config.SiteConfig) *EmailService {
	return &EmailService{cfg: cfg, site: site}
}

// SendVerificationEmail mails the account verification link.
func (s *EmailService) SendVerificationEmail(email, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.clientURL(), token)
	subject := fmt.Sprintf("Verify your %s account", s.siteName())
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for signing up. Confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create this account, ignore this message.",
		displayName(name), link,
	)
	return s.sendTextEmail(email, subject, body)
}

// SendPasswordResetEmail mails the password reset link.
func (s *EmailService) SendPasswordResetEmail(email, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL(), token)
	subject := fmt.Sprintf("%s password reset", s.siteName())
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in 1 hour. If you did not request this, you can safely ignore this message.",
		displayName(name), link,
	)
	return s.sendTextEmail(email, subject, body)
}

// SendPasswordChangedEmail notifies that the password was changed.
func (s *EmailService) SendPasswordChangedEmail(email, name string) error {
	subject := fmt.Sprintf("%s password changed", s.siteName())
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account password was just changed and all active sessions were signed out. If this was not you, reset your password immediately.",
		displayName(name),
	)
	return s.sendTextEmail(email, subject, body)
}

// SendContactNotification forwards an inbox entry to the admin inbox.
func (s *EmailService) SendContactNotification(contact *models.Contact) error {
	if s.cfg == nil || s.cfg.AdminInbox == "" {
		return ErrEmailServiceNotConfigured
	}
	kind := "contact message"
	if contact.Kind == constants.ContactKindQuote {
		kind = "quote request"
	}
	subject := fmt.Sprintf("New %s from %s", kind, contact.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n", contact.Name, contact.Email)
	if contact.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", contact.Phone)
	}
	if contact.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", contact.Company)
	}
	if contact.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", contact.Location)
	}
	if contact.AreaSqm > 0 {
		fmt.Fprintf(&b, "Area: %.1f sqm\n", contact.AreaSqm)
	}
	if contact.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", contact.Budget)
	}
	if contact.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", contact.Subject)
	}
	fmt.Fprintf(&b, "\n%s\n", contact.Message)

	return s.sendTextEmail(s.cfg.AdminInbox, subject, b.String())
}

// SendContactReply mails an admin reply back to the sender.
func (s *EmailService) SendContactReply(email, name, subject, body string) error {
	text := fmt.Sprintf("Hi %s,\n\n%s\n\n— %s", displayName(name), body, s.siteName())
	return s.sendTextEmail(email, subject, text)
}

func (s *EmailService) clientURL() string {
	if s.site != nil && s.site.ClientURL != "" {
		return strings.TrimSuffix(s.site.ClientURL, "/")
	}
	return "http://localhost:3000"
}

func (s *EmailService) siteName() string {
	if s.site != nil && s.site.Name != "" {
		return s.site.Name
	}
	return "PaveWorks"
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return strings.TrimSpace(name)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidInput
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
