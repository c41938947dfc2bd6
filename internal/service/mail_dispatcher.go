package service

import (
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/queue"
)

// MailDispatcher routes transactional mail through the task queue when
// one is configured, falling back to synchronous SMTP delivery
// otherwise. It satisfies both Mailer and ContactMailer so the auth and
// contact services never know which path is live.
type MailDispatcher struct {
	queue  *queue.Client
	direct *EmailService
}

// NewMailDispatcher creates the dispatcher.
func NewMailDispatcher(q *queue.Client, direct *EmailService) *MailDispatcher {
	return &MailDispatcher{queue: q, direct: direct}
}

func (d *MailDispatcher) queued() bool {
	return d != nil && d.queue != nil && d.queue.Enabled()
}

// SendVerificationEmail delivers the account verification link.
func (d *MailDispatcher) SendVerificationEmail(email, name, token string) error {
	if d.queued() {
		return d.queue.EnqueueAccountEmail(queue.TaskEmailVerification, queue.AccountEmailPayload{
			Email: email,
			Name:  name,
			Token: token,
		})
	}
	return d.direct.SendVerificationEmail(email, name, token)
}

// SendPasswordResetEmail delivers the password reset link.
func (d *MailDispatcher) SendPasswordResetEmail(email, name, token string) error {
	if d.queued() {
		return d.queue.EnqueueAccountEmail(queue.TaskEmailPasswordReset, queue.AccountEmailPayload{
			Email: email,
			Name:  name,
			Token: token,
		})
	}
	return d.direct.SendPasswordResetEmail(email, name, token)
}

// SendPasswordChangedEmail notifies that the password was changed.
func (d *MailDispatcher) SendPasswordChangedEmail(email, name string) error {
	if d.queued() {
		return d.queue.EnqueueAccountEmail(queue.TaskEmailPasswordChanged, queue.AccountEmailPayload{
			Email: email,
			Name:  name,
		})
	}
	return d.direct.SendPasswordChangedEmail(email, name)
}

// SendContactNotification forwards an intake entry to the admin inbox.
func (d *MailDispatcher) SendContactNotification(contact *models.Contact) error {
	if contact == nil {
		return ErrInvalidInput
	}
	if d.queued() {
		return d.queue.EnqueueContactNotify(queue.ContactNotifyPayload{ContactID: contact.ID})
	}
	return d.direct.SendContactNotification(contact)
}

// SendContactReply mails an admin reply back to the sender.
func (d *MailDispatcher) SendContactReply(email, name, subject, body string) error {
	if d.queued() {
		return d.queue.EnqueueContactReply(queue.ContactReplyPayload{
			Email:   email,
			Name:    name,
			Subject: subject,
			Body:    body,
		})
	}
	return d.direct.SendContactReply(email, name, subject, body)
}
