package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/provider"
	"github.com/paveworks/paveworks-api/internal/queue"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the queued mail tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskEmailVerification, c.handleVerificationEmail)
	mux.HandleFunc(queue.TaskEmailPasswordReset, c.handlePasswordResetEmail)
	mux.HandleFunc(queue.TaskEmailPasswordChanged, c.handlePasswordChangedEmail)
	mux.HandleFunc(queue.TaskEmailContactNotify, c.handleContactNotify)
	mux.HandleFunc(queue.TaskEmailContactReply, c.handleContactReply)
}

func (c *Consumer) handleVerificationEmail(_ context.Context, task *asynq.Task) error {
	payload, ok := c.decodeAccountPayload("worker_email_verification", task)
	if !ok {
		return nil
	}
	err := c.EmailService.SendVerificationEmail(payload.Email, payload.Name, payload.Token)
	return c.finishSend("worker_email_verification", payload.Email, err)
}

func (c *Consumer) handlePasswordResetEmail(_ context.Context, task *asynq.Task) error {
	payload, ok := c.decodeAccountPayload("worker_email_password_reset", task)
	if !ok {
		return nil
	}
	err := c.EmailService.SendPasswordResetEmail(payload.Email, payload.Name, payload.Token)
	return c.finishSend("worker_email_password_reset", payload.Email, err)
}

func (c *Consumer) handlePasswordChangedEmail(_ context.Context, task *asynq.Task) error {
	payload, ok := c.decodeAccountPayload("worker_email_password_changed", task)
	if !ok {
		return nil
	}
	err := c.EmailService.SendPasswordChangedEmail(payload.Email, payload.Name)
	return c.finishSend("worker_email_password_changed", payload.Email, err)
}

func (c *Consumer) handleContactNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ContactNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ContactID == 0 {
		logger.Debugw("worker_contact_notify_skip_invalid_payload", "contact_id", payload.ContactID)
		return nil
	}
	contact, err := c.ContactRepo.GetByID(payload.ContactID)
	if err != nil {
		logger.Warnw("worker_contact_notify_fetch_failed", "contact_id", payload.ContactID, "error", err)
		return err
	}
	if contact == nil {
		logger.Debugw("worker_contact_notify_skip_not_found", "contact_id", payload.ContactID)
		return nil
	}
	err = c.EmailService.SendContactNotification(contact)
	return c.finishSend("worker_contact_notify", contact.Email, err)
}

func (c *Consumer) handleContactReply(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ContactReplyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_reply_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Email) == "" {
		logger.Debugw("worker_contact_reply_skip_empty_receiver")
		return nil
	}
	err := c.EmailService.SendContactReply(payload.Email, payload.Name, payload.Subject, payload.Body)
	return c.finishSend("worker_contact_reply", payload.Email, err)
}

func (c *Consumer) decodeAccountPayload(tag string, task *asynq.Task) (queue.AccountEmailPayload, bool) {
	var payload queue.AccountEmailPayload
	if c == nil || task == nil {
		return payload, false
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw(tag+"_unmarshal_failed", "error", err)
		return payload, false
	}
	if strings.TrimSpace(payload.Email) == "" {
		logger.Debugw(tag + "_skip_empty_receiver")
		return payload, false
	}
	if c.EmailService == nil {
		logger.Warnw(tag + "_skip_email_service_nil")
		return payload, false
	}
	return payload, true
}

// finishSend maps delivery results to retry semantics: a disabled or
// unconfigured mailer is permanent, so retrying the task is pointless.
func (c *Consumer) finishSend(tag, email string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
		logger.Debugw(tag+"_skip_mailer_unavailable", "email", email, "error", err)
		return nil
	}
	logger.Warnw(tag+"_send_failed", "email", email, "error", err)
	return err
}
