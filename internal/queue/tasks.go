package queue

import (
	"encoding/json"

	"github.com/paveworks/paveworks-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskEmailVerification delivers the account verification link.
	TaskEmailVerification = constants.TaskEmailVerification
	// TaskEmailPasswordReset delivers the password reset link.
	TaskEmailPasswordReset = constants.TaskEmailPasswordReset
	// TaskEmailPasswordChanged notifies that a password was changed.
	TaskEmailPasswordChanged = constants.TaskEmailPasswordChanged
	// TaskEmailContactNotify forwards an intake entry to the admin inbox.
	TaskEmailContactNotify = constants.TaskEmailContactNotify
	// TaskEmailContactReply mails an admin reply back to the sender.
	TaskEmailContactReply = constants.TaskEmailContactReply
)

// AccountEmailPayload carries a tokenized account mail (verification or
// password reset). Token is empty for the password-changed notice.
type AccountEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// ContactNotifyPayload references an intake entry by id; the worker
// reloads it so the notification reflects the stored record.
type ContactNotifyPayload struct {
	ContactID uint `json:"contact_id"`
}

// ContactReplyPayload carries an admin reply to an intake sender.
type ContactReplyPayload struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewAccountEmailTask builds one of the account mail tasks.
func NewAccountEmailTask(taskType string, payload AccountEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

// NewContactNotifyTask builds the admin-inbox notification task.
func NewContactNotifyTask(payload ContactNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailContactNotify, body), nil
}

// NewContactReplyTask builds the reply-to-sender task.
func NewContactReplyTask(payload ContactReplyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailContactReply, body), nil
}
