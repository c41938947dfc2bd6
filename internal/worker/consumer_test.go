package worker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/paveworks/paveworks-api/internal/queue"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/hibiken/asynq"
)

func TestFinishSendRetrySemantics(t *testing.T) {
	c := &Consumer{}

	if err := c.finishSend("test", "a@example.com", nil); err != nil {
		t.Fatalf("nil send error should be nil, got %v", err)
	}
	if err := c.finishSend("test", "a@example.com", service.ErrEmailServiceDisabled); err != nil {
		t.Fatalf("disabled mailer should not trigger retry, got %v", err)
	}
	if err := c.finishSend("test", "a@example.com", fmt.Errorf("deliver: %w", service.ErrEmailServiceNotConfigured)); err != nil {
		t.Fatalf("unconfigured mailer should not trigger retry, got %v", err)
	}

	transport := errors.New("dial tcp: connection refused")
	if err := c.finishSend("test", "a@example.com", transport); !errors.Is(err, transport) {
		t.Fatalf("transport error should propagate for retry, got %v", err)
	}
}

func TestDecodeAccountPayload(t *testing.T) {
	c := &Consumer{}

	if _, ok := c.decodeAccountPayload("test", nil); ok {
		t.Fatalf("nil task should not decode")
	}

	task := asynq.NewTask(queue.TaskEmailVerification, []byte("not-json"))
	if _, ok := c.decodeAccountPayload("test", task); ok {
		t.Fatalf("malformed payload should not decode")
	}

	task, err := queue.NewAccountEmailTask(queue.TaskEmailVerification, queue.AccountEmailPayload{Name: "no address"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if _, ok := c.decodeAccountPayload("test", task); ok {
		t.Fatalf("empty receiver should be skipped")
	}
}
