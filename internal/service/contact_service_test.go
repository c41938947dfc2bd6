package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type recordingContactMailer struct {
	mu            sync.Mutex
	notifications int
	replies       []string
	replyErr      error
}

func (m *recordingContactMailer) SendContactNotification(contact *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications++
	return nil
}

func (m *recordingContactMailer) SendContactReply(email, name, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replyErr != nil {
		return m.replyErr
	}
	m.replies = append(m.replies, subject)
	return nil
}

func setupContactServiceTest(t *testing.T) (*ContactService, *recordingContactMailer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Contact{}, &models.Service{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Unscoped().Where("1 = 1").Delete(&models.Contact{}).Error; err != nil {
		t.Fatalf("truncate contacts failed: %v", err)
	}
	if err := db.Unscoped().Where("1 = 1").Delete(&models.Service{}).Error; err != nil {
		t.Fatalf("truncate services failed: %v", err)
	}
	mailer := &recordingContactMailer{}
	svc := NewContactService(repository.NewContactRepository(db), repository.NewServiceRepository(db), mailer)
	return svc, mailer, db
}

func TestSubmitContactValidation(t *testing.T) {
	svc, _, _ := setupContactServiceTest(t)

	if _, err := svc.SubmitContact(ContactInput{Email: "a@example.com", Message: "hi"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing name want ErrInvalidInput got %v", err)
	}
	if _, err := svc.SubmitContact(ContactInput{Name: "A", Email: "not-an-email", Message: "hi"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad email want ErrInvalidInput got %v", err)
	}

	missing := uint(999)
	if _, err := svc.SubmitQuote(ContactInput{
		Name:      "A",
		Email:     "a@example.com",
		Message:   "need a quote",
		ServiceID: &missing,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown service want ErrInvalidInput got %v", err)
	}
}

func TestSubmitQuoteStoresJobDetails(t *testing.T) {
	svc, _, db := setupContactServiceTest(t)

	paving := models.Service{Slug: "paving", Name: "Paving", IsActive: true}
	if err := db.Create(&paving).Error; err != nil {
		t.Fatalf("seed service failed: %v", err)
	}

	contact, err := svc.SubmitQuote(ContactInput{
		Name:      "  Dana Whitfield  ",
		Email:     "Dana@Example.com",
		Message:   "Resurface our lot",
		ServiceID: &paving.ID,
		Location:  "Riverside, OH",
		AreaSqm:   4800,
		Budget:    "50k-80k",
		IPAddress: "203.0.113.10",
	})
	if err != nil {
		t.Fatalf("submit quote failed: %v", err)
	}
	if contact.Kind != constants.ContactKindQuote {
		t.Fatalf("kind want quote got %s", contact.Kind)
	}
	if contact.Status != constants.ContactStatusNew {
		t.Fatalf("status want new got %s", contact.Status)
	}
	if contact.Name != "Dana Whitfield" {
		t.Fatalf("name should be trimmed, got %q", contact.Name)
	}
	if contact.Email != "dana@example.com" {
		t.Fatalf("email should be lowercased, got %q", contact.Email)
	}
	if contact.AreaSqm != 4800 {
		t.Fatalf("area want 4800 got %v", contact.AreaSqm)
	}
}

func TestGetByIDMarksRead(t *testing.T) {
	svc, _, _ := setupContactServiceTest(t)

	created, err := svc.SubmitContact(ContactInput{Name: "A", Email: "a@example.com", Message: "hello"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	got, err := svc.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != constants.ContactStatusRead {
		t.Fatalf("first read should mark read, got %s", got.Status)
	}
	if got.ReadAt == nil {
		t.Fatal("read_at must be set")
	}

	if _, err := svc.GetByID(99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id want ErrNotFound got %v", err)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc, _, _ := setupContactServiceTest(t)

	created, err := svc.SubmitContact(ContactInput{Name: "A", Email: "a@example.com", Message: "hello"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := svc.UpdateStatus(created.ID, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status want ErrInvalidInput got %v", err)
	}
	if err := svc.UpdateStatus(created.ID, constants.ContactStatusArchived); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if err := svc.UpdateStatus(99999, constants.ContactStatusRead); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id want ErrNotFound got %v", err)
	}
}

func TestReplyMarksReplied(t *testing.T) {
	svc, mailer, _ := setupContactServiceTest(t)

	created, err := svc.SubmitContact(ContactInput{
		Name:    "A",
		Email:   "a@example.com",
		Subject: "Driveway quote",
		Message: "hello",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := svc.Reply(created.ID, "", "We can start next week."); err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	mailer.mu.Lock()
	replies := append([]string(nil), mailer.replies...)
	mailer.mu.Unlock()
	if len(replies) != 1 || replies[0] != "Re: Driveway quote" {
		t.Fatalf("default subject want 'Re: Driveway quote' got %v", replies)
	}

	got, err := svc.GetByID(created.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.Status != constants.ContactStatusReplied {
		t.Fatalf("status want replied got %s", got.Status)
	}

	if err := svc.Reply(created.ID, "subject", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank body want ErrInvalidInput got %v", err)
	}

	mailer.replyErr = errors.New("smtp down")
	if err := svc.Reply(created.ID, "subject", "body"); err == nil {
		t.Fatal("mailer failure must surface to the caller")
	}
}

func TestBulkStatusAndDelete(t *testing.T) {
	svc, _, _ := setupContactServiceTest(t)

	var ids []uint
	for _, name := range []string{"A", "B", "C"} {
		created, err := svc.SubmitContact(ContactInput{
			Name:    name,
			Email:   "a@example.com",
			Message: "hello",
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		ids = append(ids, created.ID)
	}

	if _, err := svc.UpdateStatusBulk(ids, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status want ErrInvalidInput got %v", err)
	}
	if _, err := svc.UpdateStatusBulk(nil, constants.ContactStatusRead); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty ids want ErrInvalidInput got %v", err)
	}

	updated, err := svc.UpdateStatusBulk(ids[:2], constants.ContactStatusRead)
	if err != nil {
		t.Fatalf("bulk status failed: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated want 2 got %d", updated)
	}
	got, err := svc.GetByID(ids[0])
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.Status != constants.ContactStatusRead {
		t.Fatalf("status want read got %s", got.Status)
	}

	deleted, err := svc.DeleteBulk(ids)
	if err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted want 3 got %d", deleted)
	}
	if _, err := svc.GetByID(ids[2]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted entry want ErrNotFound got %v", err)
	}
}
