package service

import (
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// ContactMailer dispatches inbox-related emails.
type ContactMailer interface {
	SendContactNotification(contact *models.Contact) error
	SendContactReply(email, name, subject, body string) error
}

// ContactService handles the public contact and quote intake plus the
// admin inbox.
type ContactService struct {
	contactRepo repository.ContactRepository
	serviceRepo repository.ServiceRepository
	mailer      ContactMailer
}

// NewContactService creates the contact service.
func NewContactService(contactRepo repository.ContactRepository, serviceRepo repository.ServiceRepository, mailer ContactMailer) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		serviceRepo: serviceRepo,
		mailer:      mailer,
	}
}

// ContactInput is the payload for public intake.
type ContactInput struct {
	Name      string
	Email     string
	Phone     string
	Company   string
	Subject   string
	Message   string
	ServiceID *uint
	Location  string
	AreaSqm   float64
	Budget    string
	IPAddress string
	UserAgent string
}

// SubmitContact records a plain contact-form message.
func (s *ContactService) SubmitContact(input ContactInput) (*models.Contact, error) {
	return s.submit(constants.ContactKindContact, input)
}

// SubmitQuote records a quote request with job details.
func (s *ContactService) SubmitQuote(input ContactInput) (*models.Contact, error) {
	return s.submit(constants.ContactKindQuote, input)
}

func (s *ContactService) submit(kind string, input ContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)
	message := strings.TrimSpace(input.Message)
	if name == "" || message == "" {
		return nil, ErrInvalidInput
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.ServiceID != nil && *input.ServiceID > 0 {
		service, err := s.serviceRepo.GetByID(*input.ServiceID)
		if err != nil {
			return nil, err
		}
		if service == nil {
			return nil, ErrInvalidInput
		}
	}

	contact := &models.Contact{
		Kind:      kind,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Company:   strings.TrimSpace(input.Company),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   message,
		ServiceID: input.ServiceID,
		Location:  strings.TrimSpace(input.Location),
		AreaSqm:   input.AreaSqm,
		Budget:    strings.TrimSpace(input.Budget),
		Status:    constants.ContactStatusNew,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendContactNotification(contact); err != nil {
				logger.Errorw("contact_notification_failed", "contact_id", contact.ID, "error", err)
			}
		}()
	}
	return contact, nil
}

// List returns a page of inbox entries.
func (s *ContactService) List(filter repository.ContactListFilter) ([]models.Contact, int64, error) {
	return s.contactRepo.List(filter)
}

// GetByID returns an inbox entry, marking new entries as read.
func (s *ContactService) GetByID(id uint) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	if contact.Status == constants.ContactStatusNew {
		now := time.Now()
		if _, err := s.contactRepo.UpdateStatus(contact.ID, constants.ContactStatusRead, now); err != nil {
			return nil, err
		}
		contact.Status = constants.ContactStatusRead
		contact.ReadAt = &now
	}
	return contact, nil
}

// UpdateStatus transitions an inbox entry.
func (s *ContactService) UpdateStatus(id uint, status string) error {
	switch status {
	case constants.ContactStatusNew, constants.ContactStatusRead,
		constants.ContactStatusReplied, constants.ContactStatusArchived:
	default:
		return ErrInvalidInput
	}
	affected, err := s.contactRepo.UpdateStatus(id, status, time.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reply sends a reply email to the sender and marks the entry replied.
func (s *ContactService) Reply(id uint, subject, body string) error {
	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrNotFound
	}
	if strings.TrimSpace(body) == "" {
		return ErrInvalidInput
	}
	if subject == "" {
		subject = "Re: " + contact.Subject
	}
	if s.mailer != nil {
		if err := s.mailer.SendContactReply(contact.Email, contact.Name, subject, body); err != nil {
			return err
		}
	}
	_, err = s.contactRepo.UpdateStatus(id, constants.ContactStatusReplied, time.Now())
	return err
}

// UpdateStatusBulk transitions several inbox entries at once and
// returns how many rows changed.
func (s *ContactService) UpdateStatusBulk(ids []uint, status string) (int64, error) {
	switch status {
	case constants.ContactStatusNew, constants.ContactStatusRead,
		constants.ContactStatusReplied, constants.ContactStatusArchived:
	default:
		return 0, ErrInvalidInput
	}
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	return s.contactRepo.UpdateStatusBulk(ids, status, time.Now())
}

// DeleteBulk removes several inbox entries at once.
func (s *ContactService) DeleteBulk(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrInvalidInput
	}
	return s.contactRepo.DeleteBulk(ids)
}

// Delete removes an inbox entry.
func (s *ContactService) Delete(id uint) error {
	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrNotFound
	}
	return s.contactRepo.Delete(id)
}

// Stats returns inbox counts per status.
func (s *ContactService) Stats() (map[string]int64, error) {
	return s.contactRepo.CountByStatus()
}
