package repository

import (
	"errors"
	"time"

	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// ContactRepository is the contact/quote inbox data-access interface.
type ContactRepository interface {
	GetByID(id uint) (*models.Contact, error)
	Create(contact *models.Contact) error
	Update(contact *models.Contact) error
	Delete(id uint) error
	List(filter ContactListFilter) ([]models.Contact, int64, error)
	UpdateStatus(id uint, status string, at time.Time) (int64, error)
	UpdateStatusBulk(ids []uint, status string, at time.Time) (int64, error)
	DeleteBulk(ids []uint) (int64, error)
	CountByStatus() (map[string]int64, error)
}

// GormContactRepository is the GORM implementation.
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates the contact repository.
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// GetByID fetches a contact with its service preloaded.
func (r *GormContactRepository) GetByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.Preload("Service").First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// Create inserts a contact.
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// Update saves a contact.
func (r *GormContactRepository) Update(contact *models.Contact) error {
	return r.db.Save(contact).Error
}

// Delete soft-deletes a contact.
func (r *GormContactRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contact{}, id).Error
}

// List returns a page of inbox entries.
func (r *GormContactRepository) List(filter ContactListFilter) ([]models.Contact, int64, error) {
	query := r.db.Model(&models.Contact{})

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR subject LIKE ?", like, like, like)
	}
	if filter.ServiceID > 0 {
		query = query.Where("service_id = ?", filter.ServiceID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize).Preload("Service")

	var contacts []models.Contact
	if err := query.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// UpdateStatus transitions an inbox entry and stamps the matching
// timestamp column. Returns rows affected so callers can detect a miss.
func (r *GormContactRepository) UpdateStatus(id uint, status string, at time.Time) (int64, error) {
	updates := map[string]interface{}{"status": status}
	switch status {
	case "read":
		updates["read_at"] = at
	case "replied":
		updates["replied_at"] = at
	}
	result := r.db.Model(&models.Contact{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateStatusBulk transitions several entries at once.
func (r *GormContactRepository) UpdateStatusBulk(ids []uint, status string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]interface{}{"status": status}
	switch status {
	case "read":
		updates["read_at"] = at
	case "replied":
		updates["replied_at"] = at
	}
	result := r.db.Model(&models.Contact{}).Where("id IN ?", ids).Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteBulk soft-deletes several entries at once.
func (r *GormContactRepository) DeleteBulk(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Contact{})
	return result.RowsAffected, result.Error
}

// CountByStatus returns inbox totals per status for the dashboard.
func (r *GormContactRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Contact{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}
