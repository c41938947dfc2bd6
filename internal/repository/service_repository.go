package repository

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository is the service catalog data-access interface.
type ServiceRepository interface {
	GetByID(id uint) (*models.Service, error)
	GetBySlug(slug string) (*models.Service, error)
	Create(service *models.Service) error
	Update(service *models.Service) error
	Delete(id uint) error
	List(filter ServiceListFilter) ([]models.Service, int64, error)
	SlugExists(slug string) (bool, error)
}

// GormServiceRepository is the GORM implementation.
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates the service repository.
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// GetByID fetches a service by primary key.
func (r *GormServiceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// GetBySlug fetches a service by slug.
func (r *GormServiceRepository) GetBySlug(slug string) (*models.Service, error) {
	var service models.Service
	if err := r.db.Where("slug = ?", slug).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// Create inserts a service.
func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

// Update saves a service.
func (r *GormServiceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}

// Delete soft-deletes a service.
func (r *GormServiceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Service{}, id).Error
}

// List returns a page of services.
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, int64, error) {
	query := r.db.Model(&models.Service{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR summary LIKE ?", like, like)
	}
	if filter.PriceType != "" {
		query = query.Where("price_type = ?", filter.PriceType)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyFeatured {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "sort_order ASC, id DESC"
	}

	var services []models.Service
	if err := query.Order(orderBy).Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// SlugExists reports whether a slug is taken. Soft-deleted rows still
// hold the unique index, so they count too.
func (r *GormServiceRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Service{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
