package repository

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// TestimonialRepository is the testimonial data-access interface.
type TestimonialRepository interface {
	GetByID(id uint) (*models.Testimonial, error)
	Create(testimonial *models.Testimonial) error
	Update(testimonial *models.Testimonial) error
	Delete(id uint) error
	List(filter TestimonialListFilter) ([]models.Testimonial, int64, error)
}

// GormTestimonialRepository is the GORM implementation.
type GormTestimonialRepository struct {
	db *gorm.DB
}

// NewTestimonialRepository creates the testimonial repository.
func NewTestimonialRepository(db *gorm.DB) *GormTestimonialRepository {
	return &GormTestimonialRepository{db: db}
}

// GetByID fetches a testimonial with its project preloaded.
func (r *GormTestimonialRepository) GetByID(id uint) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.Preload("Project").First(&testimonial, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &testimonial, nil
}

// Create inserts a testimonial.
func (r *GormTestimonialRepository) Create(testimonial *models.Testimonial) error {
	return r.db.Create(testimonial).Error
}

// Update saves a testimonial.
func (r *GormTestimonialRepository) Update(testimonial *models.Testimonial) error {
	return r.db.Save(testimonial).Error
}

// Delete soft-deletes a testimonial.
func (r *GormTestimonialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Testimonial{}, id).Error
}

// List returns a page of testimonials.
func (r *GormTestimonialRepository) List(filter TestimonialListFilter) ([]models.Testimonial, int64, error) {
	query := r.db.Model(&models.Testimonial{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("author_name LIKE ? OR company LIKE ?", like, like)
	}
	if filter.OnlyApproved {
		query = query.Where("is_approved = ?", true)
	} else if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var testimonials []models.Testimonial
	if err := query.Order("sort_order ASC, id DESC").Find(&testimonials).Error; err != nil {
		return nil, 0, err
	}
	return testimonials, total, nil
}
