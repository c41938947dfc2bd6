package repository

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository is the portfolio data-access interface.
type ProjectRepository interface {
	GetByID(id uint) (*models.Project, error)
	GetBySlug(slug string) (*models.Project, error)
	Create(project *models.Project) error
	Update(project *models.Project) error
	Delete(id uint) error
	List(filter ProjectListFilter) ([]models.Project, int64, error)
	SlugExists(slug string) (bool, error)
}

// GormProjectRepository is the GORM implementation.
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates the project repository.
func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// GetByID fetches a project with its service preloaded.
func (r *GormProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Service").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// GetBySlug fetches a project by slug with its service preloaded.
func (r *GormProjectRepository) GetBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Service").Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// Create inserts a project.
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update saves a project.
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft-deletes a project.
func (r *GormProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// List returns a page of projects.
func (r *GormProjectRepository) List(filter ProjectListFilter) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR summary LIKE ? OR client LIKE ? OR location LIKE ?", like, like, like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ServiceID > 0 {
		query = query.Where("service_id = ?", filter.ServiceID)
	}
	if filter.OnlyFeatured {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithService {
		query = query.Preload("Service")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "sort_order ASC, completed_at DESC, id DESC"
	}

	var projects []models.Project
	if err := query.Order(orderBy).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// SlugExists reports whether a slug is taken, soft-deleted rows
// included.
func (r *GormProjectRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Project{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
