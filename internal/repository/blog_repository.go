package repository

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"

	"gorm.io/gorm"
)

// BlogRepository is the blog post data-access interface.
type BlogRepository interface {
	GetByID(id uint) (*models.BlogPost, error)
	GetBySlug(slug string) (*models.BlogPost, error)
	Create(post *models.BlogPost) error
	Update(post *models.BlogPost) error
	Delete(id uint) error
	List(filter BlogListFilter) ([]models.BlogPost, int64, error)
	IncrementViewCount(id uint) error
	SlugExists(slug string) (bool, error)
}

// GormBlogRepository is the GORM implementation.
type GormBlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates the blog repository.
func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// GetByID fetches a post with its author preloaded.
func (r *GormBlogRepository) GetByID(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by slug with its author preloaded.
func (r *GormBlogRepository) GetBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.Preload("Author").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a post.
func (r *GormBlogRepository) Create(post *models.BlogPost) error {
	return r.db.Create(post).Error
}

// Update saves a post.
func (r *GormBlogRepository) Update(post *models.BlogPost) error {
	return r.db.Save(post).Error
}

// Delete soft-deletes a post.
func (r *GormBlogRepository) Delete(id uint) error {
	return r.db.Delete(&models.BlogPost{}, id).Error
}

// List returns a page of posts.
func (r *GormBlogRepository) List(filter BlogListFilter) ([]models.BlogPost, int64, error) {
	query := r.db.Model(&models.BlogPost{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR excerpt LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.BlogStatusPublished)
	}
	if filter.Tag != "" {
		// tags column is a JSON array of strings
		query = query.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithAuthor {
		query = query.Preload("Author")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "published_at DESC, id DESC"
	}

	var posts []models.BlogPost
	if err := query.Order(orderBy).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// IncrementViewCount bumps the view counter without racing concurrent reads.
func (r *GormBlogRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.BlogPost{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

// SlugExists reports whether a slug is taken, soft-deleted rows
// included.
func (r *GormBlogRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.BlogPost{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
