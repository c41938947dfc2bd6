package service

import (
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// BlogService manages blog publishing.
type BlogService struct {
	blogRepo repository.BlogRepository
}

// NewBlogService creates the blog service.
func NewBlogService(blogRepo repository.BlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

// BlogPostInput is the payload for create and update operations.
type BlogPostInput struct {
	Title      string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
	Status     string
}

// List returns a page of posts.
func (s *BlogService) List(filter repository.BlogListFilter) ([]models.BlogPost, int64, error) {
	return s.blogRepo.List(filter)
}

// GetPublishedBySlug returns a published post and bumps its view
// counter. Draft and archived posts are invisible here.
func (s *BlogService) GetPublishedBySlug(slug string) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsPublished() {
		return nil, ErrNotFound
	}
	if err := s.blogRepo.IncrementViewCount(post.ID); err != nil {
		return nil, err
	}
	post.ViewCount++
	return post, nil
}

// GetByID returns a post regardless of status, for the admin panel.
func (s *BlogService) GetByID(id uint) (*models.BlogPost, error) {
	post, err := s.blogRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create adds a post. Publishing stamps published_at.
func (s *BlogService) Create(authorID string, input BlogPostInput) (*models.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	slug, err := UniqueSlug(s.blogRepo, title)
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Slug:       slug,
		Title:      title,
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Tags:       models.StringArray(input.Tags),
		Status:     normalizeBlogStatus(input.Status),
		AuthorID:   authorID,
	}
	if post.Status == constants.BlogStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.blogRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update edits a post. The first transition to published stamps
// published_at; later edits keep the original publish date.
func (s *BlogService) Update(id uint, input BlogPostInput) (*models.BlogPost, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title != "" && title != post.Title {
		slug, err := UniqueSlug(s.blogRepo, title)
		if err != nil {
			return nil, err
		}
		post.Title = title
		post.Slug = slug
	}
	if input.Excerpt != "" {
		post.Excerpt = strings.TrimSpace(input.Excerpt)
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.CoverImage != "" {
		post.CoverImage = input.CoverImage
	}
	if input.Tags != nil {
		post.Tags = models.StringArray(input.Tags)
	}
	if input.Status != "" {
		post.Status = normalizeBlogStatus(input.Status)
		if post.Status == constants.BlogStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}
	if err := s.blogRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post.
func (s *BlogService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.blogRepo.Delete(id)
}

func normalizeBlogStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.BlogStatusPublished:
		return constants.BlogStatusPublished
	case constants.BlogStatusArchived:
		return constants.BlogStatusArchived
	default:
		return constants.BlogStatusDraft
	}
}
