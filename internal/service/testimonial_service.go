package service

import (
	"strings"

	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// TestimonialService manages customer testimonials. Public submissions
// land unapproved and only show after admin approval.
type TestimonialService struct {
	testimonialRepo repository.TestimonialRepository
	projectRepo     repository.ProjectRepository
}

// NewTestimonialService creates the testimonial service.
func NewTestimonialService(testimonialRepo repository.TestimonialRepository, projectRepo repository.ProjectRepository) *TestimonialService {
	return &TestimonialService{testimonialRepo: testimonialRepo, projectRepo: projectRepo}
}

// TestimonialInput is the payload for create and update operations.
type TestimonialInput struct {
	AuthorName string
	Company    string
	Content    string
	Rating     int
	Avatar     string
	ProjectID  *uint
	IsApproved *bool
	SortOrder  *int
}

// List returns a page of testimonials.
func (s *TestimonialService) List(filter repository.TestimonialListFilter) ([]models.Testimonial, int64, error) {
	return s.testimonialRepo.List(filter)
}

// GetByID returns a testimonial or ErrNotFound.
func (s *TestimonialService) GetByID(id uint) (*models.Testimonial, error) {
	testimonial, err := s.testimonialRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if testimonial == nil {
		return nil, ErrNotFound
	}
	return testimonial, nil
}

// Submit records a public submission; it stays hidden until approved.
func (s *TestimonialService) Submit(input TestimonialInput) (*models.Testimonial, error) {
	return s.create(input, false)
}

// Create adds a testimonial from the admin panel, honoring IsApproved.
func (s *TestimonialService) Create(input TestimonialInput) (*models.Testimonial, error) {
	approved := input.IsApproved != nil && *input.IsApproved
	return s.create(input, approved)
}

func (s *TestimonialService) create(input TestimonialInput, approved bool) (*models.Testimonial, error) {
	authorName := strings.TrimSpace(input.AuthorName)
	content := strings.TrimSpace(input.Content)
	if authorName == "" || content == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkProjectRef(input.ProjectID); err != nil {
		return nil, err
	}

	testimonial := &models.Testimonial{
		AuthorName: authorName,
		Company:    strings.TrimSpace(input.Company),
		Content:    content,
		Rating:     clampRating(input.Rating),
		Avatar:     input.Avatar,
		ProjectID:  input.ProjectID,
		IsApproved: approved,
	}
	if input.SortOrder != nil {
		testimonial.SortOrder = *input.SortOrder
	}
	if err := s.testimonialRepo.Create(testimonial); err != nil {
		return nil, err
	}
	return testimonial, nil
}

// Update edits a testimonial, including approval state.
func (s *TestimonialService) Update(id uint, input TestimonialInput) (*models.Testimonial, error) {
	testimonial, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(input.ProjectID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.AuthorName); name != "" {
		testimonial.AuthorName = name
	}
	if input.Company != "" {
		testimonial.Company = strings.TrimSpace(input.Company)
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		testimonial.Content = content
	}
	if input.Rating > 0 {
		testimonial.Rating = clampRating(input.Rating)
	}
	if input.Avatar != "" {
		testimonial.Avatar = input.Avatar
	}
	if input.ProjectID != nil {
		testimonial.ProjectID = input.ProjectID
	}
	if input.IsApproved != nil {
		testimonial.IsApproved = *input.IsApproved
	}
	if input.SortOrder != nil {
		testimonial.SortOrder = *input.SortOrder
	}
	if err := s.testimonialRepo.Update(testimonial); err != nil {
		return nil, err
	}
	return testimonial, nil
}

// Approve flips a testimonial visible.
func (s *TestimonialService) Approve(id uint) (*models.Testimonial, error) {
	approved := true
	return s.Update(id, TestimonialInput{IsApproved: &approved})
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.testimonialRepo.Delete(id)
}

func (s *TestimonialService) checkProjectRef(projectID *uint) error {
	if projectID == nil || *projectID == 0 {
		return nil
	}
	project, err := s.projectRepo.GetByID(*projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrInvalidInput
	}
	return nil
}

func clampRating(rating int) int {
	if rating < 1 {
		return 5
	}
	if rating > 5 {
		return 5
	}
	return rating
}
