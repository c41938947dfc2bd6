package service

import (
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// ProjectService manages the public portfolio.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	serviceRepo repository.ServiceRepository
}

// NewProjectService creates the project service.
func NewProjectService(projectRepo repository.ProjectRepository, serviceRepo repository.ServiceRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, serviceRepo: serviceRepo}
}

// ProjectInput is the payload for create and update operations.
type ProjectInput struct {
	Title       string
	Summary     string
	Description string
	Client      string
	Location    string
	Status      string
	ServiceID   *uint
	CoverImage  string
	Gallery     []string
	AreaSqm     *float64
	StartedAt   *time.Time
	CompletedAt *time.Time
	IsFeatured  *bool
	SortOrder   *int
}

// List returns a page of projects.
func (s *ProjectService) List(filter repository.ProjectListFilter) ([]models.Project, int64, error) {
	return s.projectRepo.List(filter)
}

// GetBySlug returns a project or ErrNotFound.
func (s *ProjectService) GetBySlug(slug string) (*models.Project, error) {
	project, err := s.projectRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

// GetByID returns a project or ErrNotFound.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

// Create adds a portfolio entry, deriving a unique slug from the title.
func (s *ProjectService) Create(input ProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkServiceRef(input.ServiceID); err != nil {
		return nil, err
	}
	slug, err := UniqueSlug(s.projectRepo, title)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Slug:        slug,
		Title:       title,
		Summary:     strings.TrimSpace(input.Summary),
		Description: input.Description,
		Client:      strings.TrimSpace(input.Client),
		Location:    strings.TrimSpace(input.Location),
		Status:      normalizeProjectStatus(input.Status),
		ServiceID:   input.ServiceID,
		CoverImage:  input.CoverImage,
		Gallery:     models.StringArray(input.Gallery),
		StartedAt:   input.StartedAt,
		CompletedAt: input.CompletedAt,
	}
	if input.AreaSqm != nil {
		project.AreaSqm = *input.AreaSqm
	}
	if input.IsFeatured != nil {
		project.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		project.SortOrder = *input.SortOrder
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update edits a portfolio entry. Retitling regenerates the slug.
func (s *ProjectService) Update(id uint, input ProjectInput) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkServiceRef(input.ServiceID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title != "" && title != project.Title {
		slug, err := UniqueSlug(s.projectRepo, title)
		if err != nil {
			return nil, err
		}
		project.Title = title
		project.Slug = slug
	}
	if input.Summary != "" {
		project.Summary = strings.TrimSpace(input.Summary)
	}
	if input.Description != "" {
		project.Description = input.Description
	}
	if input.Client != "" {
		project.Client = strings.TrimSpace(input.Client)
	}
	if input.Location != "" {
		project.Location = strings.TrimSpace(input.Location)
	}
	if input.Status != "" {
		project.Status = normalizeProjectStatus(input.Status)
	}
	if input.ServiceID != nil {
		project.ServiceID = input.ServiceID
	}
	if input.CoverImage != "" {
		project.CoverImage = input.CoverImage
	}
	if input.Gallery != nil {
		project.Gallery = models.StringArray(input.Gallery)
	}
	if input.AreaSqm != nil {
		project.AreaSqm = *input.AreaSqm
	}
	if input.StartedAt != nil {
		project.StartedAt = input.StartedAt
	}
	if input.CompletedAt != nil {
		project.CompletedAt = input.CompletedAt
	}
	if input.IsFeatured != nil {
		project.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		project.SortOrder = *input.SortOrder
	}
	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a portfolio entry.
func (s *ProjectService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.projectRepo.Delete(id)
}

func (s *ProjectService) checkServiceRef(serviceID *uint) error {
	if serviceID == nil || *serviceID == 0 {
		return nil
	}
	service, err := s.serviceRepo.GetByID(*serviceID)
	if err != nil {
		return err
	}
	if service == nil {
		return ErrInvalidInput
	}
	return nil
}

func normalizeProjectStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.ProjectStatusPlanned:
		return constants.ProjectStatusPlanned
	case constants.ProjectStatusInProgress:
		return constants.ProjectStatusInProgress
	default:
		return constants.ProjectStatusCompleted
	}
}
