package service

import (
	"strings"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
)

// CatalogService manages the public service catalog.
type CatalogService struct {
	serviceRepo repository.ServiceRepository
}

// NewCatalogService creates the catalog service.
func NewCatalogService(serviceRepo repository.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

// ServiceInput is the payload for create and update operations.
type ServiceInput struct {
	Name        string
	Summary     string
	Description string
	Icon        string
	Image       string
	Features    []string
	Price       models.Money
	PriceType   string
	IsActive    *bool
	IsFeatured  *bool
	SortOrder   *int
}

// List returns a page of services.
func (s *CatalogService) List(filter repository.ServiceListFilter) ([]models.Service, int64, error) {
	return s.serviceRepo.List(filter)
}

// GetBySlug returns an active service or ErrNotFound.
func (s *CatalogService) GetBySlug(slug string) (*models.Service, error) {
	service, err := s.serviceRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrNotFound
	}
	return service, nil
}

// GetByID returns a service or ErrNotFound.
func (s *CatalogService) GetByID(id uint) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrNotFound
	}
	return service, nil
}

// Create adds a catalog entry, deriving a unique slug from the name.
func (s *CatalogService) Create(input ServiceInput) (*models.Service, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	slug, err := UniqueSlug(s.serviceRepo, name)
	if err != nil {
		return nil, err
	}

	service := &models.Service{
		Slug:        slug,
		Name:        name,
		Summary:     strings.TrimSpace(input.Summary),
		Description: input.Description,
		Icon:        input.Icon,
		Image:       input.Image,
		Features:    models.StringArray(input.Features),
		Price:       input.Price,
		PriceType:   normalizePriceType(input.PriceType),
		IsActive:    true,
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		service.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		service.SortOrder = *input.SortOrder
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return service, nil
}

// Update edits a catalog entry. Renaming regenerates the slug.
func (s *CatalogService) Update(id uint, input ServiceInput) (*models.Service, error) {
	service, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != "" && name != service.Name {
		slug, err := UniqueSlug(s.serviceRepo, name)
		if err != nil {
			return nil, err
		}
		service.Name = name
		service.Slug = slug
	}
	if input.Summary != "" {
		service.Summary = strings.TrimSpace(input.Summary)
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.Icon != "" {
		service.Icon = input.Icon
	}
	if input.Image != "" {
		service.Image = input.Image
	}
	if input.Features != nil {
		service.Features = models.StringArray(input.Features)
	}
	if !input.Price.IsZero() {
		service.Price = input.Price
	}
	if input.PriceType != "" {
		service.PriceType = normalizePriceType(input.PriceType)
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		service.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		service.SortOrder = *input.SortOrder
	}
	if err := s.serviceRepo.Update(service); err != nil {
		return nil, err
	}
	return service, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(id)
}

func normalizePriceType(priceType string) string {
	switch strings.ToLower(strings.TrimSpace(priceType)) {
	case constants.PriceTypeFixed:
		return constants.PriceTypeFixed
	case constants.PriceTypeHourly:
		return constants.PriceTypeHourly
	case constants.PriceTypeProject:
		return constants.PriceTypeProject
	default:
		return constants.PriceTypeCustom
	}
}
