package admin

import (
	"errors"
	"strings"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ServiceRequest is the payload for creating and updating catalog
// services. On update, zero-valued fields are left untouched.
type ServiceRequest struct {
	Name        string       `json:"name"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Image       string       `json:"image"`
	Features    []string     `json:"features"`
	Price       models.Money `json:"price"`
	PriceType   string       `json:"price_type"`
	IsActive    *bool        `json:"is_active"`
	IsFeatured  *bool        `json:"is_featured"`
	SortOrder   *int         `json:"sort_order"`
}

func (r ServiceRequest) toInput() service.ServiceInput {
	return service.ServiceInput{
		Name:        r.Name,
		Summary:     r.Summary,
		Description: r.Description,
		Icon:        r.Icon,
		Image:       r.Image,
		Features:    r.Features,
		Price:       r.Price,
		PriceType:   r.PriceType,
		IsActive:    r.IsActive,
		IsFeatured:  r.IsFeatured,
		SortOrder:   r.SortOrder,
	}
}

// GetServices lists catalog services including inactive ones.
func (h *Handler) GetServices(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.ServiceListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		PriceType:    strings.TrimSpace(c.Query("price_type")),
		OnlyActive:   c.Query("active") == "true",
		OnlyFeatured: c.Query("featured") == "true",
	}

	services, total, err := h.CatalogService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load services")
		return
	}
	response.SuccessWithPage(c, services, buildPagination(page, pageSize, total))
}

// GetService returns one catalog service by id.
func (h *Handler) GetService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	svc, err := h.CatalogService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "service not found", "could not load the service")
		return
	}
	response.Success(c, svc)
}

// CreateService adds a catalog service.
func (h *Handler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	svc, err := h.CatalogService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "service not found", "could not create the service")
		return
	}
	response.Created(c, svc)
}

// UpdateService edits a catalog service.
func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	svc, err := h.CatalogService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "service not found", "could not update the service")
		return
	}
	response.Success(c, svc)
}

// DeleteService removes a catalog service.
func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.CatalogService.Delete(id); err != nil {
		respondServiceError(c, err, "service not found", "could not delete the service")
		return
	}
	response.SuccessWithMsg(c, "service deleted", nil)
}

// respondServiceError maps the shared service sentinels onto HTTP
// statuses; anything unexpected becomes a 500 with the fallback text.
func respondServiceError(c *gin.Context, err error, notFoundMsg, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, notFoundMsg)
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, "invalid request details")
	default:
		response.InternalError(c, fallbackMsg)
	}
}
