package public

import (
	"errors"
	"strings"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetServices lists active catalog services.
func (h *Handler) GetServices(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.ServiceListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		PriceType:    strings.TrimSpace(c.Query("price_type")),
		OnlyActive:   true,
		OnlyFeatured: c.Query("featured") == "true",
	}

	services, total, err := h.CatalogService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load services")
		return
	}
	response.SuccessWithPage(c, services, buildPagination(page, pageSize, total))
}

// GetServiceBySlug returns one active service.
func (h *Handler) GetServiceBySlug(c *gin.Context) {
	svc, err := h.CatalogService.GetBySlug(c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "service not found")
		default:
			response.InternalError(c, "could not load the service")
		}
		return
	}
	if !svc.IsActive {
		response.NotFound(c, "service not found")
		return
	}
	response.Success(c, svc)
}
