package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProjects lists portfolio projects.
func (h *Handler) GetProjects(c *gin.Context) {
	page, pageSize := pageParams(c)
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 32)
	filter := repository.ProjectListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		Status:       strings.TrimSpace(c.Query("status")),
		ServiceID:    uint(serviceID),
		OnlyFeatured: c.Query("featured") == "true",
		WithService:  true,
	}

	projects, total, err := h.ProjectService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load projects")
		return
	}
	response.SuccessWithPage(c, projects, buildPagination(page, pageSize, total))
}

// GetProjectBySlug returns one project with its linked service.
func (h *Handler) GetProjectBySlug(c *gin.Context) {
	project, err := h.ProjectService.GetBySlug(c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "project not found")
		default:
			response.InternalError(c, "could not load the project")
		}
		return
	}
	response.Success(c, project)
}
