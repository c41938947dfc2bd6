package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectRequest is the payload for creating and updating portfolio
// projects.
type ProjectRequest struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Client      string     `json:"client"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	ServiceID   *uint      `json:"service_id"`
	CoverImage  string     `json:"cover_image"`
	Gallery     []string   `json:"gallery"`
	AreaSqm     *float64   `json:"area_sqm"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	IsFeatured  *bool      `json:"is_featured"`
	SortOrder   *int       `json:"sort_order"`
}

func (r ProjectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:       r.Title,
		Summary:     r.Summary,
		Description: r.Description,
		Client:      r.Client,
		Location:    r.Location,
		Status:      r.Status,
		ServiceID:   r.ServiceID,
		CoverImage:  r.CoverImage,
		Gallery:     r.Gallery,
		AreaSqm:     r.AreaSqm,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		IsFeatured:  r.IsFeatured,
		SortOrder:   r.SortOrder,
	}
}

// GetProjects lists portfolio projects for the admin panel.
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

// GetProject returns one project by id.
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	project, err := h.ProjectService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "project not found", "could not load the project")
		return
	}
	response.Success(c, project)
}

// CreateProject adds a portfolio project.
func (h *Handler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	project, err := h.ProjectService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "project not found", "could not create the project")
		return
	}
	response.Created(c, project)
}

// UpdateProject edits a portfolio project.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	project, err := h.ProjectService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "project not found", "could not update the project")
		return
	}
	response.Success(c, project)
}

// DeleteProject removes a portfolio project.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProjectService.Delete(id); err != nil {
		respondServiceError(c, err, "project not found", "could not delete the project")
		return
	}
	response.SuccessWithMsg(c, "project deleted", nil)
}
