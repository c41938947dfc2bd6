package admin

import (
	"strings"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// TestimonialRequest is the payload for creating and updating
// testimonials from the admin panel.
type TestimonialRequest struct {
	AuthorName string `json:"author_name"`
	Company    string `json:"company"`
	Content    string `json:"content"`
	Rating     int    `json:"rating"`
	Avatar     string `json:"avatar"`
	ProjectID  *uint  `json:"project_id"`
	IsApproved *bool  `json:"is_approved"`
	SortOrder  *int   `json:"sort_order"`
}

func (r TestimonialRequest) toInput() service.TestimonialInput {
	return service.TestimonialInput{
		AuthorName: r.AuthorName,
		Company:    r.Company,
		Content:    r.Content,
		Rating:     r.Rating,
		Avatar:     r.Avatar,
		ProjectID:  r.ProjectID,
		IsApproved: r.IsApproved,
		SortOrder:  r.SortOrder,
	}
}

// GetTestimonials lists testimonials including unapproved ones.
func (h *Handler) GetTestimonials(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.TestimonialListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	switch c.Query("approved") {
	case "true":
		approved := true
		filter.IsApproved = &approved
	case "false":
		approved := false
		filter.IsApproved = &approved
	}

	testimonials, total, err := h.TestimonialService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load testimonials")
		return
	}
	response.SuccessWithPage(c, testimonials, buildPagination(page, pageSize, total))
}

// GetTestimonial returns one testimonial by id.
func (h *Handler) GetTestimonial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	testimonial, err := h.TestimonialService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "testimonial not found", "could not load the testimonial")
		return
	}
	response.Success(c, testimonial)
}

// CreateTestimonial adds a testimonial from the admin panel.
func (h *Handler) CreateTestimonial(c *gin.Context) {
	var req TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	testimonial, err := h.TestimonialService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "testimonial not found", "could not create the testimonial")
		return
	}
	response.Created(c, testimonial)
}

// UpdateTestimonial edits a testimonial, including approval state.
func (h *Handler) UpdateTestimonial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	testimonial, err := h.TestimonialService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "testimonial not found", "could not update the testimonial")
		return
	}
	response.Success(c, testimonial)
}

// ApproveTestimonial flips a testimonial visible.
func (h *Handler) ApproveTestimonial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	testimonial, err := h.TestimonialService.Approve(id)
	if err != nil {
		respondServiceError(c, err, "testimonial not found", "could not approve the testimonial")
		return
	}
	response.SuccessWithMsg(c, "testimonial approved", testimonial)
}

// DeleteTestimonial removes a testimonial.
func (h *Handler) DeleteTestimonial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.TestimonialService.Delete(id); err != nil {
		respondServiceError(c, err, "testimonial not found", "could not delete the testimonial")
		return
	}
	response.SuccessWithMsg(c, "testimonial deleted", nil)
}
