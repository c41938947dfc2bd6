package public

import (
	"errors"
	"strconv"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTestimonials lists approved testimonials.
func (h *Handler) GetTestimonials(c *gin.Context) {
	page, pageSize := pageParams(c)
	minRating, _ := strconv.Atoi(c.Query("min_rating"))
	filter := repository.TestimonialListFilter{
		Page:         page,
		PageSize:     pageSize,
		MinRating:    minRating,
		OnlyApproved: true,
	}

	testimonials, total, err := h.TestimonialService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load testimonials")
		return
	}
	response.SuccessWithPage(c, testimonials, buildPagination(page, pageSize, total))
}

// TestimonialSubmitRequest is the public submission payload.
type TestimonialSubmitRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Company    string `json:"company"`
	Content    string `json:"content" binding:"required"`
	Rating     int    `json:"rating"`
	ProjectID  *uint  `json:"project_id"`
}

// SubmitTestimonial records a public submission pending approval.
func (h *Handler) SubmitTestimonial(c *gin.Context) {
	var req TestimonialSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	testimonial, err := h.TestimonialService.Submit(service.TestimonialInput{
		AuthorName: req.AuthorName,
		Company:    req.Company,
		Content:    req.Content,
		Rating:     req.Rating,
		ProjectID:  req.ProjectID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid testimonial details")
		default:
			response.InternalError(c, "could not submit the testimonial")
		}
		return
	}
	response.CreatedWithMsg(c, "thanks, your testimonial is pending review", gin.H{
		"id": testimonial.ID,
	})
}
