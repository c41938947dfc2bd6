package public

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactRequest is the contact-form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact records a contact-form message and notifies the admin
// inbox.
func (h *Handler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	contact, err := h.ContactService.SubmitContact(service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid contact details")
		default:
			response.InternalError(c, "could not submit the message")
		}
		return
	}
	response.CreatedWithMsg(c, "message received, we will get back to you shortly", gin.H{
		"id": contact.ID,
	})
}

// QuoteRequest is the quote-request payload with job details.
type QuoteRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Phone     string  `json:"phone"`
	Company   string  `json:"company"`
	Message   string  `json:"message" binding:"required"`
	ServiceID *uint   `json:"service_id"`
	Location  string  `json:"location"`
	AreaSqm   float64 `json:"area_sqm"`
	Budget    string  `json:"budget"`
}

// SubmitQuote records a quote request and notifies the admin inbox.
func (h *Handler) SubmitQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	contact, err := h.ContactService.SubmitQuote(service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Message:   req.Message,
		ServiceID: req.ServiceID,
		Location:  req.Location,
		AreaSqm:   req.AreaSqm,
		Budget:    req.Budget,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid quote details")
		default:
			response.InternalError(c, "could not submit the quote request")
		}
		return
	}
	response.CreatedWithMsg(c, "quote request received, we will get back to you shortly", gin.H{
		"id": contact.ID,
	})
}
