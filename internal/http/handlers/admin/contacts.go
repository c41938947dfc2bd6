package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContacts lists inbox entries.
func (h *Handler) GetContacts(c *gin.Context) {
	page, pageSize := pageParams(c)
	serviceID, _ := strconv.ParseUint(c.Query("service_id"), 10, 32)
	filter := repository.ContactListFilter{
		Page:      page,
		PageSize:  pageSize,
		Kind:      strings.TrimSpace(c.Query("kind")),
		Status:    strings.TrimSpace(c.Query("status")),
		Search:    strings.TrimSpace(c.Query("search")),
		ServiceID: uint(serviceID),
	}
	if from := c.Query("created_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if to := c.Query("created_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.CreatedTo = &t
		}
	}

	contacts, total, err := h.ContactService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load the inbox")
		return
	}
	response.SuccessWithPage(c, contacts, buildPagination(page, pageSize, total))
}

// GetContact returns one inbox entry, marking new entries read.
func (h *Handler) GetContact(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	contact, err := h.ContactService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "inbox entry not found", "could not load the inbox entry")
		return
	}
	response.Success(c, contact)
}

// ContactStatusRequest carries an inbox status transition.
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateContactStatus transitions an inbox entry.
func (h *Handler) UpdateContactStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.ContactService.UpdateStatus(id, req.Status); err != nil {
		respondServiceError(c, err, "inbox entry not found", "could not update the inbox entry")
		return
	}
	response.SuccessWithMsg(c, "status updated", nil)
}

// ContactReplyRequest is the admin reply payload.
type ContactReplyRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// ReplyContact mails a reply to the sender and marks the entry
// replied.
func (h *Handler) ReplyContact(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ContactReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.ContactService.Reply(id, req.Subject, req.Body); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "inbox entry not found")
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "reply body is required")
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			response.InternalError(c, "email delivery is not configured")
		default:
			response.InternalError(c, "could not send the reply")
		}
		return
	}
	response.SuccessWithMsg(c, "reply sent", nil)
}

// ContactBulkStatusRequest transitions several entries at once.
type ContactBulkStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Status string `json:"status" binding:"required"`
}

// BulkUpdateContactStatus transitions several inbox entries at once.
func (h *Handler) BulkUpdateContactStatus(c *gin.Context) {
	var req ContactBulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	updated, err := h.ContactService.UpdateStatusBulk(req.IDs, req.Status)
	if err != nil {
		respondServiceError(c, err, "inbox entries not found", "could not update the inbox entries")
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

// ContactBulkDeleteRequest removes several entries at once.
type ContactBulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkDeleteContacts removes several inbox entries at once.
func (h *Handler) BulkDeleteContacts(c *gin.Context) {
	var req ContactBulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	deleted, err := h.ContactService.DeleteBulk(req.IDs)
	if err != nil {
		respondServiceError(c, err, "inbox entries not found", "could not delete the inbox entries")
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// DeleteContact removes an inbox entry.
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ContactService.Delete(id); err != nil {
		respondServiceError(c, err, "inbox entry not found", "could not delete the inbox entry")
		return
	}
	response.SuccessWithMsg(c, "inbox entry deleted", nil)
}

// GetContactStats returns inbox counts per status.
func (h *Handler) GetContactStats(c *gin.Context) {
	stats, err := h.ContactService.Stats()
	if err != nil {
		response.InternalError(c, "could not load inbox stats")
		return
	}
	response.Success(c, stats)
}
