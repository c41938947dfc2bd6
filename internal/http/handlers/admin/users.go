package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetUsers lists accounts for the admin panel.
func (h *Handler) GetUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	}
	switch c.Query("active") {
	case "true":
		active := true
		filter.IsActive = &active
	case "false":
		active := false
		filter.IsActive = &active
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

	users, total, err := h.UserService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load users")
		return
	}
	response.SuccessWithPage(c, users, buildPagination(page, pageSize, total))
}

// GetUserStats returns account counts per role.
func (h *Handler) GetUserStats(c *gin.Context) {
	stats, err := h.UserService.Stats()
	if err != nil {
		response.InternalError(c, "could not load user stats")
		return
	}
	response.Success(c, stats)
}

// UserCreateRequest is the admin account-creation payload.
type UserCreateRequest struct {
	Username    string   `json:"username" binding:"required"`
	Email       string   `json:"email" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	PreVerified bool     `json:"pre_verified"`
}

// CreateUser provisions an account from the admin panel.
func (h *Handler) CreateUser(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	user, err := h.UserService.Create(service.AdminCreateInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Role:        req.Role,
		Permissions: req.Permissions,
		PreVerified: req.PreVerified,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, "email already registered")
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, "username already taken")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			response.BadRequest(c, "invalid request details")
		default:
			response.InternalError(c, "could not create the user")
		}
		return
	}
	response.Created(c, user)
}

// GetUser returns one account by id.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.UserService.GetByID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "user not found", "could not load the user")
		return
	}
	response.Success(c, user)
}

// UserUpdateRequest is the admin account-edit payload.
type UserUpdateRequest struct {
	Role        *string   `json:"role"`
	Permissions *[]string `json:"permissions"`
	IsActive    *bool     `json:"is_active"`
}

// UpdateUser applies role, permission and activation changes.
// Deactivating an account also kills its session.
func (h *Handler) UpdateUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	targetID := c.Param("id")
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if targetID == caller.ID && req.IsActive != nil && !*req.IsActive {
		response.BadRequest(c, "you cannot deactivate your own account")
		return
	}

	user, err := h.UserService.AdminUpdate(targetID, service.AdminUserUpdateInput{
		Role:        req.Role,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "user not found", "could not update the user")
		return
	}
	response.Success(c, user)
}

// DeleteUser soft-deletes an account.
func (h *Handler) DeleteUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	targetID := c.Param("id")
	if targetID == caller.ID {
		response.BadRequest(c, "you cannot delete your own account")
		return
	}
	if err := h.UserService.Delete(targetID); err != nil {
		respondServiceError(c, err, "user not found", "could not delete the user")
		return
	}
	response.SuccessWithMsg(c, "user deleted", nil)
}
