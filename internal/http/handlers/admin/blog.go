package admin

import (
	"strings"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// BlogPostRequest is the payload for creating and updating posts.
type BlogPostRequest struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (r BlogPostRequest) toInput() service.BlogPostInput {
	return service.BlogPostInput{
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Tags:       r.Tags,
		Status:     r.Status,
	}
}

// GetBlogPosts lists posts in every status for the admin panel.
func (h *Handler) GetBlogPosts(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.BlogListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		Status:     strings.TrimSpace(c.Query("status")),
		Tag:        strings.TrimSpace(c.Query("tag")),
		AuthorID:   strings.TrimSpace(c.Query("author_id")),
		WithAuthor: true,
	}

	posts, total, err := h.BlogService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load blog posts")
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetBlogPost returns one post regardless of status.
func (h *Handler) GetBlogPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	post, err := h.BlogService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "post not found", "could not load the post")
		return
	}
	response.Success(c, post)
}

// CreateBlogPost adds a post authored by the caller.
func (h *Handler) CreateBlogPost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	post, err := h.BlogService.Create(user.ID, req.toInput())
	if err != nil {
		respondServiceError(c, err, "post not found", "could not create the post")
		return
	}
	response.Created(c, post)
}

// UpdateBlogPost edits a post. Moderators may only edit their own
// posts; admins may edit any.
func (h *Handler) UpdateBlogPost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if !h.canManagePost(c, user, id) {
		return
	}
	post, err := h.BlogService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "post not found", "could not update the post")
		return
	}
	response.Success(c, post)
}

// DeleteBlogPost removes a post, under the same ownership rule as
// UpdateBlogPost.
func (h *Handler) DeleteBlogPost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if !h.canManagePost(c, user, id) {
		return
	}
	if err := h.BlogService.Delete(id); err != nil {
		respondServiceError(c, err, "post not found", "could not delete the post")
		return
	}
	response.SuccessWithMsg(c, "post deleted", nil)
}

// canManagePost writes the error response itself when the caller may
// not touch the post.
func (h *Handler) canManagePost(c *gin.Context, user *models.User, postID uint) bool {
	if strings.EqualFold(user.Role, constants.RoleAdmin) {
		return true
	}
	post, err := h.BlogService.GetByID(postID)
	if err != nil {
		respondServiceError(c, err, "post not found", "could not load the post")
		return false
	}
	if post.AuthorID != user.ID {
		response.Forbidden(c, "you can only manage your own posts")
		return false
	}
	return true
}
