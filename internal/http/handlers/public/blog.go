package public

import (
	"errors"
	"strings"

	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBlogPosts lists published posts, newest first.
func (h *Handler) GetBlogPosts(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.BlogListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        strings.TrimSpace(c.Query("search")),
		Tag:           strings.TrimSpace(c.Query("tag")),
		OnlyPublished: true,
		WithAuthor:    true,
	}

	posts, total, err := h.BlogService.List(filter)
	if err != nil {
		response.InternalError(c, "could not load blog posts")
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetBlogPostBySlug returns one published post and counts the view.
func (h *Handler) GetBlogPostBySlug(c *gin.Context) {
	post, err := h.BlogService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "post not found")
		default:
			response.InternalError(c, "could not load the post")
		}
		return
	}
	response.Success(c, post)
}
