package admin

import (
	"errors"

	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadFile stores an image for the given scene and returns its URL.
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	scene := c.DefaultPostForm("scene", constants.UploadSceneCommon)

	result, err := h.UploadService.Upload(c.Request.Context(), file, scene)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			response.BadRequest(c, "file exceeds the size limit")
		case errors.Is(err, service.ErrUploadBadType):
			response.BadRequest(c, "file type not allowed")
		case errors.Is(err, service.ErrUploadBadScene):
			response.BadRequest(c, "unknown upload scene")
		case errors.Is(err, service.ErrUploadUnavailable):
			response.InternalError(c, "upload backend unavailable")
		default:
			response.InternalError(c, "upload failed")
		}
		return
	}
	response.Success(c, result)
}

// DeleteFile removes a previously uploaded file.
func (h *Handler) DeleteFile(c *gin.Context) {
	scene := c.Param("scene")
	filename := c.Param("filename")

	if err := h.UploadService.Delete(c.Request.Context(), scene, filename); err != nil {
		switch {
		case errors.Is(err, service.ErrUploadBadScene):
			response.BadRequest(c, "unknown upload scene")
		case errors.Is(err, service.ErrUploadNotFound):
			response.NotFound(c, "file not found")
		case errors.Is(err, service.ErrUploadUnavailable):
			response.InternalError(c, "upload backend unavailable")
		default:
			response.InternalError(c, "delete failed")
		}
		return
	}
	response.SuccessWithMsg(c, "file deleted", nil)
}
