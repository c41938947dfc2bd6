package public

import (
	"github.com/paveworks/paveworks-api/internal/http/response"
	"github.com/paveworks/paveworks-api/internal/models"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("current_user")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	return user, true
}

func getUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		response.Unauthorized(c, "authentication required")
		return "", false
	}
	return id, true
}
