package handlers

import (
	"context"
	"net/http"

	"emojichirp/internal/models"

	"github.com/gin-gonic/gin"
)

type profileService interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type ProfileHandler struct {
	profiles profileService
}

func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetUserByUserName - GET /api/profile.getUserByUserName?username=
func (h *ProfileHandler) GetUserByUserName(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		BadRequest(c, "username is required")
		return
	}

	user, err := h.profiles.GetByUsername(c.Request.Context(), username)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
