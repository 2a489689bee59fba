package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"emojichirp/internal/middleware"
	"emojichirp/internal/models"
	"emojichirp/internal/services"

	"github.com/gin-gonic/gin"
)

type postService interface {
	Create(ctx context.Context, authorID, content string) (*models.Post, error)
	GetAll(ctx context.Context) ([]models.EnrichedPost, error)
	GetByID(ctx context.Context, id uint) (*models.EnrichedPost, error)
	GetByAuthor(ctx context.Context, authorID string) ([]models.EnrichedPost, error)
}

type PostHandler struct {
	posts      postService
	retryAfter time.Duration
}

// NewPostHandler takes the rate-limit window to advertise in Retry-After.
func NewPostHandler(posts postService, retryAfter time.Duration) *PostHandler {
	return &PostHandler{posts: posts, retryAfter: retryAfter}
}

type createPostRequest struct {
	Content string `json:"content"`
}

// Create - POST /api/post.create
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		if errors.Is(err, services.ErrTooManyRequests) && h.retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(h.retryAfter.Seconds())))
		}
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetAll - GET /api/post.getAll
func (h *PostHandler) GetAll(c *gin.Context) {
	feed, err := h.posts.GetAll(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// GetByID - GET /api/post.getById?id=, responds null when the post does not exist
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "id must be a positive integer")
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		RenderError(c, err)
		return
	}
	if post == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetByUserID - GET /api/post.getPostByUserId?userId=
func (h *PostHandler) GetByUserID(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		BadRequest(c, "userId is required")
		return
	}

	feed, err := h.posts.GetByAuthor(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
