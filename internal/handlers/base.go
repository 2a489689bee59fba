package handlers

import (
	"errors"
	"net/http"

	"emojichirp/internal/services"

	"github.com/gin-gonic/gin"
)

// Error codes follow the names the web client already switches on.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RenderError maps a service error to its status and JSON body. Server-side
// failures only expose a generic message; the cause goes to the request log.
func RenderError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		renderError(c, http.StatusBadRequest, CodeBadRequest, ve.Error())
	case errors.Is(err, services.ErrUnauthorized):
		renderError(c, http.StatusUnauthorized, CodeUnauthorized, "please sign in")
	case errors.Is(err, services.ErrTooManyRequests):
		renderError(c, http.StatusTooManyRequests, CodeTooManyRequests, "too many posts, please wait a moment")
	case errors.Is(err, services.ErrNotFound):
		renderError(c, http.StatusNotFound, CodeNotFound, "not found")
	default:
		renderError(c, http.StatusInternalServerError, CodeInternal, "something went wrong")
	}
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, message string) {
	renderError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func renderError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}
