package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipstream/internal/service"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// respondError maps service error kinds to status codes. Raw internal
// details (store errors, upload errors) never reach the message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respond(c, http.StatusBadRequest, nil, err.Error())
	case errors.Is(err, service.ErrConflict):
		respond(c, http.StatusConflict, nil, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, nil, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respond(c, http.StatusUnauthorized, nil, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		respond(c, http.StatusInternalServerError, nil, "failed to upload file")
	default:
		respond(c, http.StatusInternalServerError, nil, "something went wrong")
	}
}
