package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/internal/middleware"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEditorClosed), service.IsBusy(err):
		return http.StatusConflict
	case errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, service.ErrEmptyUpload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, middleware.ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorResponse{Error: msg})
}
