package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler only exposes logout. It keeps no session state, so the
// request succeeds whether or not anybody was signed in.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
