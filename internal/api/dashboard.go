package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

// DashboardHandler serves the summary view and the form options.
type DashboardHandler struct {
	catalog *service.Catalog
}

func NewDashboardHandler(catalog *service.Catalog) *DashboardHandler {
	return &DashboardHandler{catalog: catalog}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", h.GetStats)
	router.GET("/options", h.GetOptions)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, service.Summarize(h.catalog.Records()))
}

func (h *DashboardHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, model.FormOptions())
}
