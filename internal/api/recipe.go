package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

// RecipeHandler serves the catalog list.
type RecipeHandler struct {
	catalog *service.Catalog
}

func NewRecipeHandler(catalog *service.Catalog) *RecipeHandler {
	return &RecipeHandler{catalog: catalog}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("/refresh", h.RefreshRecipes)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

type listResponse struct {
	Recipes []model.Recipe `json:"recipes"`
	Loading bool           `json:"loading"`
}

func (h *RecipeHandler) respond(c *gin.Context, recipes []model.Recipe) {
	c.JSON(http.StatusOK, listResponse{Recipes: recipes, Loading: h.catalog.Loading()})
}

// ListRecipes filters the last fetched set by name or region.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	h.respond(c, h.catalog.Filter(c.Query("q")))
}

// RefreshRecipes re-reads the store. A failed fetch leaves the previous
// set in place and is not reported.
func (h *RecipeHandler) RefreshRecipes(c *gin.Context) {
	_ = h.catalog.FetchAll(c.Request.Context())
	h.respond(c, h.catalog.Records())
}

// DeleteRecipe removes the record from the store. Store failures are only
// logged, so the response is always the current set.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	_ = h.catalog.Delete(c.Request.Context(), c.Param("id"))
	h.respond(c, h.catalog.Records())
}
