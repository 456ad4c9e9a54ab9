package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/internal/api"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/middleware"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
)

// Deps are the services the routes are built from.
type Deps struct {
	Catalog        *service.Catalog
	Sessions       *service.Sessions
	Limiter        *middleware.RateLimiter
	Metrics        *observability.Collector
	Log            *logger.Logger
	AllowedOrigins []string
	HealthChecks   map[string]api.HealthCheck
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ErrorHandler(deps.Log),
		middleware.RequestLogger(deps.Log, deps.Metrics),
		middleware.CORS(deps.AllowedOrigins),
	)

	router.GET("/health", api.HealthHandler(deps.HealthChecks))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	api.NewRecipeHandler(deps.Catalog).RegisterRoutes(v1)
	api.NewDashboardHandler(deps.Catalog).RegisterRoutes(v1)
	api.NewEditorHandler(deps.Sessions, deps.Limiter).RegisterRoutes(v1)
	api.NewAuthHandler().RegisterRoutes(v1)

	return router
}
