package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes need. Metrics may be nil.
type Deps struct {
	System        *handler.SystemHandler
	Authenticator middleware.Authenticator
	Metrics       http.Handler
	Logger        *zap.Logger
}

// New builds the gin engine: request logging and recovery for every route,
// open health and metrics endpoints, and a bearer-protected /api/v1 group.
func New(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), logger.GinMiddleware(deps.Logger))

	engine.GET("/health", deps.System.Health)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	authCfg := middleware.DefaultAuthConfig(deps.Authenticator)
	authCfg.Logger = deps.Logger

	api := engine.Group("/api/v1", middleware.BearerAuth(authCfg))
	api.GET("/system/info", deps.System.GetSystemInfo)
	api.GET("/me", deps.System.WhoAmI)

	return engine
}
