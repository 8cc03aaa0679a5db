package container

import (
	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/common"
	groupinghandler "catalogdedup/internal/api/handlers/grouping"
	"catalogdedup/internal/api/handlers/system"
	"catalogdedup/internal/api/routes"
	"catalogdedup/server/middleware"
)

// initHTTP инициализирует обработчики и маршруты
func (c *Container) initHTTP(version string) error {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := c.Logger.With("component", "http")
	c.ErrorHandler = middleware.NewErrorHandler(logger, nil)
	base := common.NewBaseHandlerImpl(c.ErrorHandler)

	c.Router = routes.NewRouter(routes.Handlers{
		Grouping: groupinghandler.NewHandler(base, c.UseCase, c.Config.MaxUploadBytes()),
		System:   system.NewHandler(base, c.UseCase, c.ErrorHandler.Metrics(), version),
	}, logger, routes.RegisterOptions{EnableCORS: true, EnableGzip: true, EnableSwagger: true})
	return nil
}
