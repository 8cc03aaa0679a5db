package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/grouping"
	"catalogdedup/internal/api/handlers/system"
	"catalogdedup/server/middleware"
)

// Handlers обработчики, которые регистрирует Router
type Handlers struct {
	Grouping *grouping.Handler
	System   *system.Handler
}

// RegisterOptions задают опции регистрации маршрутов
type RegisterOptions struct {
	EnableCORS    bool
	EnableGzip    bool
	EnableSwagger bool
}

// NewRouter создает gin.Engine со стандартными middleware и всеми маршрутами API
func NewRouter(h Handlers, logger *slog.Logger, opts RegisterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.GinRequestIDMiddleware(),
		middleware.GinRecoveryMiddleware(logger),
		middleware.GinLoggerMiddleware(logger),
	)
	if opts.EnableCORS {
		router.Use(middleware.GinCORSMiddleware())
	}
	if opts.EnableGzip {
		router.Use(middleware.GinGzipMiddleware())
	}

	api := router.Group("/api")
	if h.Grouping != nil {
		RegisterGroupingRoutes(api, h.Grouping)
	}
	if h.System != nil {
		RegisterSystemRoutes(api, h.System)
	}
	if opts.EnableSwagger {
		RegisterSwaggerRoutes(router)
	}
	return router
}
