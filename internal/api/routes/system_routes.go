package routes

import (
	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/system"
)

// RegisterSystemRoutes регистрирует системные маршруты
func RegisterSystemRoutes(api *gin.RouterGroup, h *system.Handler) {
	api.GET("/health", h.HandleHealth)
	api.GET("/stats", h.HandleStats)
}
