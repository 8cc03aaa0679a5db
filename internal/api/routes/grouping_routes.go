package routes

import (
	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/grouping"
)

// RegisterGroupingRoutes регистрирует маршруты загрузки и работы с группами
func RegisterGroupingRoutes(api *gin.RouterGroup, h *grouping.Handler) {
	api.POST("/uploadfile", h.HandleUploadFile)
	api.GET("/groups", h.HandleListGroups)
	api.GET("/groups/:id", h.HandleGetGroup)
	api.POST("/items/:system_id/move", h.HandleMoveItem)
	api.POST("/dump", h.HandleDump)
}
