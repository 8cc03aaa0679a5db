package common

import (
	"github.com/gin-gonic/gin"

	"catalogdedup/server/middleware"
)

// BaseHandlerInterface общий интерфейс ответа для всех handlers
type BaseHandlerInterface interface {
	WriteJSON(c *gin.Context, statusCode int, data any)
	HandleError(c *gin.Context, err error)
}

// BaseHandlerImpl реализация BaseHandlerInterface через middleware.ErrorHandler
type BaseHandlerImpl struct {
	errors *middleware.ErrorHandler
}

// NewBaseHandlerImpl создает новую реализацию BaseHandlerInterface
func NewBaseHandlerImpl(errors *middleware.ErrorHandler) *BaseHandlerImpl {
	if errors == nil {
		errors = middleware.NewErrorHandler(nil, nil)
	}
	return &BaseHandlerImpl{errors: errors}
}

func (h *BaseHandlerImpl) WriteJSON(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func (h *BaseHandlerImpl) HandleError(c *gin.Context, err error) {
	h.errors.Handle(c, err)
}
