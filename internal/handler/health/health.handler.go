package health

import (
	_type "idea-inbox/internal/common/type"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	now func() time.Time
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	Health(c *gin.Context)
}

func NewHandler() IHandler {
	return &Handler{now: time.Now}
}

func (h *Handler) Health(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	send(&_type.Response{Data: gin.H{
		"status": "ok",
		"time":   h.now().Format("2006-01-02T15:04:05"),
	}})
}

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.GET("/health", h.Health)
}
