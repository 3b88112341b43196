package handler

import (
	"idea-inbox/internal/common/enum"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/handler/health"
	"idea-inbox/internal/handler/submission"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/middleware"
	submissionservice "idea-inbox/internal/service/submission"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Service    submissionservice.IService
	Submission submission.RouteOptions
	// DebugErrors sends the internal error text in X-Debug-Error.
	DebugErrors bool
}

// NewRouter builds the gin engine: shared middleware, the submission and
// health routes, and text replies for unknown paths and methods.
func NewRouter(config RouterConfig) *gin.Engine {
	e := gin.New()
	e.HandleMethodNotAllowed = true

	e.Use(
		gin.Recovery(),
		middleware.RequestInit(),
		middleware.ResponseInit(config.DebugErrors),
		middleware.CorsMiddleware(middleware.CorsOptions{
			AllowMethods: []string{enum.POST.ToString(), enum.OPTIONS.ToString()},
			AllowHeaders: []string{"Content-Type", middleware.HeaderIdempotencyKey},
		}),
		middleware.AccessLog(),
	)

	e.NoMethod(reply(http.StatusMethodNotAllowed))
	e.NoRoute(reply(http.StatusNotFound))

	root := e.Group("")
	submission.NewHandler(config.Service).NewRoutes(root, config.Submission)
	health.NewHandler().NewRoutes(root)

	return e
}

func reply(code int) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *_type.Response))
		send(helper.ParseResponse(&_type.Response{Code: code}))
	}
}
