package submission

import (
	"idea-inbox/internal/pkg/middleware"
	"idea-inbox/internal/pkg/redis"
	"time"

	"github.com/gin-gonic/gin"
)

type RouteOptions struct {
	Path           string
	MaxBodyBytes   int64
	Fields         []middleware.FieldOpts
	IdempotencyTTL time.Duration
	// IdempotencyPendingTTL holds a key while its first request runs.
	IdempotencyPendingTTL time.Duration
	// Idempotency is nil when replay protection is disabled.
	Idempotency redis.IRedis
}

func (h *Handler) NewRoutes(e *gin.RouterGroup, opts RouteOptions) {
	e.
		POST(opts.Path,
			middleware.IdempotencyMiddleware(opts.Idempotency, opts.IdempotencyTTL, opts.IdempotencyPendingTTL),
			middleware.MultipartFormMiddleware(opts.MaxBodyBytes, opts.Fields),
			h.Submit).
		OPTIONS(opts.Path, h.Preflight)
}
