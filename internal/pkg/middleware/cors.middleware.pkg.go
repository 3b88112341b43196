package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type CorsOptions struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
}

// CorsMiddleware adds the CORS headers and a fixed set of security headers
// to every response.
func CorsMiddleware(opts CorsOptions) gin.HandlerFunc {
	origin := opts.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	methods := strings.Join(opts.AllowMethods, ", ")
	headers := strings.Join(opts.AllowHeaders, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Expose-Headers", HeaderRequestID+", "+HeaderIdempotencyReplayed)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
