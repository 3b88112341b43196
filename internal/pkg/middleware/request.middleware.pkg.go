package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-Id"

// RequestInit tags the request with an id, reusing a well-formed one sent
// by the client, and records the start time.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set("requestId", requestID)
		c.Set("start-time", time.Now())
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}
