package middleware

import (
	"idea-inbox/internal/common/enum"
	_type "idea-inbox/internal/common/type"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const HeaderDebugError = "X-Debug-Error"

// ResponseInit installs the `send` function handlers reply through.
// Responses carrying Data are written as JSON, the others as plain text
// holding Message. In debug mode the runtime is exposed as a header. The
// underlying error is exposed only when exposeErrors is set.
func ResponseInit(exposeErrors bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		shouldDebug := gin.Mode() == gin.DebugMode
		c.Set("send", func(r *_type.Response) {
			if r.Code == 0 {
				r.Code = http.StatusOK
			}
			c.Set("response", r)

			if shouldDebug {
				c.Header("X-Runtime-Ms", strconv.FormatInt(time.Since(startTime(c)).Milliseconds(), 10))
			}
			if exposeErrors && r.Error != nil {
				c.Header(HeaderDebugError, r.Error.Error())
			}
			if r.Error != nil {
				_ = c.Error(r.Error)
			}

			c.Abort()
			switch {
			case r.Code == http.StatusNoContent:
				c.Status(r.Code)
			case r.Data != nil:
				c.JSON(r.Code, r.Data)
			default:
				c.Data(r.Code, enum.TextPlain.WithCharset(), []byte(r.Message))
			}
		})

		c.Next()
	}
}

func startTime(c *gin.Context) time.Time {
	if value, ok := c.Get("start-time"); ok {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}
