package middleware

import (
	"context"
	"encoding/hex"
	"encoding/json"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/helper"
	"idea-inbox/internal/pkg/logger"
	"idea-inbox/internal/pkg/redis"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"
)

const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotencyReplayed = "X-Idempotency-Replayed"

	idempotencyPending = "pending"

	// DefaultIdempotencyPendingTTL bounds an in-flight reservation when the
	// caller does not derive one from its server timeouts.
	DefaultIdempotencyPendingTTL = time.Minute
)

type idempotentReply struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IdempotencyStoreKey maps a client key, scoped to the request path, onto
// a fixed-length store key.
func IdempotencyStoreKey(path, key string) string {
	sum := blake2b.Sum256([]byte(path + "\n" + key))
	return "idempotency:" + hex.EncodeToString(sum[:])
}

// IdempotencyMiddleware replays the stored 200 reply for a repeated
// Idempotency-Key instead of running the handler again. A key whose first
// request is still running gets 409 for up to pendingTTL, which must cover
// the longest request the server lets through (body read included). Store
// failures let the request through.
func IdempotencyMiddleware(store redis.IRedis, ttl, pendingTTL time.Duration) gin.HandlerFunc {
	if pendingTTL <= 0 {
		pendingTTL = DefaultIdempotencyPendingTTL
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if store == nil || key == "" {
			c.Next()
			return
		}

		send := c.MustGet("send").(func(r *_type.Response))
		ctx := c.Request.Context()
		storeKey := IdempotencyStoreKey(c.Request.URL.Path, key)
		log := logger.Warning.WithField("request_id", c.GetString("requestId"))

		reserved, err := store.SetNX(ctx, storeKey, []byte(idempotencyPending), pendingTTL)
		if err != nil {
			log.WithField("error", err.Error()).Println("idempotency store unavailable")
			c.Next()
			return
		}

		if !reserved {
			cached, found, err := store.Get(ctx, storeKey)
			switch {
			case err != nil:
				log.WithField("error", err.Error()).Println("idempotency lookup failed")
				c.Next()
			case !found:
				c.Next()
			case cached == idempotencyPending:
				send(helper.ParseResponse(&_type.Response{
					Code:    http.StatusConflict,
					Message: "A request with this Idempotency-Key is still in progress",
				}))
			default:
				var reply idempotentReply
				if err := helper.ByteToStruct([]byte(cached), &reply); err != nil {
					log.WithField("error", err.Error()).Println("idempotency record unreadable")
					c.Next()
					return
				}
				c.Header(HeaderIdempotencyReplayed, "true")
				send(&_type.Response{Code: reply.Code, Message: reply.Message})
			}
			return
		}

		c.Next()

		storeCtx := context.WithoutCancel(ctx)
		value, _ := c.Get("response")
		resp, ok := value.(*_type.Response)
		if !ok || resp.Code != http.StatusOK {
			if err := store.Del(storeCtx, storeKey); err != nil {
				log.WithField("error", err.Error()).Println("releasing idempotency key failed")
			}
			return
		}

		data, err := json.Marshal(idempotentReply{Code: resp.Code, Message: resp.Message})
		if err == nil {
			err = store.Set(storeCtx, storeKey, data, ttl)
		}
		if err != nil {
			log.WithField("error", err.Error()).Println("saving idempotency record failed")
		}
	}
}
