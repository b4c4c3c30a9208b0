package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"adaptix-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyCacheKeyCtx = "idempotency_cache_key"
	idempotencyLockKeyCtx  = "idempotency_lock_key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

// Idempotency replays the stored result of a POST carrying the same Idempotency-Key
// and rejects a duplicate that arrives while the first one is still running.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		// 1. replay a finished result
		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			if json.Unmarshal([]byte(val), &cachedRes) == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, http.StatusOK, cachedRes, nil)
				c.Abort()
				return
			}
		}

		// 2. claim the key
		// A held lock means the same key is still being processed.
		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis down: serve the request without replay protection
			zap.L().Named("middleware.idempotency").Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(idempotencyCacheKeyCtx, cacheKey)
		c.Set(idempotencyLockKeyCtx, lockKey)

		c.Next()

		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}

// RememberIdempotentResult stores a successful response for the request's Idempotency-Key.
// Handlers call it right before writing the success envelope; it is a no-op without a key.
func RememberIdempotentResult(c *gin.Context, rdb *redis.Client, result any) {
	if rdb == nil {
		return
	}
	cacheKey := c.GetString(idempotencyCacheKeyCtx)
	if cacheKey == "" {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL).Err()
}
