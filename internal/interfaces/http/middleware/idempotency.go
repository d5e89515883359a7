package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tamarind/backend/internal/domain/shared"
	"github.com/tamarind/backend/internal/infrastructure/logger"
	"github.com/tamarind/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength caps the Idempotency-Key header
const MaxIdempotencyKeyLength = 200

// IdempotencyConfig configures the Idempotency-Key middleware
type IdempotencyConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// Idempotency rejects a request whose Idempotency-Key was already used for
// the same route with 409 ERR_DUPLICATE_REQUEST. Requests without the header
// pass through. A response with status >= 400 releases the key so the client
// can retry. If the store is unreachable the request proceeds unguarded.
func Idempotency(store shared.IdempotencyStore, cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "http:"
	}

	return func(c *gin.Context) {
		header := c.GetHeader(HeaderIdempotencyKey)
		if header == "" || store == nil {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		ctx := logger.WithIdempotencyKey(c.Request.Context(), header)
		c.Request = c.Request.WithContext(ctx)
		key := cfg.KeyPrefix + c.Request.Method + ":" + routeOf(c) + ":" + header

		fresh, err := store.MarkProcessed(ctx, key, cfg.TTL)
		if err != nil {
			logger.L(ctx).Warn("idempotency store unavailable, request not deduplicated",
				zap.String("idempotency_key", header),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, key); err != nil {
				logger.L(ctx).Warn("failed to release idempotency key",
					zap.String("idempotency_key", header),
					zap.Error(err),
				)
			}
		}
	}
}
