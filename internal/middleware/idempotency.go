package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payflux/payflux/pkg/jsonresponse"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"

	idempotencyStoreTimeout = 2 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// bodyRecorder duplicates everything written to the response so the
// middleware can persist it after the handler returns.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// Idempotency replays the stored response for a repeated Idempotency-Key
// header instead of executing the handler again. Requests without the header
// pass through untouched.
func Idempotency(cache *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		key := gctx.GetHeader(idempotencyKeyHeader)
		if key == "" {
			gctx.Next()
			return
		}

		ctx := gctx.Request.Context()
		logger := zerolog.Ctx(ctx)
		cacheKey := idempotencyPrefix + key

		lookupCtx, cancel := context.WithTimeout(ctx, idempotencyStoreTimeout)
		defer cancel()

		cached, err := cache.Get(lookupCtx, cacheKey).Result()
		if err == nil {
			if cached == inProgressMarker {
				gctx.AbortWithStatusJSON(http.StatusConflict, jsonresponse.Message("duplicate request currently processing"))
				return
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(cached), &stored); err != nil {
				logger.Warn().Err(err).Str("idempotency_key", key).Msg("decoding stored response")
				gctx.AbortWithStatusJSON(http.StatusConflict, jsonresponse.Message("duplicate request"))
				return
			}

			gctx.Data(stored.Status, stored.ContentType, []byte(stored.Body))
			gctx.Abort()
			return
		}

		if err != redis.Nil {
			logger.Error().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, jsonresponse.Error(err))
			return
		}

		if err := cache.SetNX(lookupCtx, cacheKey, inProgressMarker, ttl).Err(); err != nil {
			logger.Error().Err(err).Str("idempotency_key", key).Msg("idempotency reservation failed")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, jsonresponse.Error(err))
			return
		}

		recorder := &bodyRecorder{ResponseWriter: gctx.Writer}
		gctx.Writer = recorder

		gctx.Next()

		persistCtx, cancelPersist := context.WithTimeout(context.Background(), idempotencyStoreTimeout)
		defer cancelPersist()

		// Server-side failures are retryable, so the reservation is released
		// instead of being replayed later.
		if recorder.Status() >= http.StatusInternalServerError {
			cache.Del(persistCtx, cacheKey)
			return
		}

		stored := storedResponse{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.String(),
		}

		payload, err := json.Marshal(stored)
		if err != nil {
			logger.Error().Err(err).Str("idempotency_key", key).Msg("encoding response for replay")
			cache.Del(persistCtx, cacheKey)
			return
		}

		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error().Err(err).Str("idempotency_key", key).Msg("persisting response for replay")
			cache.Del(persistCtx, cacheKey)
		}
	}
}
