package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/ratelimit"
)

// RateLimit throttles requests per client address. When the limiter
// backend fails the request is let through.
func RateLimit(limiter ratelimit.Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			abortJSON(c, http.StatusTooManyRequests, "too_many_requests", "too many requests, try again later")
			return
		}
		c.Next()
	}
}
