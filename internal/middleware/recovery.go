package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
)

func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				event := log.Error().
					Interface("error", r).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", RequestIDFrom(c))
				if user, ok := CurrentUser(c); ok {
					event = event.Int64("user_id", user.ID)
				}
				event.Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					apperr.NewResponse("internal_server_error", "internal server error"))
			}
		}()
		c.Next()
	}
}
