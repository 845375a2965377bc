package middleware

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/database"
)

// Errors renders the last error a handler recorded with c.Error. Details
// of unexpected failures are only exposed in development.
func Errors(log zerolog.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := classify(err, development)
		if status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.Writer.Header().Get(requestIDHeader)).
				Msg("request failed")
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func classify(err error, development bool) (int, apperr.Response) {
	if appErr, ok := apperr.As(err); ok {
		return appErr.Kind.Status(), apperr.NewResponse(appErr.Code, appErr.Message)
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return apperr.KindPayload.Status(), apperr.NewResponse("payload_too_large",
			fmt.Sprintf("request body exceeds %d bytes", maxBytes.Limit))
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return apperr.KindPayload.Status(), apperr.NewResponse("payload_too_large", "multipart form too large")
	}

	if database.IsUniqueViolation(err, "") {
		return apperr.KindConflict.Status(), apperr.NewResponse("duplicate_entry", "record already exists")
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.KindAuth.Status(), apperr.NewResponse("token_expired", "token expired")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims) {
		return apperr.KindAuth.Status(), apperr.NewResponse("invalid_token", "invalid token")
	}

	resp := apperr.NewResponse("internal_server_error", "internal server error")
	if development {
		resp.Details = err.Error()
	}
	return http.StatusInternalServerError, resp
}
