package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/security"
)

const (
	currentUserKey = "current_user"
	claimsKey      = "token_claims"
)

type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apperr.NewResponse(code, message))
}

// Auth verifies the bearer token and loads the account it names. The role
// and email attached to the request come from the store, never from the
// token, so demotions and deletions take effect on the next request.
func Auth(tokens TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !found || tokenStr == "" {
			abortJSON(c, http.StatusUnauthorized, "missing_token", "access token required")
			return
		}

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				abortJSON(c, http.StatusForbidden, "token_expired", "token expired")
				return
			}
			abortJSON(c, http.StatusForbidden, "invalid_token", "invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.IsNotFound(err) {
				abortJSON(c, http.StatusUnauthorized, "user_not_found", "user not found")
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(claimsKey, *claims)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

// CurrentUser returns the account attached by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// MustCurrentUser is CurrentUser for routes mounted behind Auth.
func MustCurrentUser(c *gin.Context) models.User {
	user, ok := CurrentUser(c)
	if !ok {
		panic("middleware: route requires Auth")
	}
	return user
}
