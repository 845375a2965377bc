package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
)

func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}

		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin)
}

// OwnerLookup resolves the owning user of a resource.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id int64) (int64, error)
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RequireOwnership lets the owner of the resource named by param through,
// and any admin. A missing resource is 404 for everyone. It must be mounted
// after Auth.
func RequireOwnership(owners OwnerLookup, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := MustCurrentUser(c)

		id, ok := ParamID(c, param)
		if !ok {
			abortJSON(c, http.StatusBadRequest, "invalid_id", "invalid resource id")
			return
		}

		ownerID, err := owners.OwnerOf(c.Request.Context(), id)
		if err != nil {
			if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindNotFound {
				abortJSON(c, http.StatusNotFound, appErr.Code, appErr.Message)
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		if !user.IsAdmin() && ownerID != user.ID {
			abortJSON(c, http.StatusForbidden, "forbidden", "you can only modify your own resources")
			return
		}

		c.Next()
	}
}
