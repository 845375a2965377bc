package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type updateResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h HandlerSet) ListUpdates(c *gin.Context) {
	updates, err := h.updates.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	items := make([]updateResponse, 0, len(updates))
	for _, u := range updates {
		items = append(items, updateResponse{
			ID:          u.ID,
			Title:       u.Title,
			Description: u.Description,
			CreatedAt:   u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updates": items,
	})
}
