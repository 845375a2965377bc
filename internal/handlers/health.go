package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "TAZA SU API"
	serviceVersion = "1.0.0"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    float64           `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health pings every registered dependency. Any failure turns the report
// DEGRADED with a 503 so load balancers can pull the instance.
func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Seconds(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	status := http.StatusOK
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Error().Err(err).Str("check", check.Name).Msg("health check failed")
			resp.Checks[check.Name] = "error"
			resp.Status = "DEGRADED"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	c.JSON(status, resp)
}

func (h HandlerSet) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    serviceName,
		"version": serviceVersion,
		"endpoints": gin.H{
			"auth":       "/api/auth",
			"complaints": "/api/complaints",
			"admin":      "/api/admin",
			"updates":    "/api/updates",
			"upload":     "/api/upload",
			"health":     "/api/health",
		},
	})
}
