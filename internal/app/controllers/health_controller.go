package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc reports whether a backing store is reachable
type PingFunc func(ctx context.Context) error

// HealthController reports liveness and storage reachability
type HealthController struct {
	storage PingFunc
}

// NewHealthController creates a new HealthController. storage may be nil when
// the repositories are held in memory.
func NewHealthController(storage PingFunc) *HealthController {
	return &HealthController{storage: storage}
}

// Health handles GET /health
func (h *HealthController) Health(c *gin.Context) {
	checks := gin.H{"storage": "healthy"}
	status := http.StatusOK
	state := "healthy"

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage(ctx); err != nil {
			checks["storage"] = "unhealthy"
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}
	}

	c.JSON(status, gin.H{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
