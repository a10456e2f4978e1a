package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "1.0.0"

var startTime = time.Now()

// Root handles GET /
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API ImpuestosRD backend ready"})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready
func (h *Handlers) Ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Error("Readiness check failed", logging.Fields{"error": err.Error()})
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unavailable",
				"database": "down",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "up",
	})
}

// Live handles GET /live
func (h *Handlers) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// VersionInfo handles GET /version
func (h *Handlers) VersionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":        Version,
		"service":        "impuestosrd-api",
		"go_version":     runtime.Version(),
		"started_at":     startTime.UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
	})
}
