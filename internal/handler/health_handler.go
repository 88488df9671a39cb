package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/om_console/internal/session"
)

var startTime = time.Now()

// Pinger reports whether the persistent storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	storage    Pinger
	session    *session.Store
	shopAPIURL string
}

// NewHealthHandler creates a new HealthHandler. storage may be nil when the
// console runs on in-memory storage.
func NewHealthHandler(storage Pinger, sess *session.Store, shopAPIURL string) *HealthHandler {
	return &HealthHandler{storage: storage, session: sess, shopAPIURL: shopAPIURL}
}

// GetHealth responds with service and storage status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	storageStatus := "memory"
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		storageStatus = "connected"
		if err := h.storage.Ping(ctx); err != nil {
			storageStatus = "disconnected"
		}
	}

	c.JSON(200, gin.H{
		"success": true,
		"code":    200,
		"message": "Service is healthy",
		"data": gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"uptime":  int(time.Since(startTime).Seconds()),
			"storage": storageStatus,
			"session": h.session.State().String(),
			"shopApi": h.shopAPIURL,
		},
	})
}
