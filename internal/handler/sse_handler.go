package handler

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/sse"
)

// SSEHandler streams toast and session events to the console frontend.
type SSEHandler struct {
	hub    *sse.Hub
	toasts ToastSource
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, toasts ToastSource) *SSEHandler {
	return &SSEHandler{hub: hub, toasts: toasts}
}

// Stream handles GET /v1/events. It sits behind the session gate, so no
// token is passed on the query string.
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := "console-" + uuid.New().String()[:8]

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if h.toasts != nil {
		if t, ok := h.toasts.Current(); ok {
			c.SSEvent(string(sse.EventToastShown), sse.Event{Event: sse.EventToastShown, Message: t.Message, Timestamp: t.ShownAt})
		}
	}
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Msg("Console SSE stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			name := "console"
			var evt sse.Event
			if json.Unmarshal(data, &evt) == nil && evt.Event != "" {
				name = string(evt.Event)
			}
			c.SSEvent(name, string(data))
			return true
		case <-time.After(30 * time.Second):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
