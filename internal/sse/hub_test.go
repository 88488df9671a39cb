package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	a := hub.Register("a")
	b := hub.Register("b")
	assert.Equal(t, 2, hub.ClientCount())

	NewHubPublisher(hub).ToastShown("Item added successfully!")

	for _, c := range []*Client{a, b} {
		var ev Event
		require.NoError(t, json.Unmarshal(<-c.Events, &ev))
		assert.Equal(t, EventToastShown, ev.Event)
		assert.Equal(t, "Item added successfully!", ev.Message)
		assert.False(t, ev.Timestamp.IsZero())
	}

	hub.Unregister("a")
	_, open := <-a.Events
	assert.False(t, open)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")
	for i := 0; i < cap(c.Events)+5; i++ {
		hub.Broadcast(&Event{Event: EventToastCleared})
	}
	assert.Len(t, c.Events, cap(c.Events))
}
