package sse

// ToastPublisher is the interface the notification store uses to push toast
// changes to connected consoles.
type ToastPublisher interface {
	ToastShown(message string)
	ToastCleared()
	SessionEnded()
}

// HubPublisher implements ToastPublisher using the SSE Hub.
type HubPublisher struct {
	hub *Hub
}

// NewHubPublisher creates a publisher backed by the given Hub.
func NewHubPublisher(hub *Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) ToastShown(message string) {
	if p.hub.ClientCount() == 0 {
		return
	}
	p.hub.Broadcast(&Event{Event: EventToastShown, Message: message})
}

func (p *HubPublisher) ToastCleared() {
	if p.hub.ClientCount() == 0 {
		return
	}
	p.hub.Broadcast(&Event{Event: EventToastCleared})
}

func (p *HubPublisher) SessionEnded() {
	if p.hub.ClientCount() == 0 {
		return
	}
	p.hub.Broadcast(&Event{Event: EventSessionEnded})
}

// NopPublisher is a no-op implementation for when SSE is not needed.
type NopPublisher struct{}

func (NopPublisher) ToastShown(string) {}
func (NopPublisher) ToastCleared()     {}
func (NopPublisher) SessionEnded()     {}
