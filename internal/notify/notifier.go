package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/sse"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Toast is the message currently on screen.
type Toast struct {
	Message string    `json:"message"`
	ShownAt time.Time `json:"shownAt"`
}

// Notifier is the process-wide single-slot toast store. Each Show replaces
// the visible message and restarts its auto-dismiss window; a single timer
// handle is cancelled and rescheduled so an older timer can never clear a
// newer message.
type Notifier struct {
	duration  time.Duration
	publisher sse.ToastPublisher

	mu      sync.Mutex
	current *Toast
	seq     uint64
	timer   *time.Timer
}

// New creates a Notifier. A nil publisher disables fan-out.
func New(duration time.Duration, publisher sse.ToastPublisher) *Notifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if publisher == nil {
		publisher = sse.NopPublisher{}
	}
	return &Notifier{duration: duration, publisher: publisher}
}

// Show displays message and schedules its removal.
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	seq := n.seq
	n.current = &Toast{Message: message, ShownAt: time.Now()}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.duration, func() { n.expire(seq) })

	log.Debug().Str("message", message).Msg("Toast shown")
	n.publisher.ToastShown(message)
}

// expire clears the slot only if no Show or Dismiss happened since the timer
// for seq was armed. Stop cannot recall a callback that already started.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq || n.current == nil {
		return
	}
	n.clearLocked()
}

// Dismiss clears the current toast immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	if n.current != nil {
		n.clearLocked()
	}
}

func (n *Notifier) clearLocked() {
	n.current = nil
	n.timer = nil
	n.publisher.ToastCleared()
}

// Current returns the visible toast, if any.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	return *n.current, true
}
