// Package notify holds the queue of transient status messages shown to the user.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/logging"
)

// Notification is one status message.
type Notification struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Kind      domain.NotificationKind `json:"kind"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Listener is called synchronously for every pushed notification.
type Listener func(Notification)

// Notifier is the narrow interface the core components push through.
type Notifier interface {
	Push(message string, kind domain.NotificationKind) Notification
}

// Dispatcher keeps notifications in arrival order until they are dismissed
// or expire. Safe for concurrent use.
type Dispatcher struct {
	mu        sync.Mutex
	items     []Notification
	listeners []Listener
	timeout   time.Duration
	now       func() time.Time
	log       *logging.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New creates a dispatcher whose notifications expire after timeout.
// A zero timeout keeps notifications until dismissed.
func New(timeout time.Duration, log *logging.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timeout: timeout,
		now:     time.Now,
		log:     log.Sub("notify"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timeout returns the configured expiry.
func (d *Dispatcher) Timeout() time.Duration { return d.timeout }

// Push enqueues a notification. Unknown kinds are recorded as info.
func (d *Dispatcher) Push(message string, kind domain.NotificationKind) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      domain.ParseNotificationKind(string(kind)),
		CreatedAt: d.now(),
	}

	d.mu.Lock()
	d.items = append(d.items, n)
	listeners := append([]Listener(nil), d.listeners...)
	d.mu.Unlock()

	d.log.Debug().Str("id", n.ID).Str("kind", string(n.Kind)).Str("message", message).Msg("notification")

	for _, fn := range listeners {
		fn(n)
	}
	return n
}

// Dismiss removes the notification with the given id.
func (d *Dispatcher) Dismiss(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, n := range d.items {
		if n.ID == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return true
		}
	}
	return false
}

// Visible returns the pending notifications, oldest first.
func (d *Dispatcher) Visible() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Notification(nil), d.items...)
}

// Prune drops notifications older than the timeout and returns how many
// were removed.
func (d *Dispatcher) Prune(now time.Time) int {
	if d.timeout <= 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.items[:0]
	removed := 0
	for _, n := range d.items {
		if now.Sub(n.CreatedAt) >= d.timeout {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	d.items = kept
	return removed
}

// Subscribe registers a listener for future pushes.
func (d *Dispatcher) Subscribe(fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}
