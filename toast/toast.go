// Package toast holds short-lived user notifications. Each session gets its
// own Bus; notifications disappear on their own after a fixed delay or when
// dismissed.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays active.
const DefaultTTL = 5 * time.Second

// Variant selects the notification style.
type Variant string

const (
	Success Variant = "success"
	Error   Variant = "error"
	Info    Variant = "info"
)

// Notification is one queued message.
type Notification struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	CreatedAt   time.Time
}

// Notifier accepts notifications for display.
type Notifier interface {
	Show(n Notification) string
}

// Discard is a Notifier that drops everything.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Show(Notification) string { return "" }

type timer interface {
	Stop() bool
}

// Bus is an ordered set of active notifications.
type Bus struct {
	mu     sync.Mutex
	items  []Notification
	timers map[string]timer
	closed bool

	ttl       time.Duration
	now       func() time.Time
	afterFunc func(time.Duration, func()) timer
}

// Option configures a Bus.
type Option func(*Bus)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(b *Bus) { b.ttl = d }
}

// NewBus returns an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		timers: make(map[string]timer),
		ttl:    DefaultTTL,
		now:    time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show appends n and schedules its removal. Identical notifications are kept
// as separate entries. The assigned id is returned.
func (b *Bus) Show(n Notification) string {
	n.ID = uuid.NewString()
	if n.Variant == "" {
		n.Variant = Info
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return n.ID
	}
	n.CreatedAt = b.now()
	b.items = append(b.items, n)
	id := n.ID
	b.timers[id] = b.afterFunc(b.ttl, func() { b.remove(id) })
	return id
}

// Dismiss removes a notification immediately. It reports whether id was active.
func (b *Bus) Dismiss(id string) bool {
	b.mu.Lock()
	t, ok := b.timers[id]
	b.mu.Unlock()
	if ok {
		t.Stop()
	}
	return b.remove(id)
}

func (b *Bus) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.timers, id)
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns a snapshot of the queue in insertion order.
func (b *Bus) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Close stops pending timers and drops every notification.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.items = nil
	b.closed = true
}

// Successf is shorthand for a success notification.
func Successf(n Notifier, title, description string) {
	n.Show(Notification{Title: title, Description: description, Variant: Success})
}

// Errorf is shorthand for an error notification.
func Errorf(n Notifier, title, description string) {
	n.Show(Notification{Title: title, Description: description, Variant: Error})
}
