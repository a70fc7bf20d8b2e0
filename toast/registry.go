package toast

import (
	"context"
	"sync"
	"time"
)

// DefaultIdle is how long an unused session bus is kept.
const DefaultIdle = 30 * time.Minute

// Registry owns one Bus per session id. It is created once at the
// application root and handed to whatever needs to reach a session's bus.
type Registry struct {
	mu    sync.Mutex
	buses map[string]*entry
	ttl   time.Duration
	idle  time.Duration
	now   func() time.Time
}

type entry struct {
	bus  *Bus
	seen time.Time
}

// NewRegistry returns a registry whose buses use ttl (0 means DefaultTTL).
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		buses: make(map[string]*entry),
		ttl:   ttl,
		idle:  DefaultIdle,
		now:   time.Now,
	}
}

// For returns the bus for sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.buses[sessionID]
	if !ok {
		e = &entry{bus: NewBus(WithTTL(r.ttl))}
		r.buses[sessionID] = e
	}
	e.seen = r.now()
	return e.bus
}

// Len reports the number of live buses.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buses)
}

// Sweep closes and drops buses idle for longer than the idle window.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.buses {
		if e.seen.Before(cutoff) {
			e.bus.Close()
			delete(r.buses, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close closes every bus.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.buses {
		e.bus.Close()
		delete(r.buses, id)
	}
}
