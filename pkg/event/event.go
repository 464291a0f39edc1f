// Package event provides an in-process event bus. Services fire domain
// events (order placed, status changed) and decoupled listeners react:
// the delivery board pushes SSE updates, the notifier enqueues jobs.
package event

import (
	"sync"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus is a named-event dispatcher. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func (b *Bus) Fire(event string, payload interface{}) {
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently.
// It returns immediately without waiting for handlers to complete.
func (b *Bus) FireAsync(event string, payload interface{}) {
	for _, h := range b.snapshot(event) {
		go h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Default is the process-wide bus used by the package-level helpers.
var Default = NewBus()

// Listen registers a handler on the default bus.
func Listen(event string, handler Handler) { Default.Listen(event, handler) }

// Fire dispatches on the default bus.
func Fire(event string, payload interface{}) { Default.Fire(event, payload) }

// FireAsync dispatches asynchronously on the default bus.
func FireAsync(event string, payload interface{}) { Default.FireAsync(event, payload) }

// Flush clears the default bus.
func Flush() { Default.Flush() }
