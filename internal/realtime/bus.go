package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/hotelops/reclamations-backend/pkg/logger"
)

// EventReclamationsUpdated tells clients to refetch the reclamation list.
const EventReclamationsUpdated = "reclamationsUpdated"

// Event is a content-free change signal.
type Event struct {
	Name string `json:"event"`
}

// Handler receives published events.
type Handler func(Event)

// Bus is an in-process fan-out of domain events. Handlers run synchronously on
// the publisher's goroutine and must not block; a panicking handler is logged
// and skipped.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	logg     *logger.Logger
}

// NewBus constructs an empty bus.
func NewBus(logg *logger.Logger) *Bus {
	return &Bus{handlers: map[int]Handler{}, logg: logg}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers evt to every handler.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(ctx, h, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil && b.logg != nil {
			b.logg.Error(b.logg.WithField(ctx, "event", evt.Name), "realtime.handler_panic", fmt.Errorf("%v", r))
		}
	}()
	h(evt)
}
