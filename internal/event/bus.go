// Package event provides an in-process pub/sub bus for submission domain
// events. The coordinator publishes after each persistence write succeeds;
// subscribers process events asynchronously in a single consumer goroutine,
// which serialises handling and keeps SQLite happy.
package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event describes something that happened to a persisted record.
type Event struct {
	Type       string    `json:"type"` // e.g. "property.created"
	Collection string    `json:"collection"`
	RecordID   string    `json:"record_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Handler processes an event. Implementations must tolerate concurrent
// calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Bus is a buffered in-process event bus with named subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan Event
	done        chan struct{}
	log         zerolog.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewBus creates a Bus with the given buffer size.
func NewBus(bufSize int, log zerolog.Logger) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan Event, bufSize),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus. Non-blocking — if the buffer is full
// the event is dropped with a warning.
func (b *Bus) Publish(_ context.Context, evt Event) {
	select {
	case b.events <- evt:
	default:
		b.log.Warn().Str("type", evt.Type).Str("record_id", evt.RecordID).
			Msg("event bus buffer full, dropping event")
	}
}

// Start begins the consumer goroutine. It processes events until the
// context is cancelled, draining the buffer before exiting.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt := <-b.events:
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt := <-b.events:
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has finished.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt Event) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			b.log.Error().Err(err).Str("subscriber", s.name).Str("type", evt.Type).
				Msg("event handler failed")
		}
	}
}

// NewLogConsumer returns a handler that writes every event to the log.
func NewLogConsumer(log zerolog.Logger) Handler {
	return HandlerFunc(func(_ context.Context, evt Event) error {
		log.Info().
			Str("type", evt.Type).
			Str("collection", evt.Collection).
			Str("record_id", evt.RecordID).
			Str("actor", evt.Actor).
			Time("occurred_at", evt.OccurredAt).
			Msg("domain event")
		return nil
	})
}
