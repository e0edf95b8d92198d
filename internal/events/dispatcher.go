package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// Executor runs detached work. Submit must not block.
type Executor interface {
	Submit(name string, fn func(context.Context) error) bool
}

// asyncDispatcher hands each handler invocation to an Executor and returns
// without waiting. Handlers receive the executor's context, never the
// publisher's.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	executor  Executor
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher backed by executor.
func NewDispatcher(executor Executor, logger *zap.Logger) Dispatcher {
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		executor:  executor,
		logger:    logger,
	}
}

// Publish schedules every handler subscribed to event.Type.
func (d *asyncDispatcher) Publish(_ context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		accepted := d.executor.Submit(string(event.Type), func(ctx context.Context) error {
			return h(ctx, event)
		})
		if !accepted {
			d.logger.Warn("event handler dropped",
				zap.String("event_type", string(event.Type)),
				zap.String("kind", string(event.Kind)),
				zap.String("submission_id", event.SubmissionID))
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
