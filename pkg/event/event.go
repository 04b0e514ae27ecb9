// Package event provides a simple synchronous/async event dispatcher.
//
//	event.Listen("category.saved", func(ctx context.Context, payload any) { ... })
//	event.Fire(ctx, "category.saved", id)
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func listeners(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
// A panicking listener is logged and does not stop the others.
func Fire(ctx context.Context, event string, payload any) {
	for _, h := range listeners(event) {
		call(ctx, event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. Listeners get a context that outlives the request.
func FireAsync(ctx context.Context, event string, payload any) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range listeners(event) {
		go call(ctx, event, h, payload)
	}
}

func call(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", rec)
		}
	}()
	h(ctx, payload)
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
