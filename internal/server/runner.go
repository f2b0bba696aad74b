// Package server runs the intent dispatch loop over a transport gateway.
package server

import (
	"context"
	"log/slog"

	"github.com/ksolovey/unimatch/internal/bot"
	"github.com/ksolovey/unimatch/internal/gateway"
)

// Runner consumes intents from a gateway and dispatches each one in its
// own goroutine, so concurrent users never block each other. Per-user
// serialization comes from the turn-based protocol itself: a user has at
// most one intent in flight in normal operation.
type Runner struct {
	gw     gateway.Gateway
	router *bot.Router
	log    *slog.Logger
}

// NewRunner wires the dispatch loop.
func NewRunner(gw gateway.Gateway, router *bot.Router, log *slog.Logger) *Runner {
	return &Runner{gw: gw, router: router, log: log}
}

// Run blocks until the context is canceled or the gateway's intent stream
// is closed.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case intent, ok := <-r.gw.Intents():
			if !ok {
				return nil
			}
			go r.dispatch(ctx, intent)
		}
	}
}

// dispatch runs one intent through the router and forwards its effects.
// A panicking handler must never take the whole service down with it.
func (r *Runner) dispatch(ctx context.Context, intent gateway.Intent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("handler panicked", "user", intent.Actor(), "panic", rec)
		}
	}()

	for _, effect := range r.router.Handle(ctx, intent) {
		r.gw.Push(effect)
	}
}
