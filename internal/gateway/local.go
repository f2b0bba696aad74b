package gateway

import "sync"

// Gateway is the consuming side of a transport adapter: the server pulls
// intents from it and pushes rendering effects back.
type Gateway interface {
	Intents() <-chan Intent
	Push(Effect)
}

// LocalGateway is a channel-backed in-process Gateway. The platform adapter
// feeds Submit and drains Effects; tests use it directly.
type LocalGateway struct {
	in  chan Intent
	out chan Effect

	closeOnce sync.Once
}

// NewLocalGateway creates a gateway with the given channel buffer size.
func NewLocalGateway(buffer int) *LocalGateway {
	return &LocalGateway{
		in:  make(chan Intent, buffer),
		out: make(chan Effect, buffer),
	}
}

// Submit feeds an inbound intent (adapter side).
func (g *LocalGateway) Submit(i Intent) { g.in <- i }

// Intents exposes the inbound stream (server side).
func (g *LocalGateway) Intents() <-chan Intent { return g.in }

// Push delivers an effect to the adapter.
func (g *LocalGateway) Push(e Effect) { g.out <- e }

// Effects exposes the outbound stream (adapter side).
func (g *LocalGateway) Effects() <-chan Effect { return g.out }

// Close shuts the inbound stream; the server loop drains and stops.
func (g *LocalGateway) Close() {
	g.closeOnce.Do(func() { close(g.in) })
}
