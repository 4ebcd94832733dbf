package messaging

import (
	"context"

	"github.com/jwalitptl/vetclinic-api/pkg/circuitbreaker"
)

type breakerPublisher struct {
	next Publisher
	cb   *circuitbreaker.CircuitBreaker
}

// WithBreaker runs next through cb. While cb is open Publish returns
// circuitbreaker.ErrOpen without touching the broker.
func WithBreaker(next Publisher, cb *circuitbreaker.CircuitBreaker) Publisher {
	return &breakerPublisher{next: next, cb: cb}
}

func (p *breakerPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return p.cb.Execute(func() error {
		return p.next.Publish(ctx, eventType, payload)
	})
}
