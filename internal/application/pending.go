package application

import (
	"context"
	"sync"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
)

// Outcome is the result of one route trigger. Seq is zero when validation failed and
// no request was issued. Stale outcomes were superseded and never applied.
type Outcome struct {
	Seq    uint64
	Result *route.Result
	Err    error
	Stale  bool
}

// Pending is the handle for an issued route request.
type Pending struct {
	Seq uint64

	once    sync.Once
	done    chan struct{}
	outcome Outcome
}

func newPending(seq uint64) *Pending {
	return &Pending{Seq: seq, done: make(chan struct{})}
}

func completedPending(outcome Outcome) *Pending {
	p := newPending(outcome.Seq)
	p.complete(outcome)
	return p
}

func (p *Pending) complete(o Outcome) {
	p.once.Do(func() {
		p.outcome = o
		close(p.done)
	})
}

// Done is closed once the outcome is known.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the outcome is known or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, nil
	case <-ctx.Done():
		return Outcome{Seq: p.Seq}, ctx.Err()
	}
}
