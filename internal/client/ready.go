package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/edqe14/hefs/pkg/hefs"
)

// readiness is a one-way uninitialized → hydrating → ready latch. Waiters
// that arrive after the transition return immediately.
type readiness struct {
	state atomic.Int32
	done  chan struct{}
	once  sync.Once
}

func newReadiness() *readiness {
	return &readiness{done: make(chan struct{})}
}

// State implements hefs.Readiness.
func (r *readiness) State() hefs.State {
	return hefs.State(r.state.Load())
}

// IsReady implements hefs.Readiness.
func (r *readiness) IsReady() bool {
	return r.State() == hefs.StateReady
}

// AwaitReady implements hefs.Readiness.
func (r *readiness) AwaitReady(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for ready: %w", ctx.Err())
	}
}

func (r *readiness) setHydrating() {
	r.state.CompareAndSwap(int32(hefs.StateUninitialized), int32(hefs.StateHydrating))
}

func (r *readiness) markReady() {
	r.once.Do(func() {
		r.state.Store(int32(hefs.StateReady))
		close(r.done)
	})
}
