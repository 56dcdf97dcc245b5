package notification

import (
	"context"
	"sync"
	"time"
)

// Dispatcher runs best-effort sends either inline or detached from the
// request that triggered them.
type Dispatcher struct {
	async   bool
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(async bool, timeout time.Duration) *Dispatcher {
	return &Dispatcher{async: async, timeout: timeout}
}

// Go runs fn. In async mode fn gets a context that survives the caller's
// cancellation but is bounded by the dispatcher timeout.
func (d *Dispatcher) Go(ctx context.Context, fn func(ctx context.Context)) {
	if !d.async {
		fn(ctx)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		fn(sendCtx)
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
