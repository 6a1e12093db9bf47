package combat

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Blocker is a one-shot completion handle for asynchronous work that should
// land before the turn visibly passes. Settle is safe to call more than once
// and safe to call after the gate has already given up waiting.
type Blocker struct {
	once sync.Once
	done chan struct{}
}

// Settle marks the blocker's side effect as finished. The gate does not
// distinguish success from failure.
func (b *Blocker) Settle() {
	b.once.Do(func() { close(b.done) })
}

// AdvanceGate holds the outstanding advance blockers of one encounter turn.
// The zero value is ready to use.
type AdvanceGate struct {
	mu      sync.Mutex
	pending []*Blocker
}

// PreRegister adds a blocker to the current turn's pending set and returns
// its handle.
func (g *AdvanceGate) PreRegister() *Blocker {
	b := &Blocker{done: make(chan struct{})}
	g.mu.Lock()
	g.pending = append(g.pending, b)
	g.mu.Unlock()
	return b
}

// PendingCount returns the number of unsettled blockers registered so far
func (g *AdvanceGate) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// AwaitAll races the currently pending blockers against the timeout and
// returns when every one has settled or the timeout elapses, whichever comes
// first. The pending set is swapped out before waiting begins, so blockers
// registered during the wait belong to the next turn's gate. Abandoned
// blockers are not cancelled; a late Settle is a no-op.
func (g *AdvanceGate) AwaitAll(ctx context.Context, timeout time.Duration) {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	for _, b := range pending {
		b := b
		eg.Go(func() error {
			select {
			case <-b.done:
			case <-ctx.Done():
			}
			return nil
		})
	}
	_ = eg.Wait()
}
