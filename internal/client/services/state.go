package services

import (
	"context"
	"sync"

	"github.com/FRANCK359/smart-search-ai/internal/client/session"
)

// SyncState tracks one confirmation-gated write.
type SyncState string

const (
	StateNone       SyncState = ""
	StatePending    SyncState = "pending"
	StateConfirmed  SyncState = "confirmed"
	StateRolledBack SyncState = "rolled-back"
)

// tracker holds the SyncState per key. It is guarded by the owner's mutex.
type tracker[K comparable] map[K]SyncState

// begin moves k to pending, refusing when it already is.
func (t tracker[K]) begin(k K) error {
	if t[k] == StatePending {
		return ErrPending
	}
	t[k] = StatePending
	return nil
}

func (t tracker[K]) settle(k K, err error) {
	if err != nil {
		t[k] = StateRolledBack
		return
	}
	t[k] = StateConfirmed
}

// Resetter drops every cached per-user value.
type Resetter interface {
	Reset()
}

// ResetOnDestroy clears rs whenever sess is destroyed. The returned func
// releases the subscription.
func ResetOnDestroy(sess *session.Session, rs ...Resetter) (release func()) {
	return sess.Subscribe(func(context.Context) {
		for _, r := range rs {
			r.Reset()
		}
	})
}

// dispatcher tags dispatches with increasing sequence numbers and cancels
// the superseded in-flight one. Only the latest dispatch may settle.
type dispatcher struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// begin starts a dispatch; fn, when set, runs under the dispatcher lock so
// that state recorded for the dispatch is ordered like the sequence.
func (d *dispatcher) begin(ctx context.Context, fn func()) (context.Context, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	dctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if fn != nil {
		fn()
	}
	return dctx, d.seq
}

// settle runs fn under the dispatcher lock if seq is still the latest.
func (d *dispatcher) settle(seq uint64, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return false
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	fn()
	return true
}

// abandon makes the in-flight dispatch stale and cancels it.
func (d *dispatcher) abandon() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *dispatcher) latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}
