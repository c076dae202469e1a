// Package monitor serializes access to a single Petri net across
// concurrently firing workers. It translates the original protocol's
// binary mutex plus one counting semaphore per transition into a single
// sync.Mutex plus one FIFO waiter queue per transition, handing the
// lock directly from a releasing caller to the one waiter its policy
// selects — never a broadcast wakeup — so mutual exclusion over the net
// holds across the handoff exactly as it held across the original's
// semaphore-to-semaphore transfer.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/agencia-rdp/simulator/net"
	"github.com/agencia-rdp/simulator/policy"
)

// Config describes the fixed parameters of one simulation run.
type Config struct {
	ExitTransition int // the transition whose count gates completion
	TargetFires    int // the count ExitTransition must reach
}

// Monitor owns a Net and a Policy and is the only component allowed to
// mutate the net's state. All exported methods are safe for concurrent
// use by any number of workers.
type Monitor struct {
	mu     sync.Mutex
	queues waitQueues

	net    *net.Net
	policy policy.Policy
	cfg    Config
}

// New creates a Monitor over net using policy to choose among
// simultaneously ready transitions.
func New(n *net.Net, p policy.Policy, cfg Config) *Monitor {
	return &Monitor{net: n, policy: p, cfg: cfg}
}

// FireTransition attempts to fire transition t on behalf of one worker.
// It blocks until the firing succeeds, the simulation completes, or ctx
// is canceled. A true result means this call's firing of t actually
// happened; false with a nil error means the simulation had already
// reached its target and no further firing will ever be possible.
func (m *Monitor) FireTransition(ctx context.Context, t int) (bool, error) {
	m.mu.Lock()
	for {
		if m.completed() {
			// release passes mu on to the next blocked caller, which
			// observes completion here in turn.
			m.release()
			return false, nil
		}

		permit, err := m.readyToFire(ctx, t)
		if err != nil {
			m.mu.Unlock()
			return false, err
		}
		if m.completed() {
			// The target was reached while readyToFire slept.
			continue
		}

		fired := m.net.TryFire(t, permit) == nil

		if fired {
			m.release()
			return true, nil
		}

		// Block until some future release() call picks this worker's
		// pending request. The waiter is queued before release() so that
		// no release, including the completion drain, can miss it. The
		// channel send that wakes us carries lock ownership with it — we
		// never call mu.Lock() to resume; the releasing goroutine never
		// called mu.Unlock() for us.
		ch := m.queues.enqueue(t)
		m.release()
		select {
		case <-ch:
		case <-ctx.Done():
			m.queues.mu.Lock()
			list := m.queues.lists[t]
			queued := false
			for i, c := range list {
				if c == ch {
					m.queues.lists[t] = append(list[:i:i], list[i+1:]...)
					queued = true
					break
				}
			}
			m.queues.mu.Unlock()
			if !queued {
				// A release already picked this waiter and handed it mu.
				<-ch
				m.release()
			}
			return false, ctx.Err()
		}
	}
}

// completed reports whether the exit transition has reached its target.
// Must be called with mu held.
func (m *Monitor) completed() bool {
	return m.net.Fires()[m.cfg.ExitTransition] >= m.cfg.TargetFires
}

// readyToFire determines whether t may fire right now, sleeping out the
// remainder of t's alpha window first if t is marking-enabled but not
// yet temporally ready. It is always called with mu held, and always
// returns with mu held — on the error path (ctx canceled mid-sleep) as
// much as on every success path.
func (m *Monitor) readyToFire(ctx context.Context, t int) (bool, error) {
	if m.net.Waiting(t) || !m.net.IsEnabled(t) {
		return false, nil
	}
	if !m.net.IsTimed(t) {
		return true, nil
	}

	now := time.Now().UnixMilli()
	if m.net.IsTemporallyReady(t, now) {
		return true, nil
	}

	delay := m.net.Timestamp(t) + m.net.MinDelay(t) - now
	m.net.SetWaiting(t, true)
	m.release()

	timer := time.NewTimer(time.Duration(delay) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		m.mu.Lock()
		m.net.SetWaiting(t, false)
		return false, ctx.Err()
	}

	m.mu.Lock()
	m.net.SetWaiting(t, false)
	return true, nil
}

// release is the handoff step: if some queued transition is both
// enabled and selected by the policy, its oldest waiter is woken and
// inherits lock ownership directly. Otherwise the lock is released
// outright. Once the simulation has completed, it instead hands the lock
// to the oldest waiter on the lowest-numbered nonempty queue, so blocked
// callers are woken one at a time until none is left. Must be called
// with mu held; after it returns the caller no longer owns mu under any
// outcome.
func (m *Monitor) release() {
	if m.completed() {
		for q := 0; q < net.Transitions; q++ {
			if m.queues.wakeOne(q) {
				return
			}
		}
		m.mu.Unlock()
		return
	}
	cands := m.candidates()
	pick := m.policy.Pick(policy.Candidates{
		Enabled:  cands,
		Fires:    m.net.Fires(),
		MaxFires: m.net.MaxFires(),
	})
	if cands[pick] && m.queues.wakeOne(pick) {
		return
	}
	m.mu.Unlock()
}

// candidates is the bitwise AND of "enabled right now" and "has a
// blocked waiter", the same pair of arrays the original protocol
// combines before consulting its policy, with every transition whose
// waiting flag is set left out.
func (m *Monitor) candidates() net.Bitmask {
	now := time.Now().UnixMilli()
	enabled := m.net.EnabledNow(now)
	var mask net.Bitmask
	for t := 0; t < net.Transitions; t++ {
		mask[t] = enabled[t] && !m.net.Waiting(t) && m.queues.hasWaiter(t)
	}
	return mask
}

// Snapshot returns the firing counts and the fired sequence, for
// reporting without requiring the caller to reach into the net
// directly.
func (m *Monitor) Snapshot() (fires [net.Transitions]int, sequence string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.Fires(), m.net.Sequence()
}

// Completed reports whether the simulation has reached its target fire
// count, without attempting any firing.
func (m *Monitor) Completed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed()
}

// InvariantCounts returns how many times each declared transition
// invariant has completed, plus the residual firings no cycle accounts
// for.
func (m *Monitor) InvariantCounts() (counts []int, residual [net.Transitions]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.TransitionInvariantCounts()
}
