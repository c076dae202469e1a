package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agencia-rdp/simulator/net"
	"github.com/agencia-rdp/simulator/policy"
)

const exitTransition = 11

func newTestMonitor(target int) *Monitor {
	n := net.New(net.None)
	return New(n, policy.Prioritized{}, Config{ExitTransition: exitTransition, TargetFires: target})
}

// TestSingleWorkerDrivesToCompletion has one goroutine repeatedly fire
// every transition that is enabled by marking, round-robin, until the
// monitor reports completion. A call for a transition that is not
// enabled would block with nobody left to wake it.
func TestSingleWorkerDrivesToCompletion(t *testing.T) {
	m := newTestMonitor(3)
	ctx := context.Background()

	deadline := time.Now().Add(5 * time.Second)
	for !m.Completed() {
		if time.Now().After(deadline) {
			t.Fatal("simulation did not complete in time")
		}
		for tr := 0; tr < net.Transitions; tr++ {
			if m.Completed() {
				break
			}
			if !m.net.IsEnabled(tr) {
				continue
			}
			_, err := m.FireTransition(ctx, tr)
			if err != nil {
				t.Fatalf("FireTransition(%d): %v", tr, err)
			}
		}
	}

	fires, _ := m.Snapshot()
	if fires[exitTransition] < 3 {
		t.Errorf("exit transition fired %d times, want >= 3", fires[exitTransition])
	}
}

// TestConcurrentWorkersConverge races many goroutines, each hammering a
// single transition, against one monitor instance until it completes.
// It exercises P5 (linearized firings) indirectly: if the monitor ever
// let two goroutines mutate the net concurrently, the invariant checks
// inside Net.TryFire would eventually observe a torn marking and return
// ErrInvariantViolation, which this test treats as a hard failure.
func TestConcurrentWorkersConverge(t *testing.T) {
	m := newTestMonitor(5)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, net.Transitions)

	for tr := 0; tr < net.Transitions; tr++ {
		wg.Add(1)
		go func(tr int) {
			defer wg.Done()
			for {
				if m.Completed() {
					return
				}
				ok, err := m.FireTransition(ctx, tr)
				if err != nil {
					if err == context.DeadlineExceeded || err == context.Canceled {
						return
					}
					errs <- err
					return
				}
				if !ok && m.Completed() {
					return
				}
			}
		}(tr)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("worker reported error: %v", err)
	}

	fires, seq := m.Snapshot()
	if fires[exitTransition] < 5 {
		t.Errorf("exit transition fired %d times, want >= 5", fires[exitTransition])
	}
	if seq == "" {
		t.Error("expected non-empty fired sequence")
	}
}

// TestTimedTransitionWaitsOutAlphaWindow checks that a timed transition
// enabled by marking but not yet temporally ready fires no earlier than
// its alpha window after it became enabled.
func TestTimedTransitionWaitsOutAlphaWindow(t *testing.T) {
	n := net.New(net.Fast)
	// Drive the net until some timed transition is enabled by marking.
	var timed = -1
	ctx := context.Background()
	m := New(n, policy.Balanced{}, Config{ExitTransition: exitTransition, TargetFires: 1})

	deadline := time.Now().Add(2 * time.Second)
	for timed == -1 && time.Now().Before(deadline) {
		for tr := 0; tr < net.Transitions; tr++ {
			if n.IsTimed(tr) && n.IsEnabled(tr) {
				timed = tr
				break
			}
		}
		if timed != -1 {
			break
		}
		for tr := 0; tr < net.Transitions; tr++ {
			if !n.IsTimed(tr) && n.IsEnabled(tr) {
				_, _ = m.FireTransition(ctx, tr)
				break
			}
		}
	}
	if timed == -1 {
		t.Skip("could not reach a state with an enabled timed transition")
	}

	alpha := n.MinDelay(timed)
	enabledAt := time.UnixMilli(n.Timestamp(timed))
	ok, err := m.FireTransition(ctx, timed)
	elapsed := time.Since(enabledAt)
	if err != nil {
		t.Fatalf("FireTransition(%d): %v", timed, err)
	}
	if !ok {
		t.Fatalf("FireTransition(%d) did not succeed", timed)
	}
	if elapsed < time.Duration(alpha)*time.Millisecond {
		t.Errorf("fired %v after becoming enabled, want at least alpha=%dms", elapsed, alpha)
	}
}

// TestFireTransitionHonorsContextCancellation checks that a caller
// blocked waiting out an alpha window returns promptly when ctx is
// canceled, rather than the monitor ignoring cancellation entirely.
func TestFireTransitionHonorsContextCancellation(t *testing.T) {
	n := net.New(net.Slow)
	m := New(n, policy.Balanced{}, Config{ExitTransition: exitTransition, TargetFires: 1})

	timed := -1
	for tr := 0; tr < net.Transitions; tr++ {
		if n.IsTimed(tr) && n.IsEnabled(tr) {
			timed = tr
			break
		}
	}
	if timed == -1 {
		t.Skip("no timed transition enabled at the initial marking")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.FireTransition(ctx, timed)
	if err == nil {
		t.Fatal("expected context deadline error, got nil")
	}
}
