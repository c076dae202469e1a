package agency

import (
	"context"
	"testing"
	"time"

	"github.com/agencia-rdp/simulator/monitor"
	"github.com/agencia-rdp/simulator/net"
	"github.com/agencia-rdp/simulator/policy"
)

func TestAgencyRunReachesTarget(t *testing.T) {
	n := net.New(net.None)
	m := monitor.New(n, policy.Prioritized{}, monitor.Config{ExitTransition: 11, TargetFires: 4})
	a := New(m, DefaultRoles(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := a.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != len(DefaultRoles()) {
		t.Fatalf("got %d results, want %d", len(results), len(DefaultRoles()))
	}

	fires, seq := m.Snapshot()
	if fires[11] < 4 {
		t.Errorf("exit transition fired %d times, want >= 4", fires[11])
	}
	if seq == "" {
		t.Error("expected a non-empty fired sequence")
	}

	total := 0
	for _, r := range results {
		total += r.Fired
		if r.WorkerID == "" {
			t.Errorf("worker for role %q has empty ID", r.Role)
		}
	}
	if total == 0 {
		t.Error("no worker reported any successful firings")
	}

	log := a.EventLog()
	if log.NumEvents() != total {
		t.Errorf("event log has %d events, want %d matching total firings", log.NumEvents(), total)
	}
	if log.NumCases() == 0 || log.NumCases() > len(DefaultRoles()) {
		t.Errorf("event log has %d cases, want between 1 and %d (one per worker that fired)", log.NumCases(), len(DefaultRoles()))
	}
}

func TestAgencyWorkersPerRoleContend(t *testing.T) {
	n := net.New(net.None)
	m := monitor.New(n, policy.Prioritized{}, monitor.Config{ExitTransition: 11, TargetFires: 4})
	a := New(m, DefaultRoles(), 2)

	if want := len(DefaultRoles()) * 2; len(a.Workers) != want {
		t.Fatalf("got %d workers, want %d (2 per role)", len(a.Workers), want)
	}

	names := make(map[string]bool)
	for _, w := range a.Workers {
		if names[w.Name] {
			t.Errorf("duplicate worker name %q", w.Name)
		}
		names[w.Name] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := a.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	tally := a.Tally()
	if len(tally) != len(a.Workers) {
		t.Errorf("tally has %d entries, want one per worker (%d)", len(tally), len(a.Workers))
	}
}

func TestAgencyRunHonorsCancellation(t *testing.T) {
	n := net.New(net.Slow)
	m := monitor.New(n, policy.Prioritized{}, monitor.Config{ExitTransition: 11, TargetFires: 1000})
	a := New(m, DefaultRoles(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Run(ctx)
	if err == nil {
		t.Fatal("expected an error from a canceled run targeting an unreachable count")
	}
}
