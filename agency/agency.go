package agency

import (
	"context"
	"fmt"
	"sync"

	"github.com/agencia-rdp/simulator/eventlog"
	"github.com/agencia-rdp/simulator/monitor"
	"github.com/agencia-rdp/simulator/net"
)

// Agency runs one full simulation: a worker per role, each racing the
// others through the shared Monitor until the exit transition reaches
// its target.
type Agency struct {
	Monitor *monitor.Monitor
	Workers []*Worker
}

// New builds an Agency with workersPerRole workers for each role in
// roles, all sharing mon. workersPerRole below 1 is treated as 1.
// Raising it above 1 puts multiple workers on the same role's
// transition set, so they can genuinely race the monitor for the same
// transition rather than only contending across roles.
func New(mon *monitor.Monitor, roles []Role, workersPerRole int) *Agency {
	if workersPerRole < 1 {
		workersPerRole = 1
	}
	a := &Agency{Monitor: mon}
	namer := NewNamer("Agencia")
	for _, r := range roles {
		for i := 0; i < workersPerRole; i++ {
			a.Workers = append(a.Workers, NewWorker(r, mon, namer.Next()))
		}
	}
	return a
}

// RunResult summarizes one worker's contribution to a completed run.
type RunResult struct {
	WorkerID string
	Name     string
	Role     string
	Fired    int
}

// Tally records every worker's per-transition firing counts, keyed by
// worker ID — Agencia.java's global disparoPorTransicion tally
// generalized to be broken down by worker as well as by transition.
type Tally map[string][net.Transitions]int

// Tally aggregates the current per-transition firing counts of every
// worker. Call after Run returns for a final tally.
func (a *Agency) Tally() Tally {
	t := make(Tally, len(a.Workers))
	for _, w := range a.Workers {
		t[w.ID] = w.Fired()
	}
	return t
}

// Run starts every worker concurrently and waits for them all to
// return, the Go equivalent of creating one thread per process and
// joining each in turn. It returns one RunResult per worker, in the
// same order the workers were created, and the first error any worker
// reported.
func (a *Agency) Run(ctx context.Context) ([]RunResult, error) {
	results := make([]RunResult, len(a.Workers))
	errs := make([]error, len(a.Workers))

	var wg sync.WaitGroup
	for i, w := range a.Workers {
		wg.Add(1)
		go func(i int, w *Worker) {
			defer wg.Done()
			fired, err := w.Run(ctx)
			results[i] = RunResult{
				WorkerID: w.ID,
				Name:     w.Name,
				Role:     w.Role.Name,
				Fired:    fired,
			}
			errs[i] = err
		}(i, w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, fmt.Errorf("agency: worker failed: %w", err)
		}
	}
	return results, nil
}

// EventLog builds a process-mining event log from every worker's
// recorded firings, one case per worker. Call after Run returns.
func (a *Agency) EventLog() *eventlog.EventLog {
	log := eventlog.NewEventLog()
	for _, w := range a.Workers {
		for _, e := range w.Events() {
			log.AddEvent(e)
		}
	}
	log.SortTraces()
	return log
}
