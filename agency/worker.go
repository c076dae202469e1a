package agency

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agencia-rdp/simulator/eventlog"
	"github.com/agencia-rdp/simulator/monitor"
	"github.com/agencia-rdp/simulator/net"
)

// Worker is one concurrent actor holding a Role, repeatedly trying to
// fire its assigned transitions through a shared Monitor until the
// simulation completes. It is the in-scope counterpart of a thread
// created from one of the agency's process definitions.
type Worker struct {
	ID   string
	Name string
	Role Role
	mon  *monitor.Monitor

	fired  [net.Transitions]int
	events []eventlog.Event
}

// NewWorker creates a Worker with a generated run-scoped ID and the
// given display name (see Namer).
func NewWorker(role Role, mon *monitor.Monitor, name string) *Worker {
	return &Worker{ID: uuid.New().String(), Name: name, Role: role, mon: mon}
}

// Run repeatedly cycles through the worker's assigned transitions,
// calling FireTransition for each in turn, until the monitor reports
// the simulation complete or ctx is canceled. It returns the number of
// transitions this worker actually fired, and the first error
// encountered (context cancellation is the only expected one).
func (w *Worker) Run(ctx context.Context) (int, error) {
	total := 0
	for {
		if w.mon.Completed() {
			return total, nil
		}
		for _, t := range w.Role.Transitions {
			if w.mon.Completed() {
				return total, nil
			}
			ok, err := w.mon.FireTransition(ctx, t)
			if err != nil {
				return total, err
			}
			if ok {
				w.fired[t]++
				total++
				w.events = append(w.events, eventlog.NewFiringEvent(w.ID, t, w.Role.Name, time.Now()))
			}
		}
	}
}

// Fired returns a copy of this worker's per-transition firing tally.
func (w *Worker) Fired() [net.Transitions]int {
	return w.fired
}

// Events returns the event-log entries recorded for each transition
// this worker fired, one case (by worker ID) per worker.
func (w *Worker) Events() []eventlog.Event {
	return w.events
}
