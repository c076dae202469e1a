// Package policy implements the transition-selection strategies the
// monitor consults whenever more than one transition is a candidate to
// fire. Each Policy is a pure function of the candidate set and the
// net's firing history — it never touches synchronization state.
package policy

import "github.com/agencia-rdp/simulator/net"

// Candidates reports the firing count of every transition, letting a
// Policy make its choice without depending on *net.Net directly.
type Candidates struct {
	// Enabled marks which transitions are eligible to fire right now
	// (already filtered for marking, timing, and waiting by the caller).
	Enabled net.Bitmask
	// Fires is the per-transition count of completed firings so far.
	Fires [net.Transitions]int
	// MaxFires is the largest entry in Fires, passed separately so a
	// policy matching the original's "avoid division by a field that
	// might be zero" idiom doesn't need to recompute it.
	MaxFires int
}

// Policy selects one transition to fire from a candidate set. Pick may
// be called with no bit of c.Enabled set; it must not panic then, and
// the index it returns is policy-defined and need not be a candidate.
type Policy interface {
	Pick(c Candidates) int
}
