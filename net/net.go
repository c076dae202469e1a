// Package net implements the Petri net engine for the modeled
// travel-agency workflow: marking, enabledness, temporal windows on
// timed transitions, place-invariant validation, and transition-invariant
// accounting. It holds no lock of its own — callers (the monitor) are
// responsible for serializing access, exactly as the engine this package
// is grounded on assumes external synchronization.
package net

import (
	"strconv"
	"strings"
	"time"

	"github.com/agencia-rdp/simulator/matrix"
)

// Bitmask marks a subset of the net's transitions, one bool per index.
type Bitmask [Transitions]bool

// Net holds the runtime state of one simulation instance: the current
// marking, per-transition firing counts, sensitization timestamps, the
// waiting flags used by the monitor's timed-wait protocol, and the
// ordered fired-transition sequence.
type Net struct {
	profile AlphaProfile

	marking   [Places]int
	fires     [Transitions]int
	timestamp [Transitions]int64
	waiting   [Transitions]bool
	sequence  []int

	// nowFn is overridable in tests so timestamp comparisons don't
	// depend on real wall-clock timing.
	nowFn func() int64
}

// New creates a Net with the initial marking M0, zero counters, and all
// timestamps set to the construction time under the given alpha profile.
func New(profile AlphaProfile) *Net {
	n := &Net{
		profile: profile,
		marking: initialMarking,
		nowFn:   nowMillis,
	}
	now := n.nowFn()
	for i := range n.timestamp {
		n.timestamp[i] = now
	}
	return n
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// alpha returns the minimum sensitization duration, in milliseconds,
// required before transition t may fire. Zero for non-timed transitions.
func (n *Net) alpha(t int) int64 {
	return alphaTable[n.profile][t]
}

// IsTimed reports whether t is gated by a lower time bound.
func (n *Net) IsTimed(t int) bool {
	return timedTransitions[t]
}

// MinDelay returns alpha[t].
func (n *Net) MinDelay(t int) int64 {
	return n.alpha(t)
}

// Timestamp returns the moment t most recently changed enabledness.
func (n *Net) Timestamp(t int) int64 {
	return n.timestamp[t]
}

// Waiting reports whether a worker is currently sleeping outside the
// monitor's lock to satisfy t's alpha window.
func (n *Net) Waiting(t int) bool {
	return n.waiting[t]
}

// SetWaiting sets t's waiting flag.
func (n *Net) SetWaiting(t int, v bool) {
	n.waiting[t] = v
}

// columnDelta computes W·e_t for transition t.
func columnDelta(t int) ([]int, error) {
	e, err := matrix.UnitVector(t, Transitions)
	if err != nil {
		return nil, err
	}
	w := make([][]int, Places)
	for i := range incidence {
		w[i] = incidence[i][:]
	}
	return matrix.Multiply(w, e)
}

// NextMarking returns m + W·e_t and whether every resulting place count
// is non-negative, i.e. whether t is enabled at m by marking alone. It
// takes no timing into account and mutates nothing, so enabledness checks
// can share one implementation instead of each re-deriving the delta.
func NextMarking(m [Places]int, t int) (next [Places]int, ok bool) {
	delta, err := columnDelta(t)
	if err != nil {
		return next, false
	}
	sum, err := matrix.Add(m[:], delta)
	if err != nil {
		return next, false
	}
	copy(next[:], sum)
	return next, allNonNegative(sum)
}

// EnabledByMarking returns the bitmask of transitions enabled purely by
// token availability: bit t is set iff M + W·e_t has no negative entry.
func (n *Net) EnabledByMarking() Bitmask {
	var mask Bitmask
	for t := 0; t < Transitions; t++ {
		_, ok := NextMarking(n.marking, t)
		mask[t] = ok
	}
	return mask
}

func allNonNegative(v []int) bool {
	for _, x := range v {
		if x < 0 {
			return false
		}
	}
	return true
}

// IsEnabled reports whether t is enabled by marking.
func (n *Net) IsEnabled(t int) bool {
	_, ok := NextMarking(n.marking, t)
	return ok
}

// IsTemporallyReady reports whether t has been continuously enabled for
// at least alpha[t] milliseconds, as of now.
func (n *Net) IsTemporallyReady(t int, nowMs int64) bool {
	return nowMs-n.timestamp[t] >= n.alpha(t)
}

// EnabledNow returns the bitmask of transitions enabled by marking and,
// for timed transitions, temporally ready as of now.
func (n *Net) EnabledNow(nowMs int64) Bitmask {
	mask := n.EnabledByMarking()
	for t := 0; t < Transitions; t++ {
		if mask[t] && n.IsTimed(t) && !n.IsTemporallyReady(t, nowMs) {
			mask[t] = false
		}
	}
	return mask
}

// TryFire attempts to fire transition t. permit must already encode
// "enabled by marking AND (not timed OR temporally ready) AND not
// waiting" — the monitor computes this before calling TryFire so that
// the eligibility probe and the mutation happen under one held lock.
// A t that is not enabled by marking is rejected with ErrNotEnabled even
// when permit is true, and nothing is mutated.
//
// On success it mutates the marking, increments fires[t], appends to the
// sequence, and updates the timestamp of every transition whose
// enabledness changed as a result (the "edge" update rule — a
// transition's timestamp moves only when it becomes or ceases to be
// enabled, never on every firing).
func (n *Net) TryFire(t int, permit bool) error {
	if !permit {
		return ErrNotEnabled
	}

	next, ok := NextMarking(n.marking, t)
	if !ok {
		return ErrNotEnabled
	}

	if !n.checkPlaceInvariants(next) {
		return ErrInvariantViolation
	}

	before := n.EnabledByMarking()

	n.marking = next
	n.fires[t]++
	n.sequence = append(n.sequence, t)

	after := n.EnabledByMarking()
	now := n.nowFn()
	for i := 0; i < Transitions; i++ {
		if before[i] != after[i] {
			n.timestamp[i] = now
		}
	}

	return nil
}

func (n *Net) checkPlaceInvariants(marking [Places]int) bool {
	for _, inv := range placeInvariants {
		sum := 0
		for _, p := range inv.Places {
			sum += marking[p]
		}
		if sum != inv.Sum {
			return false
		}
	}
	return true
}

// ValidateTopology confirms the initial marking already satisfies every
// declared place invariant. New does not call it; callers run it once,
// before any worker touches the net, never during firing. It checks M0
// only: the incidence matrix's columns are not checked against the
// invariant tables.
func (n *Net) ValidateTopology() error {
	if !n.checkPlaceInvariants(initialMarking) {
		return ErrInvariantViolation
	}
	return nil
}

// Fires returns a copy of the per-transition firing counts.
func (n *Net) Fires() [Transitions]int {
	return n.fires
}

// MaxFires returns the largest firing count across all transitions.
func (n *Net) MaxFires() int {
	max := n.fires[0]
	for _, f := range n.fires[1:] {
		if f > max {
			max = f
		}
	}
	return max
}

// Sequence renders the fired-transition log as "T0 T1 T3 ..." tokens,
// matching the mandated log file format.
func (n *Net) Sequence() string {
	var b strings.Builder
	for _, t := range n.sequence {
		b.WriteString("T")
		b.WriteString(strconv.Itoa(t))
		b.WriteString(" ")
	}
	return b.String()
}

// Marking returns a copy of the current marking.
func (n *Net) Marking() [Places]int {
	return n.marking
}
