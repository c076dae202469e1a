package policy

import (
	"testing"

	"github.com/agencia-rdp/simulator/net"
)

func enable(ts ...int) net.Bitmask {
	var b net.Bitmask
	for _, t := range ts {
		b[t] = true
	}
	return b
}

func TestBalancedPicksLeastFired(t *testing.T) {
	c := Candidates{
		Enabled:  enable(2, 5, 9),
		Fires:    [net.Transitions]int{9: 1, 5: 4, 2: 7},
		MaxFires: 7,
	}
	got := Balanced{}.Pick(c)
	if got != 9 {
		t.Errorf("Pick = %d, want 9 (fewest firings among enabled)", got)
	}
}

func TestBalancedPicksSoleCandidateAtMax(t *testing.T) {
	c := Candidates{
		Enabled:  enable(3),
		Fires:    [net.Transitions]int{3: 5},
		MaxFires: 5,
	}
	got := Balanced{}.Pick(c)
	if got != 3 {
		t.Errorf("Pick = %d, want 3 (the only enabled candidate)", got)
	}
}

func TestPrioritizedSeniorBelowThreshold(t *testing.T) {
	c := Candidates{
		Enabled: enable(seniorAgent, juniorAgent),
		Fires:   [net.Transitions]int{seniorAgent: 1, juniorAgent: 9}, // ratio 0.10
	}
	if got := (Prioritized{}).Pick(c); got != seniorAgent {
		t.Errorf("Pick = %d, want seniorAgent (%d)", got, seniorAgent)
	}
}

func TestPrioritizedSeniorAboveThresholdFallsBackToJunior(t *testing.T) {
	c := Candidates{
		Enabled: enable(seniorAgent, juniorAgent),
		Fires:   [net.Transitions]int{seniorAgent: 9, juniorAgent: 1}, // ratio 0.90
	}
	if got := (Prioritized{}).Pick(c); got != juniorAgent {
		t.Errorf("Pick = %d, want juniorAgent (%d)", got, juniorAgent)
	}
}

func TestPrioritizedBookingTierAndFallback(t *testing.T) {
	c := Candidates{
		Enabled: enable(bookingConfirm, bookingCancel),
		Fires:   [net.Transitions]int{bookingConfirm: 9, bookingCancel: 1}, // ratio 0.90 > 0.80
	}
	if got := (Prioritized{}).Pick(c); got != bookingCancel {
		t.Errorf("Pick = %d, want bookingCancel (%d)", got, bookingCancel)
	}

	c2 := Candidates{Enabled: enable(0, 5, 11)}
	if got := (Prioritized{}).Pick(c2); got != 0 {
		t.Errorf("Pick = %d, want 0 (first in scan order)", got)
	}

	c3 := Candidates{Enabled: enable(5, 11)}
	if got := (Prioritized{}).Pick(c3); got != 5 {
		t.Errorf("Pick = %d, want 5 (next in scan order)", got)
	}
}

func TestPrioritizedNoCandidatesReturnsZero(t *testing.T) {
	if got := (Prioritized{}).Pick(Candidates{}); got != 0 {
		t.Errorf("Pick = %d, want 0", got)
	}
}
