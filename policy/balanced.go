package policy

import "github.com/agencia-rdp/simulator/net"

// Balanced selects the enabled transition with the fewest prior
// firings, keeping every transition's firing count as close together as
// the net's structure allows.
type Balanced struct{}

// Pick scans transitions in index order and keeps the lowest-fired
// enabled candidate seen so far, seeded one above MaxFires so that any
// enabled transition improves on it; ties go to the lowest index. With
// no enabled candidate it returns 0.
func (Balanced) Pick(c Candidates) int {
	best := 0
	bestFires := c.MaxFires + 1
	for t := 0; t < net.Transitions; t++ {
		if c.Enabled[t] && c.Fires[t] < bestFires {
			bestFires = c.Fires[t]
			best = t
		}
	}
	return best
}
