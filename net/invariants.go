package net

// TransitionInvariantCounts greedily attributes the fired-transition
// sequence to the net's known invariant cycles, in the lexical order
// transitionInvariants is declared in (resolving the tie the original
// left to the implementer: when a residual firing count could be
// explained by more than one cycle, the earliest-declared cycle wins).
// It returns one count per entry of transitionInvariants, plus the
// residual firings that no complete cycle could account for.
func (n *Net) TransitionInvariantCounts() (counts []int, residual [Transitions]int) {
	residual = n.fires
	counts = make([]int, len(transitionInvariants))

	for i, cycle := range transitionInvariants {
		min := residual[cycle[0]]
		for _, t := range cycle[1:] {
			if residual[t] < min {
				min = residual[t]
			}
		}
		if min <= 0 {
			continue
		}
		counts[i] = min
		for _, t := range cycle {
			residual[t] -= min
		}
	}

	return counts, residual
}
