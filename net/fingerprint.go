package net

import "github.com/holiman/uint256"

// Fingerprint folds the current marking and per-transition firing counts
// into a single 256-bit value and renders it as hex, a compact run
// identifier embeddable in the log file and a SQLite history row.
//
// The fold is a Horner-style accumulation, base 2^32, modulo 2^256:
// acc = acc*2^32 + value, place by place then transition by transition.
// The 27 folded values need 864 bits, so only the last eight survive:
// the result depends on the firing counts of T4..T11 alone, and the
// marking and the counts of T0..T3 do not affect it.
func (n *Net) Fingerprint() string {
	base := uint256.NewInt(1 << 32)
	acc := new(uint256.Int)
	term := new(uint256.Int)

	for _, m := range n.marking {
		acc.Mul(acc, base)
		term.SetUint64(uint64(m))
		acc.Add(acc, term)
	}
	for _, f := range n.fires {
		acc.Mul(acc, base)
		term.SetUint64(uint64(f))
		acc.Add(acc, term)
	}
	return acc.Hex()
}
