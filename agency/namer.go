package agency

import (
	"fmt"
	"sync"
)

// Namer generates worker names in the "<agency>_Worker_<n>" shape,
// mirroring the counter MyThreadFactory.newThread keeps per factory
// instance. Safe for concurrent use.
type Namer struct {
	agency string

	mu   sync.Mutex
	next int
}

// NewNamer returns a Namer that prefixes every generated name with
// agency.
func NewNamer(agency string) *Namer {
	return &Namer{agency: agency}
}

// Next returns the next name in sequence and advances the counter.
func (nm *Namer) Next() string {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	name := fmt.Sprintf("%s_Worker_%d", nm.agency, nm.next)
	nm.next++
	return name
}
