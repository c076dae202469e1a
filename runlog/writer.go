// Package runlog writes the end-of-run report: the full fired-transition
// sequence, a per-transition firing count, and a per-invariant
// completed-cycle count, in the exact layout the original logger
// produced. Where the original polled a "finished" flag every 5ms from
// its own goroutine, this package takes a channel and blocks on it
// directly — a one-shot latch needs no polling interval to tune.
package runlog

import (
	"bufio"
	"fmt"
	"os"

	"github.com/agencia-rdp/simulator/net"
)

// invariantLabels names each declared invariant cycle, in the same
// order topology.go declares them, for the report header.
var invariantLabels = []string{
	"Invariante 1: [0 1 3 4 7 8 11]",
	"Invariante 2: [0 1 3 4 6 9 10 11]",
	"Invariante 3: [0 1 2 5 7 8 11]",
	"Invariante 4: [0 1 2 5 6 9 10 11]",
}

// Writer produces one report file per run.
type Writer struct {
	Path string
}

// NewWriter returns a Writer that writes to path.
func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// Report is the data one completed run contributes to the log file.
type Report struct {
	Sequence        string
	Fires           [net.Transitions]int
	InvariantCounts []int
	ResidualFires   [net.Transitions]int
}

// WaitAndWrite blocks until done is closed, then writes r to the
// writer's path. Call it from its own goroutine and close done once the
// simulation finishes — the Go equivalent of the original logger
// thread's run(), minus the busy-wait.
func (w *Writer) WaitAndWrite(done <-chan struct{}, r Report) error {
	<-done
	return w.Write(r)
}

// Write renders r to the writer's path immediately.
func (w *Writer) Write(r Report) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("runlog: creating %s: %w", w.Path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)

	fmt.Fprintln(buf, r.Sequence)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "-------------------------- Transiciones disparadas --------------------------")
	for t := 0; t < net.Transitions; t++ {
		fmt.Fprintf(buf, "Transicion %d disparada: %d veces.\n", t, r.Fires[t])
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "-------------------------- Invariantes completados --------------------------")
	total := 0
	for i, label := range invariantLabels {
		count := 0
		if i < len(r.InvariantCounts) {
			count = r.InvariantCounts[i]
		}
		fmt.Fprintf(buf, "%s completado: %d veces\n", label, count)
		total += count
	}
	fmt.Fprintf(buf, "Total de invariantes completados: %d\n", total)

	return buf.Flush()
}
