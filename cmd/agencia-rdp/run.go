package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agencia-rdp/simulator/agency"
	"github.com/agencia-rdp/simulator/mining"
	"github.com/agencia-rdp/simulator/monitor"
	"github.com/agencia-rdp/simulator/net"
	"github.com/agencia-rdp/simulator/policy"
	"github.com/agencia-rdp/simulator/runlog"
	"github.com/agencia-rdp/simulator/store"
)

const exitTransition = 11

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	profileName := fs.String("profile", "fast", "alpha timing profile: fast, medium, slow, none")
	policyName := fs.String("policy", "prioritized", "firing policy: balanced, prioritized")
	target := fs.Int("target", 186, "number of times the exit transition must fire before stopping")
	workersPerRole := fs.Int("workers-per-role", 1, "number of workers to run per role; raise above 1 to put multiple workers in direct contention for the same role's transitions")
	logPath := fs.String("log", "log.txt", "path to write the fired-transition report")
	dbPath := fs.String("db", "", "optional path to a SQLite database to record this run in")
	timeout := fs.Duration("timeout", 2*time.Minute, "maximum time to let the simulation run")
	footprint := fs.Bool("footprint", false, "print the directly-follows/causal/parallel footprint mined from this run's firings")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: agencia-rdp run [options]

Runs one simulation to completion: one worker per agency role fires
transitions concurrently through a monitor until the exit transition
reaches --target.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, ok := net.ParseAlphaProfile(*profileName)
	if !ok {
		return fmt.Errorf("unknown alpha profile %q", *profileName)
	}

	var pol policy.Policy
	switch *policyName {
	case "balanced":
		pol = policy.Balanced{}
	case "prioritized":
		pol = policy.Prioritized{}
	default:
		return fmt.Errorf("unknown policy %q", *policyName)
	}

	n := net.New(profile)
	if err := n.ValidateTopology(); err != nil {
		return fmt.Errorf("refusing to run against an invalid topology: %w", err)
	}

	mon := monitor.New(n, pol, monitor.Config{ExitTransition: exitTransition, TargetFires: *target})
	ag := agency.New(mon, agency.DefaultRoles(), *workersPerRole)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// The writer goroutine parks on done until the run below closes it,
	// the one-shot-latch replacement for the original logger thread's
	// polling loop (see runlog.WaitAndWrite). report is read only after
	// done is closed, by which point it holds the final tallies.
	writer := runlog.NewWriter(*logPath)
	done := make(chan struct{})
	var report runlog.Report
	writeErr := make(chan error, 1)
	go func() {
		<-done
		writeErr <- writer.WaitAndWrite(done, report)
	}()

	started := time.Now()
	results, err := ag.Run(ctx)
	finished := time.Now()
	if err != nil {
		// Leave the writer goroutine parked on done: a failed run
		// writes no report, matching the original's behavior of never
		// reaching its logger thread's completion signal either.
		return err
	}

	fires, sequence := mon.Snapshot()
	invariantCounts, residual := mon.InvariantCounts()
	invariantTotal := 0
	for _, c := range invariantCounts {
		invariantTotal += c
	}

	report = runlog.Report{
		Sequence:        sequence,
		Fires:           fires,
		InvariantCounts: invariantCounts,
		ResidualFires:   residual,
	}
	close(done)
	if err := <-writeErr; err != nil {
		return err
	}

	fingerprint := n.Fingerprint()

	fmt.Printf("completed in %v: exit transition fired %d times, %d invariant cycles completed, fingerprint %s\n",
		finished.Sub(started), fires[exitTransition], invariantTotal, fingerprint)
	for _, r := range results {
		fmt.Printf("  %-25s %-25s %s: %d firings\n", r.Role, r.Name, r.WorkerID, r.Fired)
	}

	if *footprint {
		log := ag.EventLog()
		log.Summarize().Print()

		observed := log.FiringCounts()
		for t := 0; t < net.Transitions; t++ {
			if observed[t] != fires[t] {
				fmt.Printf("warning: event log counted T%d firing %d times, monitor counted %d\n", t, observed[t], fires[t])
			}
		}

		fp := mining.NewFootprintMatrix(log)
		fp.Print()
		for _, msg := range mining.VerifyAgainstTopology(fp) {
			fmt.Println("note:", msg)
		}
	}

	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer s.Close()

		rec := store.RecordFromReport(fingerprint, started, finished, profile.String(), *policyName,
			exitTransition, *target, fires, len(strings.Fields(sequence)), invariantTotal)
		if _, err := s.RecordRun(context.Background(), rec); err != nil {
			return err
		}
	}

	return nil
}
