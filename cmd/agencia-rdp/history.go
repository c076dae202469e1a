package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/agencia-rdp/simulator/store"
)

func history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "path to the run-history database")
	limit := fs.Int("limit", 20, "maximum number of runs to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: agencia-rdp history [options]

Lists the most recently recorded simulation runs.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}

	fmt.Printf("%-5s %-20s %-8s %-12s %8s %8s %10s\n", "ID", "FINISHED", "PROFILE", "POLICY", "TARGET", "EXIT", "INVARIANTS")
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-8s %-12s %8d %8d %10d\n",
			r.ID, r.FinishedAt.Format("2006-01-02T15:04:05"), r.AlphaProfile, r.PolicyName,
			r.TargetFires, r.ExitFires, r.InvariantsComplete)
	}
	return nil
}
