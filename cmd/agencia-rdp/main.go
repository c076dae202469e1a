// Command agencia-rdp simulates a timed Place/Transition Petri net
// modeling a travel agency workflow: concurrent workers race to fire
// transitions through a monitor until the exit transition reaches its
// target count.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "run":
		err = run(args)
	case "validate":
		err = validateCmd(args)
	case "history":
		err = history(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`agencia-rdp - concurrent travel-agency Petri net simulator

Usage:
  agencia-rdp <command> [options]

Commands:
  run       Run one simulation to completion
  validate  Check the net's topology against its declared invariants
  history   List previously recorded runs
  help      Show this help message

Examples:
  agencia-rdp run --profile fast --policy prioritized --target 186 --log run.log
  agencia-rdp validate
  agencia-rdp history --db runs.db --limit 10`)
}
