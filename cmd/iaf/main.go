// Command iaf computes LRU hit-rate curves from synthetic workloads or
// request traces using the Increment-and-Freeze family of simulators.
package main

import (
	"fmt"
	"os"

	"iaf/cmd/iaf/commands"
)

const usage = `Usage: iaf <command> [arguments]

Commands:
  simulation <out_file> <sim> <workload> [alpha]   run a synthetic workload
  process-trace <succ_file> <trace> <format>       process a trace file
  dump-traces <dir>                                write the standard benchmark traces
  serve <addr> <sim> <trace> [format]               stream live progress over WebSocket

  sim:      os_tree | os_set | iaf | bound_iaf | k_lim_iaf
  workload: uniform | zipfian
  format:   INT | HEX
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "simulation":
		err = commands.SimulationCommand(args)
	case "process-trace":
		err = commands.ProcessTraceCommand(args)
	case "dump-traces":
		err = commands.DumpTracesCommand(args)
	case "serve":
		err = commands.ServeCommand(args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unrecognized command %q\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
