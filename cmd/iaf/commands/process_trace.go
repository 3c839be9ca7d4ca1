package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"iaf/internal/cachesim"
	"iaf/internal/trace"
)

// ProcessTraceCommand reads a trace file and writes the IAF success
// function for it to succ_file.
func ProcessTraceCommand(args []string) error {
	fs := flag.NewFlagSet("process-trace", flag.ExitOnError)
	store := fs.String("store", "", "DSN to persist the computed curve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return fmt.Errorf("usage: process-trace [flags] <succ_file> <trace> <format>\n  format: INT|HEX")
	}
	succFile, traceFile, formatArg := rest[0], rest[1], rest[2]

	format, err := trace.ParseFormat(formatArg)
	if err != nil {
		return errors.Wrap(err, "process-trace")
	}

	in, err := os.Open(traceFile)
	if err != nil {
		return errors.Wrapf(err, "process-trace: opening %s", traceFile)
	}
	defer in.Close()

	requests, err := trace.Read(in, format)
	if err != nil {
		return errors.Wrap(err, "process-trace: reading trace")
	}

	sim, err := cachesim.NewSimulator(cachesim.IAF, cachesim.Options{})
	if err != nil {
		return errors.Wrap(err, "process-trace")
	}
	for _, addr := range requests {
		sim.MemoryAccess(addr)
	}
	success := sim.SuccessFunction()

	out, err := os.Create(succFile)
	if err != nil {
		return errors.Wrapf(err, "process-trace: creating %s", succFile)
	}
	defer out.Close()

	if err := sim.DumpSuccessFunction(out, success, 1); err != nil {
		return errors.Wrap(err, "process-trace: writing success function")
	}

	if *store != "" {
		if err := persist(*store, traceFile, success); err != nil {
			return errors.Wrap(err, "process-trace")
		}
	}
	return nil
}
