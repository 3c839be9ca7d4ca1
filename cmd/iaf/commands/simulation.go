// Package commands implements the iaf CLI's subcommands.
package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"iaf/internal/cachesim"
	"iaf/internal/resultstore"
	"iaf/internal/trace"
)

// SimulationCommand runs a synthetic workload through one simulator
// variant and writes its success-function table to out_file.
func SimulationCommand(args []string) error {
	fs := flag.NewFlagSet("simulation", flag.ExitOnError)
	store := fs.String("store", "", "DSN to persist the computed curve (sqlite://, postgres://, mysql://, sqlserver://)")
	minChunk := fs.Uint64("min-chunk", 0, "minimum chunk size for bounded variants")
	maxCacheSize := fs.Uint64("max-cache-size", 0, "reported cache size cap for k_lim_iaf")
	seed := fs.Uint64("seed", 298234433, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 3 || len(rest) > 4 {
		return fmt.Errorf("usage: simulation [flags] <out_file> <sim> <workload> [alpha]\n  sim: os_tree|os_set|iaf|bound_iaf|k_lim_iaf\n  workload: uniform|zipfian")
	}
	outFile, simName, workload := rest[0], rest[1], rest[2]

	variant, err := cachesim.ParseVariant(simName)
	if err != nil {
		return errors.Wrap(err, "simulation")
	}

	p := trace.DefaultParams()
	var requests []uint64
	switch workload {
	case "uniform":
		requests = trace.UniformTrace(*seed, p)
	case "zipfian":
		alpha := 0.8
		if len(rest) == 4 {
			if _, err := fmt.Sscanf(rest[3], "%f", &alpha); err != nil {
				return fmt.Errorf("invalid zipf_alpha %q: %w", rest[3], err)
			}
		}
		requests = trace.ZipfianTrace(*seed, alpha, p)
	default:
		return fmt.Errorf("unrecognized workload %q (want uniform|zipfian)", workload)
	}

	sim, err := cachesim.NewSimulator(variant, cachesim.Options{MinChunkSize: *minChunk, MaxCacheSize: *maxCacheSize})
	if err != nil {
		return errors.Wrap(err, "simulation")
	}
	for _, addr := range requests {
		sim.MemoryAccess(addr)
	}
	success := sim.SuccessFunction()

	f, err := os.Create(outFile)
	if err != nil {
		return errors.Wrapf(err, "simulation: creating %s", outFile)
	}
	defer f.Close()
	if err := sim.DumpSuccessFunction(f, success, 1); err != nil {
		return errors.Wrap(err, "simulation: writing success function")
	}

	if *store != "" {
		if err := persist(*store, simName, success); err != nil {
			return errors.Wrap(err, "simulation")
		}
	}

	return nil
}

func persist(dsn, label string, success []uint64) error {
	store, err := resultstore.Open(dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.Save(label, label, success)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved run %s\n", id)
	return nil
}
