package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"iaf/internal/trace"
)

const defaultSeed = 298234433

// DumpTracesCommand writes one uniform and five Zipfian trace files to
// dir, grounded on the original's dump_traces.cc.
func DumpTracesCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dump-traces <dir>")
	}
	dir := args[0]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "dump-traces: creating %s", dir)
	}

	p := trace.DefaultParams()

	if err := writeTrace(dir, "uniform.trace", trace.UniformTrace(defaultSeed, p)); err != nil {
		return err
	}
	for _, alpha := range []float64{0.1, 0.2, 0.4, 0.6, 0.8} {
		name := fmt.Sprintf("zipfian_%.1f.trace", alpha)
		if err := writeTrace(dir, name, trace.ZipfianTrace(defaultSeed, alpha, p)); err != nil {
			return err
		}
	}
	return nil
}

func writeTrace(dir, name string, requests []uint64) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "dump-traces: creating %s", path)
	}
	defer f.Close()
	if err := trace.Write(f, requests); err != nil {
		return errors.Wrapf(err, "dump-traces: writing %s", path)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
