// Package cachesim exposes the five LRU hit-rate simulator variants behind
// one capability interface, so the CLI and comparison tooling can treat
// them interchangeably.
package cachesim

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/dustin/go-humanize"

	"iaf/internal/sampling"
	"iaf/internal/streamer"
	"iaf/internal/taskgroup"
)

// Variant names a simulator implementation.
type Variant int

const (
	OSTree Variant = iota
	OSSet
	IAF
	BoundedIAF
	CappedIAF
)

func (v Variant) String() string {
	switch v {
	case OSTree:
		return "os_tree"
	case OSSet:
		return "os_set"
	case IAF:
		return "iaf"
	case BoundedIAF:
		return "bound_iaf"
	case CappedIAF:
		return "k_lim_iaf"
	default:
		return "unknown"
	}
}

// ParseVariant maps a CLI token to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "os_tree":
		return OSTree, nil
	case "os_set":
		return OSSet, nil
	case "iaf":
		return IAF, nil
	case "bound_iaf":
		return BoundedIAF, nil
	case "k_lim_iaf":
		return CappedIAF, nil
	default:
		return 0, fmt.Errorf("unrecognized simulator variant %q", s)
	}
}

// CacheSim is the capability set shared by every simulator variant: feed it
// addresses one at a time, then read back the cumulative hit-rate curve.
type CacheSim interface {
	MemoryAccess(addr uint64)
	SuccessFunction() []uint64
	MemoryUsageMiB() float64
	DumpSuccessFunction(w io.Writer, success []uint64, stride int) error
}

// Options configures the bounded variants; zero values pick the package
// defaults.
type Options struct {
	MinChunkSize uint64
	MaxCacheSize uint64 // CappedIAF truncates its reported curve here; both bounded variants cap the living set at it
	SampleSeed   uint64
	SampleRate   int // 0 or 1 disables sampling
}

// NewSimulator constructs the requested variant.
func NewSimulator(variant Variant, opts Options) (CacheSim, error) {
	switch variant {
	case OSTree:
		return newTreeSim(), nil
	case OSSet:
		return newRefsimAdapter(), nil
	case IAF:
		return newWholeTraceSim(), nil
	case BoundedIAF:
		return newStreamSim(opts, 0), nil
	case CappedIAF:
		if opts.MaxCacheSize == 0 {
			return nil, fmt.Errorf("k_lim_iaf requires a positive MaxCacheSize")
		}
		return newStreamSim(opts, opts.MaxCacheSize), nil
	default:
		return nil, fmt.Errorf("unrecognized simulator variant %d", variant)
	}
}

// CompareVariants runs the same trace through several simulator variants
// concurrently, returning each variant's success curve. Variants are
// independent and share no state, so running them as separate fork-join
// tasks lets a multi-variant comparison (the common case for a `simulation`
// CLI run that wants more than one curve) finish in roughly the time of
// its slowest variant rather than their sum.
func CompareVariants(ctx context.Context, trace []uint64, variants []Variant, opts Options) (map[Variant][]uint64, error) {
	g, _ := taskgroup.New(ctx, len(variants), 0)
	curves := make([][]uint64, len(variants))
	for i, v := range variants {
		i, v := i, v
		sim, err := NewSimulator(v, opts)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			for _, addr := range trace {
				sim.MemoryAccess(addr)
			}
			curves[i] = sim.SuccessFunction()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	results := make(map[Variant][]uint64, len(variants))
	for i, v := range variants {
		results[v] = curves[i]
	}
	return results, nil
}

func sampler(opts Options) *sampling.Adapter {
	if opts.SampleRate <= 1 {
		return nil
	}
	return sampling.New(opts.SampleSeed, opts.SampleRate)
}

func streamerOptions(opts Options) streamer.Options {
	return streamer.Options{
		MinChunkSize: opts.MinChunkSize,
		MaxLiving:    opts.MaxCacheSize,
		Sampler:      sampler(opts),
	}
}

// MemoryUsageMiB reports the process's peak resident set size, matching
// the original's getrusage-based get_max_mem_used.
func memoryUsageMiB() float64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// ru_maxrss is KiB on Linux.
	return float64(ru.Maxrss) / 1024.0
}

// dumpSuccessFunction writes the "Cache Size | Hits | Hit Rate" table
// shared by every variant, stepping by stride and finishing with a
// Misses line.
func dumpSuccessFunction(w io.Writer, success []uint64, stride int, totalAccesses uint64) error {
	if stride < 1 {
		stride = 1
	}
	const width = 16
	var total uint64
	if len(success) > 0 {
		total = success[len(success)-1]
	}
	rate := func(v uint64) float64 {
		if totalAccesses == 0 {
			return 0
		}
		return float64(int64(float64(v)/float64(totalAccesses)*1e6+0.5)) / 1e4
	}
	if _, err := fmt.Fprintf(w, "%*s%*s%*s\n", width, "Cache Size", width, "Hits", width, "Hit Rate"); err != nil {
		return err
	}
	for i := 1; i < len(success); i += stride {
		size := i
		hits := success[i]
		line := fmt.Sprintf("%*d%*s%*s", width, size, width, humanize.Comma(int64(hits)), width, fmt.Sprintf("%.4f%%", rate(hits)))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	misses := totalAccesses - total
	line := fmt.Sprintf("%*s%*s%*s", width, "Misses", width, humanize.Comma(int64(misses)), width, fmt.Sprintf("%.4f%%", rate(misses)))
	_, err := fmt.Fprintln(w, line)
	return err
}
