// Package trace generates and reads synthetic and file-backed memory
// access traces for the cache simulators.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Default workload sizing, scaled down from the original's full-scale
// benchmark constants (40,000,000 accesses over a 200,000-id universe) to
// sizes a library call can generate without a multi-minute pause; callers
// that want the original scale pass their own Params.
const (
	DefaultAccesses       = 400_000
	DefaultIDUniverseSize = 20_000
	DefaultWorkingSet     = 5_000
	DefaultLocality       = 0.95
)

// Params configures a synthetic trace generator.
type Params struct {
	Accesses       uint64
	IDUniverseSize uint64
	WorkingSet     uint64 // WorkingSetTrace only
	Locality       float64
}

// DefaultParams returns the package's scaled-down default workload sizing.
func DefaultParams() Params {
	return Params{
		Accesses:       DefaultAccesses,
		IDUniverseSize: DefaultIDUniverseSize,
		WorkingSet:     DefaultWorkingSet,
		Locality:       DefaultLocality,
	}
}

// Format names a trace file's integer base.
type Format int

const (
	Int Format = iota
	Hex
)

// ParseFormat maps a CLI token to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "INT":
		return Int, nil
	case "HEX":
		return Hex, nil
	default:
		return 0, fmt.Errorf("unrecognized trace format %q", s)
	}
}

// UniformTrace generates p.Accesses addresses drawn uniformly from
// [0, p.IDUniverseSize), grounded on the original's uniform_trace.
func UniformTrace(seed uint64, p Params) []uint64 {
	r := rand.New(rand.NewPCG(seed, seed))
	out := make([]uint64, p.Accesses)
	for i := range out {
		out[i] = r.Uint64() % p.IDUniverseSize
	}
	return out
}

// WorkingSetTrace generates a trace where, with probability p.Locality,
// the address is drawn from a small "working set" of p.WorkingSet ids, and
// otherwise from the remaining universe, grounded on the original's
// working_set_simulator.
func WorkingSetTrace(seed uint64, p Params) []uint64 {
	r := rand.New(rand.NewPCG(seed, seed))
	out := make([]uint64, p.Accesses)
	leftover := p.IDUniverseSize - p.WorkingSet
	for i := range out {
		addr := r.Uint64()
		if r.Float64() <= p.Locality {
			out[i] = addr % p.WorkingSet
		} else {
			out[i] = (addr % leftover) + p.WorkingSet
		}
	}
	return out
}

// ZipfianTrace generates a trace whose per-id access frequency follows a
// Zipfian distribution with exponent alpha, then shuffles the resulting
// sequence, grounded on the original's generate_zipf.
func ZipfianTrace(seed uint64, alpha float64, p Params) []uint64 {
	freq := make([]float64, p.IDUniverseSize)
	var divisor float64
	for i := uint64(1); i <= p.IDUniverseSize; i++ {
		divisor += 1 / math.Pow(float64(i), alpha)
	}
	for i := uint64(0); i < p.IDUniverseSize; i++ {
		freq[i] = (1 / math.Pow(float64(i+1), alpha)) / divisor
	}

	seq := make([]uint64, 0, p.Accesses)
	for i := uint64(0); i < p.IDUniverseSize && uint64(len(seq)) < p.Accesses; i++ {
		numItems := uint64(math.Round(freq[i] * float64(p.Accesses)))
		for j := uint64(0); j < numItems && uint64(len(seq)) < p.Accesses; j++ {
			seq = append(seq, i)
		}
	}
	if uint64(len(seq)) < p.Accesses {
		needed := p.Accesses - uint64(len(seq))
		for i := uint64(0); i < needed; i++ {
			seq = append(seq, i%p.IDUniverseSize)
		}
	}
	seq = seq[:p.Accesses]

	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	return seq
}

// Read parses one address per line from r, in the given base.
func Read(r io.Reader, format Format) ([]uint64, error) {
	base := 10
	if format == Hex {
		base = 16
	}
	var out []uint64
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil, fmt.Errorf("trace line %d: blank lines are not allowed", lineNo)
		}
		v, err := strconv.ParseUint(line, base, 64)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %q is not a valid base-%d integer: %w", lineNo, line, base, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return out, nil
}

// Write emits one address per line, base-10.
func Write(w io.Writer, trace []uint64) error {
	bw := bufio.NewWriter(w)
	for _, addr := range trace {
		if _, err := fmt.Fprintln(bw, addr); err != nil {
			return err
		}
	}
	return bw.Flush()
}
