// Package streamer implements BoundedStreamer: a bounded-memory driver
// over internal/iaf that processes a trace in adaptively-sized chunks so
// the set of "living" (not yet re-referenced) addresses never grows
// without limit, optionally downsampling the trace first.
package streamer

import (
	"iaf/internal/iaf"
	"iaf/internal/sampling"
)

const (
	maxUMult = 4
	minUMult = 3
)

// Options configures a Streamer.
type Options struct {
	MinChunkSize uint64
	MaxLiving    uint64
	Sampler      *sampling.Adapter // nil disables sampling
}

// Streamer drives internal/iaf over chunks of bounded width, carrying
// living requests forward and capping their count.
type Streamer struct {
	engine  *iaf.Engine
	opts    Options
	curU    uint64
	buffer  []iaf.Request
	living  []iaf.Request
	hits    []int64
	numDups int64
	access  uint64
	maxLive uint64
}

// New constructs a Streamer. A zero-value Options uses the defaults
// min_chunk_size=65536 / no living cap (bounded only by available memory).
func New(opts Options) *Streamer {
	if opts.MinChunkSize == 0 {
		opts.MinChunkSize = 65536
	}
	return &Streamer{
		engine: iaf.NewEngine(),
		opts:   opts,
		curU:   opts.MinChunkSize,
	}
}

// MemoryAccess records one address reference, triggering a chunk flush
// once the adaptive threshold is reached.
func (s *Streamer) MemoryAccess(addr uint64) {
	if s.opts.Sampler != nil && !s.opts.Sampler.Admit(addr) {
		return
	}
	s.access++
	s.buffer = append(s.buffer, iaf.Request{Addr: addr, Seq: uint64(len(s.buffer))})
	if uint64(len(s.buffer)) >= s.curU {
		s.processChunk()
	}
}

// processChunk runs the engine over the buffered requests, merges the
// resulting hit histogram, caps the living set, and updates the adaptive
// chunk size.
func (s *Streamer) processChunk() {
	if len(s.buffer) == 0 {
		return
	}
	out := s.engine.ProcessChunk(s.buffer, s.living)
	s.merge(out.Hits)
	s.numDups += out.Duplicates

	living := out.Living
	if s.opts.MaxLiving > 0 && uint64(len(living)) > s.opts.MaxLiving {
		// living is ascending by access; keep the newest MaxLiving in order.
		living = append([]iaf.Request(nil), living[uint64(len(living))-s.opts.MaxLiving:]...)
	}
	s.living = living
	if uint64(len(living)) > s.maxLive {
		s.maxLive = uint64(len(living))
	}

	s.updateU(uint64(len(living)))
	s.buffer = s.buffer[:0]
}

// updateU applies the hysteresis rule: the chunk size only grows, and
// only once the living set has grown to a large enough fraction of it to
// justify a bigger batch, avoiding chunk-size oscillation.
func (s *Streamer) updateU(livingCount uint64) {
	if minUMult*livingCount >= s.curU {
		if grown := maxUMult * livingCount; grown > s.curU {
			s.curU = grown
		}
	}
}

func (s *Streamer) merge(hits []int64) {
	for len(s.hits) < len(hits) {
		s.hits = append(s.hits, 0)
	}
	for d, h := range hits {
		s.hits[d] += h
	}
}

// Flush forces processing of any buffered, not-yet-chunked requests.
func (s *Streamer) Flush() {
	s.processChunk()
}

// Duplicates returns the number of repeat accesses observed so far.
func (s *Streamer) Duplicates() int64 { return s.numDups }

// MaxLivingObserved returns the largest living-set size seen across all
// chunk boundaries, a proxy for peak memory use.
func (s *Streamer) MaxLivingObserved() uint64 { return s.maxLive }

// SuccessFunction flushes any pending requests and returns the cumulative
// hit-rate curve. When sampling is enabled, each recorded distance is
// expanded across the sampler's admission rate to estimate the unsampled
// curve, with the running total capped at access-1 so the curve never
// claims more hits than requests seen.
func (s *Streamer) SuccessFunction() []int64 {
	s.Flush()
	if s.opts.Sampler == nil {
		return iaf.Integrate(s.hits)
	}
	return s.integrateSampled()
}

func (s *Streamer) integrateSampled() []int64 {
	rate := int64(s.opts.Sampler.Rate())
	out := make([]int64, int64(len(s.hits))*rate+1)
	var running int64
	limit := int64(s.access) - 1
	if limit < 0 {
		limit = 0
	}
	for d, h := range s.hits {
		for k := int64(0); k < rate; k++ {
			idx := int64(d)*rate + k
			if idx >= int64(len(out)) {
				break
			}
			add := h
			if running+add > limit {
				add = limit - running
			}
			if add < 0 {
				add = 0
			}
			running += add
			out[idx] = running
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			out[i] = out[i-1]
		}
	}
	return out
}
