package cachesim

import (
	"io"

	"iaf/internal/streamer"
)

// streamSim is the bounded, chunked variant (BOUND_IAF / K_LIM_IAF): it
// drives internal/streamer.Streamer, optionally truncating the reported
// curve to a fixed maximum cache size (the K_LIM_IAF cap).
type streamSim struct {
	s        *streamer.Streamer
	maxSize  uint64 // 0 means unbounded (BOUND_IAF)
	accesses uint64
}

func newStreamSim(opts Options, maxSize uint64) *streamSim {
	return &streamSim{s: streamer.New(streamerOptions(opts)), maxSize: maxSize}
}

func (s *streamSim) MemoryAccess(addr uint64) {
	s.accesses++
	s.s.MemoryAccess(addr)
}

func (s *streamSim) SuccessFunction() []uint64 {
	curve := s.s.SuccessFunction()
	if s.maxSize > 0 && uint64(len(curve)) > s.maxSize {
		curve = curve[:s.maxSize]
	}
	out := make([]uint64, len(curve))
	for i, v := range curve {
		out[i] = uint64(v)
	}
	return out
}

func (s *streamSim) MemoryUsageMiB() float64 { return memoryUsageMiB() }

func (s *streamSim) DumpSuccessFunction(w io.Writer, success []uint64, stride int) error {
	return dumpSuccessFunction(w, success, stride, s.accesses)
}
