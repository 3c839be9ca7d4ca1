package cachesim

import (
	"io"

	"iaf/internal/iaf"
)

// wholeTraceSim is the unbounded IAF variant: it buffers the entire trace
// and runs the engine once, with no chunking and no living-request cap.
type wholeTraceSim struct {
	engine   *iaf.Engine
	requests []iaf.Request
}

func newWholeTraceSim() *wholeTraceSim {
	return &wholeTraceSim{engine: iaf.NewEngine()}
}

func (s *wholeTraceSim) MemoryAccess(addr uint64) {
	s.requests = append(s.requests, iaf.Request{Addr: addr, Seq: uint64(len(s.requests))})
}

func (s *wholeTraceSim) SuccessFunction() []uint64 {
	curve := s.engine.SuccessFunction(s.requests)
	out := make([]uint64, len(curve))
	for i, v := range curve {
		out[i] = uint64(v)
	}
	return out
}

func (s *wholeTraceSim) MemoryUsageMiB() float64 { return memoryUsageMiB() }

func (s *wholeTraceSim) DumpSuccessFunction(w io.Writer, success []uint64, stride int) error {
	return dumpSuccessFunction(w, success, stride, uint64(len(s.requests)))
}
