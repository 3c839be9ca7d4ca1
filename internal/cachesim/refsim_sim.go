package cachesim

import (
	"io"

	"iaf/internal/refsim"
)

// refsimAdapter is the OS_SET variant: the weight-balanced order-statistic
// set oracle.
type refsimAdapter struct {
	sim *refsim.Sim
}

func newRefsimAdapter() *refsimAdapter {
	return &refsimAdapter{sim: refsim.New()}
}

func (s *refsimAdapter) MemoryAccess(addr uint64) { s.sim.Access(addr) }

func (s *refsimAdapter) SuccessFunction() []uint64 {
	curve := s.sim.SuccessFunction()
	out := make([]uint64, len(curve))
	for i, v := range curve {
		out[i] = uint64(v)
	}
	return out
}

func (s *refsimAdapter) MemoryUsageMiB() float64 { return memoryUsageMiB() }

func (s *refsimAdapter) DumpSuccessFunction(w io.Writer, success []uint64, stride int) error {
	return dumpSuccessFunction(w, success, stride, uint64(s.sim.Accesses()))
}
