package cachesim

import (
	"io"

	"iaf/internal/orderstat"
)

// treeSim is the naive-order-statistic-tree variant (OS_TREE): a separate,
// unbalanced oracle kept alongside OS_SET for direct comparison, per the
// original's two distinct order-statistic simulators.
type treeSim struct {
	tree     *orderstat.Tree
	lastTS   map[uint64]int64
	clock    int64
	hits     []uint64
	accesses uint64
}

func newTreeSim() *treeSim {
	return &treeSim{tree: orderstat.NewTree(), lastTS: make(map[uint64]int64)}
}

func (s *treeSim) MemoryAccess(addr uint64) {
	s.accesses++
	if ts, ok := s.lastTS[addr]; ok {
		rank, _, found := s.tree.Find(ts)
		if found {
			s.tree.Remove(rank)
			s.record(rank + 1)
		}
	}
	s.clock++
	s.tree.Insert(s.clock, addr)
	s.lastTS[addr] = s.clock
}

func (s *treeSim) record(distance int64) {
	for uint64(len(s.hits)) <= uint64(distance) {
		s.hits = append(s.hits, 0)
	}
	s.hits[distance]++
}

func (s *treeSim) SuccessFunction() []uint64 {
	success := make([]uint64, len(s.hits))
	var running uint64
	for i, h := range s.hits {
		running += h
		success[i] = running
	}
	return success
}

func (s *treeSim) MemoryUsageMiB() float64 { return memoryUsageMiB() }

func (s *treeSim) DumpSuccessFunction(w io.Writer, success []uint64, stride int) error {
	return dumpSuccessFunction(w, success, stride, s.accesses)
}
