// Package refsim implements a direct, tree-based LRU hit-rate oracle:
// the straightforward O(n log n) algorithm against which the engine's
// op-array recursion and the streaming/sampling paths are validated.
package refsim

import "iaf/internal/orderstat"

// Sim tracks LRU stack position per address using an order-statistic set
// keyed by access timestamp (most recent first), giving the reuse
// distance of every repeat access directly as a tree rank.
type Sim struct {
	stamps  *orderstat.Set
	lastTS  map[uint64]int64
	clock   int64
	hits    []int64
	accesses int64
}

func descending(a, b int64) bool { return a > b }

// New constructs an empty reference simulator.
func New() *Sim {
	return &Sim{
		stamps: orderstat.NewSet(descending),
		lastTS: make(map[uint64]int64),
	}
}

// Access records one memory reference to addr, updating the hit
// histogram if addr was seen before.
func (s *Sim) Access(addr uint64) {
	s.accesses++
	if ts, ok := s.lastTS[addr]; ok {
		rank := s.stamps.Rank(ts) // count of addresses more recent than ts
		s.record(rank + 1) // stack depth: the slot addr itself needs
		s.stamps.Erase(ts)
	}
	s.clock++
	s.stamps.Insert(s.clock)
	s.lastTS[addr] = s.clock
}

func (s *Sim) record(distance int64) {
	for int64(len(s.hits)) <= distance {
		s.hits = append(s.hits, 0)
	}
	s.hits[distance]++
}

// SuccessFunction returns the cumulative success curve: SuccessFunction()[m]
// is the number of accesses that would hit with a cache holding m distinct
// addresses.
func (s *Sim) SuccessFunction() []int64 {
	success := make([]int64, len(s.hits))
	var running int64
	for i, h := range s.hits {
		running += h
		success[i] = running
	}
	return success
}

// Accesses returns the total number of accesses recorded.
func (s *Sim) Accesses() int64 { return s.accesses }
