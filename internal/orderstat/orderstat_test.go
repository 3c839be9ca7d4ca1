package orderstat

import (
	"math/rand"
	"sort"
	"testing"
)

func descending(a, b int64) bool { return a > b }

func TestSetRankSelectRoundTrip(t *testing.T) {
	keys := []int64{50, 10, 90, 30, 70, 20, 80, 40, 60}
	s := NewSet(descending)
	for _, k := range keys {
		s.Insert(k)
	}
	if s.Len() != int64(len(keys)) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(keys))
	}

	sorted := append([]int64(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	for i, k := range sorted {
		if got := s.Select(int64(i)); got != k {
			t.Errorf("Select(%d) = %d, want %d", i, got, k)
		}
		if got := s.Rank(k); got != int64(i) {
			t.Errorf("Rank(%d) = %d, want %d", k, got, i)
		}
	}
}

func TestSetEraseMaintainsInvariant(t *testing.T) {
	s := NewSet(descending)
	for i := int64(0); i < 200; i++ {
		s.Insert(i)
	}
	for i := int64(0); i < 200; i += 2 {
		s.Erase(i)
	}
	if s.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", s.Len())
	}
	for i := int64(0); i < 200; i++ {
		want := i%2 == 1
		if got := s.Contains(i); got != want {
			t.Errorf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestSetRandomizedAgainstSortedSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewSet(descending)
	present := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		k := rng.Int63n(500)
		if rng.Intn(3) == 0 && present[k] {
			s.Erase(k)
			delete(present, k)
		} else {
			s.Insert(k)
			present[k] = true
		}
	}
	var sorted []int64
	for k := range present {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	if s.Len() != int64(len(sorted)) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(sorted))
	}
	for i, k := range sorted {
		if got := s.Rank(k); got != int64(i) {
			t.Errorf("Rank(%d) = %d, want %d", k, got, i)
		}
	}
}

func TestTreeFindAndRemove(t *testing.T) {
	tree := NewTree()
	order := []int64{50, 10, 90, 30, 70, 20, 80, 40, 60}
	for _, k := range order {
		tree.Insert(k, uint64(k)*10)
	}
	rank, val, ok := tree.Find(50)
	if !ok || val != 500 {
		t.Fatalf("Find(50) = (%d, %d, %v), want value 500", rank, val, ok)
	}

	removed := tree.Remove(rank)
	if removed != 500 {
		t.Fatalf("Remove(%d) = %d, want 500", rank, removed)
	}
	if tree.Len() != int64(len(order)-1) {
		t.Fatalf("Len() = %d, want %d", tree.Len(), len(order)-1)
	}
	if _, _, ok := tree.Find(50); ok {
		t.Fatalf("Find(50) still present after Remove")
	}
}
