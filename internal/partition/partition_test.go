package partition

import "testing"

// qryAndUpdPartitionIncr walks an implicit binary trie over the
// Branching-1 partition targets: each call both records an increment at
// its own target and returns how many of the calls made so far (in
// insertion order) were at a strictly smaller target. Equal targets never
// count each other, since they never diverge onto a "go right" branch
// relative to one another.
func TestQryAndUpdPartitionIncrFirstCallSeesNothing(t *testing.T) {
	s := NewState(1.0, 1)
	if got := s.qryAndUpdPartitionIncr(5); got != 0 {
		t.Fatalf("first call at any target = %d, want 0 (no priors)", got)
	}
}

func TestQryAndUpdPartitionIncrIgnoresEqualTargets(t *testing.T) {
	s := NewState(1.0, 1)
	for i := 0; i < 5; i++ {
		if got := s.qryAndUpdPartitionIncr(3); got != 0 {
			t.Fatalf("call %d at repeated target 3 = %d, want 0 (equal targets never count)", i, got)
		}
	}
}

func TestQryAndUpdPartitionIncrCountsSmallerPriors(t *testing.T) {
	s := NewState(1.0, 1)
	for i := 0; i < 3; i++ {
		s.qryAndUpdPartitionIncr(0)
	}
	s.qryAndUpdPartitionIncr(3)

	// All 4 prior calls (three at 0, one at 3) are strictly less than 14,
	// the largest valid target (Branching-2).
	if got := s.qryAndUpdPartitionIncr(Branching - 2); got != 4 {
		t.Fatalf("qryAndUpdPartitionIncr(%d) = %d, want 4", Branching-2, got)
	}
}

func TestQryAndUpdPartitionIncrOrderInsensitiveToUnrelatedTargets(t *testing.T) {
	// A query at target 0 should never count anything: nothing can be
	// strictly smaller than the smallest valid target.
	s := NewState(1.0, 1)
	s.qryAndUpdPartitionIncr(7)
	s.qryAndUpdPartitionIncr(1)
	if got := s.qryAndUpdPartitionIncr(0); got != 0 {
		t.Fatalf("qryAndUpdPartitionIncr(0) = %d, want 0 (nothing is smaller than 0)", got)
	}
}
