package refsim

import "testing"

func TestAccessMatchesKnownTrace(t *testing.T) {
	sim := New()
	for _, a := range []uint64{1, 2, 3, 2, 1, 2, 3, 1} {
		sim.Access(a)
	}
	success := sim.SuccessFunction()
	total := success[len(success)-1]
	// 8 accesses, 3 are first-time (cold), 5 are repeats.
	if total != 5 {
		t.Fatalf("total hits = %d, want 5", total)
	}
}

func TestSuccessFunctionIsNonDecreasing(t *testing.T) {
	sim := New()
	for i := 0; i < 200; i++ {
		sim.Access(uint64(i % 17))
	}
	success := sim.SuccessFunction()
	for i := 1; i < len(success); i++ {
		if success[i] < success[i-1] {
			t.Fatalf("success[%d]=%d < success[%d]=%d", i, success[i], i-1, success[i-1])
		}
	}
	if success[len(success)-1] > sim.Accesses() {
		t.Fatalf("total hits %d exceeds total accesses %d", success[len(success)-1], sim.Accesses())
	}
}
