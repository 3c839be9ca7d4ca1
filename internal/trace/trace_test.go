package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestUniformTraceStaysWithinUniverse(t *testing.T) {
	p := Params{Accesses: 5000, IDUniverseSize: 37}
	out := UniformTrace(7, p)
	if len(out) != int(p.Accesses) {
		t.Fatalf("len = %d, want %d", len(out), p.Accesses)
	}
	for _, a := range out {
		if a >= p.IDUniverseSize {
			t.Fatalf("address %d out of universe [0,%d)", a, p.IDUniverseSize)
		}
	}
}

func TestUniformTraceDeterministic(t *testing.T) {
	p := Params{Accesses: 1000, IDUniverseSize: 500}
	a := UniformTrace(42, p)
	b := UniformTrace(42, p)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trace differs at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestWorkingSetTraceMostlyHitsWorkingSet(t *testing.T) {
	p := Params{Accesses: 20000, IDUniverseSize: 1000, WorkingSet: 100, Locality: 0.95}
	out := WorkingSetTrace(3, p)
	inSet := 0
	for _, a := range out {
		if a < p.WorkingSet {
			inSet++
		}
	}
	frac := float64(inSet) / float64(len(out))
	if frac < 0.85 {
		t.Fatalf("working-set fraction = %f, want roughly >= 0.85 given locality 0.95", frac)
	}
}

func TestZipfianTraceStaysWithinUniverseAndLength(t *testing.T) {
	p := Params{Accesses: 2000, IDUniverseSize: 50}
	out := ZipfianTrace(9, 0.8, p)
	if len(out) != int(p.Accesses) {
		t.Fatalf("len = %d, want %d", len(out), p.Accesses)
	}
	for _, a := range out {
		if a >= p.IDUniverseSize {
			t.Fatalf("address %d out of universe [0,%d)", a, p.IDUniverseSize)
		}
	}
}

func TestZipfianTraceIsSkewed(t *testing.T) {
	p := Params{Accesses: 5000, IDUniverseSize: 100}
	out := ZipfianTrace(1, 0.8, p)
	counts := make(map[uint64]int)
	for _, a := range out {
		counts[a]++
	}
	if counts[0] < counts[99] {
		t.Fatalf("expected id 0 to be accessed at least as often as id 99 under Zipfian skew: %d vs %d", counts[0], counts[99])
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	want := []uint64{1, 2, 3, 1000000, 0}
	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf, Int)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadHexFormat(t *testing.T) {
	r := strings.NewReader("ff\n10\n0\n")
	got, err := Read(r, Hex)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []uint64{255, 16, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadRejectsBlankLines(t *testing.T) {
	r := strings.NewReader("1\n\n2\n")
	if _, err := Read(r, Int); err == nil {
		t.Fatal("expected error on blank line")
	}
}

func TestReadRejectsMalformedInt(t *testing.T) {
	r := strings.NewReader("1\nabc\n")
	if _, err := Read(r, Int); err == nil {
		t.Fatal("expected error on malformed integer")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("INT"); err != nil || f != Int {
		t.Fatalf("ParseFormat(INT) = %v, %v", f, err)
	}
	if f, err := ParseFormat("HEX"); err != nil || f != Hex {
		t.Fatalf("ParseFormat(HEX) = %v, %v", f, err)
	}
	if _, err := ParseFormat("OCT"); err == nil {
		t.Fatal("expected error for unrecognized format")
	}
}
