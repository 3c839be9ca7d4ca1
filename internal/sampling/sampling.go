// Package sampling implements trace downsampling: a deterministic
// admission filter keyed by address, so repeated runs over the same
// trace with the same seed admit exactly the same addresses.
package sampling

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Adapter admits a uniformly random 1-in-Rate fraction of addresses,
// chosen by hashing (addr, seed) rather than sampling the request
// stream positionally, so repeat accesses to the same address are
// consistently admitted or consistently dropped.
type Adapter struct {
	seed uint64
	mask uint64
	rate int
}

// New constructs an Adapter that admits roughly 1/rate of addresses.
// rate must be a power of two; it is rounded down to the nearest one.
func New(seed uint64, rate int) *Adapter {
	if rate < 1 {
		rate = 1
	}
	bits := 0
	for (1 << (bits + 1)) <= rate {
		bits++
	}
	return &Adapter{seed: seed, rate: 1 << bits, mask: (uint64(1) << bits) - 1}
}

// Rate returns the effective 1/Rate admission fraction.
func (a *Adapter) Rate() int { return a.rate }

// Admit reports whether addr is let through the filter.
func (a *Adapter) Admit(addr uint64) bool {
	return hash64(addr, a.seed)&a.mask == 0
}

// hash64 computes a deterministic, seed-keyed 64-bit digest of addr using
// BLAKE2b in keyed-MAC mode (the seed as the key), standing in for the
// original's xxhash admission test with an equivalent fast keyed hash.
func hash64(addr, seed uint64) uint64 {
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	h, err := blake2b.New(8, key[:])
	if err != nil {
		panic(err) // only size/key-length errors are possible, both fixed here
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], addr)
	h.Write(buf[:])
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
