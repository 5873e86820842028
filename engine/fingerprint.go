package engine

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is an order-independent 128-bit digest of a solution's
// assignment: a pair of 64-bit accumulators, one commutative (sum) and
// one self-inverse (xor), over hash(l, r, d, s) for every placed
// lecture. Equal fingerprints mean the states are (almost certainly)
// equal; unequal fingerprints mean they definitely differ.
type Fingerprint struct {
	Sum uint64
	Xor uint64
}

// Add combines two fingerprints commutatively, as if every placement
// contributing to both had been folded into one accumulator.
func (f Fingerprint) Add(other Fingerprint) Fingerprint {
	return Fingerprint{Sum: f.Sum + other.Sum, Xor: f.Xor ^ other.Xor}
}

// Sub removes a fingerprint's contribution, the inverse of Add.
func (f Fingerprint) Sub(other Fingerprint) Fingerprint {
	return Fingerprint{Sum: f.Sum - other.Sum, Xor: f.Xor ^ other.Xor}
}

// hashPlacement mixes a (lecture, room, day, period) placement into a
// single 64-bit value via xxhash, the fixed mixing function backing
// every fingerprint accumulator.
func hashPlacement(l, r, d, s int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(l))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(r))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(d))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(s))
	return xxhash.Sum64(buf[:])
}

// fingerprintOf returns the single-placement fingerprint contribution
// of lecture l sitting at (r, d, s).
func fingerprintOf(l, r, d, s int) Fingerprint {
	h := hashPlacement(l, r, d, s)
	return Fingerprint{Sum: h, Xor: h}
}

// Fingerprint computes the order-independent digest of the entire
// current assignment by summing every placed lecture's contribution.
// Drivers that need to track a rolling digest across many moves should
// instead seed one from here once and then apply the
// fingerprint_plus/fingerprint_minus a move's predict step returns,
// rather than recomputing this on every move.
func (st *State) Fingerprint() Fingerprint {
	var fp Fingerprint
	for l, p := range st.assignment {
		if p.IsPlaced() {
			fp = fp.Add(fingerprintOf(l, p.Room, p.Day, p.Period))
		}
	}
	return fp
}
