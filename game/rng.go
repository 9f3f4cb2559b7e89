package game

import "hash/fnv"

// RNG is a 32-bit seeded generator producing a reproducible float stream.
// All procedural generation (boards, decks, objective pools, shop offers)
// consumes only this stream, so two processes given the same seed build
// identical state without sharing anything but the seed.
type RNG struct {
	state uint32
}

func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// SubSeed derives an independent seed from the game seed, the level number
// and a stable per-purpose label. Separate purposes get separate streams so
// consuming an extra value in one generator cannot shift another.
func SubSeed(seed uint32, level int, purpose string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(purpose))
	return seed ^ (uint32(level) * 0x9E3779B9) ^ h.Sum32()
}

// Float returns the next value in [0,1).
func (r *RNG) Float() float64 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

// Intn returns an integer in [0,n). n must be > 0.
func (r *RNG) Intn(n int) int {
	return int(r.Float() * float64(n))
}

// Between returns an integer in [lo,hi].
func (r *RNG) Between(lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float() < p
}

// ShuffleRNG permutes s in place with a Fisher-Yates walk over the stream.
func ShuffleRNG[T any](r *RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// PickRNG returns a random element of s.
func PickRNG[T any](r *RNG, s []T) T {
	return s[r.Intn(len(s))]
}
