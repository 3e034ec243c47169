package generator

import (
	"strconv"
	"unicode/utf16"
)

// Seed drives every random choice made by the generator.
type Seed string

// IntSeed renders an integer seed the same way string seeds are hashed.
func IntSeed(n int64) Seed {
	return Seed(strconv.FormatInt(n, 10))
}

// RNG is a deterministic uniform [0,1) stream. Identical seeds always yield
// identical streams; nothing else feeds it.
type RNG struct {
	state uint32
}

// NewRNG hashes the seed into 32 bits and starts a stream from it.
func NewRNG(seed Seed) *RNG {
	return &RNG{state: hashSeed(string(seed))}
}

// hashSeed is xmur3 over UTF-16 code units, returning the first output.
func hashSeed(seed string) uint32 {
	units := utf16.Encode([]rune(seed))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, u := range units {
		h = (h ^ uint32(u)) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	return h
}

// Float64 returns the next value of the stream (mulberry32).
func (r *RNG) Float64() float64 {
	r.state += 0x6d2b79f5
	v := r.state
	t := (v ^ v>>15) * (1 | v)
	t ^= t + (t^t>>7)*(61|t)
	return float64(t^t>>14) / 4294967296
}

// Intn returns an integer in [minInclusive, maxExclusive). It returns
// minInclusive without consuming the stream when the range is empty.
func (r *RNG) Intn(minInclusive, maxExclusive int) int {
	if maxExclusive <= minInclusive {
		return minInclusive
	}
	return int(r.Float64()*float64(maxExclusive-minInclusive)) + minInclusive
}
