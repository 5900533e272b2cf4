// Package rand provides the deterministic pseudo random source shared by
// the probabilistic containers and the soak harness. It is a Mersenne
// Twister (MT19937) with explicit per-instance state, so independent
// containers can hold independent, reproducible streams.
//
// References:
// https://en.wikipedia.org/wiki/Mersenne_Twister
// http://www.math.sci.hiroshima-u.ac.jp/m-mat/MT/MT2002/emt19937ar.html
package rand

import (
	"math"
	mrand "math/rand"
	"time"
)

const (
	mtStateLen  = 624
	mtMidOffset = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
	mtSeedMul   = 1812433253
)

// MT19937 is a 32-bit Mersenne Twister. The zero value is not seeded;
// construct instances through NewMT19937 or NewTimeSeeded.
//
// It implements math/rand Source64, so it can back a *math/rand.Rand when
// derived values (Intn, Shuffle, ...) are wanted on top of the raw stream.
//
// Not safe for concurrent use.
type MT19937 struct {
	state [mtStateLen]uint32
	next  int
}

var _ mrand.Source64 = (*MT19937)(nil)

// NewMT19937 returns a generator whose stream is fully determined by seed.
func NewMT19937(seed uint32) *MT19937 {
	r := &MT19937{}
	r.Reseed(seed)
	return r
}

// NewTimeSeeded returns a generator seeded from the wall clock.
func NewTimeSeeded() *MT19937 {
	return NewMT19937(TimeSeed())
}

// Reseed reinitializes the internal state from seed and restarts the
// stream. Two generators reseeded with the same value emit identical
// streams.
func (r *MT19937) Reseed(seed uint32) {
	r.state[0] = seed
	for i := 1; i < mtStateLen; i++ {
		prev := r.state[i-1]
		r.state[i] = mtSeedMul*(prev^(prev>>30)) + uint32(i)
	}
	r.next = mtStateLen
}

// Uint32 returns the next 32 bits of the stream.
func (r *MT19937) Uint32() uint32 {
	if r.next == mtStateLen {
		r.refill()
	}
	y := r.state[r.next]
	r.next++

	// Improve distribution.
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Uint64 composes two consecutive 32-bit draws, first draw in the high
// word.
func (r *MT19937) Uint64() uint64 {
	hi := uint64(r.Uint32())
	lo := uint64(r.Uint32())
	return hi<<32 | lo
}

// Int63 implements math/rand Source.
func (r *MT19937) Int63() int64 {
	return int64(r.Uint64() & (1<<63 - 1))
}

// Seed implements math/rand Source. Only the low 32 bits of seed are
// significant.
func (r *MT19937) Seed(seed int64) {
	r.Reseed(uint32(seed))
}

func (r *MT19937) refill() {
	x := &r.state
	for i := 0; i < mtStateLen-1; i++ {
		y := x[i]&mtUpperMask | x[i+1]&mtLowerMask
		var a uint32
		if y&0x1 != 0 {
			a = mtMatrixA
		}
		x[i] = x[(i+mtMidOffset)%mtStateLen] ^ (y >> 1) ^ a
	}
	y := x[mtStateLen-1]&mtUpperMask | x[0]&mtLowerMask
	var a uint32
	if y&0x1 != 0 {
		a = mtMatrixA
	}
	x[mtStateLen-1] = x[mtMidOffset-1] ^ (y >> 1) ^ a
	r.next = 0
}

// TimeSeed folds the current unix time byte by byte into a portable
// 32-bit seed.
func TimeSeed() uint32 {
	now := uint64(time.Now().Unix())
	var seed uint32
	for i := 0; i < 8; i++ {
		seed = seed*(math.MaxUint8+2) + uint32(now&0xff)
		now >>= 8
	}
	return seed
}
