package rand

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMT19937_ReferenceStream(t *testing.T) {
	// First outputs of the reference mt19937ar implementation under its
	// default seed.
	r := NewMT19937(5489)
	expected := []uint32{3499211612, 581869302, 3890346734, 3586334585, 545404204}
	for i, exp := range expected {
		require.Equal(t, exp, r.Uint32(), "draw %d diverged from the reference stream", i)
	}
}

func TestMT19937_Determinism(t *testing.T) {
	r1, r2 := NewMT19937(20240229), NewMT19937(20240229)
	for i := 0; i < 2048; i++ {
		require.Equal(t, r1.Uint32(), r2.Uint32(), "draw %d", i)
	}

	r3 := NewMT19937(1)
	diverged := false
	r1.Reseed(20240229)
	for i := 0; i < 16; i++ {
		if r1.Uint32() != r3.Uint32() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged, "different seeds must yield different streams")
}

func TestMT19937_ReseedRestartsStream(t *testing.T) {
	r := NewMT19937(7)
	first := make([]uint32, 700)
	for i := range first {
		first[i] = r.Uint32()
	}
	r.Reseed(7)
	for i := range first {
		require.Equal(t, first[i], r.Uint32(), "draw %d after reseed", i)
	}
}

func TestMT19937_Uint64Composition(t *testing.T) {
	a := NewMT19937(5489)
	b := NewMT19937(5489)
	hi, lo := uint64(b.Uint32()), uint64(b.Uint32())
	assert.Equal(t, hi<<32|lo, a.Uint64())
}

func TestMT19937_Int63NonNegative(t *testing.T) {
	r := NewMT19937(99)
	for i := 0; i < 4096; i++ {
		require.GreaterOrEqual(t, r.Int63(), int64(0))
	}
}

func TestMT19937_AsMathRandSource(t *testing.T) {
	r := mrand.New(NewMT19937(5489))
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := r.Intn(10)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 10)
		seen[n] = true
	}
	assert.Len(t, seen, 10, "1000 draws should hit every bucket of [0,10)")
}

func TestTimeSeed(t *testing.T) {
	// Seeds taken within the same second must agree, which keeps the soak
	// harness reproducible when it logs the seed it picked.
	s1 := TimeSeed()
	s2 := TimeSeed()
	if s1 != s2 {
		// Crossed a second boundary, one retry is enough.
		s1 = TimeSeed()
		s2 = TimeSeed()
	}
	assert.Equal(t, s1, s2)
}

func BenchmarkMT19937_Uint32(b *testing.B) {
	r := NewMT19937(5489)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Uint32()
	}
}

func BenchmarkMT19937_Uint64(b *testing.B) {
	r := NewMT19937(5489)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Uint64()
	}
}
