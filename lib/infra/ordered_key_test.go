package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedComparator(t *testing.T) {
	assert.Equal(t, int64(-1), OrderedComparator(1, 2))
	assert.Equal(t, int64(1), OrderedComparator(2, 1))
	assert.Equal(t, int64(0), OrderedComparator(7, 7))

	assert.Equal(t, int64(-1), OrderedComparator("abc", "abd"))
	assert.Equal(t, int64(1), OrderedComparator("b", "a"))
	assert.Equal(t, int64(0), OrderedComparator("", ""))

	assert.Equal(t, int64(-1), OrderedComparator(1.5, 2.5))
	assert.Equal(t, int64(1), OrderedComparator(uint8(200), uint8(100)))
}

func TestReverseComparator(t *testing.T) {
	desc := ReverseComparator[int](OrderedComparator[int])
	assert.Equal(t, int64(1), desc(1, 2))
	assert.Equal(t, int64(-1), desc(2, 1))
	assert.Equal(t, int64(0), desc(3, 3))
}

func TestEqualityComparator(t *testing.T) {
	assert.Equal(t, int64(0), EqualityComparator(7, 7))
	assert.Equal(t, int64(1), EqualityComparator(1, 2))
	assert.Equal(t, int64(1), EqualityComparator(2, 1))
	assert.Equal(t, int64(0), EqualityComparator("a", "a"))
	assert.Equal(t, int64(1), EqualityComparator("a", "b"))
}

func TestIdentityDuplicator(t *testing.T) {
	item := []int{1, 2, 3}
	dup, err := IdentityDuplicator(item)
	require.NoError(t, err)
	require.Len(t, dup, 3)
	dup[0] = 9
	assert.Equal(t, 9, item[0], "identity duplicator must share the backing data")
}
