package kv

import (
	"fmt"
	randv2 "math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

type taggedKey struct {
	key uint64
	tag string
}

func taggedKeyCompare(i, j taggedKey) int64 {
	return infra.OrderedComparator(i.key, j.key)
}

func taggedKeyHash(key taggedKey) uint64 {
	return key.key
}

func identityHash(key uint64) uint64 {
	return key
}

func TestHashMap_New(t *testing.T) {
	_, err := NewHashMap[uint64, string](0)
	require.ErrorIs(t, err, ErrHashMapInvalidCapacity)
	_, err = NewHashMap[uint64, string](-1)
	require.ErrorIs(t, err, ErrHashMapInvalidCapacity)

	m, err := NewHashMap[uint64, string](13)
	require.NoError(t, err)
	require.Equal(t, int64(0), m.Len())
	require.Equal(t, int64(13), m.Cap())

	_, found := m.Find(1)
	require.False(t, found)
	require.ErrorIs(t, m.Erase(1), ErrHashMapKeyNotFound)
	require.NoError(t, ChainViolationValidate(m))

	_, ok := m.Key()
	require.False(t, ok)
	_, ok = m.Item()
	require.False(t, ok)
}

func TestHashMap_InsertFindEraseTraversal(t *testing.T) {
	m, err := NewHashMap[uint64, string](7, WithHashMapHasher[uint64, string](identityHash))
	require.NoError(t, err)

	for _, key := range []uint64{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, m.Insert(key, fmt.Sprintf("v%d", key)))
		require.NoError(t, ChainViolationValidate(m))
	}
	require.Equal(t, int64(7), m.Len())

	item, found := m.Find(4)
	require.True(t, found)
	require.Equal(t, "v4", item)
	_, found = m.Find(6)
	require.False(t, found)

	// Identity hashing mod 7 pins the slot walk: 7 sits in slot 0, the
	// slot 1 chain lists 1 before 8 because insertion prepends.
	forward := make([]uint64, 0, 7)
	m.Foreach(func(key uint64, item string) bool {
		require.Equal(t, fmt.Sprintf("v%d", key), item)
		forward = append(forward, key)
		return true
	})
	require.Equal(t, []uint64{7, 1, 8, 9, 3, 4, 5}, forward)

	m.Reset()
	walked := make([]uint64, 0, 7)
	for {
		key, ok := m.Key()
		if !ok {
			break
		}
		item, ok := m.Item()
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("v%d", key), item)
		walked = append(walked, key)
		if !m.Next() {
			break
		}
	}
	require.Equal(t, forward, walked)

	require.NoError(t, m.Erase(8))
	require.Equal(t, int64(6), m.Len())
	require.NoError(t, ChainViolationValidate(m))
	_, found = m.Find(8)
	require.False(t, found)
	require.NoError(t, m.Erase(1))
	require.NoError(t, ChainViolationValidate(m))

	forward = forward[:0]
	m.Foreach(func(key uint64, item string) bool {
		forward = append(forward, key)
		return true
	})
	require.Equal(t, []uint64{7, 9, 3, 4, 5}, forward)

	require.ErrorIs(t, m.Erase(8), ErrHashMapKeyNotFound)
	require.Equal(t, int64(5), m.Len())
}

func TestHashMap_InsertDuplicateFails(t *testing.T) {
	plain, err := NewHashMap[uint64, string](13)
	require.NoError(t, err)
	require.NoError(t, plain.Insert(7, "a"))
	require.ErrorIs(t, plain.Insert(7, "b"), ErrHashMapDuplicateKey)
	require.Equal(t, int64(1), plain.Len())

	m, err := NewHashMap[taggedKey, string](
		13,
		WithHashMapHasher[taggedKey, string](taggedKeyHash),
		WithHashMapComparator[taggedKey, string](taggedKeyCompare),
	)
	require.NoError(t, err)

	require.NoError(t, m.Insert(taggedKey{key: 7, tag: "first"}, "payload"))
	require.ErrorIs(t, m.Insert(taggedKey{key: 7, tag: "second"}, "other"), ErrHashMapDuplicateKey)
	require.Equal(t, int64(1), m.Len())

	item, found := m.Find(taggedKey{key: 7})
	require.True(t, found)
	require.Equal(t, "payload", item)

	m.Reset()
	key, ok := m.Key()
	require.True(t, ok)
	require.Equal(t, "first", key.tag, "the stored key must stay untouched")
}

func TestHashMap_CloneFailure(t *testing.T) {
	poisoned := fmt.Errorf("poisoned pair")
	keyDup := func(key taggedKey) (taggedKey, error) {
		if key.tag == "poison" {
			return taggedKey{}, poisoned
		}
		return key, nil
	}
	itemDup := func(item string) (string, error) {
		if item == "poison" {
			return "", poisoned
		}
		return item, nil
	}
	releasedKeys := make([]taggedKey, 0, 4)

	m, err := NewHashMap[taggedKey, string](
		13,
		WithHashMapHasher[taggedKey, string](taggedKeyHash),
		WithHashMapComparator[taggedKey, string](taggedKeyCompare),
		WithHashMapKeyDuplicator[taggedKey, string](keyDup),
		WithHashMapItemDuplicator[taggedKey, string](itemDup),
		WithHashMapKeyReleaser[taggedKey, string](func(key taggedKey) { releasedKeys = append(releasedKeys, key) }),
	)
	require.NoError(t, err)

	for i := uint64(0); i < 10; i++ {
		require.NoError(t, m.Insert(taggedKey{key: i}, "item"))
	}

	err = m.Insert(taggedKey{key: 100, tag: "poison"}, "item")
	require.ErrorIs(t, err, poisoned)
	require.Equal(t, int64(10), m.Len(), "a failed clone must leave the map unchanged")
	require.Empty(t, releasedKeys)

	err = m.Insert(taggedKey{key: 101, tag: "fine"}, "poison")
	require.ErrorIs(t, err, poisoned)
	require.Equal(t, int64(10), m.Len())
	require.Equal(t, []taggedKey{{key: 101, tag: "fine"}}, releasedKeys,
		"the orphaned key clone goes to the key releaser")
	_, found := m.Find(taggedKey{key: 101})
	require.False(t, found)
	require.NoError(t, ChainViolationValidate(m))
}

func TestHashMap_ReleaseCallbacks(t *testing.T) {
	releasedKeys := make(map[uint64]int, 64)
	releasedItems := make(map[string]int, 64)
	m, err := NewHashMap[uint64, string](
		17,
		WithHashMapKeyReleaser[uint64, string](func(key uint64) { releasedKeys[key]++ }),
		WithHashMapItemReleaser[uint64, string](func(item string) { releasedItems[item]++ }),
	)
	require.NoError(t, err)

	total := uint64(64)
	for i := uint64(0); i < total; i++ {
		require.NoError(t, m.Insert(i, fmt.Sprintf("v%d", i)))
	}
	require.Empty(t, releasedKeys)
	require.Empty(t, releasedItems)

	for i := uint64(0); i < total; i += 2 {
		require.NoError(t, m.Erase(i))
	}
	require.Len(t, releasedKeys, int(total/2))
	require.Len(t, releasedItems, int(total/2))

	m.Release()
	require.Equal(t, int64(0), m.Len())
	require.Equal(t, int64(17), m.Cap())
	require.Len(t, releasedKeys, int(total))
	for i := uint64(0); i < total; i++ {
		require.Equal(t, 1, releasedKeys[i], "key %d must be released exactly once", i)
		require.Equal(t, 1, releasedItems[fmt.Sprintf("v%d", i)], "item of key %d must be released exactly once", i)
	}

	require.NoError(t, m.Insert(7, "again"))
	require.Equal(t, int64(1), m.Len())
	require.NoError(t, ChainViolationValidate(m))
}

func TestHashMap_MarkerLifecycle(t *testing.T) {
	m, err := NewHashMap[uint64, uint64](7, WithHashMapHasher[uint64, uint64](identityHash))
	require.NoError(t, err)

	_, ok := m.Key()
	require.False(t, ok, "a never parked marker yields nothing")
	require.False(t, m.Next())

	m.Reset()
	_, ok = m.Item()
	require.False(t, ok, "resetting over an empty map leaves the marker exhausted")

	for _, key := range []uint64{2, 1, 3} {
		require.NoError(t, m.Insert(key, key*10))
	}

	m.Reset()
	walked := make([]uint64, 0, 3)
	for {
		key, ok := m.Key()
		if !ok {
			break
		}
		item, ok := m.Item()
		require.True(t, ok)
		require.Equal(t, key*10, item)
		walked = append(walked, key)
		if !m.Next() {
			break
		}
	}
	require.Equal(t, []uint64{1, 2, 3}, walked)

	require.False(t, m.Next(), "an exhausted marker stays exhausted")
	_, ok = m.Item()
	require.False(t, ok)

	// Insertion leaves the marker alone, even when the new pair lands
	// ahead of it in the slot walk.
	m.Reset()
	require.NoError(t, m.Insert(9, 90))
	key, ok := m.Key()
	require.True(t, ok)
	require.Equal(t, uint64(1), key)

	// Erasure parks the marker back at the first stored pair.
	require.True(t, m.Next())
	require.NoError(t, m.Erase(3))
	key, ok = m.Key()
	require.True(t, ok)
	require.Equal(t, uint64(1), key)

	// So does resizing.
	require.True(t, m.Next())
	require.NoError(t, m.Resize(5))
	key, ok = m.Key()
	require.True(t, ok)
	require.Equal(t, uint64(1), key)
}

func TestHashMap_Resize(t *testing.T) {
	m, err := NewHashMap[uint64, uint64](11, WithHashMapHasher[uint64, uint64](identityHash))
	require.NoError(t, err)

	total := uint64(100)
	for i := uint64(0); i < total; i++ {
		require.NoError(t, m.Insert(i, i))
	}
	require.NoError(t, ChainViolationValidate(m))
	require.Equal(t, int64(11), m.Cap())

	require.NoError(t, m.Resize(37))
	require.Equal(t, int64(total), m.Len())
	require.Equal(t, int64(37), m.Cap())
	require.NoError(t, ChainViolationValidate(m))
	for i := uint64(0); i < total; i++ {
		item, found := m.Find(i)
		require.True(t, found)
		require.Equal(t, i, item)
	}

	require.NoError(t, m.Resize(1))
	require.NoError(t, ChainViolationValidate(m))
	st := m.Stat()
	require.Equal(t, float64(total), st.Load)
	require.Equal(t, float64(total), st.AvgChain)
	require.Equal(t, int64(total), st.LongestChain)
	require.Equal(t, int64(total), st.ShortestChain)

	require.ErrorIs(t, m.Resize(0), ErrHashMapInvalidCapacity)
	require.Equal(t, int64(1), m.Cap(), "a rejected resize must leave the table alone")
	require.Equal(t, int64(total), m.Len())

	require.NoError(t, m.Resize(64))
	require.NoError(t, ChainViolationValidate(m))
	for i := uint64(0); i < total; i++ {
		_, found := m.Find(i)
		require.True(t, found)
	}
}

func TestHashMap_Stat(t *testing.T) {
	m, err := NewHashMap[uint64, uint64](5, WithHashMapHasher[uint64, uint64](identityHash))
	require.NoError(t, err)

	st := m.Stat()
	require.Equal(t, 0.0, st.Load)
	require.Equal(t, 0.0, st.AvgChain)
	require.Equal(t, int64(0), st.LongestChain)
	require.Equal(t, int64(0), st.ShortestChain)

	// Slot 0 chains three pairs, slot 1 one, the rest stay empty.
	for _, key := range []uint64{0, 5, 10, 1} {
		require.NoError(t, m.Insert(key, key))
	}
	st = m.Stat()
	require.Equal(t, 0.8, st.Load)
	require.Equal(t, 2.0, st.AvgChain)
	require.Equal(t, int64(3), st.LongestChain)
	require.Equal(t, int64(0), st.ShortestChain)

	// Fill every slot so the shortest chain rises above zero.
	for _, key := range []uint64{6, 2, 7, 3, 8, 4, 9} {
		require.NoError(t, m.Insert(key, key))
	}
	st = m.Stat()
	require.Equal(t, 2.2, st.Load)
	require.Equal(t, 2.2, st.AvgChain)
	require.Equal(t, int64(3), st.LongestChain)
	require.Equal(t, int64(2), st.ShortestChain)
}

func TestHashMap_RuntimeHasherKeys(t *testing.T) {
	m, err := NewHashMap[string, int](31)
	require.NoError(t, err)

	total := 500
	for i := 0; i < total; i++ {
		require.NoError(t, m.Insert(strconv.Itoa(i), i))
	}
	require.Equal(t, int64(total), m.Len())
	require.NoError(t, ChainViolationValidate(m))

	for i := 0; i < total; i++ {
		item, found := m.Find(strconv.Itoa(i))
		require.True(t, found)
		require.Equal(t, i, item)
	}

	for i := 0; i < total; i += 2 {
		require.NoError(t, m.Erase(strconv.Itoa(i)))
	}
	require.Equal(t, int64(total/2), m.Len())
	require.NoError(t, ChainViolationValidate(m))
	for i := 0; i < total; i++ {
		_, found := m.Find(strconv.Itoa(i))
		require.Equal(t, i%2 == 1, found)
	}
}

func TestHashMap_FNV1aHasherKeys(t *testing.T) {
	m, err := NewHashMap[string, int](31, WithHashMapHasher[string, int](FNV1aString))
	require.NoError(t, err)

	total := 500
	for i := 0; i < total; i++ {
		require.NoError(t, m.Insert(strconv.Itoa(i), i))
	}
	require.NoError(t, ChainViolationValidate(m))

	for i := 0; i < total; i++ {
		item, found := m.Find(strconv.Itoa(i))
		require.True(t, found)
		require.Equal(t, i, item)
	}

	require.NoError(t, m.Resize(127))
	require.NoError(t, ChainViolationValidate(m))
	for i := 0; i < total; i++ {
		_, found := m.Find(strconv.Itoa(i))
		require.True(t, found)
	}
}

func TestHashMap_MembershipFlipAgainstModel(t *testing.T) {
	m, err := NewHashMap[uint64, uint64](97)
	require.NoError(t, err)

	members := uint64(512)
	model := make(map[uint64]bool, members)
	rng := randv2.New(randv2.NewPCG(20240923, 20240923))

	for i := uint64(0); i < 2*members; i++ {
		j := rng.Uint64N(members)

		_, found := m.Find(j)
		require.Equal(t, model[j], found, "step %d key %d", i, j)

		if found {
			require.NoError(t, m.Erase(j))
			model[j] = false
		} else {
			require.NoError(t, m.Insert(j, j))
			model[j] = true
		}

		if i%64 == 0 {
			require.NoError(t, ChainViolationValidate(m))
		}
	}

	expected := int64(0)
	for _, in := range model {
		if in {
			expected++
		}
	}
	require.Equal(t, expected, m.Len())
	require.NoError(t, ChainViolationValidate(m))

	seen := int64(0)
	m.Foreach(func(key, item uint64) bool {
		require.True(t, model[key], "stray key %d", key)
		require.Equal(t, key, item)
		seen++
		return true
	})
	require.Equal(t, expected, seen)
}

func BenchmarkHashMap_Random(b *testing.B) {
	b.StopTimer()
	m, err := NewHashMap[uint64, uint64](4096)
	if err != nil {
		b.Fatal(err)
	}

	rngArr := make([]uint64, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Uint64())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Insert(rngArr[i], rngArr[i])
	}
}

func BenchmarkHashMap_Serial(b *testing.B) {
	b.StopTimer()
	m, err := NewHashMap[uint64, uint64](4096)
	if err != nil {
		b.Fatal(err)
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Insert(uint64(i), uint64(i))
	}
}
