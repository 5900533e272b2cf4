package infra

// The ordered containers under lib/tree and lib/list (and the chained map
// under lib/kv) never look inside the items they hold. All item knowledge
// is injected through the three callbacks below, so a single container
// implementation serves any payload type.

// Comparator reports the order of item i relative to item j.
//  1. i == j (return 0)
//  2. i > j (return 1, or any positive value)
//  3. i < j (return -1, or any negative value)
// Containers pass the stored item as i and the incoming one as j.
type Comparator[E any] func(i, j E) int64

// Duplicator clones an incoming item before the container takes ownership
// of it. Returning an error aborts the operation that needed the clone and
// leaves the container untouched.
type Duplicator[E any] func(item E) (E, error)

// Releaser gives an item back to its owner when the container drops it.
type Releaser[E any] func(item E)

// IdentityDuplicator stores the caller's item as-is. The default when no
// deep copy is wanted.
func IdentityDuplicator[E any](item E) (E, error) {
	return item, nil
}

// NoopReleaser discards dropped items and lets the GC reclaim them.
func NoopReleaser[E any](item E) {}

// ReverseComparator flips the order reported by cmp.
func ReverseComparator[E any](cmp Comparator[E]) Comparator[E] {
	return func(i, j E) int64 {
		return cmp(j, i)
	}
}

// EqualityComparator orders nothing: it reports 0 for equal items and
// 1 otherwise. Enough for containers that only probe equality, such as
// the chained map under lib/kv.
func EqualityComparator[E comparable](i, j E) int64 {
	if i == j {
		return 0
	}
	return 1
}
