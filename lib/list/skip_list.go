// Package list provides ordered list based containers.
package list

import (
	"errors"
	"fmt"
	randv2 "math/rand/v2"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
	xrand "github.com/mignon-p/jsw-libs-sub002/lib/rand"
)

// References:
// https://web.archive.org/web/20180721000133/http://www.eternallyconfuzzled.com/tuts/datastructures/jsw_tut_skip.aspx
// https://www.cl.cam.ac.uk/teaching/0506/Algorithms/skiplists.pdf
// Skip list properties:
// p1. Every node carries a column of forward links; a column of height h
//   takes part in the chains of levels 0..h-1.
// p2. The level 0 chain holds every item in ascending order; each higher
//   chain is a subsequence of the one below it.
// p3. Column heights are drawn geometrically with p = 1/2, so the
//   expected search path is O(log n) without any rebalancing.
// p4. The list height grows by at most one level per insertion and drops
//   as the top chains empty out.

const (
	skipListMinHeight = 2
	skipListMaxHeight = 64
)

var (
	ErrSkipListNilComparator = errors.New("[skip-list] nil comparator")
	ErrSkipListInvalidHeight = errors.New("[skip-list] max height out of range")
	ErrSkipListDuplicateItem = errors.New("[skip-list] duplicate item")
	ErrSkipListItemNotFound  = errors.New("[skip-list] item not found")
)

type skipNode[E any] struct {
	next []*skipNode[E] // Forward links, one per level
	item E
}

// SkipList is an ordered container over probabilistically balanced
// linked chains. It shares the payload contract of the lib/tree family:
// items are opaque, order comes from the comparator, ownership from the
// duplicator and releaser callbacks.
//
// Unlike the trees, inserting an item that compares equal to a stored
// one is an error, and the list carries one embedded forward-only
// traversal marker driven by Reset, Item and Next.
//
// Not safe for concurrent use.
type SkipList[E any] struct {
	head      *skipNode[E]   // Full height head column, holds no item
	fix       []*skipNode[E] // Update array reused by every locate
	curl      *skipNode[E]   // Traversal marker
	src       randv2.Source
	cmp       infra.Comparator[E]
	dup       infra.Duplicator[E]
	rel       infra.Releaser[E]
	size      int64
	maxHeight int
	curHeight int    // Tallest column currently in use
	bits      uint32 // Cached coin flips for height draws
	reset     int    // Remaining flips left in bits
}

type SkipListOpt[E any] func(*SkipList[E])

// WithSkipListDuplicator clones every incoming item before the list
// takes ownership of it.
func WithSkipListDuplicator[E any](dup infra.Duplicator[E]) SkipListOpt[E] {
	return func(sl *SkipList[E]) {
		if dup != nil {
			sl.dup = dup
		}
	}
}

// WithSkipListReleaser hands every dropped item back to the caller.
func WithSkipListReleaser[E any](rel infra.Releaser[E]) SkipListOpt[E] {
	return func(sl *SkipList[E]) {
		if rel != nil {
			sl.rel = rel
		}
	}
}

// WithSkipListSource injects the random source behind the column height
// draws, which makes the list shape reproducible.
func WithSkipListSource[E any](src randv2.Source) SkipListOpt[E] {
	return func(sl *SkipList[E]) {
		if src != nil {
			sl.src = src
		}
	}
}

// NewSkipList builds an empty list whose columns never exceed maxHeight
// links, maxHeight in [2, 64]. The default random source is a Mersenne
// Twister seeded from the clock.
func NewSkipList[E any](maxHeight int, cmp infra.Comparator[E], opts ...SkipListOpt[E]) (*SkipList[E], error) {
	if cmp == nil {
		return nil, ErrSkipListNilComparator
	}
	if maxHeight < skipListMinHeight || maxHeight > skipListMaxHeight {
		return nil, ErrSkipListInvalidHeight
	}

	sl := &SkipList[E]{
		head:      &skipNode[E]{next: make([]*skipNode[E], maxHeight)},
		fix:       make([]*skipNode[E], maxHeight),
		cmp:       cmp,
		dup:       infra.IdentityDuplicator[E],
		rel:       infra.NoopReleaser[E],
		maxHeight: maxHeight,
		curHeight: 1,
	}
	for _, o := range opts {
		o(sl)
	}
	if sl.src == nil {
		sl.src = xrand.NewTimeSeeded()
	}
	return sl, nil
}

// One coin flip per extra level with p = 1/2. The flips are drawn 31 at
// a time from one source word, so most height draws cost no source step
// at all.
func (sl *SkipList[E]) randomHeight() int {
	h := 1
	for h < sl.maxHeight {
		if sl.reset == 0 {
			sl.bits = uint32(sl.src.Uint64())
			sl.reset = 31
		}
		bit := sl.bits & 0x1
		sl.bits >>= 1
		sl.reset--
		if bit == 0x1 {
			break
		}
		h++
	}
	return h
}

// locate descends from the top chain to level 0, stopping in each chain
// at the last column whose item is smaller than the query, and records
// that column in the update array. The candidate match, if any, is
// fix[0].next[0].
func (sl *SkipList[E]) locate(item E) *skipNode[E] {
	p := sl.head
	for i := sl.curHeight - 1; i >= 0; i-- {
		for p.next[i] != nil && sl.cmp(p.next[i].item, item) < 0 {
			p = p.next[i]
		}
		sl.fix[i] = p
	}
	return p
}

func (sl *SkipList[E]) Len() int64 {
	return sl.size
}

// Height reports the tallest column currently in use.
func (sl *SkipList[E]) Height() int {
	return sl.curHeight
}

// Find returns the stored item that compares equal to the query and
// whether such an item exists.
func (sl *SkipList[E]) Find(item E) (E, bool) {
	if cand := sl.locate(item).next[0]; cand != nil && sl.cmp(cand.item, item) == 0 {
		return cand.item, true
	}
	return *new(E), false
}

// Insert clones the item into a fresh column of random height and links
// it into the chains recorded by locate. An item that compares equal to
// a stored one yields ErrSkipListDuplicateItem; a failed clone leaves
// the list unchanged.
func (sl *SkipList[E]) Insert(item E) error {
	if cand := sl.locate(item).next[0]; cand != nil && sl.cmp(cand.item, item) == 0 {
		return ErrSkipListDuplicateItem
	}

	clone, err := sl.dup(item)
	if err != nil {
		return fmt.Errorf("[skip-list] clone item: %w", err)
	}

	h := sl.randomHeight()
	if h > sl.curHeight {
		// Grow by one level at most; the new top chain starts at the
		// head, which locate has not recorded yet.
		h = sl.curHeight + 1
		sl.curHeight = h
		sl.fix[h-1] = sl.head
	}

	node := &skipNode[E]{
		next: make([]*skipNode[E], h),
		item: clone,
	}
	for i := 0; i < h; i++ {
		node.next[i] = sl.fix[i].next[i]
		sl.fix[i].next[i] = node
	}

	sl.size++
	return nil
}

// Erase unlinks the column whose item compares equal to the query and
// releases its payload. Missing items yield ErrSkipListItemNotFound and
// leave the list unchanged. Erasure parks the traversal marker back at
// the smallest item.
func (sl *SkipList[E]) Erase(item E) error {
	cand := sl.locate(item).next[0]
	if cand == nil || sl.cmp(cand.item, item) != 0 {
		return ErrSkipListItemNotFound
	}

	// Unlink the column. Chains above its height point past it already.
	for i := 0; i < sl.curHeight; i++ {
		if sl.fix[i].next[i] != cand {
			break
		}
		sl.fix[i].next[i] = cand.next[i]
	}

	sl.rel(cand.item)
	cand.next = nil

	// Lower the list while the top chains are empty.
	for sl.curHeight > 1 && sl.head.next[sl.curHeight-1] == nil {
		sl.curHeight--
	}

	sl.Reset()
	sl.size--
	return nil
}

// Foreach visits the items in ascending order until the action returns
// false. The embedded marker is left untouched.
func (sl *SkipList[E]) Foreach(action func(idx int64, item E) bool) {
	idx := int64(0)
	for it := sl.head.next[0]; it != nil; it = it.next[0] {
		if !action(idx, it.item) {
			return
		}
		idx++
	}
}

// Reset parks the embedded traversal marker at the smallest item.
func (sl *SkipList[E]) Reset() {
	sl.curl = sl.head.next[0]
}

// Item returns the marked item, false when the marker is exhausted or
// was never parked.
func (sl *SkipList[E]) Item() (E, bool) {
	if sl.curl == nil {
		return *new(E), false
	}
	return sl.curl.item, true
}

// Next advances the marker one item forward along the level 0 chain and
// reports whether an item is available there. An exhausted marker stays
// exhausted until the next Reset.
func (sl *SkipList[E]) Next() bool {
	if sl.curl == nil {
		return false
	}
	sl.curl = sl.curl.next[0]
	return sl.curl != nil
}

// Release drops every column and hands each payload to the releaser.
// The list stays usable and empty afterwards.
func (sl *SkipList[E]) Release() {
	it := sl.head.next[0]
	for it != nil {
		save := it.next[0]
		sl.rel(it.item)
		it.next = nil
		it = save
	}
	for i := range sl.head.next {
		sl.head.next[i] = nil
	}
	for i := range sl.fix {
		sl.fix[i] = nil
	}
	sl.curl = nil
	sl.curHeight = 1
	sl.size = 0
}
