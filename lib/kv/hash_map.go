package kv

import (
	"fmt"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

// References:
// https://web.archive.org/web/20180808155210/http://www.eternallyconfuzzled.com/tuts/datastructures/jsw_tut_hashtable.aspx
// https://en.wikipedia.org/wiki/Hash_table#Separate_chaining
// Chained hash table properties:
// p1. Each slot anchors a singly linked chain; a pair lives in the
//   chain its key hashes to, so equal keys always meet in one chain.
// p2. Chains carry their own length, which makes occupancy statistics
//   one cheap pass over the slots.
// p3. Insertion prepends, so a chain lists newest pairs first and a
//   miss costs a full chain scan.
// p4. Resizing moves the stored nodes into a fresh slot array; payload
//   ownership never changes hands.

type hashNode[K comparable, V any] struct {
	next *hashNode[K, V]
	key  K
	item V
}

type hashChain[K comparable, V any] struct {
	first *hashNode[K, V]
	size  int64
}

// HashMap is an unordered keyed container over separately chained
// slots. It shares the payload contract of the lib/tree family: keys
// and items are opaque, key equality comes from the comparator,
// ownership from the duplicator and releaser callbacks. Slot selection
// comes from the hash callback, which defaults to the runtime map hash
// for the key type.
//
// Inserting a key that compares equal to a stored one is an error, and
// the map carries one embedded forward-only traversal marker driven by
// Reset, Key, Item and Next.
//
// Not safe for concurrent use.
type HashMap[K comparable, V any] struct {
	table   []hashChain[K, V]
	curl    *hashNode[K, V] // Traversal marker
	curi    int64           // Slot the marker is parked in
	hash    HashFunc[K]
	cmp     infra.Comparator[K]
	keyDup  infra.Duplicator[K]
	itemDup infra.Duplicator[V]
	keyRel  infra.Releaser[K]
	itemRel infra.Releaser[V]
	size    int64
}

var _ Storer[int, int] = (*HashMap[int, int])(nil)

type HashMapOpt[K comparable, V any] func(*HashMap[K, V])

// WithHashMapHasher replaces the runtime map hash behind slot
// selection. Keys that compare equal must still hash alike.
func WithHashMapHasher[K comparable, V any](hash HashFunc[K]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if hash != nil {
			m.hash = hash
		}
	}
}

// WithHashMapComparator replaces plain key equality with a three way
// comparator. Only its zero result matters here.
func WithHashMapComparator[K comparable, V any](cmp infra.Comparator[K]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if cmp != nil {
			m.cmp = cmp
		}
	}
}

// WithHashMapKeyDuplicator clones every incoming key before the map
// takes ownership of it.
func WithHashMapKeyDuplicator[K comparable, V any](dup infra.Duplicator[K]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if dup != nil {
			m.keyDup = dup
		}
	}
}

// WithHashMapItemDuplicator clones every incoming item before the map
// takes ownership of it.
func WithHashMapItemDuplicator[K comparable, V any](dup infra.Duplicator[V]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if dup != nil {
			m.itemDup = dup
		}
	}
}

// WithHashMapKeyReleaser hands every dropped key back to the caller.
func WithHashMapKeyReleaser[K comparable, V any](rel infra.Releaser[K]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if rel != nil {
			m.keyRel = rel
		}
	}
}

// WithHashMapItemReleaser hands every dropped item back to the caller.
func WithHashMapItemReleaser[K comparable, V any](rel infra.Releaser[V]) HashMapOpt[K, V] {
	return func(m *HashMap[K, V]) {
		if rel != nil {
			m.itemRel = rel
		}
	}
}

// NewHashMap builds an empty map with the given number of slots,
// capacity at least 1. The slot count only changes through Resize.
// Defaults: runtime map hashing, plain key equality, identity
// duplication and no-op release for both halves of a pair.
func NewHashMap[K comparable, V any](capacity int64, opts ...HashMapOpt[K, V]) (*HashMap[K, V], error) {
	if capacity < 1 {
		return nil, ErrHashMapInvalidCapacity
	}

	m := &HashMap[K, V]{
		table:   make([]hashChain[K, V], capacity),
		cmp:     infra.EqualityComparator[K],
		keyDup:  infra.IdentityDuplicator[K],
		itemDup: infra.IdentityDuplicator[V],
		keyRel:  infra.NoopReleaser[K],
		itemRel: infra.NoopReleaser[V],
	}
	for _, o := range opts {
		o(m)
	}
	if m.hash == nil {
		m.hash = RuntimeHasher[K]()
	}
	return m, nil
}

func (m *HashMap[K, V]) bucketOf(key K) *hashChain[K, V] {
	return &m.table[m.hash(key)%uint64(len(m.table))]
}

func (m *HashMap[K, V]) lookup(key K) *hashNode[K, V] {
	for it := m.bucketOf(key).first; it != nil; it = it.next {
		if m.cmp(it.key, key) == 0 {
			return it
		}
	}
	return nil
}

func (m *HashMap[K, V]) Len() int64 {
	return m.size
}

// Cap reports the number of slots in the table.
func (m *HashMap[K, V]) Cap() int64 {
	return int64(len(m.table))
}

// Find returns the item stored under the key that compares equal to
// the query and whether such a pair exists.
func (m *HashMap[K, V]) Find(key K) (V, bool) {
	if it := m.lookup(key); it != nil {
		return it.item, true
	}
	return *new(V), false
}

// Insert clones both halves of the pair and prepends it to the chain
// its key hashes to. A key that compares equal to a stored one yields
// ErrHashMapDuplicateKey; a failed clone leaves the map unchanged. A
// key clone orphaned by a failed item clone goes to the key releaser.
func (m *HashMap[K, V]) Insert(key K, item V) error {
	if m.lookup(key) != nil {
		return ErrHashMapDuplicateKey
	}

	keyClone, err := m.keyDup(key)
	if err != nil {
		return fmt.Errorf("[hash-map] clone key: %w", err)
	}
	itemClone, err := m.itemDup(item)
	if err != nil {
		m.keyRel(keyClone)
		return fmt.Errorf("[hash-map] clone item: %w", err)
	}

	bucket := m.bucketOf(key)
	bucket.first = &hashNode[K, V]{next: bucket.first, key: keyClone, item: itemClone}
	bucket.size++
	m.size++
	return nil
}

// Erase unlinks the pair whose key compares equal to the query and
// releases both halves. Missing keys yield ErrHashMapKeyNotFound and
// leave the map unchanged. Erasure parks the traversal marker back at
// the first stored pair.
func (m *HashMap[K, V]) Erase(key K) error {
	bucket := m.bucketOf(key)

	var prev *hashNode[K, V]
	it := bucket.first
	for it != nil && m.cmp(it.key, key) != 0 {
		prev = it
		it = it.next
	}
	if it == nil {
		return ErrHashMapKeyNotFound
	}

	if prev == nil {
		bucket.first = it.next
	} else {
		prev.next = it.next
	}
	it.next = nil
	m.keyRel(it.key)
	m.itemRel(it.item)

	bucket.size--
	m.size--
	m.Reset()
	return nil
}

// Resize rehashes every stored pair into a fresh slot array of the
// given capacity. The nodes move as they are, so no payload is cloned
// or released. The traversal marker is parked back at the first stored
// pair.
func (m *HashMap[K, V]) Resize(capacity int64) error {
	if capacity < 1 {
		return ErrHashMapInvalidCapacity
	}

	fresh := make([]hashChain[K, V], capacity)
	for i := range m.table {
		it := m.table[i].first
		for it != nil {
			save := it.next
			slot := &fresh[m.hash(it.key)%uint64(capacity)]
			it.next = slot.first
			slot.first = it
			slot.size++
			it = save
		}
	}
	m.table = fresh
	m.Reset()
	return nil
}

// Foreach visits the pairs in slot order until the action returns
// false. The embedded marker is left untouched.
func (m *HashMap[K, V]) Foreach(action func(key K, item V) bool) {
	for i := range m.table {
		for it := m.table[i].first; it != nil; it = it.next {
			if !action(it.key, it.item) {
				return
			}
		}
	}
}

// Reset parks the embedded traversal marker at the first stored pair
// in slot order.
func (m *HashMap[K, V]) Reset() {
	m.curi = int64(len(m.table))
	m.curl = nil
	for i := range m.table {
		if m.table[i].first != nil {
			m.curi = int64(i)
			m.curl = m.table[i].first
			break
		}
	}
}

// Next advances the marker one pair forward, moving on to the next
// occupied slot when the current chain runs out. An exhausted marker
// stays exhausted until the next Reset.
func (m *HashMap[K, V]) Next() bool {
	if m.curl == nil {
		return false
	}
	m.curl = m.curl.next
	if m.curl != nil {
		return true
	}
	for i := m.curi + 1; i < int64(len(m.table)); i++ {
		if m.table[i].first != nil {
			m.curi = i
			m.curl = m.table[i].first
			return true
		}
	}
	m.curi = int64(len(m.table))
	return false
}

// Key returns the marked key, false when the marker is exhausted or
// was never parked.
func (m *HashMap[K, V]) Key() (K, bool) {
	if m.curl == nil {
		return *new(K), false
	}
	return m.curl.key, true
}

// Item returns the marked item, false when the marker is exhausted or
// was never parked.
func (m *HashMap[K, V]) Item() (V, bool) {
	if m.curl == nil {
		return *new(V), false
	}
	return m.curl.item, true
}

// HashMapStat is an occupancy snapshot taken by Stat.
type HashMapStat struct {
	Load          float64 // Stored pairs per slot
	AvgChain      float64 // Mean chain length over occupied slots
	LongestChain  int64
	ShortestChain int64 // Zero whenever any slot is empty
}

// Stat sizes up the table in one pass over the slots.
func (m *HashMap[K, V]) Stat() HashMapStat {
	st := HashMapStat{
		Load:          float64(m.size) / float64(len(m.table)),
		ShortestChain: m.table[0].size,
	}
	occupied := int64(0)
	for i := range m.table {
		size := m.table[i].size
		if size > 0 {
			occupied++
		}
		if size > st.LongestChain {
			st.LongestChain = size
		}
		if size < st.ShortestChain {
			st.ShortestChain = size
		}
	}
	if occupied > 0 {
		st.AvgChain = float64(m.size) / float64(occupied)
	}
	return st
}

// Release drops every stored pair and hands both halves to the
// releasers. The map keeps its slot count and stays usable afterwards.
func (m *HashMap[K, V]) Release() {
	for i := range m.table {
		it := m.table[i].first
		for it != nil {
			save := it.next
			it.next = nil
			m.keyRel(it.key)
			m.itemRel(it.item)
			it = save
		}
		m.table[i] = hashChain[K, V]{}
	}
	m.curi = 0
	m.curl = nil
	m.size = 0
}
