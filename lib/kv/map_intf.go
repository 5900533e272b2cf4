// Package kv provides keyed in-memory containers addressed by hash
// rather than by order.
package kv

import "errors"

var (
	ErrHashMapInvalidCapacity = errors.New("[hash-map] capacity out of range")
	ErrHashMapDuplicateKey    = errors.New("[hash-map] duplicate key")
	ErrHashMapKeyNotFound     = errors.New("[hash-map] key not found")
)

// HashFunc folds a key into the slot selector space. Two keys that
// compare equal must hash alike.
type HashFunc[K any] func(key K) uint64

// Storer is the mutation contract of the keyed containers in this
// package. One lookup key maps to one stored item.
type Storer[K comparable, V any] interface {
	Len() int64
	Cap() int64
	Insert(key K, item V) error
	Find(key K) (V, bool)
	Erase(key K) error
	Resize(capacity int64) error
	Release()
}
