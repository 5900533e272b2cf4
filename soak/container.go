// Package soak drives every container in this module through the same
// randomized membership workload and checks each step against a
// reference model.
package soak

import (
	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
	"github.com/mignon-p/jsw-libs-sub002/lib/kv"
	"github.com/mignon-p/jsw-libs-sub002/lib/list"
	xrand "github.com/mignon-p/jsw-libs-sub002/lib/rand"
	"github.com/mignon-p/jsw-libs-sub002/lib/tree"
)

// Both map capacities are prime, which keeps modulo slotting well
// spread. The skip list ceiling is generous for the default workload.
const (
	hashMapSoakCapacity  = 1993
	hashMapGrownCapacity = 37619
	skipListSoakHeight   = 12
)

// Container is the uniform face the runner drives. Every adapter wraps
// one container with trivial callbacks: items are plain strings owned
// by nobody.
type Container interface {
	Name() string
	Insert(item string) bool
	Remove(item string) bool
	Lookup(item string) bool
	// Resize regrows containers with a fixed footprint; the rest
	// report success unchanged.
	Resize() bool
	Release()
}

// Containers builds one adapter per container in this module. The seed
// only feeds the skip list column draws; the other containers carry no
// randomness of their own.
func Containers(seed uint32) ([]Container, error) {
	aa, err := NewAATreeContainer()
	if err != nil {
		return nil, err
	}
	avl, err := NewAVLTreeContainer()
	if err != nil {
		return nil, err
	}
	rb, err := NewRBTreeContainer()
	if err != nil {
		return nil, err
	}
	sl, err := NewSkipListContainer(seed)
	if err != nil {
		return nil, err
	}
	hm, err := NewHashMapContainer()
	if err != nil {
		return nil, err
	}
	return []Container{aa, avl, rb, sl, hm}, nil
}

type aaTreeContainer struct {
	tree *tree.AATree[string]
}

// NewAATreeContainer wraps an Andersson tree over string items.
func NewAATreeContainer() (Container, error) {
	t, err := tree.NewAATree(infra.OrderedComparator[string])
	if err != nil {
		return nil, err
	}
	return &aaTreeContainer{tree: t}, nil
}

func (c *aaTreeContainer) Name() string { return "aa-tree" }

func (c *aaTreeContainer) Insert(item string) bool {
	return c.tree.Insert(item) == nil
}

func (c *aaTreeContainer) Remove(item string) bool {
	return c.tree.Erase(item) == nil
}

func (c *aaTreeContainer) Lookup(item string) bool {
	_, found := c.tree.Find(item)
	return found
}

func (c *aaTreeContainer) Resize() bool { return true }

func (c *aaTreeContainer) Release() { c.tree.Release() }

type avlTreeContainer struct {
	tree *tree.AVLTree[string]
}

// NewAVLTreeContainer wraps an AVL tree over string items.
func NewAVLTreeContainer() (Container, error) {
	t, err := tree.NewAVLTree(infra.OrderedComparator[string])
	if err != nil {
		return nil, err
	}
	return &avlTreeContainer{tree: t}, nil
}

func (c *avlTreeContainer) Name() string { return "avl-tree" }

func (c *avlTreeContainer) Insert(item string) bool {
	return c.tree.Insert(item) == nil
}

func (c *avlTreeContainer) Remove(item string) bool {
	return c.tree.Erase(item) == nil
}

func (c *avlTreeContainer) Lookup(item string) bool {
	_, found := c.tree.Find(item)
	return found
}

func (c *avlTreeContainer) Resize() bool { return true }

func (c *avlTreeContainer) Release() { c.tree.Release() }

type rbTreeContainer struct {
	tree *tree.RBTree[string]
}

// NewRBTreeContainer wraps a red-black tree over string items.
func NewRBTreeContainer() (Container, error) {
	t, err := tree.NewRBTree(infra.OrderedComparator[string])
	if err != nil {
		return nil, err
	}
	return &rbTreeContainer{tree: t}, nil
}

func (c *rbTreeContainer) Name() string { return "rb-tree" }

func (c *rbTreeContainer) Insert(item string) bool {
	return c.tree.Insert(item) == nil
}

func (c *rbTreeContainer) Remove(item string) bool {
	return c.tree.Erase(item) == nil
}

func (c *rbTreeContainer) Lookup(item string) bool {
	_, found := c.tree.Find(item)
	return found
}

func (c *rbTreeContainer) Resize() bool { return true }

func (c *rbTreeContainer) Release() { c.tree.Release() }

type skipListContainer struct {
	list *list.SkipList[string]
}

// NewSkipListContainer wraps a skip list whose column draws come from
// a Mersenne Twister over the given seed.
func NewSkipListContainer(seed uint32) (Container, error) {
	sl, err := list.NewSkipList(
		skipListSoakHeight,
		infra.OrderedComparator[string],
		list.WithSkipListSource[string](xrand.NewMT19937(seed)),
	)
	if err != nil {
		return nil, err
	}
	return &skipListContainer{list: sl}, nil
}

func (c *skipListContainer) Name() string { return "skip-list" }

func (c *skipListContainer) Insert(item string) bool {
	return c.list.Insert(item) == nil
}

func (c *skipListContainer) Remove(item string) bool {
	return c.list.Erase(item) == nil
}

func (c *skipListContainer) Lookup(item string) bool {
	_, found := c.list.Find(item)
	return found
}

func (c *skipListContainer) Resize() bool { return true }

func (c *skipListContainer) Release() { c.list.Release() }

type hashMapContainer struct {
	m *kv.HashMap[string, string]
}

// NewHashMapContainer wraps a chained map storing each item under
// itself, hashed with FNV-1a so runs stay reproducible.
func NewHashMapContainer() (Container, error) {
	m, err := kv.NewHashMap[string, string](
		hashMapSoakCapacity,
		kv.WithHashMapHasher[string, string](kv.FNV1aString),
	)
	if err != nil {
		return nil, err
	}
	return &hashMapContainer{m: m}, nil
}

func (c *hashMapContainer) Name() string { return "hash-map" }

func (c *hashMapContainer) Insert(item string) bool {
	return c.m.Insert(item, item) == nil
}

func (c *hashMapContainer) Remove(item string) bool {
	return c.m.Erase(item) == nil
}

func (c *hashMapContainer) Lookup(item string) bool {
	_, found := c.m.Find(item)
	return found
}

// Resize regrows the table between the two primes.
func (c *hashMapContainer) Resize() bool {
	return c.m.Resize(hashMapGrownCapacity) == nil
}

func (c *hashMapContainer) Release() { c.m.Release() }
