// Package tree provides ordered in-memory containers with pluggable
// balancing strategies: an Andersson tree (AA tree), a bounded-stack AVL
// tree and a red-black tree. All of them share one external contract and
// never look inside the items they store; ordering, cloning and disposal
// are injected through the lib/infra item callbacks.
package tree

import (
	"errors"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

// Tallest allowable tree. The descent stacks and the cursor stacks are
// sized by it, which bounds the containers to roughly 2^64 items before
// any path could outgrow a stack.
const heightLimit = 64

var (
	ErrTreeNilComparator = errors.New("[tree] nil comparator")
	ErrTreeItemNotFound  = errors.New("[tree] item not found")
)

// Tree is the contract shared by the three balanced search trees. The
// balancing state they keep per node (AA level, AVL balance factor,
// red-black color bit) is an internal representation and never leaks
// through this surface.
//
// None of the implementations is safe for concurrent use.
type Tree[E any] interface {
	Len() int64
	Find(item E) (E, bool)
	Insert(item E) error
	Erase(item E) error
	Foreach(action func(idx int64, item E) bool)
	Release()
}

// OrderViolationValidate checks that Foreach yields strictly ascending
// items under cmp and that it visits exactly Len of them. A nil error
// means the search order invariant holds for the whole tree. It works
// on any of the three trees; the structural validators next to each
// implementation cover the balancing rules.
func OrderViolationValidate[E any](t Tree[E], cmp infra.Comparator[E]) error {
	var (
		prev     E
		seen     int64
		violated bool
	)
	t.Foreach(func(idx int64, item E) bool {
		if idx > 0 && cmp(prev, item) >= 0 {
			violated = true
			return false
		}
		prev = item
		seen++
		return true
	})
	if violated {
		return errors.New("tree order violation")
	}
	if seen != t.Len() {
		return errors.New("tree size violation")
	}
	return nil
}

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)
