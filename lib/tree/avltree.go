package tree

import (
	"fmt"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

// References:
// https://web.archive.org/web/20180721000133/http://www.eternallyconfuzzled.com/tuts/datastructures/jsw_tut_avl.aspx
// https://en.wikipedia.org/wiki/AVL_tree
// AVL properties (balance factor based):
// p1. Every node carries balance = height(right) - height(left).
// p2. The balance factor of every node is -1, 0 or +1.
// Insertion rebalances at most once, at the deepest ancestor whose
// balance factor was nonzero before the insert. Deletion may rebalance
// at every ancestor on the way back up, so the search path is kept on
// an explicit direction stack rather than in parent pointers.

type avlNode[E any] struct {
	link    [2]*avlNode[E] // Left (0) and right (1) links
	item    E
	balance int            // Balance factor, negative leans left
}

// AVLTree is a height balanced binary search tree with the same external
// contract as AATree. The nodes hold no parent pointers; insert uses a
// false root and a single rebalance point, erase replays the recorded
// search path.
//
// Not safe for concurrent use.
type AVLTree[E any] struct {
	root *avlNode[E]
	cmp  infra.Comparator[E]
	dup  infra.Duplicator[E]
	rel  infra.Releaser[E]
	size int64
}

var _ Tree[int] = (*AVLTree[int])(nil)

type AVLTreeOpt[E any] func(*AVLTree[E])

// WithAVLTreeDuplicator clones every incoming item before the tree takes
// ownership of it.
func WithAVLTreeDuplicator[E any](dup infra.Duplicator[E]) AVLTreeOpt[E] {
	return func(tree *AVLTree[E]) {
		if dup != nil {
			tree.dup = dup
		}
	}
}

// WithAVLTreeReleaser hands every dropped item back to the caller.
func WithAVLTreeReleaser[E any](rel infra.Releaser[E]) AVLTreeOpt[E] {
	return func(tree *AVLTree[E]) {
		if rel != nil {
			tree.rel = rel
		}
	}
}

func NewAVLTree[E any](cmp infra.Comparator[E], opts ...AVLTreeOpt[E]) (*AVLTree[E], error) {
	if cmp == nil {
		return nil, ErrTreeNilComparator
	}
	tree := &AVLTree[E]{
		cmp: cmp,
		dup: infra.IdentityDuplicator[E],
		rel: infra.NoopReleaser[E],
	}
	for _, o := range opts {
		o(tree)
	}
	return tree, nil
}

// Two way single rotation.
func avlSingle[E any](root *avlNode[E], dir int) *avlNode[E] {
	save := root.link[1-dir]
	root.link[1-dir] = save.link[dir]
	save.link[dir] = root
	return save
}

// Two way double rotation.
func avlDouble[E any](root *avlNode[E], dir int) *avlNode[E] {
	save := root.link[1-dir].link[dir]
	root.link[1-dir].link[dir] = save.link[1-dir]
	save.link[1-dir] = root.link[1-dir]
	root.link[1-dir] = save

	save = root.link[1-dir]
	root.link[1-dir] = save.link[dir]
	save.link[dir] = root
	return save
}

// Adjust balance factors before a double rotation.
func avlAdjustBalance[E any](root *avlNode[E], dir, bal int) {
	n := root.link[dir]
	nn := n.link[1-dir]
	switch {
	case nn.balance == 0:
		root.balance, n.balance = 0, 0
	case nn.balance == bal:
		root.balance = -bal
		n.balance = 0
	default: // nn.balance == -bal
		root.balance = 0
		n.balance = bal
	}
	nn.balance = 0
}

// Rebalance after insertion.
func avlInsertBalance[E any](root *avlNode[E], dir int) *avlNode[E] {
	n := root.link[dir]
	bal := -1
	if dir != 0 {
		bal = +1
	}

	if n.balance == bal {
		root.balance, n.balance = 0, 0
		root = avlSingle(root, 1-dir)
	} else { // n.balance == -bal
		avlAdjustBalance(root, dir, bal)
		root = avlDouble(root, 1-dir)
	}
	return root
}

// Rebalance after deletion. The boolean reports that the subtree height
// did not shrink, which terminates the walk early.
func avlRemoveBalance[E any](root *avlNode[E], dir int) (*avlNode[E], bool) {
	n := root.link[1-dir]
	bal := -1
	if dir != 0 {
		bal = +1
	}

	switch {
	case n.balance == -bal:
		root.balance, n.balance = 0, 0
		root = avlSingle(root, dir)
	case n.balance == bal:
		avlAdjustBalance(root, 1-dir, -bal)
		root = avlDouble(root, dir)
	default: // n.balance == 0
		root.balance = -bal
		n.balance = bal
		root = avlSingle(root, dir)
		return root, true
	}
	return root, false
}

func (tree *AVLTree[E]) newNode(item E) (*avlNode[E], error) {
	clone, err := tree.dup(item)
	if err != nil {
		return nil, fmt.Errorf("[avl-tree] clone item: %w", err)
	}
	return &avlNode[E]{item: clone}, nil
}

func (tree *AVLTree[E]) Len() int64 {
	return tree.size
}

// Find returns the stored item that compares equal to the query and
// whether such an item exists.
func (tree *AVLTree[E]) Find(item E) (E, bool) {
	it := tree.root
	for it != nil {
		res := tree.cmp(it.item, item)
		if res == 0 {
			return it.item, true
		}
		if res < 0 {
			it = it.link[1]
		} else {
			it = it.link[0]
		}
	}
	return *new(E), false
}

// Insert clones the item into a fresh leaf and updates balance factors
// from the deepest previously unbalanced ancestor down to the leaf. At
// most one single or double rotation restores the height bound.
// Inserting an item that compares equal to a stored one is a no-op
// success; a failed clone leaves the tree unchanged.
func (tree *AVLTree[E]) Insert(item E) error {
	if tree.root == nil {
		// Empty tree case.
		node, err := tree.newNode(item)
		if err != nil {
			return err
		}
		tree.root = node
	} else {
		var head avlNode[E] // Temporary false root to ease maintenance
		var s, p, q *avlNode[E]
		dir := 0

		anchor := &head // Parent of the rebalance point
		head.link[1] = tree.root

		// Search down the tree, saving rebalance points.
		for s, p = head.link[1], head.link[1]; ; p = q {
			res := tree.cmp(p.item, item)
			if res == 0 {
				return nil
			}
			dir = 0
			if res < 0 {
				dir = 1
			}
			q = p.link[dir]
			if q == nil {
				break
			}

			if q.balance != 0 {
				anchor = p
				s = q
			}
		}

		node, err := tree.newNode(item)
		if err != nil {
			return err
		}
		p.link[dir] = node
		q = node

		// Update balance factors between the rebalance point and the
		// new leaf. No equal item can appear on this path.
		for p = s; p != q; {
			dir = 0
			if tree.cmp(p.item, item) < 0 {
				dir = 1
			}
			if dir == 0 {
				p.balance--
			} else {
				p.balance++
			}
			p = p.link[dir]
		}

		q = s // Save rebalance point for parent fix

		// Rebalance if necessary.
		if s.balance > 1 || s.balance < -1 {
			dir = 0
			if tree.cmp(s.item, item) < 0 {
				dir = 1
			}
			s = avlInsertBalance(s, dir)
		}

		// Fix parent.
		if q == head.link[1] {
			tree.root = s
		} else if anchor.link[1] == q {
			anchor.link[1] = s
		} else {
			anchor.link[0] = s
		}
	}

	tree.size++
	return nil
}

// Erase removes the item that compares equal to the query and releases
// its payload. Missing items yield ErrTreeItemNotFound and leave the
// tree unchanged.
//
// An interior victim swaps payloads with its in-order successor, whose
// path is recorded too, then the walk back up shrinks balance factors
// and rebalances until a subtree keeps its height.
func (tree *AVLTree[E]) Erase(item E) error {
	if tree.root == nil {
		return ErrTreeItemNotFound
	}

	var (
		up  [heightLimit]*avlNode[E]
		upd [heightLimit]int
		top int
	)

	// Search down the tree and save the path.
	it := tree.root
	for {
		if it == nil {
			return ErrTreeItemNotFound
		}
		res := tree.cmp(it.item, item)
		if res == 0 {
			break
		}

		// Push direction and node onto the stack.
		upd[top] = 0
		if res < 0 {
			upd[top] = 1
		}
		up[top] = it
		top++

		it = it.link[upd[top-1]]
	}

	if it.link[0] == nil || it.link[1] == nil {
		// Which child is not nil?
		dir := 0
		if it.link[0] == nil {
			dir = 1
		}

		// Fix parent.
		if top != 0 {
			up[top-1].link[upd[top-1]] = it.link[dir]
		} else {
			tree.root = it.link[dir]
		}

		tree.rel(it.item)
		it.link[0], it.link[1] = nil, nil
	} else {
		// Find the inorder successor and save its path too.
		heir := it.link[1]
		upd[top] = 1
		up[top] = it
		top++

		for heir.link[0] != nil {
			upd[top] = 0
			up[top] = heir
			top++
			heir = heir.link[0]
		}

		// Swap payloads, then unlink the successor node.
		it.item, heir.item = heir.item, it.item
		if up[top-1] == it {
			up[top-1].link[1] = heir.link[1]
		} else {
			up[top-1].link[0] = heir.link[1]
		}

		tree.rel(heir.item)
		heir.link[0], heir.link[1] = nil, nil
	}

	// Walk back up the search path.
	done := false
	for top--; top >= 0 && !done; top-- {
		// Update balance factors.
		if upd[top] != 0 {
			up[top].balance--
		} else {
			up[top].balance++
		}

		// Terminate or rebalance as necessary.
		if up[top].balance == 1 || up[top].balance == -1 {
			break
		} else if up[top].balance > 1 || up[top].balance < -1 {
			up[top], done = avlRemoveBalance(up[top], upd[top])

			// Fix parent.
			if top != 0 {
				up[top-1].link[upd[top-1]] = up[top]
			} else {
				tree.root = up[0]
			}
		}
	}

	tree.size--
	return nil
}

// Foreach visits the items in ascending order until the action returns
// false.
func (tree *AVLTree[E]) Foreach(action func(idx int64, item E) bool) {
	var cur AVLTreeCursor[E]
	idx := int64(0)
	for item, ok := cur.First(tree); ok; item, ok = cur.Next() {
		if !action(idx, item) {
			return
		}
		idx++
	}
}

// Release drops every node by rotating left-children out of the way and
// hands each payload to the releaser. The tree stays usable and empty
// afterwards.
func (tree *AVLTree[E]) Release() {
	it := tree.root
	for it != nil {
		var save *avlNode[E]
		if it.link[0] == nil {
			save = it.link[1]
			tree.rel(it.item)
			it.link[1] = nil
		} else {
			// Rotate right.
			save = it.link[0]
			it.link[0] = save.link[1]
			save.link[1] = it
		}
		it = save
	}
	tree.root = nil
	tree.size = 0
}
