package tree

// RBTreeCursor walks an RBTree in sorted order. The red-black nodes
// carry parent pointers, so the cursor backtracks through them and holds
// no stack at all; the protocol is the same as the stack cursors of the
// sibling trees.
//
// The zero value is ready to use: bind it to a tree with First or Last.
// A cursor stays exhausted once it walks past either end until it is
// bound again. Mutating the tree invalidates every bound cursor.
type RBTreeCursor[E any] struct {
	tree *RBTree[E]
	node *rbNode[E]
}

// First binds the cursor to tree and positions it at the smallest item.
func (cur *RBTreeCursor[E]) First(tree *RBTree[E]) (E, bool) {
	cur.tree = tree
	cur.node = tree.root.minimum()
	return cur.current()
}

// Last binds the cursor to tree and positions it at the largest item.
func (cur *RBTreeCursor[E]) Last(tree *RBTree[E]) (E, bool) {
	cur.tree = tree
	cur.node = tree.root.maximum()
	return cur.current()
}

// Next advances toward larger items until the cursor is exhausted.
func (cur *RBTreeCursor[E]) Next() (E, bool) {
	if cur.tree == nil || cur.node == nil {
		return *new(E), false
	}
	cur.node = cur.node.succ()
	return cur.current()
}

// Prev advances toward smaller items, mirroring Next.
func (cur *RBTreeCursor[E]) Prev() (E, bool) {
	if cur.tree == nil || cur.node == nil {
		return *new(E), false
	}
	cur.node = cur.node.pred()
	return cur.current()
}

func (cur *RBTreeCursor[E]) current() (E, bool) {
	if cur.node == nil {
		return *new(E), false
	}
	return cur.node.item, true
}
