package tree

// AATreeCursor walks an AATree in sorted order, one item per step, in
// either direction. It keeps an explicit ancestor stack instead of
// recursion or per-node parent pointers, so the nodes stay lean and the
// walk state lives entirely outside the tree.
//
// The zero value is ready to use: bind it to a tree with First or Last.
// A cursor stays exhausted once it walks past either end until it is
// bound again. Mutating the tree invalidates every bound cursor; the
// next step over a stale cursor yields unspecified items, never a crash
// on its own.
type AATreeCursor[E any] struct {
	tree *AATree[E]
	it   *aaNode[E]
	path [heightLimit]*aaNode[E] // Traversal path
	top  int
}

// First binds the cursor to tree and positions it at the smallest item.
// The boolean is false when the tree is empty.
func (cur *AATreeCursor[E]) First(tree *AATree[E]) (E, bool) {
	return cur.start(tree, 0)
}

// Last binds the cursor to tree and positions it at the largest item.
// The boolean is false when the tree is empty.
func (cur *AATreeCursor[E]) Last(tree *AATree[E]) (E, bool) {
	return cur.start(tree, 1)
}

// Next advances toward larger items. The boolean is false once the
// cursor moves past the largest item, and keeps being false until the
// cursor is bound again.
func (cur *AATreeCursor[E]) Next() (E, bool) {
	return cur.move(1)
}

// Prev advances toward smaller items, mirroring Next.
func (cur *AATreeCursor[E]) Prev() (E, bool) {
	return cur.move(0)
}

// First step in traversal, handles min and max.
func (cur *AATreeCursor[E]) start(tree *AATree[E], dir int) (E, bool) {
	cur.tree = tree
	cur.it = tree.root
	cur.top = 0

	// Build a path to work with.
	if cur.it != tree.sentinel {
		for cur.it.link[dir] != tree.sentinel {
			cur.path[cur.top] = cur.it
			cur.top++
			cur.it = cur.it.link[dir]
		}
	}

	if cur.it == tree.sentinel {
		return *new(E), false
	}
	return cur.it.item, true
}

// Subsequent traversal steps, handles ascending and descending.
func (cur *AATreeCursor[E]) move(dir int) (E, bool) {
	if cur.tree == nil || cur.it == nil {
		// Never bound to a tree.
		return *new(E), false
	}
	sentinel := cur.tree.sentinel

	if cur.it == sentinel {
		// Already exhausted.
		return *new(E), false
	}

	if cur.it.link[dir] != sentinel {
		// Continue down this branch.
		cur.path[cur.top] = cur.it
		cur.top++
		cur.it = cur.it.link[dir]

		for cur.it.link[1-dir] != sentinel {
			cur.path[cur.top] = cur.it
			cur.top++
			cur.it = cur.it.link[1-dir]
		}
	} else {
		// Move to the next branch.
		for {
			if cur.top == 0 {
				cur.it = sentinel
				break
			}

			last := cur.it
			cur.top--
			cur.it = cur.path[cur.top]
			if last != cur.it.link[dir] {
				break
			}
		}
	}

	if cur.it == sentinel {
		return *new(E), false
	}
	return cur.it.item, true
}
