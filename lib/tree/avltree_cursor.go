package tree

// AVLTreeCursor walks an AVLTree in sorted order through an explicit
// ancestor stack, exactly like AATreeCursor does for AATree. The zero
// value is ready to use; bind it with First or Last. Mutating the tree
// invalidates every bound cursor.
type AVLTreeCursor[E any] struct {
	tree *AVLTree[E]
	it   *avlNode[E]
	path [heightLimit]*avlNode[E] // Traversal path
	top  int
}

// First binds the cursor to tree and positions it at the smallest item.
func (cur *AVLTreeCursor[E]) First(tree *AVLTree[E]) (E, bool) {
	return cur.start(tree, 0)
}

// Last binds the cursor to tree and positions it at the largest item.
func (cur *AVLTreeCursor[E]) Last(tree *AVLTree[E]) (E, bool) {
	return cur.start(tree, 1)
}

// Next advances toward larger items until the cursor is exhausted.
func (cur *AVLTreeCursor[E]) Next() (E, bool) {
	return cur.move(1)
}

// Prev advances toward smaller items, mirroring Next.
func (cur *AVLTreeCursor[E]) Prev() (E, bool) {
	return cur.move(0)
}

func (cur *AVLTreeCursor[E]) start(tree *AVLTree[E], dir int) (E, bool) {
	cur.tree = tree
	cur.it = tree.root
	cur.top = 0

	// Build a path to work with.
	if cur.it != nil {
		for cur.it.link[dir] != nil {
			cur.path[cur.top] = cur.it
			cur.top++
			cur.it = cur.it.link[dir]
		}
	}

	if cur.it == nil {
		return *new(E), false
	}
	return cur.it.item, true
}

func (cur *AVLTreeCursor[E]) move(dir int) (E, bool) {
	if cur.tree == nil || cur.it == nil {
		// Unbound or exhausted.
		return *new(E), false
	}

	if cur.it.link[dir] != nil {
		// Continue down this branch.
		cur.path[cur.top] = cur.it
		cur.top++
		cur.it = cur.it.link[dir]

		for cur.it.link[1-dir] != nil {
			cur.path[cur.top] = cur.it
			cur.top++
			cur.it = cur.it.link[1-dir]
		}
	} else {
		// Move to the next branch.
		for {
			if cur.top == 0 {
				cur.it = nil
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

	if cur.it == nil {
		return *new(E), false
	}
	return cur.it.item, true
}
