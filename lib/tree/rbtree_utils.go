package tree

import "errors"

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func blackDepthTo[E any](target, to *rbNode[E]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// RedViolationValidate walks the tree inorder and reports the first red
// node with a red parent or child (p3). A nil error means no
// red-violation exists.
func RedViolationValidate[E any](tree *RBTree[E]) error {
	aux := tree.root
	if tree.size < 0 || aux == nil {
		return nil
	}

	stack := make([]*rbNode[E], 0, tree.size>>1)
	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; aux.isRed() {
			if (!aux.parent.isRoot() && aux.parent.isRed()) ||
				(aux.left.isRed() || aux.right.isRed()) {
				return errors.New("rbtree red violation")
			}
		}

		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load all nodes adjacent to at least one nil leaf.
func bfsLeaves[E any](tree *RBTree[E]) []*rbNode[E] {
	aux := tree.root
	if tree.size < 0 || aux.isNilLeaf() {
		return nil
	}

	leaves := make([]*rbNode[E], 0, tree.size>>1+1)
	queue := make([]*rbNode[E], 0, tree.size>>1)
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.left, aux.right
		if /* nil leaves, keep one */ l.isNilLeaf() || r.isNilLeaf() {
			leaves = append(leaves, aux)
		}
		if !l.isNilLeaf() {
			queue = append(queue, l)
		}
		if !r.isNilLeaf() {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Every path from a leaf up to the root passes the same number of black
nodes (p4).
*/
func BlackViolationValidate[E any](tree *RBTree[E]) error {
	leaves := bfsLeaves[E](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[E](leaves[0], tree.root)
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo[E](leaves[i], tree.root) != blackDepth {
			return errors.New("rbtree black violation")
		}
	}
	return nil
}
