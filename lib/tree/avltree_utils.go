package tree

import "errors"

// AVL tree rule validation utilities.

// BalanceViolationValidate recomputes subtree heights bottom-up and
// checks every stored balance factor against them, plus the AVL height
// bound itself. A nil error means the tree is a well formed AVL tree.
func BalanceViolationValidate[E any](tree *AVLTree[E]) error {
	if tree.root == nil {
		if tree.size != 0 {
			return errors.New("avl-tree size violation")
		}
		return nil
	}

	// Reverse preorder visit so children precede parents below.
	order := make([]*avlNode[E], 0, tree.size)
	stack := make([]*avlNode[E], 0, tree.size>>1+1)
	stack = append(stack, tree.root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, node)
		if node.link[0] != nil {
			stack = append(stack, node.link[0])
		}
		if node.link[1] != nil {
			stack = append(stack, node.link[1])
		}
	}

	heights := make(map[*avlNode[E]]int, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		lh, rh := 0, 0
		if node.link[0] != nil {
			lh = heights[node.link[0]]
		}
		if node.link[1] != nil {
			rh = heights[node.link[1]]
		}
		heights[node] = max(lh, rh) + 1

		if bal := rh - lh; bal < -1 || bal > 1 {
			return errors.New("avl-tree height bound violation")
		} else if node.balance != bal {
			return errors.New("avl-tree balance factor violation")
		}
	}

	if int64(len(order)) != tree.size {
		return errors.New("avl-tree size violation")
	}
	return nil
}
