package tree

import "errors"

// AA tree rule validation utilities.

// LevelViolationValidate checks the level invariants of every node. A
// nil error means the tree is a well formed Andersson tree. Meant for
// tests and the soak harness, it visits every node once.
func LevelViolationValidate[E any](tree *AATree[E]) error {
	if tree.root == tree.sentinel {
		if tree.size != 0 {
			return errors.New("aa-tree size violation")
		}
		return nil
	}

	stack := make([]*aaNode[E], 0, tree.size>>1+1)
	stack = append(stack, tree.root)
	visited := int64(0)

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		left, right := node.link[0], node.link[1]
		if /* p1 */ left == tree.sentinel && right == tree.sentinel && node.level != 1 {
			return errors.New("aa-tree leaf level violation")
		}
		if /* p2 */ left.level != node.level-1 {
			return errors.New("aa-tree left horizontal link violation")
		}
		if /* p3 */ right.level != node.level && right.level != node.level-1 {
			return errors.New("aa-tree right level violation")
		}
		if /* p4 */ right.link[1].level >= node.level {
			// Sentinel self links keep this check safe on leaves.
			return errors.New("aa-tree consecutive horizontal link violation")
		}
		if /* p5 */ node.level > 1 && (left == tree.sentinel || right == tree.sentinel) {
			return errors.New("aa-tree interior node child violation")
		}

		if left != tree.sentinel {
			stack = append(stack, left)
		}
		if right != tree.sentinel {
			stack = append(stack, right)
		}
	}

	if visited != tree.size {
		return errors.New("aa-tree size violation")
	}
	return nil
}
