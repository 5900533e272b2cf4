package tree

import (
	"fmt"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// rbtree properties:
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. (Optional) The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

type rbNode[E any] struct {
	parent *rbNode[E]
	left   *rbNode[E]
	right  *rbNode[E]
	item   E
	color  RBColor
}

func (node *rbNode[E]) isNilLeaf() bool {
	return node == nil
}

func (node *rbNode[E]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[E]) isBlack() bool {
	// All NIL nodes are considered black (p2).
	return node == nil || node.color == Black
}

func (node *rbNode[E]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[E]) isLeaf() bool {
	return node != nil && node.parent != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *rbNode[E]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[E]) sibling() *rbNode[E] {
	switch dir := node.Direction(); dir {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *rbNode[E]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *rbNode[E]) uncle() *rbNode[E] {
	return node.parent.sibling()
}

func (node *rbNode[E]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *rbNode[E]) grandpa() *rbNode[E] {
	return node.parent.parent
}

func (node *rbNode[E]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[E]) minimum() *rbNode[E] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[E]) maximum() *rbNode[E] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[E]) pred() *rbNode[E] {
	x := node
	if x == nil {
		return nil
	}
	aux := x
	if aux.left != nil {
		return aux.left.maximum()
	}

	aux = x.parent
	// Backtrack to the ancestor that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[E]) succ() *rbNode[E] {
	x := node
	if x == nil {
		return nil
	}

	aux := x
	if aux.right != nil {
		return aux.right.minimum()
	}

	aux = x.parent
	// Backtrack to the ancestor that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// RBTree is a red-black tree with the same external contract as AATree
// and AVLTree. Unlike its siblings it keeps parent pointers per node and
// rebalances through recoloring, so its cursor backtracks through the
// links instead of an ancestor stack.
//
// Not safe for concurrent use.
type RBTree[E any] struct {
	root           *rbNode[E]
	cmp            infra.Comparator[E]
	dup            infra.Duplicator[E]
	rel            infra.Releaser[E]
	size           int64
	isRmBorrowPred bool
}

var _ Tree[int] = (*RBTree[int])(nil)

type RBTreeOpt[E any] func(*RBTree[E])

// WithRBTreeDuplicator clones every incoming item before the tree takes
// ownership of it.
func WithRBTreeDuplicator[E any](dup infra.Duplicator[E]) RBTreeOpt[E] {
	return func(tree *RBTree[E]) {
		if dup != nil {
			tree.dup = dup
		}
	}
}

// WithRBTreeReleaser hands every dropped item back to the caller.
func WithRBTreeReleaser[E any](rel infra.Releaser[E]) RBTreeOpt[E] {
	return func(tree *RBTree[E]) {
		if rel != nil {
			tree.rel = rel
		}
	}
}

// WithRBTreeRemoveBorrowPred makes Erase replace an interior victim with
// its in-order predecessor instead of the default successor.
func WithRBTreeRemoveBorrowPred[E any]() RBTreeOpt[E] {
	return func(tree *RBTree[E]) {
		tree.isRmBorrowPred = true
	}
}

func NewRBTree[E any](cmp infra.Comparator[E], opts ...RBTreeOpt[E]) (*RBTree[E], error) {
	if cmp == nil {
		return nil, ErrTreeNilComparator
	}
	tree := &RBTree[E]{
		cmp: cmp,
		dup: infra.IdentityDuplicator[E],
		rel: infra.NoopReleaser[E],
	}
	for _, o := range opts {
		o(tree)
	}
	return tree, nil
}

func (tree *RBTree[E]) Len() int64 {
	return tree.size
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *RBTree[E]) leftRotate(x *rbNode[E]) {
	if x == nil || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
		 |                         |
		 X                         S
		/ \     rightRotate(S)    / \
	   L   S    <============    X   R
		  / \                   / \
		Sc   Sd               Sc   Sd
*/
func (tree *RBTree[E]) rightRotate(x *rbNode[E]) {
	if x == nil || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

func (tree *RBTree[E]) search(item E) *rbNode[E] {
	for aux := tree.root; aux != nil; {
		res := tree.cmp(aux.item, item)
		if res == 0 {
			return aux
		} else if /* stored less */ res < 0 {
			aux = aux.right
		} else /* stored greater */ {
			aux = aux.left
		}
	}
	return nil
}

// Find returns the stored item that compares equal to the query and
// whether such an item exists.
func (tree *RBTree[E]) Find(item E) (E, bool) {
	if node := tree.search(item); node != nil {
		return node.item, true
	}
	return *new(E), false
}

// Insert clones the item into a fresh red node and rebalances through
// recoloring and at most two rotations. Inserting an item that compares
// equal to a stored one is a no-op success (i1: an empty tree gets a
// black root directly). A failed clone leaves the tree unchanged.
func (tree *RBTree[E]) Insert(item E) error {
	if /* i1 */ tree.root.isNilLeaf() {
		clone, err := tree.dup(item)
		if err != nil {
			return fmt.Errorf("[rbtree] clone item: %w", err)
		}
		tree.root = &rbNode[E]{item: clone} // Root is painted black by zero value
		tree.size++
		return nil
	}

	var x, y *rbNode[E] = tree.root, nil
	dir := Left
	for !x.isNilLeaf() {
		y = x
		res := tree.cmp(x.item, item)
		if /* equal */ res == 0 {
			return nil
		} else if /* stored less */ res < 0 {
			x = x.right
			dir = Right
		} else /* stored greater */ {
			x = x.left
			dir = Left
		}
	}

	if y.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new item into nil node")
	}

	clone, err := tree.dup(item)
	if err != nil {
		return fmt.Errorf("[rbtree] clone item: %w", err)
	}
	z := &rbNode[E]{
		item:   clone,
		color:  Red,
		parent: y,
	}
	if dir == Left {
		y.left = z
	} else {
		y.right = z
	}

	tree.size++
	tree.insertRebalance(z)
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X's parent P is black and P is root, nothing to do.

im2: X's parent P is red and P is root, repaint P into black.

im3: Both the parent P and the uncle U are red. (red-violation)
Repaint P and U black, grandpa G red; G may now violate upward, so
recurse on G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: P is red, U is black, X is the opposite direction to P. Rotate P
toward X's opposite; the old parent becomes the new current node and
im5 finishes the repair.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: P is red, U is black, X is the same direction as P. Rotate G away
from X, repaint.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *RBTree[E]) insertRebalance(x *rbNode[E]) {
	for !x.isNilLeaf() {
		if x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return
		}

		if x.parent.isBlack() {
			return
		}

		if x.parent.isRoot() {
			if /* im1 */ x.parent.isBlack() {
				return
			} else /* im2 */ {
				x.parent.color = Black
			}
		}

		if /* im3 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		} else {
			if !x.hasUncle() || x.uncle().isBlack() {
				dir := x.Direction()
				if /* im4 */ dir != x.parent.Direction() {
					p := x.parent
					switch dir {
					case Left:
						tree.rightRotate(p)
					case Right:
						tree.leftRotate(p)
					default:
						// impossible run to here
						panic( /* debug assertion */ "[rbtree] insert violate (im4)")
					}
					x = p // enter im5 to fix
				}

				switch /* im5 */ dir = x.parent.Direction(); dir {
				case Left:
					tree.rightRotate(x.grandpa())
				case Right:
					tree.leftRotate(x.grandpa())
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] insert violate (im5)")
				}

				x.parent.color = Black
				x.sibling().color = Red
				return
			}
		}
	}
}

/*
r1: Only a root node, remove directly.

r2: Victim X has both children. Replace its payload with the in-order
succ (or pred) payload and remove that borrowed node instead; it has at
most one child by construction.

r3: (1) A red leaf, unlink directly.
r3: (2) A black leaf has to rebalance before the unlink. (black-violation)

r4: One child only; the child must be red (see conclusion), so it moves
up and is repainted black, or the black depth rebalance runs.
*/
func (tree *RBTree[E]) removeNode(z *rbNode[E]) {
	if /* r1 */ tree.size == 1 && z.isRoot() {
		tree.root = nil
		z.left = nil
		z.right = nil
		tree.rel(z.item)
		return
	}

	removed := z.item

	y := z
	if /* r2 */ !y.left.isNilLeaf() && !y.right.isNilLeaf() {
		if tree.isRmBorrowPred {
			y = z.pred() // enter r3-r4
		} else {
			y = z.succ() // enter r3-r4
		}
		// Borrow the payload only.
		z.item = y.item
	}

	if /* r3 */ y.isLeaf() {
		if /* r3 (1) */ y.isRed() {
			switch dir := y.Direction(); dir {
			case Left:
				y.parent.left = nil
			case Right:
				y.parent.right = nil
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] y should be a leaf node, violate (r3-1)")
			}
			y.parent = nil
			y.left, y.right = nil, nil
			tree.rel(removed)
			return
		} else /* r3 (2) */ {
			tree.removeRebalance(y)
		}
	} else /* r4 */ {
		var replace *rbNode[E]
		if !y.right.isNilLeaf() {
			replace = y.right
		} else if !y.left.isNilLeaf() {
			replace = y.left
		}

		if replace == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove a leaf node without child, violate (r4)")
		}

		switch dir := y.Direction(); dir {
		case Root:
			tree.root = replace
			tree.root.parent = nil
		case Left:
			y.parent.left = replace
			replace.parent = y.parent
		case Right:
			y.parent.right = replace
			replace.parent = y.parent
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] unknown node direction to remove (r4)")
		}

		if y.isBlack() {
			if replace.isRed() {
				replace.color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	// Unlink node.
	if !y.isRoot() && y == y.parent.left {
		y.parent.left = nil
	} else if !y.isRoot() && y == y.parent.right {
		y.parent.right = nil
	}
	y.parent = nil
	y.left = nil
	y.right = nil

	tree.rel(removed)
}

// Erase removes the item that compares equal to the query and releases
// its payload. Missing items yield ErrTreeItemNotFound.
func (tree *RBTree[E]) Erase(item E) error {
	if tree.size <= 0 {
		return ErrTreeItemNotFound
	}
	z := tree.search(item)
	if z == nil {
		return ErrTreeItemNotFound
	}

	tree.removeNode(z)
	tree.size--
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the nephew on the same direction as X, Sd the opposite one.

rm1: X's sibling S is red, so P, Sc and Sd must be black. Rotate P
toward X, repaint S black and P red, then continue with the new
sibling (one of rm2-rm5).

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: P is red, S, Sc and Sd are black. Swap P's and S's colors, done.

rm3: P, S, Sc and Sd are all black. Repaint S red to fix p4 locally,
then recurse on P.

rm4: S is black, Sc red, Sd black. Rotate S away from X, repaint S red
and Sc black, then rm5 finishes.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: S is black, Sd red. Rotate P toward X, S takes P's color, P and Sd
turn black. (fixes the black-violation for good)

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *RBTree[E]) removeRebalance(x *rbNode[E]) {
	for {
		if x.isRoot() {
			return
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			switch dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			sibling.color = Black
			x.parent.color = Red // ready to enter rm2
			sibling = x.sibling()
		}

		var sc, sd *rbNode[E]
		switch /* rm2 */ dir {
		case Left:
			sc, sd = sibling.left, sibling.right
		case Right:
			sc, sd = sibling.right, sibling.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				break
			} else /* rm3 */ {
				sibling.color = Red
				x = x.parent
				continue
			}
		} else {
			if /* rm4 */ !sc.isNilLeaf() && sc.isRed() {
				switch dir {
				case Left:
					tree.rightRotate(sibling)
				case Right:
					tree.leftRotate(sibling)
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
				sc.color = Black
				sibling.color = Red
				sibling = x.sibling()
				switch dir {
				case Left:
					sd = sibling.right
				case Right:
					sd = sibling.left
				default:
					// impossible run to here
					panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
				}
			}

			switch /* rm5 */ dir {
			case Left:
				tree.leftRotate(x.parent)
			case Right:
				tree.rightRotate(x.parent)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm5)")
			}
			sibling.color = x.parent.color
			x.parent.color = Black
			if !sd.isNilLeaf() {
				sd.color = Black
			}
			break
		}
	}
}

// Foreach visits the items in ascending order until the action returns
// false. Inorder traversal through an explicit stack.
func (tree *RBTree[E]) Foreach(action func(idx int64, item E) bool) {
	aux := tree.root
	if tree.size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[E], 0, tree.size>>1)
	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.item) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Release drops every node, releases every payload and leaves an empty,
// reusable tree.
func (tree *RBTree[E]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		tree.size = 0
		return
	}

	stack := make([]*rbNode[E], 0, tree.size>>1)
	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		tree.rel(aux.item)
		aux.right, aux.parent = nil, nil
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
	tree.size = 0
}
