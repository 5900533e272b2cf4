package tree

import (
	"fmt"

	"github.com/mignon-p/jsw-libs-sub002/lib/infra"
)

// References:
// https://user.it.uu.se/~arnea/ps/simp.pdf
// https://web.archive.org/web/20180721000133/http://www.eternallyconfuzzled.com/tuts/datastructures/jsw_tut_andersson.aspx
// AA tree properties (level based):
// p1. The level of every leaf node is one.
// p2. The level of every left child is exactly one less than that of
//   its parent. (left horizontal link violation)
// p3. The level of every right child is equal to or one less than that
//   of its parent.
// p4. The level of every right grandchild is strictly less than that of
//   its grandparent. (consecutive horizontal link violation)
// p5. Every node of level greater than one has two children.
// (Conclusion) A node with exactly one child sits at level one and the
//   child is a right horizontal link. The balancing needs two fixups
//   only, skew and split, and both rotate around right links.

type aaNode[E any] struct {
	link  [2]*aaNode[E] // Left (0) and right (1) links
	item  E
	level int           // Horizontal level for balance, sentinel is zero
}

// AATree is an Andersson tree, a binary search tree balanced through
// node levels instead of colors or balance factors. Every leaf points to
// one shared sentinel node per tree, which removes all nil checks from
// the hot paths.
//
// Items are opaque. Order comes from the comparator, ownership from the
// duplicator and releaser callbacks; by default items are stored as-is
// and dropped to the GC.
//
// Not safe for concurrent use.
type AATree[E any] struct {
	root     *aaNode[E]
	sentinel *aaNode[E] // End of tree sentinel, level 0, self linked
	cmp      infra.Comparator[E]
	dup      infra.Duplicator[E]
	rel      infra.Releaser[E]
	size     int64
}

var _ Tree[int] = (*AATree[int])(nil)

type AATreeOpt[E any] func(*AATree[E])

// WithAATreeDuplicator clones every incoming item before the tree takes
// ownership of it.
func WithAATreeDuplicator[E any](dup infra.Duplicator[E]) AATreeOpt[E] {
	return func(tree *AATree[E]) {
		if dup != nil {
			tree.dup = dup
		}
	}
}

// WithAATreeReleaser hands every dropped item back to the caller.
func WithAATreeReleaser[E any](rel infra.Releaser[E]) AATreeOpt[E] {
	return func(tree *AATree[E]) {
		if rel != nil {
			tree.rel = rel
		}
	}
}

func NewAATree[E any](cmp infra.Comparator[E], opts ...AATreeOpt[E]) (*AATree[E], error) {
	if cmp == nil {
		return nil, ErrTreeNilComparator
	}
	sentinel := &aaNode[E]{}
	sentinel.link[0], sentinel.link[1] = sentinel, sentinel

	tree := &AATree[E]{
		root:     sentinel,
		sentinel: sentinel,
		cmp:      cmp,
		dup:      infra.IdentityDuplicator[E],
		rel:      infra.NoopReleaser[E],
	}
	for _, o := range opts {
		o(tree)
	}
	return tree, nil
}

// Remove left horizontal links with a right rotation.
func skew[E any](node *aaNode[E]) *aaNode[E] {
	if node.link[0].level == node.level && node.level != 0 {
		save := node.link[0]
		node.link[0] = save.link[1]
		save.link[1] = node
		node = save
	}
	return node
}

// Remove consecutive horizontal links with a left rotation and a level
// increase.
func split[E any](node *aaNode[E]) *aaNode[E] {
	if node.link[1].link[1].level == node.level && node.level != 0 {
		save := node.link[1]
		node.link[1] = save.link[0]
		save.link[0] = node
		node = save
		node.level++
	}
	return node
}

func (tree *AATree[E]) newNode(item E) (*aaNode[E], error) {
	clone, err := tree.dup(item)
	if err != nil {
		return nil, fmt.Errorf("[aa-tree] clone item: %w", err)
	}
	return &aaNode[E]{
		link:  [2]*aaNode[E]{tree.sentinel, tree.sentinel},
		item:  clone,
		level: 1,
	}, nil
}

func (tree *AATree[E]) Len() int64 {
	return tree.size
}

// Find returns the stored item that compares equal to the query. The
// boolean reports whether such an item exists, so zero-valued payloads
// stay distinguishable from absence.
func (tree *AATree[E]) Find(item E) (E, bool) {
	it := tree.root
	for it != tree.sentinel {
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

// Insert clones the item and links it as a level one leaf, then walks
// the saved search path back to the root applying skew and split at
// every ancestor. Inserting an item that compares equal to a stored one
// is a no-op success, the stored item stays untouched. A failed clone
// leaves the tree unchanged.
func (tree *AATree[E]) Insert(item E) error {
	if tree.root == tree.sentinel {
		// Empty tree case.
		node, err := tree.newNode(item)
		if err != nil {
			return err
		}
		tree.root = node
	} else {
		var (
			path     [heightLimit]*aaNode[E]
			top, dir int
		)

		// Find a spot and save the path.
		it := tree.root
		for {
			path[top] = it
			top++
			res := tree.cmp(it.item, item)
			if res == 0 {
				return nil
			}
			dir = 0
			if res < 0 {
				dir = 1
			}
			if it.link[dir] == tree.sentinel {
				break
			}
			it = it.link[dir]
		}

		node, err := tree.newNode(item)
		if err != nil {
			return err
		}
		it.link[dir] = node

		// Walk back and rebalance.
		for top--; top >= 0; top-- {
			if top != 0 {
				dir = 0
				if path[top-1].link[1] == path[top] {
					dir = 1
				}
			}

			fixed := skew(path[top])
			fixed = split(fixed)

			// Fix the parent.
			if top != 0 {
				path[top-1].link[dir] = fixed
			} else {
				tree.root = fixed
			}
		}
	}

	tree.size++
	return nil
}

// Erase removes the item that compares equal to the query and releases
// its payload. Missing items yield ErrTreeItemNotFound and leave the
// tree unchanged.
//
// An interior victim swaps payloads with its in-order successor so the
// node that gets unlinked always has at most one child, a right
// horizontal one. The walk back decreases ancestor levels that ended up
// two above a child and repairs the result with three skews and two
// splits.
func (tree *AATree[E]) Erase(item E) error {
	if tree.root == tree.sentinel {
		return ErrTreeItemNotFound
	}

	var (
		path     [heightLimit]*aaNode[E]
		top, dir int
	)

	// Find the node to remove and save the path.
	it := tree.root
	for {
		path[top] = it
		top++
		if it == tree.sentinel {
			return ErrTreeItemNotFound
		}
		res := tree.cmp(it.item, item)
		if res == 0 {
			break
		}
		dir = 0
		if res < 0 {
			dir = 1
		}
		it = it.link[dir]
	}

	if it.link[0] == tree.sentinel || it.link[1] == tree.sentinel {
		// Single child case. The lone child, if any, is the right one.
		dir2 := 0
		if it.link[0] == tree.sentinel {
			dir2 = 1
		}

		top--
		if top != 0 {
			path[top-1].link[dir] = it.link[dir2]
		} else {
			tree.root = it.link[1]
		}

		tree.rel(it.item)
		it.link[0], it.link[1] = nil, nil
	} else {
		// Two child case.
		heir := it.link[1]
		prev := it
		for heir.link[0] != tree.sentinel {
			path[top] = heir
			top++
			prev = heir
			heir = heir.link[0]
		}

		// Order matters: release the victim's payload, move the heir's
		// payload in, then unlink the heir node.
		tree.rel(it.item)
		it.item = heir.item
		if prev == it {
			prev.link[1] = heir.link[1]
		} else {
			prev.link[0] = heir.link[1]
		}
		heir.link[0], heir.link[1] = nil, nil
	}

	// Walk back up and rebalance.
	for top--; top >= 0; top-- {
		up := path[top]

		if top != 0 {
			dir = 0
			if path[top-1].link[1] == up {
				dir = 1
			}
		}

		if up.link[0].level < up.level-1 || up.link[1].level < up.level-1 {
			up.level--
			if up.link[1].level > up.level {
				up.link[1].level = up.level
			}

			// Order matters.
			up = skew(up)
			up.link[1] = skew(up.link[1])
			up.link[1].link[1] = skew(up.link[1].link[1])
			up = split(up)
			up.link[1] = split(up.link[1])
		}

		// Fix the parent.
		if top != 0 {
			path[top-1].link[dir] = up
		} else {
			tree.root = up
		}
	}

	tree.size--
	return nil
}

// Foreach visits the items in ascending order until the action returns
// false.
func (tree *AATree[E]) Foreach(action func(idx int64, item E) bool) {
	var cur AATreeCursor[E]
	idx := int64(0)
	for item, ok := cur.First(tree); ok; item, ok = cur.Next() {
		if !action(idx, item) {
			return
		}
		idx++
	}
}

// Release drops every node and hands each payload to the releaser. The
// tree stays usable and empty afterwards. Destruction works by rotating
// left-children out of the way, so no stack and no recursion is needed
// no matter how large the tree grew.
func (tree *AATree[E]) Release() {
	it := tree.root
	for it != tree.sentinel {
		var save *aaNode[E]
		if it.link[0] == tree.sentinel {
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
	tree.root = tree.sentinel
	tree.size = 0
}
