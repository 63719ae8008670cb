package kernel

// RBTree is a textbook (CLRS) red-black tree whose nodes are PCBs
// themselves: there is no auxiliary node allocation, and a PCB's tree
// links are meaningful only while it is a current member of some tree
// (spec.md §4.2, §9). Comparator decides ordering; CFSRunqueue uses
// ascending vruntime.
//
// Invariants maintained: the root is black; no red node has a red child;
// every root-to-leaf path crosses the same number of black nodes.
type RBTree struct {
	root *PCB
	cmp  func(a, b *PCB) int
	size int
}

// NewRBTree returns an empty tree ordered by cmp.
func NewRBTree(cmp func(a, b *PCB) int) *RBTree {
	return &RBTree{cmp: cmp}
}

func isRed(n *PCB) bool {
	return n != nil && n.rbRed
}

func (t *RBTree) rotateLeft(x *PCB) {
	y := x.rbRight
	x.rbRight = y.rbLeft
	if y.rbLeft != nil {
		y.rbLeft.rbParent = x
	}
	y.rbParent = x.rbParent
	switch {
	case x.rbParent == nil:
		t.root = y
	case x == x.rbParent.rbLeft:
		x.rbParent.rbLeft = y
	default:
		x.rbParent.rbRight = y
	}
	y.rbLeft = x
	x.rbParent = y
}

func (t *RBTree) rotateRight(y *PCB) {
	x := y.rbLeft
	y.rbLeft = x.rbRight
	if x.rbRight != nil {
		x.rbRight.rbParent = y
	}
	x.rbParent = y.rbParent
	switch {
	case y.rbParent == nil:
		t.root = x
	case y == y.rbParent.rbLeft:
		y.rbParent.rbLeft = x
	default:
		y.rbParent.rbRight = x
	}
	x.rbRight = y
	y.rbParent = x
}

// Insert descends by the comparator, paints the new node red, runs the
// standard fix-up, and repaints the root black.
func (t *RBTree) Insert(z *PCB) {
	var y *PCB
	x := t.root
	for x != nil {
		y = x
		if t.cmp(z, x) < 0 {
			x = x.rbLeft
		} else {
			x = x.rbRight
		}
	}
	z.rbParent = y
	switch {
	case y == nil:
		t.root = z
	case t.cmp(z, y) < 0:
		y.rbLeft = z
	default:
		y.rbRight = z
	}
	z.rbLeft, z.rbRight = nil, nil
	z.rbRed = true
	t.insertFixup(z)
	t.size++
}

func (t *RBTree) insertFixup(z *PCB) {
	for z.rbParent != nil && isRed(z.rbParent) {
		gp := z.rbParent.rbParent
		if z.rbParent == gp.rbLeft {
			y := gp.rbRight
			if isRed(y) {
				z.rbParent.rbRed = false
				y.rbRed = false
				gp.rbRed = true
				z = gp
			} else {
				if z == z.rbParent.rbRight {
					z = z.rbParent
					t.rotateLeft(z)
				}
				z.rbParent.rbRed = false
				z.rbParent.rbParent.rbRed = true
				t.rotateRight(z.rbParent.rbParent)
			}
		} else {
			y := gp.rbLeft
			if isRed(y) {
				z.rbParent.rbRed = false
				y.rbRed = false
				gp.rbRed = true
				z = gp
			} else {
				if z == z.rbParent.rbLeft {
					z = z.rbParent
					t.rotateRight(z)
				}
				z.rbParent.rbRed = false
				z.rbParent.rbParent.rbRed = true
				t.rotateLeft(z.rbParent.rbParent)
			}
		}
	}
	t.root.rbRed = false
}

func (t *RBTree) transplant(u, v *PCB) {
	switch {
	case u.rbParent == nil:
		t.root = v
	case u == u.rbParent.rbLeft:
		u.rbParent.rbLeft = v
	default:
		u.rbParent.rbRight = v
	}
	if v != nil {
		v.rbParent = u.rbParent
	}
}

func minimum(n *PCB) *PCB {
	for n.rbLeft != nil {
		n = n.rbLeft
	}
	return n
}

// Remove performs standard transplant-based deletion with fix-up and
// clears z's links so it can be safely re-inserted later.
func (t *RBTree) Remove(z *PCB) {
	y := z
	yOriginalRed := y.rbRed
	var x, xParent *PCB

	switch {
	case z.rbLeft == nil:
		x = z.rbRight
		xParent = z.rbParent
		t.transplant(z, z.rbRight)
	case z.rbRight == nil:
		x = z.rbLeft
		xParent = z.rbParent
		t.transplant(z, z.rbLeft)
	default:
		y = minimum(z.rbRight)
		yOriginalRed = y.rbRed
		x = y.rbRight
		if y.rbParent == z {
			if x != nil {
				x.rbParent = y
			}
			xParent = y
		} else {
			t.transplant(y, y.rbRight)
			y.rbRight = z.rbRight
			if y.rbRight != nil {
				y.rbRight.rbParent = y
			}
			xParent = y.rbParent
		}
		t.transplant(z, y)
		y.rbLeft = z.rbLeft
		if y.rbLeft != nil {
			y.rbLeft.rbParent = y
		}
		y.rbRed = z.rbRed
	}

	if !yOriginalRed {
		t.removeFixup(x, xParent)
	}
	z.rbLeft, z.rbRight, z.rbParent = nil, nil, nil
	t.size--
}

func (t *RBTree) removeFixup(x, xParent *PCB) {
	for x != t.root && !isRed(x) {
		if xParent == nil {
			break
		}
		if x == xParent.rbLeft {
			w := xParent.rbRight
			if isRed(w) {
				w.rbRed = false
				xParent.rbRed = true
				t.rotateLeft(xParent)
				w = xParent.rbRight
			}
			if !isRed(w.rbLeft) && !isRed(w.rbRight) {
				if w != nil {
					w.rbRed = true
				}
				x = xParent
				xParent = x.rbParent
			} else {
				if !isRed(w.rbRight) {
					if w.rbLeft != nil {
						w.rbLeft.rbRed = false
					}
					w.rbRed = true
					t.rotateRight(w)
					w = xParent.rbRight
				}
				if w != nil {
					w.rbRed = xParent.rbRed
				}
				xParent.rbRed = false
				if w != nil && w.rbRight != nil {
					w.rbRight.rbRed = false
				}
				t.rotateLeft(xParent)
				x = t.root
			}
		} else {
			w := xParent.rbLeft
			if isRed(w) {
				w.rbRed = false
				xParent.rbRed = true
				t.rotateRight(xParent)
				w = xParent.rbLeft
			}
			if !isRed(w.rbRight) && !isRed(w.rbLeft) {
				if w != nil {
					w.rbRed = true
				}
				x = xParent
				xParent = x.rbParent
			} else {
				if !isRed(w.rbLeft) {
					if w.rbRight != nil {
						w.rbRight.rbRed = false
					}
					w.rbRed = true
					t.rotateLeft(w)
					w = xParent.rbLeft
				}
				if w != nil {
					w.rbRed = xParent.rbRed
				}
				xParent.rbRed = false
				if w != nil && w.rbLeft != nil {
					w.rbLeft.rbRed = false
				}
				t.rotateRight(xParent)
				x = t.root
			}
		}
	}
	if x != nil {
		x.rbRed = false
	}
}

// Leftmost returns the node reached by following left children from the
// root, or nil if the tree is empty.
func (t *RBTree) Leftmost() *PCB {
	if t.root == nil {
		return nil
	}
	return minimum(t.root)
}

// Rightmost returns the node reached by following right children from the
// root, or nil if the tree is empty.
func (t *RBTree) Rightmost() *PCB {
	if t.root == nil {
		return nil
	}
	n := t.root
	for n.rbRight != nil {
		n = n.rbRight
	}
	return n
}

// Search returns the node comparing equal to target, or nil.
func (t *RBTree) Search(target *PCB) *PCB {
	n := t.root
	for n != nil {
		c := t.cmp(target, n)
		switch {
		case c == 0:
			return n
		case c < 0:
			n = n.rbLeft
		default:
			n = n.rbRight
		}
	}
	return nil
}

// Count returns the number of nodes in the tree.
func (t *RBTree) Count() int { return t.size }

// Empty reports whether the tree has no nodes.
func (t *RBTree) Empty() bool { return t.root == nil }

// Inorder visits every node in ascending comparator order.
func (t *RBTree) Inorder(visit func(*PCB)) {
	var walk func(*PCB)
	walk = func(n *PCB) {
		if n == nil {
			return
		}
		walk(n.rbLeft)
		visit(n)
		walk(n.rbRight)
	}
	walk(t.root)
}

// blackHeight returns the number of black nodes on any root-to-leaf path
// (nil leaves counted as black), or a negative value if that count is not
// uniform, a red node has a red child, or the root is red. Used by tests to
// assert the red-black invariants (spec.md §8).
func (t *RBTree) blackHeight() int {
	var height func(*PCB) int
	height = func(n *PCB) int {
		if n == nil {
			return 1
		}
		if isRed(n) {
			if isRed(n.rbLeft) || isRed(n.rbRight) {
				return -2
			}
		}
		l := height(n.rbLeft)
		if l < 0 {
			return l
		}
		r := height(n.rbRight)
		if r < 0 {
			return r
		}
		if l != r {
			return -2
		}
		add := 0
		if !isRed(n) {
			add = 1
		}
		return l + add
	}
	if t.root != nil && isRed(t.root) {
		return -2
	}
	return height(t.root)
}
