package treemap

// Node is a weighted tree for hierarchical layout.
// A leaf contributes its own Item value; an interior node's weight is the
// sum of its descendants' weights (its own Value is ignored when it has
// children).
type Node struct {
	Item
	Children []*Node
}

// Weight returns the effective layout weight of the node.
func (n *Node) Weight() float64 {
	if len(n.Children) == 0 {
		return n.Value
	}
	sum := 0.0
	for _, c := range n.Children {
		if w := c.Weight(); w > 0 {
			sum += w
		}
	}
	return sum
}

// NodeRect is a positioned rectangle for one tree node.
type NodeRect struct {
	Rect
	Node  *Node
	Depth int
}

// TreeOptions configures hierarchical layout.
type TreeOptions struct {
	// Padding is the inset applied inside each interior rectangle before
	// laying out its children. Zero means children tile the parent exactly.
	Padding float64

	// MaxDepth limits recursion. Zero means unlimited; depth 1 lays out
	// only the root's direct children.
	MaxDepth int
}

// LayoutTree lays out a hierarchy by recursive squarification: the root's
// children tile bounds, each interior child's rectangle is inset by
// Padding and tiled by its own children, and so on.
//
// Only leaf rectangles and interior rectangles at the recursion limit are
// returned; every returned rectangle carries its depth (root children are
// depth 1). Degenerate inputs follow [Squarify]: nil root, weightless
// subtrees, and non-positive bounds produce no output.
func LayoutTree(root *Node, bounds Bounds, opts TreeOptions) []NodeRect {
	if root == nil {
		return nil
	}
	return layoutChildren(root, bounds, opts, 1, nil)
}

func layoutChildren(n *Node, bounds Bounds, opts TreeOptions, depth int, out []NodeRect) []NodeRect {
	items := make([]Item, len(n.Children))
	byItem := make(map[*Item]*Node, len(n.Children))
	for i, c := range n.Children {
		items[i] = c.Item
		items[i].Value = c.Weight()
		byItem[&items[i]] = c
	}

	for _, r := range Squarify(items, bounds) {
		child := byItem[r.Item]
		// Re-point the rect at the child's own item so callers see the
		// original node data, not the synthesized layout item.
		r.Item = &child.Item
		nr := NodeRect{Rect: r, Node: child, Depth: depth}

		if len(child.Children) == 0 || (opts.MaxDepth > 0 && depth >= opts.MaxDepth) {
			out = append(out, nr)
			continue
		}

		inner := inset(Bounds{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, opts.Padding)
		if inner.Width <= 0 || inner.Height <= 0 {
			// Too small to subdivide; keep the parent rect as a leaf.
			out = append(out, nr)
			continue
		}
		out = layoutChildren(child, inner, opts, depth+1, out)
	}
	return out
}

// inset shrinks bounds by pad on every side.
func inset(b Bounds, pad float64) Bounds {
	return Bounds{
		X:      b.X + pad,
		Y:      b.Y + pad,
		Width:  b.Width - 2*pad,
		Height: b.Height - 2*pad,
	}
}
