// Package similarity implements the structural similarity engine: fragment
// extraction, the canonical tree model, the TSED kernel, the fingerprint
// prefilter, the structural (multiset) comparator, and the pair orchestrator.
package similarity

import "fmt"

// Node is a canonical tree node: a normalized representation of a syntax
// subtree that every comparator in this package consumes. Whitespace and
// comments never reach this layer; the extractor strips them while walking
// the parser's concrete syntax tree.
type Node struct {
	// Label is the grammar node kind the extractor read the node from,
	// e.g. "function_definition", "call", "identifier". Hand-built trees
	// may use any label, e.g. "FunctionDecl" or "Identifier".
	Label string

	// Value is the source text of a leaf node, or "" on an inner node.
	// Extractor.canonicalize sets it on every leaf, so identifier and
	// literal text is kept and the TSED kernel's Rename cost charges for
	// a differing value.
	Value string

	// Children is ordered. Sibling order matters for statements and
	// expressions; it is irrelevant for struct fields and CSS
	// declarations, which is why Unordered exists.
	Children []*Node

	// Unordered marks a node whose immediate children should be treated
	// as a multiset by the structural comparator. The TSED kernel never
	// consults this flag — order-sensitivity is a property of the
	// comparator chosen for the fragment's kind, not of the tree.
	Unordered bool

	// PostOrderID and LeftMostLeaf are computed by Prepare and consumed by
	// the TSED kernel's key-root decomposition. They are undefined until
	// Prepare has been called on the tree's root.
	PostOrderID  int
	LeftMostLeaf int
}

// NewNode creates a leaf node with the given label.
func NewNode(label string) *Node {
	return &Node{Label: label}
}

// AddChild appends a child, ignoring nil.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Size returns the number of nodes in the subtree rooted at n, including n.
// Fragment.SourceSize must always equal this value.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// Height returns the height of the subtree rooted at n (0 for a leaf).
func (n *Node) Height() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	max := 0
	for _, c := range n.Children {
		if h := c.Height(); h > max {
			max = h
		}
	}
	return max + 1
}

// LeafIdentifierCount counts leaves whose label denotes an identifier
// occurrence, used by the fingerprint.
func (n *Node) LeafIdentifierCount() int {
	if n == nil {
		return 0
	}
	count := 0
	if n.IsLeaf() {
		switch n.Label {
		case "Identifier", "identifier", "type_identifier", "property_identifier", "field_identifier":
			count = 1
		}
	}
	for _, c := range n.Children {
		count += c.LeafIdentifierCount()
	}
	return count
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{Label:%s, Value:%q, Children:%d}", n.Label, n.Value, len(n.Children))
}

// postOrderNodes returns every node in the subtree in post-order and assigns
// PostOrderID / LeftMostLeaf in the same pass, which the TSED kernel needs to
// decompose the tree into key-root paths.
func postOrderNodes(root *Node) []*Node {
	if root == nil {
		return nil
	}
	nodes := make([]*Node, 0, root.Size())
	var walk func(n *Node) int // returns leftmost leaf post-order id
	walk = func(n *Node) int {
		leftMost := -1
		for i, c := range n.Children {
			lm := walk(c)
			if i == 0 {
				leftMost = lm
			}
		}
		n.PostOrderID = len(nodes)
		if n.IsLeaf() {
			leftMost = n.PostOrderID
		}
		n.LeftMostLeaf = leftMost
		nodes = append(nodes, n)
		return leftMost
	}
	walk(root)
	return nodes
}

// keyRoots identifies the key roots of a tree prepared by postOrderNodes: a
// node is a key root if no earlier-visited node shares its left-most leaf.
// This is the classic Zhang-Shasha / APTED path decomposition.
func keyRoots(nodes []*Node) []int {
	seen := make(map[int]bool, len(nodes))
	roots := make([]int, 0)
	// Key roots must be identified from the root down so a parent is
	// recorded before any of its left-spine descendants share its leaf.
	var order []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		order = append(order, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	if len(nodes) > 0 {
		// nodes is in post-order; the root is the last element.
		walk(nodes[len(nodes)-1])
	}
	for _, n := range order {
		if !seen[n.LeftMostLeaf] {
			roots = append(roots, n.PostOrderID)
			seen[n.LeftMostLeaf] = true
		}
	}
	return roots
}

// Prepare computes PostOrderID and LeftMostLeaf for every node in the tree
// and returns the tree's key roots in reverse pre-order. The TSED kernel
// sorts them by post-order id before use.
func Prepare(root *Node) (nodes []*Node, roots []int) {
	if root == nil {
		return nil, nil
	}
	nodes = postOrderNodes(root)
	roots = keyRoots(nodes)
	// This is not a post-order sort; Distance in tsed.go sorts the roots
	// it consumes.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return nodes, roots
}
