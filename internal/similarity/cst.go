package similarity

// CST is the minimal concrete-syntax-tree contract the extractor needs from
// a parser collaborator. Any tree-sitter-family parser can satisfy it; the
// engine itself never imports a parser package, so it stays usable against
// any CST implementation a caller supplies.
type CST interface {
	// Kind is the grammar's node-type name, e.g. "function_definition".
	Kind() string
	// Text is the node's original source text.
	Text() string
	// StartByte and EndByte give the node's byte range in the source.
	StartByte() int
	EndByte() int
	// StartLine and EndLine are 1-based, inclusive.
	StartLine() int
	EndLine() int
	// ChildCount and Child give ordered access to named+unnamed children.
	ChildCount() int
	Child(i int) CST
	// FieldChild returns the child stored under a grammar field name (e.g.
	// tree-sitter's "name" field on a function_definition), or nil.
	FieldChild(field string) CST
	// IsNamed reports whether this node is a named grammar node as opposed
	// to an anonymous token (punctuation, keywords).
	IsNamed() bool
}

// namedChildren returns n's named children in order, skipping anonymous
// tokens (punctuation, keywords) as syntactic noise.
func namedChildren(n CST) []CST {
	count := n.ChildCount()
	out := make([]CST, 0, count)
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c != nil && c.IsNamed() {
			out = append(out, c)
		}
	}
	return out
}
