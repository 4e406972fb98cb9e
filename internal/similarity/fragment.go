package similarity

import "fmt"

// Kind is a fragment's structural category.
type Kind int

const (
	KindFunction Kind = iota + 1
	KindType
	KindRuleBlock
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindType:
		return "Type"
	case KindRuleBlock:
		return "RuleBlock"
	default:
		return "Unknown"
	}
}

// Location pins a fragment to a byte and line range within one file.
// Lines are 1-based and inclusive.
type Location struct {
	FilePath   string
	StartByte  int
	EndByte    int
	StartLine  int
	EndLine    int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d-%d", l.FilePath, l.StartLine, l.EndLine)
}

// LineCount returns the number of source lines the location spans.
func (l Location) LineCount() int {
	return l.EndLine - l.StartLine + 1
}

// Less canonicalizes pair ordering: fragment_a.location < fragment_b.location
// lexicographically, by file path then start line then start byte.
func (l Location) Less(o Location) bool {
	if l.FilePath != o.FilePath {
		return l.FilePath < o.FilePath
	}
	if l.StartLine != o.StartLine {
		return l.StartLine < o.StartLine
	}
	return l.StartByte < o.StartByte
}

// Overlaps reports whether two locations in the same file share any line,
// used to reject self-overlapping fragment pairs before comparison.
func (l Location) Overlaps(o Location) bool {
	if l.FilePath != o.FilePath {
		return false
	}
	return l.StartLine <= o.EndLine && o.StartLine <= l.EndLine
}

// InheritanceInfo captures a class/type fragment's declared bases and
// implemented interfaces, carried as data rather than resolved.
type InheritanceInfo struct {
	BaseNames      []string
	InterfaceNames []string
}

// Fragment is a unit of code submitted for comparison. Fragments are
// immutable after extraction and held by shared reference during
// comparison; they exist only for the duration of one analysis run.
type Fragment struct {
	Kind       Kind
	Identifier string
	Language   string
	Location   Location

	// SourceSize is the node count of CanonicalTree; it must always equal
	// CanonicalTree.Size().
	SourceSize int

	CanonicalTree *Node
	Fingerprint   Fingerprint

	IsTestLike       bool
	InheritanceInfo  InheritanceInfo

	// Source holds the original source text of the fragment, populated
	// only when the caller requests snippets (--print), to avoid holding
	// megabytes of source for every fragment on large repositories.
	Source string
}

// NewFragment builds a Fragment from an already-canonicalized tree,
// computing SourceSize and Fingerprint so invariant 1 holds by
// construction.
func NewFragment(kind Kind, identifier string, loc Location, tree *Node) *Fragment {
	return &Fragment{
		Kind:          kind,
		Identifier:    identifier,
		Location:      loc,
		SourceSize:    tree.Size(),
		CanonicalTree: tree,
		Fingerprint:   ComputeFingerprint(tree),
	}
}

func (f *Fragment) String() string {
	return fmt.Sprintf("Fragment{%s %s @ %s, size=%d}", f.Kind, f.Identifier, f.Location, f.SourceSize)
}
