package similarity

import "strings"

// ExtractOptions gates which fragments the extractor keeps, dropping
// fragments below the configured floor.
type ExtractOptions struct {
	MinLines  int
	MinTokens int
	// SkipTestLike drops fragments the profile's test_predicate marks as
	// test code before they ever reach a bucket.
	SkipTestLike bool
}

// Extractor walks a parsed file's CST under a LanguageProfile, producing
// the Fragments a run compares. One Extractor is shared across every file
// of a given language; it holds no per-file state.
type Extractor struct {
	Profile *LanguageProfile
	Options ExtractOptions
}

// NewExtractor builds an Extractor for one language profile.
func NewExtractor(profile *LanguageProfile, options ExtractOptions) *Extractor {
	return &Extractor{Profile: profile, Options: options}
}

// Extract walks root and returns every fragment the profile recognizes in
// filePath, in source order.
func (e *Extractor) Extract(root CST, filePath string) []*Fragment {
	var out []*Fragment
	e.walk(root, filePath, nil, &out)
	return out
}

// walk processes one node's named children in order, accumulating leading
// attribute nodes (decorators, #[derive(...)], annotations) so they can be
// folded into the next declaration's canonical tree: two declarations
// differing only in attribute set then differ structurally.
func (e *Extractor) walk(node CST, filePath string, pendingAttrs []CST, out *[]*Fragment) {
	children := namedChildren(node)
	var pending []CST
	for _, c := range children {
		if e.isAttributeNode(c) {
			pending = append(pending, c)
			continue
		}

		if f := e.tryExtract(c, filePath, pending); f != nil {
			*out = append(*out, f)
			pending = nil
			e.walk(c, filePath, nil, out)
			continue
		}

		pending = nil
		e.walk(c, filePath, nil, out)
	}
}

func (e *Extractor) isAttributeNode(n CST) bool {
	for _, kind := range e.Profile.AttributeNodeKinds {
		if n.Kind() == kind {
			return true
		}
	}
	return false
}

// tryExtract builds a Fragment if node's kind matches one of the profile's
// function/type/rule rules, or returns nil.
func (e *Extractor) tryExtract(node CST, filePath string, attrs []CST) *Fragment {
	if rule, ok := ruleFor(e.Profile.FunctionNodes, node.Kind()); ok {
		return e.build(KindFunction, rule, node, filePath, attrs)
	}
	if rule, ok := ruleFor(e.Profile.TypeNodes, node.Kind()); ok {
		return e.build(KindType, rule, node, filePath, attrs)
	}
	if rule, ok := ruleFor(e.Profile.RuleNodes, node.Kind()); ok {
		return e.build(KindRuleBlock, rule, node, filePath, attrs)
	}
	return nil
}

func (e *Extractor) build(kind Kind, rule NodeRule, node CST, filePath string, attrs []CST) *Fragment {
	loc := Location{
		FilePath:  filePath,
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		StartLine: node.StartLine(),
		EndLine:   node.EndLine(),
	}
	if loc.LineCount() < e.Options.MinLines {
		return nil
	}

	tree := e.canonicalize(node, rule.Unordered)
	if e.Options.MinTokens > 0 && tree.Size() < e.Options.MinTokens {
		return nil
	}

	if rule.Unordered {
		tree.Unordered = true
	}

	if e.Profile.AttributesAsMembers {
		for i := len(attrs) - 1; i >= 0; i-- {
			attrNode := e.canonicalize(attrs[i], false)
			tree.Children = append([]*Node{attrNode}, tree.Children...)
		}
	}

	identifier := e.identifier(node, rule)
	f := NewFragment(kind, identifier, loc, tree)
	f.Language = e.Profile.Name
	f.IsTestLike = e.isTestLike(identifier, attrs)
	if e.Options.SkipTestLike && f.IsTestLike {
		return nil
	}
	f.InheritanceInfo = e.inheritance(node, rule)
	return f
}

func (e *Extractor) identifier(node CST, rule NodeRule) string {
	if rule.IdentifierField != "" {
		if id := node.FieldChild(rule.IdentifierField); id != nil {
			return id.Text()
		}
	}
	for _, c := range namedChildren(node) {
		switch c.Kind() {
		case "identifier", "type_identifier", "property_identifier", "field_identifier":
			return c.Text()
		}
	}
	return ""
}

func (e *Extractor) inheritance(node CST, rule NodeRule) InheritanceInfo {
	var info InheritanceInfo
	if rule.BaseField != "" {
		if n := node.FieldChild(rule.BaseField); n != nil {
			info.BaseNames = leafTexts(n)
		}
	}
	if rule.InterfaceField != "" {
		if n := node.FieldChild(rule.InterfaceField); n != nil {
			info.InterfaceNames = leafTexts(n)
		}
	}
	return info
}

// leafTexts collects the text of a subtree's identifier-like leaves,
// used to read out a comma-separated base/interface list without needing
// to know the exact grammar shape of every language's clause node.
func leafTexts(n CST) []string {
	if n.ChildCount() == 0 {
		return []string{n.Text()}
	}
	var out []string
	for _, c := range namedChildren(n) {
		out = append(out, leafTexts(c)...)
	}
	if len(out) == 0 {
		return []string{n.Text()}
	}
	return out
}

func (e *Extractor) isTestLike(identifier string, attrs []CST) bool {
	for _, prefix := range e.Profile.TestNamePrefixes {
		if strings.HasPrefix(identifier, prefix) {
			return true
		}
	}
	for _, attr := range attrs {
		text := attr.Text()
		for _, name := range e.Profile.TestAttributeNames {
			if strings.Contains(text, name) {
				return true
			}
		}
	}
	return false
}

// canonicalize converts one CST subtree into a canonical Node, discarding
// unnamed tokens (whitespace, comments, and syntactic punctuation) and
// setting Value to the source text of every leaf.
func (e *Extractor) canonicalize(n CST, unordered bool) *Node {
	node := &Node{Label: n.Kind(), Unordered: unordered}
	kids := namedChildren(n)
	if len(kids) == 0 {
		node.Value = n.Text()
		return node
	}
	for _, c := range kids {
		node.AddChild(e.canonicalize(c, false))
	}
	return node
}
