package similarity

// NodeRule describes how one grammar node kind delimits and describes a
// fragment.
type NodeRule struct {
	// Kind is the grammar node-type name that delimits the fragment, e.g.
	// "function_definition" or "arrow_function".
	Kind string `json:"kind"`

	// IdentifierField is the tree-sitter field name holding the fragment's
	// declared name. When it is empty, or the node has no such field,
	// Identifier is the text of the node's first identifier-like named
	// child (identifier, type_identifier, property_identifier,
	// field_identifier), or "" when it has none.
	IdentifierField string `json:"identifier_field,omitempty"`

	// BaseField and InterfaceField name the fields (if any) holding the
	// fragment's base classes / implemented interfaces, feeding
	// InheritanceInfo.
	BaseField      string `json:"base_field,omitempty"`
	InterfaceField string `json:"interface_field,omitempty"`

	// Unordered marks fragments of this kind whose top-level members
	// should be compared as a multiset rather than an ordered sequence
	// (struct/interface/class fields, CSS declarations).
	Unordered bool `json:"unordered,omitempty"`
}

// LanguageProfile is the per-language configuration table describing which
// node kinds delimit which fragment kind, and how to pull
// identifier/inheritance/test metadata out of them. It is pure data — a
// single Extractor consumes any profile, keeping the hot path monomorphic.
type LanguageProfile struct {
	Name string `json:"name"`

	FunctionNodes []NodeRule `json:"function_nodes,omitempty"`
	TypeNodes     []NodeRule `json:"type_nodes,omitempty"`
	RuleNodes     []NodeRule `json:"rule_nodes,omitempty"`

	// AttributeNodeKinds are grammar node kinds recognized as decorator /
	// annotation / derive-attribute nodes attached to a declaration.
	// AttributesAsMembers controls whether the extractor folds them into
	// the declaration's canonical child list as regular members, so two
	// declarations with different attribute sets differ structurally.
	AttributeNodeKinds  []string `json:"attribute_node_kinds,omitempty"`
	AttributesAsMembers bool     `json:"attributes_as_members,omitempty"`

	// TestNamePrefixes marks a fragment is_test_like when its identifier
	// starts with one of these prefixes.
	TestNamePrefixes []string `json:"test_name_prefixes,omitempty"`
	// TestAttributeNames marks is_test_like when one of the fragment's
	// attribute nodes' text contains one of these substrings (e.g. "test"
	// for a #[test] attribute or @Test annotation).
	TestAttributeNames []string `json:"test_attribute_names,omitempty"`

	// SuppressIdentifierText is carried in the profile schema, but the
	// Extractor does not read it: identifier leaves always keep their text
	// at extraction, and rename tolerance is governed by the kernel's
	// rename_cost.
	SuppressIdentifierText bool `json:"suppress_identifier_text,omitempty"`

	// StructuralLabels / ControlFlowLabels feed StructuralCostModel; see
	// cost.go.
	StructuralLabels  []string `json:"structural_labels,omitempty"`
	ControlFlowLabels []string `json:"control_flow_labels,omitempty"`
}

func ruleFor(rules []NodeRule, kind string) (NodeRule, bool) {
	for _, r := range rules {
		if r.Kind == kind {
			return r, true
		}
	}
	return NodeRule{}, false
}

// PythonProfile recognizes function/async-function/class definitions and
// decorated wrappers over tree-sitter-python's grammar.
func PythonProfile() *LanguageProfile {
	return &LanguageProfile{
		Name: "python",
		FunctionNodes: []NodeRule{
			{Kind: "function_definition", IdentifierField: "name"},
		},
		TypeNodes: []NodeRule{
			{Kind: "class_definition", IdentifierField: "name", BaseField: "superclasses", Unordered: true},
		},
		AttributeNodeKinds:  []string{"decorator"},
		AttributesAsMembers: true,
		TestNamePrefixes:    []string{"test_", "Test"},
		TestAttributeNames:  []string{"pytest.mark", "test"},
		StructuralLabels:    []string{"function_definition", "class_definition", "parameters", "decorator"},
		ControlFlowLabels:   []string{"if_statement", "for_statement", "while_statement", "try_statement", "with_statement", "match_statement"},
	}
}

// JavaScriptProfile covers function declarations, methods, and arrow
// functions, plus class declarations.
func JavaScriptProfile() *LanguageProfile {
	return &LanguageProfile{
		Name: "javascript",
		FunctionNodes: []NodeRule{
			{Kind: "function_declaration", IdentifierField: "name"},
			{Kind: "method_definition", IdentifierField: "name"},
			{Kind: "arrow_function"},
		},
		TypeNodes: []NodeRule{
			{Kind: "class_declaration", IdentifierField: "name", BaseField: "superclass", Unordered: true},
		},
		TestNamePrefixes:  []string{"test", "Test"},
		StructuralLabels:  []string{"function_declaration", "class_declaration", "method_definition", "formal_parameters"},
		ControlFlowLabels: []string{"if_statement", "for_statement", "while_statement", "try_statement", "switch_statement"},
	}
}

// TypeScriptProfile extends JavaScript with interfaces and type aliases.
func TypeScriptProfile() *LanguageProfile {
	p := JavaScriptProfile()
	p.Name = "typescript"
	p.TypeNodes = append(p.TypeNodes,
		NodeRule{Kind: "interface_declaration", IdentifierField: "name", InterfaceField: "extends_type_clause", Unordered: true},
		NodeRule{Kind: "type_alias_declaration", IdentifierField: "name", Unordered: true},
	)
	return p
}

// GoProfile covers function/method declarations and type declarations
// (struct/interface).
func GoProfile() *LanguageProfile {
	return &LanguageProfile{
		Name: "go",
		FunctionNodes: []NodeRule{
			{Kind: "function_declaration", IdentifierField: "name"},
			{Kind: "method_declaration", IdentifierField: "name"},
		},
		TypeNodes: []NodeRule{
			{Kind: "type_spec", IdentifierField: "name", Unordered: true},
		},
		TestNamePrefixes: []string{"Test", "Benchmark", "Example"},
		StructuralLabels: []string{"function_declaration", "method_declaration", "type_spec", "parameter_list"},
		ControlFlowLabels: []string{"if_statement", "for_statement", "expression_switch_statement",
			"type_switch_statement", "select_statement"},
	}
}

// RustProfile covers fn/struct/enum/trait/impl items and derive attributes.
func RustProfile() *LanguageProfile {
	return &LanguageProfile{
		Name: "rust",
		FunctionNodes: []NodeRule{
			{Kind: "function_item", IdentifierField: "name"},
		},
		TypeNodes: []NodeRule{
			{Kind: "struct_item", IdentifierField: "name", Unordered: true},
			{Kind: "enum_item", IdentifierField: "name", Unordered: true},
			{Kind: "trait_item", IdentifierField: "name", Unordered: true},
			{Kind: "impl_item", IdentifierField: "type", InterfaceField: "trait", Unordered: true},
		},
		AttributeNodeKinds:  []string{"attribute_item"},
		AttributesAsMembers: true,
		TestAttributeNames:  []string{"test"},
		StructuralLabels:    []string{"function_item", "struct_item", "enum_item", "trait_item", "impl_item", "attribute_item"},
		ControlFlowLabels:   []string{"if_expression", "for_expression", "while_expression", "loop_expression", "match_expression"},
	}
}

// CSSProfile treats each rule_set as a RuleBlock fragment whose top-level
// declarations are compared as a multiset.
func CSSProfile() *LanguageProfile {
	return &LanguageProfile{
		Name: "css",
		RuleNodes: []NodeRule{
			{Kind: "rule_set", Unordered: true},
		},
	}
}

// BuiltinProfiles returns the compiled-in extraction profiles keyed by
// language name.
func BuiltinProfiles() map[string]*LanguageProfile {
	return map[string]*LanguageProfile{
		"python":     PythonProfile(),
		"javascript": JavaScriptProfile(),
		"typescript": TypeScriptProfile(),
		"go":         GoProfile(),
		"rust":       RustProfile(),
		"css":        CSSProfile(),
	}
}
