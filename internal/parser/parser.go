// Package parser wraps tree-sitter grammars behind a single multi-language
// Parser, and adapts sitter.Node into the similarity engine's CST contract
// so internal/similarity never imports go-tree-sitter directly.
package parser

import (
	"context"
	"fmt"
	"io"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kelvinlabs/dupescan/internal/similarity"
)

// Language names the tree-sitter grammar to parse a file with. These are
// the language keys internal/similarity.BuiltinProfiles is keyed by.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageCSS        Language = "css"
)

var grammars = map[Language]func() *sitter.Language{
	LanguagePython:     python.GetLanguage,
	LanguageJavaScript: javascript.GetLanguage,
	LanguageTypeScript: typescript.GetLanguage,
	LanguageGo:         golang.GetLanguage,
	LanguageRust:       rust.GetLanguage,
	LanguageCSS:        css.GetLanguage,
}

// LanguageByExtension maps a file extension (including the leading dot) to
// the Language that should parse it. Files with an unrecognized extension
// are skipped by the discovery layer before ever reaching the parser.
var LanguageByExtension = map[string]Language{
	".py":  LanguagePython,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".tsx": LanguageTypeScript,
	".go":  LanguageGo,
	".rs":  LanguageRust,
	".css": LanguageCSS,
}

// Parser parses source text for one language into a CST-compatible tree.
// A Parser is not safe for concurrent use; callers running a worker pool
// should construct one Parser per worker.
type Parser struct {
	language Language
	sitter   *sitter.Parser
}

// New creates a Parser for the given language, or an error if the
// language has no registered grammar.
func New(lang Language) (*Parser, error) {
	grammar, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("parser: no grammar registered for language %q", lang)
	}
	p := sitter.NewParser()
	p.SetLanguage(grammar())
	return &Parser{language: lang, sitter: p}, nil
}

// ParseResult holds a parsed tree together with the source bytes it was
// derived from, since sitterNode.Content needs the original buffer.
type ParseResult struct {
	Tree     *sitter.Tree
	Root     similarity.CST
	Language Language
	Source   []byte
}

// Parse parses source and adapts the resulting tree's root into a CST.
// It returns an error if the tree contains any syntax error, failing fast
// rather than returning a partial tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.sitter.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to parse source: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parser: syntax errors found in source")
	}
	return &ParseResult{
		Tree:     tree,
		Root:     &sitterNode{node: root, source: source},
		Language: p.language,
		Source:   source,
	}, nil
}

// ParseFile reads r fully and parses it.
func (p *Parser) ParseFile(ctx context.Context, r io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read source: %w", err)
	}
	return p.Parse(ctx, source)
}

// sitterNode adapts a *sitter.Node into similarity.CST. It carries the
// original source buffer so Text() can slice into it without a second
// parameter threaded through every CST method.
type sitterNode struct {
	node   *sitter.Node
	source []byte
}

func (n *sitterNode) Kind() string { return n.node.Type() }

func (n *sitterNode) Text() string { return n.node.Content(n.source) }

func (n *sitterNode) StartByte() int { return int(n.node.StartByte()) }
func (n *sitterNode) EndByte() int   { return int(n.node.EndByte()) }

func (n *sitterNode) StartLine() int { return int(n.node.StartPoint().Row) + 1 }
func (n *sitterNode) EndLine() int   { return int(n.node.EndPoint().Row) + 1 }

func (n *sitterNode) ChildCount() int { return int(n.node.ChildCount()) }

func (n *sitterNode) Child(i int) similarity.CST {
	c := n.node.Child(i)
	if c == nil {
		return nil
	}
	return &sitterNode{node: c, source: n.source}
}

func (n *sitterNode) FieldChild(field string) similarity.CST {
	c := n.node.ChildByFieldName(field)
	if c == nil {
		return nil
	}
	return &sitterNode{node: c, source: n.source}
}

func (n *sitterNode) IsNamed() bool { return n.node.IsNamed() }
