// Package gfm renders GitHub-flavored Markdown documents into plain text plus
// entities via a goldmark AST walk. It targets whole documents (LLM output,
// READMEs): headings, lists, task lists, tables and thematic breaks are given
// textual renderings, while inline formatting becomes entities.
//
// For the strict inline markup dialect with degradation semantics, see
// internal/markup.
package gfm

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/markupify/markupify-go/internal/types"
)

// standardOptions enables the goldmark extensions the renderer understands.
var standardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,
		extension.DefinitionList,
		extension.Footnote,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
}

// Parse renders a Markdown document to (text, entities, segments).
func Parse(markdown string, config *types.RenderConfig) (string, []types.MessageEntity, []Segment) {
	if config == nil {
		config = types.DefaultRenderConfig()
	}

	md := goldmark.New(standardOptions...)
	source := []byte(markdown)
	node := md.Parser().Parse(text.NewReader(source))

	walker := newWalker(source, config)
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return walker.walk(n, entering)
	})

	return walker.result()
}
