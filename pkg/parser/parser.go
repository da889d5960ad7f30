// Package parser builds the lossless syntax tree for Pandoc and Quarto
// flavoured Markdown.
//
// Parsing never fails. Text that does not form a recognised construct is
// kept as plain text, and the resulting tree always reproduces the input
// byte for byte.
package parser

import (
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// Parse parses text with the extensions of cfg. A nil cfg uses the defaults.
func Parse(text string, cfg *config.Config) *syntax.Node {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return ParseWithExtensions(text, &cfg.Ext)
}

// ParseWithExtensions parses text with an explicit extension set.
func ParseWithExtensions(text string, ext *config.Extensions) *syntax.Node {
	root, refs := parseBlocks(text, ext)
	parseInlineTree(root, ext, refs)
	resolveTightness(root)
	syntax.Reindex(root, 0)
	return root
}

// ParseInline parses text as the inline content of a single paragraph. It is
// used to re-parse fragments, such as a heading's text, without block structure.
func ParseInline(text string, ext *config.Extensions) []syntax.Element {
	return parseInlines(text, ext, nil)
}
