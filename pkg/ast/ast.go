// Package ast provides typed, read-only views over the syntax tree.
//
// A view wraps a *syntax.Node of the matching kind and answers questions
// about it (a heading's level, a link's destination) by scanning the node's
// children each time. Views hold no state of their own, so they always agree
// with the tree.
package ast

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// Document is the root of a parsed file.
type Document struct{ node *syntax.Node }

// AsDocument casts n to a Document.
func AsDocument(n *syntax.Node) (Document, bool) {
	if n == nil || n.Kind() != syntax.KindDocument {
		return Document{}, false
	}
	return Document{n}, true
}

// Node returns the wrapped node.
func (d Document) Node() *syntax.Node { return d.node }

// Blocks returns the top-level blocks.
func (d Document) Blocks() []*syntax.Node { return blocks(d.node) }

// Headings returns every heading in document order, including nested ones.
func (d Document) Headings() []Heading {
	var out []Heading
	for _, n := range syntax.FindByKind(d.node, syntax.KindHeading) {
		out = append(out, Heading{n})
	}
	return out
}

// Metadata returns the YAML metadata block, if the document starts with one.
func (d Document) Metadata() (YAMLMetadata, bool) {
	for _, n := range d.node.ChildNodes() {
		if n.Kind() == syntax.KindYAMLMetadata {
			return YAMLMetadata{n}, true
		}
	}
	return YAMLMetadata{}, false
}

// ReferenceDefinitions returns every link reference definition.
func (d Document) ReferenceDefinitions() []ReferenceDefinition {
	var out []ReferenceDefinition
	for _, n := range syntax.FindByKind(d.node, syntax.KindReferenceDefinition) {
		out = append(out, ReferenceDefinition{n})
	}
	return out
}

// FootnoteDefinitions returns every footnote definition.
func (d Document) FootnoteDefinitions() []FootnoteDefinition {
	var out []FootnoteDefinition
	for _, n := range syntax.FindByKind(d.node, syntax.KindFootnoteDefinition) {
		out = append(out, FootnoteDefinition{n})
	}
	return out
}

// blocks returns the block-level child nodes of n.
func blocks(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.ChildNodes() {
		if c.Kind().IsBlock() {
			out = append(out, c)
		}
	}
	return out
}

// PlainText renders the inline content of n as text: markers and
// whitespace tokens that belong to container prefixes are dropped, escapes
// are resolved, and line breaks become single spaces.
func PlainText(n *syntax.Node) string {
	var sb strings.Builder
	writePlain(&sb, n.Children())
	return strings.TrimSpace(sb.String())
}

func writePlain(sb *strings.Builder, els []syntax.Element) {
	for _, el := range els {
		switch e := el.(type) {
		case *syntax.Token:
			switch e.Kind() {
			case syntax.KindText, syntax.KindLinkDest, syntax.KindCitationKey:
				sb.WriteString(e.Text())
			case syntax.KindEscapedChar:
				sb.WriteString(e.Text()[1:])
			case syntax.KindNewline, syntax.KindHardLineBreak, syntax.KindNonbreakingSpace:
				sb.WriteByte(' ')
			case syntax.KindCitationMarker:
				if strings.HasSuffix(e.Text(), "@") {
					sb.WriteByte('@')
				}
			}
		case *syntax.Node:
			switch e.Kind() {
			case syntax.KindFootnoteReference, syntax.KindInlineFootnote:
			case syntax.KindLink, syntax.KindImage, syntax.KindBracketedSpan:
				writePlain(sb, bracketLabel(e))
			default:
				writePlain(sb, e.Children())
			}
		}
	}
}

// bracketLabel returns the elements between the opening bracket and the
// LINK_END of a link, image or span.
func bracketLabel(n *syntax.Node) []syntax.Element {
	children := n.Children()
	for i, el := range children {
		if t, ok := el.(*syntax.Token); ok && t.Kind() == syntax.KindLinkEnd {
			return children[1:i]
		}
	}
	if len(children) == 0 {
		return nil
	}
	return children[1:]
}

// tokenText returns the text of the first direct token of kind, or "".
func tokenText(n *syntax.Node, kind syntax.Kind) string {
	if t := n.FirstToken(kind); t != nil {
		return t.Text()
	}
	return ""
}

// contentText concatenates the TEXT and NEWLINE tokens directly below n.
func contentText(n *syntax.Node) string {
	var sb strings.Builder
	for _, t := range n.ChildTokens() {
		if t.Kind() == syntax.KindText || t.Kind() == syntax.KindNewline {
			sb.WriteString(t.Text())
		}
	}
	return sb.String()
}
