package ast

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// Heading is an ATX or setext heading.
type Heading struct{ node *syntax.Node }

// AsHeading casts n to a Heading.
func AsHeading(n *syntax.Node) (Heading, bool) {
	if n == nil || n.Kind() != syntax.KindHeading {
		return Heading{}, false
	}
	return Heading{n}, true
}

// Node returns the wrapped node.
func (h Heading) Node() *syntax.Node { return h.node }

// Level returns the heading level, 1 to 6.
func (h Heading) Level() int {
	if marker := tokenText(h.node, syntax.KindAtxHeadingMarker); marker != "" {
		return len(marker)
	}
	if underline := tokenText(h.node, syntax.KindSetextHeadingUnderline); strings.HasPrefix(underline, "-") {
		return 2
	}
	return 1
}

// IsSetext reports whether the heading is underlined rather than prefixed.
func (h Heading) IsSetext() bool {
	return h.node.FirstToken(syntax.KindSetextHeadingUnderline) != nil
}

// Content returns the HEADING_CONTENT node holding the heading's inlines.
func (h Heading) Content() *syntax.Node {
	return h.node.FirstNode(syntax.KindHeadingContent)
}

// Text returns the heading text without markup.
func (h Heading) Text() string {
	if c := h.Content(); c != nil {
		return PlainText(c)
	}
	return ""
}

// Attributes returns the trailing {...} attribute block, if any.
func (h Heading) Attributes() (Attributes, bool) {
	raw := tokenText(h.node, syntax.KindAttribute)
	if raw == "" {
		return Attributes{}, false
	}
	return ParseAttributes(raw), true
}

// Paragraph is a PARAGRAPH or PLAIN block.
type Paragraph struct{ node *syntax.Node }

// AsParagraph casts n to a Paragraph. Tight list items hold PLAIN nodes,
// which are paragraphs without surrounding blank lines.
func AsParagraph(n *syntax.Node) (Paragraph, bool) {
	if n == nil || !n.Kind().Is(syntax.KindParagraph, syntax.KindPlain) {
		return Paragraph{}, false
	}
	return Paragraph{n}, true
}

// Node returns the wrapped node.
func (p Paragraph) Node() *syntax.Node { return p.node }

// Plain reports whether the paragraph belongs to a tight list.
func (p Paragraph) Plain() bool { return p.node.Kind() == syntax.KindPlain }

// Text returns the paragraph text without markup.
func (p Paragraph) Text() string { return PlainText(p.node) }

// Blockquote is a block quote container.
type Blockquote struct{ node *syntax.Node }

// AsBlockquote casts n to a Blockquote.
func AsBlockquote(n *syntax.Node) (Blockquote, bool) {
	if n == nil || n.Kind() != syntax.KindBlockquote {
		return Blockquote{}, false
	}
	return Blockquote{n}, true
}

// Node returns the wrapped node.
func (b Blockquote) Node() *syntax.Node { return b.node }

// Blocks returns the quoted blocks.
func (b Blockquote) Blocks() []*syntax.Node { return blocks(b.node) }

// List is an ordered or bullet list.
type List struct{ node *syntax.Node }

// AsList casts n to a List.
func AsList(n *syntax.Node) (List, bool) {
	if n == nil || n.Kind() != syntax.KindList {
		return List{}, false
	}
	return List{n}, true
}

// Node returns the wrapped node.
func (l List) Node() *syntax.Node { return l.node }

// Items returns the list items.
func (l List) Items() []ListItem {
	var out []ListItem
	for _, c := range l.node.ChildNodes() {
		if c.Kind() == syntax.KindListItem {
			out = append(out, ListItem{c})
		}
	}
	return out
}

// Marker returns the parsed marker of the first item.
func (l List) Marker() parser.ListMarker {
	items := l.Items()
	if len(items) == 0 {
		return parser.ListMarker{}
	}
	return items[0].Marker()
}

// Ordered reports whether the list is numbered.
func (l List) Ordered() bool { return l.Marker().Ordered() }

// Start returns the number of the first item.
func (l List) Start() int { return l.Marker().Number }

// Tight reports whether the items hold PLAIN rather than PARAGRAPH blocks.
// A list without paragraphs is tight when no blank line separates its items
// or the blocks inside them.
func (l List) Tight() bool {
	for _, item := range l.Items() {
		for _, b := range item.Blocks() {
			switch b.Kind() {
			case syntax.KindParagraph:
				return false
			case syntax.KindPlain:
				return true
			}
		}
	}
	return !parser.LooseList(l.node)
}

// ListItem is one item of a list.
type ListItem struct{ node *syntax.Node }

// AsListItem casts n to a ListItem.
func AsListItem(n *syntax.Node) (ListItem, bool) {
	if n == nil || n.Kind() != syntax.KindListItem {
		return ListItem{}, false
	}
	return ListItem{n}, true
}

// Node returns the wrapped node.
func (i ListItem) Node() *syntax.Node { return i.node }

// markerExtensions accepts every marker form the parser can produce.
//
//nolint:gochecknoglobals // Read-only preset.
var markerExtensions = config.ExtensionsFor(config.FlavorPandoc)

// Marker returns the item's parsed marker.
func (i ListItem) Marker() parser.ListMarker {
	m, _ := parser.ParseListMarker(tokenText(i.node, syntax.KindListMarker), &markerExtensions)
	return m
}

// Task reports whether the item has a task checkbox and whether it is checked.
func (i ListItem) Task() (checked, ok bool) {
	box := tokenText(i.node, syntax.KindTaskCheckbox)
	if box == "" {
		return false, false
	}
	return box[1] == 'x' || box[1] == 'X', true
}

// Blocks returns the item's content blocks.
func (i ListItem) Blocks() []*syntax.Node { return blocks(i.node) }

// CodeBlock is a fenced or indented code block.
type CodeBlock struct{ node *syntax.Node }

// AsCodeBlock casts n to a CodeBlock.
func AsCodeBlock(n *syntax.Node) (CodeBlock, bool) {
	if n == nil || !n.Kind().Is(syntax.KindCodeBlock, syntax.KindIndentedCode) {
		return CodeBlock{}, false
	}
	return CodeBlock{n}, true
}

// Node returns the wrapped node.
func (c CodeBlock) Node() *syntax.Node { return c.node }

// Fenced reports whether the block uses fences.
func (c CodeBlock) Fenced() bool { return c.node.Kind() == syntax.KindCodeBlock }

// Fence returns the opening fence, or "" for indented code.
func (c CodeBlock) Fence() string { return tokenText(c.node, syntax.KindCodeFenceMarker) }

// Info returns the info string after the opening fence.
func (c CodeBlock) Info() string { return tokenText(c.node, syntax.KindCodeInfo) }

// Language returns the language named by the info string: the first word,
// or the first class of an attribute block such as {.python}.
func (c CodeBlock) Language() string {
	return InfoLanguage(c.Info())
}

// InfoLanguage extracts the language from a code block info string.
func InfoLanguage(info string) string {
	info = strings.TrimSpace(info)
	if strings.HasPrefix(info, "{") {
		attrs := ParseAttributes(info)
		if len(attrs.Classes) > 0 {
			return attrs.Classes[0]
		}
		inner := strings.Trim(info, "{} ")
		if fields := strings.Fields(inner); len(fields) > 0 && !strings.ContainsAny(fields[0], "#=") {
			return strings.TrimPrefix(fields[0], ".")
		}
		return ""
	}
	if fields := strings.Fields(info); len(fields) > 0 {
		return strings.TrimPrefix(fields[0], ".")
	}
	return ""
}

// Code returns the code text without fences or block indentation.
func (c CodeBlock) Code() string {
	if c.Fenced() {
		if content := c.node.FirstNode(syntax.KindCodeContent); content != nil {
			return contentText(content)
		}
		return ""
	}
	return contentText(c.node)
}

// Closed reports whether a fenced block has its closing fence.
func (c CodeBlock) Closed() bool {
	if !c.Fenced() {
		return true
	}
	n := 0
	for _, t := range c.node.ChildTokens() {
		if t.Kind() == syntax.KindCodeFenceMarker {
			n++
		}
	}
	return n >= 2
}

// FencedDiv is a Pandoc ::: div.
type FencedDiv struct{ node *syntax.Node }

// AsFencedDiv casts n to a FencedDiv.
func AsFencedDiv(n *syntax.Node) (FencedDiv, bool) {
	if n == nil || n.Kind() != syntax.KindFencedDiv {
		return FencedDiv{}, false
	}
	return FencedDiv{n}, true
}

// Node returns the wrapped node.
func (d FencedDiv) Node() *syntax.Node { return d.node }

// Info returns the text after the opening fence.
func (d FencedDiv) Info() string { return tokenText(d.node, syntax.KindDivInfo) }

// Attributes parses the info as attributes. A bare word is a class.
func (d FencedDiv) Attributes() Attributes {
	info := d.Info()
	if strings.HasPrefix(info, "{") {
		return ParseAttributes(info)
	}
	return Attributes{Classes: []string{info}}
}

// Blocks returns the div's content.
func (d FencedDiv) Blocks() []*syntax.Node { return blocks(d.node) }

// DefinitionItem is one term of a definition list with its definitions.
type DefinitionItem struct{ node *syntax.Node }

// AsDefinitionItem casts n to a DefinitionItem.
func AsDefinitionItem(n *syntax.Node) (DefinitionItem, bool) {
	if n == nil || n.Kind() != syntax.KindDefinitionItem {
		return DefinitionItem{}, false
	}
	return DefinitionItem{n}, true
}

// Node returns the wrapped node.
func (d DefinitionItem) Node() *syntax.Node { return d.node }

// Term returns the term text without markup.
func (d DefinitionItem) Term() string {
	if t := d.node.FirstNode(syntax.KindTerm); t != nil {
		return PlainText(t)
	}
	return ""
}

// Loose reports whether a blank line separates the term from its
// definitions.
func (d DefinitionItem) Loose() bool {
	for _, t := range d.node.ChildTokens() {
		if t.Kind() == syntax.KindBlankLine {
			return true
		}
	}
	return false
}

// Definitions returns the DEFINITION nodes of the item.
func (d DefinitionItem) Definitions() []*syntax.Node {
	var out []*syntax.Node
	for _, c := range d.node.ChildNodes() {
		if c.Kind() == syntax.KindDefinition {
			out = append(out, c)
		}
	}
	return out
}

// FootnoteDefinition is a [^label]: block.
type FootnoteDefinition struct{ node *syntax.Node }

// AsFootnoteDefinition casts n to a FootnoteDefinition.
func AsFootnoteDefinition(n *syntax.Node) (FootnoteDefinition, bool) {
	if n == nil || n.Kind() != syntax.KindFootnoteDefinition {
		return FootnoteDefinition{}, false
	}
	return FootnoteDefinition{n}, true
}

// Node returns the wrapped node.
func (f FootnoteDefinition) Node() *syntax.Node { return f.node }

// Label returns the footnote identifier without brackets or caret.
func (f FootnoteDefinition) Label() string {
	label := tokenText(f.node, syntax.KindFootnoteLabel)
	return strings.TrimSuffix(strings.TrimPrefix(label, "[^"), "]:")
}

// Blocks returns the footnote's content.
func (f FootnoteDefinition) Blocks() []*syntax.Node { return blocks(f.node) }

// ReferenceDefinition is a [label]: url "title" line.
type ReferenceDefinition struct{ node *syntax.Node }

// AsReferenceDefinition casts n to a ReferenceDefinition.
func AsReferenceDefinition(n *syntax.Node) (ReferenceDefinition, bool) {
	if n == nil || n.Kind() != syntax.KindReferenceDefinition {
		return ReferenceDefinition{}, false
	}
	return ReferenceDefinition{n}, true
}

// Node returns the wrapped node.
func (r ReferenceDefinition) Node() *syntax.Node { return r.node }

// Label returns the label as written, without brackets.
func (r ReferenceDefinition) Label() string {
	return strings.TrimSuffix(strings.TrimPrefix(tokenText(r.node, syntax.KindReferenceLabel), "["), "]")
}

// URL returns the destination without angle brackets.
func (r ReferenceDefinition) URL() string {
	url := tokenText(r.node, syntax.KindReferenceURL)
	if strings.HasPrefix(url, "<") && strings.HasSuffix(url, ">") {
		return url[1 : len(url)-1]
	}
	return url
}

// Title returns the title without its delimiters.
func (r ReferenceDefinition) Title() string {
	title := tokenText(r.node, syntax.KindReferenceTitle)
	if len(title) < 2 {
		return ""
	}
	return title[1 : len(title)-1]
}

// PipeTable is a table of pipe-separated cells.
type PipeTable struct{ node *syntax.Node }

// AsPipeTable casts n to a PipeTable.
func AsPipeTable(n *syntax.Node) (PipeTable, bool) {
	if n == nil || n.Kind() != syntax.KindPipeTable {
		return PipeTable{}, false
	}
	return PipeTable{n}, true
}

// Node returns the wrapped node.
func (t PipeTable) Node() *syntax.Node { return t.node }

// Alignment is the horizontal alignment of a table column.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Header returns the header cells.
func (t PipeTable) Header() []*syntax.Node {
	if h := t.node.FirstNode(syntax.KindTableHeader); h != nil {
		return cells(h)
	}
	return nil
}

// Rows returns the cells of each body row.
func (t PipeTable) Rows() [][]*syntax.Node {
	var out [][]*syntax.Node
	for _, c := range t.node.ChildNodes() {
		if c.Kind() == syntax.KindTableRow {
			out = append(out, cells(c))
		}
	}
	return out
}

// Alignments returns the alignment of each column from the separator row.
func (t PipeTable) Alignments() []Alignment {
	sep := t.node.FirstNode(syntax.KindTableSeparator)
	if sep == nil {
		return nil
	}
	var out []Alignment
	for _, tok := range sep.ChildTokens() {
		if tok.Kind() != syntax.KindTableSeparatorText {
			continue
		}
		s := tok.Text()
		left, right := strings.HasPrefix(s, ":"), strings.HasSuffix(s, ":")
		switch {
		case left && right:
			out = append(out, AlignCenter)
		case left:
			out = append(out, AlignLeft)
		case right:
			out = append(out, AlignRight)
		default:
			out = append(out, AlignDefault)
		}
	}
	return out
}

// Caption returns the caption node, or nil.
func (t PipeTable) Caption() *syntax.Node {
	return t.node.FirstNode(syntax.KindTableCaption)
}

func cells(row *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range row.ChildNodes() {
		if c.Kind() == syntax.KindTableCell {
			out = append(out, c)
		}
	}
	return out
}

// YAMLMetadata is a front matter block.
type YAMLMetadata struct{ node *syntax.Node }

// Node returns the wrapped node.
func (y YAMLMetadata) Node() *syntax.Node { return y.node }

// Content returns the YAML between the delimiter lines.
func (y YAMLMetadata) Content() string {
	var sb strings.Builder
	opened := false
	for _, t := range y.node.ChildTokens() {
		switch {
		case t.Kind() == syntax.KindYAMLDelimiter && opened:
			return sb.String()
		case !opened:
			opened = t.Kind() == syntax.KindNewline
		case t.Kind() == syntax.KindText || t.Kind() == syntax.KindNewline:
			sb.WriteString(t.Text())
		}
	}
	return sb.String()
}
