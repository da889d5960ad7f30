package syntax

import "strings"

// Range is a half-open byte range [Start, End) into the source text.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Element is either a *Node or a *Token.
type Element interface {
	// Kind returns the discriminant of the element.
	Kind() Kind

	// Range returns the byte range the element covers in the source.
	Range() Range

	// Text returns the exact source text of the element.
	Text() string

	element()
}

// Token is a leaf of the tree holding a literal slice of the source.
type Token struct {
	kind   Kind
	text   string
	offset int
}

// NewToken creates a detached token. Its offset is assigned by Reindex.
func NewToken(kind Kind, text string) *Token {
	return &Token{kind: kind, text: text}
}

// Kind returns the token kind.
func (t *Token) Kind() Kind { return t.kind }

// Text returns the literal text of the token.
func (t *Token) Text() string { return t.text }

// Range returns the byte range of the token.
func (t *Token) Range() Range {
	return Range{Start: t.offset, End: t.offset + len(t.text)}
}

// SetKind reclassifies the token. Only the parser should call it.
func (t *Token) SetKind(kind Kind) { t.kind = kind }

func (t *Token) element() {}

// Node is an interior element of the tree. A node owns its children exclusively.
type Node struct {
	kind     Kind
	offset   int
	width    int
	children []Element
}

// NewNode creates a detached node with the given children.
func NewNode(kind Kind, children ...Element) *Node {
	n := &Node{kind: kind, children: children}
	n.width = n.measure()
	return n
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Range returns the byte range covered by the node's tokens.
func (n *Node) Range() Range {
	return Range{Start: n.offset, End: n.offset + n.width}
}

// Text concatenates the text of every token below n.
func (n *Node) Text() string {
	var sb strings.Builder
	sb.Grow(n.width)
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, child := range n.children {
		switch c := child.(type) {
		case *Token:
			sb.WriteString(c.text)
		case *Node:
			c.writeText(sb)
		}
	}
}

func (n *Node) measure() int {
	total := 0
	for _, child := range n.children {
		switch c := child.(type) {
		case *Token:
			total += len(c.text)
		case *Node:
			total += c.width
		}
	}
	return total
}

func (n *Node) element() {}

// Children returns the ordered children of n. The slice must not be modified.
func (n *Node) Children() []Element { return n.children }

// ChildNodes returns the direct children of n that are nodes.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for _, child := range n.children {
		if c, ok := child.(*Node); ok {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// ChildTokens returns the direct children of n that are tokens.
func (n *Node) ChildTokens() []*Token {
	var tokens []*Token
	for _, child := range n.children {
		if c, ok := child.(*Token); ok {
			tokens = append(tokens, c)
		}
	}
	return tokens
}

// FirstToken returns the first direct child token of the given kind, or nil.
func (n *Node) FirstToken(kind Kind) *Token {
	for _, child := range n.children {
		if c, ok := child.(*Token); ok && c.kind == kind {
			return c
		}
	}
	return nil
}

// FirstNode returns the first direct child node whose kind is one of kinds, or nil.
func (n *Node) FirstNode(kinds ...Kind) *Node {
	for _, child := range n.children {
		if c, ok := child.(*Node); ok && c.kind.Is(kinds...) {
			return c
		}
	}
	return nil
}

// LastChild returns the last child element, or nil.
func (n *Node) LastChild() Element {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// SetKind reclassifies the node. Only the parser should call it.
func (n *Node) SetKind(kind Kind) { n.kind = kind }

// SetChildren replaces the children of n. Offsets are stale until Reindex runs.
func (n *Node) SetChildren(children []Element) {
	n.children = children
	n.width = n.measure()
}

// Append adds elements to the end of n's children.
func (n *Node) Append(elements ...Element) {
	n.children = append(n.children, elements...)
	for _, el := range elements {
		switch c := el.(type) {
		case *Token:
			n.width += len(c.text)
		case *Node:
			n.width += c.width
		}
	}
}

// Reindex assigns offsets to every element below root, starting at base,
// and refreshes cached widths. It returns the end offset.
func Reindex(root *Node, base int) int {
	root.offset = base
	pos := base
	for _, child := range root.children {
		switch c := child.(type) {
		case *Token:
			c.offset = pos
			pos += len(c.text)
		case *Node:
			pos = Reindex(c, pos)
		}
	}
	root.width = pos - base
	return pos
}
