package syntax

import "fmt"

// Builder assembles a tree from a stream of StartNode, Token and FinishNode calls.
// It never alters token text, so the finished tree reproduces exactly the bytes
// that were appended.
//
// Misuse (finishing a node that was never started, calling Finish with open
// nodes) is a programming error and panics.
type Builder struct {
	root  *Node
	stack []*Node
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// StartNode opens a node of the given kind as the last child of the current node.
func (b *Builder) StartNode(kind Kind) {
	if !kind.IsNode() {
		panic(fmt.Sprintf("syntax: StartNode with token kind %s", kind))
	}
	node := &Node{kind: kind}
	if len(b.stack) == 0 {
		if b.root != nil {
			panic("syntax: second root node")
		}
		b.root = node
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.children = append(parent.children, node)
	}
	b.stack = append(b.stack, node)
}

// FinishNode closes the current node.
func (b *Builder) FinishNode() {
	if len(b.stack) == 0 {
		panic("syntax: FinishNode without open node")
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// FinishTo closes open nodes until only depth nodes remain open.
func (b *Builder) FinishTo(depth int) {
	for len(b.stack) > depth {
		b.FinishNode()
	}
}

// Token appends a token to the current node. Empty text is ignored.
func (b *Builder) Token(kind Kind, text string) {
	if text == "" {
		return
	}
	if !kind.IsToken() {
		panic(fmt.Sprintf("syntax: Token with node kind %s", kind))
	}
	b.current().children = append(b.current().children, &Token{kind: kind, text: text})
}

// AppendTokens appends pre-built tokens to the current node.
func (b *Builder) AppendTokens(tokens []*Token) {
	cur := b.current()
	for _, tok := range tokens {
		if tok.text != "" {
			cur.children = append(cur.children, tok)
		}
	}
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Current returns the innermost open node, or nil.
func (b *Builder) Current() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// Reopen pushes node, which must be the last child of the current node, back
// onto the open stack so further elements are appended inside it.
func (b *Builder) Reopen(node *Node) {
	cur := b.current()
	if len(cur.children) == 0 || cur.children[len(cur.children)-1] != Element(node) {
		panic("syntax: Reopen of a node that is not the last child")
	}
	b.stack = append(b.stack, node)
}

// Finish returns the completed tree with offsets assigned.
func (b *Builder) Finish() *Node {
	if len(b.stack) != 0 {
		panic(fmt.Sprintf("syntax: Finish with %d open nodes", len(b.stack)))
	}
	if b.root == nil {
		panic("syntax: Finish without root node")
	}
	Reindex(b.root, 0)
	return b.root
}

func (b *Builder) current() *Node {
	if len(b.stack) == 0 {
		panic("syntax: no open node")
	}
	return b.stack[len(b.stack)-1]
}
