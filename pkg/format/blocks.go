package format

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// blocks prints the block children of parent. Tight containers print their
// blocks with no blank line between them.
func (f *formatter) blocks(parent *syntax.Node, tight bool) {
	var prev *syntax.Node
	blanks := 0
	for _, el := range parent.Children() {
		switch e := el.(type) {
		case *syntax.Token:
			if e.Kind() == syntax.KindBlankLine {
				blanks++
			}
		case *syntax.Node:
			if prev != nil {
				f.separate(prev, blanks, tight)
			}
			f.block(e, prev, tight)
			prev, blanks = e, 0
		}
	}
}

// separate prints the blank lines between prev and the block after it.
// blanks is the number of blank lines between them in the source.
func (f *formatter) separate(prev *syntax.Node, blanks int, tight bool) {
	if tight {
		return
	}
	n := 1
	if f.cfg.BlankLines == config.BlankLinesPreserve {
		n = max(1, blanks+trailingBlanks(prev))
	}
	for range n {
		f.p.blank()
	}
}

// trailingBlanks counts the blank lines closing n, followed down through
// nested containers.
func trailingBlanks(n *syntax.Node) int {
	count := 0
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		switch c := children[i].(type) {
		case *syntax.Token:
			switch c.Kind() {
			case syntax.KindBlankLine:
				count++
			case syntax.KindWhitespace, syntax.KindBlockquoteMarker:
			default:
				return count
			}
		case *syntax.Node:
			if isContainer(c.Kind()) {
				return count + trailingBlanks(c)
			}
			return count
		}
	}
	return count
}

func isContainer(kind syntax.Kind) bool {
	return kind.Is(syntax.KindList, syntax.KindListItem, syntax.KindBlockquote,
		syntax.KindFencedDiv, syntax.KindDefinitionList, syntax.KindDefinitionItem,
		syntax.KindDefinition, syntax.KindFootnoteDefinition)
}

func (f *formatter) block(n, prev *syntax.Node, tight bool) {
	switch n.Kind() {
	case syntax.KindParagraph, syntax.KindPlain:
		for _, line := range f.fill(f.inlineWords(n.Children())) {
			f.p.line(line)
		}
	case syntax.KindHeading:
		f.heading(n)
	case syntax.KindThematicBreak:
		f.thematicBreak(prev, tight)
	case syntax.KindCodeBlock:
		f.fencedCode(n)
	case syntax.KindIndentedCode:
		f.indentedCode(n, prev)
	case syntax.KindBlockquote:
		f.p.push("> ", "> ")
		f.blocks(n, false)
		f.p.pop()
	case syntax.KindList:
		f.list(n, prev)
	case syntax.KindDefinitionList:
		f.definitionList(n)
	case syntax.KindFootnoteDefinition:
		f.footnote(n)
	case syntax.KindFencedDiv:
		f.div(n)
	case syntax.KindReferenceDefinition:
		f.reference(n)
	case syntax.KindPipeTable:
		f.pipeTable(n)
	case syntax.KindGridTable, syntax.KindSimpleTable:
		f.verbatim(n)
		f.caption(n)
	case syntax.KindLineBlock:
		f.lineBlock(n)
	default:
		f.verbatim(n)
	}
}

func (f *formatter) heading(n *syntax.Node) {
	h, _ := ast.AsHeading(n)
	line := strings.Repeat("#", h.Level())
	if c := h.Content(); c != nil {
		words := texts(f.inlineWords(c.Children()))
		if k := len(words); k > 0 {
			// A trailing run of hashes would read as a closing sequence.
			if strings.Trim(words[k-1], "#") == "" {
				words[k-1] = `\` + words[k-1]
			}
			line += " " + strings.Join(words, " ")
		}
	}
	if attr := n.FirstToken(syntax.KindAttribute); attr != nil {
		line += " " + attr.Text()
	}
	f.p.line(line)
}

// thematicBreak prints "---" unless a tight paragraph before it would turn
// that into a setext underline, or the item marker it follows would make the
// whole line a break.
func (f *formatter) thematicBreak(prev *syntax.Node, tight bool) {
	if c := f.p.innermost(); c != nil && !c.used {
		switch {
		case strings.HasPrefix(c.first, "-"):
			f.p.line("***")
			return
		case strings.HasPrefix(c.first, "*"):
			f.p.line("---")
			return
		}
	}
	if tight && prev != nil {
		f.p.line("***")
		return
	}
	f.p.line("---")
}

func (f *formatter) definitionList(n *syntax.Node) {
	var prev *syntax.Node
	for _, item := range n.ChildNodes() {
		if item.Kind() != syntax.KindDefinitionItem {
			continue
		}
		if prev != nil {
			f.separate(prev, 0, false)
		}
		f.definitionItem(item)
		prev = item
	}
}

func (f *formatter) definitionItem(n *syntax.Node) {
	item, _ := ast.AsDefinitionItem(n)
	if term := n.FirstNode(syntax.KindTerm); term != nil {
		f.p.line(f.oneLine(term.Children()))
	}
	loose := item.Loose()
	for _, def := range item.Definitions() {
		if loose {
			f.p.blank()
		}
		f.p.push(":   ", "    ")
		f.blocks(def, tightBlocks(def))
		f.p.pop()
	}
}

// tightBlocks reports whether the blocks of a definition are printed with
// no blank line between them.
func tightBlocks(n *syntax.Node) bool {
	sawBlock, pending := false, false
	for _, el := range n.Children() {
		switch e := el.(type) {
		case *syntax.Token:
			if e.Kind() == syntax.KindBlankLine && sawBlock {
				pending = true
			}
		case *syntax.Node:
			switch {
			case e.Kind() == syntax.KindParagraph:
				return false
			case e.Kind() == syntax.KindPlain:
				return true
			case pending:
				return false
			}
			sawBlock = true
		}
	}
	return true
}

func (f *formatter) footnote(n *syntax.Node) {
	label := "[^]:"
	if t := n.FirstToken(syntax.KindFootnoteLabel); t != nil {
		label = t.Text()
	}
	f.p.push(label+" ", "    ")
	f.blocks(n, false)
	f.p.pop()
}

func (f *formatter) div(n *syntax.Node) {
	d, _ := ast.AsFencedDiv(n)
	open := ":::"
	if info := strings.Join(strings.Fields(d.Info()), " "); info != "" {
		open += " " + info
	}
	f.p.line(open)
	f.blocks(n, false)

	// These blocks only end at a blank line.
	if blocks := d.Blocks(); len(blocks) > 0 {
		if last := blocks[len(blocks)-1]; last.Kind().Is(syntax.KindHTMLBlock, syntax.KindSimpleTable, syntax.KindGridTable) {
			f.p.blank()
		}
	}
	f.p.line(":::")
}

func (f *formatter) reference(n *syntax.Node) {
	var sb strings.Builder
	if t := n.FirstToken(syntax.KindReferenceLabel); t != nil {
		sb.WriteString(t.Text())
	}
	sb.WriteString(":")
	if t := n.FirstToken(syntax.KindReferenceURL); t != nil {
		sb.WriteString(" " + t.Text())
	}
	if t := n.FirstToken(syntax.KindReferenceTitle); t != nil && t.Text() != "" {
		sb.WriteString(" " + t.Text())
	}
	f.p.line(sb.String())
}
