package parser

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

type containerKind int

const (
	containerDocument containerKind = iota
	containerBlockquote
	containerList
	containerListItem
	containerFootnote
	containerDefinitionList
	containerDefinitionItem
	containerDefinition
	containerDiv
)

// container is an entry of the open-container stack.
type container struct {
	kind containerKind

	// depth is the builder depth at which the container's node is current.
	depth int

	// marker is the first item marker of a list.
	marker ListMarker

	// contentCol is the column continuation lines must reach for list
	// items, footnotes and definitions.
	contentCol int
}

type leafKind int

const (
	leafNone leafKind = iota
	leafParagraph
	leafFencedCode
	leafIndentedCode
	leafDisplayMath
	leafHTML
	leafRawTex
)

// openLeaf is the leaf block that the next line may continue.
type openLeaf struct {
	kind leafKind

	fence       fenceInfo
	fenceIndent int

	htmlEnd string
	endLine int
}

func (k leafKind) verbatim() bool {
	return k != leafNone && k != leafParagraph
}

type blockParser struct {
	ext   *config.Extensions
	b     *syntax.Builder
	lines []sourceLine
	i     int
	stack []*container
	leaf  openLeaf
	refs  map[string]bool

	// prefix holds the container continuation tokens of the current line
	// until it is known which node they belong to.
	prefix []*syntax.Token
}

// parseBlocks runs the block pass. The returned tree has block structure only;
// leaf content is a flat run of TEXT and NEWLINE tokens.
func parseBlocks(text string, ext *config.Extensions) (*syntax.Node, map[string]bool) {
	p := &blockParser{
		ext:   ext,
		b:     syntax.NewBuilder(),
		lines: splitLines(text),
		refs:  make(map[string]bool),
	}
	p.b.StartNode(syntax.KindDocument)
	p.stack = []*container{{kind: containerDocument, depth: p.b.Depth()}}

	p.frontMatter()
	for p.i < len(p.lines) {
		p.line()
	}

	p.closeLeaf()
	p.closeContainers(1)
	p.b.FinishNode()
	return p.b.Finish(), p.refs
}

func (p *blockParser) top() *container {
	return p.stack[len(p.stack)-1]
}

func (p *blockParser) hasContainer(kind containerKind) bool {
	for _, c := range p.stack {
		if c.kind == kind {
			return true
		}
	}
	return false
}

func (p *blockParser) push(kind containerKind, marker ListMarker, contentCol int) {
	p.stack = append(p.stack, &container{
		kind:       kind,
		depth:      p.b.Depth(),
		marker:     marker,
		contentCol: contentCol,
	})
}

// closeLeaf finishes the open leaf block, if any.
func (p *blockParser) closeLeaf() {
	p.b.FinishTo(p.top().depth)
	p.leaf = openLeaf{}
}

// closeContainers closes every container from index n upwards.
func (p *blockParser) closeContainers(n int) {
	if n >= len(p.stack) {
		return
	}
	p.b.FinishTo(p.stack[n].depth - 1)
	p.stack = p.stack[:n]
}

// closeSoftContainers closes lists and definition lists that cannot hold the
// next block. item is the marker of a new list item, if the next block is one.
func (p *blockParser) closeSoftContainers(item *ListMarker, definition, term, blank bool) {
	for {
		top := p.top()
		switch top.kind {
		case containerList:
			if item != nil && top.marker.compatible(*item) {
				return
			}
		case containerDefinitionItem:
			if definition || blank {
				return
			}
		case containerDefinitionList:
			if term {
				return
			}
		default:
			return
		}
		p.closeContainers(len(p.stack) - 1)
	}
}

func (p *blockParser) flushPrefix() {
	p.b.AppendTokens(p.prefix)
	p.prefix = nil
}

func (p *blockParser) token(kind syntax.Kind, text string) {
	p.b.Token(kind, text)
}

func wsToken(text string) *syntax.Token {
	return syntax.NewToken(syntax.KindWhitespace, text)
}

// matchContainers consumes the continuation prefix of each open container
// and reports how many containers (the document included) the line continues.
// It does not touch parser state, so it doubles as a lookahead.
func (p *blockParser) matchContainers(cur *cursor) (int, []*syntax.Token) {
	var prefix []*syntax.Token
	matched := 1
	for _, c := range p.stack[1:] {
		ok := true
		switch c.kind {
		case containerBlockquote:
			ok = matchBlockquote(cur, &prefix)
		case containerListItem, containerFootnote, containerDefinition:
			if cur.blank() || cur.col+cur.indent() >= c.contentCol {
				if ws := cur.skipIndent(c.contentCol - cur.col); ws != "" {
					prefix = append(prefix, wsToken(ws))
				}
			} else {
				ok = false
			}
		}
		if !ok {
			break
		}
		matched++
	}
	return matched, prefix
}

func matchBlockquote(cur *cursor, prefix *[]*syntax.Token) bool {
	if cur.indent() > 3 {
		return false
	}
	probe := *cur
	ws := probe.skipSpace()
	if probe.peek() != '>' {
		return false
	}
	*cur = probe
	if ws != "" {
		*prefix = append(*prefix, wsToken(ws))
	}
	*prefix = append(*prefix, syntax.NewToken(syntax.KindBlockquoteMarker, cur.advance(1)))
	if isSpaceByte(cur.peek()) {
		*prefix = append(*prefix, wsToken(cur.skipIndent(1)))
	}
	return true
}

// scopedLine matches line j against the open containers without consuming it.
func (p *blockParser) scopedLine(j int) (cursor, []*syntax.Token, bool) {
	if j >= len(p.lines) {
		return cursor{}, nil, false
	}
	cur := newCursor(p.lines[j].text)
	matched, prefix := p.matchContainers(&cur)
	return cur, prefix, matched == len(p.stack)
}

// line processes the current line and advances past every line it consumed.
func (p *blockParser) line() {
	ln := p.lines[p.i]
	cur := newCursor(ln.text)
	matched, prefix := p.matchContainers(&cur)
	p.prefix = prefix
	all := matched == len(p.stack)

	if p.leaf.kind.verbatim() {
		if all && p.continueVerbatim(ln, cur) {
			p.i++
			return
		}
		p.closeLeaf()
	}

	if p.leaf.kind == leafParagraph && !all && !cur.blank() && !p.interrupts(cur) {
		// Lazy continuation.
		p.flushPrefix()
		p.paragraphLine(ln, cur)
		p.i++
		return
	}

	if !all {
		p.closeLeaf()
		p.closeContainers(matched)
	}

	if p.ext.FencedDivs && cur.indent() < 4 && p.hasContainer(containerDiv) {
		probe := cur
		lead := probe.skipSpace()
		if isDivCloser(probe.rest()) {
			p.closeDiv(ln, lead, probe.rest())
			p.i++
			return
		}
	}

	for {
		opened, done := p.openContainer(ln, &cur)
		if done {
			p.i++
			return
		}
		if !opened {
			break
		}
	}

	if p.leaf.kind == leafParagraph {
		if p.continueParagraph(ln, cur) {
			p.i++
			return
		}
		p.closeLeaf()
	}

	p.leafBlock(ln, cur)
}

func (p *blockParser) closeDiv(ln sourceLine, lead, fence string) {
	p.closeLeaf()
	idx := len(p.stack) - 1
	for p.stack[idx].kind != containerDiv {
		idx--
	}
	p.closeContainers(idx + 1)
	p.flushPrefix()
	p.token(syntax.KindWhitespace, lead)
	marker, trailing := splitTrailingSpace(fence)
	p.token(syntax.KindDivFenceMarker, marker)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
	p.closeContainers(idx)
}

// interrupts reports whether a line that failed container matching starts a
// new block rather than lazily continuing the open paragraph.
func (p *blockParser) interrupts(cur cursor) bool {
	if cur.indent() >= 4 {
		return false
	}
	cur.skipSpace()
	s := cur.rest()
	switch {
	case p.leafInterrupts(s):
		return true
	case strings.HasPrefix(s, ">"):
		return !p.ext.BlankBeforeBlockquote
	case p.ext.Footnotes && footnoteDefRe.MatchString(s):
		return true
	case p.ext.DefinitionLists && isDefinitionMarker(s) && p.hasContainer(containerDefinitionItem):
		return true
	case p.ext.FencedDivs && (isDivCloser(s) || divOpenRe.MatchString(s)):
		return true
	}
	if m, ok := parseListMarker(s, p.ext); ok {
		return p.listCanInterrupt(m, s[len(m.Text):])
	}
	return false
}

// leafInterrupts reports whether s starts a leaf block that may interrupt a paragraph.
func (p *blockParser) leafInterrupts(s string) bool {
	if isThematicBreak(s) {
		return true
	}
	if atxLevel(s) > 0 && !p.ext.BlankBeforeHeader {
		return true
	}
	_, ok := parseCodeFence(s, p.ext)
	return ok
}

// listCanInterrupt decides whether a list marker may start a list while a
// paragraph is open. Sublists never need a blank line; elsewhere Pandoc
// flavours require one and CommonMark flavours restrict which markers count.
func (p *blockParser) listCanInterrupt(m ListMarker, after string) bool {
	if p.top().kind == containerListItem {
		return true
	}
	if p.ext.BlankBeforeBlockquote {
		return false
	}
	if isBlank(after) {
		return false
	}
	return !m.Ordered() || m.Number == 1
}

// openContainer opens at most one container at the cursor. done reports that
// the whole line was consumed.
func (p *blockParser) openContainer(ln sourceLine, cur *cursor) (opened, done bool) {
	if cur.indent() >= 4 {
		return false, false
	}
	probe := *cur
	lead := probe.skipSpace()
	s := probe.rest()
	if s == "" || isThematicBreak(s) {
		return false, false
	}
	paragraph := p.leaf.kind == leafParagraph
	markerCol := probe.col

	switch {
	case p.ext.FencedDivs && divOpenRe.MatchString(s):
		p.openDiv(ln, lead, s)
		return true, true

	case s[0] == '>':
		if paragraph && p.ext.BlankBeforeBlockquote {
			return false, false
		}
		p.beginContainer(nil, false)
		p.b.StartNode(syntax.KindBlockquote)
		p.token(syntax.KindWhitespace, lead)
		p.token(syntax.KindBlockquoteMarker, probe.advance(1))
		if isSpaceByte(probe.peek()) {
			p.token(syntax.KindWhitespace, probe.skipIndent(1))
		}
		p.push(containerBlockquote, ListMarker{}, 0)
		*cur = probe
		return true, false

	case p.ext.Footnotes && footnoteDefRe.MatchString(s):
		label := footnoteDefRe.FindString(s)
		p.beginContainer(nil, false)
		p.b.StartNode(syntax.KindFootnoteDefinition)
		p.token(syntax.KindWhitespace, lead)
		p.token(syntax.KindFootnoteLabel, probe.advance(len(label)))
		p.token(syntax.KindWhitespace, probe.skipSpace())
		p.push(containerFootnote, ListMarker{}, markerCol+4)
		*cur = probe
		return true, false

	case p.ext.DefinitionLists && isDefinitionMarker(s) && p.top().kind == containerDefinitionItem && !paragraph:
		p.beginContainer(nil, true)
		p.b.StartNode(syntax.KindDefinition)
		p.token(syntax.KindWhitespace, lead)
		p.token(syntax.KindDefinitionMarker, probe.advance(1))
		contentCol := p.markerGap(&probe, markerCol+1)
		p.push(containerDefinition, ListMarker{}, contentCol)
		*cur = probe
		return true, false
	}

	m, ok := parseListMarker(s, p.ext)
	if !ok || (paragraph && !p.listCanInterrupt(m, s[len(m.Text):])) {
		return false, false
	}
	p.beginContainer(&m, false)
	if p.top().kind != containerList {
		p.b.StartNode(syntax.KindList)
		p.push(containerList, m, 0)
	}
	p.b.StartNode(syntax.KindListItem)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindListMarker, probe.advance(len(m.Text)))
	contentCol := p.markerGap(&probe, markerCol+len(m.Text))
	if p.ext.TaskLists {
		rest := probe.rest()
		if len(rest) >= 3 && rest[0] == '[' && rest[2] == ']' && strings.IndexByte(" xX", rest[1]) >= 0 &&
			(len(rest) == 3 || isSpaceByte(rest[3])) {
			p.token(syntax.KindTaskCheckbox, probe.advance(3))
			p.token(syntax.KindWhitespace, probe.skipSpace())
		}
	}
	p.push(containerListItem, m, contentCol)
	*cur = probe
	return true, false
}

// beginContainer prepares to open a container at the innermost level.
func (p *blockParser) beginContainer(item *ListMarker, definition bool) {
	p.closeLeaf()
	p.closeSoftContainers(item, definition, false, false)
	p.flushPrefix()
}

// markerGap consumes the whitespace after a list or definition marker ending
// at column end and returns the content column. Five or more spaces mean the
// content is indented code, so only one space belongs to the marker.
func (p *blockParser) markerGap(cur *cursor, end int) int {
	if cur.blank() {
		p.token(syntax.KindWhitespace, cur.skipSpace())
		return end + 1
	}
	if w := cur.indent(); w > 4 {
		p.token(syntax.KindWhitespace, cur.skipIndent(1))
		return end + 1
	}
	p.token(syntax.KindWhitespace, cur.skipSpace())
	return cur.col
}

func (p *blockParser) openDiv(ln sourceLine, lead, s string) {
	p.beginContainer(nil, false)
	p.b.StartNode(syntax.KindFencedDiv)
	p.token(syntax.KindWhitespace, lead)
	m := divOpenRe.FindStringSubmatch(s)
	p.token(syntax.KindDivFenceMarker, m[1])
	p.token(syntax.KindWhitespace, m[2])
	p.token(syntax.KindDivInfo, m[3])
	p.token(syntax.KindWhitespace, m[4])
	p.token(syntax.KindDivFenceMarker, m[5])
	p.token(syntax.KindWhitespace, m[6])
	p.token(syntax.KindNewline, ln.ending)
	p.push(containerDiv, ListMarker{}, 0)
}

// continueParagraph handles a line that reached the open paragraph with every
// container matched: setext underline, interruption, or continuation.
func (p *blockParser) continueParagraph(ln sourceLine, cur cursor) bool {
	if cur.blank() {
		return false
	}
	if cur.indent() < 4 {
		probe := cur
		lead := probe.skipSpace()
		if level := setextLevel(probe.rest()); level > 0 {
			p.setextHeading(ln, lead, probe.rest())
			return true
		}
		if p.leafInterrupts(probe.rest()) {
			return false
		}
		if p.ext.FencedDivs && isDivCloser(probe.rest()) {
			return false
		}
	}
	p.flushPrefix()
	p.paragraphLine(ln, cur)
	return true
}

func (p *blockParser) paragraphLine(ln sourceLine, cur cursor) {
	p.token(syntax.KindWhitespace, cur.skipSpace())
	p.token(syntax.KindText, cur.rest())
	p.token(syntax.KindNewline, ln.ending)
}

// setextHeading turns the open paragraph into a heading underlined by s.
func (p *blockParser) setextHeading(ln sourceLine, lead, s string) {
	para := p.b.Current()
	children := para.Children()
	n := len(children)
	var tail []syntax.Element
	if last, ok := children[n-1].(*syntax.Token); ok && last.Kind() == syntax.KindNewline {
		tail = []syntax.Element{last}
		n--
	}
	content := syntax.NewNode(syntax.KindHeadingContent, append([]syntax.Element(nil), children[:n]...)...)
	para.SetKind(syntax.KindHeading)
	para.SetChildren(append([]syntax.Element{content}, tail...))

	p.flushPrefix()
	p.token(syntax.KindWhitespace, lead)
	underline, trailing := splitTrailingSpace(s)
	p.token(syntax.KindSetextHeadingUnderline, underline)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
	p.closeLeaf()
}

// frontMatter recognises a YAML metadata block or a Pandoc title block on
// the first lines of the document.
func (p *blockParser) frontMatter() {
	if len(p.lines) == 0 {
		return
	}
	first, _ := splitTrailingSpace(p.lines[0].text)
	if p.ext.YAMLMetadataBlock && first == "---" && len(p.lines) > 1 && !isBlank(p.lines[1].text) {
		for j := 1; j < len(p.lines); j++ {
			closer, _ := splitTrailingSpace(p.lines[j].text)
			if closer != "---" && closer != "..." {
				continue
			}
			p.b.StartNode(syntax.KindYAMLMetadata)
			p.delimiterLine(p.lines[0])
			for k := 1; k < j; k++ {
				p.token(syntax.KindText, p.lines[k].text)
				p.token(syntax.KindNewline, p.lines[k].ending)
			}
			p.delimiterLine(p.lines[j])
			p.b.FinishNode()
			p.i = j + 1
			return
		}
	}
	if p.ext.PandocTitleBlock && strings.HasPrefix(p.lines[0].text, "%") {
		p.b.StartNode(syntax.KindTitleBlock)
		for p.i < len(p.lines) {
			text := p.lines[p.i].text
			if p.i > 0 && !strings.HasPrefix(text, "%") && (isBlank(text) || !isSpaceByte(text[0])) {
				break
			}
			p.token(syntax.KindText, text)
			p.token(syntax.KindNewline, p.lines[p.i].ending)
			p.i++
		}
		p.b.FinishNode()
	}
}

func (p *blockParser) delimiterLine(ln sourceLine) {
	delim, trailing := splitTrailingSpace(ln.text)
	p.token(syntax.KindYAMLDelimiter, delim)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
}
