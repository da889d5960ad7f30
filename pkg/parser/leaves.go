package parser

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// leafBlock starts a leaf block on a line that neither continues the open
// leaf nor opens a container. Recognisers run in a fixed order: indented code,
// dashed tables, thematic break, ATX heading, fenced code, display math, HTML
// block, tables, reference definition, line block, definition term, paragraph.
func (p *blockParser) leafBlock(ln sourceLine, cur cursor) {
	blank := cur.blank()
	term := !blank && p.isTerm()
	p.closeSoftContainers(nil, false, term, blank)

	if blank {
		p.flushPrefix()
		p.token(syntax.KindWhitespace, cur.rest())
		p.token(syntax.KindBlankLine, ln.ending)
		p.i++
		return
	}

	if cur.indent() >= 4 {
		p.flushPrefix()
		p.b.StartNode(syntax.KindIndentedCode)
		p.indentedCodeLine(ln, cur)
		p.leaf = openLeaf{kind: leafIndentedCode}
		p.i++
		return
	}

	indent := cur.indent()
	lead := cur.skipSpace()
	s := cur.rest()

	if p.dashedTable(s) {
		return
	}

	switch {
	case isThematicBreak(s):
		p.flushPrefix()
		p.b.StartNode(syntax.KindThematicBreak)
		p.token(syntax.KindWhitespace, lead)
		marker, trailing := splitTrailingSpace(s)
		p.token(syntax.KindThematicBreakMarker, marker)
		p.token(syntax.KindWhitespace, trailing)
		p.token(syntax.KindNewline, ln.ending)
		p.b.FinishNode()
		p.i++
		return

	case atxLevel(s) > 0:
		p.atxHeading(ln, lead, s)
		p.i++
		return
	}

	if f, ok := parseCodeFence(s, p.ext); ok {
		p.openFencedCode(ln, lead, s, f, indent)
		p.i++
		return
	}

	if p.ext.TexMathDollars && strings.HasPrefix(s, "$$") {
		if end, ok := p.displayMathEnd(s); ok {
			p.openDisplayMath(ln, lead, s, end)
			p.i++
			return
		}
	}

	if p.ext.RawTex {
		if end, ok := p.rawTexEnd(s); ok {
			p.flushPrefix()
			p.b.StartNode(syntax.KindRawTexBlock)
			p.token(syntax.KindWhitespace, lead)
			p.token(syntax.KindText, s)
			p.token(syntax.KindNewline, ln.ending)
			p.leaf = openLeaf{kind: leafRawTex, endLine: end}
			p.i++
			return
		}
	}

	if p.ext.RawHTML {
		if end, ok := htmlBlockEnd(s); ok {
			p.flushPrefix()
			p.b.StartNode(syntax.KindHTMLBlock)
			p.token(syntax.KindWhitespace, lead)
			p.token(syntax.KindText, s)
			p.token(syntax.KindNewline, ln.ending)
			p.leaf = openLeaf{kind: leafHTML, htmlEnd: end}
			if end != "" && strings.Contains(s[1:], end) {
				p.closeLeaf()
			}
			p.i++
			return
		}
	}

	if p.table(ln, lead, s) {
		return
	}

	if m := referenceDefRe.FindStringSubmatchIndex(s); m != nil {
		p.referenceDefinition(ln, lead, s, m)
		p.i++
		return
	}

	if p.ext.LineBlocks && isLineBlockStart(s) {
		p.lineBlock(ln, lead, s)
		return
	}

	if term {
		p.definitionTerm(ln, lead, s)
		p.i++
		return
	}

	p.flushPrefix()
	p.b.StartNode(syntax.KindParagraph)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindText, s)
	p.token(syntax.KindNewline, ln.ending)
	p.leaf = openLeaf{kind: leafParagraph}
	p.i++
}

// continueVerbatim feeds a fully matched line to the open verbatim leaf. It
// returns false when the leaf ends before this line.
func (p *blockParser) continueVerbatim(ln sourceLine, cur cursor) bool {
	switch p.leaf.kind {
	case leafFencedCode:
		if cur.indent() <= 3 {
			probe := cur
			lead := probe.skipSpace()
			if closesFence(probe.rest(), p.leaf.fence) {
				p.b.FinishNode()
				p.flushPrefix()
				p.token(syntax.KindWhitespace, lead)
				rest := probe.rest()
				n := runLength(rest, p.leaf.fence.char)
				p.token(syntax.KindCodeFenceMarker, rest[:n])
				p.token(syntax.KindWhitespace, rest[n:])
				p.token(syntax.KindNewline, ln.ending)
				p.closeLeaf()
				return true
			}
		}
		p.flushPrefix()
		p.token(syntax.KindWhitespace, cur.skipIndent(p.leaf.fenceIndent))
		p.token(syntax.KindText, cur.rest())
		p.token(syntax.KindNewline, ln.ending)
		return true

	case leafIndentedCode:
		if cur.blank() && !p.indentedCodeContinues() {
			return false
		}
		if !cur.blank() && cur.indent() < 4 {
			return false
		}
		p.flushPrefix()
		p.indentedCodeLine(ln, cur)
		return true

	case leafDisplayMath:
		p.flushPrefix()
		if p.i < p.leaf.endLine {
			p.token(syntax.KindText, cur.rest())
			p.token(syntax.KindNewline, ln.ending)
			return true
		}
		s := cur.rest()
		i := strings.Index(s, "$$")
		p.token(syntax.KindText, s[:i])
		p.mathCloser(ln, s[i:])
		p.closeLeaf()
		return true

	case leafRawTex:
		p.flushPrefix()
		p.token(syntax.KindText, cur.rest())
		p.token(syntax.KindNewline, ln.ending)
		if p.i == p.leaf.endLine {
			p.closeLeaf()
		}
		return true

	case leafHTML:
		if p.leaf.htmlEnd == "" && cur.blank() {
			return false
		}
		p.flushPrefix()
		s := cur.rest()
		p.token(syntax.KindText, s)
		p.token(syntax.KindNewline, ln.ending)
		if p.leaf.htmlEnd != "" && strings.Contains(s, p.leaf.htmlEnd) {
			p.closeLeaf()
		}
		return true
	}
	return false
}

func (p *blockParser) indentedCodeLine(ln sourceLine, cur cursor) {
	p.token(syntax.KindWhitespace, cur.skipIndent(4))
	p.token(syntax.KindText, cur.rest())
	p.token(syntax.KindNewline, ln.ending)
}

// indentedCodeContinues looks past blank lines for another indented line.
func (p *blockParser) indentedCodeContinues() bool {
	for j := p.i + 1; j < len(p.lines); j++ {
		cur, _, ok := p.scopedLine(j)
		if !ok {
			return false
		}
		if cur.blank() {
			continue
		}
		return cur.indent() >= 4
	}
	return false
}

func (p *blockParser) atxHeading(ln sourceLine, lead, s string) {
	level := atxLevel(s)
	p.flushPrefix()
	p.b.StartNode(syntax.KindHeading)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindAtxHeadingMarker, s[:level])

	gap, rest := splitLeadingSpace(s[level:])
	content, trailing := splitTrailingSpace(rest)

	var attr, attrGap string
	if p.ext.HeaderAttributes {
		content, attrGap, attr = splitAttribute(content)
	}

	var closing, closingGap string
	j := len(content)
	for j > 0 && content[j-1] == '#' {
		j--
	}
	if j < len(content) && (j == 0 || isSpaceByte(content[j-1])) {
		closing = content[j:]
		content, closingGap = splitTrailingSpace(content[:j])
	}

	p.token(syntax.KindWhitespace, gap)
	p.b.StartNode(syntax.KindHeadingContent)
	p.token(syntax.KindText, content)
	p.b.FinishNode()
	p.token(syntax.KindWhitespace, closingGap)
	p.token(syntax.KindAtxHeadingMarker, closing)
	p.token(syntax.KindWhitespace, attrGap)
	p.token(syntax.KindAttribute, attr)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
	p.b.FinishNode()
}

// splitAttribute splits a trailing {...} attribute from s. The attribute must
// be separated from any preceding text by whitespace.
func splitAttribute(s string) (rest, gap, attr string) {
	if !strings.HasSuffix(s, "}") {
		return s, "", ""
	}
	i := strings.LastIndexByte(s, '{')
	if i < 0 || strings.IndexByte(s[i+1:len(s)-1], '}') >= 0 || i+1 == len(s)-1 {
		return s, "", ""
	}
	switch c := s[i+1]; {
	case c == '#' || c == '.' || c == '-' || c == '=' || isASCIIAlnum(c):
	default:
		return s, "", ""
	}
	if i > 0 && !isSpaceByte(s[i-1]) {
		return s, "", ""
	}
	rest, gap = splitTrailingSpace(s[:i])
	return rest, gap, s[i:]
}

func (p *blockParser) openFencedCode(ln sourceLine, lead, s string, f fenceInfo, indent int) {
	p.flushPrefix()
	p.b.StartNode(syntax.KindCodeBlock)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindCodeFenceMarker, s[:f.length])
	gap, rest := splitLeadingSpace(s[f.length:])
	info, trailing := splitTrailingSpace(rest)
	p.token(syntax.KindWhitespace, gap)
	p.token(syntax.KindCodeInfo, info)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
	p.b.StartNode(syntax.KindCodeContent)
	p.leaf = openLeaf{kind: leafFencedCode, fence: f, fenceIndent: indent}
}

// displayMathEnd finds the line that closes a $$ block opened by s. Display
// math may not contain blank lines.
func (p *blockParser) displayMathEnd(s string) (int, bool) {
	if i := strings.Index(s[2:], "$$"); i >= 0 {
		if i == 0 || !validMathTail(s[2+i+2:]) {
			return 0, false
		}
		return p.i, true
	}
	for j := p.i + 1; j < len(p.lines); j++ {
		cur, _, ok := p.scopedLine(j)
		if !ok || cur.blank() {
			return 0, false
		}
		rest := cur.rest()
		if i := strings.Index(rest, "$$"); i >= 0 {
			return j, validMathTail(rest[i+2:])
		}
	}
	return 0, false
}

// rawTexEnd finds the line whose \end closes the LaTeX environment that s
// begins. Environments nest by name; the block must close before its
// containers do.
func (p *blockParser) rawTexEnd(s string) (int, bool) {
	m := texEnvRe.FindStringSubmatch(s)
	if m == nil || m[1] != "begin" {
		return 0, false
	}
	open := []string{m[2]}
	for j := p.i + 1; j < len(p.lines); j++ {
		cur, _, ok := p.scopedLine(j)
		if !ok {
			return 0, false
		}
		cur.skipSpace()
		env := texEnvRe.FindStringSubmatch(cur.rest())
		switch {
		case env == nil:
		case env[1] == "begin":
			open = append(open, env[2])
		case env[2] == open[len(open)-1]:
			open = open[:len(open)-1]
			if len(open) == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// validMathTail accepts what may follow a closing $$ on its line: nothing, or
// an attribute such as {#eq-label}.
func validMathTail(s string) bool {
	_, s = splitLeadingSpace(s)
	s, _ = splitTrailingSpace(s)
	return s == "" || strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

func (p *blockParser) openDisplayMath(ln sourceLine, lead, s string, end int) {
	p.flushPrefix()
	p.b.StartNode(syntax.KindDisplayMathBlock)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindMathMarker, s[:2])
	if end == p.i {
		body := s[2:]
		i := strings.Index(body, "$$")
		p.token(syntax.KindText, body[:i])
		p.mathCloser(ln, body[i:])
		p.b.FinishNode()
		return
	}
	p.token(syntax.KindText, s[2:])
	p.token(syntax.KindNewline, ln.ending)
	p.leaf = openLeaf{kind: leafDisplayMath, endLine: end}
}

// mathCloser emits a closing $$ and its optional attribute.
func (p *blockParser) mathCloser(ln sourceLine, s string) {
	p.token(syntax.KindMathMarker, s[:2])
	gap, rest := splitLeadingSpace(s[2:])
	attr, trailing := splitTrailingSpace(rest)
	p.token(syntax.KindWhitespace, gap)
	p.token(syntax.KindAttribute, attr)
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
}

func (p *blockParser) referenceDefinition(ln sourceLine, lead, s string, m []int) {
	group := func(n int) string {
		if m[2*n] < 0 {
			return ""
		}
		return s[m[2*n]:m[2*n+1]]
	}
	label := group(1)
	p.refs[NormalizeLabel(label)] = true

	p.flushPrefix()
	p.b.StartNode(syntax.KindReferenceDefinition)
	p.token(syntax.KindWhitespace, lead)
	p.token(syntax.KindReferenceLabel, "["+label+"]")
	p.token(syntax.KindText, ":")
	p.token(syntax.KindWhitespace, group(2))
	p.token(syntax.KindReferenceURL, group(3))
	p.token(syntax.KindWhitespace, group(4))
	p.token(syntax.KindReferenceTitle, group(5))
	p.token(syntax.KindWhitespace, group(6))
	p.token(syntax.KindNewline, ln.ending)
	p.b.FinishNode()
}

func isLineBlockStart(s string) bool {
	return s == "|" || strings.HasPrefix(s, "| ") || strings.HasPrefix(s, "|\t")
}

// lineBlock consumes a Pandoc line block: lines starting with "| " plus
// continuation lines starting with a space.
func (p *blockParser) lineBlock(ln sourceLine, lead, s string) {
	p.flushPrefix()
	p.b.StartNode(syntax.KindLineBlock)
	p.lineBlockLine(ln, lead, s)
	p.i++
	for {
		cur, prefix, ok := p.scopedLine(p.i)
		if !ok || cur.blank() {
			break
		}
		probe := cur
		lead := probe.skipSpace()
		if !isLineBlockStart(probe.rest()) && lead == "" {
			break
		}
		p.b.AppendTokens(prefix)
		p.lineBlockLine(p.lines[p.i], lead, probe.rest())
		p.i++
	}
	p.b.FinishNode()
}

func (p *blockParser) lineBlockLine(ln sourceLine, lead, s string) {
	p.token(syntax.KindWhitespace, lead)
	if isLineBlockStart(s) {
		p.token(syntax.KindLineBlockMarker, s[:1])
		gap, rest := splitLeadingSpace(s[1:])
		p.token(syntax.KindWhitespace, gap)
		s = rest
	}
	p.token(syntax.KindText, s)
	p.token(syntax.KindNewline, ln.ending)
}

// isTerm reports whether the current line is a definition list term: the
// next line, or the one after a single blank line, is a definition marker.
func (p *blockParser) isTerm() bool {
	if !p.ext.DefinitionLists {
		return false
	}
	for j := p.i + 1; j <= p.i+2; j++ {
		cur, _, ok := p.scopedLine(j)
		if !ok {
			return false
		}
		if cur.blank() {
			if j == p.i+1 {
				continue
			}
			return false
		}
		if cur.indent() > 3 {
			return false
		}
		cur.skipSpace()
		return isDefinitionMarker(cur.rest())
	}
	return false
}

func (p *blockParser) definitionTerm(ln sourceLine, lead, s string) {
	p.flushPrefix()
	if p.top().kind != containerDefinitionList {
		p.b.StartNode(syntax.KindDefinitionList)
		p.push(containerDefinitionList, ListMarker{}, 0)
	}
	p.b.StartNode(syntax.KindDefinitionItem)
	p.push(containerDefinitionItem, ListMarker{}, 0)
	p.token(syntax.KindWhitespace, lead)
	text, trailing := splitTrailingSpace(s)
	p.b.StartNode(syntax.KindTerm)
	p.token(syntax.KindText, text)
	p.b.FinishNode()
	p.token(syntax.KindWhitespace, trailing)
	p.token(syntax.KindNewline, ln.ending)
}
