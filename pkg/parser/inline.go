package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	attributeRe    = regexp.MustCompile(`^\{[^{}\r\n]*\}`)
	rawAttributeRe = regexp.MustCompile(`^\{=[A-Za-z0-9_-]+\}`)
	footnoteRefRe  = regexp.MustCompile(`^\[\^[^\s\[\]]+\]`)
	uriAutolinkRe  = regexp.MustCompile(`^<[A-Za-z][A-Za-z0-9+.-]{1,31}:[^\s<>]*>`)
	mailAutolinkRe = regexp.MustCompile(
		"^<[A-Za-z0-9.!#$%&'*+/=?^_`{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?" +
			`(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*>`)
	bareURIRe    = regexp.MustCompile(`^(?:https?://|ftp://|mailto:)[^\s<>]*[^\s<>.,;:!?'"()\[\]*_~\\]`)
	htmlInlineRe = regexp.MustCompile(`^(?:<[A-Za-z][A-Za-z0-9-]*` +
		`(?:\s+[A-Za-z_:][A-Za-z0-9_.:-]*(?:\s*=\s*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*\s*/?>` +
		`|</[A-Za-z][A-Za-z0-9-]*\s*>` +
		`|(?s:<!--.*?-->))`)
	shortcodeRe = regexp.MustCompile(`^\{\{<(?s:(.*?))>\}\}`)
)

// inl is an entry of the working list of inline elements.
type inl struct {
	prev, next *inl
	el         syntax.Element
}

// inlineParser turns the content of one leaf block into inline elements.
// Content is the concatenation of the leaf's TEXT and NEWLINE tokens; every
// element produced covers a slice of it, in order, without gaps.
type inlineParser struct {
	ext  *config.Extensions
	refs map[string]bool
	src  string

	head, tail *inl
	delims     *delim
	brackets   *bracket

	textStart int
}

// parseInlines returns the inline elements for src.
func parseInlines(src string, ext *config.Extensions, refs map[string]bool) []syntax.Element {
	p := &inlineParser{ext: ext, refs: refs, src: src}
	p.scan()
	p.processEmphasis(nil)

	var out []syntax.Element
	for it := p.head; it != nil; it = it.next {
		out = append(out, it.el)
	}
	return mergeText(out)
}

func (p *inlineParser) push(el syntax.Element) *inl {
	it := &inl{prev: p.tail, el: el}
	if p.tail == nil {
		p.head = it
	} else {
		p.tail.next = it
	}
	p.tail = it
	return it
}

func (p *inlineParser) unlink(it *inl) {
	if it.prev == nil {
		p.head = it.next
	} else {
		it.prev.next = it.next
	}
	if it.next == nil {
		p.tail = it.prev
	} else {
		it.next.prev = it.prev
	}
	it.prev, it.next = nil, nil
}

func (p *inlineParser) insertAfter(at *inl, el syntax.Element) *inl {
	it := &inl{prev: at, next: at.next, el: el}
	if at.next == nil {
		p.tail = it
	} else {
		at.next.prev = it
	}
	at.next = it
	return it
}

// takeAfter detaches every item between from and to, both exclusive, and
// returns their elements. A nil to means the end of the list.
func (p *inlineParser) takeAfter(from, to *inl) []syntax.Element {
	var els []syntax.Element
	for it := from.next; it != nil && it != to; {
		next := it.next
		els = append(els, it.el)
		p.unlink(it)
		it = next
	}
	return els
}

func tok(kind syntax.Kind, text string) *syntax.Token {
	return syntax.NewToken(kind, text)
}

// flushText emits pending plain text up to end.
func (p *inlineParser) flushText(end int) {
	if end > p.textStart {
		p.push(tok(syntax.KindText, p.src[p.textStart:end]))
	}
	p.textStart = end
}

// emit flushes pending text before i and appends el, which covers src[i:end].
func (p *inlineParser) emit(i, end int, el syntax.Element) *inl {
	p.flushText(i)
	it := p.push(el)
	p.textStart = end
	return it
}

// textLines splits s into TEXT and NEWLINE tokens.
func textLines(kind syntax.Kind, s string) []syntax.Element {
	var out []syntax.Element
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, tok(kind, s))
			break
		}
		end := i
		if end > 0 && s[end-1] == '\r' {
			end--
		}
		if end > 0 {
			out = append(out, tok(kind, s[:end]))
		}
		out = append(out, tok(syntax.KindNewline, s[end:i+1]))
		s = s[i+1:]
	}
	return out
}

func node(kind syntax.Kind, children ...syntax.Element) *syntax.Node {
	var kept []syntax.Element
	for _, c := range children {
		if t, ok := c.(*syntax.Token); ok && t.Text() == "" {
			continue
		}
		kept = append(kept, c)
	}
	return syntax.NewNode(kind, kept...)
}

// runeBefore returns the rune ending at i. The start of content counts as a newline.
func (p *inlineParser) runeBefore(i int) rune {
	if i == 0 {
		return '\n'
	}
	r, _ := utf8.DecodeLastRuneInString(p.src[:i])
	return r
}

// runeAfter returns the rune starting at i. The end of content counts as a newline.
func (p *inlineParser) runeAfter(i int) rune {
	if i >= len(p.src) {
		return '\n'
	}
	r, _ := utf8.DecodeRuneInString(p.src[i:])
	return r
}

func (p *inlineParser) scan() {
	src := p.src
	i := 0
	for i < len(src) {
		n := p.construct(i)
		if n > 0 {
			i += n
			continue
		}
		i++
	}
	p.flushText(len(src))
}

// construct tries to recognise an inline construct at i and returns how many
// bytes it consumed, or 0 when src[i] is plain text.
func (p *inlineParser) construct(i int) int {
	src := p.src
	switch c := src[i]; c {
	case '\\':
		return p.backslash(i)
	case '`':
		return p.codeSpan(i)
	case '*', '_':
		return p.delimiterRun(i)
	case '~':
		if p.ext.Strikeout || p.ext.Subscript {
			return p.delimiterRun(i)
		}
	case '=':
		if p.ext.Mark {
			return p.delimiterRun(i)
		}
	case '^':
		if p.ext.InlineFootnotes && strings.HasPrefix(src[i:], "^[") {
			p.openBracket(i, 2, bracketFootnote)
			return 2
		}
		if p.ext.Superscript {
			return p.delimiterRun(i)
		}
	case '!':
		if strings.HasPrefix(src[i:], "![") {
			p.openBracket(i, 2, bracketImage)
			return 2
		}
	case '[':
		if n := p.footnoteReference(i); n > 0 {
			return n
		}
		if n := p.bracketedCitation(i); n > 0 {
			return n
		}
		p.openBracket(i, 1, bracketLink)
		return 1
	case ']':
		return p.closeBracket(i)
	case '<':
		return p.angle(i)
	case '$':
		if p.ext.TexMathDollars {
			return p.dollarMath(i)
		}
	case '@', '-':
		if p.ext.Citations {
			return p.bareCitation(i)
		}
	case '{':
		if p.ext.QuartoShortcodes {
			return p.shortcode(i)
		}
	case '\n', '\r':
		return p.newline(i)
	case 'h', 'f', 'm':
		if p.ext.AutolinkBareURIs {
			return p.bareURI(i)
		}
	}
	return 0
}

func (p *inlineParser) backslash(i int) int {
	src := p.src
	if i+1 >= len(src) {
		return 0
	}
	if p.ext.TexMathDoubleBackslash && i+2 < len(src) && src[i+1] == '\\' {
		if n := p.delimitedMath(i, 3); n > 0 {
			return n
		}
	}
	if p.ext.TexMathSingleBackslash && (src[i+1] == '(' || src[i+1] == '[') {
		if n := p.delimitedMath(i, 2); n > 0 {
			return n
		}
	}
	c := src[i+1]
	switch {
	case c == '\n' || c == '\r':
		if !p.ext.EscapedLineBreaks || p.atContentEnd(i+1) {
			return 0
		}
		p.emit(i, i+1, tok(syntax.KindHardLineBreak, `\`))
		return 1
	case c == ' ' && p.ext.AllSymbolsEscapable:
		p.emit(i, i+2, tok(syntax.KindNonbreakingSpace, `\ `))
		return 2
	case isASCIIPunct(c):
		p.emit(i, i+2, tok(syntax.KindEscapedChar, src[i:i+2]))
		return 2
	case c >= utf8.RuneSelf && p.ext.AllSymbolsEscapable:
		r, size := utf8.DecodeRuneInString(src[i+1:])
		if isPunctRune(r) {
			p.emit(i, i+1+size, tok(syntax.KindEscapedChar, src[i:i+1+size]))
			return 1 + size
		}
	}
	return 0
}

// atContentEnd reports whether the line ending at i is the last thing in the content.
func (p *inlineParser) atContentEnd(i int) bool {
	rest := p.src[i:]
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")
	return rest == ""
}

// newline emits a NEWLINE, splitting off two or more trailing spaces of
// the pending text as a hard line break.
func (p *inlineParser) newline(i int) int {
	end := i + 1
	if p.src[i] == '\r' {
		if end < len(p.src) && p.src[end] == '\n' {
			end++
		} else {
			return 0
		}
	}
	start := i
	for start > p.textStart && p.src[start-1] == ' ' {
		start--
	}
	if i-start >= 2 && !p.atContentEnd(i) {
		p.emit(start, i, tok(syntax.KindHardLineBreak, p.src[start:i]))
	}
	p.emit(i, end, tok(syntax.KindNewline, p.src[i:end]))
	return end - i
}

func (p *inlineParser) codeSpan(i int) int {
	src := p.src
	n := runLength(src[i:], '`')
	for j := i + n; j < len(src); {
		k := strings.IndexByte(src[j:], '`')
		if k < 0 {
			break
		}
		j += k
		m := runLength(src[j:], '`')
		if m != n {
			j += m
			continue
		}
		end := j + m
		kind := syntax.KindCodeSpan
		var attr string
		switch {
		case p.ext.RawAttribute && rawAttributeRe.MatchString(src[end:]):
			kind = syntax.KindRawInline
			attr = rawAttributeRe.FindString(src[end:])
		case p.ext.InlineCodeAttributes && attributeRe.MatchString(src[end:]):
			attr = attributeRe.FindString(src[end:])
		}
		children := []syntax.Element{tok(syntax.KindCodeSpanMarker, src[i:i+n])}
		children = append(children, textLines(syntax.KindText, src[i+n:j])...)
		children = append(children, tok(syntax.KindCodeSpanMarker, src[j:end]), tok(syntax.KindAttribute, attr))
		p.emit(i, end+len(attr), node(kind, children...))
		return end + len(attr) - i
	}
	// An unmatched run is literal, and no shorter run inside it may open a span.
	return n
}

func (p *inlineParser) dollarMath(i int) int {
	src := p.src
	if strings.HasPrefix(src[i:], "$$") {
		j := strings.Index(src[i+2:], "$$")
		if j <= 0 {
			return 0
		}
		end := i + 2 + j + 2
		p.emitMath(i, end, 2, 2, syntax.KindDisplayMath)
		return end - i
	}
	if i+1 >= len(src) || isSpaceByte(src[i+1]) || src[i+1] == '\n' || src[i+1] == '\r' {
		return 0
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '$':
			if isSpaceByte(src[j-1]) || src[j-1] == '\n' || (j+1 < len(src) && isDigit(src[j+1])) {
				continue
			}
			if strings.Contains(src[i+1:j], "\n\n") {
				return 0
			}
			p.emitMath(i, j+1, 1, 1, syntax.KindInlineMath)
			return j + 1 - i
		}
	}
	return 0
}

// delimitedMath recognises \(..\) and \[..\] (width 2) or their doubled
// backslash forms (width 3).
func (p *inlineParser) delimitedMath(i, width int) int {
	src := p.src
	if i+width > len(src) {
		return 0
	}
	open := src[i : i+width]
	var closer string
	switch open[width-1] {
	case '(':
		closer = open[:width-1] + ")"
	case '[':
		closer = open[:width-1] + "]"
	default:
		return 0
	}
	j := strings.Index(src[i+width:], closer)
	if j <= 0 {
		return 0
	}
	end := i + width + j + width
	kind := syntax.KindInlineMath
	if open[width-1] == '[' {
		kind = syntax.KindDisplayMath
	}
	p.emitMath(i, end, width, width, kind)
	return end - i
}

func (p *inlineParser) emitMath(i, end, open, closeWidth int, kind syntax.Kind) {
	src := p.src
	children := []syntax.Element{tok(syntax.KindMathMarker, src[i:i+open])}
	children = append(children, textLines(syntax.KindText, src[i+open:end-closeWidth])...)
	children = append(children, tok(syntax.KindMathMarker, src[end-closeWidth:end]))
	p.emit(i, end, node(kind, children...))
}

// angle handles autolinks, inline HTML and native spans, all of which start with '<'.
func (p *inlineParser) angle(i int) int {
	rest := p.src[i:]
	if p.ext.Autolinks {
		m := uriAutolinkRe.FindString(rest)
		if m == "" {
			m = mailAutolinkRe.FindString(rest)
		}
		if m != "" {
			p.emit(i, i+len(m), node(syntax.KindAutolink,
				tok(syntax.KindAutolinkMarker, "<"),
				tok(syntax.KindLinkDest, m[1:len(m)-1]),
				tok(syntax.KindAutolinkMarker, ">")))
			return len(m)
		}
	}
	if p.ext.RawHTML || p.ext.NativeSpans {
		if m := htmlInlineRe.FindString(rest); m != "" {
			p.emit(i, i+len(m), node(syntax.KindHTMLInline, textLines(syntax.KindHTMLTag, m)...))
			return len(m)
		}
	}
	return 0
}

func (p *inlineParser) bareURI(i int) int {
	if i > 0 && isASCIIAlnum(p.src[i-1]) {
		return 0
	}
	m := bareURIRe.FindString(p.src[i:])
	if m == "" {
		return 0
	}
	p.emit(i, i+len(m), node(syntax.KindAutolink, tok(syntax.KindLinkDest, m)))
	return len(m)
}

func (p *inlineParser) shortcode(i int) int {
	m := shortcodeRe.FindStringSubmatch(p.src[i:])
	if m == nil {
		return 0
	}
	children := []syntax.Element{tok(syntax.KindShortcodeMarker, "{{<")}
	children = append(children, textLines(syntax.KindText, m[1])...)
	children = append(children, tok(syntax.KindShortcodeMarker, ">}}"))
	p.emit(i, i+len(m[0]), node(syntax.KindShortcode, children...))
	return len(m[0])
}

func (p *inlineParser) footnoteReference(i int) int {
	if !p.ext.Footnotes {
		return 0
	}
	m := footnoteRefRe.FindString(p.src[i:])
	if m == "" {
		return 0
	}
	p.emit(i, i+len(m), node(syntax.KindFootnoteReference, tok(syntax.KindFootnoteLabel, m)))
	return len(m)
}

// mergeText joins adjacent TEXT tokens in els and, recursively, in every node.
func mergeText(els []syntax.Element) []syntax.Element {
	out := els[:0:0]
	for _, el := range els {
		switch e := el.(type) {
		case *syntax.Token:
			if e.Kind() == syntax.KindText && len(out) > 0 {
				if prev, ok := out[len(out)-1].(*syntax.Token); ok && prev.Kind() == syntax.KindText {
					out[len(out)-1] = tok(syntax.KindText, prev.Text()+e.Text())
					continue
				}
			}
		case *syntax.Node:
			e.SetChildren(mergeText(e.Children()))
		}
		out = append(out, el)
	}
	return out
}
