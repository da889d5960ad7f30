package parser

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// delim is a run of emphasis characters that may still open or close a span.
// The run's remaining text is src[pos:pos+n]; openers give up characters from
// the end and closers from the start, so pos and n always describe what is
// left over.
type delim struct {
	ch       byte
	item     *inl
	pos, n   int
	orig     int
	canOpen  bool
	canClose bool

	prev, next *delim
}

type openerKey struct {
	ch      byte
	canOpen bool
	mod     int
}

// delimiterRun scans a run of *, _, ~, ^ or = and records it as a potential
// opener or closer.
func (p *inlineParser) delimiterRun(i int) int {
	src := p.src
	c := src[i]
	n := runLength(src[i:], c)
	before := p.runeBefore(i)
	after := p.runeAfter(i + n)

	spaceBefore, spaceAfter := isSpaceRune(before), isSpaceRune(after)
	punctBefore, punctAfter := isPunctRune(before), isPunctRune(after)
	left := !spaceAfter && (!punctAfter || spaceBefore || punctBefore)
	right := !spaceBefore && (!punctBefore || spaceAfter || punctAfter)

	canOpen, canClose := left, right
	if c == '_' && p.ext.IntrawordUnderscores {
		canOpen = left && (!right || punctBefore)
		canClose = right && (!left || punctAfter)
	}

	it := p.emit(i, i+n, tok(syntax.KindText, src[i:i+n]))
	if !canOpen && !canClose {
		return n
	}
	d := &delim{ch: c, item: it, pos: i, n: n, orig: n, canOpen: canOpen, canClose: canClose, prev: p.delims}
	if p.delims != nil {
		p.delims.next = d
	}
	p.delims = d
	return n
}

func (p *inlineParser) removeDelim(d *delim) {
	if d.prev != nil {
		d.prev.next = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		p.delims = d.prev
	}
	d.prev, d.next = nil, nil
}

// processEmphasis pairs openers and closers above bottom, innermost first,
// and removes every delimiter above bottom afterwards.
func (p *inlineParser) processEmphasis(bottom *delim) {
	var closer *delim
	for d := p.delims; d != nil && d != bottom; d = d.prev {
		closer = d
	}
	openersBottom := make(map[openerKey]*delim)

	for closer != nil {
		if !closer.canClose {
			closer = closer.next
			continue
		}
		key := openerKey{ch: closer.ch, canOpen: closer.canOpen, mod: closer.orig % 3}
		floor, seen := openersBottom[key]
		if !seen {
			floor = bottom
		}

		var opener *delim
		for o := closer.prev; o != nil && o != bottom && o != floor; o = o.prev {
			if o.ch == closer.ch && o.canOpen && p.pairable(o, closer) {
				opener = o
				break
			}
		}

		if opener == nil {
			openersBottom[key] = closer.prev
			next := closer.next
			if !closer.canOpen {
				p.removeDelim(closer)
			}
			closer = next
			continue
		}

		kind, markerKind, use := p.spanKind(opener, closer)
		if use == 0 {
			closer = closer.next
			continue
		}
		p.wrap(opener, closer, kind, markerKind, use)

		for d := closer.prev; d != nil && d != opener; {
			prev := d.prev
			p.removeDelim(d)
			d = prev
		}
		if opener.n == 0 {
			p.unlink(opener.item)
			p.removeDelim(opener)
		}
		if closer.n == 0 {
			next := closer.next
			p.unlink(closer.item)
			p.removeDelim(closer)
			closer = next
		}
	}

	for p.delims != nil && p.delims != bottom {
		p.removeDelim(p.delims)
	}
}

// pairable applies the rule of three to * and _ runs.
func (p *inlineParser) pairable(opener, closer *delim) bool {
	if opener.ch != '*' && opener.ch != '_' {
		return true
	}
	if opener.canClose || closer.canOpen {
		sum := opener.orig + closer.orig
		if sum%3 == 0 && (opener.orig%3 != 0 || closer.orig%3 != 0) {
			return false
		}
	}
	return true
}

// spanKind decides what opener and closer produce and how many characters
// each side gives up. A zero use means they cannot pair.
func (p *inlineParser) spanKind(opener, closer *delim) (syntax.Kind, syntax.Kind, int) {
	inner := p.src[opener.pos+opener.n : closer.pos]
	switch opener.ch {
	case '*', '_':
		if opener.n >= 2 && closer.n >= 2 {
			return syntax.KindStrong, syntax.KindStrongMarker, 2
		}
		return syntax.KindEmphasis, syntax.KindEmphasisMarker, 1
	case '~':
		if p.ext.Strikeout && opener.n >= 2 && closer.n >= 2 {
			return syntax.KindStrikeout, syntax.KindStrikeoutMarker, 2
		}
		if p.ext.Subscript && inner != "" && !containsSpace(inner) {
			return syntax.KindSubscript, syntax.KindSubscriptMarker, 1
		}
	case '^':
		if p.ext.Superscript && inner != "" && !containsSpace(inner) {
			return syntax.KindSuperscript, syntax.KindSuperscriptMarker, 1
		}
	case '=':
		if opener.n >= 2 && closer.n >= 2 {
			return syntax.KindMark, syntax.KindMarkMarker, 2
		}
	}
	return 0, 0, 0
}

// containsSpace reports unescaped whitespace in s.
func containsSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ' ', '\t', '\n', '\r':
			return true
		}
	}
	return false
}

// wrap moves everything between opener and closer into a new span node that
// takes use characters from the inner side of each run.
func (p *inlineParser) wrap(opener, closer *delim, kind, markerKind syntax.Kind, use int) {
	src := p.src

	opener.n -= use
	openMarker := src[opener.pos+opener.n : opener.pos+opener.n+use]
	opener.item.el = tok(syntax.KindText, src[opener.pos:opener.pos+opener.n])

	closeMarker := src[closer.pos : closer.pos+use]
	closer.pos += use
	closer.n -= use
	closer.item.el = tok(syntax.KindText, src[closer.pos:closer.pos+closer.n])

	children := []syntax.Element{tok(markerKind, openMarker)}
	children = append(children, p.takeAfter(opener.item, closer.item)...)
	children = append(children, tok(markerKind, closeMarker))
	p.insertAfter(opener.item, syntax.NewNode(kind, children...))
}

type bracketKind int

const (
	bracketLink bracketKind = iota
	bracketImage
	bracketFootnote
)

// bracket is an opening [, ![ or ^[ waiting for its ].
type bracket struct {
	kind      bracketKind
	item      *inl
	pos       int
	active    bool
	prevDelim *delim
	prev      *bracket
}

func (p *inlineParser) openBracket(i, width int, kind bracketKind) {
	it := p.emit(i, i+width, tok(syntax.KindText, p.src[i:i+width]))
	p.brackets = &bracket{
		kind:      kind,
		item:      it,
		pos:       i + width,
		active:    true,
		prevDelim: p.delims,
		prev:      p.brackets,
	}
}

// closeBracket resolves the innermost open bracket at the ] at i.
func (p *inlineParser) closeBracket(i int) int {
	br := p.brackets
	if br == nil {
		return 0
	}
	p.brackets = br.prev
	if !br.active {
		return 0
	}

	src := p.src
	label := src[br.pos:i]
	after := i + 1

	if br.kind == bracketFootnote {
		p.flushText(i)
		p.finishBracket(br, syntax.KindInlineFootnote, syntax.KindFootnoteStart, nil)
		p.textStart = after
		return 1
	}

	tail, ok := p.linkTail(label, after)
	if ok {
		kind, start := syntax.KindLink, syntax.KindLinkStart
		if br.kind == bracketImage {
			kind, start = syntax.KindImage, syntax.KindImageStart
		}
		p.flushText(i)
		p.finishBracket(br, kind, start, tail)
		p.textStart = after + tokensLen(tail)
		if br.kind == bracketLink {
			for b := p.brackets; b != nil; b = b.prev {
				if b.kind == bracketLink {
					b.active = false
				}
			}
		}
		return p.textStart - i
	}

	if br.kind == bracketLink && p.ext.BracketedSpans {
		if attr := attributeRe.FindString(src[after:]); attr != "" {
			p.flushText(i)
			p.finishBracket(br, syntax.KindBracketedSpan, syntax.KindLinkStart,
				[]syntax.Element{tok(syntax.KindAttribute, attr)})
			p.textStart = after + len(attr)
			return 1 + len(attr)
		}
	}
	return 0
}

// finishBracket replaces the bracket's opening text with a node holding
// everything after it, the closing ] and tail.
func (p *inlineParser) finishBracket(br *bracket, kind, startKind syntax.Kind, tail []syntax.Element) {
	p.processEmphasis(br.prevDelim)
	children := []syntax.Element{tok(startKind, br.item.el.Text())}
	children = append(children, p.takeAfter(br.item, nil)...)
	children = append(children, tok(syntax.KindLinkEnd, "]"))
	children = append(children, tail...)
	br.item.el = node(kind, children...)
}

func tokensLen(els []syntax.Element) int {
	n := 0
	for _, el := range els {
		n += len(el.Text())
	}
	return n
}

// linkTail recognises what follows the ] of a link or image: an inline
// destination, a reference label, or nothing for a shortcut reference to a
// defined label. An attribute block may follow any of them.
func (p *inlineParser) linkTail(label string, after int) ([]syntax.Element, bool) {
	src := p.src
	rest := src[after:]
	var tail []syntax.Element

	switch {
	case p.ext.InlineLinks && strings.HasPrefix(rest, "("):
		n, ok := inlineDestination(rest)
		if !ok {
			return nil, false
		}
		tail = append(tail, tok(syntax.KindLinkDest, rest[:n]))

	case p.ext.ReferenceLinks && strings.HasPrefix(rest, "["):
		end := strings.IndexByte(rest, ']')
		if end < 0 || strings.ContainsRune(rest[1:end], '[') {
			return nil, false
		}
		ref := rest[1:end]
		if ref == "" {
			ref = label
		}
		if !p.refs[NormalizeLabel(ref)] {
			return nil, false
		}
		tail = append(tail, tok(syntax.KindLinkRef, rest[:end+1]))

	case p.ext.ShortcutReferenceLinks && !strings.HasPrefix(label, "^") && p.refs[NormalizeLabel(label)]:

	default:
		return nil, false
	}

	if p.ext.LinkAttributes {
		end := after + tokensLen(tail)
		if attr := attributeRe.FindString(src[end:]); attr != "" {
			tail = append(tail, tok(syntax.KindAttribute, attr))
		}
	}
	return tail, true
}

// inlineDestination measures "(url "title")" at the start of s.
func inlineDestination(s string) (int, bool) {
	i := skipLinkSpace(s, 1)
	if i < len(s) && s[i] == '<' {
		end := strings.IndexAny(s[i:], ">\n")
		if end < 0 || s[i+end] != '>' {
			return 0, false
		}
		i += end + 1
	} else {
		depth := 0
	dest:
		for i < len(s) {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
				i += 2
				continue
			case c == '(':
				depth++
			case c == ')':
				if depth == 0 {
					break dest
				}
				depth--
			case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c < 0x20:
				break dest
			}
			i++
		}
		if depth != 0 {
			return 0, false
		}
	}

	j := skipLinkSpace(s, i)
	if j > i && j < len(s) && (s[j] == '"' || s[j] == '\'' || s[j] == '(') {
		closer := s[j]
		if closer == '(' {
			closer = ')'
		}
		k := j + 1
		for k < len(s) && s[k] != closer {
			if s[k] == '\\' {
				k++
			}
			k++
		}
		if k >= len(s) {
			return 0, false
		}
		i = skipLinkSpace(s, k+1)
	} else {
		i = j
	}
	if i >= len(s) || s[i] != ')' {
		return 0, false
	}
	return i + 1, true
}

// skipLinkSpace skips spaces and at most one line ending.
func skipLinkSpace(s string, i int) int {
	newline := false
	for i < len(s) {
		switch s[i] {
		case ' ', '\t':
		case '\r':
		case '\n':
			if newline {
				return i
			}
			newline = true
		default:
			return i
		}
		i++
	}
	return i
}
