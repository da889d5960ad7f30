package format

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// word is an unbreakable run of inline content.
type word struct {
	text string

	// soft is set when a source line break preceded the word.
	soft bool

	// hard is set when a hard line break follows the word.
	hard bool

	// plain lists the byte ranges of text that came from literal TEXT
	// tokens, as start and end pairs.
	plain [][2]int
}

// isPlain reports whether the byte at i is literal text.
func (w word) isPlain(i int) bool {
	for _, r := range w.plain {
		if i >= r[0] && i < r[1] {
			return true
		}
	}
	return false
}

// wordBuilder splits inline content into words. Line breaks and container
// prefixes between words are dropped; spans that must stay on one line
// (code, math, autolinks, raw HTML) become part of a single word.
type wordBuilder struct {
	f     *formatter
	words []word
	cur   strings.Builder
	soft  bool
	plain [][2]int

	// space is a collapsed whitespace run waiting for the next character.
	space bool
}

func (f *formatter) inlineWords(els []syntax.Element) []word {
	b := &wordBuilder{f: f}
	b.elements(els)
	b.end()
	return b.words
}

// texts returns the text of each word.
func texts(words []word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.text
	}
	return out
}

// oneLine renders inline content on a single line.
func (f *formatter) oneLine(els []syntax.Element) string {
	return strings.Join(texts(f.inlineWords(els)), " ")
}

func (b *wordBuilder) end() {
	b.space = false
	if b.cur.Len() == 0 {
		return
	}
	b.words = append(b.words, word{text: b.cur.String(), soft: b.soft, plain: b.plain})
	b.cur.Reset()
	b.soft = false
	b.plain = nil
}

func (b *wordBuilder) write(s string) {
	if s == "" {
		return
	}
	if b.space {
		b.cur.WriteByte(' ')
		b.space = false
	}
	b.cur.WriteString(s)
}

// writePlain appends literal text.
func (b *wordBuilder) writePlain(s string) {
	b.write(s)
	if s != "" {
		b.plain = append(b.plain, [2]int{b.cur.Len() - len(s), b.cur.Len()})
	}
}

// collapse appends s with every whitespace run turned into one space.
func (b *wordBuilder) collapse(s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			continue
		}
		b.write(s[start:i])
		if b.cur.Len() > 0 {
			b.space = true
		}
		start = i + 1
	}
	b.write(s[start:])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (b *wordBuilder) elements(els []syntax.Element) {
	for i, el := range els {
		switch e := el.(type) {
		case *syntax.Token:
			b.token(e)
		case *syntax.Node:
			switch e.Kind() {
			case syntax.KindInlineMath, syntax.KindDisplayMath:
				b.write(b.f.math(e, firstByte(els[i+1:])))
			case syntax.KindCodeSpan, syntax.KindRawInline, syntax.KindAutolink,
				syntax.KindHTMLInline, syntax.KindShortcode:
				b.write(atomic(e))
			default:
				b.elements(e.Children())
			}
		}
	}
}

func (b *wordBuilder) token(t *syntax.Token) {
	switch t.Kind() {
	case syntax.KindText:
		s := t.Text()
		start := 0
		for i := 0; i < len(s); i++ {
			if s[i] == ' ' || s[i] == '\t' {
				b.writePlain(s[start:i])
				b.end()
				start = i + 1
			}
		}
		b.writePlain(s[start:])
	case syntax.KindNewline:
		b.end()
		b.soft = true
	case syntax.KindHardLineBreak:
		b.end()
		if n := len(b.words); n > 0 {
			b.words[n-1].hard = true
		}
	case syntax.KindWhitespace, syntax.KindBlockquoteMarker,
		syntax.KindCaptionPrefix, syntax.KindLineBlockMarker:
		// Container prefixes spliced into the inline content.
	case syntax.KindNonbreakingSpace, syntax.KindEscapedChar:
		b.write(t.Text())
	default:
		b.collapse(t.Text())
	}
}

//nolint:gochecknoglobals // Stateless replacer.
var newlines = strings.NewReplacer("\r\n", " ", "\n", " ")

// atomic renders a span that is never broken across lines.
func atomic(n *syntax.Node) string {
	var sb strings.Builder
	for _, t := range syntax.Tokens(n) {
		switch t.Kind() {
		case syntax.KindWhitespace, syntax.KindBlockquoteMarker:
		case syntax.KindNewline:
			sb.WriteByte(' ')
		default:
			sb.WriteString(newlines.Replace(t.Text()))
		}
	}
	return sb.String()
}

// math renders inline or display math, switching backslash delimiters to
// dollars when configured and the result still reads as math. next is the
// first byte after the span.
func (f *formatter) math(n *syntax.Node, next byte) string {
	m, _ := ast.AsMath(n)
	if f.cfg.MathDelimiters != config.MathDollars || !f.ext.TexMathDollars {
		return atomic(n)
	}
	tex := newlines.Replace(m.TeX())
	if tex == "" || isSpace(tex[0]) || isSpace(tex[len(tex)-1]) {
		return atomic(n)
	}
	switch strings.TrimLeft(m.Delimiter(), `\`) {
	case "(":
		if strings.Contains(tex, "$") || (next >= '0' && next <= '9') {
			return atomic(n)
		}
		return "$" + tex + "$"
	case "[":
		if strings.Contains(tex, "$$") {
			return atomic(n)
		}
		return "$$" + tex + "$$"
	}
	return atomic(n)
}

// firstByte returns the first byte of text in els, or 0.
func firstByte(els []syntax.Element) byte {
	for _, el := range els {
		var s string
		switch e := el.(type) {
		case *syntax.Token:
			s = e.Text()
		case *syntax.Node:
			s = e.Text()
		}
		if s != "" {
			return s[0]
		}
	}
	return 0
}
