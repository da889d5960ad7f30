package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabStop is the column multiple a tab advances to.
const tabStop = 4

// sourceLine is one input line. The ending is kept separately so it can be
// emitted verbatim as a NEWLINE token.
type sourceLine struct {
	text   string
	ending string
}

// splitLines cuts text into lines, preserving each line's own ending (LF,
// CRLF, or none for a final unterminated line).
func splitLines(text string) []sourceLine {
	var lines []sourceLine
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, sourceLine{text: text})
			break
		}
		end := i
		if end > 0 && text[end-1] == '\r' {
			end--
		}
		lines = append(lines, sourceLine{text: text[:end], ending: text[end : i+1]})
		text = text[i+1:]
	}
	return lines
}

// cursor walks a single line. col tracks the visual column with tabs
// expanded, which is what container indentation rules are stated in.
type cursor struct {
	text string
	pos  int
	col  int
}

func newCursor(text string) cursor {
	return cursor{text: text}
}

func (c cursor) rest() string {
	return c.text[c.pos:]
}

func (c cursor) eol() bool {
	return c.pos >= len(c.text)
}

func (c cursor) peek() byte {
	if c.pos >= len(c.text) {
		return 0
	}
	return c.text[c.pos]
}

func (c cursor) blank() bool {
	return isBlank(c.rest())
}

// indent returns the width in columns of the whitespace at the cursor.
func (c cursor) indent() int {
	col := c.col
	for i := c.pos; i < len(c.text); i++ {
		switch c.text[i] {
		case ' ':
			col++
		case '\t':
			col += tabStop - col%tabStop
		default:
			return col - c.col
		}
	}
	return col - c.col
}

// advance moves over n bytes that contain no tabs.
func (c *cursor) advance(n int) string {
	s := c.text[c.pos : c.pos+n]
	c.pos += n
	c.col += utf8.RuneCountInString(s)
	return s
}

// skipIndent consumes whitespace until at least cols columns have been
// covered or a non-space byte is reached. A tab is consumed whole.
func (c *cursor) skipIndent(cols int) string {
	start := c.pos
	target := c.col + cols
	for c.pos < len(c.text) && c.col < target {
		switch c.text[c.pos] {
		case ' ':
			c.col++
		case '\t':
			c.col += tabStop - c.col%tabStop
		default:
			return c.text[start:c.pos]
		}
		c.pos++
	}
	return c.text[start:c.pos]
}

// skipSpace consumes all whitespace at the cursor.
func (c *cursor) skipSpace() string {
	return c.skipIndent(len(c.text) * tabStop)
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

// splitTrailingSpace returns s without its trailing spaces and tabs, and the
// trailing part.
func splitTrailingSpace(s string) (string, string) {
	end := len(s)
	for end > 0 && isSpaceByte(s[end-1]) {
		end--
	}
	return s[:end], s[end:]
}

// splitLeadingSpace returns the leading spaces and tabs of s and the rest.
func splitLeadingSpace(s string) (string, string) {
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// runLength counts how many times ch repeats at the start of s.
func runLength(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}

func isASCIIPunct(b byte) bool {
	return b >= '!' && b <= '/' || b >= ':' && b <= '@' || b >= '[' && b <= '`' || b >= '{' && b <= '~'
}

func isASCIIAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isPunctRune follows CommonMark: Unicode punctuation and symbols both count.
func isPunctRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIIPunct(byte(r))
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// isSpaceRune treats the start and end of content as whitespace.
func isSpaceRune(r rune) bool {
	return r == utf8.RuneError || unicode.IsSpace(r)
}

// NormalizeLabel folds a reference label for case-insensitive matching
// with internal whitespace collapsed.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
