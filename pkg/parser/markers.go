package parser

import (
	"regexp"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/config"
)

// ListStyle classifies the numbering of a list marker.
type ListStyle int

const (
	ListBullet ListStyle = iota
	ListDecimal
	ListLowerAlpha
	ListUpperAlpha
	ListLowerRoman
	ListUpperRoman
	ListHash
	ListExample
)

// ListDelim is the punctuation around an ordered list number.
type ListDelim int

const (
	DelimNone ListDelim = iota
	DelimPeriod
	DelimParen
	DelimParens
)

// ListMarker describes a parsed list item marker.
type ListMarker struct {
	Style  ListStyle
	Delim  ListDelim
	Bullet byte
	// Number is the ordinal of the marker, 1 for bullets and hash markers.
	Number int
	// Text is the marker exactly as written.
	Text string
}

// Ordered reports whether the marker belongs to an ordered list.
func (m ListMarker) Ordered() bool {
	return m.Style != ListBullet
}

// compatible reports whether an item with marker other continues a list
// started with m.
func (m ListMarker) compatible(other ListMarker) bool {
	if m.Style == ListBullet || other.Style == ListBullet {
		return m.Style == other.Style && m.Bullet == other.Bullet
	}
	if m.Delim != other.Delim {
		return false
	}
	if m.Style == other.Style {
		return true
	}
	// A lone i, v or x reads as roman numerals unless an alphabetic list is
	// already running.
	switch {
	case m.Style == ListLowerAlpha && other.Style == ListLowerRoman:
		return len(strings.Trim(other.Text, "().")) == 1
	case m.Style == ListUpperAlpha && other.Style == ListUpperRoman:
		return len(strings.Trim(other.Text, "().")) == 1
	}
	return false
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000}

func parseRoman(s string) (int, bool) {
	s = strings.ToLower(s)
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total, total > 0
}

// ParseListMarker parses a list marker, such as the text of a LIST_MARKER
// token, under ext.
func ParseListMarker(s string, ext *config.Extensions) (ListMarker, bool) {
	return parseListMarker(s, ext)
}

// parseListMarker recognises a list marker at the start of s. It returns the
// marker and its width in bytes; the marker must be followed by whitespace or
// the end of the line.
func parseListMarker(s string, ext *config.Extensions) (ListMarker, bool) {
	if s == "" {
		return ListMarker{}, false
	}
	var m ListMarker
	n := 0
	switch c := s[0]; {
	case c == '-' || c == '+' || c == '*':
		m = ListMarker{Style: ListBullet, Bullet: c, Number: 1}
		n = 1
	case ext.FancyLists && c == '(' && len(s) > 1:
		inner, ok := parseOrdinal(s[1:], ext)
		if !ok || 1+len(inner.Text) >= len(s) || s[1+len(inner.Text)] != ')' {
			return ListMarker{}, false
		}
		m = inner
		m.Delim = DelimParens
		n = len(inner.Text) + 2
	default:
		inner, ok := parseOrdinal(s, ext)
		if !ok || len(inner.Text) >= len(s) {
			return ListMarker{}, false
		}
		switch s[len(inner.Text)] {
		case '.':
			m = inner
			m.Delim = DelimPeriod
		case ')':
			if !ext.FancyLists && inner.Style != ListDecimal {
				return ListMarker{}, false
			}
			m = inner
			m.Delim = DelimParen
		default:
			return ListMarker{}, false
		}
		n = len(inner.Text) + 1
	}
	if m.Style == ListExample && m.Delim != DelimParens {
		return ListMarker{}, false
	}
	if n < len(s) && !isSpaceByte(s[n]) {
		return ListMarker{}, false
	}
	// "B. Russell" is not a list: an upper-case letter with a period needs
	// two spaces after it.
	if m.Style == ListUpperAlpha && m.Delim == DelimPeriod && n-1 == 1 {
		if n < len(s) && !strings.HasPrefix(s[n:], "  ") && s[n] != '\t' {
			return ListMarker{}, false
		}
	}
	m.Text = s[:n]
	return m, true
}

// parseOrdinal reads the number part of an ordered marker. The returned
// marker's Text holds only the ordinal.
func parseOrdinal(s string, ext *config.Extensions) (ListMarker, bool) {
	if d := runDigits(s); d > 0 {
		if d > 9 {
			return ListMarker{}, false
		}
		num := 0
		for i := 0; i < d; i++ {
			num = num*10 + int(s[i]-'0')
		}
		return ListMarker{Style: ListDecimal, Number: num, Text: s[:d]}, true
	}
	if !ext.FancyLists {
		return ListMarker{}, false
	}
	if s[0] == '#' {
		return ListMarker{Style: ListHash, Number: 1, Text: "#"}, true
	}
	if s[0] == '@' && ext.ExampleLists {
		n := 1
		for n < len(s) && (isASCIIAlnum(s[n]) || s[n] == '_' || s[n] == '-') {
			n++
		}
		return ListMarker{Style: ListExample, Number: 1, Text: s[:n]}, true
	}
	n := 0
	for n < len(s) && (s[n] >= 'a' && s[n] <= 'z' || s[n] >= 'A' && s[n] <= 'Z') {
		n++
	}
	if n == 0 {
		return ListMarker{}, false
	}
	word := s[:n]
	singleLetter := n == 1 && word != "i" && word != "I"
	if v, ok := parseRoman(word); ok && !singleLetter && (word == strings.ToLower(word) || word == strings.ToUpper(word)) {
		style := ListLowerRoman
		if word[0] >= 'A' && word[0] <= 'Z' {
			style = ListUpperRoman
		}
		return ListMarker{Style: style, Number: v, Text: word}, true
	}
	if n != 1 {
		return ListMarker{}, false
	}
	if word[0] >= 'a' {
		return ListMarker{Style: ListLowerAlpha, Number: int(word[0]-'a') + 1, Text: word}, true
	}
	return ListMarker{Style: ListUpperAlpha, Number: int(word[0]-'A') + 1, Text: word}, true
}

func runDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// isThematicBreak reports whether s (indentation already removed) is three or
// more matching *, - or _ characters with optional interior spaces.
func isThematicBreak(s string) bool {
	if s == "" {
		return false
	}
	ch := s[0]
	if ch != '*' && ch != '-' && ch != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// setextLevel returns 1 for a line of '=' and 2 for a line of '-', 0 otherwise.
func setextLevel(s string) int {
	body, _ := splitTrailingSpace(s)
	if body == "" {
		return 0
	}
	switch ch := body[0]; ch {
	case '=', '-':
		if runLength(body, ch) == len(body) {
			if ch == '=' {
				return 1
			}
			return 2
		}
	}
	return 0
}

// atxLevel returns the heading level of an ATX heading line, or 0.
func atxLevel(s string) int {
	n := runLength(s, '#')
	if n < 1 || n > 6 {
		return 0
	}
	if n < len(s) && !isSpaceByte(s[n]) {
		return 0
	}
	return n
}

// fenceInfo describes an opening code fence.
type fenceInfo struct {
	char   byte
	length int
}

func parseCodeFence(s string, ext *config.Extensions) (fenceInfo, bool) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return fenceInfo{}, false
	}
	if s[0] == '`' && !ext.BacktickCodeBlocks {
		return fenceInfo{}, false
	}
	if s[0] == '~' && !ext.FencedCodeBlocks {
		return fenceInfo{}, false
	}
	n := runLength(s, s[0])
	if n < 3 {
		return fenceInfo{}, false
	}
	if s[0] == '`' && strings.IndexByte(s[n:], '`') >= 0 {
		return fenceInfo{}, false
	}
	return fenceInfo{char: s[0], length: n}, true
}

// closesFence reports whether s closes a fence opened with f.
func closesFence(s string, f fenceInfo) bool {
	n := runLength(s, f.char)
	return n >= f.length && isBlank(s[n:])
}

var (
	divOpenRe       = regexp.MustCompile(`^(:{3,})([ \t]*)(\{[^}]*\}|[^\s:{}]+)([ \t]*)(:*)([ \t]*)$`)
	footnoteDefRe   = regexp.MustCompile(`^\[\^([^\]\s]+)\]:`)
	referenceDefRe  = regexp.MustCompile(`^\[([^\]^][^\]]*)\]:([ \t]*)(<[^>]*>|\S+)(?:([ \t]+)("[^"]*"|'[^']*'|\([^)]*\)))?([ \t]*)$`)
	pipeSepCellRe   = regexp.MustCompile(`^[ \t]*:?-+:?[ \t]*$`)
	gridBorderRe    = regexp.MustCompile(`^\+(?:[-=:]+\+)+[ \t]*$`)
	dashGroupsRe    = regexp.MustCompile(`^-+(?:[ \t]+-+)+[ \t]*$`)
	dashLineRe      = regexp.MustCompile(`^-{3,}[ \t]*$`)
	captionPrefixRe = regexp.MustCompile(`^(?:[Tt]able:|:)(?:[ \t]|$)`)
	texEnvRe        = regexp.MustCompile(`^\\(begin|end)\{([^{}]+)\}`)
)

// isDivCloser reports whether s is a bare fence of three or more colons.
func isDivCloser(s string) bool {
	n := runLength(s, ':')
	return n >= 3 && isBlank(s[n:])
}

// isDefinitionMarker reports whether s starts with ':' or '~' followed by
// whitespace or the end of the line.
func isDefinitionMarker(s string) bool {
	if s == "" || (s[0] != ':' && s[0] != '~') {
		return false
	}
	return len(s) == 1 || isSpaceByte(s[1])
}

// pipePositions returns the byte offsets of unescaped pipes in s.
func pipePositions(s string) []int {
	var pos []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '|':
			pos = append(pos, i)
		}
	}
	return pos
}

// pipeCells returns the cell texts of a pipe table row, ignoring the
// optional leading and trailing pipes.
func pipeCells(s string) []string {
	s = strings.TrimSpace(s)
	pos := pipePositions(s)
	var cells []string
	start := 0
	for _, p := range pos {
		if p == 0 {
			start = 1
			continue
		}
		cells = append(cells, s[start:p])
		start = p + 1
	}
	if start < len(s) {
		cells = append(cells, s[start:])
	}
	return cells
}

// isPipeSeparator reports whether s is a pipe table delimiter row.
func isPipeSeparator(s string) bool {
	if !strings.Contains(s, "|") && !strings.Contains(s, "-") {
		return false
	}
	cells := pipeCells(s)
	if len(cells) == 0 {
		return false
	}
	if len(cells) == 1 && !strings.Contains(s, "|") {
		return false
	}
	for _, c := range cells {
		if !pipeSepCellRe.MatchString(c) {
			return false
		}
	}
	return true
}

// htmlBlockTags start an HTML block that ends at a blank line.
var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "body": true,
	"center": true, "dd": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "main": true, "menu": true, "nav": true, "ol": true,
	"p": true, "section": true, "summary": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true, "ul": true, "video": true,
	"audio": true, "canvas": true, "svg": true,
}

// htmlVerbatimTags start an HTML block that ends at the matching close tag.
var htmlVerbatimTags = []string{"script", "pre", "style", "textarea"}

// htmlBlockEnd returns the terminator for an HTML block starting with s:
// a literal end string, "" for "ends at a blank line", or ok=false when s
// does not start an HTML block.
func htmlBlockEnd(s string) (string, bool) {
	if !strings.HasPrefix(s, "<") {
		return "", false
	}
	if strings.HasPrefix(s, "<!--") {
		return "-->", true
	}
	if strings.HasPrefix(s, "<?") {
		return "?>", true
	}
	if len(s) > 2 && s[1] == '!' && s[2] >= 'A' && s[2] <= 'Z' {
		return ">", true
	}
	lower := strings.ToLower(s)
	for _, tag := range htmlVerbatimTags {
		if strings.HasPrefix(lower, "<"+tag) {
			rest := lower[len(tag)+1:]
			if rest == "" || rest[0] == '>' || isSpaceByte(rest[0]) {
				return "</" + tag + ">", true
			}
		}
	}
	name := lower[1:]
	name = strings.TrimPrefix(name, "/")
	end := 0
	for end < len(name) && (isASCIIAlnum(name[end])) {
		end++
	}
	if end == 0 || !htmlBlockTags[name[:end]] {
		return "", false
	}
	if end < len(name) && !isSpaceByte(name[end]) && name[end] != '>' && !strings.HasPrefix(name[end:], "/>") {
		return "", false
	}
	return "", true
}
