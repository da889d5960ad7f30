package parser

import (
	"regexp"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	citationKeyRe     = regexp.MustCompile(`^-?@(?:\{[^{}\s]+\}|[\p{L}\p{N}_][\p{L}\p{N}_:.#$%&\-+?<>~/]*)`)
	citationBracketRe = regexp.MustCompile(`^\[[^\[\]]*\]`)
)

// citationKey measures the citation marker and key at the start of s.
// Trailing punctuation is not part of a bare key.
func citationKey(s string) (marker, key string, ok bool) {
	m := citationKeyRe.FindString(s)
	if m == "" {
		return "", "", false
	}
	at := strings.IndexByte(m, '@')
	marker, key = m[:at+1], m[at+1:]
	if !strings.HasPrefix(key, "{") {
		key = strings.TrimRight(key, ":.#$%&-+?<>~/")
	}
	return marker, key, key != ""
}

// bareCitation recognises @key and -@key in running text.
func (p *inlineParser) bareCitation(i int) int {
	if i > 0 {
		prev := p.runeBefore(i)
		if !isSpaceRune(prev) && prev != '(' && prev != '[' && prev != ';' {
			return 0
		}
	}
	marker, key, ok := citationKey(p.src[i:])
	if !ok {
		return 0
	}
	end := i + len(marker) + len(key)
	p.emit(i, end, node(syntax.KindCitation,
		tok(syntax.KindCitationMarker, marker),
		tok(syntax.KindCitationKey, key)))
	return end - i
}

// bracketedCitation recognises [prefix @key suffix; -@other] where every
// semicolon separated item carries a key.
func (p *inlineParser) bracketedCitation(i int) int {
	if !p.ext.Citations {
		return 0
	}
	src := p.src
	m := citationBracketRe.FindString(src[i:])
	if m == "" || !strings.Contains(m, "@") {
		return 0
	}
	end := i + len(m)
	if p.ext.InlineLinks && strings.HasPrefix(src[end:], "(") {
		return 0
	}

	children := []syntax.Element{tok(syntax.KindCitationMarker, "[")}
	items := strings.Split(m[1:len(m)-1], ";")
	for n, item := range items {
		if n > 0 {
			children = append(children, tok(syntax.KindCitationSeparator, ";"))
		}
		at := citationStart(item)
		if at < 0 {
			return 0
		}
		marker, key, _ := citationKey(item[at:])
		children = append(children, textLines(syntax.KindText, item[:at])...)
		children = append(children, tok(syntax.KindCitationMarker, marker), tok(syntax.KindCitationKey, key))
		children = append(children, textLines(syntax.KindText, item[at+len(marker)+len(key):])...)
	}
	children = append(children, tok(syntax.KindCitationMarker, "]"))
	p.emit(i, end, node(syntax.KindCitation, children...))
	return len(m)
}

// citationStart finds the first key in item that starts a word.
func citationStart(item string) int {
	for j := 0; j < len(item); j++ {
		if item[j] != '@' && item[j] != '-' {
			continue
		}
		if j > 0 && !isSpaceByte(item[j-1]) && item[j-1] != '\n' {
			continue
		}
		if _, _, ok := citationKey(item[j:]); ok {
			return j
		}
	}
	return -1
}
