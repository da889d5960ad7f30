package ast

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// ReferenceStyle indicates the syntax style of a link or image reference.
type ReferenceStyle uint8

const (
	// RefStyleInline represents inline links: [text](url) or ![alt](url).
	RefStyleInline ReferenceStyle = iota

	// RefStyleFull represents full reference links: [text][label].
	RefStyleFull

	// RefStyleCollapsed represents collapsed reference links: [label][].
	RefStyleCollapsed

	// RefStyleShortcut represents shortcut reference links: [label].
	RefStyleShortcut

	// RefStyleAutolink represents autolinks and bare URIs.
	RefStyleAutolink
)

// String returns a human-readable name for the reference style.
func (s ReferenceStyle) String() string {
	switch s {
	case RefStyleInline:
		return "inline"
	case RefStyleFull:
		return "full"
	case RefStyleCollapsed:
		return "collapsed"
	case RefStyleShortcut:
		return "shortcut"
	case RefStyleAutolink:
		return "autolink"
	default:
		return "unknown"
	}
}

// Link is a LINK, IMAGE or AUTOLINK node.
type Link struct{ node *syntax.Node }

// AsLink casts n to a Link.
func AsLink(n *syntax.Node) (Link, bool) {
	if n == nil || !n.Kind().Is(syntax.KindLink, syntax.KindImage, syntax.KindAutolink) {
		return Link{}, false
	}
	return Link{n}, true
}

// Node returns the wrapped node.
func (l Link) Node() *syntax.Node { return l.node }

// IsImage reports whether the link is an image.
func (l Link) IsImage() bool { return l.node.Kind() == syntax.KindImage }

// Style returns the reference style.
func (l Link) Style() ReferenceStyle {
	switch {
	case l.node.Kind() == syntax.KindAutolink:
		return RefStyleAutolink
	case l.node.FirstToken(syntax.KindLinkDest) != nil:
		return RefStyleInline
	}
	switch ref := tokenText(l.node, syntax.KindLinkRef); ref {
	case "":
		return RefStyleShortcut
	case "[]":
		return RefStyleCollapsed
	default:
		return RefStyleFull
	}
}

// Text returns the link text, or the alt text of an image.
func (l Link) Text() string {
	if l.node.Kind() == syntax.KindAutolink {
		return l.Destination()
	}
	var sb strings.Builder
	writePlain(&sb, bracketLabel(l.node))
	return strings.TrimSpace(sb.String())
}

// ReferenceLabel returns the label a reference link resolves through, or ""
// for inline links and autolinks.
func (l Link) ReferenceLabel() string {
	switch l.Style() {
	case RefStyleFull:
		ref := tokenText(l.node, syntax.KindLinkRef)
		return ref[1 : len(ref)-1]
	case RefStyleCollapsed, RefStyleShortcut:
		var sb strings.Builder
		for _, el := range bracketLabel(l.node) {
			sb.WriteString(el.Text())
		}
		return sb.String()
	default:
		return ""
	}
}

// Destination returns the URL of an inline link or autolink. Reference
// links return "": resolve ReferenceLabel against the document's
// definitions instead.
func (l Link) Destination() string {
	dest := tokenText(l.node, syntax.KindLinkDest)
	if l.node.Kind() == syntax.KindAutolink {
		return dest
	}
	url, _ := splitDestination(dest)
	return url
}

// Title returns the title of an inline link.
func (l Link) Title() string {
	_, title := splitDestination(tokenText(l.node, syntax.KindLinkDest))
	return title
}

// Attributes returns the trailing attribute block, if any.
func (l Link) Attributes() (Attributes, bool) {
	raw := tokenText(l.node, syntax.KindAttribute)
	if raw == "" {
		return Attributes{}, false
	}
	return ParseAttributes(raw), true
}

// splitDestination splits "(url "title")" into its parts.
func splitDestination(s string) (string, string) {
	if len(s) < 2 {
		return "", ""
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	var url string
	if strings.HasPrefix(s, "<") {
		end := strings.IndexByte(s, '>')
		url, s = s[1:end], s[end+1:]
	} else {
		end := strings.IndexAny(s, " \t\r\n")
		if end < 0 {
			end = len(s)
		}
		url, s = s[:end], s[end:]
	}
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return url, s
}

// Emphasis is one of the delimited spans: EMPHASIS, STRONG, STRIKEOUT,
// MARK, SUPERSCRIPT or SUBSCRIPT.
type Emphasis struct{ node *syntax.Node }

// AsEmphasis casts n to an Emphasis.
func AsEmphasis(n *syntax.Node) (Emphasis, bool) {
	if n == nil || !n.Kind().Is(syntax.KindEmphasis, syntax.KindStrong, syntax.KindStrikeout,
		syntax.KindMark, syntax.KindSuperscript, syntax.KindSubscript) {
		return Emphasis{}, false
	}
	return Emphasis{n}, true
}

// Node returns the wrapped node.
func (e Emphasis) Node() *syntax.Node { return e.node }

// Delimiter returns the opening delimiter, such as "*" or "__".
func (e Emphasis) Delimiter() string {
	if tokens := e.node.ChildTokens(); len(tokens) > 0 {
		return tokens[0].Text()
	}
	return ""
}

// Text returns the span's content without markup.
func (e Emphasis) Text() string { return PlainText(e.node) }

// Code is a CODE_SPAN or RAW_INLINE.
type Code struct{ node *syntax.Node }

// AsCode casts n to a Code.
func AsCode(n *syntax.Node) (Code, bool) {
	if n == nil || !n.Kind().Is(syntax.KindCodeSpan, syntax.KindRawInline) {
		return Code{}, false
	}
	return Code{n}, true
}

// Node returns the wrapped node.
func (c Code) Node() *syntax.Node { return c.node }

// Code returns the content with line endings turned into spaces and one
// space stripped from each end when both ends have one.
func (c Code) Code() string {
	var sb strings.Builder
	for _, t := range c.node.ChildTokens() {
		switch t.Kind() {
		case syntax.KindText:
			sb.WriteString(t.Text())
		case syntax.KindNewline:
			sb.WriteByte(' ')
		}
	}
	s := sb.String()
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// Format returns the target format of a raw inline, such as "html".
func (c Code) Format() string {
	if c.node.Kind() != syntax.KindRawInline {
		return ""
	}
	return ParseAttributes(tokenText(c.node, syntax.KindAttribute)).Raw
}

// Math is an INLINE_MATH or DISPLAY_MATH span.
type Math struct{ node *syntax.Node }

// AsMath casts n to a Math.
func AsMath(n *syntax.Node) (Math, bool) {
	if n == nil || !n.Kind().Is(syntax.KindInlineMath, syntax.KindDisplayMath, syntax.KindDisplayMathBlock) {
		return Math{}, false
	}
	return Math{n}, true
}

// Node returns the wrapped node.
func (m Math) Node() *syntax.Node { return m.node }

// Display reports whether the math is displayed.
func (m Math) Display() bool { return m.node.Kind() != syntax.KindInlineMath }

// Delimiter returns the opening delimiter: $, $$, \( or \[.
func (m Math) Delimiter() string { return tokenText(m.node, syntax.KindMathMarker) }

// TeX returns the math source between the delimiters.
func (m Math) TeX() string {
	var sb strings.Builder
	markers := 0
	for _, t := range m.node.ChildTokens() {
		switch t.Kind() {
		case syntax.KindMathMarker:
			markers++
		case syntax.KindText, syntax.KindNewline:
			if markers == 1 {
				sb.WriteString(t.Text())
			}
		}
	}
	return sb.String()
}

// Citation is a bracketed or bare citation.
type Citation struct{ node *syntax.Node }

// AsCitation casts n to a Citation.
func AsCitation(n *syntax.Node) (Citation, bool) {
	if n == nil || n.Kind() != syntax.KindCitation {
		return Citation{}, false
	}
	return Citation{n}, true
}

// Node returns the wrapped node.
func (c Citation) Node() *syntax.Node { return c.node }

// Bracketed reports whether the citation is in [brackets].
func (c Citation) Bracketed() bool { return tokenText(c.node, syntax.KindCitationMarker) == "[" }

// Keys returns the cited keys without @ or braces.
func (c Citation) Keys() []string {
	var out []string
	for _, t := range c.node.ChildTokens() {
		if t.Kind() == syntax.KindCitationKey {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(t.Text(), "{"), "}"))
		}
	}
	return out
}

// FootnoteReference is a [^label] reference.
type FootnoteReference struct{ node *syntax.Node }

// AsFootnoteReference casts n to a FootnoteReference.
func AsFootnoteReference(n *syntax.Node) (FootnoteReference, bool) {
	if n == nil || n.Kind() != syntax.KindFootnoteReference {
		return FootnoteReference{}, false
	}
	return FootnoteReference{n}, true
}

// Node returns the wrapped node.
func (f FootnoteReference) Node() *syntax.Node { return f.node }

// Label returns the footnote identifier.
func (f FootnoteReference) Label() string {
	label := tokenText(f.node, syntax.KindFootnoteLabel)
	return strings.TrimSuffix(strings.TrimPrefix(label, "[^"), "]")
}
