package parser

import (
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// isInlineHost reports whether the TEXT and NEWLINE tokens of a node of kind
// k hold inline content.
func isInlineHost(k syntax.Kind) bool {
	return k.Is(syntax.KindParagraph, syntax.KindPlain, syntax.KindHeadingContent, syntax.KindTableCell,
		syntax.KindTerm, syntax.KindTableCaption, syntax.KindLineBlock)
}

// spliceToken is a non-content token of an inline host, such as a
// blockquote marker or continuation indent, pinned to a content offset.
type spliceToken struct {
	at  int
	tok *syntax.Token
}

// parseInlineTree replaces the flat content of every inline host below root
// with inline structure.
func parseInlineTree(root *syntax.Node, ext *config.Extensions, refs map[string]bool) {
	for _, child := range root.ChildNodes() {
		if isInlineHost(child.Kind()) {
			parseHost(child, ext, refs)
			continue
		}
		parseInlineTree(child, ext, refs)
	}
}

func parseHost(host *syntax.Node, ext *config.Extensions, refs map[string]bool) {
	var (
		content []byte
		splices []spliceToken
	)
	for _, el := range host.Children() {
		t, ok := el.(*syntax.Token)
		if !ok {
			return
		}
		if t.Kind() == syntax.KindText || t.Kind() == syntax.KindNewline {
			content = append(content, t.Text()...)
			continue
		}
		splices = append(splices, spliceToken{at: len(content), tok: t})
	}

	inlines := parseInlines(string(content), ext, refs)
	s := &splicer{splices: splices}
	out := s.place(inlines)
	out = s.flush(out, len(content))
	host.SetChildren(out)
}

// splicer threads pinned tokens back into an inline element list, splitting
// tokens that straddle a pinned offset. Tokens pinned to a node boundary go
// to the node's parent.
type splicer struct {
	splices []spliceToken
	next    int
	pos     int
}

func (s *splicer) flush(out []syntax.Element, upTo int) []syntax.Element {
	for s.next < len(s.splices) && s.splices[s.next].at <= upTo {
		out = append(out, s.splices[s.next].tok)
		s.next++
	}
	return out
}

func (s *splicer) pending(before int) (int, bool) {
	if s.next < len(s.splices) && s.splices[s.next].at < before {
		return s.splices[s.next].at, true
	}
	return 0, false
}

func (s *splicer) place(els []syntax.Element) []syntax.Element {
	out := make([]syntax.Element, 0, len(els))
	for _, el := range els {
		out = s.flush(out, s.pos)
		switch e := el.(type) {
		case *syntax.Token:
			text := e.Text()
			end := s.pos + len(text)
			if _, split := s.pending(end); !split {
				out = append(out, e)
				s.pos = end
				continue
			}
			for text != "" {
				at, split := s.pending(s.pos + len(text))
				if !split {
					out = append(out, syntax.NewToken(e.Kind(), text))
					s.pos += len(text)
					break
				}
				cut := at - s.pos
				out = append(out, syntax.NewToken(e.Kind(), text[:cut]))
				text = text[cut:]
				s.pos = at
				out = s.flush(out, s.pos)
			}
		case *syntax.Node:
			e.SetChildren(s.place(e.Children()))
			out = append(out, e)
		}
	}
	return out
}
