package parser

import "github.com/yaklabco/mdfmt/pkg/syntax"

// resolveTightness walks the tree and turns the paragraphs of tight lists and
// tight definition items into PLAIN nodes.
func resolveTightness(n *syntax.Node) {
	for _, child := range n.ChildNodes() {
		resolveTightness(child)
	}
	switch n.Kind() {
	case syntax.KindList:
		if listIsLoose(n) {
			return
		}
		for _, item := range n.ChildNodes() {
			plainParagraphs(item)
		}
	case syntax.KindDefinitionItem:
		if hasBlankLine(n) {
			return
		}
		for _, def := range n.ChildNodes() {
			if def.Kind() == syntax.KindDefinition && !blankBetweenBlocks(def) {
				plainParagraphs(def)
			}
		}
	}
}

// LooseList reports whether blank lines separate any two items of list or
// any two blocks inside one item.
func LooseList(list *syntax.Node) bool {
	return listIsLoose(list)
}

func listIsLoose(list *syntax.Node) bool {
	items := list.ChildNodes()
	for i, item := range items {
		if i < len(items)-1 && endsWithBlank(item) {
			return true
		}
		if blankBetweenBlocks(item) {
			return true
		}
	}
	return false
}

// endsWithBlank reports whether the last block of n, followed down through
// nested containers, ends with a blank line.
func endsWithBlank(n *syntax.Node) bool {
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		switch c := children[i].(type) {
		case *syntax.Token:
			if c.Kind() == syntax.KindBlankLine {
				return true
			}
			if c.Kind() == syntax.KindWhitespace || c.Kind() == syntax.KindBlockquoteMarker {
				continue
			}
			return false
		case *syntax.Node:
			if c.Kind().Is(syntax.KindList, syntax.KindListItem, syntax.KindBlockquote,
				syntax.KindFencedDiv, syntax.KindDefinitionList, syntax.KindDefinitionItem,
				syntax.KindDefinition, syntax.KindFootnoteDefinition) {
				return endsWithBlank(c)
			}
			return false
		}
	}
	return false
}

// blankBetweenBlocks reports a blank line with block content on both sides
// among the direct children of n.
func blankBetweenBlocks(n *syntax.Node) bool {
	sawBlock, pendingBlank := false, false
	for _, child := range n.Children() {
		switch c := child.(type) {
		case *syntax.Token:
			if c.Kind() == syntax.KindBlankLine && sawBlock {
				pendingBlank = true
			}
		case *syntax.Node:
			if pendingBlank {
				return true
			}
			sawBlock = true
		}
	}
	return false
}

func hasBlankLine(n *syntax.Node) bool {
	for _, tok := range n.ChildTokens() {
		if tok.Kind() == syntax.KindBlankLine {
			return true
		}
	}
	return false
}

func plainParagraphs(n *syntax.Node) {
	for _, child := range n.ChildNodes() {
		if child.Kind() == syntax.KindParagraph {
			child.SetKind(syntax.KindPlain)
		}
	}
}
