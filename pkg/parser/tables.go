package parser

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// table recognises a pipe, grid or simple table starting at the current line.
// s is the line with indentation removed.
func (p *blockParser) table(ln sourceLine, lead, s string) bool {
	switch {
	case p.ext.PipeTables && strings.Contains(s, "|") && p.pipeTableAhead(s):
		p.pipeTable(ln, lead, s)
		return true

	case p.ext.GridTables && gridBorderRe.MatchString(s):
		p.verbatimTable(syntax.KindGridTable, func(rest string) bool {
			return strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "|")
		})
		return true

	case p.ext.SimpleTables && p.simpleTableAhead():
		p.verbatimTable(syntax.KindSimpleTable, func(string) bool { return true })
		return true
	}
	return false
}

func (p *blockParser) pipeTableAhead(header string) bool {
	cur, _, ok := p.scopedLine(p.i + 1)
	if !ok || cur.indent() > 3 {
		return false
	}
	cur.skipSpace()
	sep := cur.rest()
	return isPipeSeparator(sep) && len(pipeCells(sep)) == len(pipeCells(header))
}

func (p *blockParser) simpleTableAhead() bool {
	cur, _, ok := p.scopedLine(p.i + 1)
	if !ok || cur.indent() > 3 {
		return false
	}
	cur.skipSpace()
	return dashGroupsRe.MatchString(cur.rest())
}

// dashedTable recognises headerless simple tables and multiline tables, both
// of which open with a line of dashes that would otherwise read as a
// thematic break. The whole table must be present: a closing dashed line
// followed by a blank line or the end of the enclosing container.
func (p *blockParser) dashedTable(s string) bool {
	if !(p.ext.SimpleTables && dashGroupsRe.MatchString(s)) && !(p.ext.MultilineTables && dashLineRe.MatchString(s)) {
		return false
	}
	multiline := dashLineRe.MatchString(s)
	first, _, ok := p.scopedLine(p.i + 1)
	if !ok || first.blank() {
		return false
	}

	sawColumns := !multiline
	blanks := 0
	for j := p.i + 1; ; j++ {
		cur, _, ok := p.scopedLine(j)
		if !ok {
			return false
		}
		if cur.blank() {
			blanks++
			if blanks > 1 || !multiline {
				return false
			}
			continue
		}
		blanks = 0
		probe := cur
		probe.skipSpace()
		rest := probe.rest()
		if dashGroupsRe.MatchString(rest) {
			sawColumns = true
		}
		if !dashGroupsRe.MatchString(rest) && !dashLineRe.MatchString(rest) {
			continue
		}
		next, _, inScope := p.scopedLine(j + 1)
		if inScope && !next.blank() {
			continue
		}
		if !sawColumns {
			return false
		}
		p.verbatimLines(syntax.KindSimpleTable, j+1-p.i)
		p.tableCaption()
		p.b.FinishNode()
		return true
	}
}

// verbatimTable consumes a table whose lines are kept exactly as written.
// Rows continue while they are in scope, non-blank and accepted by row.
func (p *blockParser) verbatimTable(kind syntax.Kind, row func(rest string) bool) {
	n := 1
	for {
		cur, _, ok := p.scopedLine(p.i + n)
		if !ok || cur.blank() {
			break
		}
		cur.skipSpace()
		if !row(cur.rest()) {
			break
		}
		n++
	}
	p.verbatimLines(kind, n)
	p.tableCaption()
	p.b.FinishNode()
}

// verbatimLines opens a table node and emits n lines into it as TEXT.
func (p *blockParser) verbatimLines(kind syntax.Kind, n int) {
	p.flushPrefix()
	p.b.StartNode(kind)
	for k := 0; k < n; k++ {
		cur, prefix, _ := p.scopedLine(p.i)
		if k > 0 {
			p.b.AppendTokens(prefix)
		}
		p.token(syntax.KindText, cur.rest())
		p.token(syntax.KindNewline, p.lines[p.i].ending)
		p.i++
	}
}

func (p *blockParser) pipeTable(ln sourceLine, lead, s string) {
	p.flushPrefix()
	p.b.StartNode(syntax.KindPipeTable)

	p.b.StartNode(syntax.KindTableHeader)
	p.token(syntax.KindWhitespace, lead)
	p.pipeRow(s, false)
	p.token(syntax.KindNewline, ln.ending)
	p.b.FinishNode()
	p.i++

	kind := syntax.KindTableSeparator
	for {
		cur, prefix, ok := p.scopedLine(p.i)
		if !ok || cur.blank() {
			break
		}
		if kind == syntax.KindTableRow {
			probe := cur
			probe.skipSpace()
			if !strings.Contains(probe.rest(), "|") || p.interrupts(cur) {
				break
			}
		}
		p.b.AppendTokens(prefix)
		p.b.StartNode(kind)
		p.pipeRow(cur.rest(), kind == syntax.KindTableSeparator)
		p.token(syntax.KindNewline, p.lines[p.i].ending)
		p.b.FinishNode()
		p.i++
		kind = syntax.KindTableRow
	}

	p.tableCaption()
	p.b.FinishNode()
}

// pipeRow emits the pipes and cells of one row into the current node.
func (p *blockParser) pipeRow(s string, separator bool) {
	lead, body := splitLeadingSpace(s)
	body, trailing := splitTrailingSpace(body)
	p.token(syntax.KindWhitespace, lead)

	cell := func(text string) {
		left, mid := splitLeadingSpace(text)
		mid, right := splitTrailingSpace(mid)
		p.token(syntax.KindWhitespace, left)
		if separator {
			p.token(syntax.KindTableSeparatorText, mid)
		} else {
			p.b.StartNode(syntax.KindTableCell)
			p.token(syntax.KindText, mid)
			p.b.FinishNode()
		}
		p.token(syntax.KindWhitespace, right)
	}

	start := 0
	for _, pos := range pipePositions(body) {
		if pos > 0 {
			cell(body[start:pos])
		}
		p.token(syntax.KindTablePipe, "|")
		start = pos + 1
	}
	if start < len(body) {
		cell(body[start:])
	}
	p.token(syntax.KindWhitespace, trailing)
}

// tableCaption attaches a caption that directly follows the table, possibly
// after one blank line.
func (p *blockParser) tableCaption() {
	if !p.ext.TableCaptions {
		return
	}
	cur, prefix, ok := p.scopedLine(p.i)
	if !ok {
		return
	}
	blank := cur.blank()
	blankLine, blankPrefix := cur, prefix
	if blank {
		cur, _, ok = p.scopedLine(p.i + 1)
		if !ok {
			return
		}
	}
	if cur.indent() > 3 {
		return
	}
	probe := cur
	probe.skipSpace()
	if !captionPrefixRe.MatchString(probe.rest()) {
		return
	}

	if blank {
		p.b.AppendTokens(blankPrefix)
		p.token(syntax.KindWhitespace, blankLine.rest())
		p.token(syntax.KindBlankLine, p.lines[p.i].ending)
		p.i++
	}

	cur, prefix, _ = p.scopedLine(p.i)
	p.b.AppendTokens(prefix)
	p.token(syntax.KindWhitespace, cur.skipSpace())
	p.b.StartNode(syntax.KindTableCaption)
	s := cur.rest()
	n := strings.IndexByte(s, ':') + 1
	p.token(syntax.KindCaptionPrefix, s[:n])
	gap, rest := splitLeadingSpace(s[n:])
	p.token(syntax.KindWhitespace, gap)
	p.token(syntax.KindText, rest)
	p.token(syntax.KindNewline, p.lines[p.i].ending)
	p.i++
	for {
		cur, prefix, ok := p.scopedLine(p.i)
		if !ok || cur.blank() || p.interrupts(cur) {
			break
		}
		p.b.AppendTokens(prefix)
		p.token(syntax.KindWhitespace, cur.skipSpace())
		p.token(syntax.KindText, cur.rest())
		p.token(syntax.KindNewline, p.lines[p.i].ending)
		p.i++
	}
	p.b.FinishNode()
}
