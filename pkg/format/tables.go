package format

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// minColumnWidth keeps centered separators such as ":-:" valid.
const minColumnWidth = 3

// pipeTable prints a pipe table with every column padded to its widest cell.
func (f *formatter) pipeTable(n *syntax.Node) {
	t, _ := ast.AsPipeTable(n)
	aligns := t.Alignments()

	header := f.row(t.Header())
	var rows [][]string
	for _, cells := range t.Rows() {
		rows = append(rows, f.row(cells))
	}

	cols := max(len(header), len(aligns))
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for _, r := range append([][]string{header}, rows...) {
		for i, cell := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	align := func(i int) ast.Alignment {
		if i < len(aligns) {
			return aligns[i]
		}
		return ast.AlignDefault
	}

	f.p.line(tableRow(header, widths, align))
	sep := make([]string, cols)
	for i, w := range widths {
		switch align(i) {
		case ast.AlignLeft:
			sep[i] = ":" + strings.Repeat("-", w-1)
		case ast.AlignRight:
			sep[i] = strings.Repeat("-", w-1) + ":"
		case ast.AlignCenter:
			sep[i] = ":" + strings.Repeat("-", w-2) + ":"
		default:
			sep[i] = strings.Repeat("-", w)
		}
	}
	f.p.line("| " + strings.Join(sep, " | ") + " |")
	for _, r := range rows {
		f.p.line(tableRow(r, widths, align))
	}
	f.caption(n)
}

func (f *formatter) row(cells []*syntax.Node) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = f.oneLine(c.Children())
	}
	return out
}

func tableRow(cells []string, widths []int, align func(int) ast.Alignment) string {
	padded := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		pad := w - runewidth.StringWidth(cell)
		switch align(i) {
		case ast.AlignRight:
			padded[i] = strings.Repeat(" ", pad) + cell
		case ast.AlignCenter:
			left := pad / 2
			padded[i] = strings.Repeat(" ", left) + cell + strings.Repeat(" ", pad-left)
		default:
			padded[i] = cell + strings.Repeat(" ", pad)
		}
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

// caption prints a table's caption after a blank line as "Table: ...".
func (f *formatter) caption(n *syntax.Node) {
	c := n.FirstNode(syntax.KindTableCaption)
	if c == nil {
		return
	}
	f.p.blank()
	f.p.line(strings.TrimRight("Table: "+f.oneLine(c.Children()), " "))
}

// verbatim reprints the lines of n without container prefixes. Blank lines
// and captions are skipped; captions are printed by the caller.
func (f *formatter) verbatim(n *syntax.Node) {
	for _, line := range verbatimLines(n) {
		f.p.line(line)
	}
}

func verbatimLines(n *syntax.Node) []string {
	var (
		lines   []string
		cur     strings.Builder
		atStart = true
	)
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		for _, el := range n.Children() {
			switch e := el.(type) {
			case *syntax.Node:
				if e.Kind() != syntax.KindTableCaption {
					walk(e)
				}
			case *syntax.Token:
				switch e.Kind() {
				case syntax.KindBlankLine:
				case syntax.KindNewline:
					lines = append(lines, strings.TrimRight(cur.String(), " \t"))
					cur.Reset()
					atStart = true
				case syntax.KindWhitespace, syntax.KindBlockquoteMarker:
					if !atStart {
						cur.WriteString(e.Text())
					}
				default:
					if e.Text() != "" {
						atStart = false
					}
					cur.WriteString(e.Text())
				}
			}
		}
	}
	walk(n)
	if s := strings.TrimRight(cur.String(), " \t"); s != "" {
		lines = append(lines, s)
	}
	return lines
}

// lineBlock prints a line block. Continuation lines keep one leading space.
func (f *formatter) lineBlock(n *syntax.Node) {
	for _, line := range verbatimLines(n) {
		if !strings.HasPrefix(line, "|") && !strings.HasPrefix(line, " ") {
			line = " " + line
		}
		f.p.line(line)
	}
}
