package format

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// maxOrdinal is the largest number a list marker may carry.
const maxOrdinal = 999999999

// listStyle is the marker form a list was printed with.
type listStyle struct {
	bullet byte
	style  parser.ListStyle
	delim  parser.ListDelim
}

// list prints a list with normalized markers. Bullets become "-", or "*"
// right after a "-" list so the two stay separate; ordered items are
// renumbered from the first item's number, or from one when the startnum
// extension is off.
func (f *formatter) list(n, prev *syntax.Node) {
	l, _ := ast.AsList(n)
	m := l.Marker()

	st := listStyle{style: m.Style, delim: m.Delim}
	before, hasBefore := f.lists[prev]
	switch {
	case m.Style == parser.ListBullet:
		st.bullet = '-'
		if hasBefore && before.bullet == '-' {
			st.bullet = '*'
		}
	case hasBefore && before.style == st.style && before.delim == st.delim:
		st.delim = swapDelim(st.delim)
	}
	f.lists[n] = st

	tight := l.Tight()
	number := m.Number
	if !f.ext.Startnum {
		number = 1
	}
	var prevItem *syntax.Node
	for _, item := range l.Items() {
		if prevItem != nil {
			f.separate(prevItem, 0, tight)
		}
		f.item(item, st, number, tight)
		prevItem = item.Node()
		number = min(number+1, maxOrdinal)
	}
}

func swapDelim(d parser.ListDelim) parser.ListDelim {
	if d == parser.DelimPeriod {
		return parser.DelimParen
	}
	return parser.DelimPeriod
}

func (f *formatter) item(item ast.ListItem, st listStyle, number int, tight bool) {
	core := ordinal(st, number, item.Marker())
	gap := " "
	// "B. Russell" is not a list item: a capital letter needs two spaces.
	if st.style == parser.ListUpperAlpha && st.delim == parser.DelimPeriod && len(core) == 1 {
		gap = "  "
	}
	marker := core
	switch st.delim {
	case parser.DelimPeriod:
		marker += "."
	case parser.DelimParen:
		marker += ")"
	case parser.DelimParens:
		marker = "(" + core + ")"
	}

	first := marker + gap
	rest := strings.Repeat(" ", runewidth.StringWidth(first))
	if checked, ok := item.Task(); ok {
		if checked {
			first += "[x] "
		} else {
			first += "[ ] "
		}
	}

	f.p.push(first, rest)
	f.blocks(item.Node(), tight)
	f.p.pop()
}

// ordinal returns the marker text of an item without its delimiter.
func ordinal(st listStyle, number int, m parser.ListMarker) string {
	core := strings.Trim(m.Text, "().")
	switch st.style {
	case parser.ListBullet:
		return string(st.bullet)
	case parser.ListDecimal:
		return strconv.Itoa(number)
	case parser.ListLowerAlpha:
		if number >= 1 && number <= 26 {
			return string(rune('a' + number - 1))
		}
	case parser.ListUpperAlpha:
		if number >= 1 && number <= 26 {
			return string(rune('A' + number - 1))
		}
	case parser.ListLowerRoman, parser.ListUpperRoman:
		r := roman(number)
		// A lone letter other than i reads as an alphabetic marker.
		if r == "" || (len(r) == 1 && r != "i") {
			return core
		}
		if st.style == parser.ListUpperRoman {
			return strings.ToUpper(r)
		}
		return r
	}
	return core
}

//nolint:gochecknoglobals // Read-only numeral table.
var romanNumerals = []struct {
	value int
	text  string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// roman returns n in lower-case roman numerals, or "" when n is out of range.
func roman(n int) string {
	if n <= 0 || n >= 4000 {
		return ""
	}
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.text)
			n -= r.value
		}
	}
	return sb.String()
}
