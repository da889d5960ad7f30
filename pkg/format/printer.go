package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// container is an open block container. Its first marker is printed on the
// first line written inside it, the rest marker on every later line.
type container struct {
	first string
	rest  string
	used  bool
}

// printer writes lines behind the markers of the open containers.
type printer struct {
	sb    strings.Builder
	stack []*container
}

func (p *printer) String() string { return p.sb.String() }

func (p *printer) push(first, rest string) {
	p.stack = append(p.stack, &container{first: first, rest: rest})
}

// pop closes the innermost container. A container that received no line
// still prints its marker, so empty items and quotes survive.
func (p *printer) pop() {
	if c := p.stack[len(p.stack)-1]; !c.used {
		p.line("")
	}
	p.stack = p.stack[:len(p.stack)-1]
}

// pending reports whether the innermost container has printed nothing yet.
func (p *printer) pending() bool {
	return len(p.stack) > 0 && !p.stack[len(p.stack)-1].used
}

// innermost returns the innermost open container, or nil.
func (p *printer) innermost() *container {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *printer) prefix() string {
	var sb strings.Builder
	for _, c := range p.stack {
		if c.used {
			sb.WriteString(c.rest)
			continue
		}
		sb.WriteString(c.first)
		c.used = true
	}
	return sb.String()
}

// line prints s behind the container prefix. Blank lines drop the
// prefix's trailing spaces.
func (p *printer) line(s string) {
	pre := p.prefix()
	if s == "" {
		pre = strings.TrimRight(pre, " ")
	}
	p.sb.WriteString(pre)
	p.sb.WriteString(s)
	p.sb.WriteByte('\n')
}

func (p *printer) blank() { p.line("") }

// widths returns the display width of the prefix of the next line and of
// the lines after it.
func (p *printer) widths() (first, rest int) {
	for _, c := range p.stack {
		r := runewidth.StringWidth(c.rest)
		rest += r
		if c.used {
			first += r
		} else {
			first += runewidth.StringWidth(c.first)
		}
	}
	return first, rest
}
