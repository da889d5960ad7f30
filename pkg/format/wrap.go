package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/mdfmt/pkg/config"
)

// hazards match words that would start a different block if they began a
// line of a paragraph. Such words are kept on the line before.
//
//nolint:gochecknoglobals // Read-only pattern table.
var hazards = []*regexp.Regexp{
	regexp.MustCompile(`^(?:[-+*]|(?:\d{1,9}|[A-Za-z]|[ivxlcdm]+|[IVXLCDM]+|#)[.)]|` +
		`\((?:\d{1,9}|[A-Za-z]|[ivxlcdm]+|[IVXLCDM]+|#|@[\w-]*)\))$`),
	regexp.MustCompile(`^#{1,6}$`),
	regexp.MustCompile(`^>`),
	regexp.MustCompile(`^[-*_]+$`),
	regexp.MustCompile(`^=+$`),
	regexp.MustCompile("^(?:```|~~~)"),
	regexp.MustCompile(`^[:~]$`),
	regexp.MustCompile(`^\|`),
	regexp.MustCompile(`^:{3,}`),
	regexp.MustCompile(`^\[[^\]]*\]:`),
	regexp.MustCompile(`^<[A-Za-z/!?]`),
	regexp.MustCompile(`^\$\$`),
	regexp.MustCompile(`^\+[-=+:]`),
	regexp.MustCompile(`^[Tt]able:$`),
}

func isHazard(s string) bool {
	for _, re := range hazards {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// escapesNewline reports whether s ends in an odd number of backslashes,
// which would turn a line break after it into a hard break.
func escapesNewline(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

//nolint:gochecknoglobals // Read-only patterns.
var (
	ordinalHazard = regexp.MustCompile(`^(?:\d{1,9}|[A-Za-z]|[ivxlcdm]+|[IVXLCDM]+|#)[.)]$|^\(.*\)$`)
	runHazard     = regexp.MustCompile("^(?:[-*_=]+$|```|~~~|\\$\\$)")
	labelHazard   = regexp.MustCompile(`^[Tt]able:$`)
)

// leadEscapes returns the byte offsets of s to backslash-escape so that s no
// longer opens a block when it starts a line, or nil when s is harmless.
func leadEscapes(s string) []int {
	if !isHazard(s) {
		return nil
	}
	switch {
	case runHazard.MatchString(s):
		n := len(s) - len(strings.TrimLeft(s, s[:1]))
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = i
		}
		return offsets
	case strings.HasPrefix(s, "["):
		return []int{strings.Index(s, "]:") + 1}
	case labelHazard.MatchString(s):
		return []int{strings.Index(s, ":")}
	case ordinalHazard.MatchString(s):
		return []int{len(s) - 1}
	}
	return []int{0}
}

// escapeLead escapes a word that would open a block at the start of a line.
// Only literal text is escaped; markup is left alone.
func escapeLead(w word) string {
	offsets := leadEscapes(w.text)
	for _, i := range offsets {
		if !w.isPlain(i) {
			return w.text
		}
	}
	var sb strings.Builder
	last := 0
	for _, i := range offsets {
		sb.WriteString(w.text[last:i])
		sb.WriteByte('\\')
		last = i
	}
	sb.WriteString(w.text[last:])
	return sb.String()
}

// canBreak reports whether a line may end between prev and next.
func canBreak(prev, next word) bool {
	return !escapesNewline(prev.text) && !isHazard(next.text)
}

// fill lays words out as lines for the current container depth. Reflow
// mode fills lines greedily up to the line width, or joins them all when the
// width is not positive; preserve mode keeps the source line breaks. Hard
// breaks always end a line, and so does every line break under the
// hard_line_breaks extension. A word that starts a line and would open a
// block there is escaped.
func (f *formatter) fill(words []word) []string {
	firstPrefix, restPrefix := f.p.widths()
	width := f.cfg.LineWidth
	preserve := f.cfg.Wrap == config.WrapPreserve || f.ext.HardLineBreaks

	var (
		lines    []string
		cur      strings.Builder
		curWidth int
	)
	budget := func() int {
		prefix := restPrefix
		if len(lines) == 0 {
			prefix = firstPrefix
		}
		return max(width-prefix, 1)
	}

	for i, w := range words {
		text := w.text
		lead := i == 0
		if i > 0 {
			prev := words[i-1]
			var brk bool
			switch {
			case prev.hard:
				brk = true
			case !canBreak(prev, w):
				brk = false
			case preserve:
				brk = w.soft
			case width <= 0:
				brk = false
			default:
				brk = curWidth+1+runewidth.StringWidth(w.text) > budget()
			}
			if brk {
				lines = append(lines, cur.String())
				cur.Reset()
				curWidth = 0
				lead = true
			} else {
				cur.WriteByte(' ')
				curWidth++
			}
		}
		if lead {
			text = escapeLead(w)
		}
		cur.WriteString(text)
		curWidth += runewidth.StringWidth(text)
		if w.hard && i < len(words)-1 {
			cur.WriteString(f.hardBreak())
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func (f *formatter) hardBreak() string {
	if f.ext.EscapedLineBreaks {
		return `\`
	}
	return "  "
}
