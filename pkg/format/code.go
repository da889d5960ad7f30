package format

import (
	"strings"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/langdetect"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// code returns the content of a code block, as rewritten by its external
// formatter when one succeeded. The result ends with a newline unless empty.
func (f *formatter) code(n *syntax.Node) string {
	code, ok := f.formatted[n]
	if !ok {
		c, _ := ast.AsCodeBlock(n)
		code = normalizeNewlines(c.Code())
	}
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return code
}

func (f *formatter) fencedCode(n *syntax.Node) {
	c, _ := ast.AsCodeBlock(n)
	f.fence(f.code(n), strings.TrimSpace(c.Info()))
}

// indentedCode keeps indented code indented unless configured otherwise or
// the indentation would be read as a continuation of the block before it.
func (f *formatter) indentedCode(n, prev *syntax.Node) {
	code := f.code(n)
	switch {
	case f.cfg.CodeBlocks.NormalizeIndented,
		prev == nil && f.p.pending(),
		prev != nil && prev.Kind().Is(syntax.KindList, syntax.KindDefinitionList, syntax.KindFootnoteDefinition):
		f.fence(code, "")
		return
	}
	for _, line := range codeLines(code) {
		if line == "" {
			f.p.blank()
			continue
		}
		f.p.line("    " + line)
	}
}

// fence prints code between fences long enough to never be closed by the
// code itself.
func (f *formatter) fence(code, info string) {
	if info == "" && f.cfg.CodeBlocks.DetectLanguage {
		info = langdetect.Detect([]byte(code))
	}
	ch := byte('`')
	if f.cfg.CodeBlocks.FenceStyle == config.FenceTilde || strings.Contains(info, "`") {
		ch = '~'
	}
	length := max(f.cfg.CodeBlocks.MinFenceLength, config.DefaultMinFenceLength, longestRun(code, ch)+1)
	fence := strings.Repeat(string(ch), length)

	open := fence
	if info != "" {
		if info[0] == ch {
			open += " "
		}
		open += info
	}
	f.p.line(open)
	for _, line := range codeLines(code) {
		if line == "" {
			f.p.blank()
			continue
		}
		f.p.line(line)
	}
	f.p.line(fence)
}

func codeLines(code string) []string {
	if code == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(code, "\n"), "\n")
}

// longestRun returns the length of the longest run of ch in s.
func longestRun(s string, ch byte) int {
	best, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != ch {
			run = 0
			continue
		}
		run++
		best = max(best, run)
	}
	return best
}
