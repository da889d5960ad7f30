package fix

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// noNewline marks a last line that has no line terminator.
const noNewline = "\n\\ No newline at end of file"

// Diff is a unified diff between two versions of one file.
type Diff struct {
	Path      string
	File      *diff.FileDiff
	Additions int
	Deletions int
}

// HasChanges reports whether the diff contains at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && d.File != nil && len(d.File.Hunks) > 0
}

// String renders the diff in unified format with a/ and b/ path prefixes.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	out, err := diff.PrintFileDiff(d.File)
	if err != nil {
		return ""
	}
	return string(out)
}

// GenerateDiff compares original and modified line by line. It returns nil
// when they are identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}
	ops := diffOps(splitLines(original), splitLines(modified))

	name := strings.TrimPrefix(path, "/")
	d := &Diff{
		Path: path,
		File: &diff.FileDiff{OrigName: "a/" + name, NewName: "b/" + name},
	}
	for _, r := range changeRanges(ops) {
		d.File.Hunks = append(d.File.Hunks, buildHunk(ops, r[0], r[1]))
	}
	for _, op := range ops {
		switch op.kind {
		case '+':
			d.Additions++
		case '-':
			d.Deletions++
		}
	}
	if len(d.File.Hunks) == 0 {
		return nil
	}
	return d
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	s := string(content)
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if !strings.HasSuffix(s, "\n") {
		lines[len(lines)-1] += noNewline
	}
	return lines
}

type diffOp struct {
	kind byte // ' ', '-' or '+'
	text string
}

// diffOps walks a longest common subsequence table to produce the edit
// script turning orig into mod.
func diffOps(orig, mod []string) []diffOp {
	n, m := len(orig), len(mod)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]diffOp, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && orig[i] == mod[j]:
			ops = append(ops, diffOp{' ', orig[i]})
			i++
			j++
		case j == m || (i < n && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, diffOp{'-', orig[i]})
			i++
		default:
			ops = append(ops, diffOp{'+', mod[j]})
			j++
		}
	}
	return ops
}

// changeRanges groups changed ops into [start, end) op ranges, merging
// changes whose context would overlap.
func changeRanges(ops []diffOp) [][2]int {
	var ranges [][2]int
	for i := 0; i < len(ops); {
		if ops[i].kind == ' ' {
			i++
			continue
		}
		start := i
		for i < len(ops) && ops[i].kind != ' ' {
			i++
		}
		if k := len(ranges) - 1; k >= 0 && start-ranges[k][1] <= 2*contextLines {
			ranges[k][1] = i
			continue
		}
		ranges = append(ranges, [2]int{start, i})
	}
	return ranges
}

func buildHunk(ops []diffOp, start, end int) *diff.Hunk {
	from := max(start-contextLines, 0)
	to := min(end+contextLines, len(ops))

	h := &diff.Hunk{OrigStartLine: 1, NewStartLine: 1}
	for _, op := range ops[:from] {
		if op.kind != '+' {
			h.OrigStartLine++
		}
		if op.kind != '-' {
			h.NewStartLine++
		}
	}

	var body bytes.Buffer
	for _, op := range ops[from:to] {
		body.WriteByte(op.kind)
		body.WriteString(op.text)
		body.WriteByte('\n')
		if op.kind != '+' {
			h.OrigLines++
		}
		if op.kind != '-' {
			h.NewLines++
		}
	}
	// Empty sides start at line 0 in unified diffs.
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}
	h.Body = body.Bytes()
	return h
}
