package syntax_test

import (
	"testing"

	"github.com/yaklabco/mdfmt/pkg/syntax"
)

func TestNewLineIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []syntax.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []syntax.LineInfo{{StartOffset: 0, NewlineStart: 0, EndOffset: 0}},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "single line with CRLF",
			content: "hello\r\n",
			expected: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 7},
				{StartOffset: 7, NewlineStart: 7, EndOffset: 7},
			},
		},
		{
			name:    "mixed endings",
			content: "a\nb\r\nc",
			expected: []syntax.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 3, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 6, EndOffset: 6},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			idx := syntax.NewLineIndex(testCase.content)
			if idx.LineCount() != len(testCase.expected) {
				t.Fatalf("LineCount() = %d, want %d", idx.LineCount(), len(testCase.expected))
			}
			for i, want := range testCase.expected {
				got, ok := idx.Line(i)
				if !ok || got != want {
					t.Errorf("Line(%d) = %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestLineIndexPositions(t *testing.T) {
	t.Parallel()

	idx := syntax.NewLineIndex("ab\n😀x\n")

	if line, col := idx.Position(4); line != 1 || col != 1 {
		t.Errorf("Position(4) = %d,%d", line, col)
	}
	if line, col := idx.UTF16Position(7); line != 1 || col != 2 {
		t.Errorf("UTF16Position(7) = %d,%d", line, col)
	}
	if off := idx.OffsetUTF16(1, 2); off != 7 {
		t.Errorf("OffsetUTF16(1,2) = %d", off)
	}
	if off := idx.OffsetUTF16(5, 0); off != 9 {
		t.Errorf("OffsetUTF16 past end = %d", off)
	}
	if got := idx.LineText(1); got != "😀x" {
		t.Errorf("LineText(1) = %q", got)
	}
	if off, ok := idx.Offset(1, 0); !ok || off != 3 {
		t.Errorf("Offset(1,0) = %d,%v", off, ok)
	}
	if _, ok := idx.Offset(9, 0); ok {
		t.Error("Offset past last line should fail")
	}
}
