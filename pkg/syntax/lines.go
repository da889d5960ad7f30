package syntax

import (
	"sort"
	"unicode/utf8"
)

// LineInfo describes one source line.
type LineInfo struct {
	// StartOffset is the byte index of the first byte of the line.
	StartOffset int

	// NewlineStart is the byte index where the line ending begins
	// (equal to EndOffset for a final line without ending).
	NewlineStart int

	// EndOffset is the byte index just past the line ending.
	EndOffset int
}

// LineIndex maps byte offsets to line and column positions.
type LineIndex struct {
	text  string
	lines []LineInfo
}

// NewLineIndex builds the line table for text. Both LF and CRLF endings are recognised.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{text: text}
	lineStart := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		newlineStart := i
		if i > 0 && text[i-1] == '\r' {
			newlineStart = i - 1
		}
		idx.lines = append(idx.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    i + 1,
		})
		lineStart = i + 1
	}
	// The last line may be empty or lack a trailing newline.
	idx.lines = append(idx.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(text),
		EndOffset:    len(text),
	})
	return idx
}

// LineCount returns the number of lines.
func (idx *LineIndex) LineCount() int {
	return len(idx.lines)
}

// Line returns the info for a 0-based line number.
func (idx *LineIndex) Line(line int) (LineInfo, bool) {
	if line < 0 || line >= len(idx.lines) {
		return LineInfo{}, false
	}
	return idx.lines[line], true
}

// Position converts a byte offset to a 0-based line and a 0-based byte column.
// Offsets past the end clamp to the end of the text.
func (idx *LineIndex) Position(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.text) {
		offset = len(idx.text)
	}
	line := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].EndOffset > offset
	})
	if line >= len(idx.lines) {
		line = len(idx.lines) - 1
	}
	return line, offset - idx.lines[line].StartOffset
}

// UTF16Position converts a byte offset to a 0-based line and UTF-16 column,
// the unit editors speak.
func (idx *LineIndex) UTF16Position(offset int) (int, int) {
	line, col := idx.Position(offset)
	start := idx.lines[line].StartOffset
	units := 0
	for _, r := range idx.text[start : start+col] {
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return line, units
}

// OffsetUTF16 converts a 0-based line and UTF-16 column back to a byte offset.
func (idx *LineIndex) OffsetUTF16(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(idx.lines) {
		return len(idx.text)
	}
	info := idx.lines[line]
	pos := info.StartOffset
	units := 0
	for pos < info.NewlineStart && units < col {
		r, size := utf8.DecodeRuneInString(idx.text[pos:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		pos += size
	}
	return pos
}

// Offset converts a 0-based line and byte column to an offset.
func (idx *LineIndex) Offset(line, col int) (int, bool) {
	if line < 0 || line >= len(idx.lines) || col < 0 {
		return 0, false
	}
	offset := idx.lines[line].StartOffset + col
	if offset > idx.lines[line].EndOffset {
		return 0, false
	}
	return offset, true
}

// LineText returns the text of a 0-based line without its ending.
func (idx *LineIndex) LineText(line int) string {
	if line < 0 || line >= len(idx.lines) {
		return ""
	}
	info := idx.lines[line]
	return idx.text[info.StartOffset:info.NewlineStart]
}
