// Package fix applies byte-range text edits to documents and renders the
// result as a unified diff.
package fix

// TextEdit replaces the bytes [Start, End) of a document with NewText.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// Replace returns an edit that replaces [start, end) with text.
func Replace(start, end int, text string) TextEdit {
	return TextEdit{Start: start, End: end, NewText: text}
}

// Insert returns an edit that inserts text at offset.
func Insert(offset int, text string) TextEdit {
	return TextEdit{Start: offset, End: offset, NewText: text}
}

// Delete returns an edit that removes [start, end).
func Delete(start, end int) TextEdit {
	return TextEdit{Start: start, End: end}
}
