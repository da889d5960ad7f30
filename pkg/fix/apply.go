package fix

import "bytes"

// ApplyEdits applies sorted, non-overlapping edits to content.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}
	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.End - e.Start)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)
	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.Write(content[cursor:])
	return out.Bytes()
}

// Apply prepares edits and applies the ones that do not conflict. It
// returns the number of edits that were skipped.
func Apply(content []byte, edits []TextEdit) ([]byte, int, error) {
	accepted, skipped, err := Prepare(edits, len(content))
	if err != nil {
		return content, 0, err
	}
	return ApplyEdits(content, accepted), len(skipped), nil
}
