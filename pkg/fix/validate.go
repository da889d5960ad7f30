package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the document.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// ValidateEdits checks every edit range against a document of length n.
func ValidateEdits(edits []TextEdit, n int) error {
	for _, e := range edits {
		switch {
		case e.Start < 0:
			return &ValidationError{Edit: e, Message: "start offset is negative"}
		case e.End < e.Start:
			return &ValidationError{Edit: e, Message: "end offset is before start offset"}
		case e.End > n:
			return &ValidationError{Edit: e, Message: fmt.Sprintf("end offset exceeds content length %d", n)}
		}
	}
	return nil
}

// SortEdits orders edits by start offset, then end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
}

// FilterConflicts drops edits that overlap an earlier one. Overlapping
// deletions are merged into one covering both ranges. edits must be sorted.
func FilterConflicts(edits []TextEdit) (accepted, skipped []TextEdit) {
	if len(edits) == 0 {
		return nil, nil
	}
	cur := edits[0]
	for _, e := range edits[1:] {
		switch {
		case e.Start >= cur.End:
			accepted = append(accepted, cur)
			cur = e
		case cur.NewText == "" && e.NewText == "":
			cur.End = max(cur.End, e.End)
		default:
			skipped = append(skipped, e)
		}
	}
	return append(accepted, cur), skipped
}

// Prepare validates and sorts a copy of edits and filters out conflicts.
func Prepare(edits []TextEdit, n int) (accepted, skipped []TextEdit, err error) {
	if err := ValidateEdits(edits, n); err != nil {
		return nil, nil, err
	}
	sorted := slices.Clone(edits)
	SortEdits(sorted)
	accepted, skipped = FilterConflicts(sorted)
	return accepted, skipped, nil
}
