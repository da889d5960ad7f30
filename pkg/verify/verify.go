// Package verify checks that formatting preserved a document's meaning by
// comparing HTML renderings of the input and the output.
//
// Rendering uses goldmark's CommonMark parser with the GFM, footnote and
// definition list extensions. Pandoc-only constructs render as literal
// text there, so a rewrite of such a construct (fancy list markers, math
// delimiters, table captions) is reported as a mismatch.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// excerptWidth is how much rendered text around a difference is reported.
const excerptWidth = 40

// ErrMismatch indicates the formatted document renders differently.
var ErrMismatch = errors.New("rendered output differs")

//nolint:gochecknoglobals // Read-only patterns.
var (
	betweenTags = regexp.MustCompile(`>\s+<`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// MismatchError describes the first difference between two renderings.
type MismatchError struct {
	// Offset is the position of the difference in the normalized HTML.
	Offset int
	// Original and Formatted are excerpts of each rendering at Offset.
	Original  string
	Formatted string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s at %d: %q became %q", ErrMismatch, e.Offset, e.Original, e.Formatted)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Verifier renders documents for comparison. It is safe for concurrent use.
type Verifier struct {
	md goldmark.Markdown
}

// New returns a Verifier.
func New() *Verifier {
	return &Verifier{
		md: goldmark.New(goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		)),
	}
}

// Render returns the normalized HTML of src. Whitespace runs collapse to a
// single space and whitespace between tags is dropped, so reflowed
// paragraphs render equal.
func (v *Verifier) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := v.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	html := betweenTags.ReplaceAllString(buf.String(), "><")
	html = spaceRun.ReplaceAllString(html, " ")
	return strings.TrimSpace(html), nil
}

// Check returns a *MismatchError when original and formatted render
// differently.
func (v *Verifier) Check(original, formatted []byte) error {
	want, err := v.Render(original)
	if err != nil {
		return err
	}
	got, err := v.Render(formatted)
	if err != nil {
		return err
	}
	if want == got {
		return nil
	}
	at := firstDifference(want, got)
	return &MismatchError{
		Offset:    at,
		Original:  excerpt(want, at),
		Formatted: excerpt(got, at),
	}
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func excerpt(s string, at int) string {
	start := max(at-excerptWidth/2, 0)
	end := min(at+excerptWidth/2, len(s))
	if start >= end {
		return ""
	}
	return s[start:end]
}
