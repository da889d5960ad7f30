package format_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/external"
	"github.com/yaklabco/mdfmt/pkg/format"
	"github.com/yaklabco/mdfmt/pkg/parser"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only blank lines", "\n\n\n", ""},
		{"heading and paragraph", "# H\n\npara *em* text", "# H\n\npara *em* text\n"},
		{"setext headings", "Title\n=====\n\nSub\n---\n", "# Title\n\n## Sub\n"},
		{"closing hashes", "## Two ##\n", "## Two\n"},
		{"heading attributes", "# Intro   {#intro}\n", "# Intro {#intro}\n"},
		{"trailing hashes escaped", "a ##\n===\n", "# a \\##\n"},
		{"paragraph joined", "one\ntwo\nthree\n", "one two three\n"},
		{"blank lines collapsed", "a\n\n\n\nb\n", "a\n\nb\n"},
		{"hard break", "a\\\nb\n", "a\\\nb\n"},
		{"trailing space hard break", "a  \nb\n", "a\\\nb\n"},
		{"thematic break", "a\n\n***\n\nb\n", "a\n\n---\n\nb\n"},
		{"bullets", "* a\n* b\n", "- a\n- b\n"},
		{"separate bullet lists", "* a\n+ b\n", "- a\n\n* b\n"},
		{"loose list", "- a\n\n- b\n", "- a\n\n- b\n"},
		{"renumbered", "3. a\n3. b\n3. c\n", "3. a\n4. b\n5. c\n"},
		{"paren letters", "(a) x\n(a) y\n", "(a) x\n(b) y\n"},
		{"upper alpha", "A.  x\nA.  y\n", "A.  x\nB.  y\n"},
		{"roman", "i. a\ni. b\ni. c\n", "i. a\nii. b\niii. c\n"},
		{"hash markers", "#. a\n#. b\n", "#. a\n#. b\n"},
		{"nested lists", "- a\n    - b\n        - c\n", "- a\n  - b\n    - c\n"},
		{"task list", "- [x] done\n- [ ] todo\n", "- [x] done\n- [ ] todo\n"},
		{"empty item", "-\n", "-\n"},
		{"break in tight item", "- a\n  ***\n", "- a\n  ***\n"},
		{"break opening star item", "* ---\n", "- ***\n"},
		{"blockquote reflowed", "> a\n> b\n", "> a b\n"},
		{"blockquote paragraphs", "> a\n>\n> b\n", "> a\n>\n> b\n"},
		{"quote in item", "- > quote\n", "- > quote\n"},
		{"fence normalized", "~~~python\nx\n~~~\n", "```python\nx\n```\n"},
		{"fence longer than content", "````\n```\n````\n", "````\n```\n````\n"},
		{"fence closed", "```\ncode\n", "```\ncode\n```\n"},
		{"indented code kept", "    code\n", "    code\n"},
		{"code in item", "- ```\n  a\n\n  b\n  ```\n", "- ```\n  a\n\n  b\n  ```\n"},
		{
			"pipe table aligned",
			"|a|b|\n|:-|-:|\n|1|22|\n",
			"| a   |   b |\n| :-- | --: |\n| 1   |  22 |\n",
		},
		{
			"table caption",
			"| a | b |\n|---|---|\n| 1 | 2 |\n\n: Cap\n",
			"| a   | b   |\n| --- | --- |\n| 1   | 2   |\n\nTable: Cap\n",
		},
		{"grid table", "+---+---+\n| a | b |\n+---+---+\n", "+---+---+\n| a | b |\n+---+---+\n"},
		{"definition list", "Term\n:   Def\n", "Term\n:   Def\n"},
		{"loose definition", "Term\n\n:   Def\n", "Term\n\n:   Def\n"},
		{"empty definition", "Term\n:   \n", "Term\n:\n"},
		{"definition items", "A\n:   one\n\nB\n:   two\n", "A\n:   one\n\nB\n:   two\n"},
		{"footnote", "[^1]: one\n\n    two\n", "[^1]: one\n\n    two\n"},
		{"fenced div", "::::: {.note}\ntext\n:::::\n", "::: {.note}\ntext\n:::\n"},
		{"reference definition", "[a]:   /url   \"T\"\n", "[a]: /url \"T\"\n"},
		{"yaml metadata", "---\ntitle: x\n---\n\n# H\n", "---\ntitle: x\n---\n\n# H\n"},
		{"title block", "% Title\n% Author\n\ntext\n", "% Title\n% Author\n\ntext\n"},
		{"line block", "| line one\n|    indented\n", "| line one\n|    indented\n"},
		{"html block", "<div>\nhi\n</div>\n", "<div>\nhi\n</div>\n"},
		{
			"latex environment kept",
			"\\begin{align}\na &= b \\\\\nc &= d\n\\end{align}\n",
			"\\begin{align}\na &= b \\\\\nc &= d\n\\end{align}\n",
		},
		{"code span kept whole", "a `b\nc` d\n", "a `b c` d\n"},
		{"link destination", "[a](/u\n\"t\")\n", "[a](/u \"t\")\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := format.Format(context.Background(), tc.input, nil)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, format.Format(context.Background(), got, nil), "not idempotent")
		})
	}
}

func TestFormatLineEndings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, "a\r\n\r\nb\r\n", format.Format(ctx, "a\r\n\r\nb\r\n", nil))

	cfg := config.NewConfig()
	cfg.LineEnding = config.LineEndingLF
	assert.Equal(t, "a\n\nb\n", format.Format(ctx, "a\r\n\r\nb\r\n", cfg))

	cfg.LineEnding = config.LineEndingCRLF
	assert.Equal(t, "a\r\n\r\nb\r\n", format.Format(ctx, "a\n\nb\n", cfg))
}

func TestFormatWrapping(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("lorem ipsum dolor sit amet ", 12)
	tests := []struct {
		name  string
		input string
		width int
	}{
		{"paragraph", text, 40},
		{"list item", "- " + text + "\n  - " + text, 30},
		{"blockquote", "> " + text, 25},
		{"narrow", text, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.LineWidth = tc.width
			got := format.Format(context.Background(), tc.input, cfg)
			for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
				assert.LessOrEqual(t, runewidth.StringWidth(line), tc.width, "line %q", line)
			}
			assert.Equal(t, got, format.Format(context.Background(), got, cfg), "not idempotent")
		})
	}
}

func TestFormatKeepsHazardsOffLineStart(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.LineWidth = 5

	tests := []struct {
		input string
		want  string
	}{
		{"foo - bar\n", "foo -\nbar\n"},
		{"foo 1. bar\n", "foo 1.\nbar\n"},
		{"foo # bar\n", "foo #\nbar\n"},
		{"foo > bar\n", "foo >\nbar\n"},
	}
	for _, tc := range tests {
		got := format.Format(context.Background(), tc.input, cfg)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestFormatEscapesLineStartBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flavor config.Flavor
		width  int
		input  string
		want   string
	}{
		{"rule after hard break", config.FlavorPandoc, 80, "Cost  \n    ---\n", "Cost\\\n\\-\\-\\-\n"},
		{"bullet after hard break", config.FlavorCommonMark, 80, "Shopping  \n    - milk\n", "Shopping\\\n\\- milk\n"},
		{"quote after hard break", config.FlavorPandoc, 80, "a  \n    > b", "a\\\n\\> b\n"},
		{"ordinal after hard break", config.FlavorPandoc, 80, "a  \n    1. b", "a\\\n1\\. b\n"},
		{"div fence on first line", config.FlavorPandoc, 10, ":::#bar baz", "\\:::#bar\nbaz\n"},
		{"reference label on first line", config.FlavorPandoc, 80, "[@a]::: {.x}", "[@a]\\::: {.x}\n"},
		{"thematic break on first line", config.FlavorPandoc, 80, "***\t[@a] x", "\\*\\*\\* [@a] x\n"},
		{"fence in list item", config.FlavorPandoc, 10, "1. ```2) ``^]> x", "1. \\`\\`\\`2)\n   ``^]> x\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfigForFlavor(tc.flavor)
			cfg.LineWidth = tc.width
			ctx := context.Background()
			got := format.Format(ctx, tc.input, cfg)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, format.Format(ctx, got, cfg), "not idempotent")
		})
	}
}

func TestFormatBareURIKeepsHardBreak(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.NewConfigForFlavor(config.FlavorGFM)
	want := "Visit http://example.com\\\nnext line\n"
	assert.Equal(t, want, format.Format(ctx, "Visit http://example.com  \nnext line\n", cfg))
	assert.Equal(t, want, format.Format(ctx, want, cfg))
}

func TestFormatRawTex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "Before.\n\n\\begin{figure}\n  \\begin{center}\n  x\n  \\end{center}\n\\end{figure}\n"
	assert.Equal(t, input, format.Format(ctx, input, config.NewConfigForFlavor(config.FlavorQuarto)))

	cfg := config.NewConfigForFlavor(config.FlavorQuarto)
	cfg.Ext.RawTex = false
	got := format.Format(ctx, input, cfg)
	assert.NotEqual(t, input, got, "without raw_tex the environment is a paragraph")
	assert.Equal(t, got, format.Format(ctx, got, cfg), "not idempotent")
}

func TestFormatStartnum(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "3. a\n4. b\n"
	assert.Equal(t, input, format.Format(ctx, input, nil))

	cfg := config.NewConfig()
	cfg.Ext.Startnum = false
	assert.Equal(t, "1. a\n2. b\n", format.Format(ctx, input, cfg))

	cfg = config.NewConfig()
	cfg.Ext.Startnum = false
	assert.Equal(t, "a. x\nb. y\n", format.Format(ctx, "e. x\nf. y\n", cfg))
}

func TestFormatMark(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ext.Mark = true
	cfg.LineWidth = 8

	got := format.Format(context.Background(), "some ==marked text== here\n", cfg)
	assert.Equal(t, "some\n==marked\ntext==\nhere\n", got)
	assert.Equal(t, got, format.Format(context.Background(), got, cfg), "not idempotent")
}

func TestFormatPreserveModes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cfg := config.NewConfig()
	cfg.Wrap = config.WrapPreserve
	assert.Equal(t, "a\nb c\n", format.Format(ctx, "a\nb   c\n", cfg))

	cfg = config.NewConfig()
	cfg.BlankLines = config.BlankLinesPreserve
	assert.Equal(t, "a\n\n\n\nb\n", format.Format(ctx, "a\n\n\n\nb\n", cfg))

	cfg = config.NewConfig()
	cfg.LineWidth = 0
	assert.Equal(t, "a b c\n", format.Format(ctx, "a\nb\nc\n", cfg))
}

func TestFormatCodeBlockOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cfg := config.NewConfig()
	cfg.CodeBlocks.NormalizeIndented = true
	assert.Equal(t, "```\ncode\n```\n", format.Format(ctx, "    code\n", cfg))

	cfg = config.NewConfig()
	cfg.CodeBlocks.FenceStyle = config.FenceTilde
	assert.Equal(t, "~~~go\nx\n~~~\n", format.Format(ctx, "```go\nx\n```\n", cfg))

	cfg = config.NewConfig()
	cfg.CodeBlocks.DetectLanguage = true
	assert.Equal(t, "```go\npackage main\n```\n", format.Format(ctx, "```\npackage main\n```\n", cfg))
}

func TestFormatMathDelimiters(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfigForFlavor(config.FlavorRMarkdown)
	cfg.MathDelimiters = config.MathDollars

	ctx := context.Background()
	assert.Equal(t, "a $x^2$ b\n", format.Format(ctx, "a \\(x^2\\) b\n", cfg))
	assert.Equal(t, "a \\( x \\) b\n", format.Format(ctx, "a \\( x \\) b\n", cfg))
}

func TestFormatExternal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "Text.\n\n```python\nx = 1\n```\n\n```r\ny <- 2\n```\n"

	upper := external.Func(func(_ context.Context, lang, code string) (string, error) {
		if lang == "r" {
			return "", errors.New("styler exploded")
		}
		return strings.ToUpper(code), nil
	})
	got := format.Format(ctx, input, nil, format.WithRunner(upper), format.WithConcurrency(2))
	assert.Equal(t, "Text.\n\n```python\nX = 1\n```\n\n```r\ny <- 2\n```\n", got)

	cfg := config.NewConfig()
	cfg.Formatters["python"] = config.FormatterConfig{Cmd: "mdfmt-no-such-formatter"}
	assert.Equal(t, input, format.Format(ctx, input, cfg), "missing tool must leave the block unchanged")
}

func TestTree(t *testing.T) {
	t.Parallel()

	input := "Title\n=====\n\n* a\n* b\n"
	cfg := config.NewConfig()
	root := parser.Parse(input, cfg)

	got := format.Tree(context.Background(), root, cfg)
	require.Equal(t, format.Format(context.Background(), input, cfg), got)
	assert.Equal(t, input, root.Text(), "formatting must not modify the tree")
}

func TestFormatIdempotentDocument(t *testing.T) {
	t.Parallel()

	doc := `---
title: Report
---

Intro paragraph with a [link](https://example.org "Example") and a footnote[^n] that goes on for
long enough to need wrapping at the default width of eighty columns.

1. First item
2. Second item with a nested list:
   * alpha
   * beta

      ~~~ {.r}
      x <- 1
      ~~~

Term
:   Definition text.

::: callout-note
> Quoted *inside* a div.
:::

| Name | Value |
|------|------:|
| a    | 1     |

[^n]: The note.
`
	ctx := context.Background()
	once := format.Format(ctx, doc, nil)
	require.NotEmpty(t, once)
	assert.Equal(t, once, format.Format(ctx, once, nil))
}
