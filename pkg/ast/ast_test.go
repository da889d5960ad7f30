package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

func parse(t *testing.T, src string) ast.Document {
	t.Helper()
	doc, ok := ast.AsDocument(parser.Parse(src, config.NewConfig()))
	require.True(t, ok)
	return doc
}

func first(t *testing.T, doc ast.Document, kind syntax.Kind) *syntax.Node {
	t.Helper()
	n := syntax.FindByKind(doc.Node(), kind)
	require.NotEmpty(t, n, "no %s node", kind)
	return n[0]
}

func TestHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		level   int
		setext  bool
		text    string
		attrsID string
	}{
		{"atx level 1", "# H\n\npara *em* text", 1, false, "H", ""},
		{"atx level 3", "### Three *em*\n", 3, false, "Three em", ""},
		{"closing hashes", "## Two ##\n", 2, false, "Two", ""},
		{"attributes", "# Intro {#intro .unnumbered}\n", 1, false, "Intro", "intro"},
		{"setext 1", "Title\n=====\n", 1, true, "Title", ""},
		{"setext 2", "Sub\n---\n", 2, true, "Sub", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tc.input)
			headings := doc.Headings()
			require.Len(t, headings, 1)
			h := headings[0]
			assert.Equal(t, tc.level, h.Level())
			assert.Equal(t, tc.setext, h.IsSetext())
			assert.Equal(t, tc.text, h.Text())
			attrs, ok := h.Attributes()
			assert.Equal(t, tc.attrsID != "", ok)
			assert.Equal(t, tc.attrsID, attrs.ID)
		})
	}
}

func TestDocumentBlocks(t *testing.T) {
	t.Parallel()

	doc := parse(t, "---\ntitle: x\n---\n\n# H\n\npara\n\n[a]: /url \"T\"\n\n[^n]: note\n")

	var kinds []string
	for _, b := range doc.Blocks() {
		kinds = append(kinds, b.Kind().String())
	}
	want := []string{"YAML_METADATA", "HEADING", "PARAGRAPH", "REFERENCE_DEFINITION", "FOOTNOTE_DEFINITION"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	meta, ok := doc.Metadata()
	require.True(t, ok)
	assert.Equal(t, "title: x\n", meta.Content())

	refs := doc.ReferenceDefinitions()
	require.Len(t, refs, 1)
	assert.Equal(t, "a", refs[0].Label())
	assert.Equal(t, "/url", refs[0].URL())
	assert.Equal(t, "T", refs[0].Title())

	notes := doc.FootnoteDefinitions()
	require.Len(t, notes, 1)
	assert.Equal(t, "n", notes[0].Label())
	require.Len(t, notes[0].Blocks(), 1)
}

func TestList(t *testing.T) {
	t.Parallel()

	doc := parse(t, "3. one\n4. two\n   - [x] done\n   - [ ] todo\n")
	list, ok := ast.AsList(first(t, doc, syntax.KindList))
	require.True(t, ok)
	assert.True(t, list.Ordered())
	assert.Equal(t, 3, list.Start())
	assert.True(t, list.Tight())

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "4.", items[1].Marker().Text)

	nested, ok := ast.AsList(syntax.FindByKind(items[1].Node(), syntax.KindList)[0])
	require.True(t, ok)
	assert.False(t, nested.Ordered())
	tasks := nested.Items()
	require.Len(t, tasks, 2)
	checked, isTask := tasks[0].Task()
	assert.True(t, isTask)
	assert.True(t, checked)
	checked, isTask = tasks[1].Task()
	assert.True(t, isTask)
	assert.False(t, checked)
}

func TestLooseList(t *testing.T) {
	t.Parallel()

	doc := parse(t, "- a\n\n- b\n")
	list, ok := ast.AsList(first(t, doc, syntax.KindList))
	require.True(t, ok)
	assert.False(t, list.Tight())
}

func TestCodeBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		fenced bool
		lang   string
		code   string
	}{
		{"backticks", "```go\nfmt.Println()\n```\n", true, "go", "fmt.Println()\n"},
		{"attributes", "~~~ {.python #x}\npass\n~~~\n", true, "python", "pass\n"},
		{"quarto braces", "```{r}\n1\n```\n", true, "r", "1\n"},
		{"indented", "    a\n    b\n", false, "", "a\nb\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, tc.input)
			blocks := doc.Blocks()
			require.Len(t, blocks, 1)
			code, ok := ast.AsCodeBlock(blocks[0])
			require.True(t, ok)
			assert.Equal(t, tc.fenced, code.Fenced())
			assert.Equal(t, tc.lang, code.Language())
			assert.Equal(t, tc.code, code.Code())
			assert.True(t, code.Closed())
		})
	}
}

func TestFencedDivAndDefinitions(t *testing.T) {
	t.Parallel()

	doc := parse(t, "::: warning\ntext\n:::\n\nTerm\n:   Def\n")
	div, ok := ast.AsFencedDiv(first(t, doc, syntax.KindFencedDiv))
	require.True(t, ok)
	assert.True(t, div.Attributes().HasClass("warning"))
	assert.Len(t, div.Blocks(), 1)

	item, ok := ast.AsDefinitionItem(first(t, doc, syntax.KindDefinitionItem))
	require.True(t, ok)
	assert.Equal(t, "Term", item.Term())
	assert.Len(t, item.Definitions(), 1)
}

func TestPipeTable(t *testing.T) {
	t.Parallel()

	doc := parse(t, "| a | b | c |\n|:--|:-:|--:|\n| 1 | 2 | 3 |\n")
	table, ok := ast.AsPipeTable(first(t, doc, syntax.KindPipeTable))
	require.True(t, ok)
	assert.Len(t, table.Header(), 3)
	assert.Equal(t, []ast.Alignment{ast.AlignLeft, ast.AlignCenter, ast.AlignRight}, table.Alignments())
	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "2", ast.PlainText(rows[0][1]))
	assert.Nil(t, table.Caption())
}

func TestLinks(t *testing.T) {
	t.Parallel()

	doc := parse(t, "[a *b*](</x y> \"T\") ![img](p.png){width=50%} [r][ref] [ref][] [ref] <https://e.org>\n\n[ref]: /r\n")
	var links []ast.Link
	err := syntax.Walk(doc.Node(), func(n *syntax.Node) error {
		if l, ok := ast.AsLink(n); ok {
			links = append(links, l)
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, links, 6)

	assert.Equal(t, ast.RefStyleInline, links[0].Style())
	assert.Equal(t, "a b", links[0].Text())
	assert.Equal(t, "/x y", links[0].Destination())
	assert.Equal(t, "T", links[0].Title())

	assert.True(t, links[1].IsImage())
	attrs, ok := links[1].Attributes()
	require.True(t, ok)
	width, _ := attrs.Get("width")
	assert.Equal(t, "50%", width)

	assert.Equal(t, ast.RefStyleFull, links[2].Style())
	assert.Equal(t, "ref", links[2].ReferenceLabel())
	assert.Equal(t, ast.RefStyleCollapsed, links[3].Style())
	assert.Equal(t, "ref", links[3].ReferenceLabel())
	assert.Equal(t, ast.RefStyleShortcut, links[4].Style())
	assert.Equal(t, ast.RefStyleAutolink, links[5].Style())
	assert.Equal(t, "https://e.org", links[5].Destination())
	assert.Equal(t, "autolink", links[5].Style().String())
}

func TestInlineViews(t *testing.T) {
	t.Parallel()

	doc := parse(t, "`` a` `` `<b>`{=html} $x^2$ [@doe; -@roe] ~~gone~~ note[^1]\n\n[^1]: n\n")

	spans := syntax.FindByKind(doc.Node(), syntax.KindCodeSpan)
	require.Len(t, spans, 1)
	code, _ := ast.AsCode(spans[0])
	assert.Equal(t, "a`", code.Code())

	raw, ok := ast.AsCode(first(t, doc, syntax.KindRawInline))
	require.True(t, ok)
	assert.Equal(t, "html", raw.Format())
	assert.Equal(t, "<b>", raw.Code())

	math, ok := ast.AsMath(first(t, doc, syntax.KindInlineMath))
	require.True(t, ok)
	assert.False(t, math.Display())
	assert.Equal(t, "$", math.Delimiter())
	assert.Equal(t, "x^2", math.TeX())

	cite, ok := ast.AsCitation(first(t, doc, syntax.KindCitation))
	require.True(t, ok)
	assert.True(t, cite.Bracketed())
	assert.Equal(t, []string{"doe", "roe"}, cite.Keys())

	strike, ok := ast.AsEmphasis(first(t, doc, syntax.KindStrikeout))
	require.True(t, ok)
	assert.Equal(t, "~~", strike.Delimiter())
	assert.Equal(t, "gone", strike.Text())

	ref, ok := ast.AsFootnoteReference(first(t, doc, syntax.KindFootnoteReference))
	require.True(t, ok)
	assert.Equal(t, "1", ref.Label())
}

func TestDisplayMathBlock(t *testing.T) {
	t.Parallel()

	doc := parse(t, "$$\na + b\n$$\n")
	math, ok := ast.AsMath(first(t, doc, syntax.KindDisplayMathBlock))
	require.True(t, ok)
	assert.True(t, math.Display())
	assert.Equal(t, "\na + b\n", math.TeX())
}

func TestCastsRejectOtherKinds(t *testing.T) {
	t.Parallel()

	para := syntax.NewNode(syntax.KindParagraph)
	_, ok := ast.AsHeading(para)
	assert.False(t, ok)
	_, ok = ast.AsList(nil)
	assert.False(t, ok)
	_, ok = ast.AsParagraph(para)
	assert.True(t, ok)
}

func TestParseAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  ast.Attributes
	}{
		{"{#id}", ast.Attributes{ID: "id"}},
		{"{.a .b}", ast.Attributes{Classes: []string{"a", "b"}}},
		{`{#x .c key="a b" n=1}`, ast.Attributes{
			ID: "x", Classes: []string{"c"},
			Pairs: []ast.Attribute{{Key: "key", Value: "a b"}, {Key: "n", Value: "1"}},
		}},
		{"{=latex}", ast.Attributes{Raw: "latex"}},
		{"{}", ast.Attributes{}},
	}
	for _, tc := range tests {
		got := ast.ParseAttributes(tc.input)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseAttributes(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}

	attrs := ast.ParseAttributes(`{key="a b" #x .c}`)
	assert.Equal(t, `{#x .c key="a b"}`, attrs.String())
}
