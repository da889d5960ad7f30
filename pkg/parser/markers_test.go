package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdfmt/pkg/config"
)

func TestParseListMarker(t *testing.T) {
	t.Parallel()

	pandoc := config.ExtensionsFor(config.FlavorPandoc)
	commonmark := config.ExtensionsFor(config.FlavorCommonMark)

	tests := []struct {
		name   string
		input  string
		ext    *config.Extensions
		want   ListMarker
		wantOK bool
	}{
		{"dash", "- item", &pandoc, ListMarker{Style: ListBullet, Bullet: '-', Number: 1, Text: "-"}, true},
		{"decimal period", "12. x", &pandoc, ListMarker{Style: ListDecimal, Delim: DelimPeriod, Number: 12, Text: "12."}, true},
		{"decimal paren", "3) x", &commonmark, ListMarker{Style: ListDecimal, Delim: DelimParen, Number: 3, Text: "3)"}, true},
		{"lower alpha", "b. x", &pandoc, ListMarker{Style: ListLowerAlpha, Delim: DelimPeriod, Number: 2, Text: "b."}, true},
		{"roman in parens", "(iv) x", &pandoc, ListMarker{Style: ListLowerRoman, Delim: DelimParens, Number: 4, Text: "(iv)"}, true},
		{"hash", "#. x", &pandoc, ListMarker{Style: ListHash, Delim: DelimPeriod, Number: 1, Text: "#."}, true},
		{"example", "(@good) x", &pandoc, ListMarker{Style: ListExample, Delim: DelimParens, Number: 1, Text: "(@good)"}, true},
		{"alpha needs fancy lists", "a. x", &commonmark, ListMarker{}, false},
		{"no space after marker", "-item", &pandoc, ListMarker{}, false},
		{"initial is not a list", "B. Russell", &pandoc, ListMarker{}, false},
		{"too many digits", "1234567890. x", &pandoc, ListMarker{}, false},
		{"heading is not a list", "# x", &pandoc, ListMarker{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseListMarker(tc.input, tc.ext)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestListMarkerCompatible(t *testing.T) {
	t.Parallel()

	pandoc := config.ExtensionsFor(config.FlavorPandoc)
	marker := func(s string) ListMarker {
		m, ok := parseListMarker(s, &pandoc)
		if !ok {
			t.Fatalf("parseListMarker(%q) failed", s)
		}
		return m
	}

	assert.True(t, marker("- a").compatible(marker("- b")))
	assert.False(t, marker("- a").compatible(marker("* b")))
	assert.True(t, marker("1. a").compatible(marker("7. b")))
	assert.False(t, marker("1. a").compatible(marker("1) b")))
	assert.True(t, marker("h. a").compatible(marker("i. b")))
	assert.False(t, marker("1. a").compatible(marker("a. b")))
}

func TestBlockRecognisers(t *testing.T) {
	t.Parallel()

	pandoc := config.ExtensionsFor(config.FlavorPandoc)

	assert.True(t, isThematicBreak("- - -"))
	assert.True(t, isThematicBreak("***"))
	assert.False(t, isThematicBreak("--"))
	assert.False(t, isThematicBreak("-*-"))

	assert.Equal(t, 1, setextLevel("===  "))
	assert.Equal(t, 2, setextLevel("---"))
	assert.Equal(t, 0, setextLevel("-- -"))

	assert.Equal(t, 2, atxLevel("## x"))
	assert.Equal(t, 1, atxLevel("#"))
	assert.Equal(t, 0, atxLevel("#x"))
	assert.Equal(t, 0, atxLevel("####### x"))

	f, ok := parseCodeFence("````python", &pandoc)
	assert.True(t, ok)
	assert.Equal(t, fenceInfo{char: '`', length: 4}, f)
	assert.True(t, closesFence("`````", f))
	assert.False(t, closesFence("```", f))
	_, ok = parseCodeFence("``` a`b", &pandoc)
	assert.False(t, ok)

	assert.True(t, isDefinitionMarker(":   Def"))
	assert.True(t, isDefinitionMarker("~\tDef"))
	assert.True(t, isDefinitionMarker(":"))
	assert.False(t, isDefinitionMarker(":Def"))
	assert.False(t, isDefinitionMarker(""))

	assert.True(t, isDivCloser(":::"))
	assert.False(t, isDivCloser("::: x"))
	assert.True(t, isPipeSeparator("|:--|--:|"))
	assert.True(t, isPipeSeparator("--- | ---"))
	assert.False(t, isPipeSeparator("---"))
	assert.Equal(t, []string{" a ", " b\\|c "}, pipeCells("| a | b\\|c |"))

	end, ok := htmlBlockEnd("<div class=\"x\">")
	assert.True(t, ok)
	assert.Empty(t, end)
	end, ok = htmlBlockEnd("<script>")
	assert.True(t, ok)
	assert.Equal(t, "</script>", end)
	_, ok = htmlBlockEnd("<span>")
	assert.False(t, ok)
}

func TestInlineDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"(url)", 5, true},
		{"()", 2, true},
		{"(<a b>)", 7, true},
		{`(url "title")`, 13, true},
		{"(url 'title') rest", 13, true},
		{"(a(b)c)", 7, true},
		{"(url", 0, false},
		{`(url "title)`, 0, false},
	}
	for _, tc := range tests {
		got, ok := inlineDestination(tc.input)
		assert.Equal(t, tc.wantOK, ok, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}
