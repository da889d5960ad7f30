package config

import "sort"

// Extensions holds the syntax extension switches consulted by the parser and formatter.
//
// FencedCodeAttributes, MarkdownInHTMLBlocks, Emoji, ImplicitFigures and Smart
// change how Pandoc renders a document but not how its source is structured
// or printed. They are accepted so that extension lists copied from Pandoc
// or Quarto configurations load without warnings.
type Extensions struct {
	// Block structure.
	BlankBeforeBlockquote bool
	BlankBeforeHeader     bool
	HeaderAttributes      bool
	FencedCodeBlocks      bool
	BacktickCodeBlocks    bool
	FencedCodeAttributes  bool
	LineBlocks            bool
	FancyLists            bool
	Startnum              bool
	ExampleLists          bool
	TaskLists             bool
	DefinitionLists       bool
	SimpleTables          bool
	MultilineTables       bool
	GridTables            bool
	PipeTables            bool
	TableCaptions         bool
	Footnotes             bool
	FencedDivs            bool
	YAMLMetadataBlock     bool
	PandocTitleBlock      bool
	RawHTML               bool
	RawTex                bool
	MarkdownInHTMLBlocks  bool

	// Inline structure.
	AllSymbolsEscapable    bool
	IntrawordUnderscores   bool
	Strikeout              bool
	Superscript            bool
	Subscript              bool
	InlineCodeAttributes   bool
	RawAttribute           bool
	InlineLinks            bool
	ReferenceLinks         bool
	ShortcutReferenceLinks bool
	LinkAttributes         bool
	Autolinks              bool
	AutolinkBareURIs       bool
	TexMathDollars         bool
	TexMathSingleBackslash bool
	TexMathDoubleBackslash bool
	InlineFootnotes        bool
	Citations              bool
	BracketedSpans         bool
	NativeSpans            bool
	EscapedLineBreaks      bool
	HardLineBreaks         bool
	Emoji                  bool
	Mark                   bool
	QuartoShortcodes       bool
	ImplicitFigures        bool
	Smart                  bool
}

// fields maps extension names, as written in config files, to their switches.
func (e *Extensions) fields() map[string]*bool {
	return map[string]*bool{
		"blank_before_blockquote":   &e.BlankBeforeBlockquote,
		"blank_before_header":       &e.BlankBeforeHeader,
		"header_attributes":         &e.HeaderAttributes,
		"fenced_code_blocks":        &e.FencedCodeBlocks,
		"backtick_code_blocks":      &e.BacktickCodeBlocks,
		"fenced_code_attributes":    &e.FencedCodeAttributes,
		"line_blocks":               &e.LineBlocks,
		"fancy_lists":               &e.FancyLists,
		"startnum":                  &e.Startnum,
		"example_lists":             &e.ExampleLists,
		"task_lists":                &e.TaskLists,
		"definition_lists":          &e.DefinitionLists,
		"simple_tables":             &e.SimpleTables,
		"multiline_tables":          &e.MultilineTables,
		"grid_tables":               &e.GridTables,
		"pipe_tables":               &e.PipeTables,
		"table_captions":            &e.TableCaptions,
		"footnotes":                 &e.Footnotes,
		"fenced_divs":               &e.FencedDivs,
		"yaml_metadata_block":       &e.YAMLMetadataBlock,
		"pandoc_title_block":        &e.PandocTitleBlock,
		"raw_html":                  &e.RawHTML,
		"raw_tex":                   &e.RawTex,
		"markdown_in_html_blocks":   &e.MarkdownInHTMLBlocks,
		"all_symbols_escapable":     &e.AllSymbolsEscapable,
		"intraword_underscores":     &e.IntrawordUnderscores,
		"strikeout":                 &e.Strikeout,
		"superscript":               &e.Superscript,
		"subscript":                 &e.Subscript,
		"inline_code_attributes":    &e.InlineCodeAttributes,
		"raw_attribute":             &e.RawAttribute,
		"inline_links":              &e.InlineLinks,
		"reference_links":           &e.ReferenceLinks,
		"shortcut_reference_links":  &e.ShortcutReferenceLinks,
		"link_attributes":           &e.LinkAttributes,
		"autolinks":                 &e.Autolinks,
		"autolink_bare_uris":        &e.AutolinkBareURIs,
		"tex_math_dollars":          &e.TexMathDollars,
		"tex_math_single_backslash": &e.TexMathSingleBackslash,
		"tex_math_double_backslash": &e.TexMathDoubleBackslash,
		"inline_footnotes":          &e.InlineFootnotes,
		"citations":                 &e.Citations,
		"bracketed_spans":           &e.BracketedSpans,
		"native_spans":              &e.NativeSpans,
		"escaped_line_breaks":       &e.EscapedLineBreaks,
		"hard_line_breaks":          &e.HardLineBreaks,
		"emoji":                     &e.Emoji,
		"mark":                      &e.Mark,
		"quarto_shortcodes":         &e.QuartoShortcodes,
		"implicit_figures":          &e.ImplicitFigures,
		"smart":                     &e.Smart,
	}
}

// Apply sets the named switches and returns the names it did not recognise, sorted.
func (e *Extensions) Apply(overrides map[string]bool) []string {
	fields := e.fields()
	var unknown []string
	for name, value := range overrides {
		ptr, ok := fields[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		*ptr = value
	}
	sort.Strings(unknown)
	return unknown
}

// Names returns every extension name in sorted order.
func (e *Extensions) Names() []string {
	fields := e.fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled reports whether the named extension is on.
func (e *Extensions) Enabled(name string) bool {
	ptr, ok := e.fields()[name]
	return ok && *ptr
}

// IsKnownExtension reports whether name is a recognised extension.
func IsKnownExtension(name string) bool {
	var e Extensions
	_, ok := e.fields()[name]
	return ok
}

// ExtensionsFor returns the preset for flavor.
func ExtensionsFor(flavor Flavor) Extensions {
	switch flavor {
	case FlavorQuarto:
		ext := pandocExtensions()
		ext.QuartoShortcodes = true
		return ext
	case FlavorRMarkdown:
		ext := pandocExtensions()
		ext.TexMathSingleBackslash = true
		return ext
	case FlavorGFM:
		return gfmExtensions()
	case FlavorCommonMark:
		return commonMarkExtensions()
	default:
		return pandocExtensions()
	}
}

func pandocExtensions() Extensions {
	return Extensions{
		BlankBeforeBlockquote:  true,
		BlankBeforeHeader:      true,
		HeaderAttributes:       true,
		FencedCodeBlocks:       true,
		BacktickCodeBlocks:     true,
		FencedCodeAttributes:   true,
		LineBlocks:             true,
		FancyLists:             true,
		Startnum:               true,
		ExampleLists:           true,
		TaskLists:              true,
		DefinitionLists:        true,
		SimpleTables:           true,
		MultilineTables:        true,
		GridTables:             true,
		PipeTables:             true,
		TableCaptions:          true,
		Footnotes:              true,
		FencedDivs:             true,
		YAMLMetadataBlock:      true,
		PandocTitleBlock:       true,
		RawHTML:                true,
		RawTex:                 true,
		MarkdownInHTMLBlocks:   true,
		AllSymbolsEscapable:    true,
		IntrawordUnderscores:   true,
		Strikeout:              true,
		Superscript:            true,
		Subscript:              true,
		InlineCodeAttributes:   true,
		RawAttribute:           true,
		InlineLinks:            true,
		ReferenceLinks:         true,
		ShortcutReferenceLinks: true,
		LinkAttributes:         true,
		Autolinks:              true,
		TexMathDollars:         true,
		InlineFootnotes:        true,
		Citations:              true,
		BracketedSpans:         true,
		NativeSpans:            true,
		EscapedLineBreaks:      true,
		ImplicitFigures:        true,
		Smart:                  true,
	}
}

func gfmExtensions() Extensions {
	return Extensions{
		FencedCodeBlocks:       true,
		BacktickCodeBlocks:     true,
		Startnum:               true,
		TaskLists:              true,
		PipeTables:             true,
		Footnotes:              true,
		YAMLMetadataBlock:      true,
		RawHTML:                true,
		AllSymbolsEscapable:    true,
		IntrawordUnderscores:   true,
		Strikeout:              true,
		InlineLinks:            true,
		ReferenceLinks:         true,
		ShortcutReferenceLinks: true,
		Autolinks:              true,
		AutolinkBareURIs:       true,
		TexMathDollars:         true,
		EscapedLineBreaks:      true,
		Emoji:                  true,
	}
}

func commonMarkExtensions() Extensions {
	return Extensions{
		FencedCodeBlocks:       true,
		BacktickCodeBlocks:     true,
		Startnum:               true,
		RawHTML:                true,
		AllSymbolsEscapable:    true,
		IntrawordUnderscores:   true,
		InlineLinks:            true,
		ReferenceLinks:         true,
		ShortcutReferenceLinks: true,
		Autolinks:              true,
		EscapedLineBreaks:      true,
	}
}
