// Package syntax defines the lossless concrete syntax tree shared by the parser,
// the typed AST view, the formatter, and the linter.
//
// Every byte of the source document is held by exactly one Token. Nodes group
// tokens and other nodes; concatenating token text in document order reproduces
// the input exactly.
package syntax

// Kind classifies a node or a token.
type Kind uint16

// Token kinds. Tokens are the only leaves of the tree.
const (
	KindWhitespace Kind = iota
	KindNewline
	KindText
	KindBlankLine
	KindEscapedChar
	KindNonbreakingSpace
	KindHardLineBreak

	KindBlockquoteMarker
	KindListMarker
	KindTaskCheckbox
	KindDefinitionMarker
	KindAtxHeadingMarker
	KindSetextHeadingUnderline
	KindThematicBreakMarker
	KindCodeFenceMarker
	KindCodeInfo
	KindDivFenceMarker
	KindDivInfo
	KindAttribute
	KindYAMLDelimiter
	KindLineBlockMarker
	KindCaptionPrefix
	KindTablePipe
	KindTableSeparatorText

	KindEmphasisMarker
	KindStrongMarker
	KindStrikeoutMarker
	KindMarkMarker
	KindSuperscriptMarker
	KindSubscriptMarker
	KindCodeSpanMarker
	KindMathMarker
	KindLinkStart
	KindImageStart
	KindLinkEnd
	KindLinkDest
	KindLinkTitle
	KindLinkRef
	KindAutolinkMarker
	KindFootnoteStart
	KindFootnoteLabel
	KindCitationMarker
	KindCitationKey
	KindCitationSeparator
	KindShortcodeMarker
	KindHTMLTag
	KindReferenceLabel
	KindReferenceURL
	KindReferenceTitle

	kindTokenEnd
)

// Node kinds.
const (
	KindDocument Kind = iota + kindTokenEnd + 1

	// Blocks.
	KindYAMLMetadata
	KindTitleBlock
	KindParagraph
	KindPlain
	KindHeading
	KindHeadingContent
	KindThematicBreak
	KindCodeBlock
	KindIndentedCode
	KindCodeContent
	KindBlockquote
	KindList
	KindListItem
	KindDefinitionList
	KindDefinitionItem
	KindTerm
	KindDefinition
	KindFootnoteDefinition
	KindFencedDiv
	KindDisplayMathBlock
	KindHTMLBlock
	KindRawTexBlock
	KindLineBlock
	KindReferenceDefinition
	KindPipeTable
	KindGridTable
	KindSimpleTable
	KindTableHeader
	KindTableSeparator
	KindTableRow
	KindTableCell
	KindTableCaption

	// Inlines.
	KindEmphasis
	KindStrong
	KindStrikeout
	KindMark
	KindSuperscript
	KindSubscript
	KindCodeSpan
	KindRawInline
	KindInlineMath
	KindDisplayMath
	KindLink
	KindImage
	KindAutolink
	KindFootnoteReference
	KindInlineFootnote
	KindCitation
	KindBracketedSpan
	KindShortcode
	KindHTMLInline

	kindNodeEnd
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[Kind]string{
	KindWhitespace:             "WHITESPACE",
	KindNewline:                "NEWLINE",
	KindText:                   "TEXT",
	KindBlankLine:              "BLANK_LINE",
	KindEscapedChar:            "ESCAPED_CHAR",
	KindNonbreakingSpace:       "NONBREAKING_SPACE",
	KindHardLineBreak:          "HARD_LINE_BREAK",
	KindBlockquoteMarker:       "BLOCKQUOTE_MARKER",
	KindListMarker:             "LIST_MARKER",
	KindTaskCheckbox:           "TASK_CHECKBOX",
	KindDefinitionMarker:       "DEFINITION_MARKER",
	KindAtxHeadingMarker:       "ATX_HEADING_MARKER",
	KindSetextHeadingUnderline: "SETEXT_HEADING_UNDERLINE",
	KindThematicBreakMarker:    "THEMATIC_BREAK_MARKER",
	KindCodeFenceMarker:        "CODE_FENCE_MARKER",
	KindCodeInfo:               "CODE_INFO",
	KindDivFenceMarker:         "DIV_FENCE_MARKER",
	KindDivInfo:                "DIV_INFO",
	KindAttribute:              "ATTRIBUTE",
	KindYAMLDelimiter:          "YAML_DELIMITER",
	KindLineBlockMarker:        "LINE_BLOCK_MARKER",
	KindCaptionPrefix:          "CAPTION_PREFIX",
	KindTablePipe:              "TABLE_PIPE",
	KindTableSeparatorText:     "TABLE_SEPARATOR_TEXT",
	KindEmphasisMarker:         "EMPHASIS_MARKER",
	KindStrongMarker:           "STRONG_MARKER",
	KindStrikeoutMarker:        "STRIKEOUT_MARKER",
	KindMarkMarker:             "MARK_MARKER",
	KindSuperscriptMarker:      "SUPERSCRIPT_MARKER",
	KindSubscriptMarker:        "SUBSCRIPT_MARKER",
	KindCodeSpanMarker:         "CODE_SPAN_MARKER",
	KindMathMarker:             "MATH_MARKER",
	KindLinkStart:              "LINK_START",
	KindImageStart:             "IMAGE_START",
	KindLinkEnd:                "LINK_END",
	KindLinkDest:               "LINK_DEST",
	KindLinkTitle:              "LINK_TITLE",
	KindLinkRef:                "LINK_REF",
	KindAutolinkMarker:         "AUTOLINK_MARKER",
	KindFootnoteStart:          "FOOTNOTE_START",
	KindFootnoteLabel:          "FOOTNOTE_LABEL",
	KindCitationMarker:         "CITATION_MARKER",
	KindCitationKey:            "CITATION_KEY",
	KindCitationSeparator:      "CITATION_SEPARATOR",
	KindShortcodeMarker:        "SHORTCODE_MARKER",
	KindHTMLTag:                "HTML_TAG",
	KindReferenceLabel:         "REFERENCE_LABEL",
	KindReferenceURL:           "REFERENCE_URL",
	KindReferenceTitle:         "REFERENCE_TITLE",

	KindDocument:            "DOCUMENT",
	KindYAMLMetadata:        "YAML_METADATA",
	KindTitleBlock:          "TITLE_BLOCK",
	KindParagraph:           "PARAGRAPH",
	KindPlain:               "PLAIN",
	KindHeading:             "HEADING",
	KindHeadingContent:      "HEADING_CONTENT",
	KindThematicBreak:       "THEMATIC_BREAK",
	KindCodeBlock:           "CODE_BLOCK",
	KindIndentedCode:        "INDENTED_CODE",
	KindCodeContent:         "CODE_CONTENT",
	KindBlockquote:          "BLOCKQUOTE",
	KindList:                "LIST",
	KindListItem:            "LIST_ITEM",
	KindDefinitionList:      "DEFINITION_LIST",
	KindDefinitionItem:      "DEFINITION_ITEM",
	KindTerm:                "TERM",
	KindDefinition:          "DEFINITION",
	KindFootnoteDefinition:  "FOOTNOTE_DEFINITION",
	KindFencedDiv:           "FENCED_DIV",
	KindDisplayMathBlock:    "DISPLAY_MATH_BLOCK",
	KindHTMLBlock:           "HTML_BLOCK",
	KindRawTexBlock:         "RAW_TEX_BLOCK",
	KindLineBlock:           "LINE_BLOCK",
	KindReferenceDefinition: "REFERENCE_DEFINITION",
	KindPipeTable:           "PIPE_TABLE",
	KindGridTable:           "GRID_TABLE",
	KindSimpleTable:         "SIMPLE_TABLE",
	KindTableHeader:         "TABLE_HEADER",
	KindTableSeparator:      "TABLE_SEPARATOR",
	KindTableRow:            "TABLE_ROW",
	KindTableCell:           "TABLE_CELL",
	KindTableCaption:        "TABLE_CAPTION",
	KindEmphasis:            "EMPHASIS",
	KindStrong:              "STRONG",
	KindStrikeout:           "STRIKEOUT",
	KindMark:                "MARK",
	KindSuperscript:         "SUPERSCRIPT",
	KindSubscript:           "SUBSCRIPT",
	KindCodeSpan:            "CODE_SPAN",
	KindRawInline:           "RAW_INLINE",
	KindInlineMath:          "INLINE_MATH",
	KindDisplayMath:         "DISPLAY_MATH",
	KindLink:                "LINK",
	KindImage:               "IMAGE",
	KindAutolink:            "AUTOLINK",
	KindFootnoteReference:   "FOOTNOTE_REFERENCE",
	KindInlineFootnote:      "INLINE_FOOTNOTE",
	KindCitation:            "CITATION",
	KindBracketedSpan:       "BRACKETED_SPAN",
	KindShortcode:           "SHORTCODE",
	KindHTMLInline:          "HTML_INLINE",
}

// String returns the upper snake case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsToken reports whether k is a token kind.
func (k Kind) IsToken() bool {
	return k < kindTokenEnd
}

// IsNode reports whether k is a node kind.
func (k Kind) IsNode() bool {
	return k > kindTokenEnd && k < kindNodeEnd
}

// IsBlock reports whether k is a block-level node kind.
func (k Kind) IsBlock() bool {
	return k >= KindDocument && k < KindEmphasis
}

// IsInline reports whether k is an inline node kind.
func (k Kind) IsInline() bool {
	return k >= KindEmphasis && k < kindNodeEnd
}

// Is reports whether k equals any of kinds.
func (k Kind) Is(kinds ...Kind) bool {
	for _, other := range kinds {
		if k == other {
			return true
		}
	}
	return false
}
