// Package config defines the configuration value consumed by the parser, the
// formatter, and the linter. These types are pure data structures; discovery and
// merging live in internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Flavor selects a preset of syntax extensions.
type Flavor string

const (
	FlavorPandoc     Flavor = "pandoc"
	FlavorQuarto     Flavor = "quarto"
	FlavorRMarkdown  Flavor = "rmarkdown"
	FlavorGFM        Flavor = "gfm"
	FlavorCommonMark Flavor = "commonmark"
)

// IsValid reports whether f is a known flavor.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorPandoc, FlavorQuarto, FlavorRMarkdown, FlavorGFM, FlavorCommonMark:
		return true
	default:
		return false
	}
}

// WrapMode controls paragraph line breaking.
type WrapMode string

const (
	// WrapReflow re-packs paragraph words up to the line width.
	WrapReflow WrapMode = "reflow"
	// WrapPreserve keeps the source line breaks.
	WrapPreserve WrapMode = "preserve"
)

// LineEnding selects the line terminator of formatted output.
type LineEnding string

const (
	LineEndingAuto LineEnding = "auto"
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// BlankLines controls how runs of blank lines between blocks are emitted.
type BlankLines string

const (
	BlankLinesCollapse BlankLines = "collapse"
	BlankLinesPreserve BlankLines = "preserve"
)

// FenceStyle selects the fence character for code blocks.
type FenceStyle string

const (
	FenceBacktick FenceStyle = "backtick"
	FenceTilde    FenceStyle = "tilde"
)

// MathDelimiterStyle controls rewriting of TeX math delimiters.
type MathDelimiterStyle string

const (
	// MathPreserve keeps delimiters as written.
	MathPreserve MathDelimiterStyle = "preserve"
	// MathDollars rewrites \( \) and \[ \] to $ and $$.
	MathDollars MathDelimiterStyle = "dollars"
)

// CodeBlockConfig controls code block output.
type CodeBlockConfig struct {
	FenceStyle        FenceStyle `yaml:"fence_style" toml:"fence_style"`
	MinFenceLength    int        `yaml:"min_fence_length" toml:"min_fence_length"`
	NormalizeIndented bool       `yaml:"normalize_indented" toml:"normalize_indented"`
	DetectLanguage    bool       `yaml:"detect_language" toml:"detect_language"`
}

// FormatterConfig describes an external code formatter for one language.
type FormatterConfig struct {
	// Cmd is the executable to run.
	Cmd string `yaml:"cmd" toml:"cmd"`

	// Args are passed to Cmd. In file mode, "{}" is replaced by the temp file path.
	Args []string `yaml:"args" toml:"args"`

	// Enabled defaults to true when unset.
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`

	// Stdin pipes code through the command; otherwise a temp file is used.
	Stdin *bool `yaml:"stdin,omitempty" toml:"stdin,omitempty"`

	// TimeoutSeconds bounds one invocation; zero means the default.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" toml:"timeout_seconds,omitempty"`
}

// IsEnabled reports whether the formatter should run.
func (f FormatterConfig) IsEnabled() bool {
	return f.Cmd != "" && (f.Enabled == nil || *f.Enabled)
}

// UsesStdin reports whether code is piped through stdin.
func (f FormatterConfig) UsesStdin() bool {
	return f.Stdin == nil || *f.Stdin
}

// RuleConfig holds per-rule lint configuration.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" toml:"severity,omitempty"`
	AutoFix  *bool          `yaml:"auto_fix,omitempty" toml:"auto_fix,omitempty"`
	Options  map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// CacheConfig controls the on-disk formatting cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty"`
}

// Default formatting values.
const (
	DefaultLineWidth      = 80
	DefaultMinFenceLength = 3
)

// Config is the root configuration value. It is resolved once per invocation
// and treated as read-only afterwards; concurrent readers need no locking.
type Config struct {
	// Flavor selects the extension preset.
	Flavor Flavor `yaml:"flavor" toml:"flavor"`

	// LineWidth is the target width for reflowed text.
	LineWidth int `yaml:"line_width" toml:"line_width"`

	// Wrap selects reflow or preserve for paragraphs.
	Wrap WrapMode `yaml:"wrap" toml:"wrap"`

	// LineEnding selects the output line terminator.
	LineEnding LineEnding `yaml:"line_ending" toml:"line_ending"`

	// BlankLines controls blank lines between blocks.
	BlankLines BlankLines `yaml:"blank_lines" toml:"blank_lines"`

	// MathDelimiters controls TeX math delimiter rewriting.
	MathDelimiters MathDelimiterStyle `yaml:"math_delimiters" toml:"math_delimiters"`

	// ExtensionOverrides toggles individual extensions on top of the flavor preset.
	ExtensionOverrides map[string]bool `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// CodeBlocks controls code block output.
	CodeBlocks CodeBlockConfig `yaml:"code_blocks" toml:"code_blocks"`

	// Formatters maps a language name to an external formatter.
	Formatters map[string]FormatterConfig `yaml:"formatters,omitempty" toml:"formatters,omitempty"`

	// Rules contains per-rule lint configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Verify compares a CommonMark rendering of input and output before writing.
	Verify bool `yaml:"verify" toml:"verify"`

	// Cache configures the formatting cache.
	Cache CacheConfig `yaml:"cache" toml:"cache"`

	// Ext is the resolved extension set. It is derived by Resolve and never serialized.
	Ext Extensions `yaml:"-" toml:"-"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// Check reports files that would change without writing them.
	Check bool `yaml:"-" toml:"-"`

	// Diff prints a unified diff instead of writing files.
	Diff bool `yaml:"-" toml:"-"`

	// Fix applies lint fixes.
	Fix bool `yaml:"-" toml:"-"`
}

// NewConfig returns the default configuration for the Pandoc flavor.
func NewConfig() *Config {
	return NewConfigForFlavor(FlavorPandoc)
}

// NewConfigForFlavor returns the default configuration for flavor.
func NewConfigForFlavor(flavor Flavor) *Config {
	cfg := &Config{
		Flavor:         flavor,
		LineWidth:      DefaultLineWidth,
		Wrap:           WrapReflow,
		LineEnding:     LineEndingAuto,
		BlankLines:     BlankLinesCollapse,
		MathDelimiters: MathPreserve,
		CodeBlocks: CodeBlockConfig{
			FenceStyle:     FenceBacktick,
			MinFenceLength: DefaultMinFenceLength,
		},
		Formatters: make(map[string]FormatterConfig),
		Rules:      make(map[string]RuleConfig),
	}
	cfg.Resolve()
	return cfg
}

// Resolve recomputes Ext from Flavor and ExtensionOverrides. Unknown override
// names are returned so the caller can warn about them.
func (c *Config) Resolve() []string {
	flavor := c.Flavor
	if !flavor.IsValid() {
		flavor = FlavorPandoc
	}
	c.Ext = ExtensionsFor(flavor)
	return c.Ext.Apply(c.ExtensionOverrides)
}
