package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
)

// maxLineWidth rejects widths that are certainly typos.
const maxLineWidth = 10000

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	// Field is the path of the value, e.g. "rules.MDF001.severity".
	Field string

	// Value is the offending value.
	Value any

	// Message describes the problem.
	Message string

	// FilePath is the configuration file, when known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	// Errors prevent the configuration from being used.
	Errors []ValidationError

	// Warnings are reported but do not stop the run.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all errors and warnings as text.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// oneOf records an error when value is set and not among allowed.
func oneOf[T ~string](r *ValidationResult, field string, value T, allowed ...T) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	r.errorf(field, value, "invalid value %q; must be one of: %s", value, strings.Join(names, ", "))
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	oneOf(result, "flavor", cfg.Flavor, config.FlavorPandoc, config.FlavorQuarto,
		config.FlavorRMarkdown, config.FlavorGFM, config.FlavorCommonMark)
	oneOf(result, "wrap", cfg.Wrap, config.WrapReflow, config.WrapPreserve)
	oneOf(result, "line_ending", cfg.LineEnding, config.LineEndingAuto, config.LineEndingLF, config.LineEndingCRLF)
	oneOf(result, "blank_lines", cfg.BlankLines, config.BlankLinesCollapse, config.BlankLinesPreserve)
	oneOf(result, "math_delimiters", cfg.MathDelimiters, config.MathPreserve, config.MathDollars)
	oneOf(result, "code_blocks.fence_style", cfg.CodeBlocks.FenceStyle, config.FenceBacktick, config.FenceTilde)

	if cfg.LineWidth < 0 || cfg.LineWidth > maxLineWidth {
		result.errorf("line_width", cfg.LineWidth, "line_width must be between 0 and %d", maxLineWidth)
	}
	if cfg.CodeBlocks.MinFenceLength != 0 && cfg.CodeBlocks.MinFenceLength < config.DefaultMinFenceLength {
		result.errorf("code_blocks.min_fence_length", cfg.CodeBlocks.MinFenceLength,
			"min_fence_length must be at least %d", config.DefaultMinFenceLength)
	}
	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for name := range cfg.ExtensionOverrides {
		if !config.IsKnownExtension(name) {
			result.warnf("extensions."+name, name, "unknown extension %q; it will be ignored", name)
		}
	}

	validateFormatters(cfg, result)
	validateRules(cfg, result)
	validateIgnorePatterns(cfg, result)
	return result
}

func validateFormatters(cfg *config.Config, result *ValidationResult) {
	for lang, f := range cfg.Formatters {
		field := "formatters." + lang
		if f.Cmd == "" && (f.Enabled == nil || *f.Enabled) {
			result.errorf(field+".cmd", f.Cmd, "formatter for %q has no command", lang)
		}
		if f.TimeoutSeconds < 0 {
			result.errorf(field+".timeout_seconds", f.TimeoutSeconds, "timeout must not be negative")
		}
	}
}

func validateRules(cfg *config.Config, result *ValidationResult) {
	registry := rules.NewRegistry()
	for key, rc := range cfg.Rules {
		if _, ok := registry.Get(key); !ok {
			result.warnf("rules."+key, key, "unknown rule %q; it will be ignored", key)
		}
		if rc.Severity != nil {
			oneOf(result, "rules."+key+".severity", config.Severity(*rc.Severity),
				config.SeverityError, config.SeverityWarning, config.SeverityInfo)
		}
	}
}

func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
