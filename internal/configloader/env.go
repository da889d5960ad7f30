package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdfmt/pkg/config"
)

// envVarPrefix is the prefix of all mdfmt environment variables.
const envVarPrefix = "MDFMT_"

// envSetter applies one variable's value.
type envSetter func(cfg *config.Config, value string) error

type envVar struct {
	description string
	set         envSetter
}

func stringVar[T ~string](field func(*config.Config) *T) envSetter {
	return func(cfg *config.Config, value string) error {
		*field(cfg) = T(value)
		return nil
	}
}

func boolVar(field func(*config.Config) *bool) envSetter {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0, got %q", value)
		}
		*field(cfg) = b
		return nil
	}
}

func intVar(field func(*config.Config) *int) envSetter {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", value)
		}
		*field(cfg) = i
		return nil
	}
}

// envVars maps variable names without the prefix to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"FLAVOR": {
		"Extension preset: pandoc, quarto, rmarkdown, gfm or commonmark",
		stringVar(func(c *config.Config) *config.Flavor { return &c.Flavor }),
	},
	"LINE_WIDTH": {
		"Target line width; 0 joins paragraphs onto one line",
		intVar(func(c *config.Config) *int { return &c.LineWidth }),
	},
	"WRAP": {
		"Paragraph wrapping: reflow or preserve",
		stringVar(func(c *config.Config) *config.WrapMode { return &c.Wrap }),
	},
	"LINE_ENDING": {
		"Output line ending: auto, lf or crlf",
		stringVar(func(c *config.Config) *config.LineEnding { return &c.LineEnding }),
	},
	"BLANK_LINES": {
		"Blank lines between blocks: collapse or preserve",
		stringVar(func(c *config.Config) *config.BlankLines { return &c.BlankLines }),
	},
	"MATH_DELIMITERS": {
		"TeX math delimiters: preserve or dollars",
		stringVar(func(c *config.Config) *config.MathDelimiterStyle { return &c.MathDelimiters }),
	},
	"VERIFY": {
		"Compare renderings before writing: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Verify }),
	},
	"CACHE": {
		"Skip files already formatted: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Cache.Enabled }),
	},
	"CACHE_PATH": {
		"Location of the formatting cache",
		stringVar(func(c *config.Config) *string { return &c.Cache.Path }),
	},
	"JOBS": {
		"Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config) *int { return &c.Jobs }),
	},
	"IGNORE": {
		"Comma-separated list of ignore patterns",
		func(c *config.Config, value string) error {
			c.Ignore = parseSliceValue(value)
			return nil
		},
	},
}

// LoadFromEnv applies MDFMT_* variables from the process environment.
func LoadFromEnv(cfg *config.Config) error {
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv applies MDFMT_* variables found through lookup. Empty values
// are ignored.
func ApplyEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}
	for _, name := range sortedEnvNames() {
		value, ok := lookup(envVarPrefix + name)
		if !ok || value == "" {
			continue
		}
		if err := envVars[name].set(cfg, value); err != nil {
			return fmt.Errorf("invalid %s%s: %w", envVarPrefix, name, err)
		}
	}
	return nil
}

func sortedEnvNames() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseSliceValue(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[envVarPrefix+name] = v.description
	}
	return out
}
