package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// YAMLMetadataRule reports a metadata block that is not valid YAML.
type YAMLMetadataRule struct {
	lint.BaseRule
}

// NewYAMLMetadataRule creates the yaml-metadata rule.
func NewYAMLMetadataRule() *YAMLMetadataRule {
	return &YAMLMetadataRule{
		BaseRule: lint.NewBaseRule(
			"MDF003",
			"yaml-metadata",
			"The metadata block should be valid YAML",
			false,
		),
	}
}

// DefaultSeverity returns error: Pandoc refuses documents with broken metadata.
func (r *YAMLMetadataRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

var yamlLineRe = regexp.MustCompile(`^yaml: line (\d+): `)

// Apply decodes the metadata block and reports the first decoding error at
// the line yaml.v3 names, when it names one.
func (r *YAMLMetadataRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	meta, ok := ctx.Doc.Metadata()
	if !ok {
		return nil, nil
	}

	var node yaml.Node
	rng := meta.Node().Range()
	err := yaml.Unmarshal([]byte(meta.Content()), &node)
	if err == nil {
		if len(node.Content) == 0 || node.Content[0].Kind == yaml.MappingNode {
			return nil, nil
		}
		return []lint.Diagnostic{
			ctx.Diagnostic(r, rng, "Invalid YAML metadata: top level must be a mapping").Build(),
		}, nil
	}

	msg := err.Error()
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		msg = msg[len(m[0]):]
		if n, convErr := strconv.Atoi(m[1]); convErr == nil {
			rng = metadataLine(ctx, meta.Node(), n)
		}
	}
	msg = strings.TrimPrefix(msg, "yaml: ")

	return []lint.Diagnostic{
		ctx.Diagnostic(r, rng, fmt.Sprintf("Invalid YAML metadata: %s", msg)).Build(),
	}, nil
}

// metadataLine returns the range of the n-th content line of the block,
// counting from 1 after the opening delimiter.
func metadataLine(ctx *lint.RuleContext, block *syntax.Node, n int) syntax.Range {
	first, _ := ctx.Lines.Position(block.Range().Start)
	info, ok := ctx.Lines.Line(first + n)
	if !ok {
		return block.Range()
	}
	return syntax.Range{Start: info.StartOffset, End: info.NewlineStart}
}
