// Package format prints a syntax tree back to canonical Markdown.
//
// The formatter walks the block structure of a parsed document and emits
// every block in one normalized form: ATX headings, "-" bullets, renumbered
// ordered lists, fenced code, aligned pipe tables and paragraphs wrapped to
// the configured width. Constructs with no canonical form (grid tables, raw
// HTML, line blocks) are reprinted line by line.
//
// Formatting is idempotent: formatting the output again yields the same
// text. Code block content is never changed except by a configured external
// formatter.
package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/external"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// Option configures a formatting run.
type Option func(*options)

type options struct {
	runner external.Runner
	limit  int
}

// WithRunner formats code blocks through runner. Without it, formatters
// from the config are used.
func WithRunner(runner external.Runner) Option {
	return func(o *options) { o.runner = runner }
}

// WithConcurrency bounds the number of external formatters run at once.
func WithConcurrency(n int) Option {
	return func(o *options) { o.limit = n }
}

// Format parses text and returns it formatted under cfg. A nil cfg uses the
// defaults.
func Format(ctx context.Context, text string, cfg *config.Config, opts ...Option) string {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return format(ctx, parser.Parse(text, cfg), text, cfg, opts)
}

// Tree formats an already parsed document.
func Tree(ctx context.Context, root *syntax.Node, cfg *config.Config, opts ...Option) string {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return format(ctx, root, root.Text(), cfg, opts)
}

func format(ctx context.Context, root *syntax.Node, source string, cfg *config.Config, opts []Option) (out string) {
	o := options{limit: cfg.Jobs}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runner == nil && len(cfg.Formatters) > 0 {
		o.runner = external.New(cfg.Formatters)
	}

	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error("Formatter failed, keeping input unchanged",
				logging.FieldError, fmt.Sprint(r),
			)
			out = source
		}
	}()

	f := &formatter{
		ctx:       ctx,
		cfg:       cfg,
		ext:       &cfg.Ext,
		formatted: formatCode(ctx, root, o.runner, o.limit),
		lists:     make(map[*syntax.Node]listStyle),
	}
	f.blocks(root, false)

	out = strings.TrimRight(f.p.String(), "\n")
	if out == "" {
		return ""
	}
	out += "\n"
	if lineEnding(cfg.LineEnding, source) == "\r\n" {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out
}

// lineEnding picks the output line ending. Auto follows the first line
// ending of the source.
func lineEnding(mode config.LineEnding, source string) string {
	switch mode {
	case config.LineEndingCRLF:
		return "\r\n"
	case config.LineEndingLF:
		return "\n"
	}
	if i := strings.IndexByte(source, '\n'); i > 0 && source[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// formatCode runs the external formatters over every fenced code block
// whose language has one. Failed blocks are absent from the result.
func formatCode(ctx context.Context, root *syntax.Node, runner external.Runner, limit int) map[*syntax.Node]string {
	if runner == nil {
		return nil
	}
	var (
		nodes []*syntax.Node
		reqs  []external.Request
	)
	for _, n := range syntax.FindByKind(root, syntax.KindCodeBlock) {
		code, _ := ast.AsCodeBlock(n)
		lang := code.Language()
		if lang == "" || !runner.Has(lang) {
			continue
		}
		nodes = append(nodes, n)
		reqs = append(reqs, external.Request{Language: lang, Code: normalizeNewlines(code.Code())})
	}
	if len(reqs) == 0 {
		return nil
	}

	logger := logging.FromContext(ctx)
	out := make(map[*syntax.Node]string, len(reqs))
	for i, res := range external.FormatAll(ctx, runner, reqs, limit) {
		switch {
		case res.Err != nil:
			logger.Debug("Keeping code block unchanged",
				logging.FieldLanguage, reqs[i].Language,
				logging.FieldError, res.Err,
			)
		case strings.TrimSpace(res.Code) == "" && strings.TrimSpace(reqs[i].Code) != "":
			logger.Debug("External formatter returned no code",
				logging.FieldLanguage, reqs[i].Language,
			)
		default:
			out[nodes[i]] = normalizeNewlines(res.Code)
		}
	}
	return out
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// formatter holds the state of one formatting run.
type formatter struct {
	ctx context.Context
	cfg *config.Config
	ext *config.Extensions
	p   printer

	// formatted maps code blocks to the output of their external formatter.
	formatted map[*syntax.Node]string

	// lists records how each printed list was numbered, so that the next
	// sibling list can be told apart.
	lists map[*syntax.Node]listStyle
}
