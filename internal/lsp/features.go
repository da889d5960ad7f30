package lsp

import (
	"context"
	"encoding/json"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/ast"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/format"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/parser"
	"github.com/yaklabco/mdfmt/pkg/syntax"
)

// publish lints version of uri and sends the diagnostics unless a newer
// version arrived in the meantime.
func (s *server) publish(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, version int) {
	diags, ok := s.diagnose(ctx, uri, version)
	if !ok {
		return
	}
	if err := conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags}); err != nil {
		logging.FromContext(ctx).Debug("publish diagnostics", logging.FieldURI, uri, logging.FieldError, err)
	}
}

// diagnose lints version of uri. It returns false when the result is stale.
func (s *server) diagnose(ctx context.Context, uri lsp.DocumentURI, version int) ([]lsp.Diagnostic, bool) {
	doc, cfg, ok := s.snapshot(uri)
	if !ok || doc.version != version {
		return nil, false
	}
	diags := []lsp.Diagnostic{}
	if s.opts.Engine != nil {
		res, err := s.opts.Engine.Lint(ctx, uriPath(uri), doc.text, cfg)
		if err != nil {
			logging.FromContext(ctx).Warn("lint failed", logging.FieldURI, uri, logging.FieldError, err)
		} else {
			diags = toDiagnostics(doc.text, res.Diagnostics)
		}
	}
	if !s.current(uri, version) {
		logging.FromContext(ctx).Debug("dropping stale diagnostics",
			logging.FieldURI, uri, logging.FieldDocVersion, version)
		return nil, false
	}
	return diags, true
}

func toDiagnostics(text string, diags []lint.Diagnostic) []lsp.Diagnostic {
	lines := syntax.NewLineIndex(text)
	out := make([]lsp.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = lsp.Diagnostic{
			Range:    lspRange(lines, syntax.Range{Start: d.StartOffset, End: d.EndOffset}),
			Severity: lspSeverity(d.Severity),
			Code:     d.RuleID,
			Source:   diagnosticSource,
			Message:  d.Message,
		}
	}
	return out
}

func lspSeverity(sev config.Severity) lsp.DiagnosticSeverity {
	switch sev {
	case config.SeverityError:
		return lsp.Error
	case config.SeverityInfo:
		return lsp.Information
	default:
		return lsp.Warning
	}
}

// formatting replaces the whole document when formatting changes it.
func (s *server) formatting(ctx context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.DocumentFormattingParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	doc, cfg, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return []lsp.TextEdit{}, nil
	}

	formatted := format.Format(ctx, doc.text, cfg)
	if formatted == doc.text {
		return []lsp.TextEdit{}, nil
	}
	lines := syntax.NewLineIndex(doc.text)
	return []lsp.TextEdit{{
		Range:   lspRange(lines, syntax.Range{Start: 0, End: len(doc.text)}),
		NewText: formatted,
	}}, nil
}

// documentSymbol lists headings. Each heading's container is the nearest
// heading of a lower level before it.
func (s *server) documentSymbol(_ context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.DocumentSymbolParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	doc, cfg, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return []lsp.SymbolInformation{}, nil
	}
	return headingSymbols(params.TextDocument.URI, doc.text, cfg), nil
}

func headingSymbols(uri lsp.DocumentURI, text string, cfg *config.Config) []lsp.SymbolInformation {
	root, _ := ast.AsDocument(parser.Parse(text, cfg))
	lines := syntax.NewLineIndex(text)

	type open struct {
		level int
		name  string
	}
	var stack []open
	symbols := []lsp.SymbolInformation{}
	for _, h := range root.Headings() {
		name := h.Text()
		if name == "" {
			name = "(empty)"
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level() {
			stack = stack[:len(stack)-1]
		}
		var container string
		if len(stack) > 0 {
			container = stack[len(stack)-1].name
		}
		symbols = append(symbols, lsp.SymbolInformation{
			Name:          name,
			Kind:          lsp.SKString,
			Location:      lsp.Location{URI: uri, Range: lspRange(lines, h.Node().Range())},
			ContainerName: container,
		})
		stack = append(stack, open{h.Level(), name})
	}
	return symbols
}

func lspRange(lines *syntax.LineIndex, r syntax.Range) lsp.Range {
	return lsp.Range{Start: lspPosition(lines, r.Start), End: lspPosition(lines, r.End)}
}

func lspPosition(lines *syntax.LineIndex, offset int) lsp.Position {
	line, col := lines.UTF16Position(offset)
	return lsp.Position{Line: line, Character: col}
}
