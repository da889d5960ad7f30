package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
)

const waitTimeout = 5 * time.Second

type testClient struct {
	conn        *jsonrpc2.Conn
	diagnostics chan lsp.PublishDiagnosticsParams
}

func startServer(t *testing.T, opts Options) *testClient {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverSide, clientSide := net.Pipe()
	go func() { _ = Serve(ctx, serverSide, opts) }()

	c := &testClient{diagnostics: make(chan lsp.PublishDiagnosticsParams, 16)}
	handler := jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
			var p lsp.PublishDiagnosticsParams
			if err := json.Unmarshal(*req.Params, &p); err == nil {
				c.diagnostics <- p
			}
		}
		return nil, nil
	})
	c.conn = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}), handler)
	t.Cleanup(func() { _ = c.conn.Close() })
	return c
}

func (c *testClient) open(t *testing.T, uri lsp.DocumentURI, text string) {
	t.Helper()
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, LanguageID: "markdown", Version: 1, Text: text},
	}))
}

func (c *testClient) nextDiagnostics(t *testing.T) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case p := <-c.diagnostics:
		return p
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for diagnostics")
		return lsp.PublishDiagnosticsParams{}
	}
}

func lintOptions() Options {
	return Options{Engine: lint.NewEngine(rules.NewRegistry())}
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	var loadedRoot string
	opts := lintOptions()
	opts.LoadConfig = func(_ context.Context, root string) (*config.Config, error) {
		loadedRoot = root
		return config.NewConfig(), nil
	}
	c := startServer(t, opts)

	var res lsp.InitializeResult
	require.NoError(t, c.conn.Call(context.Background(), "initialize",
		lsp.InitializeParams{RootURI: "file:///work/project"}, &res))

	assert.True(t, res.Capabilities.DocumentFormattingProvider)
	assert.True(t, res.Capabilities.DocumentSymbolProvider)
	require.NotNil(t, res.Capabilities.TextDocumentSync)
	require.NotNil(t, res.Capabilities.TextDocumentSync.Options)
	assert.Equal(t, lsp.TDSKFull, res.Capabilities.TextDocumentSync.Options.Change)
	assert.Equal(t, "/work/project", loadedRoot)
}

func TestDiagnosticsLifecycle(t *testing.T) {
	t.Parallel()

	c := startServer(t, lintOptions())
	ctx := context.Background()
	uri := lsp.DocumentURI("file:///doc.md")

	c.open(t, uri, "# A\n\n### B\n")
	p := c.nextDiagnostics(t)
	assert.Equal(t, uri, p.URI)
	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	assert.Equal(t, "MDF001", d.Code)
	assert.Equal(t, lsp.DiagnosticSeverity(lsp.Warning), d.Severity)
	assert.Equal(t, "mdfmt", d.Source)
	assert.Equal(t, 2, d.Range.Start.Line)

	require.NoError(t, c.conn.Notify(ctx, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument:   lsp.VersionedTextDocumentIdentifier{TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: uri}, Version: 2},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "# A\n\n## B\n"}},
	}))
	assert.Empty(t, c.nextDiagnostics(t).Diagnostics)

	require.NoError(t, c.conn.Notify(ctx, "textDocument/didClose", lsp.DidCloseTextDocumentParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: uri},
	}))
	assert.Empty(t, c.nextDiagnostics(t).Diagnostics)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	c := startServer(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		uri   lsp.DocumentURI
		text  string
		edits []lsp.TextEdit
	}{
		{
			name: "reformatted",
			uri:  "file:///setext.md",
			text: "Title\n=====\n",
			edits: []lsp.TextEdit{{
				Range:   lsp.Range{End: lsp.Position{Line: 2}},
				NewText: "# Title\n",
			}},
		},
		{
			name:  "already formatted",
			uri:   "file:///clean.md",
			text:  "# Title\n",
			edits: []lsp.TextEdit{},
		},
		{
			name:  "unknown document",
			uri:   "file:///missing.md",
			edits: []lsp.TextEdit{},
		},
	}

	for _, tc := range tests {
		if tc.text != "" {
			c.open(t, tc.uri, tc.text)
		}
		var edits []lsp.TextEdit
		require.NoError(t, c.conn.Call(ctx, "textDocument/formatting", lsp.DocumentFormattingParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: tc.uri},
		}, &edits), tc.name)
		assert.Equal(t, tc.edits, edits, tc.name)
	}
}

func TestDocumentSymbol(t *testing.T) {
	t.Parallel()

	c := startServer(t, Options{})
	uri := lsp.DocumentURI("file:///outline.md")
	c.open(t, uri, "# A\n\n## B\n\n### C\n\n# D\n")

	var symbols []lsp.SymbolInformation
	require.NoError(t, c.conn.Call(context.Background(), "textDocument/documentSymbol", lsp.DocumentSymbolParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: uri},
	}, &symbols))

	type entry struct{ name, container string }
	var got []entry
	for _, s := range symbols {
		got = append(got, entry{s.Name, s.ContainerName})
	}
	assert.Equal(t, []entry{{"A", ""}, {"B", "A"}, {"C", "B"}, {"D", ""}}, got)
	assert.Equal(t, 2, symbols[1].Location.Range.Start.Line)
}

func TestUnknownMethod(t *testing.T) {
	t.Parallel()

	c := startServer(t, Options{})
	err := c.conn.Call(context.Background(), "textDocument/hover", struct{}{}, nil)

	var rpcErr *jsonrpc2.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}

func TestStaleDiagnosticsDropped(t *testing.T) {
	t.Parallel()

	s := newServer(lintOptions())
	uri := lsp.DocumentURI("file:///doc.md")
	ctx := context.Background()

	s.store(uri, "# A\n\n### B\n", 1)
	s.store(uri, "# A\n\n### B\n\n##### C\n", 2)

	_, ok := s.diagnose(ctx, uri, 1)
	assert.False(t, ok)

	diags, ok := s.diagnose(ctx, uri, 2)
	require.True(t, ok)
	assert.Len(t, diags, 2)

	_, ok = s.diagnose(ctx, "file:///closed.md", 1)
	assert.False(t, ok)
}

func TestUTF16Ranges(t *testing.T) {
	t.Parallel()

	diags := toDiagnostics("😀 x\n", []lint.Diagnostic{{StartOffset: len("😀 "), EndOffset: len("😀 x")}})
	require.Len(t, diags, 1)
	assert.Equal(t, lsp.Position{Line: 0, Character: 3}, diags[0].Range.Start)
	assert.Equal(t, lsp.Position{Line: 0, Character: 4}, diags[0].Range.End)
}

func TestURIPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/tmp/a b.md", uriPath("file:///tmp/a%20b.md"))
	assert.Empty(t, uriPath("untitled:Untitled-1"))
}

func TestSeverityMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sev  config.Severity
		want lsp.DiagnosticSeverity
	}{
		{config.SeverityError, lsp.DiagnosticSeverity(lsp.Error)},
		{config.SeverityWarning, lsp.DiagnosticSeverity(lsp.Warning)},
		{config.SeverityInfo, lsp.DiagnosticSeverity(lsp.Information)},
		{"", lsp.DiagnosticSeverity(lsp.Warning)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, lspSeverity(tc.sev), "severity %q", tc.sev)
	}
}
