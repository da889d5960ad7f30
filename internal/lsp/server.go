package lsp

import (
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
)

//nolint:gochecknoglobals // Shared protocol errors.
var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// diagnosticSource names mdfmt in published diagnostics.
const diagnosticSource = "mdfmt"

type document struct {
	text    string
	version int
}

type server struct {
	opts Options

	mu   sync.Mutex
	cfg  *config.Config
	docs map[lsp.DocumentURI]document
}

func newServer(opts Options) *server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &server{opts: opts, cfg: cfg, docs: make(map[lsp.DocumentURI]document)}
}

func (s *server) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":                  s.initialize,
		"shutdown":                    noop,
		"exit":                        s.exit,
		"textDocument/didOpen":        s.didOpen,
		"textDocument/didChange":      s.didChange,
		"textDocument/didClose":       s.didClose,
		"textDocument/formatting":     s.formatting,
		"textDocument/documentSymbol": s.documentSymbol,

		"initialized":                     noop,
		"textDocument/didSave":            noop,
		"workspace/didChangeWatchedFiles": noop,
		"$/cancelRequest":                 noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		logging.FromContext(ctx).Debug("request", logging.FieldMethod, req.Method)
		fn, ok := methods[req.Method]
		if !ok {
			if req.Notif {
				return nil, nil
			}
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func (s *server) initialize(ctx context.Context, _ jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.InitializeParams
	if raw != nil && json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}

	root := uriPath(params.RootURI)
	if root == "" {
		root = params.RootPath
	}
	if root != "" && s.opts.LoadConfig != nil {
		cfg, err := s.opts.LoadConfig(ctx, root)
		if err != nil {
			logging.FromContext(ctx).Warn("load workspace config", logging.FieldPath, root, logging.FieldError, err)
		} else {
			s.mu.Lock()
			s.cfg = cfg
			s.mu.Unlock()
		}
	}

	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			DocumentFormattingProvider: true,
			DocumentSymbolProvider:     true,
		},
	}, nil
}

func (s *server) exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, conn.Close()
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	doc := params.TextDocument
	s.store(doc.URI, doc.Text, doc.Version)
	go s.publish(ctx, conn, doc.URI, doc.Version)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(raw, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// Only full synchronization is advertised, so the last change holds the
	// whole text.
	uri, version := params.TextDocument.URI, params.TextDocument.Version
	s.store(uri, params.ContentChanges[len(params.ContentChanges)-1].Text, version)
	go s.publish(ctx, conn, uri, version)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, raw json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(raw, &params) != nil {
		return nil, errInvalidParams
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
	return nil, conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: []lsp.Diagnostic{}})
}

func (s *server) store(uri lsp.DocumentURI, text string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = document{text: text, version: version}
}

// snapshot returns the current text of uri and the configuration.
func (s *server) snapshot(uri lsp.DocumentURI) (document, *config.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	return doc, s.cfg, ok
}

// current reports whether version is still the latest version of uri.
func (s *server) current(uri lsp.DocumentURI, version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	return ok && doc.version == version
}

// uriPath converts a file URI to a path. Other URIs yield "".
func uriPath(uri lsp.DocumentURI) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}
