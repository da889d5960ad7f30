// Package lsp implements a language server that formats Markdown documents
// and publishes lint diagnostics while they are edited.
package lsp

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
)

// Options configures a server.
type Options struct {
	// Config is used until the client names a workspace root.
	Config *config.Config

	// LoadConfig resolves the configuration for a workspace root. When nil,
	// Config is used for every workspace.
	LoadConfig func(ctx context.Context, root string) (*config.Config, error)

	// Engine lints documents. Nil disables diagnostics.
	Engine *lint.Engine
}

// Serve runs the server over stream until the client disconnects or ctx is
// cancelled.
func Serve(ctx context.Context, stream io.ReadWriteCloser, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newServer(opts)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(stream, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
	logging.FromContext(ctx).Debug("language server started")

	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		_ = conn.Close()
	}
	return nil
}

// Stdio returns a stream over the process's standard input and output.
func Stdio() io.ReadWriteCloser {
	return transport{os.Stdin, os.Stdout}
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		_ = c.out.Close()
		return err
	}
	return c.out.Close()
}
