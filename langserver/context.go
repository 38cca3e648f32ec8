package langserver

import (
	"context"
	"log/slog"

	"github.com/etude-lang/etude-ls/protocol"
)

// Context wraps context.Context with convenient accessors for LSP
// services, handed to every request handler in place of a bare
// context.Context.
type Context struct {
	context.Context

	Client *ClientProxy
	server *Server
}

func newContext(ctx context.Context, s *Server) *Context {
	return &Context{
		Context: ctx,
		Client:  s.client,
		server:  s,
	}
}

// Server returns the underlying Server, providing full access to internals.
func (c *Context) Server() *Server { return c.server }

// Logger returns the server's logger.
func (c *Context) Logger() *slog.Logger { return c.server.logger }

// WorkspaceRoot returns the workspace root URI from InitializeParams, or
// empty if the client did not send one.
func (c *Context) WorkspaceRoot() protocol.DocumentURI {
	return c.server.workspaceRoot
}
