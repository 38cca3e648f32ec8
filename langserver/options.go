package langserver

import (
	"log/slog"

	"github.com/etude-lang/etude-ls/middleware"
	"github.com/etude-lang/etude-ls/transport"
)

// Option configures a Server during construction.
type Option func(*Server)

// ServeOption configures how the server is served.
type ServeOption func(*serveConfig)

type serveConfig struct {
	transport transport.Transport
}

// WithStdio configures the server to communicate over stdin/stdout. This
// is the only transport etude-ls's CLI offers a client; WithTransport
// exists separately so tests can substitute transport.MemoryPipe.
func WithStdio() ServeOption {
	return func(cfg *serveConfig) {
		cfg.transport = transport.Stdio()
	}
}

// WithTransport configures the server to use a specific transport, e.g.
// transport.MemoryPipe() in an end-to-end test harness.
func WithTransport(t transport.Transport) ServeOption {
	return func(cfg *serveConfig) {
		cfg.transport = t
	}
}

// WithLogger sets a custom slog logger on the server.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMiddleware adds middleware to the server's dispatch chain.
// Middleware is applied in order: the first middleware is outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mws...)
	}
}
