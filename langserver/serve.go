package langserver

import (
	"context"
	"fmt"

	"github.com/etude-lang/etude-ls/jsonrpc"
	mw "github.com/etude-lang/etude-ls/middleware"
	"github.com/etude-lang/etude-ls/transport"
)

// Serve starts the language server using the given transport options. If
// no ServeOption is provided, stdio is used by default.
func Serve(s *Server, opts ...ServeOption) error {
	cfg := &serveConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.transport == nil {
		cfg.transport = transport.Stdio()
	}

	codec := jsonrpc.NewCodec(cfg.transport, cfg.transport)

	handler := jsonrpc.Handler(s.dispatch)
	notifHandler := s.dispatchNotification
	if len(s.middlewares) > 0 {
		chain := mw.Chain(s.middlewares...)
		wrappedHandler := chain(mw.Handler(handler))
		handler = jsonrpc.Handler(wrappedHandler)

		notifInner := mw.Handler(func(ctx context.Context, method string, params jsonrpc.RawMessage) (interface{}, error) {
			s.dispatchNotification(ctx, method, params)
			return nil, nil
		})
		wrappedNotif := chain(notifInner)
		notifHandler = func(ctx context.Context, method string, params jsonrpc.RawMessage) {
			wrappedNotif(ctx, method, params)
		}
	}

	conn := jsonrpc.NewConn(codec, handler, notifHandler)
	conn.SetLogger(s.logger)
	s.conn = conn
	s.client = newClientProxy(conn)

	s.logger.Info("etude-ls starting", "name", s.name, "version", s.version)

	ctx := context.Background()
	if err := conn.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
