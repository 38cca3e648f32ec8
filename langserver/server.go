// Package langserver implements the etude language server: JSON-RPC
// request dispatch, the LSP lifecycle, and the handlers that translate
// each supported request into an index.FileCache lookup. It answers a
// fixed set of requests rather than consulting a dynamic registry.
package langserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/config"
	"github.com/etude-lang/etude-ls/index"
	"github.com/etude-lang/etude-ls/jsonrpc"
	mw "github.com/etude-lang/etude-ls/middleware"
	"github.com/etude-lang/etude-ls/protocol"
)

// Server is the central type of the etude language server: it owns the
// live file cache and dispatches incoming LSP messages to the fixed set
// of handlers below.
type Server struct {
	name    string
	version string
	logger  *slog.Logger

	conn   *jsonrpc.Conn
	client *ClientProxy

	cache *index.FileCache

	middlewares []mw.Middleware

	workspaceRoot protocol.DocumentURI
	clientCaps    protocol.ClientCapabilities

	configStore   *config.Store[Config]
	configBridge  *config.WorkspaceBridge[Config]
	configWatcher *config.Watcher

	// initialized and shutdownReq mirror the original C++ server's
	// atomic<bool> pair exactly: the dispatch loop consults them without
	// any additional locking, and exit checks shutdownReq so the
	// process can shut down once the client's exit notification
	// arrives.
	initialized atomic.Bool
	shutdownReq atomic.Bool
}

// NewServer creates a new etude-ls server. newDriver constructs a fresh
// compiler.Driver per compile; production wiring passes a driver backed
// by the real etude front end if one becomes available, tests pass
// compiler/reference.New.
func NewServer(name, version string, newDriver compiler.NewDriverFunc, opts ...Option) *Server {
	s := &Server{
		name:    name,
		version: version,
		logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
		cache:   index.NewFileCache(newDriver),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Cache returns the server's file cache.
func (s *Server) Cache() *index.FileCache { return s.cache }

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger { return s.logger }

// dispatch is the JSON-RPC request entry point.
func (s *Server) dispatch(ctx context.Context, method string, params jsonrpc.RawMessage) (interface{}, error) {
	gctx := newContext(ctx, s)

	switch method {
	case protocol.MethodInitialize:
		return s.handleInitialize(gctx, params)
	case protocol.MethodShutdown:
		return s.handleShutdown(gctx)
	}

	if !s.initialized.Load() {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeServerNotInitialized, Message: "server not initialized"}
	}

	switch method {
	case protocol.MethodHover:
		return unmarshalThen(params, s.handleHover, gctx)
	case protocol.MethodDefinition:
		return unmarshalThen(params, s.handleDefinition, gctx)
	case protocol.MethodDocumentSymbol:
		return unmarshalThen(params, s.handleDocumentSymbol, gctx)
	case protocol.MethodDocumentHighlight:
		return unmarshalThen(params, s.handleDocumentHighlight, gctx)
	case protocol.MethodPrepareRename:
		return unmarshalThen(params, s.handlePrepareRename, gctx)
	case protocol.MethodRename:
		return unmarshalThen(params, s.handleRename, gctx)
	case protocol.MethodDocumentLink:
		return unmarshalThen(params, s.handleDocumentLink, gctx)
	default:
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s", method)}
	}
}

// dispatchNotification is the JSON-RPC notification entry point.
func (s *Server) dispatchNotification(ctx context.Context, method string, params jsonrpc.RawMessage) {
	gctx := newContext(ctx, s)

	switch method {
	case protocol.MethodInitialized:
		s.initialized.Store(true)
		s.logger.Info("client initialized")
		return
	case protocol.MethodExit:
		s.logger.Info("received exit notification")
		if s.conn != nil {
			s.conn.Close()
		}
		if s.shutdownReq.Load() {
			os.Exit(0)
		}
		os.Exit(1)
	case protocol.MethodSetTrace:
		return
	}

	if !s.initialized.Load() {
		return
	}

	switch method {
	case protocol.MethodDidOpen:
		notif(params, gctx, s.handleDidOpen)
	case protocol.MethodDidChange:
		notif(params, gctx, s.handleDidChange)
	case protocol.MethodDidClose:
		notif(params, gctx, s.handleDidClose)
	case protocol.MethodDidSave:
		notif(params, gctx, s.handleDidSave)
	case protocol.MethodDidChangeConfiguration:
		// The client-pushed payload is informational only; the config
		// file on disk is the source of truth, so a
		// didChangeConfiguration notification just re-runs the same
		// bridge a file-system change would trigger.
		if s.configBridge != nil {
			if err := s.configBridge.HandleChange(); err != nil {
				s.logger.Warn("config reload failed, keeping previous config", "error", err)
			}
		}
	}
}

// unmarshalThen decodes params into the handler's parameter type and
// invokes it, converting a decode failure into a standard InvalidParams
// error instead of panicking -- the handler functions below never see
// malformed params.
func unmarshalThen[P any, R any](params jsonrpc.RawMessage, handler func(*Context, *P) (R, error), ctx *Context) (interface{}, error) {
	var p P
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
		}
	}
	return handler(ctx, &p)
}

func notif[P any](params jsonrpc.RawMessage, ctx *Context, handler func(*Context, *P)) {
	var p P
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return
		}
	}
	handler(ctx, &p)
}

func (s *Server) handleInitialize(ctx *Context, params jsonrpc.RawMessage) (interface{}, error) {
	var p protocol.InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
	}

	s.clientCaps = p.Capabilities
	if len(p.WorkspaceFolders) > 0 {
		s.workspaceRoot = p.WorkspaceFolders[0].URI
	} else if p.RootURI != nil {
		s.workspaceRoot = *p.RootURI
	}

	caps := s.buildCapabilities()

	s.logger.Info("server initialized", "name", s.name, "version", s.version, "root", s.workspaceRoot)

	return &protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo:   &protocol.ServerInfo{Name: s.name, Version: s.version},
	}, nil
}

func (s *Server) handleShutdown(_ *Context) (interface{}, error) {
	s.shutdownReq.Store(true)
	s.closeConfig()
	s.logger.Info("server shutting down")
	return nil, nil
}

// modulePathForURI derives the compiler-facing module path from a
// document URI: the file's full path with its extension removed. The
// directory component is kept (unlike the original's bare module name)
// because index's compilation orchestrator chdirs to it before each
// compile, to let the front end's relative-import resolution work
// unmodified.
func modulePathForURI(uri protocol.DocumentURI) string {
	p := uriToPath(string(uri))
	return strings.TrimSuffix(p, path.Ext(p))
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
