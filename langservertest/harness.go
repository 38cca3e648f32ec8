// Package langservertest provides an in-memory client for driving a
// langserver.Server end to end without touching the filesystem or a real
// process boundary.
package langservertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/etude-lang/etude-ls/jsonrpc"
	"github.com/etude-lang/etude-ls/langserver"
	"github.com/etude-lang/etude-ls/protocol"
	"github.com/etude-lang/etude-ls/transport"
)

// Client is a test LSP client that communicates with a langserver.Server
// over an in-memory transport.
type Client struct {
	t    testing.TB
	conn *jsonrpc.Conn
	stop func()

	mu            sync.Mutex
	notifications []notification
}

type notification struct {
	Method string
	Params json.RawMessage
}

// NewClient creates a test client connected to s. The server runs in a
// background goroutine and is stopped automatically when the test
// completes. The client sends initialize/initialized before returning.
func NewClient(t testing.TB, s *langserver.Server) *Client {
	clientTransport, serverTransport := transport.MemoryPipe()

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{t: t, stop: cancel}

	go func() {
		err := langserver.Serve(s, langserver.WithTransport(serverTransport))
		if err != nil && ctx.Err() == nil {
			t.Logf("server error: %v", err)
		}
	}()

	codec := jsonrpc.NewCodec(clientTransport, clientTransport)
	c.conn = jsonrpc.NewConn(codec,
		func(ctx context.Context, method string, params jsonrpc.RawMessage) (interface{}, error) {
			return nil, &jsonrpc.Error{Code: jsonrpc.CodeMethodNotFound, Message: "client does not handle requests"}
		},
		func(ctx context.Context, method string, params jsonrpc.RawMessage) {
			c.mu.Lock()
			c.notifications = append(c.notifications, notification{Method: method, Params: params})
			c.mu.Unlock()
		},
	)
	go c.conn.Run(ctx)

	t.Cleanup(func() {
		cancel()
		c.conn.Close()
		clientTransport.Close()
	})

	c.Initialize()
	return c
}

// Initialize sends the initialize request and initialized notification.
func (c *Client) Initialize() *protocol.InitializeResult {
	c.t.Helper()
	var result protocol.InitializeResult
	c.call(protocol.MethodInitialize, &protocol.InitializeParams{Capabilities: protocol.ClientCapabilities{}}, &result)
	c.notify(protocol.MethodInitialized, &protocol.InitializedParams{})
	return &result
}

// Open sends a textDocument/didOpen notification and gives the server a
// moment to process it before returning.
func (c *Client) Open(uri, text string) {
	c.t.Helper()
	c.notify(protocol.MethodDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: "etude",
			Version:    1,
			Text:       text,
		},
	})
	time.Sleep(10 * time.Millisecond)
}

// Change sends a full-content textDocument/didChange notification.
func (c *Client) Change(uri string, version int32, text string) {
	c.t.Helper()
	c.notify(protocol.MethodDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Version:                version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: text}},
	})
	time.Sleep(10 * time.Millisecond)
}

// ChangeIncremental sends a ranged textDocument/didChange notification.
func (c *Client) ChangeIncremental(uri string, version int32, rng protocol.Range, text string) {
	c.t.Helper()
	c.notify(protocol.MethodDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Version:                version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Range: &rng, Text: text}},
	})
	time.Sleep(10 * time.Millisecond)
}

// Close sends a textDocument/didClose notification.
func (c *Client) Close(uri string) {
	c.t.Helper()
	c.notify(protocol.MethodDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	})
}

// DocumentSymbol sends a textDocument/documentSymbol request.
func (c *Client) DocumentSymbol(uri string) ([]protocol.DocumentSymbol, error) {
	c.t.Helper()
	var result []protocol.DocumentSymbol
	err := c.callErr(protocol.MethodDocumentSymbol, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &result)
	return result, err
}

// Definition sends a textDocument/definition request.
func (c *Client) Definition(uri string, pos protocol.Position) ([]protocol.LocationLink, error) {
	c.t.Helper()
	var result []protocol.LocationLink
	err := c.callErr(protocol.MethodDefinition, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Position:     pos,
		},
	}, &result)
	return result, err
}

// Hover sends a textDocument/hover request.
func (c *Client) Hover(uri string, pos protocol.Position) (*protocol.Hover, error) {
	c.t.Helper()
	var result protocol.Hover
	err := c.callErr(protocol.MethodHover, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Position:     pos,
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DocumentHighlight sends a textDocument/documentHighlight request.
func (c *Client) DocumentHighlight(uri string, pos protocol.Position) ([]protocol.DocumentHighlight, error) {
	c.t.Helper()
	var result []protocol.DocumentHighlight
	err := c.callErr(protocol.MethodDocumentHighlight, &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Position:     pos,
		},
	}, &result)
	return result, err
}

// PrepareRename sends a textDocument/prepareRename request.
func (c *Client) PrepareRename(uri string, pos protocol.Position) (*protocol.PrepareRenameResult, error) {
	c.t.Helper()
	var result protocol.PrepareRenameResult
	err := c.callErr(protocol.MethodPrepareRename, &protocol.PrepareRenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Position:     pos,
		},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Rename sends a textDocument/rename request.
func (c *Client) Rename(uri string, pos protocol.Position, newName string) (*protocol.WorkspaceEdit, error) {
	c.t.Helper()
	var result protocol.WorkspaceEdit
	err := c.callErr(protocol.MethodRename, &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
			Position:     pos,
		},
		NewName: newName,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DocumentLink sends a textDocument/documentLink request.
func (c *Client) DocumentLink(uri string) ([]protocol.DocumentLink, error) {
	c.t.Helper()
	var result []protocol.DocumentLink
	err := c.callErr(protocol.MethodDocumentLink, &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}, &result)
	return result, err
}

// Diagnostics returns every publishDiagnostics notification received so far.
func (c *Client) Diagnostics() []protocol.PublishDiagnosticsParams {
	c.t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []protocol.PublishDiagnosticsParams
	for _, n := range c.notifications {
		if n.Method == protocol.MethodPublishDiagnostics {
			var p protocol.PublishDiagnosticsParams
			if json.Unmarshal(n.Params, &p) == nil {
				out = append(out, p)
			}
		}
	}
	return out
}

// WaitForDiagnostics polls until at least one publishDiagnostics
// notification has arrived for uri, or fails the test after timeout.
func (c *Client) WaitForDiagnostics(uri string, timeout time.Duration) []protocol.Diagnostic {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if diags, ok := c.latestDiagnostics(uri); ok {
			return diags
		}
		time.Sleep(10 * time.Millisecond)
	}
	c.t.Fatalf("timed out waiting for diagnostics on %s", uri)
	return nil
}

func (c *Client) latestDiagnostics(uri string) ([]protocol.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.notifications) - 1; i >= 0; i-- {
		n := c.notifications[i]
		if n.Method != protocol.MethodPublishDiagnostics {
			continue
		}
		var p protocol.PublishDiagnosticsParams
		if json.Unmarshal(n.Params, &p) == nil && string(p.URI) == uri {
			return p.Diagnostics, true
		}
	}
	return nil, false
}

// Shutdown sends the shutdown request. It sends no exit notification.
func (c *Client) Shutdown() {
	c.t.Helper()
	c.call(protocol.MethodShutdown, nil, nil)
}

func (c *Client) call(method string, params, result interface{}) {
	c.t.Helper()
	if err := c.callErr(method, params, result); err != nil {
		c.t.Fatalf("call %s failed: %v", method, err)
	}
}

func (c *Client) callErr(method string, params, result interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := c.conn.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result != nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("unmarshalling result: %w", err)
		}
	}
	return nil
}

func (c *Client) notify(method string, params interface{}) {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.conn.Notify(ctx, method, params); err != nil {
		c.t.Fatalf("notify %s failed: %v", method, err)
	}
}
