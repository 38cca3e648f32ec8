// Package jsonrpc implements a bidirectional JSON-RPC 2.0 connection over
// Content-Length framed streams, the base protocol LSP messages ride on.
package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler processes an incoming JSON-RPC request or notification.
type Handler func(ctx context.Context, method string, params RawMessage) (result interface{}, err error)

// NotificationHandler processes an incoming JSON-RPC notification.
type NotificationHandler func(ctx context.Context, method string, params RawMessage)

// Conn is a bidirectional JSON-RPC 2.0 connection: it dispatches
// inbound requests/notifications to a Handler/NotificationHandler pair
// and correlates inbound responses with outstanding Call invocations.
type Conn struct {
	codec   *Codec
	handler Handler
	notify  NotificationHandler
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]chan *Response
	nextID    atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

// NewConn creates a connection over codec. Either handler or notify may
// be relied on for notifications: if notify is nil, notifications fall
// back to handler with their result discarded, matching a caller that
// only implements one dispatch path.
func NewConn(codec *Codec, handler Handler, notify NotificationHandler) *Conn {
	return &Conn{
		codec:   codec,
		handler: handler,
		notify:  notify,
		logger:  slog.Default(),
		pending: make(map[string]chan *Response),
		done:    make(chan struct{}),
	}
}

// SetLogger overrides the connection's logger, used for otherwise
// silent conditions like an undecodable inbound frame or a response
// naming an ID nothing is waiting on.
func (c *Conn) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Run reads and dispatches messages until ctx is cancelled, Close is
// called, or the underlying stream errors.
func (c *Conn) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		default:
		}

		data, err := c.codec.Read()
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
				return fmt.Errorf("reading message: %w", err)
			}
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			c.logger.Warn("dropping undecodable jsonrpc frame", "error", err)
			continue
		}

		// Requests and notifications are handled one at a time, in arrival
		// order: each handler runs to completion before the next message
		// is read.
		switch m := msg.(type) {
		case *Request:
			c.handleRequest(ctx, m)
		case *Notification:
			c.handleNotification(ctx, m)
		case *Response:
			c.handleResponse(m)
		}
	}
}

func (c *Conn) handleRequest(ctx context.Context, req *Request) {
	result, err := c.handler(ctx, req.Method, req.Params)
	resp := NewResponse(req.ID, result, err)
	data, merr := json.Marshal(resp)
	if merr != nil {
		c.logger.Error("failed to marshal response", "method", req.Method, "error", merr)
		return
	}
	if err := c.codec.Write(data); err != nil {
		c.logger.Error("failed to write response", "method", req.Method, "error", err)
	}
}

func (c *Conn) handleNotification(ctx context.Context, notif *Notification) {
	if c.notify != nil {
		c.notify(ctx, notif.Method, notif.Params)
		return
	}
	if c.handler != nil {
		_, _ = c.handler(ctx, notif.Method, notif.Params)
	}
}

func (c *Conn) handleResponse(resp *Response) {
	key := formatID(resp.ID)
	c.pendingMu.Lock()
	ch, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.pendingMu.Unlock()

	if !ok {
		c.logger.Warn("response for unknown or expired request id", "id", key)
		return
	}
	ch <- resp
}

// Call sends a request and blocks for its matching response, ctx
// cancellation, or connection close, whichever comes first.
func (c *Conn) Call(ctx context.Context, method string, params interface{}) (*Response, error) {
	id := IntID(c.nextID.Add(1))
	paramsData, err := marshalParams(params)
	if err != nil {
		return nil, err
	}

	req := &Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	key := formatID(id)
	ch := make(chan *Response, 1)
	c.pendingMu.Lock()
	c.pending[key] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, key)
		c.pendingMu.Unlock()
	}()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := c.codec.Write(data); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	}
}

// Notify sends a fire-and-forget notification.
func (c *Conn) Notify(ctx context.Context, method string, params interface{}) error {
	paramsData, err := marshalParams(params)
	if err != nil {
		return err
	}

	notif := &Notification{
		JSONRPC: Version,
		Method:  method,
		Params:  paramsData,
	}

	data, err := json.Marshal(notif)
	if err != nil {
		return err
	}
	return c.codec.Write(data)
}

// Close terminates the connection, waking any blocked Run or Call.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func marshalParams(v interface{}) (RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func formatID(id ID) string {
	switch v := id.Value().(type) {
	case int64:
		return fmt.Sprintf("n:%d", v)
	case string:
		return fmt.Sprintf("s:%s", v)
	default:
		return "null"
	}
}
