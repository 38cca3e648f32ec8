// Package transport provides the byte-stream abstraction jsonrpc.Codec
// frames messages over. etude-ls ships two: Stdio, for the normal
// editor-spawned-subprocess case, and MemoryPipe, for driving a Server
// in-process from tests without forking anything.
package transport

import "io"

// Transport is a bidirectional byte stream. jsonrpc.NewCodec takes one
// directly as both its reader and writer half.
type Transport interface {
	io.ReadWriteCloser
}

// Func produces a Transport on demand, for callers that want to defer
// construction (e.g. until after flag parsing decides which one to use).
type Func func() (Transport, error)
