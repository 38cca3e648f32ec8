package langserver

import (
	"context"

	"github.com/etude-lang/etude-ls/protocol"
)

func (s *Server) handleDidOpen(ctx *Context, p *protocol.DidOpenTextDocumentParams) {
	uri := p.TextDocument.URI
	modulePath := modulePathForURI(uri)
	entry := s.cache.Open(uri, modulePath, p.TextDocument.Text)
	s.publishDiagnostics(ctx, uri, entry.Diagnostics())
}

func (s *Server) handleDidChange(ctx *Context, p *protocol.DidChangeTextDocumentParams) {
	uri := p.TextDocument.URI
	entry := s.cache.Get(uri)
	if entry == nil {
		return
	}

	// Apply and invalidate one change at a time: a later change's range
	// is expressed in the coordinate space left by the earlier ones, so
	// each change must be applied to the buffer before the table is
	// invalidated against it. Invalidation runs from the change's end
	// position, since that is the last point in the file the edit could
	// have touched.
	for _, change := range p.ContentChanges {
		if change.Range != nil {
			entry.Buffer.Update(*change.Range, change.Text)
			entry.InvalidateAfterPosition(change.Range.End)
		} else {
			entry.Buffer.SetFullContent(change.Text)
		}
	}
	entry.Recompile()
	s.cache.MarkAllDirtyExcept(uri)

	s.publishDiagnostics(ctx, uri, entry.Diagnostics())
}

func (s *Server) handleDidClose(_ *Context, p *protocol.DidCloseTextDocumentParams) {
	s.cache.Close(p.TextDocument.URI)
}

func (s *Server) handleDidSave(_ *Context, _ *protocol.DidSaveTextDocumentParams) {
	// Diagnostics are already kept current on every change; a save
	// triggers no additional work.
}

func (s *Server) publishDiagnostics(ctx *Context, uri protocol.DocumentURI, diags []protocol.Diagnostic) {
	if ctx.Client == nil {
		return
	}
	if max := s.CurrentConfig().MaxDiagnosticsPerFile; max > 0 && len(diags) > max {
		diags = diags[:max]
	}
	background := context.Background()
	_ = ctx.Client.PublishDiagnostics(background, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}
