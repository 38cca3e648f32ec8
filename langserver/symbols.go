package langserver

import (
	"github.com/etude-lang/etude-ls/extractor"
	"github.com/etude-lang/etude-ls/index"
	"github.com/etude-lang/etude-ls/protocol"
)

func (s *Server) handleDocumentSymbol(_ *Context, p *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()
	return toWireSymbols(entry.Symbols()), nil
}

func toWireSymbols(in []extractor.DocumentSymbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, len(in))
	for i, sym := range in {
		out[i] = protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           sym.Kind,
			Range:          sym.Range,
			SelectionRange: sym.SelectionRange,
			Children:       toWireSymbols(sym.Children),
		}
	}
	return out
}

// handleDefinition finds the usage covering the requested position and
// reports its declaration site as a LocationLink. A miss -- no usage at
// that position, or a usage that failed to resolve -- is an empty
// result, never an error.
func (s *Server) handleDefinition(_ *Context, p *protocol.DefinitionParams) ([]protocol.LocationLink, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	usage := entry.Lookup(p.Position)
	if usage == nil || usage.DeclaredAt == nil {
		return nil, nil
	}

	return []protocol.LocationLink{{
		OriginSelectionRange: rangePtr(usage.Range),
		TargetURI:            moduleURI(usage.DeclaredAt.ModulePath),
		TargetRange:          usage.DeclaredAt.DefPosition,
		TargetSelectionRange: usage.DeclaredAt.DefPosition,
	}}, nil
}

// handleDocumentHighlight reports every usage in the file that resolves
// to the same declaration site as the usage under the cursor, plus the
// declaration's own occurrence when it lives in this file -- letting an
// editor highlight every mention of a symbol at once.
func (s *Server) handleDocumentHighlight(_ *Context, p *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	usage := entry.Lookup(p.Position)
	if usage == nil || usage.DeclaredAt == nil {
		return nil, nil
	}
	target := *usage.DeclaredAt

	var out []protocol.DocumentHighlight
	sawDeclSite := false
	for _, u := range entry.Usages() {
		if u.DeclaredAt == nil || *u.DeclaredAt != target {
			continue
		}
		out = append(out, protocol.DocumentHighlight{Range: u.Range})
		if u.Range == target.DeclPosition {
			sawDeclSite = true
		}
	}
	if target.ModulePath == entry.ModulePath && !sawDeclSite {
		out = append(out, protocol.DocumentHighlight{Range: target.DeclPosition})
	}
	return out, nil
}

// handleHover reports the resolved type, when available, of the symbol
// under the cursor. The reference front end does not implement type
// solving (see compiler/reference.Driver.Types), so hover degrades to
// reporting "(unknown type)" rather than an error -- a nil Hover with no error is returned when no usage resolves
// at the position, consistent with how every other lookup-miss here is
// treated as an empty result rather than a failure.
func (s *Server) handleHover(_ *Context, p *protocol.HoverParams) (*protocol.Hover, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	usage := entry.Lookup(p.Position)
	if usage == nil {
		return nil, nil
	}

	text := usage.TypeName
	if text == "" {
		text = "(unknown type)"
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: text},
		Range:    rangePtr(usage.Range),
	}, nil
}

// handlePrepareRename reports the identifier range that would be renamed,
// or no result (not an error) when the position names something rename
// does not support -- currently, anything that resolves outside this
// file, since cross-module rename is not implemented.
func (s *Server) handlePrepareRename(_ *Context, p *protocol.PrepareRenameParams) (*protocol.PrepareRenameResult, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	usage := entry.Lookup(p.Position)
	if usage == nil || usage.DeclaredAt == nil {
		return nil, nil
	}
	if usage.DeclaredAt.ModulePath != entry.ModulePath {
		return nil, nil // UnsupportedRename: cross-module
	}

	return &protocol.PrepareRenameResult{
		Range:       usage.Range,
		Placeholder: textAt(entry, usage.Range),
	}, nil
}

// textAt slices the entry's current buffer content between a range's
// start and end offsets. Returns "" if the range no longer resolves
// against the buffer (a stale usage from just before a recompile).
func textAt(entry *index.FileEntry, r protocol.Range) string {
	start, ok := entry.Buffer.OffsetAt(r.Start)
	if !ok {
		return ""
	}
	end, ok := entry.Buffer.OffsetAt(r.End)
	if !ok || end < start {
		return ""
	}
	return string(entry.Buffer.Bytes()[start:end])
}

// handleRename renames every occurrence of the symbol under the cursor
// within this file. Cross-module rename is not supported: a usage
// resolving to another module produces an empty WorkspaceEdit, not an
// error.
func (s *Server) handleRename(_ *Context, p *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	usage := entry.Lookup(p.Position)
	if usage == nil || usage.DeclaredAt == nil || usage.DeclaredAt.ModulePath != entry.ModulePath {
		return &protocol.WorkspaceEdit{}, nil
	}
	target := *usage.DeclaredAt

	var edits []protocol.TextEdit
	sawDeclSite := false
	for _, u := range entry.Usages() {
		if u.DeclaredAt == nil || *u.DeclaredAt != target {
			continue
		}
		edits = append(edits, protocol.TextEdit{Range: u.Range, NewText: p.NewName})
		if u.Range == target.DeclPosition {
			sawDeclSite = true
		}
	}
	if !sawDeclSite {
		edits = append(edits, protocol.TextEdit{Range: target.DeclPosition, NewText: p.NewName})
	}

	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			p.TextDocument.URI: edits,
		},
	}, nil
}

// handleDocumentLink reports one link per usage that resolves to another
// module, so an editor can ctrl-click through to the declaring file even
// before a full cross-module definition jump is implemented.
func (s *Server) handleDocumentLink(_ *Context, p *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	entry := s.cache.Get(p.TextDocument.URI)
	if entry == nil {
		return nil, nil
	}
	entry.RecompileOnLookup()

	var out []protocol.DocumentLink
	for _, u := range entry.Usages() {
		if u.DeclaredAt == nil || u.DeclaredAt.ModulePath == entry.ModulePath {
			continue
		}
		target := moduleURI(u.DeclaredAt.ModulePath)
		out = append(out, protocol.DocumentLink{Range: u.Range, Target: &target})
	}
	return out, nil
}

func rangePtr(r protocol.Range) *protocol.Range { return &r }

func moduleURI(modulePath string) protocol.DocumentURI {
	return protocol.DocumentURI("file://" + modulePath + ".etude")
}

