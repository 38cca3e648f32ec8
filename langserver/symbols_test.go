package langserver

import (
	"context"
	"testing"

	"github.com/etude-lang/etude-ls/compiler/reference"
	"github.com/etude-lang/etude-ls/protocol"
)

func newTestServer() *Server {
	return NewServer("etude-ls-test", "0.0.0", reference.New)
}

func openSample(t *testing.T, s *Server, uri protocol.DocumentURI, text string) {
	t.Helper()
	s.cache.Open(uri, modulePathForURI(uri), text)
}

const helloSource = `fn add(a, b) {
	return a + b;
}

fn main() {
	let total = add(1, 2);
	return total;
}
`

func TestHandleDocumentSymbolReturnsTopLevelFunctions(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	syms, err := s.handleDocumentSymbol(newContext(context.Background(), s), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The extractor reports a flat, source-order symbol list (function
	// symbols alongside the local variable declarations nested inside
	// them; see extractor/visitor.go) rather than a nested outline, so
	// "add" and "main" both appear, plus "total" (main's local let).
	if len(syms) != 3 {
		t.Fatalf("expected 3 symbols, got %d: %+v", len(syms), syms)
	}
	names := []string{syms[0].Name, syms[1].Name, syms[2].Name}
	if names[0] != "add" || names[1] != "main" || names[2] != "total" {
		t.Fatalf("unexpected symbol names/order: %+v", names)
	}
}

func TestHandleDocumentSymbolMissingFileReturnsNil(t *testing.T) {
	s := newTestServer()
	syms, err := s.handleDocumentSymbol(newContext(context.Background(), s), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/missing.etude"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if syms != nil {
		t.Fatalf("expected nil result for unopened file, got %+v", syms)
	}
}

func TestHandleDefinitionResolvesLocalVariable(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	// "total" used inside the return statement, line 6 (0-indexed).
	links, err := s.handleDefinition(newContext(context.Background(), s), &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 6, Character: 9},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 definition link, got %d", len(links))
	}
	if links[0].TargetURI != uri {
		t.Fatalf("expected same-file target, got %s", links[0].TargetURI)
	}
}

func TestHandleDefinitionMissReturnsEmptyNotError(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	links, err := s.handleDefinition(newContext(context.Background(), s), &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if links != nil {
		t.Fatalf("expected nil result on lookup miss, got %+v", links)
	}
}

func TestHandleRenameProducesEditsForEveryOccurrence(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	we, err := s.handleRename(newContext(context.Background(), s), &protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 6, Character: 9},
		},
		NewName: "sum",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edits := we.Changes[uri]
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits (decl + one use), got %d: %+v", len(edits), edits)
	}
	for _, e := range edits {
		if e.NewText != "sum" {
			t.Fatalf("unexpected edit text: %+v", e)
		}
	}
}

func TestHandlePrepareRenameRejectsUnresolvedPosition(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	res, err := s.handlePrepareRename(newContext(context.Background(), s), &protocol.PrepareRenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
}

func TestHandleDocumentHighlightIncludesDeclarationSite(t *testing.T) {
	s := newTestServer()
	uri := protocol.DocumentURI("file:///work/hello.etude")
	openSample(t, s, uri, helloSource)

	hl, err := s.handleDocumentHighlight(newContext(context.Background(), s), &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 6, Character: 9},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hl) != 2 {
		t.Fatalf("expected declaration plus one use, got %d: %+v", len(hl), hl)
	}
}
