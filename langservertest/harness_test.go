package langservertest_test

import (
	"testing"
	"time"

	"github.com/etude-lang/etude-ls/compiler/reference"
	"github.com/etude-lang/etude-ls/langserver"
	"github.com/etude-lang/etude-ls/langservertest"
	"github.com/etude-lang/etude-ls/protocol"
)

const source = `fn add(a, b) {
	return a + b;
}

fn main() {
	let total = add(1, 2);
	return total;
}
`

func newServer() *langserver.Server {
	return langserver.NewServer("etude-ls-e2e", "0.0.0", reference.New)
}

func TestEndToEndDocumentSymbolAfterOpen(t *testing.T) {
	c := langservertest.NewClient(t, newServer())
	c.Open("file:///work/hello.etude", source)

	syms, err := c.DocumentSymbol("file:///work/hello.etude")
	if err != nil {
		t.Fatalf("documentSymbol failed: %v", err)
	}
	if len(syms) == 0 {
		t.Fatal("expected at least one symbol")
	}
}

func TestEndToEndDefinitionFollowsLocalVariable(t *testing.T) {
	c := langservertest.NewClient(t, newServer())
	c.Open("file:///work/hello.etude", source)

	links, err := c.Definition("file:///work/hello.etude", protocol.Position{Line: 6, Character: 9})
	if err != nil {
		t.Fatalf("definition failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 definition link, got %d", len(links))
	}
}

func TestEndToEndDiagnosticsPublishedOnSyntaxError(t *testing.T) {
	c := langservertest.NewClient(t, newServer())
	c.Open("file:///work/broken.etude", "fn broken( {")

	diags := c.WaitForDiagnostics("file:///work/broken.etude", 2*time.Second)
	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic for malformed source")
	}
}

func TestEndToEndRenamePropagatesEdits(t *testing.T) {
	c := langservertest.NewClient(t, newServer())
	c.Open("file:///work/hello.etude", source)

	edit, err := c.Rename("file:///work/hello.etude", protocol.Position{Line: 6, Character: 9}, "sum")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	edits := edit.Changes["file:///work/hello.etude"]
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
}

func TestEndToEndChangeInvalidatesStaleDefinition(t *testing.T) {
	c := langservertest.NewClient(t, newServer())
	c.Open("file:///work/hello.etude", source)

	// Replace the whole file with something that no longer declares
	// "total" at all -- the definition lookup at the old position must
	// not report a stale result.
	c.Change("file:///work/hello.etude", 2, "fn main() {\n\treturn 1;\n}\n")

	links, err := c.Definition("file:///work/hello.etude", protocol.Position{Line: 6, Character: 9})
	if err != nil {
		t.Fatalf("definition failed: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no definition after content replaced, got %+v", links)
	}
}
