package index

import (
	"testing"

	"github.com/etude-lang/etude-ls/compiler/reference"
	"github.com/etude-lang/etude-ls/protocol"
)

const sampleSource = `
fn add(a, b) {
	let total = a
	return total
}
`

func TestNewFileEntryCompilesImmediately(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)
	if len(e.Symbols()) == 0 {
		t.Fatal("expected symbols to be populated on creation")
	}
	if len(e.Diagnostics()) != 0 {
		t.Fatalf("Diagnostics = %v, want none", e.Diagnostics())
	}
}

func TestFileEntryFailedRecompileRetainsOldTable(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)
	originalSymbols := len(e.Symbols())

	// Overwrite with unparseable content and recompile.
	e.Buffer.SetContent("fn broken( {")
	e.Recompile()

	if len(e.Symbols()) != originalSymbols {
		t.Errorf("Symbols() = %d after failed recompile, want unchanged %d", len(e.Symbols()), originalSymbols)
	}
	if len(e.Diagnostics()) == 0 {
		t.Error("expected a diagnostic after a failed recompile")
	}
}

func TestFileEntryLookupEndInclusive(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)

	var hit bool
	for _, u := range e.Usages() {
		pos := u.Range.End // lookup treats the end position as inclusive
		found := e.Lookup(pos)
		if found != nil {
			hit = true
		}
	}
	if !hit {
		t.Fatal("expected at least one usage to be found by its own end position")
	}
}

func TestFileEntryLookupMissReturnsNil(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)
	if got := e.Lookup(protocol.Position{Line: 999, Character: 0}); got != nil {
		t.Errorf("Lookup(out-of-range) = %+v, want nil", got)
	}
}

func TestInvalidateAfterPositionDropsLaterEntries(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)
	before := len(e.Usages())
	if before == 0 {
		t.Fatal("expected usages in the sample source")
	}

	e.InvalidateAfterPosition(protocol.Position{Line: 0, Character: 0})

	if len(e.Usages()) != 0 {
		t.Errorf("Usages() = %d after invalidating from the start, want 0", len(e.Usages()))
	}
}

func TestMarkDirtyDefersRecompile(t *testing.T) {
	e := NewFileEntry("file:///main.etude", "main", sampleSource, reference.New)
	e.Buffer.SetContent("fn broken( {")
	e.MarkDirty()

	if len(e.Diagnostics()) != 0 {
		t.Fatal("MarkDirty must not compile immediately")
	}

	e.RecompileOnLookup()
	if len(e.Diagnostics()) == 0 {
		t.Fatal("RecompileOnLookup should have surfaced the parse error")
	}
	if e.Dirty() {
		t.Error("Dirty() = true after RecompileOnLookup, want false")
	}
}
