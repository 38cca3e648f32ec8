package reference

import (
	"testing"

	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/extractor"
)

func TestPrepareForToolingParsesFunctionAndResolvesLocal(t *testing.T) {
	src := `
fn add(a, b) {
	let total = a
	return total
}
`
	d := New("main")
	mod, err := d.PrepareForTooling("main", []byte(src))
	if err != nil {
		t.Fatalf("PrepareForTooling: %v", err)
	}
	if len(mod.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", mod.Errors)
	}
	if len(mod.Decls) != 1 {
		t.Fatalf("Decls = %d, want 1", len(mod.Decls))
	}
	fn, ok := mod.Decls[0].(*compiler.FunctionDeclaration)
	if !ok {
		t.Fatalf("Decls[0] = %T, want *FunctionDeclaration", mod.Decls[0])
	}
	if fn.Name != "add" {
		t.Errorf("Name = %q, want %q", fn.Name, "add")
	}
}

func TestDriverRunVisitorProducesUsageTable(t *testing.T) {
	src := `
fn greet(name) {
	let message = name
	return message
}
`
	d := New("main")
	if _, err := d.PrepareForTooling("main", []byte(src)); err != nil {
		t.Fatalf("PrepareForTooling: %v", err)
	}

	collector := extractor.NewCollector("main")
	d.RunVisitor(collector)
	table := collector.Table()

	if len(table.Symbols) == 0 {
		t.Fatal("expected at least one symbol")
	}
}

func TestParseErrorsAreCollectedNotFatal(t *testing.T) {
	src := `fn broken( {`
	d := New("main")
	mod, err := d.PrepareForTooling("main", []byte(src))
	if err != nil {
		t.Fatalf("PrepareForTooling returned error: %v", err)
	}
	if len(mod.Errors) == 0 {
		t.Fatal("expected parse errors to be recorded")
	}
}

func TestCompoundInitializerResolvesTypeName(t *testing.T) {
	src := `
type Point struct { x: int, y: int }

fn origin() {
	let p = Point { x: 0, y: 0 }
	return p
}
`
	d := New("main")
	mod, err := d.PrepareForTooling("main", []byte(src))
	if err != nil {
		t.Fatalf("PrepareForTooling: %v", err)
	}
	if len(mod.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", mod.Errors)
	}

	table := extractor.Extract("main", mod.Decls)
	var found bool
	for _, u := range table.Usages {
		if u.DeclaredAt != nil {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one resolved usage (the compound initializer's type name)")
	}
}
