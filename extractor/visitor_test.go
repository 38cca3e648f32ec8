package extractor

import (
	"testing"

	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/protocol"
)

func loc(line, endCol, length int) compiler.LexLocation {
	return compiler.LexLocation{Line: line, EndColumn: endCol, Length: length}
}

func TestExtractFunctionDeclarationProducesSymbol(t *testing.T) {
	fn := &compiler.FunctionDeclaration{
		Name:    "double",
		NameLoc: loc(1, 10, 6),
		Body:    &compiler.Block{Loc: loc(1, 20, 0)},
	}

	table := Extract("main", []compiler.Declaration{fn})

	if len(table.Symbols) != 1 {
		t.Fatalf("Symbols = %d, want 1", len(table.Symbols))
	}
	if table.Symbols[0].Name != "double" {
		t.Errorf("Name = %q, want %q", table.Symbols[0].Name, "double")
	}
}

func TestExtractVariableAccessResolved(t *testing.T) {
	declLoc := loc(1, 4, 1) // `x` at column 4 (end), length 1 -> start col 3
	usageLoc := loc(3, 9, 1)

	fn := &compiler.FunctionDeclaration{
		Name:    "f",
		NameLoc: loc(1, 2, 1),
		Body: &compiler.Block{
			Loc: loc(1, 100, 0),
			Statements: []compiler.Statement{
				&compiler.ExprStatement{
					Loc: usageLoc,
					Expr: &compiler.VariableAccess{
						Name: "x",
						Loc:  usageLoc,
						DeclaredAt: &compiler.ResolvedSite{
							ModulePath: "main",
							Location:   declLoc,
						},
					},
				},
			},
		},
	}

	table := Extract("main", []compiler.Declaration{fn})

	u := findUsage(t, table, ToRange(usageLoc))
	if u.DeclaredAt == nil {
		t.Fatal("DeclaredAt = nil, want resolved site")
	}
	if u.DeclaredAt.ModulePath != "main" {
		t.Errorf("ModulePath = %q, want %q", u.DeclaredAt.ModulePath, "main")
	}
	wantRange := ToRange(declLoc)
	if u.DeclaredAt.DeclPosition != wantRange {
		t.Errorf("DeclPosition = %+v, want %+v", u.DeclaredAt.DeclPosition, wantRange)
	}
	if u.DeclaredAt.DefPosition != wantRange {
		t.Errorf("DefPosition = %+v, want %+v", u.DeclaredAt.DefPosition, wantRange)
	}
}

// findUsage returns the usage whose range matches want, failing the test
// if none or more than one does.
func findUsage(t *testing.T, table Table, want protocol.Range) SymbolUsage {
	t.Helper()
	var found *SymbolUsage
	for i := range table.Usages {
		if table.Usages[i].Range == want {
			if found != nil {
				t.Fatalf("more than one usage at range %+v", want)
			}
			found = &table.Usages[i]
		}
	}
	if found == nil {
		t.Fatalf("no usage at range %+v (have %+v)", want, table.Usages)
	}
	return *found
}

func TestExtractUnresolvedAccessProducesNoUsage(t *testing.T) {
	fn := &compiler.FunctionDeclaration{
		Name:    "f",
		NameLoc: loc(1, 2, 1),
		Body: &compiler.Block{
			Statements: []compiler.Statement{
				&compiler.ExprStatement{
					Loc:  loc(2, 5, 3),
					Expr: &compiler.VariableAccess{Name: "typo", Loc: loc(2, 5, 3)},
				},
			},
		},
	}

	table := Extract("main", []compiler.Declaration{fn})

	accessRange := ToRange(loc(2, 5, 3))
	for _, u := range table.Usages {
		if u.Range == accessRange {
			t.Fatalf("unresolved access produced a usage: %+v", u)
		}
	}
}

func TestToRangeMatchesOriginalColumnConvention(t *testing.T) {
	// A 3-character token ending at column 10 on line 5 (1-based) should
	// convert to the 0-based half-open range [ (4,6), (4,9) ).
	r := ToRange(loc(5, 10, 3))
	if r.Start.Line != 4 || r.End.Line != 4 {
		t.Fatalf("line = %d/%d, want 4/4", r.Start.Line, r.End.Line)
	}
	if r.Start.Character != 6 || r.End.Character != 9 {
		t.Fatalf("chars = %d/%d, want 6/9", r.Start.Character, r.End.Character)
	}
}
