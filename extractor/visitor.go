package extractor

import (
	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/protocol"
)

// visitor implements compiler.Visitor, accumulating a Table as the driver
// walks a module. Resolution of each reference to its declaration site is
// the front end's job (compiler.ResolvedSite, filled in during type
// solving); this visitor only transcribes what the front end already
// resolved into the wire-facing Range shape.
type visitor struct {
	compiler.NoopVisitor
	modulePath string
	table      Table
}

// Extract walks decls with a fresh visitor and returns the resulting
// Table. modulePath is recorded on every DeclSite produced for symbols
// declared in this module, so cross-file definition requests -- not
// currently implemented -- can at least be told apart from same-file
// ones if ever added.
func Extract(modulePath string, decls []compiler.Declaration) Table {
	v := NewCollector(modulePath)
	compiler.Walk(v, decls)
	return v.Table()
}

// Collector is a compiler.Visitor that accumulates a Table as a Driver
// walks a module. Use it directly (via Driver.RunVisitor) when the
// caller already holds a prepared Driver; use Extract when only the
// declaration list is at hand.
type Collector struct {
	*visitor
}

// NewCollector creates a Collector for modulePath.
func NewCollector(modulePath string) *Collector {
	return &Collector{visitor: &visitor{modulePath: modulePath}}
}

// Table returns the accumulated extraction result.
func (c *Collector) Table() Table { return c.visitor.table }

func (v *visitor) site(r *compiler.ResolvedSite) *DeclSite {
	if r == nil {
		return nil
	}
	rng := ToRange(r.Location)
	return &DeclSite{
		ModulePath:   r.ModulePath,
		DeclPosition: rng,
		DefPosition:  rng,
	}
}

// selfSite builds a DeclSite pointing at loc itself, for a usage that is
// its own declaration and definition (a name token in a declaration).
func (v *visitor) selfSite(loc compiler.LexLocation) *DeclSite {
	rng := ToRange(loc)
	return &DeclSite{
		ModulePath:   v.modulePath,
		DeclPosition: rng,
		DefPosition:  rng,
	}
}

func (v *visitor) VisitTypeDeclaration(n *compiler.TypeDeclaration) {
	kind := protocol.SymbolTypeAlias
	if n.IsStruct {
		kind = protocol.SymbolStruct
	}
	rng := ToRange(n.NameLoc)
	v.table.Symbols = append(v.table.Symbols, DocumentSymbol{
		Name:           n.Name,
		Kind:           kind,
		Range:          rng,
		SelectionRange: rng,
	})
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      rng,
		DeclaredAt: v.selfSite(n.NameLoc),
		IsDecl:     true,
		IsDef:      true,
	})
}

func (v *visitor) VisitVariableDeclaration(n *compiler.VariableDeclaration) {
	kind := protocol.SymbolConstant
	if n.Mutable {
		kind = protocol.SymbolVariable
	}
	rng := ToRange(n.NameLoc)
	v.table.Symbols = append(v.table.Symbols, DocumentSymbol{
		Name:           n.Name,
		Kind:           kind,
		Range:          rng,
		SelectionRange: rng,
	})
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      rng,
		DeclaredAt: v.selfSite(n.NameLoc),
		IsDecl:     true,
		IsDef:      true,
	})
}

func (v *visitor) VisitFunctionDeclaration(n *compiler.FunctionDeclaration) {
	nameRng := ToRange(n.NameLoc)
	fullRng := nameRng
	if n.Body != nil {
		fullRng = protocol.Range{Start: nameRng.Start, End: ToRange(n.Body.Loc).Start}
	}
	v.table.Symbols = append(v.table.Symbols, DocumentSymbol{
		Name:           n.Name,
		Kind:           protocol.SymbolFunction,
		Range:          fullRng,
		SelectionRange: nameRng,
	})
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      nameRng,
		DeclaredAt: v.selfSite(n.NameLoc),
		IsDecl:     true,
		IsDef:      true,
	})
}

func (v *visitor) VisitParameter(n *compiler.Parameter) {
	rng := ToRange(n.NameLoc)
	v.table.Symbols = append(v.table.Symbols, DocumentSymbol{
		Name:           n.Name,
		Kind:           protocol.SymbolParameter,
		Range:          rng,
		SelectionRange: rng,
	})
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      rng,
		DeclaredAt: v.selfSite(n.NameLoc),
		IsDecl:     true,
		IsDef:      true,
	})
}

// VisitVariableAccess always emits the DocumentSymbol for the access
// token, even when the name failed to resolve; it emits a SymbolUsage
// only when resolution succeeded, so an unbound name produces an outline
// entry but no navigable reference.
func (v *visitor) VisitVariableAccess(n *compiler.VariableAccess) {
	rng := ToRange(n.Loc)
	v.table.Symbols = append(v.table.Symbols, DocumentSymbol{
		Name:           n.Name,
		Kind:           protocol.SymbolVariable,
		Range:          rng,
		SelectionRange: rng,
	})
	if n.DeclaredAt == nil {
		return
	}
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      rng,
		DeclaredAt: v.site(n.DeclaredAt),
	})
}

func (v *visitor) VisitFieldAccess(n *compiler.FieldAccess) {
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      ToRange(n.Loc),
		DeclaredAt: v.site(n.DeclaredAt),
	})
}

// VisitCompoundInitializer emits a usage for the type name plus one
// usage per field name that resolved to a member of that type; a field
// name that did not match any member contributes no usage.
func (v *visitor) VisitCompoundInitializer(n *compiler.CompoundInitializer) {
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      ToRange(n.TypeNameLoc),
		DeclaredAt: v.site(n.DeclaredAt),
	})
	for _, f := range n.Fields {
		if f.DeclaredAt == nil {
			continue
		}
		v.table.Usages = append(v.table.Usages, SymbolUsage{
			Range:      ToRange(f.NameLoc),
			DeclaredAt: v.site(f.DeclaredAt),
		})
	}
}

func (v *visitor) VisitVariantPattern(n *compiler.VariantPattern) {
	v.table.Usages = append(v.table.Usages, SymbolUsage{
		Range:      ToRange(n.CaseLoc),
		DeclaredAt: v.site(n.DeclaredAt),
	})
}

// VisitStructPattern contributes no table entries: a struct pattern
// destructures by field name but the pattern node itself names no single
// symbol, and its per-field sub-patterns are walked independently.

// VisitAssignment, VisitReturn, and VisitExprStatement carry no symbol
// table entry of their own -- their operands are visited independently
// and contribute whatever usages they individually produce. These three
// are named explicitly (rather than left to NoopVisitor) because they are
// exactly the node kinds the original visitor implemented; keeping them
// visible here, even empty, documents that the omission is deliberate and
// not an oversight.
func (v *visitor) VisitAssignment(*compiler.AssignmentStatement) {}
func (v *visitor) VisitReturn(*compiler.ReturnStatement)         {}
func (v *visitor) VisitExprStatement(*compiler.ExprStatement)    {}
