package extractor

import "github.com/etude-lang/etude-ls/protocol"

// DeclSite is where a symbol referenced by a SymbolUsage was declared and
// defined. DeclPosition and DefPosition differ when a symbol was declared
// separately from where it is defined (e.g. a trait method signature vs.
// its body); etude has no such split in the surface this front end
// covers, so the reference implementation always sets both fields to the
// same range. The two fields are kept distinct anyway for forward
// compatibility with a front end that does distinguish them.
type DeclSite struct {
	ModulePath   string
	DeclPosition protocol.Range
	DefPosition  protocol.Range
}

// SymbolUsage records one occurrence of an identifier or field name in
// source text, together with where the symbol it names was declared.
// An unresolved variable access (e.g. a typo) records no usage at all,
// only the corresponding DocumentSymbol. Field accesses, compound
// initializer type names and variant patterns record a usage even when
// their name does not resolve; DeclaredAt is nil in that case.
type SymbolUsage struct {
	Range      protocol.Range
	DeclaredAt *DeclSite
	TypeName   string // human-readable type, for hover; may be empty
	// IsDecl and IsDef mark a usage that is itself the declaration or
	// definition site named by DeclaredAt, e.g. the name token of a
	// function or variable declaration.
	IsDecl bool
	IsDef  bool
}

// DocumentSymbol is one entry in a file's symbol outline: a named
// declaration with its full range (for "reveal in editor") and a
// narrower selection range (the name itself, for "jump to").
type DocumentSymbol struct {
	Name           string
	Kind           protocol.SymbolKind
	Range          protocol.Range
	SelectionRange protocol.Range
	Children       []DocumentSymbol
}

// Table is the full extraction result for one file: its outline and its
// flat usage list, in the order compiler.Walk visits the nodes.
type Table struct {
	Symbols []DocumentSymbol
	Usages  []SymbolUsage
}
