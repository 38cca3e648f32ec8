package compiler

import "errors"

// LocatedCompileError is a compile error the front end can pin to a
// specific span in the source being compiled.
type LocatedCompileError struct {
	Location LexLocation
	Message  string
}

func (e *LocatedCompileError) Error() string { return e.Message }

// UnlocatedCompileError is a compile error with no specific span (e.g. a
// missing module, a cyclic import).
type UnlocatedCompileError struct {
	Message string
}

func (e *UnlocatedCompileError) Error() string { return e.Message }

// ErrModuleNotFound is returned by Driver.PrepareForTooling when the
// module's source cannot be located at all.
var ErrModuleNotFound = errors.New("module not found")

// ScopeLayer is one level of the lexical scope stack active at a given
// point in the program, as the type solver leaves it after a full pass.
type ScopeLayer struct {
	Names map[string]LexLocation // name -> declaration site in this layer
}

// TypeInfo is the type solver's verdict for a single declaration or
// expression, reduced to the one field the extractor actually surfaces:
// a human-readable rendering for hover text.
type TypeInfo struct {
	DisplayName string
}

// Module is a single compiled source file's result: its top-level
// declarations, the accumulated scope stack, and any errors the front end
// produced while compiling it.
type Module struct {
	Path    string
	Decls   []Declaration
	Scopes  []ScopeLayer
	Errors  []error // *LocatedCompileError or *UnlocatedCompileError
}

// TypeOf returns the solved type of any expression, declaration, or
// pattern the type solver annotated, identified by its own source
// location. ok is false if the node carries no type information (e.g. a
// module that failed to compile before the type solver ran).
type TypeResolver interface {
	TypeOf(loc LexLocation) (TypeInfo, bool)
}

// Driver is the contract the rest of the server programs against to turn
// a module's path and current text into a compiled Module. It mirrors the
// original CompilationDriver: construct with a module name, prepare (which
// also handles relative-import resolution via the working directory),
// then run a Visitor over the result.
type Driver interface {
	// PrepareForTooling compiles source (the buffer's current content,
	// not necessarily what's on disk) for modulePath as far as the front
	// end can get -- lexing, parsing, and resolution -- collecting
	// errors rather than aborting on the first one, since a single
	// syntax error should not blank out an editor's entire symbol table.
	PrepareForTooling(modulePath string, source []byte) (*Module, error)

	// RunVisitor walks the most recently prepared Module with v. Calling
	// this before PrepareForTooling succeeds is a programmer error.
	RunVisitor(v Visitor)

	// Types returns the type resolver for the most recently prepared
	// Module, or nil if type solving did not complete.
	Types() TypeResolver
}

// NewDriverFunc constructs a Driver for a single module. The server
// constructs a fresh Driver for every compile of a file.
type NewDriverFunc func(modulePath string) Driver
