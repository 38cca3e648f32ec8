package index

import (
	"fmt"

	"github.com/etude-lang/etude-ls/buffer"
	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/extractor"
	"github.com/etude-lang/etude-ls/protocol"
)

// OverlappingUsageError is raised when two usage ranges on the same line
// both claim a position -- the non-overlap invariant a well-formed module
// is expected to satisfy. Like buffer.OutOfRangeError, this is a
// programmer/front-end-contract error, not a user-facing one, and is
// expected to be caught by middleware.Recovery.
type OverlappingUsageError struct {
	Position protocol.Position
}

func (e OverlappingUsageError) Error() string {
	return fmt.Sprintf("position %+v matched more than one usage", e.Position)
}

// FileEntry is the live view of a single open file: its edited buffer,
// its most recently compiled symbol/usage tables, and any diagnostics
// from the last compile attempt. It is created the first time a file is
// referenced (didOpen, or FileCache.FindOrOpen on a file not yet open)
// and destroyed on didClose.
type FileEntry struct {
	URI        protocol.DocumentURI
	ModulePath string

	Buffer *buffer.EditedFile

	table       extractor.Table
	diagnostics []protocol.Diagnostic

	newDriver compiler.NewDriverFunc
	dirty     bool
}

// NewFileEntry creates a FileEntry over initial text and compiles it
// immediately -- an entry is never left with an empty table just because
// nobody has asked it anything yet.
func NewFileEntry(uri protocol.DocumentURI, modulePath, text string, newDriver compiler.NewDriverFunc) *FileEntry {
	e := &FileEntry{
		URI:        uri,
		ModulePath: modulePath,
		Buffer:     buffer.New(text),
		newDriver:  newDriver,
	}
	e.Recompile()
	return e
}

// Symbols returns the file's current document symbol outline.
func (e *FileEntry) Symbols() []extractor.DocumentSymbol { return e.table.Symbols }

// Usages returns the file's current flat usage table.
func (e *FileEntry) Usages() []extractor.SymbolUsage { return e.table.Usages }

// Diagnostics returns the diagnostics produced by the most recent compile
// attempt (empty, not nil, when the compile succeeded cleanly).
func (e *FileEntry) Diagnostics() []protocol.Diagnostic {
	if e.diagnostics == nil {
		return []protocol.Diagnostic{}
	}
	return e.diagnostics
}

// Dirty reports whether MarkDirty has been called since the last
// Recompile.
func (e *FileEntry) Dirty() bool { return e.dirty }

// MarkDirty flags the entry for lazy recompilation the next time it is
// looked up, without compiling it now. Used for files other than the one
// that was just edited, so a single keystroke does not trigger a
// workspace-wide recompile.
func (e *FileEntry) MarkDirty() { e.dirty = true }

// Recompile recompiles the file from its buffer's current content. On
// success, the symbol/usage tables and diagnostics are replaced and the
// dirty flag is cleared. On failure (an error returned by the front end,
// or any error it recorded on the module), the previous tables are
// retained untouched and the diagnostics are recorded -- an editor should never see
// its symbol table vanish because of a transient syntax error.
func (e *FileEntry) Recompile() {
	driver, mod, err := compile(e.newDriver, e.ModulePath, e.Buffer.Bytes())
	e.dirty = false

	if err != nil {
		e.diagnostics = []protocol.Diagnostic{unlocatedDiagnostic(err.Error())}
		return
	}

	var diags []protocol.Diagnostic
	for _, cerr := range mod.Errors {
		diags = append(diags, diagnosticFor(cerr))
	}
	e.diagnostics = diags
	if len(diags) > 0 {
		return
	}

	collector := extractor.NewCollector(e.ModulePath)
	driver.RunVisitor(collector)
	e.table = collector.Table()
}

// RecompileOnLookup recompiles the entry if it has been marked dirty
// since the last compile, and is a no-op otherwise. Request handlers that
// read a file they did not just edit call this first, realizing the
// lazy half of the invalidation scheme.
func (e *FileEntry) RecompileOnLookup() {
	if e.dirty {
		e.Recompile()
	}
}

// Lookup finds the usage whose range covers pos, following the exact
// selection rule the original linear scan used: a usage on a different
// line never matches; within the right line, a usage matches if
// start.character <= pos.character <= end.character (end-inclusive). At
// most one usage may match a given position -- if the table ever
// produces two, that is a compiler-contract violation, not a case for the
// dispatcher to silently pick one of.
func (e *FileEntry) Lookup(pos protocol.Position) *extractor.SymbolUsage {
	var found *extractor.SymbolUsage
	for i := range e.table.Usages {
		u := &e.table.Usages[i]
		if u.Range.Start.Line != pos.Line {
			continue
		}
		if pos.Character < u.Range.Start.Character || pos.Character > u.Range.End.Character {
			continue
		}
		if found != nil {
			panic(OverlappingUsageError{Position: pos})
		}
		found = u
	}
	return found
}

// InvalidateAfterPosition drops every symbol and usage entry that can no
// longer be trusted after an edit at pos: symbols whose own range starts
// at or after pos, and usages whose range ends at or after pos, or whose
// declaration or definition position does, since an edit can shift or
// delete the site a usage points to without touching the usage's own
// text.
// This is cheaper than a full recompile and is applied on didChange
// before the edited file is recompiled, so that if the recompile fails
// the retained tables hold no entries the edit may have invalidated.
func (e *FileEntry) InvalidateAfterPosition(pos protocol.Position) {
	symbols := e.table.Symbols[:0:0]
	for _, s := range e.table.Symbols {
		if !posGTE(s.Range.Start, pos) {
			symbols = append(symbols, s)
		}
	}
	e.table.Symbols = symbols

	usages := e.table.Usages[:0:0]
	for _, u := range e.table.Usages {
		if posGTE(u.Range.End, pos) {
			continue
		}
		if u.DeclaredAt != nil && (posGTE(u.DeclaredAt.DeclPosition.End, pos) || posGTE(u.DeclaredAt.DefPosition.End, pos)) {
			continue
		}
		usages = append(usages, u)
	}
	e.table.Usages = usages
}

func posGTE(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line > b.Line
	}
	return a.Character >= b.Character
}

func diagnosticFor(err error) protocol.Diagnostic {
	if located, ok := err.(*compiler.LocatedCompileError); ok {
		return protocol.Diagnostic{
			Range:    extractor.ToRange(located.Location),
			Severity: protocol.SeverityError,
			Source:   "etude",
			Message:  located.Message,
		}
	}
	return unlocatedDiagnostic(err.Error())
}

func unlocatedDiagnostic(message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    protocol.Range{},
		Severity: protocol.SeverityError,
		Source:   "etude",
		Message:  message,
	}
}
