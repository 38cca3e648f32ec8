// Package extractor walks a compiled module's AST and produces the two
// tables the language server answers requests from: a per-symbol outline
// (DocumentSymbol) and a flat table of every identifier/field use, each
// tagged with where it was declared (SymbolUsage).
package extractor

import (
	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/protocol"
)

// ToRange converts a compiler LexLocation -- a 1-based line and a 1-based
// end-column pointing one past the token's last character -- into a
// 0-based half-open protocol.Range. This is the same arithmetic the
// original lexer's TokenToLsRange used: end = (line-1, col-1), start =
// end shifted left by the token's length.
func ToRange(loc compiler.LexLocation) protocol.Range {
	line := uint32(loc.Line - 1)
	endCol := uint32(loc.EndColumn - 1)
	var startCol uint32
	if int(endCol) >= loc.Length {
		startCol = endCol - uint32(loc.Length)
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: startCol},
		End:   protocol.Position{Line: line, Character: endCol},
	}
}
