// Package buffer holds the editor's current view of a source file: its raw
// bytes and a line-start index that is kept consistent with those bytes
// across a stream of incremental edits from the client.
package buffer

import (
	"fmt"
	"sort"

	"github.com/etude-lang/etude-ls/protocol"
)

// OutOfRangeError is raised when an edit names a position outside the
// current content. The buffer does not attempt to recover from this --
// it is a protocol/programmer error, not a user-facing one.
type OutOfRangeError struct {
	Range   protocol.Range
	Content int // length of content at the time of the failed edit
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("edit range %+v out of bounds for content of length %d", e.Range, e.Content)
}

// EditedFile is the in-memory model of one open file's current text: a byte
// string plus a monotonically increasing table of line-start byte offsets.
//
// Invariants: lineStarts[0] == 0; for 0 < i < len(lineStarts),
// content[lineStarts[i]-1] == '\n' and lineStarts[i] > lineStarts[i-1]; a
// trailing '\n' at end-of-file does not start an additional line.
type EditedFile struct {
	content    []byte
	lineStarts []int
}

// New creates an EditedFile from initial text.
func New(text string) *EditedFile {
	f := &EditedFile{}
	f.SetContent(text)
	return f
}

// SetContent replaces the content wholesale and rebuilds the line index.
func (f *EditedFile) SetContent(text string) {
	f.content = []byte(text)
	f.lineStarts = scanLineStarts(f.content, 0, 0)
}

// Content returns the current text.
func (f *EditedFile) Content() string {
	return string(f.content)
}

// Bytes returns the current content without copying.
func (f *EditedFile) Bytes() []byte {
	return f.content
}

// LineCount returns the number of lines currently indexed.
func (f *EditedFile) LineCount() int {
	return len(f.lineStarts)
}

// LineStarts returns the current line-start table. Callers must not mutate
// the returned slice.
func (f *EditedFile) LineStarts() []int {
	return f.lineStarts
}

// LineText returns the text of line i (0-indexed), including any trailing
// '\n'. Panics if i is out of range -- callers are expected to have
// validated the line number against LineCount.
func (f *EditedFile) LineText(i int) string {
	start := f.lineStarts[i]
	end := len(f.content)
	if i+1 < len(f.lineStarts) {
		end = f.lineStarts[i+1]
	}
	return string(f.content[start:end])
}

// scanLineStarts scans content[from:] for '\n' bytes and returns the
// line-start table for that region, with offsets relative to the start of
// content (not of the scanned region). baseOffset is the byte offset that
// `from` corresponds to in content, and is also the first entry emitted --
// callers append this to a prefix of prior, unaffected entries.
func scanLineStarts(content []byte, from int, baseOffset int) []int {
	starts := []int{baseOffset}
	for i := from; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetForPosition converts a line/character pair into a byte offset,
// without bounds checking beyond what is needed to avoid a panic on the
// lineStarts index itself.
func (f *EditedFile) offsetForPosition(pos protocol.Position) (int, bool) {
	line := int(pos.Line)
	if line < 0 || line >= len(f.lineStarts) {
		return 0, false
	}
	offset := f.lineStarts[line] + int(pos.Character)
	lineEnd := len(f.content)
	if line+1 < len(f.lineStarts) {
		lineEnd = f.lineStarts[line+1]
	}
	if offset < f.lineStarts[line] || offset > lineEnd {
		return 0, false
	}
	return offset, true
}

// OffsetAt converts a position to a byte offset. Returns false if the
// position does not resolve within the current content.
func (f *EditedFile) OffsetAt(pos protocol.Position) (int, bool) {
	return f.offsetForPosition(pos)
}

// PositionAt converts a byte offset back into a line/character position.
func (f *EditedFile) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.content) {
		offset = len(f.content)
	}
	// lineStarts is sorted; find the last start <= offset.
	i := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return protocol.Position{
		Line:      uint32(i),
		Character: uint32(offset - f.lineStarts[i]),
	}
}

// Update splices replacement into the range [start, end) described by rng
// and updates the line-start table to match. Entries up to and including
// rng.Start.Line are retained unchanged; rescanning begins at the byte
// offset of that line.
//
// Panics with OutOfRangeError if the range does not resolve within the
// current content -- this is a protocol/programmer error, not recoverable
// at this layer.
func (f *EditedFile) Update(rng protocol.Range, replacement string) {
	start, ok := f.offsetForPosition(rng.Start)
	if !ok {
		panic(OutOfRangeError{Range: rng, Content: len(f.content)})
	}
	end, ok := f.offsetForPosition(rng.End)
	if !ok {
		panic(OutOfRangeError{Range: rng, Content: len(f.content)})
	}
	if start > end {
		panic(OutOfRangeError{Range: rng, Content: len(f.content)})
	}

	newContent := make([]byte, 0, len(f.content)-(end-start)+len(replacement))
	newContent = append(newContent, f.content[:start]...)
	newContent = append(newContent, replacement...)
	newContent = append(newContent, f.content[end:]...)

	startLine := int(rng.Start.Line)
	prefix := append([]int(nil), f.lineStarts[:startLine+1]...)
	rescanFrom := f.lineStarts[startLine]

	f.content = newContent
	f.lineStarts = append(prefix, scanLineStarts(newContent, rescanFrom, rescanFrom)[1:]...)
}

// SetFullContent replaces the entire buffer, as used for full-sync change
// events (an empty Range in the LSP wire format).
func (f *EditedFile) SetFullContent(text string) {
	f.SetContent(text)
}

// ApplyChanges applies a sequence of LSP content-change events in order,
// dispatching to Update for ranged edits and SetFullContent for full syncs.
func (f *EditedFile) ApplyChanges(changes []protocol.TextDocumentContentChangeEvent) {
	for _, c := range changes {
		if c.Range == nil {
			f.SetFullContent(c.Text)
			continue
		}
		f.Update(*c.Range, c.Text)
	}
}
