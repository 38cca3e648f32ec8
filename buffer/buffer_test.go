package buffer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/etude-lang/etude-ls/protocol"
)

func TestNewLineStarts(t *testing.T) {
	f := New("ab\ncd\nef")
	want := []int{0, 3, 6}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}

func TestTrailingNewlineNoExtraLine(t *testing.T) {
	f := New("ab\ncd\n")
	want := []int{0, 3}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}

func TestUpdatePreservesLineIndex(t *testing.T) {
	// "ab\ncd\nef" update((0,1),(0,1), "XY") -> "aXYb\ncd\nef"
	f := New("ab\ncd\nef")
	f.Update(protocol.Range{
		Start: protocol.Position{Line: 0, Character: 1},
		End:   protocol.Position{Line: 0, Character: 1},
	}, "XY")

	if got, want := f.Content(), "aXYb\ncd\nef"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
	want := []int{0, 5, 8}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}

func TestUpdateInsertsNewline(t *testing.T) {
	f := New("abcd")
	f.Update(protocol.Range{
		Start: protocol.Position{Line: 0, Character: 2},
		End:   protocol.Position{Line: 0, Character: 2},
	}, "\n")
	if got, want := f.Content(), "ab\ncd"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
	want := []int{0, 3}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}

func TestUpdateDeletesNewline(t *testing.T) {
	f := New("ab\ncd")
	f.Update(protocol.Range{
		Start: protocol.Position{Line: 0, Character: 2},
		End:   protocol.Position{Line: 1, Character: 0},
	}, "")
	if got, want := f.Content(), "abcd"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
	want := []int{0}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	text := "hello\nworld\nfoo"
	f := New(text)
	for line := 0; line < f.LineCount(); line++ {
		lineText := strings.TrimSuffix(f.LineText(line), "\n")
		for ch := 0; ch <= len(lineText); ch++ {
			pos := protocol.Position{Line: uint32(line), Character: uint32(ch)}
			offset, ok := f.OffsetAt(pos)
			if !ok {
				t.Fatalf("OffsetAt(%v) failed", pos)
			}
			back := f.PositionAt(offset)
			if back != pos {
				t.Errorf("round trip %v -> %d -> %v", pos, offset, back)
			}
		}
	}
}

func TestUpdateOutOfRangePanics(t *testing.T) {
	f := New("abc")
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for out-of-range edit")
		}
	}()
	f.Update(protocol.Range{
		Start: protocol.Position{Line: 5, Character: 0},
		End:   protocol.Position{Line: 5, Character: 0},
	}, "x")
}

func TestApplyChangesFullSync(t *testing.T) {
	f := New("old")
	f.ApplyChanges([]protocol.TextDocumentContentChangeEvent{{Text: "brand new\ntext"}})
	if got, want := f.Content(), "brand new\ntext"; got != want {
		t.Errorf("Content() = %q, want %q", got, want)
	}
	want := []int{0, 10}
	if got := f.LineStarts(); !reflect.DeepEqual(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
}
