package index

import (
	"errors"
	"testing"

	"github.com/etude-lang/etude-ls/compiler/reference"
)

func TestCacheOpenAndClose(t *testing.T) {
	c := NewFileCache(reference.New)
	e := c.Open("file:///a.etude", "a", sampleSource)
	if e == nil {
		t.Fatal("Open returned nil")
	}
	if c.Get("file:///a.etude") != e {
		t.Error("Get did not return the opened entry")
	}
	c.Close("file:///a.etude")
	if c.Get("file:///a.etude") != nil {
		t.Error("entry still present after Close")
	}
}

func TestCacheFindOrOpenReusesEntry(t *testing.T) {
	c := NewFileCache(reference.New)
	calls := 0
	readFile := func() (string, error) {
		calls++
		return sampleSource, nil
	}

	e1, err := c.FindOrOpen("file:///b.etude", "b", readFile)
	if err != nil {
		t.Fatalf("FindOrOpen: %v", err)
	}
	e2, err := c.FindOrOpen("file:///b.etude", "b", readFile)
	if err != nil {
		t.Fatalf("FindOrOpen: %v", err)
	}
	if e1 != e2 {
		t.Error("FindOrOpen created a second entry for the same uri")
	}
	if calls != 1 {
		t.Errorf("readFile called %d times, want 1", calls)
	}
}

func TestCacheFindOrOpenPropagatesReadError(t *testing.T) {
	c := NewFileCache(reference.New)
	wantErr := errors.New("no such file")
	_, err := c.FindOrOpen("file:///missing.etude", "missing", func() (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestMarkAllDirtyExceptSkipsGivenURI(t *testing.T) {
	c := NewFileCache(reference.New)
	a := c.Open("file:///a.etude", "a", sampleSource)
	b := c.Open("file:///b.etude", "b", sampleSource)

	c.MarkAllDirtyExcept("file:///a.etude")

	if a.Dirty() {
		t.Error("excepted entry should not be marked dirty")
	}
	if !b.Dirty() {
		t.Error("other entry should be marked dirty")
	}
}
