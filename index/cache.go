package index

import (
	"strings"
	"sync"

	"github.com/etude-lang/etude-ls/compiler"
	"github.com/etude-lang/etude-ls/protocol"
)

// FileCache owns every FileEntry the server currently has a reason to
// know about: files the client has opened, plus any file opened through
// FindOrOpen. Request dispatch is single-threaded and
// cooperative, so the mutex here guards only against the unusual case of
// a background goroutine (e.g. a config watcher callback) touching the
// cache concurrently with the dispatch loop -- it is not protecting
// against concurrent requests, there are none.
type FileCache struct {
	mu        sync.Mutex
	entries   map[protocol.DocumentURI]*FileEntry
	newDriver compiler.NewDriverFunc
}

// NewFileCache creates an empty cache. newDriver is used to construct a
// fresh compiler.Driver for every compile of every entry the cache holds.
func NewFileCache(newDriver compiler.NewDriverFunc) *FileCache {
	return &FileCache{
		entries:   make(map[protocol.DocumentURI]*FileEntry),
		newDriver: newDriver,
	}
}

// Open creates a new entry for uri (or replaces one left over from a
// stale state) with the given initial text and module path, compiling it
// immediately.
func (c *FileCache) Open(uri protocol.DocumentURI, modulePath, text string) *FileEntry {
	canon := Canonicalize(uri)
	c.mu.Lock()
	defer c.mu.Unlock()
	e := NewFileEntry(canon, modulePath, text, c.newDriver)
	c.entries[canon] = e
	return e
}

// FindOrOpen returns the entry for uri, opening it from the filesystem
// (via readFile) if it is not already cached. canonicalize is applied to uri first so that two
// different spellings of the same path (e.g. with/without a trailing
// slash-normalized form) never produce two entries for one file.
func (c *FileCache) FindOrOpen(uri protocol.DocumentURI, modulePath string, readFile func() (string, error)) (*FileEntry, error) {
	canon := Canonicalize(uri)

	c.mu.Lock()
	if e, ok := c.entries[canon]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	text, err := readFile()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[canon]; ok {
		return e, nil
	}
	e := NewFileEntry(canon, modulePath, text, c.newDriver)
	c.entries[canon] = e
	return e, nil
}

// Get returns the entry for uri without opening it, or nil if the file is
// not currently cached.
func (c *FileCache) Get(uri protocol.DocumentURI) *FileEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[Canonicalize(uri)]
}

// Close removes uri's entry, destroying its compiled state. A FileEntry's
// lifetime ends exactly at didClose.
func (c *FileCache) Close(uri protocol.DocumentURI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, Canonicalize(uri))
}

// MarkAllDirtyExcept flags every entry other than except for lazy
// recompilation, without compiling any of them now. Used after an edit
// lands on one file: every other open file's cross-file usages may now
// point at stale declaration sites, but recompiling them all eagerly
// would make every edit cost proportional to workspace size instead of
// to the one file that changed.
func (c *FileCache) MarkAllDirtyExcept(except protocol.DocumentURI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	canon := Canonicalize(except)
	for uri, e := range c.entries {
		if uri != canon {
			e.MarkDirty()
		}
	}
}

// Canonicalize normalizes a document URI for use as a cache key. LSP
// clients are not always consistent about trailing slashes or percent
// escaping; this keeps the common case (plain file:// URIs with no
// escaping) unique without pulling in a full URI-parsing dependency for
// a single normalization step.
func Canonicalize(uri protocol.DocumentURI) protocol.DocumentURI {
	return protocol.DocumentURI(strings.TrimSuffix(string(uri), "/"))
}
