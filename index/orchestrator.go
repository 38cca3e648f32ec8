// Package index holds the live, per-file view of the workspace: each open
// file's compiled symbol/usage tables (FileEntry), the set of all open
// files (FileCache), and the orchestration that turns a buffer's current
// bytes into a freshly compiled Module.
package index

import (
	"os"
	"path/filepath"

	"github.com/etude-lang/etude-ls/compiler"
)

// compile constructs a fresh Driver for modulePath and runs it over
// source. Per the original ViewedFile::Invalidate, the process's working
// directory is switched to the module's own directory for the duration of
// the compile, so the front end's relative-import resolution -- which is
// specified only in terms of "the current directory" -- works unmodified.
// This is safe only because the server's request dispatch is
// single-threaded and cooperative: no other goroutine can observe the
// process-global working directory mid-swap.
func compile(newDriver compiler.NewDriverFunc, modulePath string, source []byte) (compiler.Driver, *compiler.Module, error) {
	dir := filepath.Dir(modulePath)
	restore, err := chdir(dir)
	if err != nil {
		// Falling back to the existing working directory is preferable
		// to failing the whole compile over an unresolvable directory.
		restore = func() {}
	}
	defer restore()

	driver := newDriver(modulePath)
	mod, err := driver.PrepareForTooling(modulePath, source)
	return driver, mod, err
}

func chdir(dir string) (func(), error) {
	if dir == "" || dir == "." {
		return func() {}, nil
	}
	prev, err := os.Getwd()
	if err != nil {
		return func() {}, err
	}
	if err := os.Chdir(dir); err != nil {
		return func() {}, err
	}
	return func() { _ = os.Chdir(prev) }, nil
}
