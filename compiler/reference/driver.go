package reference

import "github.com/etude-lang/etude-ls/compiler"

// Driver is the reference implementation of compiler.Driver. One Driver
// is constructed per module path, matching the original
// `CompilationDriver driver(module_name)` lifetime.
type Driver struct {
	modulePath string
	module     *compiler.Module
}

// New constructs a reference Driver for modulePath. It satisfies
// compiler.NewDriverFunc.
func New(modulePath string) compiler.Driver {
	return &Driver{modulePath: modulePath}
}

// PrepareForTooling lexes, parses, and resolves source, collecting
// whatever errors the parser produced rather than aborting at the first
// one -- a single bad statement should not blank out the rest of the
// file's symbol table.
func (d *Driver) PrepareForTooling(modulePath string, source []byte) (*compiler.Module, error) {
	p := newParser(source)
	decls, errs := p.Parse()
	resolve(modulePath, decls)

	d.module = &compiler.Module{
		Path:   modulePath,
		Decls:  decls,
		Errors: errs,
	}
	return d.module, nil
}

// RunVisitor walks the most recently prepared module with v.
func (d *Driver) RunVisitor(v compiler.Visitor) {
	if d.module == nil {
		return
	}
	compiler.Walk(v, d.module.Decls)
}

// Types returns nil: this reference front end does not implement type
// solving, only parsing and name resolution, which is sufficient to
// drive hover's fallback text and every other component. See DESIGN.md.
func (d *Driver) Types() compiler.TypeResolver { return nil }
