package reference

import "github.com/etude-lang/etude-ls/compiler"

// resolver performs a single pass over a module's declarations, binding
// every VariableAccess and CompoundInitializer type name to where it was
// declared. It tracks one scope per function body (parameters plus that
// function's own let bindings) layered over the module's top-level
// scope; a nested block resolves against a copy of its enclosing scope,
// so its bindings do not leak out. Within one block every let binding is
// entered before any statement is resolved, so a statement sees the last
// let of a name in its block wherever it appears; see DESIGN.md for the
// simplification this represents relative to full lexical block scoping.
type resolver struct {
	modulePath string
	topLevel   map[string]compiler.LexLocation
	types      map[string]compiler.LexLocation
	typeFields map[string]map[string]compiler.LexLocation
}

func resolve(modulePath string, decls []compiler.Declaration) {
	r := &resolver{
		modulePath: modulePath,
		topLevel:   map[string]compiler.LexLocation{},
		types:      map[string]compiler.LexLocation{},
		typeFields: map[string]map[string]compiler.LexLocation{},
	}
	for _, d := range decls {
		switch n := d.(type) {
		case *compiler.FunctionDeclaration:
			r.topLevel[n.Name] = n.NameLoc
		case *compiler.VariableDeclaration:
			r.topLevel[n.Name] = n.NameLoc
		case *compiler.TypeDeclaration:
			r.types[n.Name] = n.NameLoc
			members := make(map[string]compiler.LexLocation, len(n.Fields))
			for _, f := range n.Fields {
				members[f.Name] = f.NameLoc
			}
			r.typeFields[n.Name] = members
		}
	}
	for _, d := range decls {
		if fn, ok := d.(*compiler.FunctionDeclaration); ok {
			r.resolveFunction(fn)
		}
	}
}

func (r *resolver) resolveFunction(fn *compiler.FunctionDeclaration) {
	scope := map[string]compiler.LexLocation{}
	for _, p := range fn.Parameters {
		scope[p.Name] = p.NameLoc
	}
	if fn.Body != nil {
		r.resolveBlock(fn.Body, scope)
	}
}

func (r *resolver) resolveBlock(b *compiler.Block, scope map[string]compiler.LexLocation) {
	for _, d := range b.Decls {
		if vd, ok := d.(*compiler.VariableDeclaration); ok {
			if vd.Value != nil {
				r.resolveExpr(vd.Value, scope)
			}
			scope[vd.Name] = vd.NameLoc
		}
	}
	for _, s := range b.Statements {
		r.resolveStmt(s, scope)
	}
}

func (r *resolver) resolveStmt(s compiler.Statement, scope map[string]compiler.LexLocation) {
	switch n := s.(type) {
	case *compiler.Block:
		inner := cloneScope(scope)
		r.resolveBlock(n, inner)
	case *compiler.ExprStatement:
		r.resolveExpr(n.Expr, scope)
	case *compiler.AssignmentStatement:
		r.resolveExpr(n.Target, scope)
		r.resolveExpr(n.Value, scope)
	case *compiler.ReturnStatement:
		if n.Value != nil {
			r.resolveExpr(n.Value, scope)
		}
	case *compiler.YieldStatement:
		r.resolveExpr(n.Value, scope)
	}
}

func (r *resolver) resolveExpr(e compiler.Expression, scope map[string]compiler.LexLocation) {
	switch n := e.(type) {
	case *compiler.VariableAccess:
		if loc, ok := scope[n.Name]; ok {
			n.DeclaredAt = &compiler.ResolvedSite{ModulePath: r.modulePath, Location: loc}
		} else if loc, ok := r.topLevel[n.Name]; ok {
			n.DeclaredAt = &compiler.ResolvedSite{ModulePath: r.modulePath, Location: loc}
		}
	case *compiler.FieldAccess:
		r.resolveExpr(n.Receiver, scope)
	case *compiler.CompoundInitializer:
		if loc, ok := r.types[n.TypeName]; ok {
			n.DeclaredAt = &compiler.ResolvedSite{ModulePath: r.modulePath, Location: loc}
		}
		members := r.typeFields[n.TypeName]
		for i := range n.Fields {
			f := &n.Fields[i]
			if loc, ok := members[f.Name]; ok {
				f.DeclaredAt = &compiler.ResolvedSite{ModulePath: r.modulePath, Location: loc}
			}
			if f.Value != nil {
				r.resolveExpr(f.Value, scope)
			}
		}
	case *compiler.CallExpression:
		r.resolveExpr(n.Callee, scope)
		for _, a := range n.Args {
			r.resolveExpr(a, scope)
		}
	case *compiler.BinaryExpression:
		r.resolveExpr(n.Left, scope)
		r.resolveExpr(n.Right, scope)
	case *compiler.UnaryExpression:
		r.resolveExpr(n.Operand, scope)
	case *compiler.DerefExpression:
		r.resolveExpr(n.Operand, scope)
	case *compiler.AddressOfExpression:
		r.resolveExpr(n.Operand, scope)
	case *compiler.IfExpression:
		r.resolveExpr(n.Cond, scope)
		r.resolveExpr(n.ThenExpr, scope)
		if n.ElseExpr != nil {
			r.resolveExpr(n.ElseExpr, scope)
		}
	case *compiler.BlockExpression:
		inner := cloneScope(scope)
		r.resolveBlock(n.Block, inner)
	}
}

func cloneScope(scope map[string]compiler.LexLocation) map[string]compiler.LexLocation {
	out := make(map[string]compiler.LexLocation, len(scope))
	for k, v := range scope {
		out[k] = v
	}
	return out
}
