package compiler

// Visitor is implemented by callers that want to walk a compiled module's
// AST, such as the extractor package's semantic visitor. The driver calls
// each Visit method for the corresponding node kind as it walks the tree;
// a zero-value embed of NoopVisitor satisfies the interface for callers
// that only care about a handful of node kinds.
type Visitor interface {
	VisitTypeDeclaration(*TypeDeclaration)
	VisitVariableDeclaration(*VariableDeclaration)
	VisitFunctionDeclaration(*FunctionDeclaration)
	VisitParameter(*Parameter)
	VisitBlock(*Block)
	VisitExprStatement(*ExprStatement)
	VisitAssignment(*AssignmentStatement)
	VisitReturn(*ReturnStatement)
	VisitYield(*YieldStatement)
	VisitVariableAccess(*VariableAccess)
	VisitFieldAccess(*FieldAccess)
	VisitCompoundInitializer(*CompoundInitializer)
	VisitCall(*CallExpression)
	VisitBinary(*BinaryExpression)
	VisitUnary(*UnaryExpression)
	VisitDeref(*DerefExpression)
	VisitAddressOf(*AddressOfExpression)
	VisitIf(*IfExpression)
	VisitMatch(*MatchExpression)
	VisitVariantPattern(*VariantPattern)
	VisitBindingPattern(*BindingPattern)
	VisitDiscardingPattern(*DiscardingPattern)
	VisitLiteralPattern(*LiteralPattern)
	VisitStructPattern(*StructPattern)
}

// NoopVisitor implements Visitor with empty bodies. Embed it in a visitor
// that only overrides the node kinds it cares about, mirroring the
// original LSPVisitor's stub methods for unhandled node kinds.
type NoopVisitor struct{}

func (NoopVisitor) VisitTypeDeclaration(*TypeDeclaration)         {}
func (NoopVisitor) VisitVariableDeclaration(*VariableDeclaration) {}
func (NoopVisitor) VisitFunctionDeclaration(*FunctionDeclaration) {}
func (NoopVisitor) VisitParameter(*Parameter)                     {}
func (NoopVisitor) VisitBlock(*Block)                             {}
func (NoopVisitor) VisitExprStatement(*ExprStatement)             {}
func (NoopVisitor) VisitAssignment(*AssignmentStatement)          {}
func (NoopVisitor) VisitReturn(*ReturnStatement)                  {}
func (NoopVisitor) VisitYield(*YieldStatement)                    {}
func (NoopVisitor) VisitVariableAccess(*VariableAccess)           {}
func (NoopVisitor) VisitFieldAccess(*FieldAccess)                 {}
func (NoopVisitor) VisitCompoundInitializer(*CompoundInitializer) {}
func (NoopVisitor) VisitCall(*CallExpression)                     {}
func (NoopVisitor) VisitBinary(*BinaryExpression)                 {}
func (NoopVisitor) VisitUnary(*UnaryExpression)                   {}
func (NoopVisitor) VisitDeref(*DerefExpression)                   {}
func (NoopVisitor) VisitAddressOf(*AddressOfExpression)           {}
func (NoopVisitor) VisitIf(*IfExpression)                         {}
func (NoopVisitor) VisitMatch(*MatchExpression)                   {}
func (NoopVisitor) VisitVariantPattern(*VariantPattern)           {}
func (NoopVisitor) VisitBindingPattern(*BindingPattern)           {}
func (NoopVisitor) VisitDiscardingPattern(*DiscardingPattern)     {}
func (NoopVisitor) VisitLiteralPattern(*LiteralPattern)           {}
func (NoopVisitor) VisitStructPattern(*StructPattern)             {}

// Walk drives v over every node reachable from decls, visiting each node
// before its children. The order is not strictly source order: within a
// Block every declaration is visited before any of the block's
// statements, and a FieldAccess is visited before its receiver.
// It is the shared traversal both the reference driver and any other
// front end can reuse; front ends are free to implement their own Walk
// instead, since Driver.RunVisitor is what the rest of the server calls.
func Walk(v Visitor, decls []Declaration) {
	for _, d := range decls {
		walkDecl(v, d)
	}
}

func walkDecl(v Visitor, d Declaration) {
	switch n := d.(type) {
	case *TypeDeclaration:
		v.VisitTypeDeclaration(n)
		for _, child := range n.Body {
			walkDecl(v, child)
		}
	case *VariableDeclaration:
		v.VisitVariableDeclaration(n)
		if n.Value != nil {
			walkExpr(v, n.Value)
		}
	case *FunctionDeclaration:
		v.VisitFunctionDeclaration(n)
		for i := range n.Parameters {
			v.VisitParameter(&n.Parameters[i])
		}
		if n.Body != nil {
			walkBlock(v, n.Body)
		}
	}
}

func walkBlock(v Visitor, b *Block) {
	v.VisitBlock(b)
	for _, d := range b.Decls {
		walkDecl(v, d)
	}
	for _, s := range b.Statements {
		walkStmt(v, s)
	}
}

func walkStmt(v Visitor, s Statement) {
	switch n := s.(type) {
	case *Block:
		walkBlock(v, n)
	case *ExprStatement:
		v.VisitExprStatement(n)
		walkExpr(v, n.Expr)
	case *AssignmentStatement:
		v.VisitAssignment(n)
		walkExpr(v, n.Target)
		walkExpr(v, n.Value)
	case *ReturnStatement:
		v.VisitReturn(n)
		if n.Value != nil {
			walkExpr(v, n.Value)
		}
	case *YieldStatement:
		v.VisitYield(n)
		walkExpr(v, n.Value)
	}
}

func walkExpr(v Visitor, e Expression) {
	switch n := e.(type) {
	case *VariableAccess:
		v.VisitVariableAccess(n)
	case *FieldAccess:
		v.VisitFieldAccess(n)
		walkExpr(v, n.Receiver)
	case *CompoundInitializer:
		v.VisitCompoundInitializer(n)
		for _, f := range n.Fields {
			if f.Value != nil {
				walkExpr(v, f.Value)
			}
		}
	case *CallExpression:
		v.VisitCall(n)
		walkExpr(v, n.Callee)
		for _, a := range n.Args {
			walkExpr(v, a)
		}
	case *BinaryExpression:
		v.VisitBinary(n)
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *UnaryExpression:
		v.VisitUnary(n)
		walkExpr(v, n.Operand)
	case *DerefExpression:
		v.VisitDeref(n)
		walkExpr(v, n.Operand)
	case *AddressOfExpression:
		v.VisitAddressOf(n)
		walkExpr(v, n.Operand)
	case *IfExpression:
		v.VisitIf(n)
		walkExpr(v, n.Cond)
		walkExpr(v, n.ThenExpr)
		if n.ElseExpr != nil {
			walkExpr(v, n.ElseExpr)
		}
	case *MatchExpression:
		v.VisitMatch(n)
		walkExpr(v, n.Scrutinee)
		for _, arm := range n.Arms {
			walkPattern(v, arm.Pattern)
			walkExpr(v, arm.Result)
		}
	case *BlockExpression:
		walkBlock(v, n.Block)
	}
}

func walkPattern(v Visitor, p Pattern) {
	switch n := p.(type) {
	case *VariantPattern:
		v.VisitVariantPattern(n)
		if n.Payload != nil {
			walkPattern(v, n.Payload)
		}
	case *BindingPattern:
		v.VisitBindingPattern(n)
	case *DiscardingPattern:
		v.VisitDiscardingPattern(n)
	case *LiteralPattern:
		v.VisitLiteralPattern(n)
	case *StructPattern:
		v.VisitStructPattern(n)
		for _, fp := range n.Fields {
			walkPattern(v, fp)
		}
	}
}
