package compiler

// Node is implemented by every AST node the front end can hand to a
// Visitor. Location reports the node's own span; for declarations this is
// the span of the declared name, not the whole declaration body.
type Node interface {
	Location() LexLocation
}

// Declaration is any top-level or block-scoped binding form.
type Declaration interface {
	Node
	declNode()
}

// Statement is any executable statement inside a block.
type Statement interface {
	Node
	stmtNode()
}

// Expression is any value-producing subtree.
type Expression interface {
	Node
	exprNode()
}

// Pattern is any destructuring form appearing in a match arm or binding.
type Pattern interface {
	Node
	patternNode()
}

// FieldDecl is one named member of a type declaration: a struct field or
// a variant case.
type FieldDecl struct {
	Name    string
	NameLoc LexLocation
}

// TypeDeclaration declares a named type (struct or variant).
type TypeDeclaration struct {
	Name     string
	NameLoc  LexLocation
	IsStruct bool
	Fields   []FieldDecl
	Body     []Declaration
}

func (d *TypeDeclaration) Location() LexLocation { return d.NameLoc }
func (d *TypeDeclaration) declNode()             {}

// VariableDeclaration declares a `let`/`var`-bound name.
type VariableDeclaration struct {
	Name    string
	NameLoc LexLocation
	Value   Expression
	Mutable bool
}

func (d *VariableDeclaration) Location() LexLocation { return d.NameLoc }
func (d *VariableDeclaration) declNode()             {}

// Parameter is a single function parameter.
type Parameter struct {
	Name    string
	NameLoc LexLocation
}

// FunctionDeclaration declares a named function.
type FunctionDeclaration struct {
	Name       string
	NameLoc    LexLocation
	Parameters []Parameter
	Body       *Block
}

func (d *FunctionDeclaration) Location() LexLocation { return d.NameLoc }
func (d *FunctionDeclaration) declNode()             {}

// Block is a sequence of statements introducing a new lexical scope.
type Block struct {
	Loc        LexLocation
	Statements []Statement
	Decls      []Declaration
}

func (b *Block) Location() LexLocation { return b.Loc }
func (b *Block) stmtNode()             {}

// ExprStatement wraps an expression evaluated for effect.
type ExprStatement struct {
	Loc  LexLocation
	Expr Expression
}

func (s *ExprStatement) Location() LexLocation { return s.Loc }
func (s *ExprStatement) stmtNode()             {}

// AssignmentStatement assigns a new value to an existing binding.
type AssignmentStatement struct {
	Loc    LexLocation
	Target Expression
	Value  Expression
}

func (s *AssignmentStatement) Location() LexLocation { return s.Loc }
func (s *AssignmentStatement) stmtNode()             {}

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	Loc   LexLocation
	Value Expression // nil for bare `return`
}

func (s *ReturnStatement) Location() LexLocation { return s.Loc }
func (s *ReturnStatement) stmtNode()             {}

// YieldStatement yields a value from the enclosing block expression.
type YieldStatement struct {
	Loc   LexLocation
	Value Expression
}

func (s *YieldStatement) Location() LexLocation { return s.Loc }
func (s *YieldStatement) stmtNode()             {}

// VariableAccess references a bound name.
type VariableAccess struct {
	Name string
	Loc  LexLocation
	// DeclaredAt is filled in by the resolver: the location of the
	// declaration this access resolves to, and the module path it lives
	// in. Nil if resolution failed (undefined name).
	DeclaredAt *ResolvedSite
}

func (e *VariableAccess) Location() LexLocation { return e.Loc }
func (e *VariableAccess) exprNode()             {}

// ResolvedSite names where a symbol was declared, potentially in another
// module than the one currently being visited.
type ResolvedSite struct {
	ModulePath string
	Location   LexLocation
}

// FieldAccess references a struct field or variant case member.
type FieldAccess struct {
	Receiver   Expression
	FieldName  string
	Loc        LexLocation
	DeclaredAt *ResolvedSite
}

func (e *FieldAccess) Location() LexLocation { return e.Loc }
func (e *FieldAccess) exprNode()             {}

// FieldInit is one `name: value` entry in a CompoundInitializer.
// DeclaredAt is filled in by the resolver: the location of the member
// this field name refers to in the type's own declaration. Nil if no
// member by that name could be found.
type FieldInit struct {
	Name       string
	NameLoc    LexLocation
	Value      Expression
	DeclaredAt *ResolvedSite
}

// CompoundInitializer constructs a struct value.
type CompoundInitializer struct {
	Loc         LexLocation
	TypeName    string
	TypeNameLoc LexLocation
	DeclaredAt  *ResolvedSite
	Fields      []FieldInit
}

func (e *CompoundInitializer) Location() LexLocation { return e.Loc }
func (e *CompoundInitializer) exprNode()             {}

// CallExpression applies a function to arguments.
type CallExpression struct {
	Loc      LexLocation
	Callee   Expression
	Args     []Expression
}

func (e *CallExpression) Location() LexLocation { return e.Loc }
func (e *CallExpression) exprNode()             {}

// BinaryExpression applies a binary operator.
type BinaryExpression struct {
	Loc   LexLocation
	Op    string
	Left  Expression
	Right Expression
}

func (e *BinaryExpression) Location() LexLocation { return e.Loc }
func (e *BinaryExpression) exprNode()             {}

// UnaryExpression applies a unary operator.
type UnaryExpression struct {
	Loc      LexLocation
	Op       string
	Operand  Expression
}

func (e *UnaryExpression) Location() LexLocation { return e.Loc }
func (e *UnaryExpression) exprNode()             {}

// DerefExpression dereferences a pointer-typed value.
type DerefExpression struct {
	Loc     LexLocation
	Operand Expression
}

func (e *DerefExpression) Location() LexLocation { return e.Loc }
func (e *DerefExpression) exprNode()             {}

// AddressOfExpression takes the address of an lvalue.
type AddressOfExpression struct {
	Loc     LexLocation
	Operand Expression
}

func (e *AddressOfExpression) Location() LexLocation { return e.Loc }
func (e *AddressOfExpression) exprNode()             {}

// IfExpression is a branching value-producing form.
type IfExpression struct {
	Loc      LexLocation
	Cond     Expression
	ThenExpr Expression
	ElseExpr Expression // nil if no else branch
}

func (e *IfExpression) Location() LexLocation { return e.Loc }
func (e *IfExpression) exprNode()             {}

// MatchArm pairs a pattern with its result expression.
type MatchArm struct {
	Pattern Pattern
	Result  Expression
}

// MatchExpression destructures a scrutinee against a series of patterns.
type MatchExpression struct {
	Loc       LexLocation
	Scrutinee Expression
	Arms      []MatchArm
}

func (e *MatchExpression) Location() LexLocation { return e.Loc }
func (e *MatchExpression) exprNode()             {}

// BlockExpression is a Block used in expression position (its last
// statement's value, or an explicit yield, is the block's value).
type BlockExpression struct {
	*Block
}

func (e *BlockExpression) exprNode() {}

// DiscardingPattern matches anything and binds nothing (`_`).
type DiscardingPattern struct {
	Loc LexLocation
}

func (p *DiscardingPattern) Location() LexLocation { return p.Loc }
func (p *DiscardingPattern) patternNode()          {}

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	Loc   LexLocation
	Value string
}

func (p *LiteralPattern) Location() LexLocation { return p.Loc }
func (p *LiteralPattern) patternNode()           {}

// BindingPattern matches anything and binds it to Name.
type BindingPattern struct {
	Name    string
	NameLoc LexLocation
}

func (p *BindingPattern) Location() LexLocation { return p.NameLoc }
func (p *BindingPattern) patternNode()           {}

// VariantPattern matches a specific variant case, optionally destructuring
// its payload.
type VariantPattern struct {
	Loc        LexLocation
	CaseName   string
	CaseLoc    LexLocation
	DeclaredAt *ResolvedSite
	Payload    Pattern // nil if the case carries no payload
}

func (p *VariantPattern) Location() LexLocation { return p.Loc }
func (p *VariantPattern) patternNode()           {}

// StructPattern destructures a struct value field by field.
type StructPattern struct {
	Loc        LexLocation
	TypeName   string
	DeclaredAt *ResolvedSite
	Fields     map[string]Pattern
}

func (p *StructPattern) Location() LexLocation { return p.Loc }
func (p *StructPattern) patternNode()           {}
