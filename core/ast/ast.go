package ast

import "fmt"

// Node is any AST node that carries a source span.
type Node interface {
	SourceSpan() Span
}

// ================================================================================================
// SOURCE LOCATIONS
// ================================================================================================

// Position is a single location in a source file.
type Position struct {
	Line   int
	Column int
	Offset int // Byte offset in source
}

// Span is the source range a node was parsed from.
type Span struct {
	File  string
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// ================================================================================================
// PHASES
// ================================================================================================

// Phase is the execution phase a function runs in.
type Phase int

const (
	PhaseUnassigned   Phase = iota // Not yet labelled by phase assignment
	PhaseProvisioning              // Deploy time ("preflight")
	PhaseRuntime                   // After deployment ("inflight")
)

func (p Phase) String() string {
	switch p {
	case PhaseProvisioning:
		return "preflight"
	case PhaseRuntime:
		return "inflight"
	default:
		return "unassigned"
	}
}

// IsAssigned reports whether p is a phase a definition may legally carry.
func (p Phase) IsAssigned() bool {
	return p == PhaseProvisioning || p == PhaseRuntime
}

// Symbol is a name together with where it was written.
type Symbol struct {
	Name string
	Span Span
}

// Sym creates a symbol at span.
func Sym(name string, span Span) Symbol {
	return Symbol{Name: name, Span: span}
}

func (s Symbol) String() string { return s.Name }

// ================================================================================================
// EXPRESSIONS
// ================================================================================================

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind distinguishes literal values.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBool
	LitNil
)

// Literal is a constant value. Value holds the source text of the literal.
type Literal struct {
	Kind  LiteralKind
	Value string
	Span  Span
}

// Reference names a variable in scope.
type Reference struct {
	Symbol Symbol
	Span   Span
}

// MemberAccess is object.property.
type MemberAccess struct {
	Object   Expr
	Property Symbol
	Span     Span
}

// Unary is a prefix operator applied to an operand.
type Unary struct {
	Op      string
	Operand Expr
	Span    Span
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Span  Span
}

// NamedArg is a name: value argument.
type NamedArg struct {
	Name  Symbol
	Value Expr
}

// ArgList holds call arguments. Named arguments keep source order.
type ArgList struct {
	Positional []Expr
	Named      []NamedArg
}

// Len returns the total number of arguments.
func (a ArgList) Len() int {
	return len(a.Positional) + len(a.Named)
}

// Call invokes Callee with Args.
type Call struct {
	Callee Expr
	Args   ArgList
	Span   Span
}

// New instantiates a class.
type New struct {
	Class TypeAnnotation
	Args  ArgList
	Span  Span
}

// Closure is an anonymous function value.
type Closure struct {
	Def  *FunctionDefinition
	Span Span
}

// ArrayLiteral is [a, b, c].
type ArrayLiteral struct {
	Items []Expr
	Span  Span
}

// MapEntry is one key => value pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLiteral is { key => value, ... }.
type MapLiteral struct {
	Entries []MapEntry
	Span    Span
}

func (e *Literal) SourceSpan() Span      { return e.Span }
func (e *Reference) SourceSpan() Span    { return e.Span }
func (e *MemberAccess) SourceSpan() Span { return e.Span }
func (e *Unary) SourceSpan() Span        { return e.Span }
func (e *Binary) SourceSpan() Span       { return e.Span }
func (e *Call) SourceSpan() Span         { return e.Span }
func (e *New) SourceSpan() Span          { return e.Span }
func (e *Closure) SourceSpan() Span      { return e.Span }
func (e *ArrayLiteral) SourceSpan() Span { return e.Span }
func (e *MapLiteral) SourceSpan() Span   { return e.Span }

func (*Literal) exprNode()      {}
func (*Reference) exprNode()    {}
func (*MemberAccess) exprNode() {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Call) exprNode()         {}
func (*New) exprNode()          {}
func (*Closure) exprNode()      {}
func (*ArrayLiteral) exprNode() {}
func (*MapLiteral) exprNode()   {}

// ================================================================================================
// TYPE ANNOTATIONS
// ================================================================================================

// TypeAnnotation is a written type.
type TypeAnnotation interface {
	String() string
	typeNode()
}

// PrimitiveType is a builtin type such as num, str, bool or void.
type PrimitiveType struct {
	Name string
}

// UserDefinedType references a declared type, optionally through a member path (a.b.C).
type UserDefinedType struct {
	Root   Symbol
	Fields []Symbol
	Span   Span
}

// ResourceType is the opaque "some resource" marker.
type ResourceType struct{}

// OptionalType is T?.
type OptionalType struct {
	Inner TypeAnnotation
}

func (t *PrimitiveType) String() string { return t.Name }

func (t *UserDefinedType) String() string {
	name := t.Root.Name
	for _, f := range t.Fields {
		name += "." + f.Name
	}
	return name
}

func (*ResourceType) String() string { return "resource" }

func (t *OptionalType) String() string { return t.Inner.String() + "?" }

func (*PrimitiveType) typeNode()   {}
func (*UserDefinedType) typeNode() {}
func (*ResourceType) typeNode()    {}
func (*OptionalType) typeNode()    {}

// ================================================================================================
// FUNCTIONS
// ================================================================================================

// Parameter is one declared function parameter.
type Parameter struct {
	Name         Symbol
	Type         TypeAnnotation
	Reassignable bool
}

// FunctionSignature is everything about a function except its body.
type FunctionSignature struct {
	Parameters []Parameter
	ReturnType TypeAnnotation // nil when not written
	Phase      Phase
}

// FunctionBody is either a statement block or a single expression.
type FunctionBody interface {
	bodyNode()
}

// BlockBody is a { ... } function body.
type BlockBody struct {
	Scope *Scope
}

// ExprBody is an expression-bodied function.
type ExprBody struct {
	Value Expr
}

func (*BlockBody) bodyNode() {}
func (*ExprBody) bodyNode()  {}

// Captures lists the free variables a function closes over.
// Filled in by capture resolution, which runs after the inflight transform.
type Captures struct {
	Symbols []Symbol
}

// FunctionDefinition is a closure, method, constructor or declared function.
type FunctionDefinition struct {
	Signature FunctionSignature
	Body      FunctionBody
	Captures  *Captures // nil until resolved
	IsStatic  bool
	Span      Span
}

func (d *FunctionDefinition) SourceSpan() Span { return d.Span }

// Statements returns the body statements of a block-bodied function, or nil.
func (d *FunctionDefinition) Statements() []*Stmt {
	if b, ok := d.Body.(*BlockBody); ok && b.Scope != nil {
		return b.Scope.Statements
	}
	return nil
}

// ================================================================================================
// CLASSES
// ================================================================================================

// ClassField is a declared member variable.
type ClassField struct {
	Name         Symbol
	Type         TypeAnnotation
	Reassignable bool
	Phase        Phase
	IsStatic     bool
}

// Method is a named member function.
type Method struct {
	Name Symbol
	Def  *FunctionDefinition
}

// Class is a class or resource declaration.
type Class struct {
	Name        Symbol
	IsResource  bool
	Constructor *FunctionDefinition
	Fields      []ClassField
	Methods     []Method
	Parent      *UserDefinedType
	Implements  []*UserDefinedType
	Span        Span
}

func (c *Class) SourceSpan() Span { return c.Span }

// Method returns the method called name, if any.
func (c *Class) Method(name string) (*FunctionDefinition, bool) {
	for _, m := range c.Methods {
		if m.Name.Name == name {
			return m.Def, true
		}
	}
	return nil, false
}

// ================================================================================================
// STATEMENTS
// ================================================================================================

// Stmt is a statement. Idx is the statement's position within its enclosing scope.
type Stmt struct {
	Kind StmtKind
	Idx  int
	Span Span
}

func (s *Stmt) SourceSpan() Span { return s.Span }

// StmtKind is the variant part of a statement.
type StmtKind interface {
	stmtKind()
}

// Let declares a variable.
type Let struct {
	Name         Symbol
	Reassignable bool
	Type         TypeAnnotation // nil when inferred
	Value        Expr
}

// Assign stores Value into Target (a Reference or MemberAccess).
type Assign struct {
	Target Expr
	Value  Expr
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Value Expr
}

// Return leaves the enclosing function. Value is nil for a bare return.
type Return struct {
	Value Expr
}

// Throw raises an error.
type Throw struct {
	Value Expr
}

// ElseIf is one "else if" arm.
type ElseIf struct {
	Condition Expr
	Body      *Scope
}

// If is a conditional with optional else-if arms and else branch.
type If struct {
	Condition Expr
	Then      *Scope
	ElseIfs   []ElseIf
	Else      *Scope // nil when absent
}

// While loops while Condition holds.
type While struct {
	Condition Expr
	Body      *Scope
}

// ForIn iterates over Iterable binding Iterator.
type ForIn struct {
	Iterator Symbol
	Iterable Expr
	Body     *Scope
}

// Break exits the innermost loop.
type Break struct{}

// Continue skips to the next loop iteration.
type Continue struct{}

// Block is a nested scope.
type Block struct {
	Body *Scope
}

// TryCatch is try/catch/finally. CatchVar, Catch and Finally are optional.
type TryCatch struct {
	Try      *Scope
	CatchVar *Symbol
	Catch    *Scope
	Finally  *Scope
}

// ClassDecl declares a class or resource.
type ClassDecl struct {
	Class *Class
}

// FuncDecl declares a named function.
type FuncDecl struct {
	Name Symbol
	Def  *FunctionDefinition
}

func (*Let) stmtKind()       {}
func (*Assign) stmtKind()    {}
func (*ExprStmt) stmtKind()  {}
func (*Return) stmtKind()    {}
func (*Throw) stmtKind()     {}
func (*If) stmtKind()        {}
func (*While) stmtKind()     {}
func (*ForIn) stmtKind()     {}
func (*Break) stmtKind()     {}
func (*Continue) stmtKind()  {}
func (*Block) stmtKind()     {}
func (*TryCatch) stmtKind()  {}
func (*ClassDecl) stmtKind() {}
func (*FuncDecl) stmtKind()  {}

// ================================================================================================
// SCOPES AND MODULES
// ================================================================================================

// Scope is an ordered list of statements. Order is execution order.
type Scope struct {
	Statements []*Stmt
	Span       Span
}

func (s *Scope) SourceSpan() Span { return s.Span }

// NewScope creates a scope and numbers its statements.
func NewScope(span Span, stmts ...*Stmt) *Scope {
	for i, stmt := range stmts {
		stmt.Idx = i
	}
	return &Scope{Statements: stmts, Span: span}
}

// Module is one compilation unit.
type Module struct {
	File string
	Body *Scope
}

func (m *Module) SourceSpan() Span {
	if m.Body == nil {
		return Span{File: m.File}
	}
	return m.Body.Span
}
