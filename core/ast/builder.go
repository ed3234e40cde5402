package ast

import (
	"fmt"
	"strconv"
)

// Builders for constructing trees in tests and tooling. Nodes get a zero span
// unless noted; set Span fields directly where locations matter.

// Num creates a number literal.
func Num(value interface{}) *Literal {
	switch v := value.(type) {
	case int:
		return &Literal{Kind: LitNumber, Value: strconv.Itoa(v)}
	case float64:
		return &Literal{Kind: LitNumber, Value: strconv.FormatFloat(v, 'g', -1, 64)}
	case string:
		return &Literal{Kind: LitNumber, Value: v}
	default:
		return &Literal{Kind: LitNumber, Value: fmt.Sprintf("%v", v)}
	}
}

// Str creates a string literal.
func Str(value string) *Literal {
	return &Literal{Kind: LitString, Value: value}
}

// Bool creates a boolean literal.
func Bool(value bool) *Literal {
	return &Literal{Kind: LitBool, Value: strconv.FormatBool(value)}
}

// NilLit creates the nil literal.
func NilLit() *Literal {
	return &Literal{Kind: LitNil, Value: "nil"}
}

// Ref creates a variable reference.
func Ref(name string) *Reference {
	return &Reference{Symbol: Symbol{Name: name}}
}

// Member creates object.property.
func Member(object Expr, property string) *MemberAccess {
	return &MemberAccess{Object: object, Property: Symbol{Name: property}}
}

// Bin creates a binary expression.
func Bin(op string, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Un creates a unary expression.
func Un(op string, operand Expr) *Unary {
	return &Unary{Op: op, Operand: operand}
}

// CallExpr creates a call with positional arguments.
func CallExpr(callee Expr, args ...Expr) *Call {
	return &Call{Callee: callee, Args: ArgList{Positional: args}}
}

// NewExpr creates new Class(args...).
func NewExpr(class string, args ...Expr) *New {
	return &New{Class: UserType(class), Args: ArgList{Positional: args}}
}

// Array creates an array literal.
func Array(items ...Expr) *ArrayLiteral {
	return &ArrayLiteral{Items: items}
}

// Prim creates a primitive type annotation.
func Prim(name string) *PrimitiveType {
	return &PrimitiveType{Name: name}
}

// UserType creates a reference to a declared type.
func UserType(name string) *UserDefinedType {
	return &UserDefinedType{Root: Symbol{Name: name}}
}

// Param creates a parameter.
func Param(name string, typ TypeAnnotation) Parameter {
	return Parameter{Name: Symbol{Name: name}, Type: typ}
}

// Func creates a block-bodied function definition.
func Func(phase Phase, params []Parameter, stmts ...*Stmt) *FunctionDefinition {
	return &FunctionDefinition{
		Signature: FunctionSignature{Parameters: params, Phase: phase},
		Body:      &BlockBody{Scope: NewScope(Span{}, stmts...)},
	}
}

// ClosureExpr wraps a definition as a closure expression.
func ClosureExpr(def *FunctionDefinition) *Closure {
	return &Closure{Def: def, Span: def.Span}
}

// Preflight creates a zero-parameter provisioning-phase closure.
func Preflight(stmts ...*Stmt) *Closure {
	return ClosureExpr(Func(PhaseProvisioning, nil, stmts...))
}

// Inflight creates a zero-parameter runtime-phase closure.
func Inflight(stmts ...*Stmt) *Closure {
	return ClosureExpr(Func(PhaseRuntime, nil, stmts...))
}

// Body creates a scope from statements.
func Body(stmts ...*Stmt) *Scope {
	return NewScope(Span{}, stmts...)
}

// NewModule creates a module whose top-level body is stmts.
func NewModule(file string, stmts ...*Stmt) *Module {
	return &Module{File: file, Body: Body(stmts...)}
}

// LetStmt creates let name = value.
func LetStmt(name string, value Expr) *Stmt {
	return &Stmt{Kind: &Let{Name: Symbol{Name: name}, Value: value}}
}

// ExprStatement creates an expression statement.
func ExprStatement(value Expr) *Stmt {
	return &Stmt{Kind: &ExprStmt{Value: value}}
}

// ReturnStmt creates return value; value may be nil.
func ReturnStmt(value Expr) *Stmt {
	return &Stmt{Kind: &Return{Value: value}}
}

// ThrowStmt creates throw value.
func ThrowStmt(value Expr) *Stmt {
	return &Stmt{Kind: &Throw{Value: value}}
}

// IfStmt creates if cond { then } else { els }. A nil els omits the else branch.
func IfStmt(cond Expr, then []*Stmt, els []*Stmt) *Stmt {
	stmt := &If{Condition: cond, Then: Body(then...)}
	if els != nil {
		stmt.Else = Body(els...)
	}
	return &Stmt{Kind: stmt}
}

// WhileStmt creates while cond { body }.
func WhileStmt(cond Expr, body ...*Stmt) *Stmt {
	return &Stmt{Kind: &While{Condition: cond, Body: Body(body...)}}
}

// ForInStmt creates for iterator in iterable { body }.
func ForInStmt(iterator string, iterable Expr, body ...*Stmt) *Stmt {
	return &Stmt{Kind: &ForIn{Iterator: Symbol{Name: iterator}, Iterable: iterable, Body: Body(body...)}}
}

// BlockStmt creates a nested block.
func BlockStmt(body ...*Stmt) *Stmt {
	return &Stmt{Kind: &Block{Body: Body(body...)}}
}

// TryStmt creates try { body } catch err { catch }.
func TryStmt(body []*Stmt, catchVar string, catch []*Stmt) *Stmt {
	stmt := &TryCatch{Try: Body(body...)}
	if catch != nil {
		stmt.Catch = Body(catch...)
		if catchVar != "" {
			stmt.CatchVar = &Symbol{Name: catchVar}
		}
	}
	return &Stmt{Kind: stmt}
}

// FuncStmt creates a named function declaration.
func FuncStmt(name string, def *FunctionDefinition) *Stmt {
	return &Stmt{Kind: &FuncDecl{Name: Symbol{Name: name}, Def: def}}
}

// ClassStmt creates a class declaration statement.
func ClassStmt(class *Class) *Stmt {
	return &Stmt{Kind: &ClassDecl{Class: class}, Span: class.Span}
}
