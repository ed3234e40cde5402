package ast

import "fmt"

// Visitor reads a tree without modifying it.
//
// As with Folder, each method is an override point. Delegate to the matching
// Walk function to continue into children; return without delegating to prune.
type Visitor interface {
	VisitScope(s *Scope)
	VisitStmt(s *Stmt)
	VisitExpr(e Expr)
	VisitFunctionDefinition(d *FunctionDefinition)
	VisitClass(c *Class)
}

// WalkScope visits each statement in order.
func WalkScope(v Visitor, s *Scope) {
	if s == nil {
		return
	}
	for _, stmt := range s.Statements {
		v.VisitStmt(stmt)
	}
}

// WalkStmt visits the children of a statement.
func WalkStmt(v Visitor, s *Stmt) {
	switch k := s.Kind.(type) {
	case *Let:
		v.VisitExpr(k.Value)
	case *Assign:
		v.VisitExpr(k.Target)
		v.VisitExpr(k.Value)
	case *ExprStmt:
		v.VisitExpr(k.Value)
	case *Return:
		if k.Value != nil {
			v.VisitExpr(k.Value)
		}
	case *Throw:
		v.VisitExpr(k.Value)
	case *If:
		v.VisitExpr(k.Condition)
		v.VisitScope(k.Then)
		for _, arm := range k.ElseIfs {
			v.VisitExpr(arm.Condition)
			v.VisitScope(arm.Body)
		}
		if k.Else != nil {
			v.VisitScope(k.Else)
		}
	case *While:
		v.VisitExpr(k.Condition)
		v.VisitScope(k.Body)
	case *ForIn:
		v.VisitExpr(k.Iterable)
		v.VisitScope(k.Body)
	case *Break, *Continue:
	case *Block:
		v.VisitScope(k.Body)
	case *TryCatch:
		v.VisitScope(k.Try)
		if k.Catch != nil {
			v.VisitScope(k.Catch)
		}
		if k.Finally != nil {
			v.VisitScope(k.Finally)
		}
	case *ClassDecl:
		v.VisitClass(k.Class)
	case *FuncDecl:
		v.VisitFunctionDefinition(k.Def)
	default:
		panic(unknownNode("statement", s.Kind))
	}
}

// WalkExpr visits the children of an expression.
func WalkExpr(v Visitor, e Expr) {
	switch n := e.(type) {
	case *Literal, *Reference:
	case *MemberAccess:
		v.VisitExpr(n.Object)
	case *Unary:
		v.VisitExpr(n.Operand)
	case *Binary:
		v.VisitExpr(n.Left)
		v.VisitExpr(n.Right)
	case *Call:
		v.VisitExpr(n.Callee)
		WalkArgList(v, n.Args)
	case *New:
		WalkArgList(v, n.Args)
	case *Closure:
		v.VisitFunctionDefinition(n.Def)
	case *ArrayLiteral:
		for _, item := range n.Items {
			v.VisitExpr(item)
		}
	case *MapLiteral:
		for _, entry := range n.Entries {
			v.VisitExpr(entry.Key)
			v.VisitExpr(entry.Value)
		}
	default:
		panic(unknownNode("expression", e))
	}
}

// WalkArgList visits positional then named arguments.
func WalkArgList(v Visitor, args ArgList) {
	for _, arg := range args.Positional {
		v.VisitExpr(arg)
	}
	for _, arg := range args.Named {
		v.VisitExpr(arg.Value)
	}
}

// WalkFunctionDefinition visits the body of a definition.
func WalkFunctionDefinition(v Visitor, d *FunctionDefinition) {
	switch b := d.Body.(type) {
	case *BlockBody:
		v.VisitScope(b.Scope)
	case *ExprBody:
		v.VisitExpr(b.Value)
	}
}

// WalkClass visits the constructor then each method.
func WalkClass(v Visitor, c *Class) {
	if c.Constructor != nil {
		v.VisitFunctionDefinition(c.Constructor)
	}
	for _, m := range c.Methods {
		v.VisitFunctionDefinition(m.Def)
	}
}

// ================================================================================================
// INSPECT
// ================================================================================================

// Inspect traverses node in preorder, calling fn for every scope, statement,
// expression, function definition and class. If fn returns false the node's
// children are skipped.
func Inspect(node Node, fn func(Node) bool) {
	in := inspector(fn)
	switch n := node.(type) {
	case *Module:
		in.VisitScope(n.Body)
	case *Scope:
		in.VisitScope(n)
	case *Stmt:
		in.VisitStmt(n)
	case Expr:
		in.VisitExpr(n)
	case *FunctionDefinition:
		in.VisitFunctionDefinition(n)
	case *Class:
		in.VisitClass(n)
	default:
		panic(unknownNode("node", node))
	}
}

type inspector func(Node) bool

func (in inspector) VisitScope(s *Scope) {
	if s != nil && in(s) {
		WalkScope(in, s)
	}
}

func (in inspector) VisitStmt(s *Stmt) {
	if in(s) {
		WalkStmt(in, s)
	}
}

func (in inspector) VisitExpr(e Expr) {
	if in(e) {
		WalkExpr(in, e)
	}
}

func (in inspector) VisitFunctionDefinition(d *FunctionDefinition) {
	if in(d) {
		WalkFunctionDefinition(in, d)
	}
}

func (in inspector) VisitClass(c *Class) {
	if in(c) {
		WalkClass(in, c)
	}
}

func unknownNode(what string, n any) string {
	return fmt.Sprintf("ast: unknown %s node %T", what, n)
}
