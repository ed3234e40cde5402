// Package typecheck holds analyses used by semantic checking.
package typecheck

import (
	"github.com/ChihweiLHBird/wing/core/ast"
)

// StatementScanner records whether a body contains return or throw statements.
//
// The scan covers nested blocks, branches and loops, but treats every function
// definition (closures, declared functions, class constructors and methods) as
// opaque: a return inside an inner function does not return from the body
// being scanned.
//
// Flags only ever go from false to true and accumulate across Scan calls. Use a
// fresh scanner, or Reset, per body when results must not mix.
type StatementScanner struct {
	SeenReturn bool
	SeenThrow  bool
}

var _ ast.Visitor = (*StatementScanner)(nil)

// NewStatementScanner returns a scanner with both flags clear.
func NewStatementScanner() *StatementScanner {
	return &StatementScanner{}
}

// Scan visits each statement in order.
func (s *StatementScanner) Scan(stmts ...*ast.Stmt) {
	for _, stmt := range stmts {
		s.VisitStmt(stmt)
	}
}

// Reset clears both flags.
func (s *StatementScanner) Reset() {
	s.SeenReturn = false
	s.SeenThrow = false
}

func (s *StatementScanner) VisitStmt(stmt *ast.Stmt) {
	switch stmt.Kind.(type) {
	case *ast.Return:
		s.SeenReturn = true
	case *ast.Throw:
		s.SeenThrow = true
	}
	ast.WalkStmt(s, stmt)
}

// VisitFunctionDefinition does not descend: inner functions are out of scope.
func (s *StatementScanner) VisitFunctionDefinition(*ast.FunctionDefinition) {}

func (s *StatementScanner) VisitScope(scope *ast.Scope) { ast.WalkScope(s, scope) }

func (s *StatementScanner) VisitExpr(e ast.Expr) { ast.WalkExpr(s, e) }

func (s *StatementScanner) VisitClass(c *ast.Class) { ast.WalkClass(s, c) }

// ScanFunction scans the body of def itself with a fresh scanner. An
// expression body holds no statements and reports neither flag.
func ScanFunction(def *ast.FunctionDefinition) (seenReturn, seenThrow bool) {
	s := NewStatementScanner()
	s.Scan(def.Statements()...)
	return s.SeenReturn, s.SeenThrow
}
