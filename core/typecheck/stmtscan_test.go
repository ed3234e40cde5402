package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/typecheck"
)

type flags struct {
	ret, throw bool
}

func scan(stmts ...*ast.Stmt) flags {
	s := typecheck.NewStatementScanner()
	s.Scan(stmts...)
	return flags{s.SeenReturn, s.SeenThrow}
}

// TestStatementScanner covers where returns and throws are and are not counted
func TestStatementScanner(t *testing.T) {
	tests := []struct {
		name  string
		stmts []*ast.Stmt
		want  flags
	}{
		{
			name:  "empty body",
			stmts: nil,
			want:  flags{},
		},
		{
			name:  "top level return",
			stmts: []*ast.Stmt{ast.LetStmt("x", ast.Num(1)), ast.ReturnStmt(ast.Ref("x"))},
			want:  flags{ret: true},
		},
		{
			name:  "bare return",
			stmts: []*ast.Stmt{ast.ReturnStmt(nil)},
			want:  flags{ret: true},
		},
		{
			name:  "top level throw",
			stmts: []*ast.Stmt{ast.ThrowStmt(ast.Str("boom"))},
			want:  flags{throw: true},
		},
		{
			name: "return only in nested function",
			stmts: []*ast.Stmt{
				ast.FuncStmt("f", ast.Func(ast.PhaseProvisioning, nil, ast.ReturnStmt(ast.Num(1)))),
			},
			want: flags{},
		},
		{
			name: "branches",
			stmts: []*ast.Stmt{
				ast.IfStmt(ast.Ref("c"),
					[]*ast.Stmt{ast.ReturnStmt(ast.Ref("x"))},
					[]*ast.Stmt{ast.ThrowStmt(ast.Ref("y"))}),
			},
			want: flags{ret: true, throw: true},
		},
		{
			name: "else if arm",
			stmts: []*ast.Stmt{{Kind: &ast.If{
				Condition: ast.Ref("a"),
				Then:      ast.Body(),
				ElseIfs:   []ast.ElseIf{{Condition: ast.Ref("b"), Body: ast.Body(ast.ThrowStmt(ast.Str("no")))}},
			}}},
			want: flags{throw: true},
		},
		{
			name:  "loop body",
			stmts: []*ast.Stmt{ast.ForInStmt("i", ast.Ref("items"), ast.ReturnStmt(ast.Ref("i")))},
			want:  flags{ret: true},
		},
		{
			name:  "while body",
			stmts: []*ast.Stmt{ast.WhileStmt(ast.Bool(true), ast.ThrowStmt(ast.Str("loop")))},
			want:  flags{throw: true},
		},
		{
			name:  "nested blocks",
			stmts: []*ast.Stmt{ast.BlockStmt(ast.BlockStmt(ast.ReturnStmt(nil)))},
			want:  flags{ret: true},
		},
		{
			name: "try catch finally",
			stmts: []*ast.Stmt{{Kind: &ast.TryCatch{
				Try:     ast.Body(ast.ThrowStmt(ast.Str("a"))),
				Catch:   ast.Body(),
				Finally: ast.Body(ast.ReturnStmt(nil)),
			}}},
			want: flags{ret: true, throw: true},
		},
		{
			name: "closure in expression",
			stmts: []*ast.Stmt{
				ast.LetStmt("h", ast.Inflight(ast.ReturnStmt(ast.Num(1)), ast.ThrowStmt(ast.Str("x")))),
				ast.ExprStatement(ast.CallExpr(ast.Ref("on"), ast.Preflight(ast.ReturnStmt(nil)))),
			},
			want: flags{},
		},
		{
			name: "class methods and constructor",
			stmts: []*ast.Stmt{ast.ClassStmt(&ast.Class{
				Name:        ast.Sym("Api", ast.Span{}),
				Constructor: ast.Func(ast.PhaseProvisioning, nil, ast.ThrowStmt(ast.Str("init"))),
				Methods: []ast.Method{
					{Name: ast.Sym("get", ast.Span{}), Def: ast.Func(ast.PhaseRuntime, nil, ast.ReturnStmt(nil))},
				},
			})},
			want: flags{},
		},
		{
			name: "return value containing closure",
			stmts: []*ast.Stmt{
				ast.ReturnStmt(ast.Inflight(ast.ThrowStmt(ast.Str("inner")))),
			},
			want: flags{ret: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scan(tt.stmts...))
		})
	}
}

// TestStatementScannerAccumulates verifies flags are the OR over successive scans
func TestStatementScannerAccumulates(t *testing.T) {
	returns := []*ast.Stmt{ast.ReturnStmt(nil)}
	throws := []*ast.Stmt{ast.ThrowStmt(ast.Str("e"))}

	s := typecheck.NewStatementScanner()
	s.Scan(returns...)
	assert.True(t, s.SeenReturn)
	assert.False(t, s.SeenThrow)

	s.Scan(throws...)
	assert.True(t, s.SeenReturn, "earlier flag must not be cleared")
	assert.True(t, s.SeenThrow)

	s.Scan(ast.LetStmt("x", ast.Num(1)))
	assert.True(t, s.SeenReturn)
	assert.True(t, s.SeenThrow)

	s.Reset()
	assert.False(t, s.SeenReturn)
	assert.False(t, s.SeenThrow)
}

// TestStatementScannerReadOnly verifies scanning does not modify the tree
func TestStatementScannerReadOnly(t *testing.T) {
	stmts := []*ast.Stmt{
		ast.IfStmt(ast.Ref("c"), []*ast.Stmt{ast.ReturnStmt(ast.Inflight())}, nil),
	}
	before := ast.Format(ast.Body(stmts...))
	scan(stmts...)
	assert.Equal(t, before, ast.Format(ast.Body(stmts...)))
}

// TestScanFunction verifies a definition's own body is scanned
func TestScanFunction(t *testing.T) {
	def := ast.Func(ast.PhaseRuntime, nil,
		ast.IfStmt(ast.Ref("ok"), []*ast.Stmt{ast.ReturnStmt(ast.Num(1))}, nil),
		ast.LetStmt("inner", ast.Preflight(ast.ThrowStmt(ast.Str("x")))),
	)
	ret, throw := typecheck.ScanFunction(def)
	assert.True(t, ret)
	assert.False(t, throw)

	exprBodied := &ast.FunctionDefinition{
		Signature: ast.FunctionSignature{Phase: ast.PhaseRuntime},
		Body:      &ast.ExprBody{Value: ast.Num(1)},
	}
	ret, throw = typecheck.ScanFunction(exprBodied)
	assert.False(t, ret)
	assert.False(t, throw)
}
