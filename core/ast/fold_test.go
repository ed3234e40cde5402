package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChihweiLHBird/wing/core/ast"
)

// identity delegates every method to the package defaults.
type identity struct{}

func (f identity) FoldScope(s *ast.Scope) *ast.Scope { return ast.FoldScope(f, s) }
func (f identity) FoldStmt(s *ast.Stmt) *ast.Stmt    { return ast.FoldStmt(f, s) }
func (f identity) FoldExpr(e ast.Expr) ast.Expr      { return ast.FoldExpr(f, e) }
func (f identity) FoldClass(c *ast.Class) *ast.Class { return ast.FoldClass(f, c) }
func (f identity) FoldFunctionDefinition(d *ast.FunctionDefinition) *ast.FunctionDefinition {
	return ast.FoldFunctionDefinition(f, d)
}

// renamer rewrites references to one name and leaves everything else alone.
type renamer struct {
	from, to string
}

func (f renamer) FoldExpr(e ast.Expr) ast.Expr {
	if ref, ok := e.(*ast.Reference); ok && ref.Symbol.Name == f.from {
		return &ast.Reference{Symbol: ast.Sym(f.to, ref.Symbol.Span), Span: ref.Span}
	}
	return ast.FoldExpr(f, e)
}

func (f renamer) FoldScope(s *ast.Scope) *ast.Scope { return ast.FoldScope(f, s) }
func (f renamer) FoldStmt(s *ast.Stmt) *ast.Stmt    { return ast.FoldStmt(f, s) }
func (f renamer) FoldClass(c *ast.Class) *ast.Class { return ast.FoldClass(f, c) }
func (f renamer) FoldFunctionDefinition(d *ast.FunctionDefinition) *ast.FunctionDefinition {
	return ast.FoldFunctionDefinition(f, d)
}

var span = ast.Span{File: "app.w", Start: ast.Position{Line: 2, Column: 5, Offset: 12}, End: ast.Position{Line: 2, Column: 9, Offset: 16}}

// sample builds a module that touches every statement and expression kind.
func sample() *ast.Module {
	handler := ast.Func(ast.PhaseRuntime, []ast.Parameter{ast.Param("req", ast.Prim("str"))},
		ast.ReturnStmt(ast.Member(ast.Ref("req"), "body")))
	handler.Span = span

	class := &ast.Class{
		Name:       ast.Sym("Queue", span),
		IsResource: true,
		Fields: []ast.ClassField{
			{Name: ast.Sym("size", span), Type: ast.Prim("num"), Phase: ast.PhaseProvisioning},
		},
		Constructor: ast.Func(ast.PhaseProvisioning, nil, ast.LetStmt("x", ast.Num(1))),
		Methods: []ast.Method{
			{Name: ast.Sym("push", span), Def: ast.Func(ast.PhaseRuntime, nil, ast.ThrowStmt(ast.Str("full")))},
		},
		Parent:     ast.UserType("Base"),
		Implements: []*ast.UserDefinedType{ast.UserType("IQueue")},
		Span:       span,
	}

	return ast.NewModule("app.w",
		&ast.Stmt{Kind: &ast.Let{Name: ast.Sym("count", span), Reassignable: true, Type: ast.Prim("num"), Value: ast.Num(0)}, Span: span},
		&ast.Stmt{Kind: &ast.Assign{Target: ast.Ref("count"), Value: ast.Bin("+", ast.Ref("count"), ast.Num(1))}},
		ast.ExprStatement(&ast.Call{
			Callee: ast.Member(ast.Ref("bucket"), "onUpload"),
			Args: ast.ArgList{
				Positional: []ast.Expr{ast.ClosureExpr(handler)},
				Named:      []ast.NamedArg{{Name: ast.Sym("retries", span), Value: ast.Num(3)}},
			},
		}),
		&ast.Stmt{Kind: &ast.If{
			Condition: ast.Un("!", ast.Ref("ok")),
			Then:      ast.Body(&ast.Stmt{Kind: &ast.Break{}}),
			ElseIfs:   []ast.ElseIf{{Condition: ast.Bool(false), Body: ast.Body(&ast.Stmt{Kind: &ast.Continue{}})}},
			Else:      ast.Body(ast.ReturnStmt(nil)),
		}},
		ast.WhileStmt(ast.Bool(true), ast.BlockStmt()),
		ast.ForInStmt("item", ast.Array(ast.Num(1), ast.Str("two"), ast.NilLit()), ast.ExprStatement(ast.Ref("item"))),
		ast.TryStmt([]*ast.Stmt{ast.ThrowStmt(ast.Str("x"))}, "err", []*ast.Stmt{ast.ExprStatement(ast.Ref("err"))}),
		ast.LetStmt("m", &ast.MapLiteral{Entries: []ast.MapEntry{{Key: ast.Str("k"), Value: ast.NewExpr("Queue")}}}),
		ast.ClassStmt(class),
		ast.FuncStmt("main", ast.Func(ast.PhaseProvisioning, nil, ast.ReturnStmt(ast.Preflight()))),
	)
}

// TestFoldIdentity verifies the default fold rebuilds an equal tree
func TestFoldIdentity(t *testing.T) {
	out := ast.FoldModule(identity{}, sample())

	if diff := cmp.Diff(sample(), out); diff != "" {
		t.Errorf("identity fold changed the tree (-want +got):\n%s", diff)
	}
}

// TestFoldRebuildsNodes verifies folding produces new nodes rather than aliasing the input
func TestFoldRebuildsNodes(t *testing.T) {
	in := sample()
	out := ast.FoldModule(identity{}, in)

	assert.NotSame(t, in.Body, out.Body)
	assert.NotSame(t, in.Body.Statements[0], out.Body.Statements[0])

	inCall := in.Body.Statements[2].Kind.(*ast.ExprStmt).Value.(*ast.Call)
	outCall := out.Body.Statements[2].Kind.(*ast.ExprStmt).Value.(*ast.Call)
	assert.NotSame(t, inCall, outCall)
}

// TestFoldOverride verifies an overriding folder reaches nodes at every depth
func TestFoldOverride(t *testing.T) {
	out := ast.FoldModule(renamer{from: "count", to: "total"}, sample())

	assign := out.Body.Statements[1].Kind.(*ast.Assign)
	assert.Equal(t, "total", assign.Target.(*ast.Reference).Symbol.Name)
	assert.Equal(t, "total + 1", ast.Format(assign.Value))

	// Declarations are names, not references.
	let := out.Body.Statements[0].Kind.(*ast.Let)
	assert.Equal(t, "count", let.Name.Name)
}

// TestFoldKeepsMetadata verifies signature, captures, static flag and statement indices survive
func TestFoldKeepsMetadata(t *testing.T) {
	def := ast.Func(ast.PhaseRuntime, []ast.Parameter{ast.Param("a", ast.Prim("num"))}, ast.ReturnStmt(ast.Ref("a")))
	def.Captures = &ast.Captures{Symbols: []ast.Symbol{ast.Sym("bucket", span)}}
	def.IsStatic = true
	def.Span = span

	out := identity{}.FoldFunctionDefinition(def)

	assert.Equal(t, def.Signature, out.Signature)
	assert.Same(t, def.Captures, out.Captures)
	assert.True(t, out.IsStatic)
	assert.Equal(t, span, out.Span)

	scope := ast.Body(ast.LetStmt("a", ast.Num(1)), ast.LetStmt("b", ast.Num(2)))
	folded := identity{}.FoldScope(scope)
	require.Len(t, folded.Statements, 2)
	assert.Equal(t, 0, folded.Statements[0].Idx)
	assert.Equal(t, 1, folded.Statements[1].Idx)
}

// TestFoldExprBody verifies expression-bodied functions are folded
func TestFoldExprBody(t *testing.T) {
	def := &ast.FunctionDefinition{
		Signature: ast.FunctionSignature{Phase: ast.PhaseProvisioning},
		Body:      &ast.ExprBody{Value: ast.Ref("count")},
	}
	out := renamer{from: "count", to: "n"}.FoldFunctionDefinition(def)

	body, ok := out.Body.(*ast.ExprBody)
	require.True(t, ok)
	assert.Equal(t, "n", ast.Format(body.Value))
}

// TestFoldNilScope verifies absent optional scopes stay absent
func TestFoldNilScope(t *testing.T) {
	assert.Nil(t, ast.FoldScope(identity{}, nil))

	stmt := ast.IfStmt(ast.Ref("c"), nil, nil)
	out := ast.FoldStmt(identity{}, stmt)
	assert.Nil(t, out.Kind.(*ast.If).Else)
}
