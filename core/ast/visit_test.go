package ast_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ChihweiLHBird/wing/core/ast"
)

func kindOf(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Stmt:
		return fmt.Sprintf("stmt:%T", n.Kind)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// TestInspectOrder verifies preorder traversal through statements, expressions and definitions
func TestInspectOrder(t *testing.T) {
	m := ast.NewModule("app.w",
		ast.LetStmt("h", ast.Inflight(ast.ReturnStmt(ast.Ref("x")))),
		ast.IfStmt(ast.Ref("c"), []*ast.Stmt{ast.ThrowStmt(ast.Str("e"))}, nil),
	)

	var got []string
	ast.Inspect(m, func(n ast.Node) bool {
		got = append(got, kindOf(n))
		return true
	})

	want := []string{
		"*ast.Scope",
		"stmt:*ast.Let",
		"*ast.Closure",
		"*ast.FunctionDefinition",
		"*ast.Scope",
		"stmt:*ast.Return",
		"*ast.Reference",
		"stmt:*ast.If",
		"*ast.Reference",
		"*ast.Scope",
		"stmt:*ast.Throw",
		"*ast.Literal",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}

// TestInspectPrune verifies returning false skips a node's children
func TestInspectPrune(t *testing.T) {
	m := ast.NewModule("app.w",
		ast.FuncStmt("f", ast.Func(ast.PhaseProvisioning, nil, ast.ReturnStmt(ast.Num(1)))),
		ast.ReturnStmt(ast.Num(2)),
	)

	var returns int
	ast.Inspect(m, func(n ast.Node) bool {
		if _, ok := n.(*ast.FunctionDefinition); ok {
			return false
		}
		if s, ok := n.(*ast.Stmt); ok {
			if _, ok := s.Kind.(*ast.Return); ok {
				returns++
			}
		}
		return true
	})
	assert.Equal(t, 1, returns)
}

// TestInspectClass verifies constructor and methods are visited in order
func TestInspectClass(t *testing.T) {
	ctor := ast.Func(ast.PhaseProvisioning, nil)
	get := ast.Func(ast.PhaseRuntime, nil)
	put := ast.Func(ast.PhaseRuntime, nil)
	class := &ast.Class{
		Name:        ast.Sym("Store", ast.Span{}),
		Constructor: ctor,
		Methods: []ast.Method{
			{Name: ast.Sym("get", ast.Span{}), Def: get},
			{Name: ast.Sym("put", ast.Span{}), Def: put},
		},
	}

	var defs []*ast.FunctionDefinition
	ast.Inspect(class, func(n ast.Node) bool {
		if d, ok := n.(*ast.FunctionDefinition); ok {
			defs = append(defs, d)
		}
		return true
	})

	assert.Equal(t, []*ast.FunctionDefinition{ctor, get, put}, defs)

	def, ok := class.Method("put")
	assert.True(t, ok)
	assert.Same(t, put, def)
	_, ok = class.Method("delete")
	assert.False(t, ok)
}

// TestInspectArguments verifies positional arguments are visited before named ones
func TestInspectArguments(t *testing.T) {
	call := &ast.Call{
		Callee: ast.Ref("f"),
		Args: ast.ArgList{
			Positional: []ast.Expr{ast.Ref("a")},
			Named:      []ast.NamedArg{{Name: ast.Sym("b", ast.Span{}), Value: ast.Ref("c")}},
		},
	}

	var refs []string
	ast.Inspect(call, func(n ast.Node) bool {
		if r, ok := n.(*ast.Reference); ok {
			refs = append(refs, r.Symbol.Name)
		}
		return true
	})
	assert.Equal(t, []string{"f", "a", "c"}, refs)
	assert.Equal(t, 2, call.Args.Len())
}

type stray struct{}

func (stray) SourceSpan() ast.Span { return ast.Span{} }

// TestInspectUnknownNode verifies unsupported roots are rejected
func TestInspectUnknownNode(t *testing.T) {
	assert.PanicsWithValue(t, "ast: unknown node node ast_test.stray", func() {
		ast.Inspect(stray{}, func(ast.Node) bool { return true })
	})
}
