// Package transform rewrites inflight closures found in preflight code into
// resources.
//
// A closure marked inflight (runtime phase) that appears directly in preflight
// (provisioning phase) code cannot be kept as a plain function value: the
// preflight program has no way to ship it to the runtime. The transform wraps
// it in a synthesized resource class whose single "handle" method is the
// original closure, and instantiates that class in place:
//
//	inflight (x) => { return x + 1; }
//
// becomes
//
//	((): resource => {
//	    resource $Resource1 {
//	        init(): $Resource1 {}
//	        inflight handle(x) { return x + 1; }
//	    }
//	    return new $Resource1();
//	})()
//
// Ordering: capture resolution must run after this pass. Synthesized closures
// leave Captures nil.
package transform

import (
	"time"

	"go.uber.org/zap"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/invariant"
)

// HandleMethod is the name of the method that carries a lifted closure.
const HandleMethod = "handle"

// InflightTransformer is an ast.Folder that lifts inflight closures.
//
// One transformer serves one compilation unit: its namer guarantees unique
// class names only among the names it generated. Not safe for concurrent use.
type InflightTransformer struct {
	currPhase ast.Phase
	depth     int
	lifted    int // every lift, independent of telemetry mode
	config    config
	telemetry Telemetry
}

var _ ast.Folder = (*InflightTransformer)(nil)

// NewInflightTransformer creates a transformer starting in preflight context.
func NewInflightTransformer(opts ...Option) *InflightTransformer {
	return &InflightTransformer{
		currPhase: ast.PhaseProvisioning,
		config:    newConfig(opts),
	}
}

// Telemetry returns metrics collected so far.
func (t *InflightTransformer) Telemetry() Telemetry {
	return t.telemetry
}

// TransformModule rewrites a whole compilation unit. m is consumed.
func (t *InflightTransformer) TransformModule(m *ast.Module) *ast.Module {
	invariant.NotNil(m, "module")
	invariant.NotNil(m.Body, "module body")

	start := time.Now()
	before := t.lifted
	out := ast.FoldModule(t, m)
	t.finish(start)

	t.config.logger.Debug("inflight transform complete",
		zap.String("file", m.File),
		zap.Int("lifted", t.lifted-before))
	return out
}

// TransformScope rewrites a scope in the current context. s is consumed.
func (t *InflightTransformer) TransformScope(s *ast.Scope) *ast.Scope {
	invariant.NotNil(s, "scope")

	start := time.Now()
	out := t.FoldScope(s)
	t.finish(start)
	return out
}

// TransformExpr rewrites a single expression in the current context. e is consumed.
func (t *InflightTransformer) TransformExpr(e ast.Expr) ast.Expr {
	invariant.NotNil(e, "expression")

	start := time.Now()
	out := t.FoldExpr(e)
	t.finish(start)
	return out
}

func (t *InflightTransformer) finish(start time.Time) {
	invariant.Postcondition(t.depth == 0, "function nesting unbalanced after transform: depth %d", t.depth)
	if t.config.telemetry >= TelemetryTiming {
		t.telemetry.TotalTime += time.Since(start)
	}
}

// ================================================================================================
// FOLDER OVERRIDES
// ================================================================================================

// FoldScope folds each statement of s in the current context.
func (t *InflightTransformer) FoldScope(s *ast.Scope) *ast.Scope {
	return ast.FoldScope(t, s)
}

// FoldStmt folds the children of s.
func (t *InflightTransformer) FoldStmt(s *ast.Stmt) *ast.Stmt {
	return ast.FoldStmt(t, s)
}

// FoldClass folds the members of c.
func (t *InflightTransformer) FoldClass(c *ast.Class) *ast.Class {
	return ast.FoldClass(t, c)
}

// FoldFunctionDefinition folds the body with the definition's own phase as
// context, restoring the enclosing phase afterwards.
func (t *InflightTransformer) FoldFunctionDefinition(d *ast.FunctionDefinition) *ast.FunctionDefinition {
	invariant.Invariant(d.Signature.Phase.IsAssigned(),
		"function definition at %s has no assigned phase", d.Span)

	saved := t.currPhase
	t.currPhase = d.Signature.Phase
	t.depth++
	if t.config.telemetry >= TelemetryBasic {
		t.telemetry.FunctionsEntered++
		if t.depth > t.telemetry.MaxDepth {
			t.telemetry.MaxDepth = t.depth
		}
	}

	out := ast.FoldFunctionDefinition(t, d)

	t.depth--
	t.currPhase = saved
	return out
}

// FoldExpr lifts e if it is an inflight closure in preflight context and
// folds its children otherwise.
func (t *InflightTransformer) FoldExpr(e ast.Expr) ast.Expr {
	// Runtime code never contains preflight code, so nothing below an inflight
	// scope needs lifting.
	if t.currPhase == ast.PhaseRuntime {
		if t.config.telemetry >= TelemetryBasic {
			t.telemetry.RuntimeSkips++
		}
		return e
	}

	closure, ok := e.(*ast.Closure)
	if !ok || closure.Def.Signature.Phase != ast.PhaseRuntime {
		// Preflight closures stay closures but may hold inflight closures deeper in.
		return ast.FoldExpr(t, e)
	}
	return t.lift(closure)
}

// ================================================================================================
// LIFT
// ================================================================================================

// lift replaces an inflight closure with an immediately invoked preflight
// closure that declares and instantiates a resource. Every synthesized node
// carries the closure's span.
func (t *InflightTransformer) lift(c *ast.Closure) ast.Expr {
	span := c.Span
	name := t.config.namer.Next(span)

	// resource $ResourceN {
	//   init(): $ResourceN {}
	//   inflight handle(...) { <closure body> }
	// }
	class := &ast.Class{
		Name:       ast.Sym(name, span),
		IsResource: true,
		Constructor: &ast.FunctionDefinition{
			Signature: ast.FunctionSignature{
				ReturnType: classType(name, span),
				Phase:      ast.PhaseProvisioning,
			},
			Body: &ast.BlockBody{Scope: &ast.Scope{Span: span}},
			Span: span,
		},
		Methods: []ast.Method{{Name: ast.Sym(HandleMethod, span), Def: c.Def}},
		Span:    span,
	}

	// return new $ResourceN();
	ret := &ast.Stmt{
		Kind: &ast.Return{Value: &ast.New{Class: classType(name, span), Span: span}},
		Span: span,
	}

	body := ast.NewScope(span, &ast.Stmt{Kind: &ast.ClassDecl{Class: class}, Span: span}, ret)

	// (): resource => { ...body }
	factory := &ast.Closure{
		Def: &ast.FunctionDefinition{
			Signature: ast.FunctionSignature{
				ReturnType: &ast.ResourceType{},
				Phase:      ast.PhaseProvisioning,
			},
			Body: &ast.BlockBody{Scope: body},
			Span: span,
		},
		Span: span,
	}

	t.lifted++
	if t.config.telemetry >= TelemetryBasic {
		t.telemetry.Lifted = t.lifted
	}
	t.config.logger.Debug("lifted inflight closure",
		zap.String("class", name),
		zap.Stringer("span", span))

	return &ast.Call{Callee: factory, Span: span}
}

func classType(name string, span ast.Span) *ast.UserDefinedType {
	return &ast.UserDefinedType{Root: ast.Sym(name, span), Span: span}
}
