package astfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ChihweiLHBird/wing/core/ast"
)

// DefaultMaxDepth bounds statement, expression and function nesting on read.
const DefaultMaxDepth = 1000

// Option configures Read and ReadCBOR.
type Option func(*readConfig)

type readConfig struct {
	maxDepth int
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *readConfig) {
		c.maxDepth = n
	}
}

func newReadConfig(opts []Option) readConfig {
	c := readConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Read parses a JSON document. The document is validated against the
// embedded schema before decoding.
func Read(r io.Reader, opts ...Option) (*ast.Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return decodeDocument(&doc, newReadConfig(opts))
}

// ReadCBOR parses a CBOR document. CBOR input is not schema-validated; the
// decoder still rejects unknown kinds and missing required children.
func ReadCBOR(r io.Reader, opts ...Option) (*ast.Module, error) {
	cfg := newReadConfig(opts)

	dm, err := cbor.DecOptions{
		MaxNestedLevels: cborNestingFor(cfg.maxDepth),
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decoder: %w", err)
	}

	var doc document
	if err := dm.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cbor: %w", err)
	}
	return decodeDocument(&doc, cfg)
}

// cborNestingFor converts a node depth into a CBOR container depth. Each node
// level costs a few containers (node map, scope map, statement array).
func cborNestingFor(maxDepth int) int {
	n := maxDepth*4 + 16
	switch {
	case n < 16:
		return 16
	case n > 65535:
		return 65535
	}
	return n
}

func decodeDocument(doc *document, cfg readConfig) (*ast.Module, error) {
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.Body == nil {
		return nil, fmt.Errorf("%w: missing body", ErrSchema)
	}

	d := &decoder{maxDepth: cfg.maxDepth}
	body, err := d.scope(doc.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Module{File: doc.File, Body: body}, nil
}

// ================================================================================================
// DECODER
// ================================================================================================

type decoder struct {
	depth    int
	maxDepth int
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrTooDeep, d.maxDepth)
	}
	return nil
}

func (d *decoder) leave() { d.depth-- }

func missing(kind string, span ast.Span, field string) error {
	return fmt.Errorf("%w: %s at %s: missing %s", ErrSchema, kind, span, field)
}

func decodeSpan(s *wireSpan) ast.Span {
	if s == nil {
		return ast.Span{}
	}
	return ast.Span{
		File:  s.File,
		Start: ast.Position{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   ast.Position{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

func decodeSymbol(s wireSymbol) ast.Symbol {
	return ast.Symbol{Name: s.Name, Span: decodeSpan(s.Span)}
}

func decodeSymbols(in []wireSymbol) []ast.Symbol {
	if in == nil {
		return nil
	}
	out := make([]ast.Symbol, len(in))
	for i, s := range in {
		out[i] = decodeSymbol(s)
	}
	return out
}

func decodePhase(name string) (ast.Phase, error) {
	switch name {
	case "":
		return ast.PhaseUnassigned, nil
	case "preflight":
		return ast.PhaseProvisioning, nil
	case "inflight":
		return ast.PhaseRuntime, nil
	default:
		return ast.PhaseUnassigned, unknownKind("phase", name, phaseNames)
	}
}

func decodeLiteralKind(name string) (ast.LiteralKind, error) {
	switch name {
	case "number":
		return ast.LitNumber, nil
	case "string":
		return ast.LitString, nil
	case "bool":
		return ast.LitBool, nil
	case "nil":
		return ast.LitNil, nil
	default:
		return 0, unknownKind("literal", name, literalKinds)
	}
}

// optScope decodes a scope that may be absent.
func (d *decoder) optScope(s *wireScope) (*ast.Scope, error) {
	if s == nil {
		return nil, nil
	}
	return d.scope(s)
}

func (d *decoder) scope(s *wireScope) (*ast.Scope, error) {
	var stmts []*ast.Stmt
	if s.Statements != nil {
		stmts = make([]*ast.Stmt, len(s.Statements))
	}
	for i, ws := range s.Statements {
		stmt, err := d.stmt(ws)
		if err != nil {
			return nil, err
		}
		stmts[i] = stmt
	}
	return ast.NewScope(decodeSpan(s.Span), stmts...), nil
}

func (d *decoder) stmt(s *wireStmt) (*ast.Stmt, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: null statement", ErrSchema)
	}
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	span := decodeSpan(s.Span)
	kind, err := d.stmtKind(s, span)
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{Kind: kind, Span: span}, nil
}

func (d *decoder) stmtKind(s *wireStmt, span ast.Span) (ast.StmtKind, error) {
	switch s.Kind {
	case stmtLet:
		if s.Name == nil {
			return nil, missing(s.Kind, span, "name")
		}
		value, err := d.reqExpr(s.Kind, span, "value", s.Value)
		if err != nil {
			return nil, err
		}
		typ, err := d.optType(s.Type)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Name: decodeSymbol(*s.Name), Reassignable: s.Reassignable, Type: typ, Value: value}, nil

	case stmtAssign:
		target, err := d.reqExpr(s.Kind, span, "target", s.Target)
		if err != nil {
			return nil, err
		}
		value, err := d.reqExpr(s.Kind, span, "value", s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: target, Value: value}, nil

	case stmtExpr:
		value, err := d.reqExpr(s.Kind, span, "value", s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: value}, nil

	case stmtReturn:
		value, err := d.optExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil

	case stmtThrow:
		value, err := d.reqExpr(s.Kind, span, "value", s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Throw{Value: value}, nil

	case stmtIf:
		cond, err := d.reqExpr(s.Kind, span, "condition", s.Condition)
		if err != nil {
			return nil, err
		}
		if s.Then == nil {
			return nil, missing(s.Kind, span, "then")
		}
		then, err := d.scope(s.Then)
		if err != nil {
			return nil, err
		}
		var arms []ast.ElseIf
		for _, arm := range s.ElseIfs {
			c, err := d.reqExpr("else if", span, "condition", arm.Condition)
			if err != nil {
				return nil, err
			}
			if arm.Body == nil {
				return nil, missing("else if", span, "body")
			}
			body, err := d.scope(arm.Body)
			if err != nil {
				return nil, err
			}
			arms = append(arms, ast.ElseIf{Condition: c, Body: body})
		}
		els, err := d.optScope(s.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Condition: cond, Then: then, ElseIfs: arms, Else: els}, nil

	case stmtWhile:
		cond, err := d.reqExpr(s.Kind, span, "condition", s.Condition)
		if err != nil {
			return nil, err
		}
		body, err := d.reqScope(s.Kind, span, s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Condition: cond, Body: body}, nil

	case stmtForIn:
		if s.Iterator == nil {
			return nil, missing(s.Kind, span, "iterator")
		}
		iterable, err := d.reqExpr(s.Kind, span, "iterable", s.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := d.reqScope(s.Kind, span, s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForIn{Iterator: decodeSymbol(*s.Iterator), Iterable: iterable, Body: body}, nil

	case stmtBreak:
		return &ast.Break{}, nil

	case stmtContinue:
		return &ast.Continue{}, nil

	case stmtBlock:
		body, err := d.reqScope(s.Kind, span, s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Body: body}, nil

	case stmtTry:
		body, err := d.reqScope(s.Kind, span, s.Body)
		if err != nil {
			return nil, err
		}
		catch, err := d.optScope(s.Catch)
		if err != nil {
			return nil, err
		}
		finally, err := d.optScope(s.Finally)
		if err != nil {
			return nil, err
		}
		var catchVar *ast.Symbol
		if s.CatchVar != nil {
			sym := decodeSymbol(*s.CatchVar)
			catchVar = &sym
		}
		return &ast.TryCatch{Try: body, CatchVar: catchVar, Catch: catch, Finally: finally}, nil

	case stmtClass:
		if s.Class == nil {
			return nil, missing(s.Kind, span, "class")
		}
		class, err := d.class(s.Class)
		if err != nil {
			return nil, err
		}
		return &ast.ClassDecl{Class: class}, nil

	case stmtFn:
		if s.Name == nil {
			return nil, missing(s.Kind, span, "name")
		}
		if s.Def == nil {
			return nil, missing(s.Kind, span, "def")
		}
		def, err := d.function(s.Def)
		if err != nil {
			return nil, err
		}
		return &ast.FuncDecl{Name: decodeSymbol(*s.Name), Def: def}, nil

	default:
		return nil, fmt.Errorf("at %s: %w", span, unknownKind("statement", s.Kind, stmtKinds))
	}
}

func (d *decoder) reqScope(kind string, span ast.Span, s *wireScope) (*ast.Scope, error) {
	if s == nil {
		return nil, missing(kind, span, "body")
	}
	return d.scope(s)
}

func (d *decoder) reqExpr(kind string, span ast.Span, field string, e *wireExpr) (ast.Expr, error) {
	if e == nil {
		return nil, missing(kind, span, field)
	}
	return d.expr(e)
}

func (d *decoder) optExpr(e *wireExpr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return d.expr(e)
}

func (d *decoder) exprs(in []*wireExpr, kind string, span ast.Span, field string) ([]ast.Expr, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]ast.Expr, len(in))
	for i, e := range in {
		v, err := d.reqExpr(kind, span, field, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) expr(e *wireExpr) (ast.Expr, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	span := decodeSpan(e.Span)
	switch e.Kind {
	case exprLiteral:
		kind, err := decodeLiteralKind(e.Literal)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", span, err)
		}
		return &ast.Literal{Kind: kind, Value: e.Text, Span: span}, nil

	case exprRef:
		if e.Symbol == nil {
			return nil, missing(e.Kind, span, "symbol")
		}
		return &ast.Reference{Symbol: decodeSymbol(*e.Symbol), Span: span}, nil

	case exprMember:
		obj, err := d.reqExpr(e.Kind, span, "object", e.Object)
		if err != nil {
			return nil, err
		}
		if e.Symbol == nil {
			return nil, missing(e.Kind, span, "symbol")
		}
		return &ast.MemberAccess{Object: obj, Property: decodeSymbol(*e.Symbol), Span: span}, nil

	case exprUnary:
		operand, err := d.reqExpr(e.Kind, span, "operand", e.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: e.Op, Operand: operand, Span: span}, nil

	case exprBinary:
		left, err := d.reqExpr(e.Kind, span, "left", e.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.reqExpr(e.Kind, span, "right", e.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: e.Op, Left: left, Right: right, Span: span}, nil

	case exprCall:
		callee, err := d.reqExpr(e.Kind, span, "callee", e.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.args(e.Args, span)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Callee: callee, Args: args, Span: span}, nil

	case exprNew:
		if e.Class == nil {
			return nil, missing(e.Kind, span, "class")
		}
		class, err := d.typ(e.Class)
		if err != nil {
			return nil, err
		}
		args, err := d.args(e.Args, span)
		if err != nil {
			return nil, err
		}
		return &ast.New{Class: class, Args: args, Span: span}, nil

	case exprClosure:
		if e.Def == nil {
			return nil, missing(e.Kind, span, "def")
		}
		def, err := d.function(e.Def)
		if err != nil {
			return nil, err
		}
		return &ast.Closure{Def: def, Span: span}, nil

	case exprArray:
		items, err := d.exprs(e.Items, e.Kind, span, "item")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Items: items, Span: span}, nil

	case exprMap:
		var entries []ast.MapEntry
		if e.Entries != nil {
			entries = make([]ast.MapEntry, len(e.Entries))
		}
		for i, entry := range e.Entries {
			key, err := d.reqExpr(e.Kind, span, "key", entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := d.reqExpr(e.Kind, span, "value", entry.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = ast.MapEntry{Key: key, Value: value}
		}
		return &ast.MapLiteral{Entries: entries, Span: span}, nil

	default:
		return nil, fmt.Errorf("at %s: %w", span, unknownKind("expression", e.Kind, exprKinds))
	}
}

func (d *decoder) args(a *wireArgs, span ast.Span) (ast.ArgList, error) {
	if a == nil {
		return ast.ArgList{}, nil
	}
	positional, err := d.exprs(a.Positional, "call", span, "argument")
	if err != nil {
		return ast.ArgList{}, err
	}
	var named []ast.NamedArg
	if a.Named != nil {
		named = make([]ast.NamedArg, len(a.Named))
	}
	for i, n := range a.Named {
		v, err := d.reqExpr("call", span, "named argument value", n.Value)
		if err != nil {
			return ast.ArgList{}, err
		}
		named[i] = ast.NamedArg{Name: decodeSymbol(n.Name), Value: v}
	}
	return ast.ArgList{Positional: positional, Named: named}, nil
}

func (d *decoder) optType(t *wireType) (ast.TypeAnnotation, error) {
	if t == nil {
		return nil, nil
	}
	return d.typ(t)
}

func (d *decoder) typ(t *wireType) (ast.TypeAnnotation, error) {
	span := decodeSpan(t.Span)
	switch t.Kind {
	case typePrimitive:
		return &ast.PrimitiveType{Name: t.Name}, nil
	case typeUser:
		return d.userType(t)
	case typeResource:
		return &ast.ResourceType{}, nil
	case typeOptional:
		if t.Inner == nil {
			return nil, missing(t.Kind, span, "inner")
		}
		inner, err := d.typ(t.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.OptionalType{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("at %s: %w", span, unknownKind("type", t.Kind, typeKinds))
	}
}

func (d *decoder) userType(t *wireType) (*ast.UserDefinedType, error) {
	span := decodeSpan(t.Span)
	if t.Kind != typeUser {
		return nil, fmt.Errorf("%w: expected user type at %s, got %q", ErrSchema, span, t.Kind)
	}
	if t.Root == nil {
		return nil, missing(t.Kind, span, "root")
	}
	return &ast.UserDefinedType{Root: decodeSymbol(*t.Root), Fields: decodeSymbols(t.Fields), Span: span}, nil
}

func (d *decoder) function(f *wireFunc) (*ast.FunctionDefinition, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	span := decodeSpan(f.Span)
	phase, err := decodePhase(f.Phase)
	if err != nil {
		return nil, fmt.Errorf("at %s: %w", span, err)
	}

	var params []ast.Parameter
	if f.Params != nil {
		params = make([]ast.Parameter, len(f.Params))
	}
	for i, p := range f.Params {
		typ, err := d.optType(p.Type)
		if err != nil {
			return nil, err
		}
		params[i] = ast.Parameter{Name: decodeSymbol(p.Name), Type: typ, Reassignable: p.Reassignable}
	}
	returns, err := d.optType(f.Returns)
	if err != nil {
		return nil, err
	}

	var body ast.FunctionBody
	switch {
	case f.Body != nil && f.Expr != nil:
		return nil, fmt.Errorf("%w: function at %s has both a block and an expression body", ErrSchema, span)
	case f.Expr != nil:
		v, err := d.expr(f.Expr)
		if err != nil {
			return nil, err
		}
		body = &ast.ExprBody{Value: v}
	default:
		// A missing body is an empty block.
		scope := &ast.Scope{}
		if f.Body != nil {
			if scope, err = d.scope(f.Body); err != nil {
				return nil, err
			}
		}
		body = &ast.BlockBody{Scope: scope}
	}

	var captures *ast.Captures
	if f.Captures != nil {
		captures = &ast.Captures{Symbols: decodeSymbols(f.Captures.Symbols)}
	}

	return &ast.FunctionDefinition{
		Signature: ast.FunctionSignature{Parameters: params, ReturnType: returns, Phase: phase},
		Body:      body,
		Captures:  captures,
		IsStatic:  f.Static,
		Span:      span,
	}, nil
}

func (d *decoder) class(c *wireClass) (*ast.Class, error) {
	span := decodeSpan(c.Span)
	out := &ast.Class{
		Name:       decodeSymbol(c.Name),
		IsResource: c.Resource,
		Span:       span,
	}

	if c.Constructor != nil {
		ctor, err := d.function(c.Constructor)
		if err != nil {
			return nil, err
		}
		out.Constructor = ctor
	}

	if c.Fields != nil {
		out.Fields = make([]ast.ClassField, len(c.Fields))
	}
	for i, f := range c.Fields {
		typ, err := d.optType(f.Type)
		if err != nil {
			return nil, err
		}
		phase, err := decodePhase(f.Phase)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name.Name, err)
		}
		out.Fields[i] = ast.ClassField{
			Name:         decodeSymbol(f.Name),
			Type:         typ,
			Reassignable: f.Reassignable,
			Phase:        phase,
			IsStatic:     f.Static,
		}
	}

	if c.Methods != nil {
		out.Methods = make([]ast.Method, len(c.Methods))
	}
	for i, m := range c.Methods {
		if m.Def == nil {
			return nil, missing("method "+m.Name.Name, span, "def")
		}
		def, err := d.function(m.Def)
		if err != nil {
			return nil, err
		}
		out.Methods[i] = ast.Method{Name: decodeSymbol(m.Name), Def: def}
	}

	if c.Parent != nil {
		parent, err := d.userType(c.Parent)
		if err != nil {
			return nil, err
		}
		out.Parent = parent
	}
	for _, iface := range c.Implements {
		if iface == nil {
			return nil, missing("class "+c.Name.Name, span, "interface")
		}
		t, err := d.userType(iface)
		if err != nil {
			return nil, err
		}
		out.Implements = append(out.Implements, t)
	}
	return out, nil
}
