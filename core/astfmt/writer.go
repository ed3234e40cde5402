package astfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/invariant"
)

// Write writes m as an indented JSON document.
func Write(w io.Writer, m *ast.Module) error {
	data, err := json.MarshalIndent(encodeDocument(m), "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// WriteCBOR writes m as a canonical CBOR document.
func WriteCBOR(w io.Writer, m *ast.Module) error {
	data, err := Canonical(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func encodeDocument(m *ast.Module) *document {
	invariant.NotNil(m, "module")
	invariant.NotNil(m.Body, "module body")

	return &document{
		Version: Version,
		File:    m.File,
		Body:    encodeScope(m.Body),
	}
}

// ================================================================================================
// ENCODER
// ================================================================================================

func encodeSpan(s ast.Span) *wireSpan {
	if s == (ast.Span{}) {
		return nil
	}
	return &wireSpan{
		File:  s.File,
		Start: wirePos{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   wirePos{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

func encodeSymbol(s ast.Symbol) wireSymbol {
	return wireSymbol{Name: s.Name, Span: encodeSpan(s.Span)}
}

func encodeSymbolRef(s ast.Symbol) *wireSymbol {
	sym := encodeSymbol(s)
	return &sym
}

func encodeSymbols(in []ast.Symbol) []wireSymbol {
	if in == nil {
		return nil
	}
	out := make([]wireSymbol, len(in))
	for i, s := range in {
		out[i] = encodeSymbol(s)
	}
	return out
}

func encodePhase(p ast.Phase) string {
	if !p.IsAssigned() {
		return ""
	}
	return p.String()
}

func encodeLiteralKind(k ast.LiteralKind) string {
	switch k {
	case ast.LitNumber:
		return "number"
	case ast.LitString:
		return "string"
	case ast.LitBool:
		return "bool"
	case ast.LitNil:
		return "nil"
	default:
		panic(fmt.Sprintf("astfmt: unknown literal kind %d", k))
	}
}

func encodeScope(s *ast.Scope) *wireScope {
	if s == nil {
		return nil
	}
	out := &wireScope{Span: encodeSpan(s.Span)}
	for _, stmt := range s.Statements {
		out.Statements = append(out.Statements, encodeStmt(stmt))
	}
	return out
}

func encodeStmt(s *ast.Stmt) *wireStmt {
	out := &wireStmt{Span: encodeSpan(s.Span)}
	switch k := s.Kind.(type) {
	case *ast.Let:
		out.Kind = stmtLet
		out.Name = encodeSymbolRef(k.Name)
		out.Reassignable = k.Reassignable
		out.Type = encodeType(k.Type)
		out.Value = encodeExpr(k.Value)
	case *ast.Assign:
		out.Kind = stmtAssign
		out.Target = encodeExpr(k.Target)
		out.Value = encodeExpr(k.Value)
	case *ast.ExprStmt:
		out.Kind = stmtExpr
		out.Value = encodeExpr(k.Value)
	case *ast.Return:
		out.Kind = stmtReturn
		out.Value = encodeExpr(k.Value)
	case *ast.Throw:
		out.Kind = stmtThrow
		out.Value = encodeExpr(k.Value)
	case *ast.If:
		out.Kind = stmtIf
		out.Condition = encodeExpr(k.Condition)
		out.Then = encodeScope(k.Then)
		for _, arm := range k.ElseIfs {
			out.ElseIfs = append(out.ElseIfs, wireElseIf{Condition: encodeExpr(arm.Condition), Body: encodeScope(arm.Body)})
		}
		out.Else = encodeScope(k.Else)
	case *ast.While:
		out.Kind = stmtWhile
		out.Condition = encodeExpr(k.Condition)
		out.Body = encodeScope(k.Body)
	case *ast.ForIn:
		out.Kind = stmtForIn
		out.Iterator = encodeSymbolRef(k.Iterator)
		out.Iterable = encodeExpr(k.Iterable)
		out.Body = encodeScope(k.Body)
	case *ast.Break:
		out.Kind = stmtBreak
	case *ast.Continue:
		out.Kind = stmtContinue
	case *ast.Block:
		out.Kind = stmtBlock
		out.Body = encodeScope(k.Body)
	case *ast.TryCatch:
		out.Kind = stmtTry
		out.Body = encodeScope(k.Try)
		if k.CatchVar != nil {
			out.CatchVar = encodeSymbolRef(*k.CatchVar)
		}
		out.Catch = encodeScope(k.Catch)
		out.Finally = encodeScope(k.Finally)
	case *ast.ClassDecl:
		out.Kind = stmtClass
		out.Class = encodeClass(k.Class)
	case *ast.FuncDecl:
		out.Kind = stmtFn
		out.Name = encodeSymbolRef(k.Name)
		out.Def = encodeFunc(k.Def)
	default:
		panic(fmt.Sprintf("astfmt: unknown statement %T", s.Kind))
	}
	return out
}

func encodeExpr(e ast.Expr) *wireExpr {
	if e == nil {
		return nil
	}
	out := &wireExpr{Span: encodeSpan(e.SourceSpan())}
	switch n := e.(type) {
	case *ast.Literal:
		out.Kind = exprLiteral
		out.Literal = encodeLiteralKind(n.Kind)
		out.Text = n.Value
	case *ast.Reference:
		out.Kind = exprRef
		out.Symbol = encodeSymbolRef(n.Symbol)
	case *ast.MemberAccess:
		out.Kind = exprMember
		out.Object = encodeExpr(n.Object)
		out.Symbol = encodeSymbolRef(n.Property)
	case *ast.Unary:
		out.Kind = exprUnary
		out.Op = n.Op
		out.Operand = encodeExpr(n.Operand)
	case *ast.Binary:
		out.Kind = exprBinary
		out.Op = n.Op
		out.Left = encodeExpr(n.Left)
		out.Right = encodeExpr(n.Right)
	case *ast.Call:
		out.Kind = exprCall
		out.Callee = encodeExpr(n.Callee)
		out.Args = encodeArgs(n.Args)
	case *ast.New:
		out.Kind = exprNew
		out.Class = encodeType(n.Class)
		out.Args = encodeArgs(n.Args)
	case *ast.Closure:
		out.Kind = exprClosure
		out.Def = encodeFunc(n.Def)
	case *ast.ArrayLiteral:
		out.Kind = exprArray
		for _, item := range n.Items {
			out.Items = append(out.Items, encodeExpr(item))
		}
	case *ast.MapLiteral:
		out.Kind = exprMap
		for _, entry := range n.Entries {
			out.Entries = append(out.Entries, wireEntry{Key: encodeExpr(entry.Key), Value: encodeExpr(entry.Value)})
		}
	default:
		panic(fmt.Sprintf("astfmt: unknown expression %T", e))
	}
	return out
}

func encodeArgs(a ast.ArgList) *wireArgs {
	if a.Len() == 0 {
		return nil
	}
	out := &wireArgs{}
	for _, arg := range a.Positional {
		out.Positional = append(out.Positional, encodeExpr(arg))
	}
	for _, arg := range a.Named {
		out.Named = append(out.Named, wireNamedArg{Name: encodeSymbol(arg.Name), Value: encodeExpr(arg.Value)})
	}
	return out
}

func encodeType(t ast.TypeAnnotation) *wireType {
	switch n := t.(type) {
	case nil:
		return nil
	case *ast.PrimitiveType:
		return &wireType{Kind: typePrimitive, Name: n.Name}
	case *ast.UserDefinedType:
		return encodeUserType(n)
	case *ast.ResourceType:
		return &wireType{Kind: typeResource}
	case *ast.OptionalType:
		return &wireType{Kind: typeOptional, Inner: encodeType(n.Inner)}
	default:
		panic(fmt.Sprintf("astfmt: unknown type annotation %T", t))
	}
}

func encodeUserType(t *ast.UserDefinedType) *wireType {
	if t == nil {
		return nil
	}
	return &wireType{
		Kind:   typeUser,
		Span:   encodeSpan(t.Span),
		Root:   encodeSymbolRef(t.Root),
		Fields: encodeSymbols(t.Fields),
	}
}

func encodeFunc(d *ast.FunctionDefinition) *wireFunc {
	out := &wireFunc{
		Phase:   encodePhase(d.Signature.Phase),
		Returns: encodeType(d.Signature.ReturnType),
		Static:  d.IsStatic,
		Span:    encodeSpan(d.Span),
	}
	for _, p := range d.Signature.Parameters {
		out.Params = append(out.Params, wireParam{
			Name:         encodeSymbol(p.Name),
			Type:         encodeType(p.Type),
			Reassignable: p.Reassignable,
		})
	}
	switch b := d.Body.(type) {
	case *ast.BlockBody:
		out.Body = encodeScope(b.Scope)
	case *ast.ExprBody:
		out.Expr = encodeExpr(b.Value)
	}
	if d.Captures != nil {
		out.Captures = &wireCaptures{Symbols: encodeSymbols(d.Captures.Symbols)}
	}
	return out
}

func encodeClass(c *ast.Class) *wireClass {
	out := &wireClass{
		Name:     encodeSymbol(c.Name),
		Resource: c.IsResource,
		Parent:   encodeUserType(c.Parent),
		Span:     encodeSpan(c.Span),
	}
	if c.Constructor != nil {
		out.Constructor = encodeFunc(c.Constructor)
	}
	for _, f := range c.Fields {
		out.Fields = append(out.Fields, wireField{
			Name:         encodeSymbol(f.Name),
			Type:         encodeType(f.Type),
			Reassignable: f.Reassignable,
			Phase:        encodePhase(f.Phase),
			Static:       f.IsStatic,
		})
	}
	for _, m := range c.Methods {
		out.Methods = append(out.Methods, wireMethod{Name: encodeSymbol(m.Name), Def: encodeFunc(m.Def)})
	}
	for _, iface := range c.Implements {
		out.Implements = append(out.Implements, encodeUserType(iface))
	}
	return out
}
