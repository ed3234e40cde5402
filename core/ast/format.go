package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a node as single-line source text. Runtime-phase functions
// are prefixed with "inflight"; provisioning is the default and unmarked.
//
// Example:
//
//	let handler = inflight (req) => { return req.body; };
func Format(node Node) string {
	switch n := node.(type) {
	case *Module:
		return formatScope(n.Body)
	case *Scope:
		return formatScope(n)
	case *Stmt:
		return formatStmt(n)
	case Expr:
		return formatExpr(n)
	case *FunctionDefinition:
		return formatClosure(n)
	case *Class:
		return formatClass(n)
	default:
		return fmt.Sprintf("(unknown: %T)", node)
	}
}

func formatScope(s *Scope) string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, len(s.Statements))
	for _, stmt := range s.Statements {
		parts = append(parts, formatStmt(stmt))
	}
	return strings.Join(parts, " ")
}

func formatBlock(s *Scope) string {
	inner := formatScope(s)
	if inner == "" {
		return "{}"
	}
	return "{ " + inner + " }"
}

func formatStmt(s *Stmt) string {
	switch k := s.Kind.(type) {
	case *Let:
		var b strings.Builder
		b.WriteString("let ")
		if k.Reassignable {
			b.WriteString("var ")
		}
		b.WriteString(k.Name.Name)
		if k.Type != nil {
			b.WriteString(": " + k.Type.String())
		}
		b.WriteString(" = " + formatExpr(k.Value) + ";")
		return b.String()
	case *Assign:
		return fmt.Sprintf("%s = %s;", formatExpr(k.Target), formatExpr(k.Value))
	case *ExprStmt:
		return formatExpr(k.Value) + ";"
	case *Return:
		if k.Value == nil {
			return "return;"
		}
		return "return " + formatExpr(k.Value) + ";"
	case *Throw:
		return "throw " + formatExpr(k.Value) + ";"
	case *If:
		parts := []string{"if " + formatExpr(k.Condition) + " " + formatBlock(k.Then)}
		for _, arm := range k.ElseIfs {
			parts = append(parts, "elif "+formatExpr(arm.Condition)+" "+formatBlock(arm.Body))
		}
		if k.Else != nil {
			parts = append(parts, "else "+formatBlock(k.Else))
		}
		return strings.Join(parts, " ")
	case *While:
		return "while " + formatExpr(k.Condition) + " " + formatBlock(k.Body)
	case *ForIn:
		return fmt.Sprintf("for %s in %s %s", k.Iterator.Name, formatExpr(k.Iterable), formatBlock(k.Body))
	case *Break:
		return "break;"
	case *Continue:
		return "continue;"
	case *Block:
		return formatBlock(k.Body)
	case *TryCatch:
		parts := []string{"try " + formatBlock(k.Try)}
		if k.Catch != nil {
			if k.CatchVar != nil {
				parts = append(parts, "catch "+k.CatchVar.Name+" "+formatBlock(k.Catch))
			} else {
				parts = append(parts, "catch "+formatBlock(k.Catch))
			}
		}
		if k.Finally != nil {
			parts = append(parts, "finally "+formatBlock(k.Finally))
		}
		return strings.Join(parts, " ")
	case *ClassDecl:
		return formatClass(k.Class)
	case *FuncDecl:
		return phasePrefix(k.Def.Signature.Phase) + "fn " + k.Name.Name + formatSignature(k.Def.Signature) + " " + formatBody(k.Def)
	default:
		return fmt.Sprintf("(unknown: %T)", s.Kind)
	}
}

func formatExpr(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		if n.Kind == LitString {
			return strconv.Quote(n.Value)
		}
		return n.Value
	case *Reference:
		return n.Symbol.Name
	case *MemberAccess:
		return formatOperand(n.Object) + "." + n.Property.Name
	case *Unary:
		return n.Op + formatOperand(n.Operand)
	case *Binary:
		return formatOperand(n.Left) + " " + n.Op + " " + formatOperand(n.Right)
	case *Call:
		return formatOperand(n.Callee) + "(" + formatArgs(n.Args) + ")"
	case *New:
		return "new " + n.Class.String() + "(" + formatArgs(n.Args) + ")"
	case *Closure:
		return formatClosure(n.Def)
	case *ArrayLiteral:
		items := make([]string, len(n.Items))
		for i, item := range n.Items {
			items[i] = formatExpr(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *MapLiteral:
		entries := make([]string, len(n.Entries))
		for i, entry := range n.Entries {
			entries[i] = formatExpr(entry.Key) + " => " + formatExpr(entry.Value)
		}
		return "{" + strings.Join(entries, ", ") + "}"
	default:
		return fmt.Sprintf("(unknown: %T)", e)
	}
}

// formatOperand parenthesizes compound operands so the output reparses the same way.
func formatOperand(e Expr) string {
	switch e.(type) {
	case *Binary, *Closure, *Unary:
		return "(" + formatExpr(e) + ")"
	default:
		return formatExpr(e)
	}
}

func formatArgs(args ArgList) string {
	parts := make([]string, 0, args.Len())
	for _, arg := range args.Positional {
		parts = append(parts, formatExpr(arg))
	}
	for _, arg := range args.Named {
		parts = append(parts, arg.Name.Name+": "+formatExpr(arg.Value))
	}
	return strings.Join(parts, ", ")
}

func formatClosure(d *FunctionDefinition) string {
	var b strings.Builder
	b.WriteString(phasePrefix(d.Signature.Phase))
	if d.IsStatic {
		b.WriteString("static ")
	}
	b.WriteString(formatSignature(d.Signature))
	b.WriteString(" => ")
	b.WriteString(formatBody(d))
	return b.String()
}

func formatSignature(sig FunctionSignature) string {
	params := make([]string, len(sig.Parameters))
	for i, p := range sig.Parameters {
		param := p.Name.Name
		if p.Reassignable {
			param = "var " + param
		}
		if p.Type != nil {
			param += ": " + p.Type.String()
		}
		params[i] = param
	}
	out := "(" + strings.Join(params, ", ") + ")"
	if sig.ReturnType != nil {
		out += ": " + sig.ReturnType.String()
	}
	return out
}

func formatBody(d *FunctionDefinition) string {
	switch b := d.Body.(type) {
	case *BlockBody:
		return formatBlock(b.Scope)
	case *ExprBody:
		return formatExpr(b.Value)
	default:
		return "{}"
	}
}

func formatClass(c *Class) string {
	var b strings.Builder
	if c.IsResource {
		b.WriteString("resource ")
	} else {
		b.WriteString("class ")
	}
	b.WriteString(c.Name.Name)
	if c.Parent != nil {
		b.WriteString(" extends " + c.Parent.String())
	}
	if len(c.Implements) > 0 {
		names := make([]string, len(c.Implements))
		for i, iface := range c.Implements {
			names[i] = iface.String()
		}
		b.WriteString(" impl " + strings.Join(names, ", "))
	}

	var members []string
	for _, f := range c.Fields {
		field := phasePrefix(f.Phase)
		if f.IsStatic {
			field += "static "
		}
		if f.Reassignable {
			field += "var "
		}
		field += f.Name.Name
		if f.Type != nil {
			field += ": " + f.Type.String()
		}
		members = append(members, field+";")
	}
	if c.Constructor != nil {
		members = append(members, "init"+formatSignature(c.Constructor.Signature)+" "+formatBody(c.Constructor))
	}
	for _, m := range c.Methods {
		method := phasePrefix(m.Def.Signature.Phase)
		if m.Def.IsStatic {
			method += "static "
		}
		members = append(members, method+m.Name.Name+formatSignature(m.Def.Signature)+" "+formatBody(m.Def))
	}

	if len(members) == 0 {
		b.WriteString(" {}")
	} else {
		b.WriteString(" { " + strings.Join(members, " ") + " }")
	}
	return b.String()
}

func phasePrefix(p Phase) string {
	if p == PhaseRuntime {
		return "inflight "
	}
	return ""
}
