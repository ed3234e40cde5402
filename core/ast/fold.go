package ast

// Folder rewrites a tree by consuming nodes and returning their replacements.
//
// Each method is an override point for one node variant. An implementation that
// has nothing special to do for a variant delegates to the package-level default
// of the same name (FoldExpr, FoldStmt, ...), which rebuilds the node from its
// folded children. The input tree is consumed: callers must not use it after
// folding.
type Folder interface {
	FoldScope(s *Scope) *Scope
	FoldStmt(s *Stmt) *Stmt
	FoldExpr(e Expr) Expr
	FoldFunctionDefinition(d *FunctionDefinition) *FunctionDefinition
	FoldClass(c *Class) *Class
}

// FoldModule folds the module body.
func FoldModule(f Folder, m *Module) *Module {
	return &Module{File: m.File, Body: f.FoldScope(m.Body)}
}

// FoldScope rebuilds a scope from its folded statements.
func FoldScope(f Folder, s *Scope) *Scope {
	if s == nil {
		return nil
	}
	var stmts []*Stmt
	if s.Statements != nil {
		stmts = make([]*Stmt, len(s.Statements))
	}
	for i, stmt := range s.Statements {
		stmts[i] = f.FoldStmt(stmt)
	}
	return &Scope{Statements: stmts, Span: s.Span}
}

// FoldStmt rebuilds a statement from its folded children.
func FoldStmt(f Folder, s *Stmt) *Stmt {
	return &Stmt{Kind: foldStmtKind(f, s.Kind), Idx: s.Idx, Span: s.Span}
}

func foldStmtKind(f Folder, kind StmtKind) StmtKind {
	switch k := kind.(type) {
	case *Let:
		return &Let{
			Name:         k.Name,
			Reassignable: k.Reassignable,
			Type:         k.Type,
			Value:        f.FoldExpr(k.Value),
		}
	case *Assign:
		return &Assign{Target: f.FoldExpr(k.Target), Value: f.FoldExpr(k.Value)}
	case *ExprStmt:
		return &ExprStmt{Value: f.FoldExpr(k.Value)}
	case *Return:
		return &Return{Value: foldOptExpr(f, k.Value)}
	case *Throw:
		return &Throw{Value: f.FoldExpr(k.Value)}
	case *If:
		var elseIfs []ElseIf
		if k.ElseIfs != nil {
			elseIfs = make([]ElseIf, len(k.ElseIfs))
		}
		for i, arm := range k.ElseIfs {
			elseIfs[i] = ElseIf{Condition: f.FoldExpr(arm.Condition), Body: f.FoldScope(arm.Body)}
		}
		return &If{
			Condition: f.FoldExpr(k.Condition),
			Then:      f.FoldScope(k.Then),
			ElseIfs:   elseIfs,
			Else:      f.FoldScope(k.Else),
		}
	case *While:
		return &While{Condition: f.FoldExpr(k.Condition), Body: f.FoldScope(k.Body)}
	case *ForIn:
		return &ForIn{Iterator: k.Iterator, Iterable: f.FoldExpr(k.Iterable), Body: f.FoldScope(k.Body)}
	case *Break:
		return &Break{}
	case *Continue:
		return &Continue{}
	case *Block:
		return &Block{Body: f.FoldScope(k.Body)}
	case *TryCatch:
		return &TryCatch{
			Try:      f.FoldScope(k.Try),
			CatchVar: k.CatchVar,
			Catch:    f.FoldScope(k.Catch),
			Finally:  f.FoldScope(k.Finally),
		}
	case *ClassDecl:
		return &ClassDecl{Class: f.FoldClass(k.Class)}
	case *FuncDecl:
		return &FuncDecl{Name: k.Name, Def: f.FoldFunctionDefinition(k.Def)}
	default:
		panic(unknownNode("statement", kind))
	}
}

// FoldExpr rebuilds an expression from its folded children.
func FoldExpr(f Folder, e Expr) Expr {
	switch n := e.(type) {
	case *Literal:
		return &Literal{Kind: n.Kind, Value: n.Value, Span: n.Span}
	case *Reference:
		return &Reference{Symbol: n.Symbol, Span: n.Span}
	case *MemberAccess:
		return &MemberAccess{Object: f.FoldExpr(n.Object), Property: n.Property, Span: n.Span}
	case *Unary:
		return &Unary{Op: n.Op, Operand: f.FoldExpr(n.Operand), Span: n.Span}
	case *Binary:
		return &Binary{Op: n.Op, Left: f.FoldExpr(n.Left), Right: f.FoldExpr(n.Right), Span: n.Span}
	case *Call:
		return &Call{Callee: f.FoldExpr(n.Callee), Args: FoldArgList(f, n.Args), Span: n.Span}
	case *New:
		return &New{Class: n.Class, Args: FoldArgList(f, n.Args), Span: n.Span}
	case *Closure:
		return &Closure{Def: f.FoldFunctionDefinition(n.Def), Span: n.Span}
	case *ArrayLiteral:
		var items []Expr
		if n.Items != nil {
			items = make([]Expr, len(n.Items))
		}
		for i, item := range n.Items {
			items[i] = f.FoldExpr(item)
		}
		return &ArrayLiteral{Items: items, Span: n.Span}
	case *MapLiteral:
		var entries []MapEntry
		if n.Entries != nil {
			entries = make([]MapEntry, len(n.Entries))
		}
		for i, entry := range n.Entries {
			entries[i] = MapEntry{Key: f.FoldExpr(entry.Key), Value: f.FoldExpr(entry.Value)}
		}
		return &MapLiteral{Entries: entries, Span: n.Span}
	default:
		panic(unknownNode("expression", e))
	}
}

// FoldArgList folds every argument, keeping order.
func FoldArgList(f Folder, args ArgList) ArgList {
	var out ArgList
	if args.Positional != nil {
		out.Positional = make([]Expr, len(args.Positional))
		for i, arg := range args.Positional {
			out.Positional[i] = f.FoldExpr(arg)
		}
	}
	if args.Named != nil {
		out.Named = make([]NamedArg, len(args.Named))
		for i, arg := range args.Named {
			out.Named[i] = NamedArg{Name: arg.Name, Value: f.FoldExpr(arg.Value)}
		}
	}
	return out
}

// FoldFunctionDefinition rebuilds a definition with a folded body.
// Signature, captures and the static flag are carried over unchanged.
func FoldFunctionDefinition(f Folder, d *FunctionDefinition) *FunctionDefinition {
	var body FunctionBody
	switch b := d.Body.(type) {
	case *BlockBody:
		body = &BlockBody{Scope: f.FoldScope(b.Scope)}
	case *ExprBody:
		body = &ExprBody{Value: f.FoldExpr(b.Value)}
	case nil:
	default:
		panic(unknownNode("function body", d.Body))
	}
	return &FunctionDefinition{
		Signature: d.Signature,
		Body:      body,
		Captures:  d.Captures,
		IsStatic:  d.IsStatic,
		Span:      d.Span,
	}
}

// FoldClass rebuilds a class with folded constructor and methods.
func FoldClass(f Folder, c *Class) *Class {
	var methods []Method
	if c.Methods != nil {
		methods = make([]Method, len(c.Methods))
	}
	for i, m := range c.Methods {
		methods[i] = Method{Name: m.Name, Def: f.FoldFunctionDefinition(m.Def)}
	}
	var ctor *FunctionDefinition
	if c.Constructor != nil {
		ctor = f.FoldFunctionDefinition(c.Constructor)
	}
	return &Class{
		Name:        c.Name,
		IsResource:  c.IsResource,
		Constructor: ctor,
		Fields:      c.Fields,
		Methods:     methods,
		Parent:      c.Parent,
		Implements:  c.Implements,
		Span:        c.Span,
	}
}

func foldOptExpr(f Folder, e Expr) Expr {
	if e == nil {
		return nil
	}
	return f.FoldExpr(e)
}
