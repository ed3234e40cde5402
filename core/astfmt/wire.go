// Package astfmt reads and writes syntax trees as versioned documents.
//
// A document is JSON (or the same model as CBOR) of the form
//
//	{"version": "v1.0.0", "file": "main.w", "body": {"statements": [...]}}
//
// where every statement, expression and type annotation is an object tagged
// with a "kind". Statement indices are not stored: they are the position in the
// enclosing scope and are renumbered on read.
package astfmt

// Version is the document format version written by this package. Readers
// accept any valid v1 version.
const Version = "v1.0.0"

// Field names are shared by JSON and CBOR; the CBOR codec honours json tags.

type document struct {
	Version string     `json:"version"`
	File    string     `json:"file,omitempty"`
	Body    *wireScope `json:"body"`
}

type wirePos struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"col,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type wireSpan struct {
	File  string  `json:"file,omitempty"`
	Start wirePos `json:"start"`
	End   wirePos `json:"end"`
}

type wireSymbol struct {
	Name string    `json:"name"`
	Span *wireSpan `json:"span,omitempty"`
}

type wireScope struct {
	Span       *wireSpan   `json:"span,omitempty"`
	Statements []*wireStmt `json:"statements,omitempty"`
}

// wireStmt is the flattened union of every statement kind. Only the fields of
// Kind are set.
type wireStmt struct {
	Kind string    `json:"kind"`
	Span *wireSpan `json:"span,omitempty"`

	// let, fn
	Name         *wireSymbol `json:"name,omitempty"`
	Reassignable bool        `json:"reassignable,omitempty"`
	Type         *wireType   `json:"type,omitempty"`

	// let, assign, expr, return, throw
	Value  *wireExpr `json:"value,omitempty"`
	Target *wireExpr `json:"target,omitempty"`

	// if, while
	Condition *wireExpr    `json:"condition,omitempty"`
	Then      *wireScope   `json:"then,omitempty"`
	ElseIfs   []wireElseIf `json:"else_ifs,omitempty"`
	Else      *wireScope   `json:"else,omitempty"`

	// while, for_in, block, try
	Body *wireScope `json:"body,omitempty"`

	// for_in
	Iterator *wireSymbol `json:"iterator,omitempty"`
	Iterable *wireExpr   `json:"iterable,omitempty"`

	// try
	CatchVar *wireSymbol `json:"catch_var,omitempty"`
	Catch    *wireScope  `json:"catch,omitempty"`
	Finally  *wireScope  `json:"finally,omitempty"`

	// class, fn
	Class *wireClass `json:"class,omitempty"`
	Def   *wireFunc  `json:"def,omitempty"`
}

type wireElseIf struct {
	Condition *wireExpr  `json:"condition"`
	Body      *wireScope `json:"body"`
}

// wireExpr is the flattened union of every expression kind.
type wireExpr struct {
	Kind string    `json:"kind"`
	Span *wireSpan `json:"span,omitempty"`

	// literal
	Literal string `json:"literal,omitempty"`
	Text    string `json:"text,omitempty"`

	// ref, member
	Symbol *wireSymbol `json:"symbol,omitempty"`
	Object *wireExpr   `json:"object,omitempty"`

	// unary, binary
	Op      string    `json:"op,omitempty"`
	Operand *wireExpr `json:"operand,omitempty"`
	Left    *wireExpr `json:"left,omitempty"`
	Right   *wireExpr `json:"right,omitempty"`

	// call, new
	Callee *wireExpr `json:"callee,omitempty"`
	Class  *wireType `json:"class,omitempty"`
	Args   *wireArgs `json:"args,omitempty"`

	// closure
	Def *wireFunc `json:"def,omitempty"`

	// array, map
	Items   []*wireExpr `json:"items,omitempty"`
	Entries []wireEntry `json:"entries,omitempty"`
}

type wireArgs struct {
	Positional []*wireExpr    `json:"positional,omitempty"`
	Named      []wireNamedArg `json:"named,omitempty"`
}

type wireNamedArg struct {
	Name  wireSymbol `json:"name"`
	Value *wireExpr  `json:"value"`
}

type wireEntry struct {
	Key   *wireExpr `json:"key"`
	Value *wireExpr `json:"value"`
}

type wireType struct {
	Kind   string       `json:"kind"`
	Span   *wireSpan    `json:"span,omitempty"`
	Name   string       `json:"name,omitempty"`
	Root   *wireSymbol  `json:"root,omitempty"`
	Fields []wireSymbol `json:"fields,omitempty"`
	Inner  *wireType    `json:"inner,omitempty"`
}

type wireFunc struct {
	Phase    string        `json:"phase,omitempty"`
	Params   []wireParam   `json:"params,omitempty"`
	Returns  *wireType     `json:"returns,omitempty"`
	Body     *wireScope    `json:"body,omitempty"`
	Expr     *wireExpr     `json:"expr,omitempty"`
	Captures *wireCaptures `json:"captures,omitempty"`
	Static   bool          `json:"static,omitempty"`
	Span     *wireSpan     `json:"span,omitempty"`
}

type wireParam struct {
	Name         wireSymbol `json:"name"`
	Type         *wireType  `json:"type,omitempty"`
	Reassignable bool       `json:"reassignable,omitempty"`
}

type wireCaptures struct {
	Symbols []wireSymbol `json:"symbols,omitempty"`
}

type wireClass struct {
	Name        wireSymbol   `json:"name"`
	Resource    bool         `json:"resource,omitempty"`
	Constructor *wireFunc    `json:"constructor,omitempty"`
	Fields      []wireField  `json:"fields,omitempty"`
	Methods     []wireMethod `json:"methods,omitempty"`
	Parent      *wireType    `json:"parent,omitempty"`
	Implements  []*wireType  `json:"implements,omitempty"`
	Span        *wireSpan    `json:"span,omitempty"`
}

type wireField struct {
	Name         wireSymbol `json:"name"`
	Type         *wireType  `json:"type,omitempty"`
	Reassignable bool       `json:"reassignable,omitempty"`
	Phase        string     `json:"phase,omitempty"`
	Static       bool       `json:"static,omitempty"`
}

type wireMethod struct {
	Name wireSymbol `json:"name"`
	Def  *wireFunc  `json:"def"`
}

// Kind tags.
const (
	stmtLet      = "let"
	stmtAssign   = "assign"
	stmtExpr     = "expr"
	stmtReturn   = "return"
	stmtThrow    = "throw"
	stmtIf       = "if"
	stmtWhile    = "while"
	stmtForIn    = "for_in"
	stmtBreak    = "break"
	stmtContinue = "continue"
	stmtBlock    = "block"
	stmtTry      = "try"
	stmtClass    = "class"
	stmtFn       = "fn"

	exprLiteral = "literal"
	exprRef     = "ref"
	exprMember  = "member"
	exprUnary   = "unary"
	exprBinary  = "binary"
	exprCall    = "call"
	exprNew     = "new"
	exprClosure = "closure"
	exprArray   = "array"
	exprMap     = "map"

	typePrimitive = "primitive"
	typeUser      = "user"
	typeResource  = "resource"
	typeOptional  = "optional"
)

var (
	stmtKinds = []string{
		stmtLet, stmtAssign, stmtExpr, stmtReturn, stmtThrow, stmtIf, stmtWhile,
		stmtForIn, stmtBreak, stmtContinue, stmtBlock, stmtTry, stmtClass, stmtFn,
	}
	exprKinds = []string{
		exprLiteral, exprRef, exprMember, exprUnary, exprBinary, exprCall, exprNew,
		exprClosure, exprArray, exprMap,
	}
	typeKinds    = []string{typePrimitive, typeUser, typeResource, typeOptional}
	literalKinds = []string{"number", "string", "bool", "nil"}
	phaseNames   = []string{"preflight", "inflight"}
)
