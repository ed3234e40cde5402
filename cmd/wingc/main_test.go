package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/astfmt"
)

// handlerModule is `fn f() { return inflight (x: num) => { return x + 1; }; }`
// with the closure at main.w:4:10.
func handlerModule() *ast.Module {
	handler := ast.Func(ast.PhaseRuntime, []ast.Parameter{ast.Param("x", ast.Prim("num"))},
		ast.ReturnStmt(ast.Bin("+", ast.Ref("x"), ast.Num(1))))
	handler.Span = ast.Span{File: "main.w", Start: ast.Position{Line: 4, Column: 10, Offset: 61}}

	return ast.NewModule("main.w",
		ast.FuncStmt("f", ast.Func(ast.PhaseProvisioning, nil, ast.ReturnStmt(ast.ClosureExpr(handler)))),
	)
}

func writeDoc(t *testing.T, m *ast.Module, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if strings.HasSuffix(name, ".cbor") {
		require.NoError(t, astfmt.WriteCBOR(&buf, m))
	} else {
		require.NoError(t, astfmt.Write(&buf, m))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"--no-color"}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLiftText(t *testing.T) {
	path := writeDoc(t, handlerModule(), "main.json")

	code, out, stderr := runCLI(t, "", "lift", "--format", "text", path)
	require.Equal(t, 0, code, stderr)

	want := "fn f() { return ((): resource => { resource $Resource1 { init(): $Resource1 {} " +
		"inflight handle(x: num) { return x + 1; } } return new $Resource1(); })(); }\n"
	assert.Equal(t, want, out)
}

func TestLiftJSONRoundTrips(t *testing.T) {
	path := writeDoc(t, handlerModule(), "main.json")

	code, out, stderr := runCLI(t, "", "lift", path)
	require.Equal(t, 0, code, stderr)

	m, err := astfmt.Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.Contains(t, ast.Format(m), "new $Resource1()")
}

func TestLiftStdinAndCBOR(t *testing.T) {
	var doc bytes.Buffer
	require.NoError(t, astfmt.Write(&doc, handlerModule()))

	code, out, stderr := runCLI(t, doc.String(), "lift", "--format", "cbor", "-")
	require.Equal(t, 0, code, stderr)

	m, err := astfmt.ReadCBOR(strings.NewReader(out))
	require.NoError(t, err)
	assert.Contains(t, ast.Format(m), "resource $Resource1")

	// A .cbor extension selects the CBOR reader.
	path := writeDoc(t, handlerModule(), "main.cbor")
	code, out, stderr = runCLI(t, "", "lift", "--format", "text", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "inflight handle(x: num)")
}

func TestLiftHashedNaming(t *testing.T) {
	path := writeDoc(t, handlerModule(), "main.json")

	code, first, stderr := runCLI(t, "", "lift", "--format", "text", "--naming", "hashed", path)
	require.Equal(t, 0, code, stderr)
	_, second, _ := runCLI(t, "", "lift", "--format", "text", "--naming", "hashed", path)

	assert.Contains(t, first, "resource $Resource_")
	assert.Equal(t, first, second, "hashed names are stable for the same input")
}

func TestLiftStats(t *testing.T) {
	path := writeDoc(t, handlerModule(), "main.json")

	code, _, stderr := runCLI(t, "", "lift", "--stats", path)
	require.Equal(t, 0, code, stderr)
	assert.Regexp(t, `lifted\s+1\n`, stderr)
	assert.Regexp(t, `functions entered\s+1\n`, stderr)
}

func TestLiftErrors(t *testing.T) {
	good := writeDoc(t, handlerModule(), "main.json")

	unassigned := ast.NewModule("main.w", ast.FuncStmt("f", ast.Func(ast.PhaseUnassigned, nil)))
	noPhase := writeDoc(t, unassigned, "nophase.json")

	badVersion := filepath.Join(t.TempDir(), "v2.json")
	require.NoError(t, os.WriteFile(badVersion, []byte(`{"version": "v2.0.0", "body": {}}`), 0o644))

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"missing file", []string{"lift", filepath.Join(t.TempDir(), "nope.json")}, []string{"Error: open"}},
		{"unknown naming", []string{"lift", "--naming", "random", good}, []string{`unknown naming mode "random"`}},
		{"unknown format", []string{"lift", "--format", "yaml", good}, []string{`unknown output format "yaml"`}},
		{"watch stdin", []string{"lift", "--watch", "-"}, []string{"--watch needs a file argument", "Hint: stdin cannot be watched"}},
		{"unassigned phase", []string{"lift", noPhase}, []string{"has no phase", "Hint:"}},
		{"future version", []string{"lift", badVersion}, []string{"unsupported document version", "Hint: this build reads documents with version v1.x.y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, 1, code)
			for _, want := range tt.want {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestCheckPhasesListsEveryDefinition(t *testing.T) {
	first := ast.Func(ast.PhaseUnassigned, []ast.Parameter{ast.Param("x", ast.Prim("num"))})
	first.Span = ast.Span{File: "main.w", Start: ast.Position{Line: 2, Column: 1}}
	second := ast.Func(ast.PhaseUnassigned, nil)
	second.Span = ast.Span{File: "main.w", Start: ast.Position{Line: 5, Column: 3}}

	m := ast.NewModule("main.w",
		ast.FuncStmt("f", first),
		ast.FuncStmt("g", ast.Func(ast.PhaseProvisioning, nil, ast.ReturnStmt(ast.ClosureExpr(second)))),
	)

	err := checkPhases(m)
	var cliErr *CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "2 functions have no phase", cliErr.Message)
	assert.Equal(t, "  main.w:2:1: 1 parameter(s), block body\n  main.w:5:3: 0 parameter(s), block body", cliErr.Details)

	path := writeDoc(t, m, "twophase.json")
	code, _, stderr := runCLI(t, "", "lift", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: 2 functions have no phase\n\n  main.w:2:1")
	assert.Contains(t, stderr, "  main.w:5:3: 0 parameter(s), block body\nHint:")

	assert.NoError(t, checkPhases(handlerModule()))
}

func TestScan(t *testing.T) {
	m := ast.NewModule("main.w",
		ast.ThrowStmt(ast.Str("top")),
		ast.FuncStmt("f", ast.Func(ast.PhaseProvisioning, nil,
			ast.IfStmt(ast.Ref("c"), []*ast.Stmt{ast.ReturnStmt(ast.Inflight(ast.ThrowStmt(ast.Str("inner"))))}, nil),
		)),
	)
	path := writeDoc(t, m, "scan.json")

	code, out, stderr := runCLI(t, "", "scan", path)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `module main\.w\s+-\s+throw$`, lines[0])
	assert.Regexp(t, `\bfn f\s+return\s+-$`, lines[1])
	assert.Regexp(t, `inflight closure\s+-\s+throw$`, lines[2])
}

func TestFmt(t *testing.T) {
	m := ast.NewModule("main.w",
		ast.LetStmt("x", ast.Num(1)),
		ast.ExprStatement(ast.CallExpr(ast.Ref("log"), ast.Ref("x"))),
	)
	path := writeDoc(t, m, "fmt.json")

	code, out, stderr := runCLI(t, "", "fmt", path)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "let x = 1;\nlog(x);\n", out)
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		flag string
		args []string
		want string
	}{
		{"", nil, formatJSON},
		{"", []string{"a.json"}, formatJSON},
		{"", []string{"a.CBOR"}, formatCBOR},
		{"json", []string{"a.cbor"}, formatJSON},
		{"cbor", nil, formatCBOR},
	}
	for _, tt := range tests {
		got, err := inputFormat(tt.flag, tt.args)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "flag=%q args=%v", tt.flag, tt.args)
	}

	_, err := inputFormat("xml", nil)
	assert.Error(t, err)
}

func TestIsChangeOf(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.json")

	assert.True(t, isChangeOf(fsnotify.Event{Name: target, Op: fsnotify.Write}, target))
	assert.True(t, isChangeOf(fsnotify.Event{Name: target, Op: fsnotify.Create}, target))
	assert.False(t, isChangeOf(fsnotify.Event{Name: target, Op: fsnotify.Chmod}, target))
	assert.False(t, isChangeOf(fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}, target))
}
