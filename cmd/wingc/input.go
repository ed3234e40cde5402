package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/astfmt"
)

const (
	formatJSON = "json"
	formatCBOR = "cbor"
	formatText = "text"
)

// openInput handles the 3 modes of input:
// 1. Explicit stdin with "-"
// 2. Piped input (auto-detected when no file is given)
// 3. File input
func openInput(args []string, stdin io.Reader) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	if len(args) == 0 || args[0] == "-" {
		if len(args) == 0 && !hasPipedInput(stdin) {
			return nil, nil, &CLIError{
				Message: "no input",
				Hint:    "pass a document path, '-' for stdin, or pipe a document in",
			}
		}
		return stdin, noop, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", args[0], err)
	}
	return f, f.Close, nil
}

// hasPipedInput reports whether stdin is something other than a terminal.
// Readers that are not files (tests, embedding) count as piped.
func hasPipedInput(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(f.Fd()))
}

// inputFormat resolves the document encoding from the flag or file extension.
func inputFormat(flag string, args []string) (string, error) {
	switch flag {
	case formatJSON, formatCBOR:
		return flag, nil
	case "":
	default:
		return "", fmt.Errorf("unknown input format %q (want json or cbor)", flag)
	}
	if len(args) > 0 && strings.EqualFold(filepath.Ext(args[0]), ".cbor") {
		return formatCBOR, nil
	}
	return formatJSON, nil
}

// readModule opens and decodes the document named by args.
func readModule(args []string, stdin io.Reader, format string) (*ast.Module, error) {
	r, closeFn, err := openInput(args, stdin)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeFn() }()

	if format == formatCBOR {
		return astfmt.ReadCBOR(r)
	}
	return astfmt.Read(r)
}

// writeModule encodes m in the requested output format.
func writeModule(w io.Writer, m *ast.Module, format string) error {
	switch format {
	case formatJSON:
		return astfmt.Write(w, m)
	case formatCBOR:
		return astfmt.WriteCBOR(w, m)
	case formatText:
		return writeText(w, m)
	default:
		return fmt.Errorf("unknown output format %q (want json, cbor or text)", format)
	}
}

// writeText prints one top-level statement per line.
func writeText(w io.Writer, m *ast.Module) error {
	for _, stmt := range m.Body.Statements {
		if _, err := fmt.Fprintln(w, ast.Format(stmt)); err != nil {
			return err
		}
	}
	return nil
}
