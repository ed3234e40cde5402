package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChihweiLHBird/wing/core/astfmt"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		cliErr = &CLIError{Message: err.Error(), Hint: hintFor(err)}
	}

	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", styleError, useColor), cliErr.Message)
	if cliErr.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", cliErr.Details)
	}
	if cliErr.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", styleHint, useColor), cliErr.Hint)
	}
}

// hintFor suggests a fix for document errors.
func hintFor(err error) string {
	switch {
	case errors.Is(err, astfmt.ErrUnsupportedVersion):
		return "this build reads documents with version " + astfmt.Version[:2] + ".x.y"
	case errors.Is(err, astfmt.ErrUnknownKind):
		return "check the node kind against the document schema"
	case errors.Is(err, astfmt.ErrSchema):
		return "the document is not a valid syntax tree; regenerate it from source"
	case errors.Is(err, astfmt.ErrTooDeep):
		return "the tree nests deeper than the reader allows"
	default:
		return ""
	}
}
