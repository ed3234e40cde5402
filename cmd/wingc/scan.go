package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/typecheck"
)

func newScanCmd(flags *globalFlags) *cobra.Command {
	var inFlag string

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Report which bodies contain return and throw statements",
		Long: "Scan the module body and every function body on its own. Statements in\n" +
			"nested functions are attributed to the nested function only.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inputFormat(inFlag, args)
			if err != nil {
				return err
			}
			m, err := readModule(args, cmd.InOrStdin(), format)
			if err != nil {
				return err
			}
			printScan(cmd.OutOrStdout(), scanModule(m), ShouldUseColor(cmd.OutOrStdout(), flags.noColor))
			return nil
		},
	}

	cmd.Flags().StringVar(&inFlag, "input-format", "", "Input format: json or cbor (default from file extension)")
	return cmd
}

// bodyReport is the scan result for one body.
type bodyReport struct {
	Span   ast.Span
	Label  string
	Return bool
	Throw  bool
}

// scanModule scans the top-level body and then every function definition in
// preorder, each with a fresh scanner.
func scanModule(m *ast.Module) []bodyReport {
	top := typecheck.NewStatementScanner()
	top.Scan(m.Body.Statements...)
	reports := []bodyReport{{Span: m.SourceSpan(), Label: "module " + m.File, Return: top.SeenReturn, Throw: top.SeenThrow}}

	labels := make(map[*ast.FunctionDefinition]string)
	ast.Inspect(m, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Stmt:
			if fn, ok := n.Kind.(*ast.FuncDecl); ok {
				labels[fn.Def] = "fn " + fn.Name.Name
			}
		case *ast.Class:
			if n.Constructor != nil {
				labels[n.Constructor] = n.Name.Name + ".init"
			}
			for _, method := range n.Methods {
				labels[method.Def] = n.Name.Name + "." + method.Name.Name
			}
		case *ast.FunctionDefinition:
			label, ok := labels[n]
			if !ok {
				label = "closure"
			}
			ret, throw := typecheck.ScanFunction(n)
			reports = append(reports, bodyReport{Span: n.Span, Label: phasePrefix(n.Signature.Phase) + label, Return: ret, Throw: throw})
		}
		return true
	})
	return reports
}

func phasePrefix(p ast.Phase) string {
	if p == ast.PhaseRuntime {
		return "inflight "
	}
	return ""
}

func printScan(w io.Writer, reports []bodyReport, useColor bool) {
	flag := func(name string, set bool) string {
		if set {
			return Colorize(name, styleYes, useColor)
		}
		return Colorize("-", styleDim, useColor)
	}
	for _, r := range reports {
		_, _ = fmt.Fprintf(w, "%-16s %-24s %s %s\n",
			r.Span, r.Label, flag("return", r.Return), flag("throw", r.Throw))
	}
}
