// Command wingc runs compiler passes over serialized syntax trees.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	debug   bool
	noColor bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var flags globalFlags
	root := newRootCmd(&flags)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		FormatError(stderr, err, ShouldUseColor(stderr, flags.noColor))
		return 1
	}
	return 0
}

func newRootCmd(flags *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "wingc",
		Short:         "Run wing compiler passes over syntax tree documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newLiftCmd(flags),
		newScanCmd(flags),
		newFmtCmd(flags),
	)
	return root
}

// newLogger returns a development logger under --debug and a no-op logger otherwise.
func newLogger(flags *globalFlags) (*zap.Logger, error) {
	if !flags.debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
