package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChihweiLHBird/wing/core/ast"
	"github.com/ChihweiLHBird/wing/core/astfmt"
	"github.com/ChihweiLHBird/wing/core/naming"
	"github.com/ChihweiLHBird/wing/core/transform"
)

const (
	namingCounter = "counter"
	namingHashed  = "hashed"
)

type liftOptions struct {
	format      string
	inputFormat string
	naming      string
	watch       bool
	stats       bool
}

func newLiftCmd(flags *globalFlags) *cobra.Command {
	var opts liftOptions

	cmd := &cobra.Command{
		Use:   "lift [file]",
		Short: "Lift inflight closures in preflight code into resources",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			useColor := ShouldUseColor(cmd.ErrOrStderr(), flags.noColor)
			runOnce := func() error {
				return runLift(cmd, args, opts, logger, useColor)
			}

			if !opts.watch {
				return runOnce()
			}
			if len(args) == 0 || args[0] == "-" {
				return &CLIError{Message: "--watch needs a file argument", Hint: "stdin cannot be watched"}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchFile(ctx, args[0], logger, func() {
				if err := runOnce(); err != nil {
					FormatError(cmd.ErrOrStderr(), err, useColor)
				}
			})
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "Output format: json, cbor or text")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "Input format: json or cbor (default from file extension)")
	cmd.Flags().StringVar(&opts.naming, "naming", namingCounter, "Resource class naming: counter or hashed")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run whenever the input file changes")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print transform statistics to stderr")
	return cmd
}

func runLift(cmd *cobra.Command, args []string, opts liftOptions, logger *zap.Logger, useColor bool) error {
	inFormat, err := inputFormat(opts.inputFormat, args)
	if err != nil {
		return err
	}
	m, err := readModule(args, cmd.InOrStdin(), inFormat)
	if err != nil {
		return err
	}

	if err := checkPhases(m); err != nil {
		return err
	}

	namer, err := newNamer(opts.naming, m)
	if err != nil {
		return err
	}

	topts := []transform.Option{transform.WithNamer(namer), transform.WithLogger(logger)}
	if opts.stats {
		topts = append(topts, transform.WithTelemetryTiming())
	}
	tr := transform.NewInflightTransformer(topts...)
	out := tr.TransformModule(m)

	if err := writeModule(cmd.OutOrStdout(), out, opts.format); err != nil {
		return err
	}
	if opts.stats {
		printStats(cmd.ErrOrStderr(), tr.Telemetry(), useColor)
	}
	return nil
}

// checkPhases rejects trees the transform cannot run on: every function
// definition must carry a phase. Details lists each offending definition.
func checkPhases(m *ast.Module) error {
	var unassigned []*ast.FunctionDefinition
	ast.Inspect(m, func(n ast.Node) bool {
		if d, ok := n.(*ast.FunctionDefinition); ok && !d.Signature.Phase.IsAssigned() {
			unassigned = append(unassigned, d)
		}
		return true
	})
	if len(unassigned) == 0 {
		return nil
	}

	msg := fmt.Sprintf("function at %s has no phase", unassigned[0].Span)
	if len(unassigned) > 1 {
		msg = fmt.Sprintf("%d functions have no phase", len(unassigned))
	}
	var details strings.Builder
	for i, d := range unassigned {
		if i > 0 {
			details.WriteString("\n")
		}
		fmt.Fprintf(&details, "  %s: %s", d.Span, phaseSummary(d))
	}
	return &CLIError{
		Message: msg,
		Details: details.String(),
		Hint:    `set "phase" to "preflight" or "inflight" on every function definition`,
	}
}

// phaseSummary describes a definition by its parameter count and body form.
func phaseSummary(d *ast.FunctionDefinition) string {
	body := "block body"
	if _, ok := d.Body.(*ast.ExprBody); ok {
		body = "expression body"
	}
	return fmt.Sprintf("%d parameter(s), %s", len(d.Signature.Parameters), body)
}

// newNamer builds the namer for one compilation unit. Hashed names are keyed
// by the digest of the untransformed tree, so they only change when the input
// does.
func newNamer(mode string, m *ast.Module) (naming.Namer, error) {
	switch mode {
	case namingCounter:
		return naming.NewCounterNamer(), nil
	case namingHashed:
		digest, err := astfmt.Digest(m)
		if err != nil {
			return nil, fmt.Errorf("digest module: %w", err)
		}
		return naming.NewHashedNamer(digest[:]), nil
	default:
		return nil, fmt.Errorf("unknown naming mode %q (want counter or hashed)", mode)
	}
}

func printStats(w io.Writer, t transform.Telemetry, useColor bool) {
	row := func(label string, value any) {
		_, _ = fmt.Fprintf(w, "%s %v\n", Colorize(fmt.Sprintf("%-18s", label), styleLabel, useColor), value)
	}
	row("lifted", t.Lifted)
	row("functions entered", t.FunctionsEntered)
	row("runtime skips", t.RuntimeSkips)
	row("max depth", t.MaxDepth)
	row("time", t.TotalTime)
}

// watchFile calls fn once, then again after every write to path, until ctx is
// done. The parent directory is watched so that editors that replace the file
// on save are still seen.
func watchFile(ctx context.Context, path string, logger *zap.Logger, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	fn()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isChangeOf(ev, abs) {
				continue
			}
			logger.Debug("input changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch events dropped", zap.Error(err))
				fn()
				continue
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}

// isChangeOf reports whether ev modified the file at abs.
func isChangeOf(ev fsnotify.Event, abs string) bool {
	if filepath.Clean(ev.Name) != abs {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
