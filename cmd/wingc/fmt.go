package main

import (
	"github.com/spf13/cobra"
)

func newFmtCmd(_ *globalFlags) *cobra.Command {
	var inFlag string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a syntax tree document as source text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := inputFormat(inFlag, args)
			if err != nil {
				return err
			}
			m, err := readModule(args, cmd.InOrStdin(), format)
			if err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().StringVar(&inFlag, "input-format", "", "Input format: json or cbor (default from file extension)")
	return cmd
}
