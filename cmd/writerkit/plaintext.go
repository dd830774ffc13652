package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/writerkit/internal/plaintext"
	"github.com/spf13/cobra"
)

func newPlaintextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plaintext [file]",
		Short: "Convert Markdown to plain text",
		Long:  "Convert a Markdown file, or standard input when no file is given, to plain text on standard output.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read markdown: %w", err)
			}
			a.log.Debug("converting markdown", "bytes", len(src))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), plaintext.Convert(src))
			return err
		},
	}
}
