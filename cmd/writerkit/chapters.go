package main

import (
	"github.com/dgallion1/writerkit/internal/outline"
	"github.com/spf13/cobra"
)

type chaptersFlags struct {
	input    string
	output   string
	encoding string
}

func newChaptersCmd(a *app) *cobra.Command {
	var f chaptersFlags

	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Extract chapter headings from an outline into a chapter list",
		Long: `Read the outline, keep every line that looks like a numbered chapter
heading ("Chapter 1: Title", "2. Title", "3 Title") and write them as
"<number>. <title>" lines to the output file.

An unreadable outline is logged and produces an empty chapter list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.driver(f).Run(cmd.OutOrStdout())
			return err
		},
	}
	cmd.PersistentFlags().StringVarP(&f.input, "input", "i", "", "outline file (default $OUTLINE_PATH or outline.txt)")
	cmd.PersistentFlags().StringVar(&f.encoding, "encoding", "", "outline text encoding (default $OUTLINE_ENCODING or utf-8)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "chapter list file (default $CHAPTERS_PATH or chapters.txt)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the extracted chapters without writing a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.driver(f).List(cmd.OutOrStdout())
			return err
		},
	})
	return cmd
}

func (a *app) driver(f chaptersFlags) *outline.Driver {
	d := &outline.Driver{
		Input:  a.cfg.OutlinePath,
		Output: a.cfg.ChaptersPath,
		Options: outline.Options{
			Encoding:             a.cfg.OutlineEncoding,
			PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext,
		},
		Log: a.log,
	}
	if f.input != "" {
		d.Input = f.input
	}
	if f.output != "" {
		d.Output = f.output
	}
	if f.encoding != "" {
		d.Options.Encoding = f.encoding
	}
	return d
}
