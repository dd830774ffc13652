package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgallion1/writerkit/internal/tokens"
	"github.com/spf13/cobra"
)

func newCountCmd(a *app) *cobra.Command {
	l := tokens.DefaultLimits()
	var saveDir string

	cmd := &cobra.Command{
		Use:   "count <file>",
		Short: "Count words and estimated tokens and check the thinking budget",
		Long: `Count the words in a text file, estimate its prompt tokens and plan how
much of the context window is left for output and thinking.

Exits with status 1 when the requested thinking budget does not fit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read text file: %w", err)
			}
			text := string(data)
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("text file %q is empty", args[0])
			}

			b := tokens.Plan(text, l)
			w := cmd.OutOrStdout()
			if b.Capped {
				a.log.Warn("thinking budget capped", "max", tokens.MaxThinkingBudget)
			}
			fmt.Fprintf(w, "Word count: %d\n", b.Words)
			fmt.Fprintf(w, "Estimated prompt tokens: %d\n", b.PromptTokens)
			fmt.Fprintf(w, "Available tokens: %d = %d - %d\n", b.Available, l.ContextWindow, b.PromptTokens)
			fmt.Fprintf(w, "Thinking budget: %d tokens\n", b.Thinking)
			fmt.Fprintf(w, "Max output tokens: %d tokens\n", b.MaxTokens)
			fmt.Fprintf(w, "Words per token ratio: %.2f\n", b.WordsPerToken)

			path, err := b.SaveReport(saveDir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Report saved to: %s\n", path)

			if !b.Sufficient() {
				fmt.Fprintf(w, "Prompt is too large to have a %d thinking budget\n", l.ThinkingBudget)
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&l.ContextWindow, "context-window", l.ContextWindow, "model context window in tokens")
	cmd.Flags().IntVar(&l.MaxOutput, "max-output-tokens", l.MaxOutput, "API ceiling for max_tokens")
	cmd.Flags().IntVar(&l.ThinkingBudget, "thinking-budget", l.ThinkingBudget, "thinking tokens required")
	cmd.Flags().IntVar(&l.DesiredOutput, "desired-output-tokens", l.DesiredOutput, "visible output tokens wanted")
	cmd.Flags().StringVar(&saveDir, "save-dir", ".", "directory for the count report")
	return cmd
}
