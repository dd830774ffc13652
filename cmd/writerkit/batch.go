package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/writerkit/internal/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Work with Anthropic message batches",
	}

	var saveDir string
	var wait bool
	results := &cobra.Command{
		Use:   "results <batch-id>",
		Short: "Retrieve a finished batch and save its output",
		Long: `Retrieve every result of a message batch, concatenate the generated text
and thinking, and save them with any item errors into the save directory.

Exit status: 0 completed, 1 failed or retrieval error, 2 partially
completed, 3 no results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateBatch(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.batchResults(ctx, cmd.OutOrStdout(), args[0], saveDir, wait)
		},
	}
	results.Flags().StringVar(&saveDir, "save-dir", ".", "directory to save the retrieved files")
	results.Flags().BoolVar(&wait, "wait", false, "poll until the batch has ended")

	cmd.AddCommand(results)
	return cmd
}

func (a *app) batchResults(ctx context.Context, w io.Writer, batchID, saveDir string, wait bool) error {
	client := batch.NewClient(a.cfg.AnthropicAPIKey, a.cfg.AnthropicBaseURL)
	defer client.Close()

	fmt.Fprintf(w, "Retrieving results for batch: %s\n", batchID)

	if wait {
		_, err := client.Wait(ctx, batchID, a.cfg.BatchPollInterval, func(b *batch.Batch) {
			a.log.Info("batch status",
				"batch_id", b.ID,
				"status", b.ProcessingStatus,
				"processing", b.RequestCounts.Processing,
				"succeeded", b.RequestCounts.Succeeded,
			)
		})
		if err != nil {
			return a.retrievalFailed(w, err)
		}
	}

	summary, err := batch.Collect(ctx, client, batchID, a.log)
	if err != nil {
		return a.retrievalFailed(w, err)
	}

	switch summary.Status {
	case batch.StatusFailed:
		fmt.Fprintln(w, "Job failed: all batch items encountered errors or expired")
	case batch.StatusPartial:
		fmt.Fprintf(w, "Job partially completed: %d succeeded, %d failed, %d expired\n",
			summary.Succeeded, summary.Errored+summary.Canceled, summary.Expired)
	case batch.StatusCompleted:
		fmt.Fprintf(w, "Job completed successfully with %d item(s)\n", summary.Succeeded)
	default:
		fmt.Fprintln(w, "No results found for this batch job.")
	}

	saved, err := summary.Save(saveDir, time.Now())
	if err != nil {
		return err
	}
	if saved.OutputPath != "" {
		fmt.Fprintf(w, "Output saved to: %s\n", saved.OutputPath)
		fmt.Fprintf(w, "Output contains approximately %d words.\n", saved.WordCount)
	} else {
		fmt.Fprintln(w, "No response content was generated.")
	}
	if saved.ThinkingPath != "" {
		fmt.Fprintf(w, "Thinking process saved to: %s\n", saved.ThinkingPath)
	}
	if saved.ErrorsPath != "" {
		fmt.Fprintf(w, "Errors saved to: %s\n", saved.ErrorsPath)
	}

	if code := summary.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func (a *app) retrievalFailed(w io.Writer, err error) error {
	a.log.Error("batch retrieval failed", "error", err)
	fmt.Fprintf(w, "Error retrieving results: %v\n", err)
	switch {
	case errors.Is(err, batch.ErrNotFound):
		fmt.Fprintln(w, "The batch ID may be invalid or the results may no longer be available.")
	case errors.Is(err, batch.ErrNotEnded):
		fmt.Fprintln(w, "Run again with --wait to poll until the batch has ended.")
	}
	return &exitError{code: 1}
}
