// Command writerkit extracts chapter lists from book outlines and runs the
// supporting writing tools.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/writerkit/internal/config"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	stderr io.Writer
}

// exitError ends the process with code after the command has already
// reported its outcome.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{stderr: stderr})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "writerkit",
		Short: "Tools for turning book outlines into chapters",
		Long: `writerkit extracts numbered chapter headings from an outline and
writes them as a canonical chapter list.

Outlines may be plain text, Markdown, HTML, DOCX or PDF. Configuration is
read from the environment and an optional .env file; flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			log, err := newLogger(a.stderr, a.cfg.LogLevel, a.cfg.LogFormat)
			if err != nil {
				return err
			}
			a.log = log
			slog.SetDefault(log)
			return nil
		},
	}

	root.AddCommand(newChaptersCmd(a))
	root.AddCommand(newPlaintextCmd(a))
	root.AddCommand(newCountCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newToolsCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// newLogger builds the process logger. Logs go to w (stderr) so stdout only
// carries command output.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", format)
	}
}
