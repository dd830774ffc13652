package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgallion1/writerkit/internal/toolkit"
	"github.com/spf13/cobra"
)

func newToolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage the writing tools configuration store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "load [file]",
		Short: "Replace the store contents with a tools_config.json file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.ToolsConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.withState(func(st *toolkit.State) error {
				res, err := st.Store().LoadFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d tools and %d settings from %s into %s\n",
					res.Tools, res.Settings, path, st.Store().Path())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured tools in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withState(func(st *toolkit.State) error {
				tools, err := st.Store().Tools(cmd.Context())
				if err != nil {
					return err
				}
				for _, t := range tools {
					fmt.Fprintln(cmd.OutOrStdout(), t.Name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print one tool's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withState(func(st *toolkit.State) error {
				t, err := st.SelectTool(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := json.Indent(&buf, t.Config, "", "  "); err != nil {
					return fmt.Errorf("format %s: %w", t.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", t.Name, buf.String())
				return nil
			})
		},
	})
	return cmd
}

// withState initializes the toolkit state for one command and closes it
// afterwards.
func (a *app) withState(fn func(*toolkit.State) error) error {
	st := toolkit.NewState(a.cfg.ProjectsDir, a.cfg.ToolsDBPath, a.log)
	if err := st.Init(); err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}
