package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"todo-cli/internal/store"
	"todo-cli/internal/tasks"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored tasks as a JSON array (the same shape the store persists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			kv, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			b, err := tasks.Export(cmd.Context(), kv, cfg.Storage.Key)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("export: %w", err))
			}
			if strings.TrimSpace(out) == "" || out == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			if err := store.WriteFileAtomic(out, b); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "bytes": len(b)}})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace stored tasks with a JSON array (rejected entirely if any task is malformed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			kv, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer kv.Close()

			n, err := tasks.Import(cmd.Context(), kv, cfg.Storage.Key, b)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"imported": n}})
		},
	}
	return cmd
}
