package cli

import (
	"errors"

	"todo-cli/internal/store"
	"todo-cli/internal/tasks"

	"github.com/spf13/cobra"
)

// ErrDoctorIssuesFound is returned by `doctor --fail` when the payload is corrupt.
var ErrDoctorIssuesFound = errors.New("doctor: stored tasks are corrupt")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the stored task payload without modifying it",
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

			report := tasks.Inspect(cmd.Context(), kv, cfg.Storage.Key)

			hints := []string{"todo status"}
			if report.State == tasks.LoadCorrupt {
				hints = append(hints, "todo import <file>  # replace the corrupt payload with a valid export")
			}
			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   map[string]any{"hasErrors": report.State == tasks.LoadCorrupt},
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.State == tasks.LoadCorrupt {
				return ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero if the stored payload is corrupt")
	return cmd
}
