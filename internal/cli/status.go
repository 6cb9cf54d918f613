package cli

import (
	"todo-cli/internal/store"
	"todo-cli/internal/view"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show storage location and task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			opts := sess.cfg.StoreOptions()
			v := sess.tasks.View(view.FilterAll, view.SortDefault)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"backend":        opts.Backend,
					"location":       store.Location(opts),
					"key":            sess.tasks.Key(),
					"storage":        sess.tasks.StorageStatus(),
					"load":           sess.load.State,
					"total":          v.Total,
					"remainingCount": v.RemainingCount,
					"completedCount": v.CompletedCount,
				},
			})
		},
	}
	return cmd
}
