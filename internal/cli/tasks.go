package cli

import (
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/view"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			t, err := sess.tasks.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			warnIfDegraded(cmd, sess)
			return writeOut(cmd, app, map[string]any{"data": t, "meta": mutationMeta(sess)})
		},
	}
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a task (no-op if it does not exist)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			id := model.TaskID(strings.TrimSpace(args[0]))
			removed := sess.tasks.Remove(cmd.Context(), id)
			warnIfDegraded(cmd, sess)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "removed": removed},
				"meta": mutationMeta(sess),
			})
		},
	}
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "toggle <task-id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between active and completed (no-op if it does not exist)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			id := model.TaskID(strings.TrimSpace(args[0]))
			t, ok := sess.tasks.ToggleCompleted(cmd.Context(), id)
			warnIfDegraded(cmd, sess)
			var data any
			if ok {
				data = t
			}
			meta := mutationMeta(sess)
			meta["found"] = ok
			return writeOut(cmd, app, map[string]any{"data": data, "meta": meta})
		},
	}
	return cmd
}

func newClearCompletedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			n := sess.tasks.ClearCompleted(cmd.Context())
			warnIfDegraded(cmd, sess)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"removed": n},
				"meta": mutationMeta(sess),
			})
		},
	}
	return cmd
}

// listResult is the `ls` envelope; it also renders as markdown for --format md.
type listResult struct {
	Data []model.Task `json:"data"`
	Meta listMeta     `json:"meta"`

	view view.View
}

type listMeta struct {
	Filter         view.Filter `json:"filter"`
	Sort           view.Sort   `json:"sort"`
	Total          int         `json:"total"`
	RemainingCount int         `json:"remainingCount"`
	CompletedCount int         `json:"completedCount"`
}

func (r listResult) Markdown() string { return view.Markdown(r.view) }

func newListCmd(app *App) *cobra.Command {
	var filter string
	var sortMode string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks through a filter and sort",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			f := sess.cfg.View.Filter
			if cmd.Flags().Changed("filter") {
				f = filter
			}
			s := sess.cfg.View.Sort
			if cmd.Flags().Changed("sort") {
				s = sortMode
			}
			v := sess.tasks.View(view.ParseFilter(f), view.ParseSort(s))
			return writeOut(cmd, app, listResult{
				Data: v.Items,
				Meta: listMeta{
					Filter:         v.Filter,
					Sort:           v.Sort,
					Total:          v.Total,
					RemainingCount: v.RemainingCount,
					CompletedCount: v.CompletedCount,
				},
				view: v,
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Filter: all|active|completed")
	cmd.Flags().StringVar(&sortMode, "sort", "default", "Sort: default|date-asc|date-desc|name-asc|name-desc")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			id := strings.TrimSpace(args[0])
			t, ok := sess.tasks.Get(model.TaskID(id))
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}
