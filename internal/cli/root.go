package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"todo-cli/internal/config"
	"todo-cli/internal/format"
	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/tasks"
	"todo-cli/internal/tui"
	"todo-cli/internal/view"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Dir        string
	Backend    string
	PrettyJSON bool
	Format     string
}

// session is one opened task store plus the resources behind it.
type session struct {
	cfg   config.Config
	kv    store.KV
	tasks *tasks.Store
	load  tasks.LoadReport
}

func (s *session) Close() error {
	if s == nil || s.kv == nil {
		return nil
	}
	return s.kv.Close()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Local-first task list (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add "Buy milk"
  todo ls --filter active --sort name-asc
  todo ls --format md --pretty

  # Direct task lookup (shortcut for: todo show <task-id>)
  todo 0192f0c4-5b7e-7cc1-9a0e-4f3c2d1b0a99
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TODO_CONFIG", ""), "Path to config.yaml (default ~/.todo/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Storage directory (overrides config and TODO_DIR)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: file|sqlite|memory (overrides config and TODO_BACKEND)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output (indented JSON/EDN, rendered markdown)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODO_FORMAT", "json"), "Output format (json|edn|md)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	// The TUI owns the terminal; diagnostics go to a file only when asked.
	logger := log.New(io.Discard, "", 0)
	if p := strings.TrimSpace(os.Getenv("TODO_DEBUG_LOG")); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer f.Close()
		logger = log.New(f, "todo: ", log.LstdFlags)
	}
	sess, err := openSessionWith(cmd.Context(), cfg, logger)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()
	return tui.Run(cmd.Context(), tui.Options{
		Store:  sess.tasks,
		KV:     sess.kv,
		Filter: view.ParseFilter(cfg.View.Filter),
		Sort:   view.ParseSort(cfg.View.Sort),
		Glyphs: cfg.TUI.Glyphs,
	})
}

// loadConfig resolves config in precedence order: flags > env > file > defaults.
func loadConfig(app *App) (config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if v := strings.TrimSpace(app.Dir); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Storage.Backend = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command, app *App) (*session, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "todo: ", 0)
	return openSessionWith(cmd.Context(), cfg, logger)
}

func openSessionWith(ctx context.Context, cfg config.Config, logger *log.Logger) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	locale, err := view.ParseLocale(cfg.View.Locale)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	st, rep := tasks.Open(ctx, kv,
		tasks.WithKey(cfg.Storage.Key),
		tasks.WithLogger(logger),
		tasks.WithProjector(view.Projector{Locale: locale}),
	)
	return &session{cfg: cfg, kv: kv, tasks: st, load: rep}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// warnIfDegraded tells the user a write failed. The command still succeeds.
func warnIfDegraded(cmd *cobra.Command, sess *session) {
	if sess.tasks.StorageStatus() != model.StorageDegraded {
		return
	}
	msg := "warning: could not save tasks to storage; your changes may not persist"
	if err := sess.tasks.LastError(); err != nil {
		msg += " (" + err.Error() + ")"
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
}

func mutationMeta(sess *session) map[string]any {
	return map[string]any{
		"storage": sess.tasks.StorageStatus(),
	}
}
