package cli

import (
	"errors"
	"os"

	"todo-cli/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml and create the storage directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = p
			}

			created := false
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) || force {
				cfg := config.Default()
				if app.Dir != "" {
					cfg.Storage.Dir = app.Dir
				}
				if app.Backend != "" {
					cfg.Storage.Backend = app.Backend
				}
				if err := cfg.Validate(); err != nil {
					return writeErr(cmd, err)
				}
				if err := config.Save(path, cfg); err != nil {
					return writeErr(cmd, err)
				}
				created = true
			}

			app.ConfigPath = path
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"config":  path,
					"created": created,
					"storage": sess.cfg.Storage,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml with defaults")
	return cmd
}
