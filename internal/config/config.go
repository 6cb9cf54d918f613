package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"todo-cli/internal/store"
	"todo-cli/internal/view"

	"gopkg.in/yaml.v3"
)

const (
	envConfigDir  = "TODO_CONFIG_DIR"
	envConfigPath = "TODO_CONFIG"
	envDir        = "TODO_DIR"
	envBackend    = "TODO_BACKEND"
	envLocale     = "TODO_LOCALE"
	envGlyphs     = "TODO_TUI_GLYPHS"

	configFileName = "config.yaml"
)

type Config struct {
	Storage StorageConfig `yaml:"storage" json:"storage"`
	View    ViewConfig    `yaml:"view" json:"view"`
	TUI     TUIConfig     `yaml:"tui" json:"tui"`
}

type StorageConfig struct {
	// Backend is one of: file|sqlite|memory
	Backend string `yaml:"backend" json:"backend"`
	Dir     string `yaml:"dir" json:"dir"`
	Key     string `yaml:"key" json:"key"`

	// QuotaBytes caps the serialized collection size; 0 disables the cap.
	QuotaBytes int64 `yaml:"quota_bytes" json:"quotaBytes"`
}

type ViewConfig struct {
	Filter string `yaml:"filter" json:"filter"`
	Sort   string `yaml:"sort" json:"sort"`
	Locale string `yaml:"locale" json:"locale"`
}

type TUIConfig struct {
	// Glyphs is one of: unicode|ascii
	Glyphs string `yaml:"glyphs" json:"glyphs"`
}

// Dir returns the directory holding config.yaml and, by default, task data.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todo).
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo"), nil
}

// Path returns the config file path, honouring TODO_CONFIG.
func Path() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envConfigPath)); v != "" {
		return v, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func Default() Config {
	dir, err := Dir()
	if err != nil {
		dir = ".todo"
	}
	return Config{
		Storage: StorageConfig{
			Backend:    string(store.BackendFile),
			Dir:        filepath.Join(dir, "data"),
			Key:        "todo-tasks",
			QuotaBytes: store.DefaultQuotaBytes,
		},
		View: ViewConfig{
			Filter: string(view.FilterAll),
			Sort:   string(view.SortDefault),
			Locale: view.DefaultLocale.String(),
		},
		TUI: TUIConfig{Glyphs: "unicode"},
	}
}

// Load reads path over the defaults. An empty path means Path(); a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return store.WriteFileAtomic(path, b)
}

// ApplyEnv overlays TODO_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(envDir)); v != "" {
		c.Storage.Dir = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(envBackend)); v != "" {
		c.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(envLocale)); v != "" {
		c.View.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv(envGlyphs)); v != "" {
		c.TUI.Glyphs = v
	}
}

func (c Config) Validate() error {
	if _, err := store.ParseBackend(c.Storage.Backend); err != nil {
		return err
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must be >= 0 (got %d)", c.Storage.QuotaBytes)
	}
	if _, err := view.ParseLocale(c.View.Locale); err != nil {
		return fmt.Errorf("view.locale: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Glyphs)) {
	case "", "unicode", "utf8", "ascii":
	default:
		return fmt.Errorf("tui.glyphs: unknown value %q (want unicode|ascii)", c.TUI.Glyphs)
	}
	return nil
}

// StoreOptions maps the storage section onto store.Options.
func (c Config) StoreOptions() store.Options {
	b, _ := store.ParseBackend(c.Storage.Backend)
	return store.Options{
		Backend:    b,
		Dir:        c.Storage.Dir,
		QuotaBytes: c.Storage.QuotaBytes,
	}
}

func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
