package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultConfigFileName = "config.toml"

// Keymap holds the rebindable normal-mode keys. Arrows, Enter, Esc and
// Tab are fixed; only plain character keys are configurable.
type Keymap struct {
	Quit     string `toml:"quit"`
	NewTask  string `toml:"new_task"`
	Complete string `toml:"complete"`
	Delete   string `toml:"delete"`
	Today    string `toml:"today"`
}

type Config struct {
	DataPath string `toml:"data_path"`
	Keys     Keymap `toml:"keys"`
}

// ResolvePath returns the user config file location,
// <user-config-dir>/tdui/config.toml, falling back to the working
// directory when no config dir can be determined.
func ResolvePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "tdui", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there
// first when the file does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Keys = fillKeymap(cfg.Keys)
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fillKeymap backfills defaults for keys a hand-edited config left blank.
func fillKeymap(keys Keymap) Keymap {
	defaults := Default().Keys
	if keys.Quit == "" {
		keys.Quit = defaults.Quit
	}
	if keys.NewTask == "" {
		keys.NewTask = defaults.NewTask
	}
	if keys.Complete == "" {
		keys.Complete = defaults.Complete
	}
	if keys.Delete == "" {
		keys.Delete = defaults.Delete
	}
	if keys.Today == "" {
		keys.Today = defaults.Today
	}
	return keys
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		// Empty means the store's default path.
		DataPath: "",
		Keys: Keymap{
			Quit:     "q",
			NewTask:  "+",
			Complete: "d",
			Delete:   "-",
			Today:    "t",
		},
	}
}
