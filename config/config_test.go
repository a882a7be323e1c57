package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tdui", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load or create failed: %v", err)
	}
	if cfg.Keys.Quit != "q" || cfg.Keys.NewTask != "+" {
		t.Fatalf("unexpected default keys: %+v", cfg.Keys)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file written: %v", err)
	}

	// Loading the freshly written file round-trips the defaults.
	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again != cfg {
		t.Fatalf("round-trip mismatch\nwant=%+v\ngot=%+v", cfg, again)
	}
}

func TestLoadOrCreateReadsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	content := "data_path = \"/tmp/elsewhere.json\"\n\n[keys]\nquit = \"x\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DataPath != "/tmp/elsewhere.json" {
		t.Fatalf("data path override lost: %q", cfg.DataPath)
	}
	if cfg.Keys.Quit != "x" {
		t.Fatalf("quit override lost: %q", cfg.Keys.Quit)
	}
	if cfg.Keys.Delete != "-" {
		t.Fatalf("unset keys must fall back to defaults, got %q", cfg.Keys.Delete)
	}
}
