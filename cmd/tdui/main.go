package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tdui/app"
	"tdui/config"
	"tdui/store"
	"tdui/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tdui:", err)
		os.Exit(1)
	}
}

func run() error {
	notice := ""

	cfg, err := config.LoadOrCreate(config.ResolvePath())
	if err != nil {
		// A broken config is not fatal; run with the defaults.
		notice = "Config ignored: " + err.Error()
	}

	dataPath := cfg.DataPath
	if dataPath == "" {
		dataPath = store.DefaultPath()
	}
	st := store.New(dataPath)

	// Repair a corrupt file up front so the service starts from a clean
	// read; read errors degrade to an empty session.
	if _, recovered, err := st.LoadWithRecovery(); err == nil && recovered != "" {
		notice = recovered
	} else if err != nil {
		notice = "Could not read tasks, starting empty: " + err.Error()
	}

	svc := app.NewService(st)

	watcher, err := store.NewWatcher(dataPath)
	if err != nil {
		watcher = nil
	} else {
		defer watcher.Close()
	}

	m := tui.NewModel(svc, cfg.Keys, watcher, notice)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
