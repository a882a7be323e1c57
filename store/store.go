package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tdui/model"
)

const maxRotatingBackups = 10

var errNoValidBackup = errors.New("no valid backup found")

// Store persists the full ordered task sequence as a JSON array in a
// single file.
type Store struct {
	path string
}

// New returns a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath is ~/.local/share/tdui/todos.json, falling back to
// USERPROFILE and then the working directory when HOME is unset.
func DefaultPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "tdui", "todos.json")
}

// Load reads the task sequence from the store file.
// A missing file yields an empty sequence.
func (s *Store) Load() ([]model.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, err
	}
	return decodeTasks(data)
}

// LoadWithRecovery loads tasks and tries automatic recovery when the main
// file is corrupted: the bad file is moved aside and the latest valid
// backup (or an empty sequence) takes its place. It returns an optional
// status message to be shown to the user.
func (s *Store) LoadWithRecovery() ([]model.Task, string, error) {
	tasks, err := s.Load()
	if err == nil {
		return tasks, "", nil
	}
	if !isCorruptDataError(err) {
		return nil, "", err
	}

	corruptPath, moveErr := s.moveCorruptFile()
	if moveErr != nil {
		return nil, "", fmt.Errorf("move corrupt file: %w", moveErr)
	}

	recovered, backupPath, backupErr := s.loadLatestValidBackup()
	if backupErr == nil {
		if err := s.Save(recovered); err != nil {
			return nil, "", fmt.Errorf("restore backup: %w", err)
		}
		msg := fmt.Sprintf("Recovered tasks from %s", filepath.Base(backupPath))
		if corruptPath != "" {
			msg += fmt.Sprintf(" (bad file moved to %s)", filepath.Base(corruptPath))
		}
		return recovered, msg, nil
	}
	if !errors.Is(backupErr, errNoValidBackup) {
		return nil, "", fmt.Errorf("inspect backups: %w", backupErr)
	}

	empty := []model.Task{}
	if err := s.Save(empty); err != nil {
		return nil, "", fmt.Errorf("reinitialize after corruption: %w", err)
	}
	msg := "Task file was corrupt with no valid backup; starting empty"
	if corruptPath != "" {
		msg += fmt.Sprintf(" (bad file moved to %s)", filepath.Base(corruptPath))
	}
	return empty, msg, nil
}

// Save writes the full task sequence atomically via a temporary file and
// rename. It also stores a latest backup (.bak) and a rotating timestamped
// backup set.
func (s *Store) Save(tasks []model.Task) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	if err := s.backup(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}

func decodeTasks(data []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *Store) ensureDir() error {
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}

func (s *Store) backup() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.WriteFile(s.path+".bak", data, 0o644); err != nil {
		return err
	}

	timestamp := time.Now().UTC().Format("20060102-150405.000000000")
	rotatingPath := fmt.Sprintf("%s.bak.%s", s.path, timestamp)
	if err := os.WriteFile(rotatingPath, data, 0o644); err != nil {
		return err
	}

	return s.pruneRotatingBackups()
}

func (s *Store) pruneRotatingBackups() error {
	files, err := filepath.Glob(s.path + ".bak.*")
	if err != nil {
		return err
	}
	if len(files) <= maxRotatingBackups {
		return nil
	}

	sort.Strings(files)
	toDelete := files[:len(files)-maxRotatingBackups]
	for _, old := range toDelete {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *Store) loadLatestValidBackup() ([]model.Task, string, error) {
	candidates := make([]string, 0, 12)
	latest := s.path + ".bak"
	if _, err := os.Stat(latest); err == nil {
		candidates = append(candidates, latest)
	}
	rotating, err := filepath.Glob(s.path + ".bak.*")
	if err != nil {
		return nil, "", err
	}
	candidates = append(candidates, rotating...)
	if len(candidates) == 0 {
		return nil, "", errNoValidBackup
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		iInfo, iErr := os.Stat(candidates[i])
		jInfo, jErr := os.Stat(candidates[j])
		if iErr != nil || jErr != nil {
			return candidates[i] > candidates[j]
		}
		return iInfo.ModTime().After(jInfo.ModTime())
	})

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		tasks, err := decodeTasks(data)
		if err != nil {
			continue
		}
		return tasks, candidate, nil
	}

	return nil, "", errNoValidBackup
}

func (s *Store) moveCorruptFile() (string, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	timestamp := time.Now().UTC().Format("20060102-150405")
	corruptName := fmt.Sprintf("%s.corrupt-%s%s", name, timestamp, ext)
	corruptPath := filepath.Join(filepath.Dir(s.path), corruptName)
	if err := os.Rename(s.path, corruptPath); err != nil {
		return "", err
	}
	return corruptPath, nil
}

func isCorruptDataError(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}
