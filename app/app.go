package app

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"tdui/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTitle   = errors.New("task title must not be empty")
)

// Storage abstracts the persistence backend.
type Storage interface {
	Load() ([]model.Task, error)
	Save([]model.Task) error
}

// Service holds domain rules and in-memory state. It owns the full
// persisted task sequence; the working sequence is the active subset
// (not completed, not deleted) kept in display order.
type Service struct {
	storage Storage
	all     []model.Task
	working []model.Task
}

// NewService creates a service over the given storage. Read failures
// degrade to an empty collection; the session always starts.
func NewService(storage Storage) *Service {
	s := &Service{storage: storage}
	s.Reload()
	return s
}

// Reload re-reads the persisted sequence, replacing in-memory state.
func (s *Service) Reload() {
	tasks, err := s.storage.Load()
	if err != nil || tasks == nil {
		tasks = []model.Task{}
	}
	s.all = tasks
	s.refreshWorking()
}

// Working returns the active tasks in display order, as a copy.
func (s *Service) Working() []model.Task {
	out := make([]model.Task, len(s.working))
	copy(out, s.working)
	return out
}

// All returns the full persisted sequence as a copy.
func (s *Service) All() []model.Task {
	out := make([]model.Task, len(s.all))
	copy(out, s.all)
	return out
}

// WorkingLen returns the number of active tasks.
func (s *Service) WorkingLen() int {
	return len(s.working)
}

// TaskAt returns the working task at index i.
func (s *Service) TaskAt(i int) (model.Task, bool) {
	if i < 0 || i >= len(s.working) {
		return model.Task{}, false
	}
	return s.working[i], true
}

// IndexOf returns the working index of the task with the given id, or -1.
func (s *Service) IndexOf(id int) int {
	for i, t := range s.working {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Create appends a new task and persists the full sequence. The returned
// task is valid even when the save fails; the session state stays
// authoritative and the error is reported for the status line.
func (s *Service) Create(title, description string, due *model.Date, now time.Time) (model.Task, error) {
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	task := model.NewTask(s.nextID(), title, description, due, now)
	s.all = append(s.all, task)
	s.refreshWorking()
	return task, s.persist()
}

// Update edits title, description and due date of the task with the given
// id, keeping the id and creation time.
func (s *Service) Update(id int, title, description string, due *model.Date) (model.Task, error) {
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	i := s.findAll(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	s.all[i].Title = title
	s.all[i].Description = description
	s.all[i].DueDate = due
	s.refreshWorking()
	return s.all[i], s.persist()
}

// Complete marks the task with the given id completed at now.
func (s *Service) Complete(id int, now time.Time) error {
	i := s.findAll(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	if !s.all[i].Completed {
		s.all[i].ToggleCompleted(now)
	}
	s.refreshWorking()
	return s.persist()
}

// Delete soft-deletes the task with the given id. The record stays in the
// persisted sequence with its flag set.
func (s *Service) Delete(id int) error {
	i := s.findAll(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	s.all[i].MarkDeleted()
	s.refreshWorking()
	return s.persist()
}

func (s *Service) persist() error {
	if err := s.storage.Save(s.all); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Service) findAll(id int) int {
	for i, t := range s.all {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID scans the full persisted sequence, not just the working subset:
// ids held by completed or deleted tasks must never be reissued.
func (s *Service) nextID() int {
	max := 0
	for _, t := range s.all {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func (s *Service) refreshWorking() {
	working := make([]model.Task, 0, len(s.all))
	for _, t := range s.all {
		if t.Active() {
			working = append(working, t)
		}
	}
	sortTasks(working)
	s.working = working
}

// sortTasks orders due-dated tasks first by ascending due date, then
// undated tasks; creation time breaks ties. The sort is stable.
func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if *a.DueDate != *b.DueDate {
				return a.DueDate.Before(*b.DueDate)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
