package app

import (
	"errors"
	"testing"
	"time"

	"tdui/model"
)

// memStorage is an in-memory Storage for service tests.
type memStorage struct {
	tasks   []model.Task
	saveErr error
	saves   int
}

func (m *memStorage) Load() ([]model.Task, error) {
	out := make([]model.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}

func (m *memStorage) Save(tasks []model.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.tasks = make([]model.Task, len(tasks))
	copy(m.tasks, tasks)
	return nil
}

func testClock() time.Time {
	return time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, svc *Service, title string, due *model.Date, now time.Time) model.Task {
	t.Helper()
	task, err := svc.Create(title, "", due, now)
	if err != nil {
		t.Fatalf("create %q failed: %v", title, err)
	}
	return task
}

func datePtr(d model.Date) *model.Date {
	return &d
}

func TestOrderingDueDatedFirstThenCreation(t *testing.T) {
	svc := NewService(&memStorage{})
	now := testClock()

	// Created as: undated, due in 10 days, due in 2 days.
	mustCreate(t, svc, "undated", nil, now)
	mustCreate(t, svc, "due-later", datePtr(model.NewDate(2026, time.June, 25)), now.Add(time.Second))
	mustCreate(t, svc, "due-sooner", datePtr(model.NewDate(2026, time.June, 17)), now.Add(2*time.Second))

	got := svc.Working()
	if len(got) != 3 {
		t.Fatalf("expected 3 working tasks, got %d", len(got))
	}
	if got[0].Title != "due-sooner" || got[1].Title != "due-later" || got[2].Title != "undated" {
		t.Fatalf("unexpected order: %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestOrderingTiesBrokenByCreationTime(t *testing.T) {
	svc := NewService(&memStorage{})
	now := testClock()
	due := model.NewDate(2026, time.June, 20)

	first := mustCreate(t, svc, "first", datePtr(due), now)
	second := mustCreate(t, svc, "second", datePtr(due), now.Add(time.Minute))

	got := svc.Working()
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("equal due dates must keep creation order, got %+v", got)
	}
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	svc := NewService(&memStorage{})
	now := testClock()

	a := mustCreate(t, svc, "a", nil, now)
	b := mustCreate(t, svc, "b", nil, now)
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", a.ID, b.ID)
	}

	// The highest id leaves the working set; it must not be reissued.
	if err := svc.Complete(b.ID, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	c := mustCreate(t, svc, "c", nil, now)
	if c.ID != 3 {
		t.Fatalf("id held by a completed task was reissued: got %d", c.ID)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	st := &memStorage{}
	svc := NewService(st)

	if _, err := svc.Create("", "body", nil, testClock()); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if st.saves != 0 {
		t.Fatalf("empty title must not persist anything")
	}
	if svc.WorkingLen() != 0 {
		t.Fatalf("empty title must not add a task")
	}
}

func TestCompleteKeepsRecordInStorage(t *testing.T) {
	st := &memStorage{}
	svc := NewService(st)
	now := testClock()
	task := mustCreate(t, svc, "finish me", nil, now)

	done := now.Add(time.Hour)
	if err := svc.Complete(task.ID, done); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if svc.WorkingLen() != 0 {
		t.Fatalf("completed task must leave the working set")
	}
	if len(st.tasks) != 1 {
		t.Fatalf("completed task must stay persisted, got %d records", len(st.tasks))
	}
	if !st.tasks[0].Completed {
		t.Fatalf("persisted record must carry the completed flag")
	}
	if st.tasks[0].CompletedAt == nil || !st.tasks[0].CompletedAt.Equal(done) {
		t.Fatalf("persisted record must carry CompletedAt, got %v", st.tasks[0].CompletedAt)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	st := &memStorage{}
	svc := NewService(st)
	task := mustCreate(t, svc, "drop me", nil, testClock())

	if err := svc.Delete(task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if svc.WorkingLen() != 0 {
		t.Fatalf("deleted task must leave the working set")
	}
	if len(st.tasks) != 1 || !st.tasks[0].Deleted {
		t.Fatalf("deleted task must stay persisted with its flag, got %+v", st.tasks)
	}

	// A fresh service over the same storage sees the same picture.
	again := NewService(st)
	if again.WorkingLen() != 0 {
		t.Fatalf("deleted task resurfaced after reload")
	}
	if len(again.All()) != 1 {
		t.Fatalf("deleted record lost on reload")
	}
}

func TestUpdateKeepsIdentityAndResorts(t *testing.T) {
	svc := NewService(&memStorage{})
	now := testClock()

	target := mustCreate(t, svc, "moves up", nil, now)
	mustCreate(t, svc, "stays", datePtr(model.NewDate(2026, time.June, 30)), now.Add(time.Second))

	updated, err := svc.Update(target.ID, "moves up", "now urgent", datePtr(model.NewDate(2026, time.June, 16)))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != target.ID {
		t.Fatalf("update must keep the id, got %d want %d", updated.ID, target.ID)
	}
	if !updated.CreatedAt.Equal(target.CreatedAt) {
		t.Fatalf("update must keep CreatedAt")
	}

	if idx := svc.IndexOf(target.ID); idx != 0 {
		t.Fatalf("expected updated task to sort first, got index %d", idx)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := NewService(&memStorage{})
	if _, err := svc.Update(42, "ghost", "", nil); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSaveFailureKeepsSessionState(t *testing.T) {
	st := &memStorage{saveErr: errors.New("disk full")}
	svc := NewService(st)

	task, err := svc.Create("still here", "", nil, testClock())
	if err == nil {
		t.Fatalf("expected save error to surface")
	}
	if task.ID == 0 {
		t.Fatalf("mutation must apply even when the save fails")
	}
	if svc.WorkingLen() != 1 {
		t.Fatalf("session state must stay authoritative after save failure")
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	st := &memStorage{}
	svc := NewService(st)
	now := testClock()
	mustCreate(t, svc, "mine", nil, now)

	external := model.NewTask(99, "theirs", "", nil, now)
	st.tasks = append(st.tasks, external)

	svc.Reload()
	if svc.WorkingLen() != 2 {
		t.Fatalf("expected reload to pick up the external record, got %d", svc.WorkingLen())
	}
	if svc.IndexOf(99) < 0 {
		t.Fatalf("external task missing from working set")
	}
}

func TestStatsCountsAndSeries(t *testing.T) {
	svc := NewService(&memStorage{})
	now := testClock()
	today := model.DateOf(now)

	mustCreate(t, svc, "open", nil, now)
	mustCreate(t, svc, "late", datePtr(today.AddDays(-3)), now)
	done := mustCreate(t, svc, "done", nil, now)
	gone := mustCreate(t, svc, "gone", nil, now)
	if err := svc.Complete(done.ID, now); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if err := svc.Delete(gone.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	st := svc.Stats(now)
	if st.Todo != 2 {
		t.Fatalf("expected 2 todo, got %d", st.Todo)
	}
	if st.Done != 1 {
		t.Fatalf("expected 1 done, got %d", st.Done)
	}
	if st.Deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", st.Deleted)
	}
	if st.Overdue != 1 {
		t.Fatalf("expected 1 overdue, got %d", st.Overdue)
	}

	if len(st.Created) != StatsWindowDays+1 {
		t.Fatalf("unexpected series length %d", len(st.Created))
	}
	if st.Created[StatsWindowDays] != 4 {
		t.Fatalf("expected 4 tasks created today, got %d", st.Created[StatsWindowDays])
	}
	if st.Completed[StatsWindowDays] != 1 {
		t.Fatalf("expected 1 task completed today, got %d", st.Completed[StatsWindowDays])
	}
	if st.OverdueOn[StatsWindowDays-3] != 1 {
		t.Fatalf("expected the missed due day to register, got %+v", st.OverdueOn[StatsWindowDays-3])
	}
}
