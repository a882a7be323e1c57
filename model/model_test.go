package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestTaskSerializationRoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)
	done := now.Add(2 * time.Hour)
	due := NewDate(2026, time.March, 1)
	tasks := []Task{
		{
			ID:          1,
			Title:       "write tests",
			Description: "first line\nsecond line",
			Completed:   true,
			CreatedAt:   now,
			CompletedAt: &done,
			DueDate:     &due,
		},
		{
			ID:        2,
			Title:     "no due date",
			Deleted:   true,
			CreatedAt: now,
		},
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got []Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(tasks, got) {
		t.Fatalf("round-trip mismatch\nwant=%+v\ngot=%+v", tasks, got)
	}
}

func TestTaskLegacyRecordDefaults(t *testing.T) {
	legacy := `{"id":7,"title":"old","description":"","completed":false,"createdAt":"2025-01-02T03:04:05Z"}`

	var task Task
	if err := json.Unmarshal([]byte(legacy), &task); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if task.Deleted {
		t.Fatalf("legacy record without deleted field must default to false")
	}
	if task.DueDate != nil {
		t.Fatalf("legacy record without dueDate must stay nil, got %v", task.DueDate)
	}
	if task.CompletedAt != nil {
		t.Fatalf("legacy record without completedAt must stay nil")
	}
}

func TestDueDateWireFormat(t *testing.T) {
	due := NewDate(2026, time.March, 9)
	data, err := json.Marshal(due)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"2026-03-09"` {
		t.Fatalf("unexpected wire form: %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != due {
		t.Fatalf("round-trip mismatch: want %v got %v", due, back)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "2026-3-9", "09-03-2026", "2026/03/09", "tomorrow"} {
		if _, err := ParseDate(input); err == nil {
			t.Fatalf("expected parse error for %q", input)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.December, 31)
	if got := d.AddDays(1); got != NewDate(2027, time.January, 1) {
		t.Fatalf("year wrap failed: %v", got)
	}
	if got := NewDate(2026, time.March, 1).AddDays(-1); got != NewDate(2026, time.February, 28) {
		t.Fatalf("month wrap failed: %v", got)
	}
	if !NewDate(2026, time.January, 1).Before(NewDate(2026, time.January, 2)) {
		t.Fatalf("Before is broken")
	}
}

func TestToggleCompleted(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	task := NewTask(1, "toggle me", "", nil, now)

	later := now.Add(time.Hour)
	task.ToggleCompleted(later)
	if !task.Completed {
		t.Fatalf("expected completed after toggle")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(later) {
		t.Fatalf("CompletedAt not stamped: %v", task.CompletedAt)
	}
	if task.Active() {
		t.Fatalf("completed task must not be active")
	}

	task.ToggleCompleted(later.Add(time.Hour))
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("reopening must clear CompletedAt, got %+v", task)
	}
	if !task.Active() {
		t.Fatalf("reopened task must be active")
	}
}

func TestOverdue(t *testing.T) {
	today := NewDate(2026, time.June, 15)
	due := today.AddDays(-1)
	task := Task{ID: 1, Title: "late", DueDate: &due}

	if !task.Overdue(today) {
		t.Fatalf("past-due active task must be overdue")
	}

	task.Completed = true
	if task.Overdue(today) {
		t.Fatalf("completed task is never overdue")
	}

	onTime := Task{ID: 2, Title: "today", DueDate: &today}
	if onTime.Overdue(today) {
		t.Fatalf("due today is not overdue")
	}
}
