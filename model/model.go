package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// Date is a civil calendar day with no time-of-day component.
// It marshals to JSON as a "YYYY-MM-DD" string.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the given calendar day, normalized (Feb 30 becomes Mar 2).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// After reports whether d falls after o.
func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is an individual tracked item. Completed and Deleted tasks stay in
// the persisted sequence; the UI works on the subset with both flags false.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Deleted     bool       `json:"deleted,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DueDate     *Date      `json:"dueDate,omitempty"`
}

// NewTask returns a fresh active task created now.
func NewTask(id int, title, description string, due *Date, now time.Time) Task {
	return Task{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		DueDate:     due,
	}
}

// Active reports whether the task belongs in the working set.
func (t Task) Active() bool {
	return !t.Completed && !t.Deleted
}

// ToggleCompleted flips the completed flag. CompletedAt is set exactly when
// the flag goes false→true and cleared when it goes back.
func (t *Task) ToggleCompleted(now time.Time) {
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// MarkDeleted soft-deletes the task.
func (t *Task) MarkDeleted() {
	t.Deleted = true
}

// Overdue reports whether the task is active with a due date before today.
func (t Task) Overdue(today Date) bool {
	return t.Active() && t.DueDate != nil && t.DueDate.Before(today)
}
