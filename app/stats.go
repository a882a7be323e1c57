package app

import (
	"time"

	"tdui/model"
)

// StatsWindowDays is the length of the daily activity window, today
// included.
const StatsWindowDays = 90

// Stats summarizes the full persisted sequence against an explicit now.
type Stats struct {
	Overdue int
	Todo    int
	Done    int
	Deleted int

	// Daily series over the last StatsWindowDays days plus today;
	// index 0 is the oldest day, the last index is today.
	Created   []int
	Completed []int
	OverdueOn []int
}

// Stats computes counts and the daily activity series. All date math runs
// against the supplied clock so callers (and tests) control "today".
func (s *Service) Stats(now time.Time) Stats {
	today := model.DateOf(now)
	start := today.AddDays(-StatsWindowDays)
	days := StatsWindowDays + 1

	st := Stats{
		Created:   make([]int, days),
		Completed: make([]int, days),
		OverdueOn: make([]int, days),
	}

	dayIndex := func(d model.Date) (int, bool) {
		i := int(d.Time().Sub(start.Time()).Hours() / 24)
		if i < 0 || i >= days {
			return 0, false
		}
		return i, true
	}

	for _, t := range s.all {
		switch {
		case t.Deleted:
			st.Deleted++
		case t.Completed:
			st.Done++
		default:
			st.Todo++
		}
		if t.Overdue(today) {
			st.Overdue++
		}

		if i, ok := dayIndex(model.DateOf(t.CreatedAt)); ok {
			st.Created[i]++
		}
		if t.CompletedAt != nil {
			if i, ok := dayIndex(model.DateOf(*t.CompletedAt)); ok {
				st.Completed[i]++
			}
		}
		if t.DueDate != nil && !t.Deleted {
			if i, ok := dayIndex(*t.DueDate); ok && missedDueDay(t, *t.DueDate) {
				st.OverdueOn[i]++
			}
		}
	}

	return st
}

// missedDueDay reports whether the task was still open at the end of its
// due day.
func missedDueDay(t model.Task, due model.Date) bool {
	if !t.Completed {
		return true
	}
	if t.CompletedAt == nil {
		return false
	}
	return model.DateOf(*t.CompletedAt).After(due)
}
