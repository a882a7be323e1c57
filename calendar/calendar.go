// Package calendar holds the date arithmetic behind the three-month
// calendar panel: an anchor day whose month is the center of the visible
// window, and an optional cursor day highlighted inside it.
package calendar

import (
	"time"

	"tdui/model"
)

// View is the navigable calendar state.
type View struct {
	// Anchor selects the visible window: the months before, of, and
	// after Anchor.
	Anchor model.Date
	// Cursor is the highlighted day; nil until the calendar is first
	// entered or moved.
	Cursor *model.Date
}

// New returns a view centered on today with no cursor.
func New(today model.Date) View {
	return View{Anchor: today}
}

// Enter initializes the cursor to today when it is unset, leaving the
// anchor alone. Moving with a cursor already set is unaffected.
func (v *View) Enter(today model.Date) {
	if v.Cursor == nil {
		c := today
		v.Cursor = &c
	}
}

// MoveDays shifts the cursor by n days (±1 for horizontal steps, ±7 for
// vertical). An unset cursor initializes to today without moving. The
// anchor follows so the cursor never leaves the visible window.
func (v *View) MoveDays(n int, today model.Date) {
	if v.Cursor == nil {
		c := today
		v.Cursor = &c
		return
	}
	c := v.Cursor.AddDays(n)
	v.Cursor = &c
	v.ensureVisible()
}

// ResetToday recenters the window on today and puts the cursor there.
func (v *View) ResetToday(today model.Date) {
	c := today
	v.Anchor = today
	v.Cursor = &c
}

// Months returns the window's three (year, month) pairs in display order.
func (v View) Months() [3]struct {
	Year  int
	Month time.Month
} {
	py, pm := PrevMonth(v.Anchor.Year, v.Anchor.Month)
	ny, nm := NextMonth(v.Anchor.Year, v.Anchor.Month)
	return [3]struct {
		Year  int
		Month time.Month
	}{
		{py, pm},
		{v.Anchor.Year, v.Anchor.Month},
		{ny, nm},
	}
}

// Contains reports whether the day's month lies inside the visible window.
func (v View) Contains(d model.Date) bool {
	py, pm := PrevMonth(v.Anchor.Year, v.Anchor.Month)
	ny, nm := NextMonth(v.Anchor.Year, v.Anchor.Month)
	if beforeMonth(d.Year, d.Month, py, pm) {
		return false
	}
	return !beforeMonth(ny, nm, d.Year, d.Month)
}

// ensureVisible shifts the anchor by exactly one month when the cursor's
// month has left the window. Cursor moves are at most seven days, so one
// shift always suffices.
func (v *View) ensureVisible() {
	if v.Cursor == nil {
		return
	}
	py, pm := PrevMonth(v.Anchor.Year, v.Anchor.Month)
	ny, nm := NextMonth(v.Anchor.Year, v.Anchor.Month)
	cy, cm := v.Cursor.Year, v.Cursor.Month
	if beforeMonth(cy, cm, py, pm) {
		v.Anchor = model.Date{Year: py, Month: pm, Day: 1}
	} else if beforeMonth(ny, nm, cy, cm) {
		v.Anchor = model.Date{Year: ny, Month: nm, Day: 1}
	}
}

func beforeMonth(y1 int, m1 time.Month, y2 int, m2 time.Month) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}

// PrevMonth steps one month back, wrapping the year at January.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps one month forward, wrapping the year at December.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
