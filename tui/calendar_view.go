package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tdui/calendar"
	"tdui/model"
)

var (
	calHeaderStyle  = lipgloss.NewStyle().Bold(true)
	calWeekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	calCursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Bold(true)
	calTodayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	calDueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Underline(true)
	calOverdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Underline(true)
	calNormalStyle  = lipgloss.NewStyle()
)

// dueDays maps each due day to the number of active tasks due then.
func (m *Model) dueDays() map[model.Date]int {
	out := map[model.Date]int{}
	for _, t := range m.svc.Working() {
		if t.DueDate != nil {
			out[*t.DueDate]++
		}
	}
	return out
}

// renderCalendarPanel shows the previous, current and next month of the
// window side by side.
func (m *Model) renderCalendarPanel(width int, focused bool) string {
	due := m.dueDays()
	today := m.today()
	months := m.cal.Months()

	grids := make([]string, 0, 3)
	for _, mo := range months {
		grids = append(grids, m.renderMonth(mo.Year, mo.Month, today, due, focused))
	}

	joined := lipgloss.JoinHorizontal(lipgloss.Top, grids[0], "  ", grids[1], "  ", grids[2])
	return lipgloss.NewStyle().Width(width).Render(joined)
}

// renderMonth draws one month grid, Sunday first.
func (m *Model) renderMonth(year int, month time.Month, today model.Date, due map[model.Date]int, focused bool) string {
	lines := make([]string, 0, 8)
	header := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	lines = append(lines, calHeaderStyle.Render(fmt.Sprintf("%-20s", header)))
	lines = append(lines, calWeekdayStyle.Render("Su Mo Tu We Th Fr Sa"))

	startOffset := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	days := calendar.DaysIn(year, month)

	week := make([]string, 0, 7)
	for i := 0; i < startOffset; i++ {
		week = append(week, "  ")
	}
	for day := 1; day <= days; day++ {
		d := model.Date{Year: year, Month: month, Day: day}
		cell := fmt.Sprintf("%2d", day)

		switch {
		case m.cal.Cursor != nil && *m.cal.Cursor == d && focused:
			cell = calCursorStyle.Render(cell)
		case d == today:
			cell = calTodayStyle.Render(cell)
		case due[d] > 0 && d.Before(today):
			cell = calOverdueStyle.Render(cell)
		case due[d] > 0:
			cell = calDueStyle.Render(cell)
		default:
			cell = calNormalStyle.Render(cell)
		}

		week = append(week, cell)
		if len(week) == 7 {
			lines = append(lines, strings.Join(week, " "))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, "  ")
		}
		lines = append(lines, strings.Join(week, " "))
	}

	return strings.Join(lines, "\n")
}
