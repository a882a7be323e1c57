package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tdui/app"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

var (
	statOverdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statTodoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statDeletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true)
	statLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderStatsTab shows the counters and the 90-day activity rows.
func (m *Model) renderStatsTab(width, height int) string {
	st := m.svc.Stats(m.now())

	counters := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Overdue", st.Overdue, statOverdueStyle),
		" ",
		statBox("To Do", st.Todo, statTodoStyle),
		" ",
		statBox("Done", st.Done, statDoneStyle),
		" ",
		statBox("Deleted", st.Deleted, statDeletedStyle),
	)

	sparkWidth := width - 14
	if sparkWidth < 10 {
		sparkWidth = 10
	}
	rows := []string{
		counters,
		"",
		statLabelStyle.Render(fmt.Sprintf("Activity, last %d days", app.StatsWindowDays)),
		"",
		sparkRow("Created", st.Created, sparkWidth, statTodoStyle),
		sparkRow("Completed", st.Completed, sparkWidth, statDoneStyle),
		sparkRow("Overdue", st.OverdueOn, sparkWidth, statOverdueStyle),
	}

	body := strings.Join(rows, "\n")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(body)
}

func statBox(label string, count int, style lipgloss.Style) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		style.Render(fmt.Sprintf("%d", count)),
		statLabelStyle.Render(label),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 2).
		Render(body)
}

func sparkRow(label string, series []int, width int, style lipgloss.Style) string {
	// Pad before styling; ANSI sequences would defeat %-10s.
	return statLabelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + style.Render(sparkline(series, width))
}

// sparkline compresses the series into width cells, scaling against the
// largest bucket.
func sparkline(series []int, width int) string {
	if width <= 0 || len(series) == 0 {
		return ""
	}
	if width > len(series) {
		width = len(series)
	}

	buckets := make([]int, width)
	for i, v := range series {
		buckets[i*width/len(series)] += v
	}

	max := 0
	for _, v := range buckets {
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range buckets {
		if max == 0 || v == 0 {
			b.WriteRune(sparkRunes[0])
			continue
		}
		idx := (v*len(sparkRunes) - 1) / max
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
