package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("39")).Padding(0, 2)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 2)

	focusedBorder = lipgloss.Color("39")
	blurredBorder = lipgloss.Color("240")

	selectedLineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	overdueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dueTodayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("229")).
			Padding(1, 2)
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	viewW := m.viewportWidth()
	header := m.renderTabs()
	footer := m.renderFooter(viewW)

	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 1
	if bodyH < 8 {
		bodyH = 8
	}

	var body string
	if m.tab == tabStats {
		body = m.renderStatsTab(viewW, bodyH)
	} else {
		body = m.renderTasksTab(viewW, bodyH)
	}

	if m.editor != nil {
		body = lipgloss.Place(viewW, bodyH, lipgloss.Center, lipgloss.Center, m.renderEditorPopup(viewW))
	} else if m.confirm != nil {
		body = lipgloss.Place(viewW, bodyH, lipgloss.Center, lipgloss.Center, m.renderConfirmPopup())
	}

	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) viewportWidth() int {
	// One column spare avoids clipping the right border on some
	// terminals.
	if m.width > 1 {
		return m.width - 1
	}
	return 1
}

func (m *Model) renderTabs() string {
	tasks := tabInactiveStyle.Render("Tasks")
	stats := tabInactiveStyle.Render("Stats")
	if m.tab == tabStats {
		stats = tabActiveStyle.Render("Stats")
	} else {
		tasks = tabActiveStyle.Render("Tasks")
	}
	hint := dimStyle.Render("shift+←/→ switches tabs")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tasks, stats, "  ", hint)
}

func (m *Model) renderTasksTab(width, height int) string {
	leftW := clamp(width/3, 24, 44)
	rightW := width - leftW - 2
	if rightW < 30 {
		rightW = 30
	}

	calendarH := 11
	taskH := height - calendarH - 4
	if taskH < 5 {
		taskH = 5
	}

	left := m.framed(m.renderListPanel(leftW-2, height-2), leftW, height-2, m.panel == panelList)
	calPane := m.framed(m.renderCalendarPanel(rightW-2, m.panel == panelCalendar), rightW, calendarH-2, m.panel == panelCalendar)
	taskPane := m.framed(m.renderTaskPanel(rightW-2, taskH), rightW, taskH, m.panel == panelTask)

	right := lipgloss.JoinVertical(lipgloss.Left, calPane, taskPane)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) framed(content string, width, height int, focused bool) string {
	border := blurredBorder
	if focused && m.mode == modeNormal {
		border = focusedBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Height(height).
		Render(content)
}

func (m *Model) renderListPanel(width, height int) string {
	tasks := m.svc.Working()
	lines := make([]string, 0, len(tasks)+2)
	lines = append(lines, panelTitleStyled(fmt.Sprintf("Tasks (%d)", len(tasks)), m.panel == panelList))

	if len(tasks) == 0 {
		lines = append(lines, dimStyle.Render("No open tasks. Press '+' to add one."))
		return strings.Join(lines, "\n")
	}

	today := m.today()
	for i, t := range tasks {
		cursor := " "
		if i == m.selected {
			cursor = "▸"
		}

		dueLabel := ""
		if t.DueDate != nil {
			label := " · " + t.DueDate.String()
			switch {
			case t.DueDate.Before(today):
				dueLabel = overdueStyle.Render(label)
			case *t.DueDate == today:
				dueLabel = dueTodayStyle.Render(label)
			default:
				dueLabel = dimStyle.Render(label)
			}
		}

		title := truncateRunes(t.Title, width-16)
		line := fmt.Sprintf("%s %s", cursor, title)
		if i == m.selected {
			line = selectedLineStyle.Render(line)
		}
		lines = append(lines, line+dueLabel)
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderTaskPanel(width, height int) string {
	lines := make([]string, 0, height)
	lines = append(lines, panelTitleStyled("Task", m.panel == panelTask))

	task, ok := m.selectedTask()
	if !ok {
		lines = append(lines, dimStyle.Render("Nothing selected."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(task.Title))
	meta := "Created " + task.CreatedAt.Local().Format("2006-01-02")
	if task.DueDate != nil {
		meta += " · Due " + task.DueDate.String()
	}
	lines = append(lines, dimStyle.Render(meta), "")

	wrapped := strings.Split(wordwrap.String(task.Description, width), "\n")
	if m.descScroll < len(wrapped) {
		wrapped = wrapped[m.descScroll:]
	} else {
		wrapped = nil
	}
	avail := height - len(lines) - 1
	if avail > 0 && len(wrapped) > avail {
		wrapped = wrapped[:avail]
	}
	lines = append(lines, wrapped...)

	if m.descScroll > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("… scrolled %d", m.descScroll)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderEditorPopup(viewW int) string {
	ed := m.editor
	width := clamp(viewW-10, 40, 76)
	inner := width - 6

	fieldLabel := func(label string, active bool) string {
		if active {
			return selectedLineStyle.Render(label)
		}
		return dimStyle.Render(label)
	}

	title := ed.title
	if m.mode == modeEditTitle {
		title += "▌"
	}
	date := ed.dateInput
	if m.mode == modeEditDate {
		date += "▌"
	}

	descLines := strings.Split(ed.description, "\n")
	if m.mode == modeEditDescription && len(descLines) > 0 {
		descLines[len(descLines)-1] += "▌"
	}
	if ed.scroll < len(descLines) {
		descLines = descLines[ed.scroll:]
	} else {
		descLines = nil
	}
	if len(descLines) > editorVisibleLines {
		descLines = descLines[:editorVisibleLines]
	}
	for i, l := range descLines {
		descLines[i] = truncateRunes(l, inner)
	}

	heading := "New task"
	if ed.id != 0 {
		heading = "Edit task"
	}

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render(heading),
		"",
		fieldLabel("Title", m.mode == modeEditTitle),
		truncateRunes(title, inner),
		"",
		fieldLabel("Description", m.mode == modeEditDescription),
		strings.Join(descLines, "\n"),
		"",
		fieldLabel("Due date (YYYY-MM-DD)", m.mode == modeEditDate),
		date,
		"",
		dimStyle.Render("Tab next field · Enter save · Alt+Enter newline · Esc cancel"),
	}

	return popupStyle.Width(width).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderConfirmPopup() string {
	verb := "Complete"
	if m.mode == modeConfirmDelete {
		verb = "Delete"
	}
	question := fmt.Sprintf("%s \"%s\"?", verb, truncateRunes(m.confirm.title, 40))

	var yes, no string
	if m.confirm.yes {
		yes = selectedLineStyle.Render("[ Yes ]")
		no = dimStyle.Render("  No  ")
	} else {
		yes = dimStyle.Render("  Yes  ")
		no = selectedLineStyle.Render("[ No ]")
	}

	rows := []string{
		question,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, yes, "   ", no),
		"",
		dimStyle.Render("Tab/←/→ toggle · Enter confirm · Esc cancel"),
	}
	return popupStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderFooter(width int) string {
	statusStyle := statusOKStyle
	if m.statusErr {
		statusStyle = statusErrStyle
	}
	status := lipgloss.NewStyle().Width(width).Render(statusStyle.Render(truncateRunes(m.status, width)))
	return status + "\n" + m.help.View(m.keys)
}

func panelTitleStyled(title string, active bool) string {
	base := lipgloss.NewStyle().Bold(true)
	if !active {
		return base.Render(title)
	}
	return base.Foreground(lipgloss.Color("229")).Render(title)
}
