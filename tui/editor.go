package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tdui/app"
	"tdui/model"
)

const (
	editorVisibleLines = 8
	editorScrollStep   = 3
)

// editorState is the edit buffer behind the three editing modes. It
// exists only while an edit is in flight; id 0 means a new task.
type editorState struct {
	id          int
	title       string
	description string
	dateInput   string
	due         *model.Date
	scroll      int
}

// startCreate opens an empty buffer, optionally pre-seeded with a due
// date picked on the calendar.
func (m *Model) startCreate(due *model.Date) {
	ed := &editorState{due: due}
	if due != nil {
		ed.dateInput = due.String()
	}
	m.editor = ed
	m.mode = modeEditTitle
}

// startEdit opens the buffer seeded from the selected task.
func (m *Model) startEdit() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", false)
		return
	}
	ed := &editorState{
		id:          task.ID,
		title:       task.Title,
		description: task.Description,
		due:         task.DueDate,
	}
	if task.DueDate != nil {
		ed.dateInput = task.DueDate.String()
	}
	m.editor = ed
	m.mode = modeEditTitle
}

func (m *Model) updateEditMode(msg tea.KeyMsg) {
	ed := m.editor

	switch msg.String() {
	case "ctrl+c", "esc":
		m.closeEditor()
		m.setStatus("Edit cancelled", false)
		return
	case "tab":
		switch m.mode {
		case modeEditTitle:
			m.mode = modeEditDescription
		case modeEditDescription:
			m.mode = modeEditDate
		default:
			m.mode = modeEditTitle
		}
		return
	case "alt+enter":
		if m.mode == modeEditDescription {
			ed.description += "\n"
			ed.autoScroll()
		}
		return
	case "enter":
		m.saveEditor()
		return
	case "ctrl+u", "pgup":
		if m.mode == modeEditDescription {
			ed.scrollBy(-editorScrollStep)
		}
		return
	case "ctrl+d", "pgdown":
		if m.mode == modeEditDescription {
			ed.scrollBy(editorScrollStep)
		}
		return
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		switch m.mode {
		case modeEditTitle:
			ed.title = trimLastRune(ed.title)
		case modeEditDescription:
			ed.description = trimLastRune(ed.description)
			ed.autoScroll()
		case modeEditDate:
			ed.dateInput = trimLastRune(ed.dateInput)
		}
	case tea.KeySpace:
		switch m.mode {
		case modeEditTitle:
			ed.title += " "
		case modeEditDescription:
			ed.description += " "
		}
	case tea.KeyRunes:
		switch m.mode {
		case modeEditTitle:
			ed.title += string(msg.Runes)
		case modeEditDescription:
			ed.description += string(msg.Runes)
			ed.autoScroll()
		case modeEditDate:
			for _, r := range msg.Runes {
				if (r >= '0' && r <= '9') || r == '-' {
					ed.dateInput += string(r)
				}
			}
		}
	}
}

// saveEditor applies the buffer. The date input is parsed against the
// fixed layout; an unparseable buffer keeps the previously set due date.
// An empty title discards the whole edit.
func (m *Model) saveEditor() {
	ed := m.editor
	if d, err := model.ParseDate(ed.dateInput); err == nil {
		ed.due = &d
	}

	if ed.title == "" {
		m.closeEditor()
		m.setStatus("Discarded: title must not be empty", false)
		return
	}

	var (
		task model.Task
		err  error
	)
	if ed.id != 0 {
		task, err = m.svc.Update(ed.id, ed.title, ed.description, ed.due)
	} else {
		task, err = m.svc.Create(ed.title, ed.description, ed.due, m.now())
	}

	m.closeEditor()
	if task.ID != 0 {
		if idx := m.svc.IndexOf(task.ID); idx >= 0 {
			m.selected = idx
		}
		m.descScroll = 0
	}
	m.ensureSelection()

	if err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			m.setStatus("Task no longer exists", true)
			return
		}
		m.setStatus("Change applied, but saving failed: "+err.Error(), true)
		return
	}
	m.lastSave = m.now()
	m.setStatus("Task saved", false)
}

func (m *Model) closeEditor() {
	m.editor = nil
	m.mode = modeNormal
}

func (ed *editorState) scrollBy(delta int) {
	ed.scroll = clamp(ed.scroll+delta, 0, maxInt(0, ed.lineCount()-1))
}

// autoScroll keeps the end of the text visible while typing.
func (ed *editorState) autoScroll() {
	lines := ed.lineCount()
	if lines-ed.scroll > editorVisibleLines {
		ed.scroll = lines - editorVisibleLines
	}
	if ed.scroll < 0 {
		ed.scroll = 0
	}
}

func (ed *editorState) lineCount() int {
	return strings.Count(ed.description, "\n") + 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
