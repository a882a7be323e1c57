package tui

import (
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tdui/app"
	"tdui/calendar"
	"tdui/config"
	"tdui/model"
	"tdui/store"
)

type focusPanel int

const (
	panelList focusPanel = iota
	panelCalendar
	panelTask
)

func (p focusPanel) String() string {
	switch p {
	case panelCalendar:
		return "calendar"
	case panelTask:
		return "task"
	default:
		return "list"
	}
}

type activeTab int

const (
	tabTasks activeTab = iota
	tabStats
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeEditTitle
	modeEditDescription
	modeEditDate
	modeConfirmComplete
	modeConfirmDelete
)

// confirmState carries a pending complete/delete question. It exists only
// while one of the confirm modes is active.
type confirmState struct {
	id    int
	title string
	yes   bool
}

type storeChangedMsg struct{}

type Model struct {
	svc     *app.Service
	watcher *store.Watcher
	keys    keyMap
	help    help.Model

	mode  uiMode
	panel focusPanel
	tab   activeTab

	// selected indexes the working sequence; -1 while it is empty.
	selected   int
	descScroll int

	cal calendar.View

	editor  *editorState
	confirm *confirmState

	status    string
	statusErr bool

	width  int
	height int

	// lastSave marks the session's own writes so the watcher echo of a
	// save does not clobber the status line moments later.
	lastSave time.Time

	now func() time.Time
}

// ownSaveQuiet must comfortably exceed the watcher debounce.
const ownSaveQuiet = 500 * time.Millisecond

// NewModel builds the UI over the service. watcher may be nil when the
// store file cannot be watched; startupStatus seeds the status line
// (recovery notices and the like).
func NewModel(svc *app.Service, keys config.Keymap, watcher *store.Watcher, startupStatus string) *Model {
	m := &Model{
		svc:     svc,
		watcher: watcher,
		keys:    newKeyMap(keys),
		help:    help.New(),
		status:  startupStatus,
		now:     time.Now,
	}
	m.cal = calendar.New(m.today())
	m.selected = -1
	m.ensureSelection()
	if m.status == "" {
		m.status = "Ready"
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.watchChanges()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case storeChangedMsg:
		if m.now().Sub(m.lastSave) >= ownSaveQuiet {
			m.reloadFromDisk()
		}
		return m, m.watchChanges()
	case tea.KeyMsg:
		switch m.mode {
		case modeEditTitle, modeEditDescription, modeEditDate:
			m.updateEditMode(msg)
		case modeConfirmComplete, modeConfirmDelete:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// watchChanges blocks on the store watcher and turns each signal into a
// message. The command re-arms itself from Update.
func (m *Model) watchChanges() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// reloadFromDisk re-reads the persisted sequence after an external write,
// keeping the selection on the same task when it survives.
func (m *Model) reloadFromDisk() {
	keepID := 0
	if task, ok := m.selectedTask(); ok {
		keepID = task.ID
	}
	m.svc.Reload()
	if keepID != 0 {
		if idx := m.svc.IndexOf(keepID); idx >= 0 {
			m.selected = idx
		}
	}
	m.ensureSelection()
	if task, ok := m.selectedTask(); !ok || task.ID != keepID {
		m.descScroll = 0
	}
	m.setStatus("Reloaded tasks changed outside the session", false)
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true
	case key.Matches(msg, m.keys.SwitchTab):
		m.toggleTab()
		return false
	}

	// The stats tab is read-only; everything else is panel-driven and
	// belongs to the tasks tab.
	if m.tab == tabStats {
		return false
	}

	switch {
	case key.Matches(msg, m.keys.NextPanel):
		m.cyclePanel()
	case key.Matches(msg, m.keys.NewTask):
		m.startCreate(nil)
	case key.Matches(msg, m.keys.Complete):
		m.startConfirm(modeConfirmComplete)
	case key.Matches(msg, m.keys.Delete):
		m.startConfirm(modeConfirmDelete)
	case key.Matches(msg, m.keys.Today):
		if m.panel == panelCalendar {
			m.cal.ResetToday(m.today())
		}
	case key.Matches(msg, m.keys.Edit):
		m.handleEnter()
	case key.Matches(msg, m.keys.Move):
		m.handleMove(msg.String())
	}

	m.ensureSelection()
	return false
}

func (m *Model) handleEnter() {
	switch m.panel {
	case panelList:
		m.startEdit()
	case panelCalendar:
		if m.cal.Cursor != nil {
			due := *m.cal.Cursor
			m.startCreate(&due)
		}
	}
}

func (m *Model) handleMove(dir string) {
	switch m.panel {
	case panelList:
		switch dir {
		case "up":
			m.selectPrevious()
		case "down":
			m.selectNext()
		}
	case panelCalendar:
		switch dir {
		case "left":
			m.cal.MoveDays(-1, m.today())
		case "right":
			m.cal.MoveDays(1, m.today())
		case "up":
			m.cal.MoveDays(-7, m.today())
		case "down":
			m.cal.MoveDays(7, m.today())
		}
	case panelTask:
		switch dir {
		case "up":
			m.descScroll = clamp(m.descScroll-1, 0, m.descScroll)
		case "down":
			m.descScroll++
		}
	}
}

func (m *Model) cyclePanel() {
	switch m.panel {
	case panelList:
		m.panel = panelCalendar
		m.cal.Enter(m.today())
	case panelCalendar:
		m.panel = panelTask
	default:
		m.panel = panelList
	}
	m.setStatus("Focus: "+m.panel.String(), false)
}

func (m *Model) toggleTab() {
	if m.tab == tabTasks {
		m.tab = tabStats
	} else {
		m.tab = tabTasks
	}
}

// selectPrevious moves the selection up with wraparound and resets the
// description scroll.
func (m *Model) selectPrevious() {
	n := m.svc.WorkingLen()
	if n == 0 || m.selected < 0 {
		return
	}
	m.selected = (m.selected - 1 + n) % n
	m.descScroll = 0
}

// selectNext moves the selection down with wraparound and resets the
// description scroll.
func (m *Model) selectNext() {
	n := m.svc.WorkingLen()
	if n == 0 || m.selected < 0 {
		return
	}
	m.selected = (m.selected + 1) % n
	m.descScroll = 0
}

// ensureSelection repairs the selection after the working sequence
// changed: nil when empty, clamped to the last index when it shrank,
// untouched otherwise.
func (m *Model) ensureSelection() {
	n := m.svc.WorkingLen()
	switch {
	case n == 0:
		m.selected = -1
	case m.selected < 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	}
}

func (m *Model) selectedTask() (model.Task, bool) {
	if m.selected < 0 {
		return model.Task{}, false
	}
	return m.svc.TaskAt(m.selected)
}

func (m *Model) startConfirm(mode uiMode) {
	if m.panel != panelList {
		return
	}
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", false)
		return
	}
	m.confirm = &confirmState{id: task.ID, title: task.Title, yes: true}
	m.mode = mode
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeConfirm("Cancelled")
	case "tab", "left", "right":
		m.confirm.yes = !m.confirm.yes
	case "enter":
		if !m.confirm.yes {
			m.closeConfirm("Cancelled")
			return
		}
		m.applyConfirm()
	}
}

func (m *Model) applyConfirm() {
	id := m.confirm.id
	var err error
	success := ""
	if m.mode == modeConfirmComplete {
		err = m.svc.Complete(id, m.now())
		success = "Task completed"
	} else {
		err = m.svc.Delete(id)
		success = "Task deleted"
	}
	if err != nil {
		m.closeConfirm("Change applied, but saving failed: " + err.Error())
		m.statusErr = true
		m.ensureSelection()
		return
	}
	m.lastSave = m.now()
	m.closeConfirm(success)
	m.ensureSelection()
}

func (m *Model) closeConfirm(status string) {
	m.confirm = nil
	m.mode = modeNormal
	m.setStatus(status, false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) today() model.Date {
	return model.DateOf(m.now())
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
