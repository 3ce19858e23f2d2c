// Package ui provides the terminal user interface for taskpad.
// This file contains the main App model which owns the event loop, routes
// key presses to store mutations, and re-renders from store snapshots. All
// input validation (non-empty titles, future reminder times) lives here;
// the store accepts any well-typed input.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskpad/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputDescription
	inputSubtask
	inputTag
	inputUntag
	inputReminder
	inputPomodoro
)

// reminderLayout is the format the reminder prompt accepts.
const reminderLayout = "2006-01-02 15:04"

// App is the main Bubble Tea model.
type App struct {
	store  *store.Store
	styles *Styles
	keys   KeyMap

	snapshot store.State
	visible  []store.Todo

	cursor    int
	detail    bool
	detailID  string
	subCursor int

	mode  inputMode
	input textinput.Model

	timer workTimer

	status    string
	statusErr bool

	width    int
	height   int
	showHelp bool
	quitting bool
	now      time.Time

	// default category for quick-added todos, from config
	defaultCategory string
}

// NewApp creates the application model over an initialized store.
func NewApp(st *store.Store, styles *Styles, defaultCategory string) *App {
	input := textinput.New()
	input.CharLimit = 200

	app := &App{
		store:           st,
		styles:          styles,
		keys:            DefaultKeyMap(),
		input:           input,
		now:             time.Now(),
		defaultCategory: defaultCategory,
	}
	app.refresh()
	return app
}

// Init starts the clock tick.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// refresh re-reads the store snapshot and recomputes the visible list.
func (a *App) refresh() {
	a.snapshot = a.store.Snapshot()
	a.visible = store.FilteredTodos(a.snapshot)
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.detail {
		if _, ok := a.findTodo(a.detailID); !ok {
			a.detail = false
		}
	}
	if a.timer.todoID != "" {
		if _, ok := a.findTodo(a.timer.todoID); !ok {
			a.timer.clear()
		}
	}
}

func (a *App) findTodo(id string) (store.Todo, bool) {
	for _, t := range a.snapshot.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return store.Todo{}, false
}

func (a *App) selected() (store.Todo, bool) {
	if a.detail {
		return a.findTodo(a.detailID)
	}
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return store.Todo{}, false
	}
	return a.visible[a.cursor], true
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		a.now = time.Time(msg)
		if a.timer.advance(time.Second) {
			a.store.SetPomodoroMinutes(a.timer.todoID, a.timer.minutes())
			a.refresh()
			return a, tea.Batch(tickCmd(), a.setStatus("Work session complete", false))
		}
		return a, tickCmd()

	case StateChangedMsg:
		a.refresh()
		return a, nil

	case ReminderFiredMsg:
		a.refresh()
		return a, a.setStatus(fmt.Sprintf("Reminder: %s", msg.Todo.Title), false)

	case statusExpiredMsg:
		a.status = ""
		return a, nil

	case tea.KeyMsg:
		if a.mode != inputNone {
			return a.updateInput(msg)
		}
		if a.detail {
			return a.updateDetail(msg)
		}
		return a.updateList(msg)
	}
	return a, nil
}

func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	a.status = text
	a.statusErr = isErr
	return statusExpireCmd(4 * time.Second)
}

func (a *App) startInput(mode inputMode, prompt, initial string) {
	a.mode = mode
	a.input.Prompt = a.styles.InputPromptStyle.Render(prompt)
	a.input.SetValue(initial)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) stopInput() {
	a.mode = inputNone
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.keys
	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Add):
		a.startInput(inputAdd, "add> ", "")
		return a, nil

	case key.Matches(msg, keys.Toggle):
		if t, ok := a.selected(); ok {
			a.store.ToggleComplete(t.ID)
			a.refresh()
		}
		return a, nil

	case key.Matches(msg, keys.Delete):
		if t, ok := a.selected(); ok {
			a.store.DeleteTodo(t.ID)
			a.refresh()
			return a, a.setStatus(fmt.Sprintf("Deleted %q", t.Title), false)
		}
		return a, nil

	case key.Matches(msg, keys.Detail):
		if t, ok := a.selected(); ok {
			a.detail = true
			a.detailID = t.ID
			a.subCursor = 0
		}
		return a, nil

	case key.Matches(msg, keys.Description):
		if t, ok := a.selected(); ok {
			a.detailID = t.ID
			a.startInput(inputDescription, "note> ", t.Description)
		}
		return a, nil

	case key.Matches(msg, keys.Subtask):
		if t, ok := a.selected(); ok {
			a.detailID = t.ID
			a.startInput(inputSubtask, "subtask> ", "")
		}
		return a, nil

	case key.Matches(msg, keys.Tag):
		if t, ok := a.selected(); ok {
			a.detailID = t.ID
			a.startInput(inputTag, "tag> ", "")
		}
		return a, nil

	case key.Matches(msg, keys.Reminder):
		if t, ok := a.selected(); ok {
			a.detailID = t.ID
			initial := ""
			if t.Reminder != nil {
				initial = t.Reminder.Local().Format(reminderLayout)
			}
			a.startInput(inputReminder, "remind at (YYYY-MM-DD HH:MM, empty clears)> ", initial)
		}
		return a, nil

	case key.Matches(msg, keys.Pomodoro):
		if t, ok := a.selected(); ok {
			a.detailID = t.ID
			a.startInput(inputPomodoro, "minutes> ", strconv.Itoa(t.PomodoroMinutes))
		}
		return a, nil

	case key.Matches(msg, keys.CycleFilter):
		a.store.SetFilter(nextFilter(a.snapshot.Filter))
		a.refresh()
		return a, nil

	case key.Matches(msg, keys.CycleSort):
		a.store.SetSortBy(nextSort(a.snapshot.SortBy))
		a.refresh()
		return a, nil

	case key.Matches(msg, keys.CycleCategory):
		a.store.SetSelectedCategory(nextCategory(a.snapshot))
		a.refresh()
		return a, nil

	case key.Matches(msg, keys.CyclePriority):
		if t, ok := a.selected(); ok {
			p := nextPriority(t.Priority)
			a.store.UpdateTodo(t.ID, store.TodoUpdate{Priority: &p})
			a.refresh()
		}
		return a, nil

	case key.Matches(msg, keys.ClearCompleted):
		a.store.ClearCompleted()
		a.refresh()
		return a, a.setStatus("Cleared completed todos", false)

	case key.Matches(msg, keys.Dismiss):
		if len(a.snapshot.ActiveReminders) > 0 {
			a.store.RemoveActiveReminder(a.snapshot.ActiveReminders[0].TodoID)
			a.refresh()
		}
		return a, nil

	case key.Matches(msg, keys.ToggleTheme):
		a.store.ToggleTheme()
		a.refresh()
		a.styles = NewStyles(a.snapshot.Theme)
		return a, nil
	}
	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.keys
	todo, ok := a.findTodo(a.detailID)
	if !ok {
		a.detail = false
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
		a.detail = false
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.subCursor > 0 {
			a.subCursor--
		}
		return a, nil

	case key.Matches(msg, keys.Down):
		if a.subCursor < len(todo.Subtasks)-1 {
			a.subCursor++
		}
		return a, nil

	case key.Matches(msg, keys.Toggle):
		if a.subCursor < len(todo.Subtasks) {
			a.store.ToggleSubtask(todo.ID, todo.Subtasks[a.subCursor].ID)
			a.refresh()
		}
		return a, nil

	case key.Matches(msg, keys.Delete):
		if a.subCursor < len(todo.Subtasks) {
			a.store.DeleteSubtask(todo.ID, todo.Subtasks[a.subCursor].ID)
			a.refresh()
			if a.subCursor > 0 {
				a.subCursor--
			}
		}
		return a, nil

	case key.Matches(msg, keys.Subtask):
		a.startInput(inputSubtask, "subtask> ", "")
		return a, nil

	case key.Matches(msg, keys.Tag):
		a.startInput(inputTag, "tag> ", "")
		return a, nil

	case msg.String() == "u":
		a.startInput(inputUntag, "remove tag> ", "")
		return a, nil

	case key.Matches(msg, keys.Description):
		a.startInput(inputDescription, "note> ", todo.Description)
		return a, nil

	case key.Matches(msg, keys.Reminder):
		initial := ""
		if todo.Reminder != nil {
			initial = todo.Reminder.Local().Format(reminderLayout)
		}
		a.startInput(inputReminder, "remind at (YYYY-MM-DD HH:MM, empty clears)> ", initial)
		return a, nil

	case key.Matches(msg, keys.Pomodoro):
		a.startInput(inputPomodoro, "minutes> ", strconv.Itoa(todo.PomodoroMinutes))
		return a, nil

	case key.Matches(msg, keys.TimerToggle):
		a.timer.toggle(todo.ID, todo.PomodoroMinutes)
		return a, nil

	case key.Matches(msg, keys.TimerReset):
		a.timer.reset()
		return a, nil
	}
	return a, nil
}

func (a *App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.stopInput()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		cmd := a.commitInput()
		a.stopInput()
		a.refresh()
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// commitInput applies the pending input to the store, validating first.
func (a *App) commitInput() tea.Cmd {
	value := strings.TrimSpace(a.input.Value())

	switch a.mode {
	case inputAdd:
		title, category, priority, due := parseQuickAdd(value)
		if title == "" {
			return a.setStatus("Title is required", true)
		}
		if category == "" {
			category = a.defaultCategory
		}
		a.store.AddTodo(title, category, priority, due)
		return a.setStatus(fmt.Sprintf("Added %q", title), false)

	case inputDescription:
		a.store.UpdateDescription(a.detailID, value)
		return nil

	case inputSubtask:
		if value == "" {
			return a.setStatus("Subtask title is required", true)
		}
		a.store.AddSubtask(a.detailID, value)
		return nil

	case inputTag:
		if value == "" {
			return a.setStatus("Tag is required", true)
		}
		a.store.AddTag(a.detailID, value)
		return nil

	case inputUntag:
		if value == "" {
			return nil
		}
		a.store.RemoveTag(a.detailID, value)
		return nil

	case inputReminder:
		if value == "" {
			a.store.SetReminder(a.detailID, nil)
			return a.setStatus("Reminder cleared", false)
		}
		at, err := time.ParseInLocation(reminderLayout, value, time.Local)
		if err != nil {
			return a.setStatus("Expected YYYY-MM-DD HH:MM", true)
		}
		if !at.After(a.now) {
			return a.setStatus("Reminder must be in the future", true)
		}
		a.store.SetReminder(a.detailID, &at)
		return a.setStatus(fmt.Sprintf("Reminder set for %s", at.Format(reminderLayout)), false)

	case inputPomodoro:
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < 0 {
			return a.setStatus("Minutes must be a non-negative number", true)
		}
		a.store.SetPomodoroMinutes(a.detailID, minutes)
		return nil
	}
	return nil
}

// parseQuickAdd splits a quick-add line into title and attributes. Tokens:
// #category, !low/!medium/!high, ^YYYY-MM-DD due date. Everything else is
// the title.
func parseQuickAdd(line string) (title, category string, priority store.Priority, due *time.Time) {
	var titleWords []string
	for _, word := range strings.Fields(line) {
		switch {
		case strings.HasPrefix(word, "#") && len(word) > 1:
			category = word[1:]
		case strings.HasPrefix(word, "!") && len(word) > 1:
			if p := store.Priority(word[1:]); store.ValidPriority(p) {
				priority = p
			} else {
				titleWords = append(titleWords, word)
			}
		case strings.HasPrefix(word, "^") && len(word) > 1:
			if d, err := time.ParseInLocation("2006-01-02", word[1:], time.Local); err == nil {
				due = &d
			} else {
				titleWords = append(titleWords, word)
			}
		default:
			titleWords = append(titleWords, word)
		}
	}
	return strings.Join(titleWords, " "), category, priority, due
}

func nextFilter(f store.Filter) store.Filter {
	switch f {
	case store.FilterAll:
		return store.FilterActive
	case store.FilterActive:
		return store.FilterCompleted
	default:
		return store.FilterAll
	}
}

func nextSort(m store.SortMode) store.SortMode {
	switch m {
	case store.SortByDate:
		return store.SortByPriority
	case store.SortByPriority:
		return store.SortByAlphabetic
	default:
		return store.SortByDate
	}
}

func nextPriority(p store.Priority) store.Priority {
	switch p {
	case store.PriorityLow:
		return store.PriorityMedium
	case store.PriorityMedium:
		return store.PriorityHigh
	default:
		return store.PriorityLow
	}
}

// nextCategory cycles the category filter through "" plus the categories in
// use, falling back to the built-in set while the collection is empty.
func nextCategory(st store.State) string {
	cats := store.Categories(st)
	if len(cats) == 0 {
		cats = store.KnownCategories
	}
	if st.SelectedCategory == "" {
		return cats[0]
	}
	for i, c := range cats {
		if c == st.SelectedCategory {
			if i+1 < len(cats) {
				return cats[i+1]
			}
			return ""
		}
	}
	return ""
}
