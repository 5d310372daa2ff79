package ui

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/app"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/notify"
	"github.com/dori/duotask/internal/store"
	"github.com/dori/duotask/internal/syncer"
	"github.com/dori/duotask/internal/ui/theme"
	"github.com/dori/duotask/internal/view"
)

// RootModel is the main application model. It owns no task state: every
// change goes through the coordinator and the view is re-derived from the
// store on each render.
type RootModel struct {
	store    *store.Store
	sync     *syncer.Coordinator
	notifier *notify.Notifier
	toast    *notify.Toast
	logger   *log.Logger

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	width  int
	height int

	mode         Mode
	cursor       int
	movingID     string
	renamingID   string
	pendingEmail string
	signUp       bool

	helpVisible  bool
	statsVisible bool
}

// NewRootModel creates a new root model
func NewRootModel(a *app.App) RootModel {
	if t, ok := theme.ByName(a.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}
	return newRootModel(a.Store, a.Sync, a.Notifier, notify.NewToast(a.Config.ToastDuration()), a.Logger)
}

func newRootModel(st *store.Store, sc *syncer.Coordinator, n *notify.Notifier, toast *notify.Toast, logger *log.Logger) RootModel {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	ti := textinput.New()
	ti.CharLimit = 256

	h := help.New()
	h.ShowAll = false

	return RootModel{
		store:    st,
		sync:     sc,
		notifier: n,
		toast:    toast,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     h,
		input:    ti,
	}
}

// Init hooks the coordinator into the remote session
func (m RootModel) Init() tea.Cmd {
	return m.sync.Start()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case syncer.NoticeMsg:
		return m, tea.Batch(m.toast.Show(msg.Text, msg.Err), m.mirror(msg))

	case notify.ExpireMsg:
		m.toast.Expire(msg)
		return m, nil
	}

	// Remote events and call results
	return m.dispatch(msg)
}

// dispatch hands msg to the coordinator and keeps the cursor on the list
func (m RootModel) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.sync.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m RootModel) mirror(msg syncer.NoticeMsg) tea.Cmd {
	if m.notifier == nil || !msg.Err || !m.notifier.IsEnabled() {
		return nil
	}
	n, logger := m.notifier, m.logger
	return func() tea.Msg {
		if err := n.SendNotice(msg.Text, msg.Err); err != nil {
			logger.Printf("ui: desktop notification: %v", err)
		}
		return nil
	}
}

func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, q only outside text input
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.ThemeCycle) {
		return m, m.cycleTheme()
	}

	switch {
	case m.mode.IsInput():
		return m.handleInput(msg)
	case m.mode == ModeConfirmReset:
		return m.handleConfirmReset(msg)
	case m.mode == ModeMove:
		return m.handleMove(msg)
	}

	if m.helpVisible || m.statsVisible {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel):
			m.helpVisible = false
			m.statsVisible = false
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			m.helpVisible = false
			m.statsVisible = !m.statsVisible
			return m, nil
		}
		return m, nil
	}

	return m.handleNormal(msg)
}

func (m RootModel) handleNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	v := view.Derive(st)
	task, hasTask := m.selected(v)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil
	case key.Matches(msg, m.keys.Stats):
		m.statsVisible = true
		return m, nil

	case key.Matches(msg, m.keys.WorkTab):
		return m.switchTab(model.TabWork)
	case key.Matches(msg, m.keys.PersonalTab):
		return m.switchTab(model.TabPersonal)
	case key.Matches(msg, m.keys.NextTab):
		if st.ActiveTab == model.TabPersonal {
			return m.switchTab(model.TabWork)
		}
		return m.switchTab(model.TabPersonal)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(v.Tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m.startInput(ModeAdd, "", "What needs doing?")
	case key.Matches(msg, m.keys.NewTag):
		return m.startInput(ModeNewTag, "", "Tag name")

	case key.Matches(msg, m.keys.ShowCompleted):
		return m.dispatch(syncer.SetPreferenceMsg{Key: store.PrefShowCompleted, Value: strconv.FormatBool(!st.ShowCompleted)})
	case key.Matches(msg, m.keys.SortImportant):
		return m.dispatch(syncer.SetPreferenceMsg{Key: store.PrefSortImportant, Value: strconv.FormatBool(!st.SortImportant)})
	case key.Matches(msg, m.keys.CycleFilter):
		m.cursor = 0
		return m.dispatch(syncer.SetPreferenceMsg{Key: store.PrefActiveTagFilter, Value: nextFilter(st)})
	case key.Matches(msg, m.keys.DeleteTag):
		if !st.HasTag(st.ActiveTagFilter) {
			return m, showNotice("Filter by a tag first, then press X to delete it.", false)
		}
		return m.dispatch(syncer.DeleteTagMsg{ID: st.ActiveTagFilter})

	case key.Matches(msg, m.keys.SignIn), key.Matches(msg, m.keys.SignUp):
		signUp := key.Matches(msg, m.keys.SignUp)
		if !m.sync.RemoteReady() || m.sync.Phase() != syncer.Guest {
			// The coordinator explains why not
			if signUp {
				return m.dispatch(syncer.SignUpMsg{})
			}
			return m.dispatch(syncer.SignInMsg{})
		}
		m.signUp = signUp
		return m.startInput(ModeEmail, "", "you@example.com")
	case key.Matches(msg, m.keys.SignOut):
		return m.dispatch(syncer.SignOutMsg{})
	case key.Matches(msg, m.keys.Sync):
		return m.dispatch(syncer.SyncNowMsg{})

	case key.Matches(msg, m.keys.Reset):
		m.mode = ModeConfirmReset
		return m, nil
	}

	if !hasTask {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(syncer.ToggleTaskMsg{ID: task.ID})
	case key.Matches(msg, m.keys.Important):
		return m.dispatch(syncer.ToggleImportantMsg{ID: task.ID})
	case key.Matches(msg, m.keys.CycleTag):
		if len(st.Tags) == 0 {
			return m, showNotice("No tags yet. Press T to create one.", false)
		}
		return m.dispatch(syncer.SetTaskTagMsg{ID: task.ID, TagID: nextTag(st, task)})
	case key.Matches(msg, m.keys.Rename):
		m.renamingID = task.ID
		return m.startInput(ModeRename, task.Title, "")
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(syncer.DeleteTaskMsg{ID: task.ID})
	case key.Matches(msg, m.keys.Move):
		if st.SortImportant {
			return m, showNotice(store.ErrReorderDisabled.Error(), true)
		}
		m.mode = ModeMove
		m.movingID = task.ID
		return m, nil
	}

	return m, nil
}

func (m RootModel) switchTab(tab model.Tab) (tea.Model, tea.Cmd) {
	m.cursor = 0
	return m.dispatch(syncer.SetPreferenceMsg{Key: store.PrefActiveTab, Value: string(tab)})
}

func (m RootModel) startInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.EchoMode = textinput.EchoNormal
	if mode == ModePassword {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '•'
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, textinput.Blink
}

func (m *RootModel) endInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
}

func (m RootModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		m.renamingID = ""
		m.pendingEmail = ""
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m RootModel) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.mode
	m.endInput()

	switch mode {
	case ModeAdd:
		m.cursor = 0
		return m.dispatch(syncer.AddTaskMsg{Title: value})

	case ModeRename:
		id := m.renamingID
		m.renamingID = ""
		return m.dispatch(syncer.RenameTaskMsg{ID: id, Title: value})

	case ModeNewTag:
		tags := m.store.State().Tags
		color := model.Palette[len(tags)%len(model.Palette)]
		return m.dispatch(syncer.AddTagMsg{Name: value, Color: color})

	case ModeEmail:
		email := strings.TrimSpace(value)
		if email == "" {
			return m, nil
		}
		m.pendingEmail = email
		return m.startInput(ModePassword, "", "password")

	case ModePassword:
		email := m.pendingEmail
		m.pendingEmail = ""
		if m.signUp {
			return m.dispatch(syncer.SignUpMsg{Email: email, Password: value})
		}
		return m.dispatch(syncer.SignInMsg{Email: email, Password: value})
	}
	return m, nil
}

func (m RootModel) handleConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() == "y" || msg.String() == "Y" {
		m.cursor = 0
		return m.dispatch(syncer.ResetMsg{})
	}
	return m, nil
}

func (m RootModel) handleMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := view.Derive(m.store.State())

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(v.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
		m.movingID = ""
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Move):
		dragged := m.movingID
		m.mode = ModeNormal
		m.movingID = ""
		target, ok := m.selected(v)
		if !ok || target.ID == dragged {
			return m, nil
		}
		next, cmd := m.dispatch(syncer.MoveTaskMsg{DraggedID: dragged, TargetID: target.ID})
		rm := next.(RootModel)
		if i := view.Derive(rm.store.State()).IndexOf(dragged); i >= 0 {
			rm.cursor = i
		}
		return rm, cmd
	}
	return m, nil
}

// selected returns the task under the cursor
func (m RootModel) selected(v view.View) (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(v.Tasks) {
		return model.Task{}, false
	}
	return v.Tasks[m.cursor], true
}

// clampCursor keeps the cursor inside the visible list after any change,
// local or remote
func (m *RootModel) clampCursor() {
	v := view.Derive(m.store.State())
	if m.mode == ModeMove && !v.Contains(m.movingID) {
		m.mode = ModeNormal
		m.movingID = ""
	}
	if m.cursor >= len(v.Tasks) {
		m.cursor = len(v.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() tea.Cmd {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			return showNotice(fmt.Sprintf("Theme: %s", next.Name), false)
		}
	}
	return nil
}

// nextTag cycles a task through no tag, then each tag in order
func nextTag(st model.State, t model.Task) string {
	if !t.HasTag() {
		return st.Tags[0].ID
	}
	i := st.FindTag(*t.TagID)
	if i < 0 || i+1 >= len(st.Tags) {
		return ""
	}
	return st.Tags[i+1].ID
}

// nextFilter cycles all, none, then each tag
func nextFilter(st model.State) string {
	switch f := st.ActiveTagFilter; f {
	case model.TagFilterAll:
		return model.TagFilterNone
	case model.TagFilterNone:
		if len(st.Tags) > 0 {
			return st.Tags[0].ID
		}
		return model.TagFilterAll
	default:
		i := st.FindTag(f)
		if i < 0 || i+1 >= len(st.Tags) {
			return model.TagFilterAll
		}
		return st.Tags[i+1].ID
	}
}

func showNotice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return syncer.NoticeMsg{Text: text, Err: isErr} }
}
