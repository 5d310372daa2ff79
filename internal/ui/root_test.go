package ui

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/cache"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/notify"
	"github.com/dori/duotask/internal/remote"
	"github.com/dori/duotask/internal/remote/remotetest"
	"github.com/dori/duotask/internal/store"
	"github.com/dori/duotask/internal/syncer"
	"github.com/dori/duotask/internal/ui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var syncerPkg = reflect.TypeOf(syncer.NoticeMsg{}).PkgPath()

type inbox struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (i *inbox) Send(msg tea.Msg) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, msg)
}

func (i *inbox) take() []tea.Msg {
	i.mu.Lock()
	defer i.mu.Unlock()
	msgs := i.msgs
	i.msgs = nil
	return msgs
}

type fixture struct {
	store *store.Store
	inbox *inbox
}

func newTestModel(t *testing.T, r remote.Store) (RootModel, fixture) {
	t.Helper()
	st := store.New(cache.NewMemory())
	box := &inbox{}
	sc := syncer.New(st, r, syncer.WithSender(box))
	t.Cleanup(sc.Close)

	m := newRootModel(st, sc, notify.NewNotifier(false), notify.NewToast(time.Millisecond), nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, fixture{store: st, inbox: box}
}

func update(m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(RootModel), cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends each key and returns the command from the last one
func press(m RootModel, keys ...string) (RootModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(m, keyMsg(k))
	}
	return m, cmd
}

func typeText(m RootModel, s string) RootModel {
	for _, r := range s {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func addTask(m RootModel, title string) RootModel {
	m, _ = press(m, "a")
	m = typeText(m, title)
	m, _ = press(m, "enter")
	return m
}

// settle runs coordinator commands to completion, feeding their messages
// and anything sent by remote callbacks back through Update. Notices are
// collected; the toast timers they start are not run.
func settle(t *testing.T, m RootModel, f fixture, cmd tea.Cmd) (RootModel, []syncer.NoticeMsg) {
	t.Helper()
	var notices []syncer.NoticeMsg
	var pending []tea.Msg
	run := func(c tea.Cmd) {
		if c != nil {
			pending = append(pending, c())
		}
	}
	run(cmd)

	for steps := 0; steps < 200; steps++ {
		pending = append(pending, f.inbox.take()...)
		if len(pending) == 0 {
			return m, notices
		}
		msg := pending[0]
		pending = pending[1:]

		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			for _, c := range msg {
				run(c)
			}
			continue
		case syncer.NoticeMsg:
			notices = append(notices, msg)
			m, _ = update(m, msg)
			continue
		}
		if reflect.TypeOf(msg).PkgPath() != syncerPkg {
			continue
		}
		var next tea.Cmd
		m, next = update(m, msg)
		run(next)
	}
	t.Fatal("messages did not settle")
	return m, nil
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestViewBeforeResize(t *testing.T) {
	st := store.New(cache.NewMemory())
	m := newRootModel(st, syncer.New(st, nil), nil, notify.NewToast(0), nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestAddTaskFromKeyboard(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, _ = press(m, "a")
	assert.Equal(t, ModeAdd, m.mode)

	m = typeText(m, "Buy milk")
	m, _ = press(m, "enter")

	assert.Equal(t, ModeNormal, m.mode)
	tasks := f.store.State().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, model.TabWork, tasks[0].Tab)

	out := m.View()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "1 task")
	assert.Contains(t, out, "Guest mode")
}

func TestPersonalTaskStaysInPersonalTab(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, _ = press(m, "2")
	m = addTask(m, "Buy milk")

	tasks := f.store.State().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TabPersonal, tasks[0].Tab)
	assert.Contains(t, m.View(), "Buy milk")

	m, _ = press(m, "1")
	out := m.View()
	assert.NotContains(t, out, "Buy milk")
	assert.Contains(t, out, "No work tasks yet.")

	m, _ = press(m, "tab")
	assert.Equal(t, model.TabPersonal, f.store.State().ActiveTab)
}

func TestEscapeCancelsInput(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, _ = press(m, "a")
	m = typeText(m, "never mind")
	m, _ = press(m, "esc")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, f.store.State().Tasks)
}

func TestQuitKeyIsTextWhileTyping(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, _ = press(m, "a")
	m, _ = press(m, "q")
	assert.Equal(t, ModeAdd, m.mode)
	m = typeText(m, "uiz")
	m, _ = press(m, "enter")

	require.Len(t, f.store.State().Tasks, 1)
	assert.Equal(t, "quiz", f.store.State().Tasks[0].Title)

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestToggleAndImportantFollowCursor(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "one")
	m = addTask(m, "two")

	// two is on top; completing it hides it and the cursor lands on one
	m, _ = press(m, "space")
	st := f.store.State()
	assert.Equal(t, "two", st.Tasks[0].Title)
	assert.True(t, st.Tasks[0].Completed)
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, "i")
	st = f.store.State()
	for _, task := range st.Tasks {
		if task.Title == "one" {
			assert.True(t, task.Important)
			assert.False(t, task.Completed)
		}
	}

	m, _ = press(m, "c")
	assert.True(t, f.store.State().ShowCompleted)
	assert.Contains(t, m.View(), "two")
}

func TestRenameAndDelete(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "draft")

	m, _ = press(m, "e")
	assert.Equal(t, "draft", m.input.Value())
	m = typeText(m, " v2")
	m, _ = press(m, "enter")
	assert.Equal(t, "draft v2", f.store.State().Tasks[0].Title)

	m, _ = press(m, "d")
	assert.Empty(t, f.store.State().Tasks)
	assert.Contains(t, m.View(), "No work tasks yet.")
}

func TestMoveModeDropsOnTarget(t *testing.T) {
	m, f := newTestModel(t, nil)
	for _, title := range []string{"A", "B", "C"} {
		m = addTask(m, title)
	}
	require.Equal(t, []string{"C", "B", "A"}, titles(f.store.State().Tasks))

	m, _ = press(m, "m")
	assert.Equal(t, ModeMove, m.mode)
	assert.Contains(t, m.View(), "↕ C")

	m, _ = press(m, "j", "j", "enter")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, []string{"B", "A", "C"}, titles(f.store.State().Tasks))
	assert.Equal(t, 2, m.cursor)
}

func TestMoveModeCancel(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "A")
	m = addTask(m, "B")

	m, _ = press(m, "m", "j", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Empty(t, m.movingID)
	assert.Equal(t, []string{"B", "A"}, titles(f.store.State().Tasks))
}

func TestMoveDisabledWhileSortingByImportance(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "A")
	m = addTask(m, "B")

	m, _ = press(m, "s")
	require.True(t, f.store.State().SortImportant)

	m, cmd := press(m, "m")
	assert.Equal(t, ModeNormal, m.mode)
	require.NotNil(t, cmd)
	msg, ok := cmd().(syncer.NoticeMsg)
	require.True(t, ok)
	assert.True(t, msg.Err)
	assert.Equal(t, store.ErrReorderDisabled.Error(), msg.Text)
}

func TestResetNeedsConfirmation(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "keep me")

	m, _ = press(m, "R")
	assert.Equal(t, ModeConfirmReset, m.mode)
	assert.Contains(t, m.View(), "Reset all tasks and tags?")

	m, _ = press(m, "n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, f.store.State().Tasks, 1)

	m, _ = press(m, "R", "y")
	assert.Empty(t, f.store.State().Tasks)
}

func TestTagCycleFilterAndDelete(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, _ = press(m, "T")
	assert.Equal(t, ModeNewTag, m.mode)
	m = typeText(m, "Urgent")
	m, _ = press(m, "enter")

	st := f.store.State()
	require.Len(t, st.Tags, 1)
	tag := st.Tags[0]
	assert.Equal(t, model.Palette[0], tag.Color)

	m = addTask(m, "ship it")
	m, _ = press(m, "t")
	task := f.store.State().Tasks[0]
	assert.True(t, task.TagIs(tag.ID))
	assert.Contains(t, m.View(), "Urgent")

	m, _ = press(m, "f")
	assert.Equal(t, model.TagFilterNone, f.store.State().ActiveTagFilter)
	assert.Contains(t, m.View(), "No work tasks match this tag.")

	m, _ = press(m, "f")
	assert.Equal(t, tag.ID, f.store.State().ActiveTagFilter)
	assert.Contains(t, m.View(), "ship it")

	m, _ = press(m, "X")
	st = f.store.State()
	assert.Empty(t, st.Tags)
	assert.Equal(t, model.TagFilterAll, st.ActiveTagFilter)
	assert.False(t, st.Tasks[0].HasTag())
}

func TestCycleTagWithoutTags(t *testing.T) {
	m, f := newTestModel(t, nil)
	m = addTask(m, "plain")

	_, cmd := press(m, "t")
	require.NotNil(t, cmd)
	msg, ok := cmd().(syncer.NoticeMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "No tags yet")
	assert.False(t, f.store.State().Tasks[0].HasTag())
}

func TestSignInWithoutRemote(t *testing.T) {
	m, f := newTestModel(t, nil)

	m, cmd := press(m, "L")
	assert.Equal(t, ModeNormal, m.mode)

	_, notices := settle(t, m, f, cmd)
	require.Len(t, notices, 1)
	assert.Equal(t, "Remote sync is not configured yet.", notices[0].Text)
	assert.True(t, notices[0].Err)
}

func TestSignInUploadsGuestTasks(t *testing.T) {
	fake := remotetest.NewFake()
	u := fake.AddUser("ada@example.com", "secret1")
	m, f := newTestModel(t, fake)

	m, _ = settle(t, m, f, m.Init())
	m = addTask(m, "Buy milk")

	m, _ = press(m, "L")
	require.Equal(t, ModeEmail, m.mode)
	m = typeText(m, "ada@example.com")
	m, _ = press(m, "enter")
	require.Equal(t, ModePassword, m.mode)
	assert.Equal(t, textinput.EchoPassword, m.input.EchoMode)
	assert.NotContains(t, m.View(), "secret1")

	m = typeText(m, "secret1")
	assert.NotContains(t, m.View(), "secret1")
	m, cmd := press(m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	assert.True(t, m.sync.SigningIn())
	assert.Contains(t, m.View(), "Signing in…")

	m, notices := settle(t, m, f, cmd)

	assert.Equal(t, syncer.Synced, m.sync.Phase())
	assert.Contains(t, m.View(), "ada@example.com · synced")
	assert.Equal(t, []string{"Buy milk"}, titles(fake.Tasks(u.ID)))

	var texts []string
	for _, n := range notices {
		texts = append(texts, n.Text)
	}
	assert.Contains(t, texts, "Signed in. Syncing tasks…")

	addTask(m, "Call mom")
	assert.Len(t, f.store.State().Tasks, 2)
}

func TestNoticeShowsToastUntilExpired(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := update(m, syncer.NoticeMsg{Text: "Sync complete."})
	assert.Contains(t, m.View(), "Sync complete.")

	require.NotNil(t, cmd)
	expire, ok := cmd().(notify.ExpireMsg)
	require.True(t, ok)

	m, _ = update(m, expire)
	assert.NotContains(t, m.View(), "Sync complete.")
}

func TestThemeCycle(t *testing.T) {
	t.Cleanup(func() { theme.SetTheme(theme.Nord) })
	theme.SetTheme(theme.Nord)

	m, _ := newTestModel(t, nil)
	_, cmd := press(m, "ctrl+t")

	assert.Equal(t, "dracula", theme.Current.Theme.Name)
	require.NotNil(t, cmd)
	assert.Equal(t, syncer.NoticeMsg{Text: "Theme: dracula"}, cmd())
}

func TestHelpAndStatsOverlays(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = addTask(m, "one")

	m, _ = press(m, "?")
	assert.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "duotask help")

	m, _ = press(m, "esc")
	assert.False(t, m.helpVisible)

	m, _ = press(m, "v")
	assert.True(t, m.statsVisible)
	out := m.View()
	assert.Contains(t, out, "Statistics")
	assert.Contains(t, out, "0/1")

	m, _ = press(m, "v")
	assert.False(t, m.statsVisible)
}

func TestNextFilterCycle(t *testing.T) {
	st := model.DefaultState()
	st.Tags = []model.Tag{{ID: "a"}, {ID: "b"}}

	var seen []string
	for i := 0; i < 5; i++ {
		next := nextFilter(st)
		seen = append(seen, next)
		st.ActiveTagFilter = next
	}
	assert.Equal(t, []string{"none", "a", "b", "all", "none"}, seen)
}

func TestNextTagCycle(t *testing.T) {
	st := model.DefaultState()
	st.Tags = []model.Tag{{ID: "a"}, {ID: "b"}}

	task := model.Task{ID: "t"}
	assert.Equal(t, "a", nextTag(st, task))
	task.TagID = model.StringPtr("a")
	assert.Equal(t, "b", nextTag(st, task))
	task.TagID = model.StringPtr("b")
	assert.Equal(t, "", nextTag(st, task))
	task.TagID = model.StringPtr("gone")
	assert.Equal(t, "", nextTag(st, task))
}
