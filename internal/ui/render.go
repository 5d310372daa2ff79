package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/syncer"
	"github.com/dori/duotask/internal/ui/theme"
	"github.com/dori/duotask/internal/view"
)

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	st := m.store.State()
	var sections []string

	sections = append(sections, m.renderHeader(st))

	// Reserve: 1 line for header + footer lines
	footer := m.renderFooter()
	contentHeight := m.height - 1 - (strings.Count(footer, "\n") + 1)

	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.statsVisible:
		content = m.renderStats(st)
	default:
		content = m.renderList(st)
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, footer)

	return strings.Join(sections, "\n")
}

// renderHeader renders the title, both tabs and the account label
func (m RootModel) renderHeader(st model.State) string {
	styles := theme.Current.Styles
	stats := view.Summarize(st)

	title := styles.Header.Render("duotask")

	tabs := make([]string, 0, len(model.Tabs))
	for _, tab := range model.Tabs {
		total, done := stats.WorkTotal, stats.WorkDone
		if tab == model.TabPersonal {
			total, done = stats.PersonalTotal, stats.PersonalDone
		}
		label := fmt.Sprintf("%s %d", tab.Title(), total-done)
		if tab == st.ActiveTab {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabIdle.Render(label))
		}
	}

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)
	rightSide := styles.UserLabel.Render(m.userLabel())

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

func (m RootModel) userLabel() string {
	if u := m.sync.User(); u != nil {
		if m.sync.Phase() == syncer.Synced {
			return u.Email + " · synced"
		}
		return u.Email
	}
	if m.sync.SigningIn() {
		return "Signing in…"
	}
	return "Guest mode"
}

// renderList renders the visible tasks with the counter and filter line
func (m RootModel) renderList(st model.State) string {
	styles := theme.Current.Styles
	v := view.Derive(st)

	var b strings.Builder
	b.WriteString(styles.Counter.Render(view.CounterLabel(v) + "  " + m.filterLabel(st)))
	b.WriteString("\n")

	if len(v.Tasks) == 0 {
		b.WriteString(styles.Empty.Render(v.EmptyMessage(st)))
		return b.String()
	}

	for i, t := range v.Tasks {
		b.WriteString(m.renderTask(st, t, i == m.cursor))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m RootModel) renderTask(st model.State, t model.Task, cursor bool) string {
	styles := theme.Current.Styles

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	star := "  "
	if t.Important {
		star = styles.Important.Render("★") + " "
	}

	title := t.Title
	moving := m.mode == ModeMove && t.ID == m.movingID
	switch {
	case moving:
		title = styles.TaskMoving.Render("↕ " + title)
	case t.Completed:
		title = styles.TaskDone.Render(title)
	}

	line := check + " " + star + title
	if t.HasTag() {
		if tag, ok := st.TagByID(*t.TagID); ok {
			line += " " + theme.TagBadge(tag.Name, tag.Color)
		}
	}

	if cursor {
		return styles.TaskCursor.Render("› " + line)
	}
	return styles.TaskNormal.Render("  " + line)
}

func (m RootModel) filterLabel(st model.State) string {
	var parts []string
	switch f := st.ActiveTagFilter; f {
	case model.TagFilterAll, "":
		parts = append(parts, "tag: all")
	case model.TagFilterNone:
		parts = append(parts, "tag: untagged")
	default:
		if tag, ok := st.TagByID(f); ok {
			parts = append(parts, "tag: "+tag.Name)
		}
	}
	if st.ShowCompleted {
		parts = append(parts, "showing done")
	}
	if st.SortImportant {
		parts = append(parts, "important first")
	}
	return strings.Join(parts, " · ")
}

// renderFooter renders the toast, prompt and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.toast != nil && m.toast.Visible() {
		if m.toast.IsErr() {
			lines = append(lines, styles.ToastError.Render(m.toast.Text()))
		} else {
			lines = append(lines, styles.ToastInfo.Render(m.toast.Text()))
		}
	}

	switch {
	case m.mode.IsInput():
		lines = append(lines, styles.Prompt.Render(m.mode.String()+": ")+m.input.View())
		lines = append(lines, key("enter", "confirm")+sep+key("esc", "cancel"))
	case m.mode == ModeConfirmReset:
		lines = append(lines, styles.ToastError.Render("Reset all tasks and tags? (y/n)"))
	case m.mode == ModeMove:
		lines = append(lines, key("j/k", "choose target")+sep+key("enter", "drop")+sep+key("esc", "cancel"))
	case m.helpVisible || m.statsVisible:
		lines = append(lines, key("esc", "close")+sep+key("q", "quit"))
	default:
		lines = append(lines,
			key("a", "add")+sep+
				key("space", "done")+sep+
				key("i", "important")+sep+
				key("t", "tag")+sep+
				key("e", "rename")+sep+
				key("d", "del")+sep+
				key("m", "move"))
		account := key("L", "sign in")
		if m.sync.Phase() != syncer.Guest {
			account = key("S", "sync") + sep + key("O", "sign out")
		}
		lines = append(lines,
			key("1/2", "tabs")+sep+
				key("c", "completed")+sep+
				key("s", "sort")+sep+
				key("f", "filter")+sep+
				account+sep+
				key("?", "help"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay from the key map
func (m RootModel) renderHelp() string {
	styles := theme.Current.Styles

	h := m.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(styles.Title.Render("duotask help"))
	b.WriteString("\n")
	b.WriteString(h.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("T creates a tag, X deletes the tag you are filtering by."))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Press ? or esc to close"))
	return styles.Panel.Render(b.String())
}

// renderStats renders per-tab completion cards
func (m RootModel) renderStats(st model.State) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	s := view.Summarize(st)

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(18)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + styles.Label.Render(label))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d/%d", s.WorkDone, s.WorkTotal), "Work done"),
		card(fmt.Sprintf("%d/%d", s.PersonalDone, s.PersonalTotal), "Personal done"),
		card(fmt.Sprintf("%d%%", s.CompletionRate), "Completion"),
	)

	var b strings.Builder
	b.WriteString(styles.Title.Render("Statistics"))
	b.WriteString("\n")
	b.WriteString(row)
	b.WriteString("\n")

	if m.sync.RemoteReady() && m.sync.Phase() == syncer.Guest && s.Total > 0 {
		b.WriteString(styles.Label.Render(fmt.Sprintf("%d tasks and %d tags will upload when you sign in.", s.Total, len(st.Tags))))
		b.WriteString("\n")
	}
	b.WriteString(styles.Label.Render(fmt.Sprintf("%d tags", len(st.Tags))))
	return b.String()
}
