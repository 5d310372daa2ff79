// Package view derives the ordered, filtered task list shown to the user.
// Everything here is a pure function of model.State.
package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dori/duotask/internal/model"
)

// EmptyReason says why a view has nothing to show
type EmptyReason int

const (
	NotEmpty EmptyReason = iota
	// EmptyNoTasks: nothing in the tab survives the completion filter
	EmptyNoTasks
	// EmptyNoTagMatch: tasks exist but none match the tag filter
	EmptyNoTagMatch
)

// View is the derived, displayable slice of state
type View struct {
	Tasks []model.Task
	// Total and Completed count the whole active tab, before filters
	Total     int
	Completed int
	Empty     EmptyReason
}

// Derive computes the visible task list:
//  1. keep tasks in the active tab
//  2. if sorting by importance, stable-partition important tasks first
//  3. drop completed tasks unless shown, then apply the tag filter
func Derive(st model.State) View {
	active := model.ParseTab(string(st.ActiveTab))
	var inTab []model.Task
	for _, t := range st.Tasks {
		if t.EffectiveTab() == active {
			inTab = append(inTab, t)
		}
	}

	v := View{Total: len(inTab)}
	for _, t := range inTab {
		if t.Completed {
			v.Completed++
		}
	}

	ordered := inTab
	if st.SortImportant {
		ordered = slices.Clone(inTab)
		slices.SortStableFunc(ordered, func(a, b model.Task) int {
			switch {
			case a.Important == b.Important:
				return 0
			case a.Important:
				return -1
			default:
				return 1
			}
		})
	}

	filter := st.ActiveTagFilter
	if filter == "" {
		filter = model.TagFilterAll
	}

	passedCompletion := 0
	for _, t := range ordered {
		if !st.ShowCompleted && t.Completed {
			continue
		}
		passedCompletion++
		if !matchesTag(st, t, filter) {
			continue
		}
		v.Tasks = append(v.Tasks, t.Clone())
	}

	if len(v.Tasks) == 0 {
		if passedCompletion > 0 && filter != model.TagFilterAll {
			v.Empty = EmptyNoTagMatch
		} else {
			v.Empty = EmptyNoTasks
		}
	}
	return v
}

// matchesTag treats a tag id with no registered tag as untagged
func matchesTag(st model.State, t model.Task, filter string) bool {
	switch filter {
	case model.TagFilterAll:
		return true
	case model.TagFilterNone:
		return !t.HasTag() || !st.HasTag(*t.TagID)
	default:
		return t.TagIs(filter)
	}
}

// Contains reports whether the task id is in the visible list
func (v View) Contains(id string) bool {
	return v.IndexOf(id) >= 0
}

// IndexOf returns the position of id in the visible list, or -1
func (v View) IndexOf(id string) int {
	for i, t := range v.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// EmptyMessage returns the text to show in place of an empty list
func (v View) EmptyMessage(st model.State) string {
	tab := string(st.ActiveTab)
	switch v.Empty {
	case EmptyNoTagMatch:
		return fmt.Sprintf("No %s tasks match this tag.", tab)
	case EmptyNoTasks:
		if st.ShowCompleted {
			return fmt.Sprintf("No %s tasks.", tab)
		}
		return fmt.Sprintf("No %s tasks yet.", tab)
	default:
		return ""
	}
}

// CounterLabel renders the tab counter, e.g. "3 tasks · 1 done"
func CounterLabel(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d task", v.Total)
	if v.Total != 1 {
		b.WriteString("s")
	}
	if v.Completed > 0 {
		fmt.Fprintf(&b, " · %d done", v.Completed)
	}
	return b.String()
}
