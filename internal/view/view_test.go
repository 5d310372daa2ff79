package view

import (
	"testing"

	"github.com/dori/duotask/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id string, tab model.Tab, completed, important bool, tagID string) model.Task {
	return model.Task{
		ID:        id,
		Title:     "Task " + id,
		Tab:       tab,
		Completed: completed,
		Important: important,
		TagID:     model.StringPtr(tagID),
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sampleState() model.State {
	st := model.DefaultState()
	st.Tags = []model.Tag{{ID: "urgent", Name: "Urgent"}, {ID: "home", Name: "Home"}}
	st.Tasks = []model.Task{
		task("a", model.TabWork, false, false, ""),
		task("b", model.TabWork, true, true, "urgent"),
		task("c", model.TabWork, false, true, ""),
		task("d", model.TabPersonal, false, true, "home"),
		task("e", model.TabWork, false, false, "urgent"),
		task("f", "", false, true, ""), // missing tab counts as work
	}
	return st
}

func TestDeriveFiltersByTab(t *testing.T) {
	st := sampleState()

	v := Derive(st)
	assert.Equal(t, []string{"a", "c", "e", "f"}, ids(v.Tasks))
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 1, v.Completed)
	assert.Equal(t, NotEmpty, v.Empty)

	st.ActiveTab = model.TabPersonal
	v = Derive(st)
	assert.Equal(t, []string{"d"}, ids(v.Tasks))
	assert.Equal(t, 1, v.Total)
}

func TestDeriveIsDeterministic(t *testing.T) {
	st := sampleState()
	st.SortImportant = true
	st.ShowCompleted = true

	first := Derive(st)
	second := Derive(st)
	assert.Equal(t, first, second)
}

func TestDeriveHidesCompleted(t *testing.T) {
	st := sampleState()
	for _, tk := range Derive(st).Tasks {
		assert.False(t, tk.Completed, "task %s is completed but visible", tk.ID)
	}

	st.ShowCompleted = true
	assert.Contains(t, ids(Derive(st).Tasks), "b")
}

func TestDeriveSortImportantIsStablePartition(t *testing.T) {
	st := sampleState()
	st.ShowCompleted = true
	st.SortImportant = true

	got := Derive(st).Tasks
	assert.Equal(t, []string{"b", "c", "f", "a", "e"}, ids(got))

	seenUnimportant := false
	for _, tk := range got {
		if !tk.Important {
			seenUnimportant = true
		}
		assert.False(t, seenUnimportant && tk.Important, "important task %s after unimportant one", tk.ID)
	}
}

func TestDeriveTagFilter(t *testing.T) {
	st := sampleState()
	st.ShowCompleted = true

	st.ActiveTagFilter = "urgent"
	assert.Equal(t, []string{"b", "e"}, ids(Derive(st).Tasks))

	st.ActiveTagFilter = model.TagFilterNone
	assert.Equal(t, []string{"a", "c", "f"}, ids(Derive(st).Tasks))

	st.ActiveTagFilter = model.TagFilterAll
	assert.Len(t, Derive(st).Tasks, 5)
}

func TestDeriveUnknownTagCountsAsUntagged(t *testing.T) {
	st := sampleState()
	st.Tasks = append(st.Tasks, task("g", model.TabWork, false, false, "gone"))

	st.ActiveTagFilter = model.TagFilterNone
	assert.Equal(t, []string{"a", "c", "f", "g"}, ids(Derive(st).Tasks))
}

func TestDeriveEmptyReasons(t *testing.T) {
	st := model.DefaultState()
	v := Derive(st)
	assert.Equal(t, EmptyNoTasks, v.Empty)
	assert.Equal(t, "No work tasks yet.", v.EmptyMessage(st))

	st = sampleState()
	st.ActiveTab = model.TabPersonal
	st.ActiveTagFilter = "urgent"
	v = Derive(st)
	require.Empty(t, v.Tasks)
	assert.Equal(t, EmptyNoTagMatch, v.Empty)
	assert.Equal(t, "No personal tasks match this tag.", v.EmptyMessage(st))

	// Only completed tasks in the tab: nothing passes the completion filter,
	// so the tag filter is not the reason.
	st = model.DefaultState()
	st.Tags = []model.Tag{{ID: "x", Name: "X"}}
	st.Tasks = []model.Task{task("z", model.TabWork, true, false, "x")}
	st.ActiveTagFilter = "x"
	assert.Equal(t, EmptyNoTasks, Derive(st).Empty)
}

func TestDeriveDoesNotAliasState(t *testing.T) {
	st := sampleState()
	v := Derive(st)
	*v.Tasks[2].TagID = "changed"
	assert.Equal(t, "urgent", *st.Tasks[4].TagID)
}

func TestScenarioBuyMilkPersonal(t *testing.T) {
	st := sampleState()
	milk := task("milk", model.TabPersonal, false, false, "")
	st.Tasks = append([]model.Task{milk}, st.Tasks...)

	st.ActiveTab = model.TabPersonal
	assert.Equal(t, "milk", Derive(st).Tasks[0].ID)

	st.ActiveTab = model.TabWork
	assert.NotContains(t, ids(Derive(st).Tasks), "milk")
}

func TestCounterLabel(t *testing.T) {
	assert.Equal(t, "0 tasks", CounterLabel(View{}))
	assert.Equal(t, "1 task", CounterLabel(View{Total: 1}))
	assert.Equal(t, "3 tasks · 2 done", CounterLabel(View{Total: 3, Completed: 2}))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleState())
	assert.Equal(t, Stats{
		WorkTotal:      5,
		WorkDone:       1,
		PersonalTotal:  1,
		PersonalDone:   0,
		Total:          6,
		Done:           1,
		CompletionRate: 17,
	}, s)

	assert.Equal(t, 0, Summarize(model.DefaultState()).CompletionRate)
}
