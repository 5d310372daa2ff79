package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabPersonal, ParseTab("personal"))
	assert.Equal(t, TabPersonal, ParseTab(" Personal "))
	assert.Equal(t, TabWork, ParseTab("work"))
	assert.Equal(t, TabWork, ParseTab(""))
	assert.Equal(t, TabWork, ParseTab("garden"))

	assert.True(t, TabWork.Valid())
	assert.False(t, Tab("Work").Valid())
	assert.Equal(t, "Personal", TabPersonal.Title())
}

func TestEffectiveTab(t *testing.T) {
	task := Task{Tab: "bogus"}
	assert.Equal(t, TabWork, task.EffectiveTab())
	task.Tab = TabPersonal
	assert.Equal(t, TabPersonal, task.EffectiveTab())
}

func TestTaskTagHelpers(t *testing.T) {
	var task Task
	assert.False(t, task.HasTag())

	task.TagID = StringPtr("")
	assert.False(t, task.HasTag())

	task.TagID = StringPtr("t1")
	assert.True(t, task.HasTag())
	assert.True(t, task.TagIs("t1"))
	assert.False(t, task.TagIs("t2"))

	assert.Nil(t, StringPtr(""))
}

func TestCloneDoesNotShare(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orig := []Task{{ID: "a", TagID: StringPtr("t1"), UpdatedAt: &at}}

	cp := CloneTasks(orig)
	*cp[0].TagID = "t2"
	*cp[0].UpdatedAt = at.Add(time.Hour)
	cp[0].Title = "changed"

	assert.Equal(t, "t1", *orig[0].TagID)
	assert.Equal(t, at, *orig[0].UpdatedAt)
	assert.Empty(t, orig[0].Title)

	assert.Nil(t, CloneTasks(nil))
	assert.Nil(t, CloneTags(nil))
}

func TestStateClone(t *testing.T) {
	st := DefaultState()
	st.Tasks = append(st.Tasks, Task{ID: "a"})
	st.Tags = append(st.Tags, Tag{ID: "t", Name: "x"})

	cp := st.Clone()
	cp.Tasks[0].Title = "changed"
	cp.Tags[0].Name = "y"

	assert.Empty(t, st.Tasks[0].Title)
	assert.Equal(t, "x", st.Tags[0].Name)
}

func TestDefaultState(t *testing.T) {
	st := DefaultState()
	assert.Equal(t, TabWork, st.ActiveTab)
	assert.Equal(t, TagFilterAll, st.ActiveTagFilter)
	assert.False(t, st.ShowCompleted)
	assert.False(t, st.SortImportant)
	assert.NotNil(t, st.Tasks)
	assert.NotNil(t, st.Tags)
}

func TestStateLookups(t *testing.T) {
	st := DefaultState()
	st.Tasks = []Task{{ID: "a"}, {ID: "b"}}
	st.Tags = []Tag{{ID: "t1", Name: "Urgent"}}

	assert.Equal(t, 1, st.FindTask("b"))
	assert.Equal(t, -1, st.FindTask("z"))
	assert.True(t, st.HasTag("t1"))
	assert.False(t, st.HasTag(""))

	tag, ok := st.TagByID("t1")
	require.True(t, ok)
	assert.Equal(t, "Urgent", tag.Name)
	_, ok = st.TagByID("nope")
	assert.False(t, ok)

	assert.True(t, st.ValidTagFilter(TagFilterAll))
	assert.True(t, st.ValidTagFilter(TagFilterNone))
	assert.True(t, st.ValidTagFilter("t1"))
	assert.False(t, st.ValidTagFilter("t9"))
}

func TestTagNamesCollideIgnoringCase(t *testing.T) {
	assert.True(t, SameName("Urgent", "urgent"))
	assert.True(t, SameName(" Urgent ", "URGENT"))
	assert.False(t, SameName("Urgent", "Urgently"))
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "#2bb673", NormalizeColor("#2bb673"))
	assert.Equal(t, "#abc", NormalizeColor("#abc"))
	assert.Equal(t, "#A1B2C3", NormalizeColor(" #A1B2C3 "))
	assert.Equal(t, DefaultTagColor, NormalizeColor("red"))
	assert.Equal(t, DefaultTagColor, NormalizeColor(""))
	assert.True(t, InPalette("#4F7CFF"))
}
