package model

import (
	"strings"
	"time"
)

// Tab is the top-level category a task belongs to
type Tab string

const (
	TabWork     Tab = "work"
	TabPersonal Tab = "personal"
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabWork, TabPersonal}

// ParseTab returns the tab for s, falling back to work for anything unknown
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabPersonal:
		return TabPersonal
	default:
		return TabWork
	}
}

// Valid reports whether t is one of the two known tabs
func (t Tab) Valid() bool {
	return t == TabWork || t == TabPersonal
}

// Title returns the capitalized display name ("Work", "Personal")
func (t Tab) Title() string {
	if t == TabPersonal {
		return "Personal"
	}
	return "Work"
}

// Task represents a todo item
type Task struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Tab       Tab        `json:"tab" yaml:"tab"`
	Completed bool       `json:"completed" yaml:"completed"`
	Important bool       `json:"important" yaml:"important"`
	TagID     *string    `json:"tagId" yaml:"tagId"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// EffectiveTab returns the task's tab, treating a missing or invalid one as work
func (t *Task) EffectiveTab() Tab {
	if t.Tab.Valid() {
		return t.Tab
	}
	return TabWork
}

// HasTag returns true if the task references a tag
func (t *Task) HasTag() bool {
	return t.TagID != nil && *t.TagID != ""
}

// TagIs returns true if the task references exactly the given tag id
func (t *Task) TagIs(id string) bool {
	return t.HasTag() && *t.TagID == id
}

// Clone returns a copy that shares no pointers with t
func (t Task) Clone() Task {
	if t.TagID != nil {
		id := *t.TagID
		t.TagID = &id
	}
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		t.UpdatedAt = &at
	}
	return t
}

// CloneTasks deep-copies a task list
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// StringPtr returns a pointer to s, or nil for the empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
