package store

import (
	"strings"

	"github.com/dori/duotask/internal/model"
)

// AddTask creates a task at the head of the list. An empty tab means the
// active tab; an unknown tagID is stored as no tag.
func (s *Store) AddTask(title string, tab model.Tab, tagID string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if tab == "" {
		tab = s.state.ActiveTab
	}

	task := model.Task{
		ID:        s.newID(),
		Title:     title,
		Tab:       model.ParseTab(string(tab)),
		CreatedAt: s.now(),
	}
	if s.state.HasTag(tagID) {
		task.TagID = model.StringPtr(tagID)
	}

	next := make([]model.Task, 0, len(s.state.Tasks)+1)
	next = append(next, task)
	next = append(next, s.state.Tasks...)
	s.state.Tasks = next
	s.persist()

	return task.Clone(), nil
}

// ToggleTask flips a task's completed flag
func (s *Store) ToggleTask(id string) (model.Task, error) {
	return s.updateTask(id, func(t *model.Task) error {
		t.Completed = !t.Completed
		return nil
	})
}

// ToggleImportant flips a task's important flag
func (s *Store) ToggleImportant(id string) (model.Task, error) {
	return s.updateTask(id, func(t *model.Task) error {
		t.Important = !t.Important
		return nil
	})
}

// SetTaskTag points a task at a tag. An empty or unknown tagID clears it.
func (s *Store) SetTaskTag(id, tagID string) (model.Task, error) {
	return s.updateTask(id, func(t *model.Task) error {
		if s.state.HasTag(tagID) {
			t.TagID = model.StringPtr(tagID)
		} else {
			t.TagID = nil
		}
		return nil
	})
}

// RenameTask changes a task's title
func (s *Store) RenameTask(id, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	return s.updateTask(id, func(t *model.Task) error {
		t.Title = title
		return nil
	})
}

// DeleteTask removes a task and returns what was removed
func (s *Store) DeleteTask(id string) (model.Task, error) {
	i := s.state.FindTask(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	removed := s.state.Tasks[i].Clone()

	next := make([]model.Task, 0, len(s.state.Tasks)-1)
	next = append(next, s.state.Tasks[:i]...)
	next = append(next, s.state.Tasks[i+1:]...)
	s.state.Tasks = next
	s.persist()

	return removed, nil
}

// updateTask copies the list, applies fn to the copy of the matching task
// and commits the new list
func (s *Store) updateTask(id string, fn func(*model.Task) error) (model.Task, error) {
	i := s.state.FindTask(id)
	if i < 0 {
		return model.Task{}, ErrTaskNotFound
	}

	next := make([]model.Task, len(s.state.Tasks))
	copy(next, s.state.Tasks)
	changed := next[i].Clone()
	if err := fn(&changed); err != nil {
		return model.Task{}, err
	}
	next[i] = changed

	s.state.Tasks = next
	s.persist()
	return changed.Clone(), nil
}
