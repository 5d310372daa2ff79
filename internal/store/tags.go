package store

import (
	"strings"

	"github.com/dori/duotask/internal/model"
)

// TagDeletion describes the effects of DeleteTag
type TagDeletion struct {
	Tag model.Tag
	// Affected holds the tasks whose tag reference was cleared, after the change
	Affected []model.Task
	// FilterReset is true if the active tag filter pointed at the tag
	FilterReset bool
}

// AddTag registers a tag. Names are unique case-insensitively; the color
// falls back to the default palette entry when unusable.
func (s *Store) AddTag(name, color string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, ErrEmptyTagName
	}
	if _, exists := s.FindTagByName(name); exists {
		return model.Tag{}, ErrDuplicateTag
	}

	tag := model.Tag{
		ID:        s.newID(),
		Name:      name,
		Color:     model.NormalizeColor(color),
		CreatedAt: s.now(),
	}

	next := make([]model.Tag, 0, len(s.state.Tags)+1)
	next = append(next, s.state.Tags...)
	next = append(next, tag)
	s.state.Tags = next
	s.persist()

	return tag, nil
}

// FindTagByName looks a tag up by name, ignoring case and surrounding space
func (s *Store) FindTagByName(name string) (model.Tag, bool) {
	for _, t := range s.state.Tags {
		if model.SameName(t.Name, name) {
			return t, true
		}
	}
	return model.Tag{}, false
}

// DeleteTag removes a tag, clears it from every task that referenced it and
// resets the tag filter if it was selected. All three land in one save.
func (s *Store) DeleteTag(id string) (TagDeletion, error) {
	i := s.state.FindTag(id)
	if i < 0 {
		return TagDeletion{}, ErrTagNotFound
	}
	result := TagDeletion{Tag: s.state.Tags[i]}

	tags := make([]model.Tag, 0, len(s.state.Tags)-1)
	tags = append(tags, s.state.Tags[:i]...)
	tags = append(tags, s.state.Tags[i+1:]...)

	tasks := make([]model.Task, len(s.state.Tasks))
	for j, t := range s.state.Tasks {
		if t.TagIs(id) {
			t = t.Clone()
			t.TagID = nil
			result.Affected = append(result.Affected, t.Clone())
		}
		tasks[j] = t
	}

	s.state.Tags = tags
	s.state.Tasks = tasks
	if s.state.ActiveTagFilter == id {
		s.state.ActiveTagFilter = model.TagFilterAll
		result.FilterReset = true
	}
	s.persist()

	return result, nil
}
