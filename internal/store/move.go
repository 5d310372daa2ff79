package store

import (
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/reorder"
	"github.com/dori/duotask/internal/view"
)

// MoveTask applies a drag of draggedID onto targetID. Both must be in the
// current visible list. The whole reordered list is returned for pushing.
func (s *Store) MoveTask(draggedID, targetID string) ([]model.Task, error) {
	if s.state.SortImportant {
		return nil, ErrReorderDisabled
	}

	visible := view.Derive(s.state).Tasks
	next, ok := reorder.Move(s.state.Tasks, visible, draggedID, targetID)
	if !ok {
		return nil, ErrNotMovable
	}

	s.state.Tasks = next
	s.persist()
	return model.CloneTasks(next), nil
}
