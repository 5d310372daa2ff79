// Package reorder turns a drag gesture over the visible list into a new
// order for the full task list.
package reorder

import "github.com/dori/duotask/internal/model"

// Move removes the dragged task from full and reinserts it at the target's
// original index in full. Dragging down therefore lands the task just after
// the target, dragging up lands it just before. Both ids must appear in
// visible; otherwise, or when they are equal, Move reports false and
// returns full unchanged. full itself is never modified.
func Move(full, visible []model.Task, draggedID, targetID string) ([]model.Task, bool) {
	if draggedID == "" || targetID == "" || draggedID == targetID {
		return full, false
	}
	if indexOf(visible, draggedID) < 0 || indexOf(visible, targetID) < 0 {
		return full, false
	}

	from := indexOf(full, draggedID)
	to := indexOf(full, targetID)
	if from < 0 || to < 0 {
		return full, false
	}

	dragged := full[from]
	rest := make([]model.Task, 0, len(full))
	rest = append(rest, full[:from]...)
	rest = append(rest, full[from+1:]...)

	if to > len(rest) {
		to = len(rest)
	}

	next := make([]model.Task, 0, len(full))
	next = append(next, rest[:to]...)
	next = append(next, dragged)
	next = append(next, rest[to:]...)
	return next, true
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
