package reorder

import (
	"testing"

	"github.com/dori/duotask/internal/model"
)

func tasks(ids ...string) []model.Task {
	out := make([]model.Task, len(ids))
	for i, id := range ids {
		out[i] = model.Task{ID: id, Title: id}
	}
	return out
}

func order(ts []model.Task) string {
	s := ""
	for _, t := range ts {
		s += t.ID
	}
	return s
}

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		full    string
		visible string
		dragged string
		target  string
		want    string
		ok      bool
	}{
		{"down over hidden item", "ABCD", "ACD", "A", "D", "BCDA", true},
		{"down by one", "ABCD", "ABCD", "A", "B", "BACD", true},
		{"up", "ABCD", "ABCD", "D", "B", "ADBC", true},
		{"up to head", "ABCD", "ABCD", "C", "A", "CABD", true},
		{"same id", "ABCD", "ABCD", "B", "B", "ABCD", false},
		{"dragged not visible", "ABCD", "ACD", "B", "D", "ABCD", false},
		{"target not visible", "ABCD", "ACD", "A", "B", "ABCD", false},
		{"unknown id", "ABCD", "ABCD", "X", "A", "ABCD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := tasks(split(tt.full)...)
			visible := tasks(split(tt.visible)...)

			got, ok := Move(full, visible, tt.dragged, tt.target)
			if ok != tt.ok {
				t.Fatalf("Move ok = %v, want %v", ok, tt.ok)
			}
			if order(got) != tt.want {
				t.Errorf("Move order = %s, want %s", order(got), tt.want)
			}
			if order(full) != tt.full {
				t.Errorf("input was modified: %s", order(full))
			}
		})
	}
}

func split(s string) []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
