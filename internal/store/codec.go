package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dori/duotask/internal/model"
)

// record is the on-disk shape. Field order is the serialized order.
type record struct {
	ActiveTab       model.Tab    `json:"activeTab"`
	Tasks           []model.Task `json:"tasks"`
	ShowCompleted   bool         `json:"showCompleted"`
	SortImportant   bool         `json:"sortImportant"`
	Tags            []model.Tag  `json:"tags"`
	ActiveTagFilter string       `json:"activeTagFilter"`
}

// rawRecord lets each field fail on its own
type rawRecord struct {
	ActiveTab       json.RawMessage `json:"activeTab"`
	Tasks           json.RawMessage `json:"tasks"`
	ShowCompleted   json.RawMessage `json:"showCompleted"`
	SortImportant   json.RawMessage `json:"sortImportant"`
	Tags            json.RawMessage `json:"tags"`
	ActiveTagFilter json.RawMessage `json:"activeTagFilter"`
}

// flexTime accepts RFC 3339 strings and epoch milliseconds; anything else
// decodes to the zero time instead of failing the whole task
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			f.Time = t
		}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err == nil {
		f.Time = time.UnixMilli(ms).UTC()
	}
	return nil
}

type taskWire struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tab       string    `json:"tab"`
	Completed bool      `json:"completed"`
	Important bool      `json:"important"`
	TagID     *string   `json:"tagId"`
	CreatedAt flexTime  `json:"createdAt"`
	UpdatedAt *flexTime `json:"updatedAt"`
}

type tagWire struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	CreatedAt flexTime `json:"createdAt"`
}

func encodeState(st model.State) ([]byte, error) {
	rec := record{
		ActiveTab:       st.ActiveTab,
		Tasks:           persistedTasks(st),
		ShowCompleted:   st.ShowCompleted,
		SortImportant:   st.SortImportant,
		Tags:            st.Tags,
		ActiveTagFilter: st.ActiveTagFilter,
	}
	if rec.Tasks == nil {
		rec.Tasks = []model.Task{}
	}
	if rec.Tags == nil {
		rec.Tags = []model.Tag{}
	}
	return json.Marshal(rec)
}

// persistedTasks nulls tag ids that point at no tag in st
func persistedTasks(st model.State) []model.Task {
	if st.Tasks == nil {
		return nil
	}
	tasks := make([]model.Task, len(st.Tasks))
	for i, t := range st.Tasks {
		if t.HasTag() && !st.HasTag(*t.TagID) {
			t.TagID = nil
		}
		tasks[i] = t
	}
	return tasks
}

// decodeState parses a cached record. It always returns a usable state: the
// defaults, overlaid with every field that could be read.
func decodeState(data []byte) (model.State, error) {
	st := model.DefaultState()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return st, nil
	}

	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return st, fmt.Errorf("corrupt state record: %w", err)
	}

	var tab string
	if json.Unmarshal(raw.ActiveTab, &tab) == nil {
		st.ActiveTab = model.ParseTab(tab)
	}
	var b bool
	if json.Unmarshal(raw.ShowCompleted, &b) == nil {
		st.ShowCompleted = b
	}
	b = false
	if json.Unmarshal(raw.SortImportant, &b) == nil {
		st.SortImportant = b
	}

	// Tags first: task tag ids are validated against them.
	var items []json.RawMessage
	if json.Unmarshal(raw.Tags, &items) == nil {
		for _, item := range items {
			var w tagWire
			if json.Unmarshal(item, &w) != nil {
				continue
			}
			name := strings.TrimSpace(w.Name)
			if w.ID == "" || name == "" {
				continue
			}
			color := strings.TrimSpace(w.Color)
			if color == "" {
				color = model.DefaultTagColor
			}
			st.Tags = append(st.Tags, model.Tag{
				ID:        w.ID,
				Name:      name,
				Color:     color,
				CreatedAt: w.CreatedAt.Time,
			})
		}
	}

	items = nil
	if json.Unmarshal(raw.Tasks, &items) == nil {
		for _, item := range items {
			var w taskWire
			if json.Unmarshal(item, &w) != nil {
				continue
			}
			title := strings.TrimSpace(w.Title)
			if w.ID == "" || title == "" {
				continue
			}
			t := model.Task{
				ID:        w.ID,
				Title:     title,
				Tab:       model.ParseTab(w.Tab),
				Completed: w.Completed,
				Important: w.Important,
				CreatedAt: w.CreatedAt.Time,
			}
			if w.TagID != nil && st.HasTag(*w.TagID) {
				t.TagID = model.StringPtr(*w.TagID)
			}
			if w.UpdatedAt != nil && !w.UpdatedAt.IsZero() {
				at := w.UpdatedAt.Time
				t.UpdatedAt = &at
			}
			st.Tasks = append(st.Tasks, t)
		}
	}

	var filter string
	if json.Unmarshal(raw.ActiveTagFilter, &filter) == nil && st.ValidTagFilter(filter) {
		st.ActiveTagFilter = filter
	}

	return st, nil
}
