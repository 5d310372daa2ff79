package store

import (
	"fmt"
	"strconv"

	"github.com/dori/duotask/internal/model"
)

// Preference keys accepted by SetPreference
const (
	PrefActiveTab       = "activeTab"
	PrefShowCompleted   = "showCompleted"
	PrefSortImportant   = "sortImportant"
	PrefActiveTagFilter = "activeTagFilter"
)

// SetPreference sets a view preference from its string form
func (s *Store) SetPreference(key, value string) error {
	switch key {
	case PrefActiveTab:
		tab := model.Tab(value)
		if !tab.Valid() {
			return fmt.Errorf("%w: unknown tab %q", ErrInvalidPreference, value)
		}
		s.SetActiveTab(tab)
	case PrefShowCompleted, PrefSortImportant:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s wants true or false, got %q", ErrInvalidPreference, key, value)
		}
		if key == PrefShowCompleted {
			s.SetShowCompleted(b)
		} else {
			s.SetSortImportant(b)
		}
	case PrefActiveTagFilter:
		return s.SetTagFilter(value)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidPreference, key)
	}
	return nil
}

// SetActiveTab switches the visible tab
func (s *Store) SetActiveTab(tab model.Tab) {
	tab = model.ParseTab(string(tab))
	if s.state.ActiveTab == tab {
		return
	}
	s.state.ActiveTab = tab
	s.persist()
}

// SetShowCompleted toggles whether completed tasks are listed
func (s *Store) SetShowCompleted(show bool) {
	s.state.ShowCompleted = show
	s.persist()
}

// SetSortImportant toggles importance sorting (and with it, manual reordering)
func (s *Store) SetSortImportant(sort bool) {
	s.state.SortImportant = sort
	s.persist()
}

// SetTagFilter selects "all", "none" or a tag id
func (s *Store) SetTagFilter(filter string) error {
	if filter == "" {
		filter = model.TagFilterAll
	}
	if !s.state.ValidTagFilter(filter) {
		return ErrTagNotFound
	}
	s.state.ActiveTagFilter = filter
	s.persist()
	return nil
}
