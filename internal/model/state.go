package model

// Tag filter sentinels. Any other value is a tag id.
const (
	TagFilterAll  = "all"
	TagFilterNone = "none"
)

// ViewState holds the persisted view preferences
type ViewState struct {
	ActiveTab       Tab    `json:"activeTab" yaml:"activeTab"`
	ShowCompleted   bool   `json:"showCompleted" yaml:"showCompleted"`
	SortImportant   bool   `json:"sortImportant" yaml:"sortImportant"`
	ActiveTagFilter string `json:"activeTagFilter" yaml:"activeTagFilter"`
}

// State is the whole tracker: tasks, tags and view preferences
type State struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
	Tags  []Tag  `json:"tags" yaml:"tags"`
	ViewState `yaml:",inline"`
}

// DefaultState returns the empty state used on first run and after a reset
func DefaultState() State {
	return State{
		Tasks: []Task{},
		Tags:  []Tag{},
		ViewState: ViewState{
			ActiveTab:       TabWork,
			ActiveTagFilter: TagFilterAll,
		},
	}
}

// Clone deep-copies the state
func (s State) Clone() State {
	s.Tasks = CloneTasks(s.Tasks)
	s.Tags = CloneTags(s.Tags)
	return s
}

// FindTask returns the index of the task with the given id, or -1
func (s *State) FindTask(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTag returns the index of the tag with the given id, or -1
func (s *State) FindTag(id string) int {
	for i := range s.Tags {
		if s.Tags[i].ID == id {
			return i
		}
	}
	return -1
}

// HasTag returns true if a tag with the given id exists
func (s *State) HasTag(id string) bool {
	return id != "" && s.FindTag(id) >= 0
}

// TagByID returns the tag with the given id
func (s *State) TagByID(id string) (Tag, bool) {
	if i := s.FindTag(id); i >= 0 {
		return s.Tags[i], true
	}
	return Tag{}, false
}

// ValidTagFilter reports whether f is a sentinel or names an existing tag
func (s *State) ValidTagFilter(f string) bool {
	return f == TagFilterAll || f == TagFilterNone || s.HasTag(f)
}
