package syncer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/remote"
)

// Intents. Each commits locally first, then pushes when signed in.

type AddTaskMsg struct {
	Title string
	Tab   model.Tab
	TagID string
}

type ToggleTaskMsg struct{ ID string }

type ToggleImportantMsg struct{ ID string }

type SetTaskTagMsg struct {
	ID    string
	TagID string // empty clears the tag
}

type RenameTaskMsg struct {
	ID    string
	Title string
}

type DeleteTaskMsg struct{ ID string }

// MoveTaskMsg drops DraggedID onto TargetID in the visible list
type MoveTaskMsg struct {
	DraggedID string
	TargetID  string
}

type AddTagMsg struct {
	Name  string
	Color string
}

type DeleteTagMsg struct{ ID string }

// SetPreferenceMsg changes a view preference. Never pushed.
type SetPreferenceMsg struct {
	Key   string
	Value string
}

// ResetMsg wipes local state, the guest buffers and, when signed in, the
// remote collections
type ResetMsg struct{}

type SyncNowMsg struct{}

type SignInMsg struct {
	Email    string
	Password string
}

type SignUpMsg struct {
	Email    string
	Password string
}

type SignOutMsg struct{}

// Events from the remote store

// AuthChangedMsg reports the remote session; nil User means signed out
type AuthChangedMsg struct {
	User *remote.User
}

// TasksSnapshotMsg carries a full remote task list for one session
type TasksSnapshotMsg struct {
	Session uint64
	Tasks   []model.Task
}

// TagsSnapshotMsg carries a full remote tag list for one session
type TagsSnapshotMsg struct {
	Session uint64
	Tags    []model.Tag
}

type SubscriptionErrorMsg struct {
	Session uint64
	Err     error
}

// Results of asynchronous remote calls

// PushResultMsg reports one push; results from an ended session are dropped
type PushResultMsg struct {
	Session uint64
	Op      PushOp
	Err     error
}

// GuestImportMsg reports the one-time upload of the guest buffers. A nil
// error for a list means it was uploaded (or empty) and can be dropped.
type GuestImportMsg struct {
	Session  uint64
	TasksErr error
	TagsErr  error
}

type AuthResultMsg struct {
	Op  AuthOp
	Err error
}

// NoticeMsg is a human-readable outcome for the notice surface
type NoticeMsg struct {
	Text string
	Err  bool
}

// queuedMsgs are callbacks that fired while Update was calling into the
// remote store; they are replayed in order
type queuedMsgs []tea.Msg
