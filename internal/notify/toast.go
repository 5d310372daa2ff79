package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDuration is how long a toast stays visible
const DefaultDuration = 2600 * time.Millisecond

// ExpireMsg hides the toast it was scheduled for
type ExpireMsg struct {
	ID int
}

// Toast is a single-slot transient message. A new message replaces the
// current one and restarts the clock.
type Toast struct {
	duration time.Duration
	id       int
	text     string
	isErr    bool
	visible  bool
}

// NewToast creates a hidden toast; a non-positive duration uses the default
func NewToast(d time.Duration) *Toast {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Toast{duration: d}
}

// Show displays text and returns the command that will expire it
func (t *Toast) Show(text string, isErr bool) tea.Cmd {
	t.id++
	t.text = text
	t.isErr = isErr
	t.visible = true

	id := t.id
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ExpireMsg{ID: id}
	})
}

// Expire hides the toast if msg belongs to the message on screen. It
// returns true when the toast was hidden.
func (t *Toast) Expire(msg ExpireMsg) bool {
	if !t.visible || msg.ID != t.id {
		return false
	}
	t.visible = false
	t.text = ""
	t.isErr = false
	return true
}

func (t *Toast) Visible() bool { return t.visible }
func (t *Toast) Text() string  { return t.text }
func (t *Toast) IsErr() bool   { return t.isErr }

// Duration returns how long each message stays up
func (t *Toast) Duration() time.Duration {
	return t.duration
}
