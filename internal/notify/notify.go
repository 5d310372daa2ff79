// Package notify surfaces sync and auth outcomes: an in-app toast and an
// optional desktop notification mirror.
package notify

import (
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "duotask")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	return n.run("notify-send", args...)
}

// SendNotice mirrors a failed sync or auth outcome to the desktop.
// Successes stay in the app.
func (n *Notifier) SendNotice(text string, isErr bool) error {
	if !isErr {
		return nil
	}
	return n.Send(Notification{
		Title:   "duotask",
		Body:    text,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
		Icon:    "dialog-warning-symbolic",
	})
}
