package syncer

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/remote"
)

func (c *Coordinator) signIn(op AuthOp, email, password string) tea.Cmd {
	if !c.remote.IsReady() {
		return notice("Remote sync is not configured yet.", true)
	}
	if c.phase != Guest {
		return notice("Already signed in.", false)
	}
	if c.signingIn {
		return nil
	}

	c.signingIn = true
	r := c.remote
	timeout := c.pushTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		if op == AuthSignUp {
			err = r.SignUp(ctx, email, password)
		} else {
			err = r.SignIn(ctx, email, password)
		}
		return AuthResultMsg{Op: op, Err: err}
	}
}

// signOut asks the remote to end the session. Teardown happens when the
// resulting AuthChangedMsg arrives.
func (c *Coordinator) signOut() tea.Cmd {
	if c.phase == Guest {
		return notice("Not signed in.", false)
	}

	r := c.remote
	timeout := c.pushTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return AuthResultMsg{Op: AuthSignOut, Err: r.SignOut(ctx)}
	}
}

func (c *Coordinator) authResult(msg AuthResultMsg) tea.Cmd {
	if msg.Op != AuthSignOut {
		c.signingIn = false
	}
	if msg.Err != nil {
		c.logger.Printf("syncer: auth failed: %v", msg.Err)
		return notice(msg.Op.failureText(msg.Err), true)
	}
	return notice(msg.Op.successText(), false)
}

func (c *Coordinator) authChanged(u *remote.User) tea.Cmd {
	if u == nil {
		if c.phase != Guest {
			c.logger.Printf("syncer: signed out")
			c.detach()
			c.store.Reload()
			c.phase = Guest
			c.user = nil
		}
		return nil
	}

	if c.phase != Guest && c.user != nil {
		if c.user.ID == u.ID {
			return nil
		}
		// Switching accounts directly: nothing here is guest data
		c.detach()
		c.guestTasks = nil
		c.guestTags = nil
		return c.attach(u)
	}

	c.seedGuestBuffers()
	return c.attach(u)
}

// attach opens a session for u and uploads pending guest data
func (c *Coordinator) attach(u *remote.User) tea.Cmd {
	c.phase = Authenticating
	c.user = copyUser(u)
	c.session++
	session := c.session
	live := &atomic.Bool{}
	live.Store(true)
	c.live = live

	c.logger.Printf("syncer: signed in as %s (session %d)", u.Email, session)

	c.beginInline()
	c.unsubTasks = c.remote.SubscribeToTasks(u.ID,
		func(tasks []model.Task) {
			if live.Load() {
				c.forward(TasksSnapshotMsg{Session: session, Tasks: tasks})
			}
		},
		func(err error) {
			if live.Load() {
				c.forward(SubscriptionErrorMsg{Session: session, Err: err})
			}
		})
	c.unsubTags = c.remote.SubscribeToTags(u.ID,
		func(tags []model.Tag) {
			if live.Load() {
				c.forward(TagsSnapshotMsg{Session: session, Tags: tags})
			}
		},
		func(err error) {
			if live.Load() {
				c.forward(SubscriptionErrorMsg{Session: session, Err: err})
			}
		})
	queued := c.endInline()

	c.phase = Synced
	return tea.Batch(queued, c.importGuest(session))
}

// detach cancels both subscriptions and invalidates their callbacks
func (c *Coordinator) detach() {
	c.live.Store(false)
	if c.unsubTasks != nil {
		c.unsubTasks()
		c.unsubTasks = nil
	}
	if c.unsubTags != nil {
		c.unsubTags()
		c.unsubTags = nil
	}
	c.session++
}

// importGuest uploads the guest buffers once. There is no retry; a failed
// list stays buffered until the next sign-in. Guest tags whose name the
// account already uses are folded into the existing tag.
func (c *Coordinator) importGuest(session uint64) tea.Cmd {
	if len(c.guestTasks) == 0 && len(c.guestTags) == 0 {
		return nil
	}

	tasks := model.CloneTasks(c.guestTasks)
	tags := model.CloneTags(c.guestTags)
	uid := c.user.ID
	r := c.remote
	timeout := c.pushTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := GuestImportMsg{Session: session}
		if len(tags) > 0 {
			existing, err := r.ListTags(ctx, uid)
			if err != nil {
				msg.TasksErr, msg.TagsErr = err, err
				return msg
			}
			tasks, tags = adoptRemoteTags(tasks, tags, existing)
		}
		if len(tasks) > 0 {
			msg.TasksErr = r.UpsertTasks(ctx, uid, tasks)
		}
		if len(tags) > 0 {
			msg.TagsErr = r.UpsertTags(ctx, uid, tags)
		}
		return msg
	}
}

// adoptRemoteTags drops guest tags that share a name with a different
// remote tag and points their tasks at the remote one
func adoptRemoteTags(tasks []model.Task, tags, existing []model.Tag) ([]model.Task, []model.Tag) {
	renamed := make(map[string]string)
	kept := make([]model.Tag, 0, len(tags))
	for _, g := range tags {
		match := ""
		for _, r := range existing {
			if model.SameName(r.Name, g.Name) {
				match = r.ID
				break
			}
		}
		if match != "" && match != g.ID {
			renamed[g.ID] = match
			continue
		}
		kept = append(kept, g)
	}
	if len(renamed) == 0 {
		return tasks, kept
	}

	for i := range tasks {
		if !tasks[i].HasTag() {
			continue
		}
		if id, ok := renamed[*tasks[i].TagID]; ok {
			tasks[i].TagID = model.StringPtr(id)
		}
	}
	return tasks, kept
}

func (c *Coordinator) guestImported(msg GuestImportMsg) {
	if msg.Session != c.session {
		c.logger.Printf("syncer: ignoring guest import from session %d", msg.Session)
		return
	}
	if msg.TasksErr == nil {
		c.guestTasks = nil
	} else {
		c.logger.Printf("syncer: failed to import guest tasks: %v", msg.TasksErr)
	}
	if msg.TagsErr == nil {
		c.guestTags = nil
	} else {
		c.logger.Printf("syncer: failed to import guest tags: %v", msg.TagsErr)
	}
}
