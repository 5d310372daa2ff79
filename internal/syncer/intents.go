package syncer

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/store"
)

// handleIntent applies a local mutation and returns its push, if any
func (c *Coordinator) handleIntent(msg tea.Msg) tea.Cmd {
	var task model.Task
	var err error

	switch msg := msg.(type) {
	case AddTaskMsg:
		task, err = c.store.AddTask(msg.Title, msg.Tab, msg.TagID)
		if errors.Is(err, store.ErrEmptyTitle) {
			return nil
		}
	case ToggleTaskMsg:
		task, err = c.store.ToggleTask(msg.ID)
	case ToggleImportantMsg:
		task, err = c.store.ToggleImportant(msg.ID)
	case SetTaskTagMsg:
		task, err = c.store.SetTaskTag(msg.ID, msg.TagID)
	case RenameTaskMsg:
		task, err = c.store.RenameTask(msg.ID, msg.Title)

	case DeleteTaskMsg:
		if _, err := c.store.DeleteTask(msg.ID); err != nil {
			return c.rejected(err)
		}
		id := msg.ID
		return c.push(PushDeleteTask, func(ctx context.Context, uid string) error {
			return c.remote.DeleteTask(ctx, uid, id)
		})

	case MoveTaskMsg:
		tasks, err := c.store.MoveTask(msg.DraggedID, msg.TargetID)
		if err != nil {
			return c.rejected(err)
		}
		return c.push(PushReorder, func(ctx context.Context, uid string) error {
			return c.remote.UpsertTasks(ctx, uid, tasks)
		})

	case AddTagMsg:
		tag, err := c.store.AddTag(msg.Name, msg.Color)
		if err != nil {
			return c.rejected(err)
		}
		return c.push(PushSaveTag, func(ctx context.Context, uid string) error {
			return c.remote.SaveTag(ctx, uid, tag)
		})

	case DeleteTagMsg:
		del, err := c.store.DeleteTag(msg.ID)
		if err != nil {
			return c.rejected(err)
		}
		return c.push(PushDeleteTag, func(ctx context.Context, uid string) error {
			if err := c.remote.DeleteTag(ctx, uid, del.Tag.ID); err != nil {
				return err
			}
			if len(del.Affected) == 0 {
				return nil
			}
			return c.remote.UpsertTasks(ctx, uid, del.Affected)
		})

	case SetPreferenceMsg:
		if err := c.store.SetPreference(msg.Key, msg.Value); err != nil {
			return c.rejected(err)
		}
		return nil

	case ResetMsg:
		c.store.Reset()
		c.guestTasks = nil
		c.guestTags = nil
		return c.push(PushClear, func(ctx context.Context, uid string) error {
			if err := c.remote.ClearTasks(ctx, uid); err != nil {
				return err
			}
			return c.remote.ClearTags(ctx, uid)
		})

	default:
		return nil
	}

	if err != nil {
		return c.rejected(err)
	}
	return c.push(PushSaveTask, func(ctx context.Context, uid string) error {
		return c.remote.SaveTask(ctx, uid, task)
	})
}

// rejected turns a local failure into an error notice
func (c *Coordinator) rejected(err error) tea.Cmd {
	if !store.IsValidation(err) {
		c.logger.Printf("syncer: %v", err)
	}
	return notice(err.Error(), true)
}

// push runs fn against the remote store when a session is active. The
// local commit has already happened; failures only produce a notice.
func (c *Coordinator) push(op PushOp, fn func(ctx context.Context, uid string) error) tea.Cmd {
	if c.phase != Synced || c.user == nil {
		return nil
	}
	uid := c.user.ID
	session := c.session
	timeout := c.pushTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return PushResultMsg{Session: session, Op: op, Err: fn(ctx, uid)}
	}
}

func (c *Coordinator) pushResult(msg PushResultMsg) tea.Cmd {
	if msg.Session != c.session {
		if msg.Err != nil {
			c.logger.Printf("syncer: %s failed after session %d ended: %v", msg.Op, msg.Session, msg.Err)
		}
		return nil
	}
	if msg.Err != nil {
		c.logger.Printf("syncer: %s failed: %v", msg.Op, msg.Err)
		return notice(msg.Op.failureText(), true)
	}
	if text := msg.Op.successText(); text != "" {
		return notice(text, false)
	}
	return nil
}

// syncNow force-pushes the full task list and, if any, the tag list
func (c *Coordinator) syncNow() tea.Cmd {
	if !c.CanSync() {
		return notice("Sign in to sync across devices.", false)
	}

	st := c.store.State()
	push := c.push(PushSyncNow, func(ctx context.Context, uid string) error {
		if err := c.remote.UpsertTasks(ctx, uid, st.Tasks); err != nil {
			return err
		}
		if len(st.Tags) == 0 {
			return nil
		}
		return c.remote.UpsertTags(ctx, uid, st.Tags)
	})
	return tea.Batch(notice("Syncing…", false), push)
}
