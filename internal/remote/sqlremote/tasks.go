package sqlremote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dori/duotask/internal/model"
)

const taskColumns = `id, title, tab, completed, important, tag_id, created_at, updated_at`

// Tasks returns the user's tasks in display order
func (d *DB) Tasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY position, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// SaveTask inserts or overwrites one task. New tasks sort first.
func (d *DB) SaveTask(ctx context.Context, userID string, task model.Task) error {
	if userID == "" {
		return ErrNoUser
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, id, title, tab, completed, important, tag_id,
		                   position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?,
		        (SELECT COALESCE(MIN(position), 0) - 1 FROM tasks WHERE user_id = ?), ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET
			title = excluded.title,
			tab = excluded.tab,
			completed = excluded.completed,
			important = excluded.important,
			tag_id = excluded.tag_id,
			updated_at = excluded.updated_at
	`, userID, task.ID, task.Title, string(task.EffectiveTab()), task.Completed, task.Important,
		task.TagID, userID, task.CreatedAt, d.now())
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// DeleteTask removes one task
func (d *DB) DeleteTask(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return ErrNoUser
	}

	_, err := d.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// UpsertTasks writes a batch atomically; each task's position is its
// index in the batch
func (d *DB) UpsertTasks(ctx context.Context, userID string, tasks []model.Task) error {
	if userID == "" {
		return ErrNoUser
	}

	now := d.now()
	err := d.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tasks (user_id, id, title, tab, completed, important, tag_id,
			                   position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id, id) DO UPDATE SET
				title = excluded.title,
				tab = excluded.tab,
				completed = excluded.completed,
				important = excluded.important,
				tag_id = excluded.tag_id,
				position = excluded.position,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range tasks {
			_, err := stmt.ExecContext(ctx, userID, t.ID, t.Title, string(t.EffectiveTab()),
				t.Completed, t.Important, t.TagID, i, t.CreatedAt, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert tasks: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// ClearTasks removes all of the user's tasks
func (d *DB) ClearTasks(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUser
	}

	if _, err := d.db.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	d.markDirty(userID)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	var tab string
	var tagID *string
	var updatedAt sql.NullTime

	err := s.Scan(&t.ID, &t.Title, &tab, &t.Completed, &t.Important, &tagID, &t.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Tab = model.ParseTab(tab)
	t.TagID = tagID
	if updatedAt.Valid {
		ts := updatedAt.Time
		t.UpdatedAt = &ts
	}
	return &t, nil
}
