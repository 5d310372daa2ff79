package sqlremote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dori/duotask/internal/model"
)

// Tags returns the user's tags, oldest first
func (d *DB) Tags(ctx context.Context, userID string) ([]model.Tag, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, color, created_at
		FROM tags
		WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListTags implements remote.Store
func (d *DB) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return d.Tags(ctx, userID)
}

const upsertTagSQL = `
	INSERT INTO tags (user_id, id, name, color, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, id) DO UPDATE SET
		name = excluded.name,
		color = excluded.color,
		updated_at = excluded.updated_at
`

// SaveTag inserts or overwrites one tag
func (d *DB) SaveTag(ctx context.Context, userID string, tag model.Tag) error {
	if userID == "" {
		return ErrNoUser
	}

	_, err := d.db.ExecContext(ctx, upsertTagSQL,
		userID, tag.ID, tag.Name, model.NormalizeColor(tag.Color), tag.CreatedAt, d.now())
	if err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// DeleteTag removes one tag. Tasks referencing it are left to the caller.
func (d *DB) DeleteTag(ctx context.Context, userID, tagID string) error {
	if userID == "" {
		return ErrNoUser
	}

	if _, err := d.db.ExecContext(ctx, `DELETE FROM tags WHERE user_id = ? AND id = ?`, userID, tagID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// UpsertTags writes a batch of tags atomically
func (d *DB) UpsertTags(ctx context.Context, userID string, tags []model.Tag) error {
	if userID == "" {
		return ErrNoUser
	}

	now := d.now()
	err := d.Transaction(ctx, func(tx *sql.Tx) error {
		for _, t := range tags {
			_, err := tx.ExecContext(ctx, upsertTagSQL,
				userID, t.ID, t.Name, model.NormalizeColor(t.Color), t.CreatedAt, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert tags: %w", err)
	}

	d.markDirty(userID)
	return nil
}

// ClearTags removes all of the user's tags
func (d *DB) ClearTags(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUser
	}

	if _, err := d.db.ExecContext(ctx, `DELETE FROM tags WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	d.markDirty(userID)
	return nil
}
