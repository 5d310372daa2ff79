// Package remote defines the multi-device store the sync coordinator talks
// to. The coordinator depends only on Store; concrete transports live in
// subpackages.
package remote

import (
	"context"
	"errors"

	"github.com/dori/duotask/internal/model"
)

// ErrNotConfigured is returned when no remote backend is set up
var ErrNotConfigured = errors.New("remote sync is not configured")

// User is an authenticated account
type User struct {
	ID    string
	Email string
}

// Store is the remote collaborator. Writes are idempotent per document:
// saving the same id twice overwrites. Batch upserts are atomic.
type Store interface {
	// IsReady reports whether the backend is configured and usable
	IsReady() bool

	// OnAuthStateChanged registers fn for sign-in/sign-out transitions.
	// fn is also called once with the current user (or nil) on registration.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error

	SaveTask(ctx context.Context, userID string, task model.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
	UpsertTasks(ctx context.Context, userID string, tasks []model.Task) error
	ClearTasks(ctx context.Context, userID string) error

	// ListTags returns the user's stored tags
	ListTags(ctx context.Context, userID string) ([]model.Tag, error)
	SaveTag(ctx context.Context, userID string, tag model.Tag) error
	DeleteTag(ctx context.Context, userID, tagID string) error
	UpsertTags(ctx context.Context, userID string, tags []model.Tag) error
	ClearTags(ctx context.Context, userID string) error

	// SubscribeToTasks delivers the user's full task list now and after
	// every change. Callbacks may run on any goroutine.
	SubscribeToTasks(userID string, onUpdate func([]model.Task), onError func(error)) (unsubscribe func())

	// SubscribeToTags is SubscribeToTasks for tags
	SubscribeToTags(userID string, onUpdate func([]model.Tag), onError func(error)) (unsubscribe func())
}
