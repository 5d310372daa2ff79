package remote

import (
	"context"

	"github.com/dori/duotask/internal/model"
)

// Unconfigured is the Store used when no backend is set up. Data calls
// succeed without doing anything; auth calls fail with ErrNotConfigured.
type Unconfigured struct{}

var _ Store = Unconfigured{}

func noopUnsubscribe() {}

func (Unconfigured) IsReady() bool { return false }

func (Unconfigured) OnAuthStateChanged(fn func(*User)) func() {
	fn(nil)
	return noopUnsubscribe
}

func (Unconfigured) SignIn(context.Context, string, string) error { return ErrNotConfigured }
func (Unconfigured) SignUp(context.Context, string, string) error { return ErrNotConfigured }
func (Unconfigured) SignOut(context.Context) error                { return nil }

func (Unconfigured) SaveTask(context.Context, string, model.Task) error      { return nil }
func (Unconfigured) DeleteTask(context.Context, string, string) error        { return nil }
func (Unconfigured) UpsertTasks(context.Context, string, []model.Task) error { return nil }
func (Unconfigured) ClearTasks(context.Context, string) error                { return nil }
func (Unconfigured) ListTags(context.Context, string) ([]model.Tag, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) SaveTag(context.Context, string, model.Tag) error        { return nil }
func (Unconfigured) DeleteTag(context.Context, string, string) error         { return nil }
func (Unconfigured) UpsertTags(context.Context, string, []model.Tag) error   { return nil }
func (Unconfigured) ClearTags(context.Context, string) error                 { return nil }

func (Unconfigured) SubscribeToTasks(_ string, _ func([]model.Task), onError func(error)) func() {
	if onError != nil {
		onError(ErrNotConfigured)
	}
	return noopUnsubscribe
}

func (Unconfigured) SubscribeToTags(_ string, _ func([]model.Tag), onError func(error)) func() {
	if onError != nil {
		onError(ErrNotConfigured)
	}
	return noopUnsubscribe
}
