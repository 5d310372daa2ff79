// Package remotetest provides an in-memory remote.Store for tests.
package remotetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/remote"
)

// ErrInvalidCredentials is returned by SignIn for unknown accounts
var ErrInvalidCredentials = errors.New("invalid email or password")

type account struct {
	user     remote.User
	password string
}

type taskSub struct {
	userID   string
	onUpdate func([]model.Task)
	onError  func(error)
}

type tagSub struct {
	userID   string
	onUpdate func([]model.Tag)
	onError  func(error)
}

// Fake is an in-memory implementation of remote.Store. Snapshots are only
// delivered when the test asks for them (Emit*), unless AutoEmit is set.
type Fake struct {
	mu       sync.Mutex
	ready    bool
	accounts map[string]account
	current  *remote.User
	nextID   int

	authListeners map[int]func(*remote.User)
	taskSubs      map[int]taskSub
	tagSubs       map[int]tagSub

	tasks map[string][]model.Task
	tags  map[string][]model.Tag
	calls []string

	// AutoEmit pushes a snapshot to subscribers after every write
	AutoEmit bool

	// Error injection for testing
	SignInErr      error
	SignUpErr      error
	SignOutErr     error
	SaveTaskErr    error
	DeleteTaskErr  error
	UpsertTasksErr error
	ClearTasksErr  error
	ListTagsErr    error
	SaveTagErr     error
	DeleteTagErr   error
	UpsertTagsErr  error
	ClearTagsErr   error
}

var _ remote.Store = (*Fake)(nil)

// NewFake creates a ready fake with no accounts
func NewFake() *Fake {
	return &Fake{
		ready:         true,
		accounts:      make(map[string]account),
		authListeners: make(map[int]func(*remote.User)),
		taskSubs:      make(map[int]taskSub),
		tagSubs:       make(map[int]tagSub),
		tasks:         make(map[string][]model.Task),
		tags:          make(map[string][]model.Tag),
	}
}

// SetReady toggles IsReady
func (f *Fake) SetReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = ready
}

// AddUser registers an account and returns its user
func (f *Fake) AddUser(email, password string) remote.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(email, password)
}

func (f *Fake) addUserLocked(email, password string) remote.User {
	f.nextID++
	u := remote.User{ID: fmt.Sprintf("user-%d", f.nextID), Email: email}
	f.accounts[strings.ToLower(email)] = account{user: u, password: password}
	return u
}

// SetCurrentUser simulates an auth state change (nil signs out)
func (f *Fake) SetCurrentUser(u *remote.User) {
	f.mu.Lock()
	f.current = u
	listeners := f.authListenersLocked()
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(u)
	}
}

func (f *Fake) authListenersLocked() []func(*remote.User) {
	out := make([]func(*remote.User), 0, len(f.authListeners))
	for _, fn := range f.authListeners {
		out = append(out, fn)
	}
	return out
}

func (f *Fake) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Calls returns every recorded operation, e.g. "SaveTask user-1 t1"
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// CallCount counts recorded operations starting with prefix
func (f *Fake) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Tasks returns the stored tasks for a user
func (f *Fake) Tasks(userID string) []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.CloneTasks(f.tasks[userID])
}

// Tags returns the stored tags for a user
func (f *Fake) Tags(userID string) []model.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.CloneTags(f.tags[userID])
}

// SeedTags replaces a user's stored tags without notifying anyone
func (f *Fake) SeedTags(userID string, tags []model.Tag) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[userID] = model.CloneTags(tags)
}

// SeedTasks replaces a user's stored tasks without notifying anyone
func (f *Fake) SeedTasks(userID string, tasks []model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[userID] = model.CloneTasks(tasks)
}

// Subscriptions returns the number of live task and tag subscriptions
func (f *Fake) Subscriptions() (tasks, tags int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.taskSubs), len(f.tagSubs)
}

// EmitTasks delivers the stored task list to the user's subscribers
func (f *Fake) EmitTasks(userID string) {
	f.EmitTaskSnapshot(userID, f.Tasks(userID))
}

// EmitTaskSnapshot delivers an arbitrary (possibly stale) task list
func (f *Fake) EmitTaskSnapshot(userID string, tasks []model.Task) {
	f.mu.Lock()
	var subs []taskSub
	for _, s := range f.taskSubs {
		if s.userID == userID {
			subs = append(subs, s)
		}
	}
	f.mu.Unlock()

	for _, s := range subs {
		s.onUpdate(model.CloneTasks(tasks))
	}
}

// EmitTags delivers the stored tag list to the user's subscribers
func (f *Fake) EmitTags(userID string) {
	tags := f.Tags(userID)
	f.mu.Lock()
	var subs []tagSub
	for _, s := range f.tagSubs {
		if s.userID == userID {
			subs = append(subs, s)
		}
	}
	f.mu.Unlock()

	for _, s := range subs {
		s.onUpdate(model.CloneTags(tags))
	}
}

// FailSubscriptions reports err to every subscriber of the user
func (f *Fake) FailSubscriptions(userID string, err error) {
	f.mu.Lock()
	var fns []func(error)
	for _, s := range f.taskSubs {
		if s.userID == userID && s.onError != nil {
			fns = append(fns, s.onError)
		}
	}
	for _, s := range f.tagSubs {
		if s.userID == userID && s.onError != nil {
			fns = append(fns, s.onError)
		}
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(err)
	}
}

func (f *Fake) afterWrite(userID string) {
	if f.AutoEmit {
		f.EmitTasks(userID)
		f.EmitTags(userID)
	}
}

// IsReady implements remote.Store.
func (f *Fake) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// OnAuthStateChanged implements remote.Store.
func (f *Fake) OnAuthStateChanged(fn func(*remote.User)) func() {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.authListeners[id] = fn
	current := f.current
	f.mu.Unlock()

	fn(current)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.authListeners, id)
	}
}

// SignIn implements remote.Store.
func (f *Fake) SignIn(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.record("SignIn %s", email)
	if f.SignInErr != nil {
		f.mu.Unlock()
		return f.SignInErr
	}
	acct, ok := f.accounts[strings.ToLower(email)]
	if !ok || acct.password != password {
		f.mu.Unlock()
		return ErrInvalidCredentials
	}
	f.mu.Unlock()

	u := acct.user
	f.SetCurrentUser(&u)
	return nil
}

// SignUp implements remote.Store.
func (f *Fake) SignUp(ctx context.Context, email, password string) error {
	f.mu.Lock()
	f.record("SignUp %s", email)
	if f.SignUpErr != nil {
		f.mu.Unlock()
		return f.SignUpErr
	}
	if _, exists := f.accounts[strings.ToLower(email)]; exists {
		f.mu.Unlock()
		return errors.New("email already in use")
	}
	u := f.addUserLocked(email, password)
	f.mu.Unlock()

	f.SetCurrentUser(&u)
	return nil
}

// SignOut implements remote.Store.
func (f *Fake) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.record("SignOut")
	if f.SignOutErr != nil {
		f.mu.Unlock()
		return f.SignOutErr
	}
	f.mu.Unlock()

	f.SetCurrentUser(nil)
	return nil
}

// SaveTask implements remote.Store.
func (f *Fake) SaveTask(ctx context.Context, userID string, task model.Task) error {
	f.mu.Lock()
	f.record("SaveTask %s %s", userID, task.ID)
	if f.SaveTaskErr != nil {
		f.mu.Unlock()
		return f.SaveTaskErr
	}
	f.tasks[userID] = upsertTask(f.tasks[userID], task, true)
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// DeleteTask implements remote.Store.
func (f *Fake) DeleteTask(ctx context.Context, userID, taskID string) error {
	f.mu.Lock()
	f.record("DeleteTask %s %s", userID, taskID)
	if f.DeleteTaskErr != nil {
		f.mu.Unlock()
		return f.DeleteTaskErr
	}
	var kept []model.Task
	for _, t := range f.tasks[userID] {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	f.tasks[userID] = kept
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// UpsertTasks implements remote.Store.
func (f *Fake) UpsertTasks(ctx context.Context, userID string, tasks []model.Task) error {
	f.mu.Lock()
	f.record("UpsertTasks %s %d", userID, len(tasks))
	if f.UpsertTasksErr != nil {
		f.mu.Unlock()
		return f.UpsertTasksErr
	}
	for _, t := range tasks {
		f.tasks[userID] = upsertTask(f.tasks[userID], t, false)
	}
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// ClearTasks implements remote.Store.
func (f *Fake) ClearTasks(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.record("ClearTasks %s", userID)
	if f.ClearTasksErr != nil {
		f.mu.Unlock()
		return f.ClearTasksErr
	}
	f.tasks[userID] = nil
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// SaveTag implements remote.Store.
func (f *Fake) SaveTag(ctx context.Context, userID string, tag model.Tag) error {
	f.mu.Lock()
	f.record("SaveTag %s %s", userID, tag.ID)
	if f.SaveTagErr != nil {
		f.mu.Unlock()
		return f.SaveTagErr
	}
	f.tags[userID] = upsertTag(f.tags[userID], tag)
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// DeleteTag implements remote.Store.
func (f *Fake) DeleteTag(ctx context.Context, userID, tagID string) error {
	f.mu.Lock()
	f.record("DeleteTag %s %s", userID, tagID)
	if f.DeleteTagErr != nil {
		f.mu.Unlock()
		return f.DeleteTagErr
	}
	var kept []model.Tag
	for _, t := range f.tags[userID] {
		if t.ID != tagID {
			kept = append(kept, t)
		}
	}
	f.tags[userID] = kept
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// ListTags implements remote.Store.
func (f *Fake) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTags %s", userID)
	if f.ListTagsErr != nil {
		return nil, f.ListTagsErr
	}
	return model.CloneTags(f.tags[userID]), nil
}

// UpsertTags implements remote.Store.
func (f *Fake) UpsertTags(ctx context.Context, userID string, tags []model.Tag) error {
	f.mu.Lock()
	f.record("UpsertTags %s %d", userID, len(tags))
	if f.UpsertTagsErr != nil {
		f.mu.Unlock()
		return f.UpsertTagsErr
	}
	for _, t := range tags {
		f.tags[userID] = upsertTag(f.tags[userID], t)
	}
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// ClearTags implements remote.Store.
func (f *Fake) ClearTags(ctx context.Context, userID string) error {
	f.mu.Lock()
	f.record("ClearTags %s", userID)
	if f.ClearTagsErr != nil {
		f.mu.Unlock()
		return f.ClearTagsErr
	}
	f.tags[userID] = nil
	f.mu.Unlock()

	f.afterWrite(userID)
	return nil
}

// SubscribeToTasks implements remote.Store.
func (f *Fake) SubscribeToTasks(userID string, onUpdate func([]model.Task), onError func(error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.taskSubs[id] = taskSub{userID: userID, onUpdate: onUpdate, onError: onError}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.taskSubs, id)
		})
	}
}

// SubscribeToTags implements remote.Store.
func (f *Fake) SubscribeToTags(userID string, onUpdate func([]model.Tag), onError func(error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	f.tagSubs[id] = tagSub{userID: userID, onUpdate: onUpdate, onError: onError}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.tagSubs, id)
		})
	}
}

// upsertTask replaces a task by id; new tasks go first when prepend is set
func upsertTask(list []model.Task, task model.Task, prepend bool) []model.Task {
	task = task.Clone()
	for i := range list {
		if list[i].ID == task.ID {
			list[i] = task
			return list
		}
	}
	if prepend {
		return append([]model.Task{task}, list...)
	}
	return append(list, task)
}

func upsertTag(list []model.Tag, tag model.Tag) []model.Tag {
	for i := range list {
		if list[i].ID == tag.ID {
			list[i] = tag
			return list
		}
	}
	return append(list, tag)
}
