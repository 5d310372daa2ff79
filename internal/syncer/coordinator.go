// Package syncer keeps the local store and a remote store in step. The
// Coordinator is a reducer driven by the UI's event loop: remote calls run
// as tea.Cmds and remote callbacks come back in as messages.
package syncer

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/remote"
	"github.com/dori/duotask/internal/store"
)

// DefaultPushTimeout bounds each remote call
const DefaultPushTimeout = 10 * time.Second

// Phase is the coordinator's session state
type Phase int

const (
	Guest Phase = iota
	Authenticating
	Synced
)

func (p Phase) String() string {
	switch p {
	case Authenticating:
		return "authenticating"
	case Synced:
		return "synced"
	default:
		return "guest"
	}
}

// Sender delivers messages into the event loop. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Coordinator mediates between the local store and the remote store
type Coordinator struct {
	store       *store.Store
	remote      remote.Store
	sender      Sender
	logger      *log.Logger
	pushTimeout time.Duration

	phase     Phase
	user      *remote.User
	signingIn bool

	// session increments on every sign-in and sign-out; snapshots carry it
	session uint64
	live    *atomic.Bool

	unsubAuth  func()
	unsubTasks func()
	unsubTags  func()

	guestTasks []model.Task
	guestTags  []model.Tag

	mu     sync.Mutex
	inline bool
	queue  []tea.Msg
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPushTimeout bounds each remote call
func WithPushTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.pushTimeout = d
		}
	}
}

// WithSender sets where remote callbacks are delivered
func WithSender(s Sender) Option {
	return func(c *Coordinator) { c.sender = s }
}

// New creates a coordinator in the guest phase. Whatever the store holds
// now is buffered for upload on the first sign-in.
func New(st *store.Store, r remote.Store, opts ...Option) *Coordinator {
	if r == nil {
		r = remote.Unconfigured{}
	}
	c := &Coordinator{
		store:       st,
		remote:      r,
		logger:      log.New(io.Discard, "", 0),
		pushTimeout: DefaultPushTimeout,
		live:        &atomic.Bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.seedGuestBuffers()
	return c
}

// SetSender sets the message sink; used when the program is built after
// the coordinator
func (c *Coordinator) SetSender(s Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sender = s
}

// Start hooks into the remote session. Call once from the model's Init.
func (c *Coordinator) Start() tea.Cmd {
	if !c.remote.IsReady() {
		return notice("Remote sync not configured. Staying in guest mode.", false)
	}

	c.beginInline()
	c.unsubAuth = c.remote.OnAuthStateChanged(func(u *remote.User) {
		c.forward(AuthChangedMsg{User: copyUser(u)})
	})
	return c.endInline()
}

// Close detaches from the remote store
func (c *Coordinator) Close() {
	if c.unsubAuth != nil {
		c.unsubAuth()
		c.unsubAuth = nil
	}
	c.detach()
}

// Phase returns the session phase
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// User returns the signed-in user, or nil
func (c *Coordinator) User() *remote.User {
	return copyUser(c.user)
}

// SigningIn reports whether a sign-in or sign-up call is in flight
func (c *Coordinator) SigningIn() bool {
	return c.signingIn
}

// PendingGuest returns the sizes of the guest upload buffers
func (c *Coordinator) PendingGuest() (tasks, tags int) {
	return len(c.guestTasks), len(c.guestTags)
}

// CanSync reports whether sync-only actions are available
func (c *Coordinator) CanSync() bool {
	return c.phase == Synced && c.remote.IsReady()
}

// RemoteReady reports whether a remote backend is configured
func (c *Coordinator) RemoteReady() bool {
	return c.remote.IsReady()
}

// Update handles one message and returns follow-up work
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AddTaskMsg, ToggleTaskMsg, ToggleImportantMsg, SetTaskTagMsg, RenameTaskMsg,
		DeleteTaskMsg, MoveTaskMsg, AddTagMsg, DeleteTagMsg, SetPreferenceMsg, ResetMsg:
		return c.handleIntent(msg)

	case SyncNowMsg:
		return c.syncNow()
	case SignInMsg:
		return c.signIn(AuthSignIn, msg.Email, msg.Password)
	case SignUpMsg:
		return c.signIn(AuthSignUp, msg.Email, msg.Password)
	case SignOutMsg:
		return c.signOut()

	case AuthChangedMsg:
		return c.authChanged(msg.User)
	case TasksSnapshotMsg:
		if c.current(msg.Session) {
			c.store.ReplaceTasks(msg.Tasks)
		}
	case TagsSnapshotMsg:
		if c.current(msg.Session) {
			c.store.ReplaceTags(msg.Tags)
		}
	case SubscriptionErrorMsg:
		if c.current(msg.Session) {
			c.logger.Printf("syncer: realtime sync error: %v", msg.Err)
			return notice("Realtime sync failed.", true)
		}

	case PushResultMsg:
		return c.pushResult(msg)
	case GuestImportMsg:
		c.guestImported(msg)
	case AuthResultMsg:
		return c.authResult(msg)

	case queuedMsgs:
		cmds := make([]tea.Cmd, 0, len(msg))
		for _, m := range msg {
			cmds = append(cmds, c.Update(m))
		}
		return tea.Batch(cmds...)
	}
	return nil
}

// current reports whether a snapshot belongs to the live session
func (c *Coordinator) current(session uint64) bool {
	return session == c.session && c.phase == Synced
}

// forward hands a callback's message to the event loop. Callbacks that
// fire while Update is inside a remote call are queued instead, since the
// loop is busy running us.
func (c *Coordinator) forward(msg tea.Msg) {
	c.mu.Lock()
	if c.inline {
		c.queue = append(c.queue, msg)
		c.mu.Unlock()
		return
	}
	sender := c.sender
	c.mu.Unlock()

	if sender == nil {
		c.logger.Printf("syncer: dropped %T, no sender", msg)
		return
	}
	sender.Send(msg)
}

func (c *Coordinator) beginInline() {
	c.mu.Lock()
	c.inline = true
	c.mu.Unlock()
}

func (c *Coordinator) endInline() tea.Cmd {
	c.mu.Lock()
	c.inline = false
	queued := c.queue
	c.queue = nil
	c.mu.Unlock()

	if len(queued) == 0 {
		return nil
	}
	return func() tea.Msg { return queuedMsgs(queued) }
}

func (c *Coordinator) seedGuestBuffers() {
	st := c.store.State()
	c.guestTasks = model.CloneTasks(st.Tasks)
	c.guestTags = model.CloneTags(st.Tags)
}

func notice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Err: isErr} }
}

func copyUser(u *remote.User) *remote.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
