package syncer

// PushOp identifies a remote write for result reporting
type PushOp int

const (
	PushSaveTask PushOp = iota
	PushDeleteTask
	PushReorder
	PushSaveTag
	PushDeleteTag
	PushClear
	PushSyncNow
)

func (op PushOp) String() string {
	switch op {
	case PushSaveTask:
		return "save task"
	case PushDeleteTask:
		return "delete task"
	case PushReorder:
		return "reorder"
	case PushSaveTag:
		return "save tag"
	case PushDeleteTag:
		return "delete tag"
	case PushClear:
		return "clear"
	case PushSyncNow:
		return "sync now"
	default:
		return "push"
	}
}

// successText is empty for pushes that succeed quietly
func (op PushOp) successText() string {
	switch op {
	case PushClear:
		return "Cleared cloud tasks"
	case PushSyncNow:
		return "Sync complete."
	}
	return ""
}

func (op PushOp) failureText() string {
	switch op {
	case PushSaveTask:
		return "Unable to sync task right now."
	case PushDeleteTask:
		return "Unable to delete task in cloud."
	case PushReorder:
		return "Unable to sync task order."
	case PushSaveTag:
		return "Unable to sync tag right now."
	case PushDeleteTag:
		return "Unable to delete tag in cloud."
	case PushClear:
		return "Unable to clear remote tasks"
	case PushSyncNow:
		return "Unable to sync right now."
	}
	return "Unable to sync right now."
}

// AuthOp identifies an account action
type AuthOp int

const (
	AuthSignIn AuthOp = iota
	AuthSignUp
	AuthSignOut
)

func (op AuthOp) successText() string {
	switch op {
	case AuthSignIn:
		return "Signed in. Syncing tasks…"
	case AuthSignUp:
		return "Account created. Signed in."
	default:
		return "Signed out. Back to guest mode."
	}
}

func (op AuthOp) failureText(err error) string {
	if op == AuthSignOut {
		return "Unable to sign out right now."
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	if op == AuthSignUp {
		return "Account creation failed"
	}
	return "Sign in failed"
}
