package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastReplacesAndExpires(t *testing.T) {
	toast := NewToast(time.Millisecond)
	assert.False(t, toast.Visible())

	first := toast.Show("Syncing…", false)
	second := toast.Show("Unable to sync right now.", true)

	assert.True(t, toast.Visible())
	assert.Equal(t, "Unable to sync right now.", toast.Text())
	assert.True(t, toast.IsErr())

	// The first message's timer must not hide the second
	msg, ok := first().(ExpireMsg)
	require.True(t, ok)
	assert.False(t, toast.Expire(msg))
	assert.True(t, toast.Visible())

	msg, ok = second().(ExpireMsg)
	require.True(t, ok)
	assert.True(t, toast.Expire(msg))
	assert.False(t, toast.Visible())
	assert.Empty(t, toast.Text())

	assert.False(t, toast.Expire(msg), "expiring twice is harmless")
}

func TestToastDefaultDuration(t *testing.T) {
	assert.Equal(t, DefaultDuration, NewToast(0).Duration())
	assert.Equal(t, 2600*time.Millisecond, DefaultDuration)
	assert.Equal(t, time.Second, NewToast(time.Second).Duration())
}

func TestNotifierArgs(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := NewNotifier(true)
	n.run = func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	require.NoError(t, n.Send(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 1500 * time.Millisecond,
		Icon:    "icon",
	}))

	assert.Equal(t, "notify-send", gotName)
	assert.Equal(t, []string{"-u", "critical", "-t", "1500", "-i", "icon", "-a", "duotask", "Title", "Body"}, gotArgs)
}

func TestSendNoticeOnlyMirrorsErrors(t *testing.T) {
	calls := 0
	n := NewNotifier(true)
	n.run = func(string, ...string) error {
		calls++
		return nil
	}

	require.NoError(t, n.SendNotice("Sync complete.", false))
	assert.Zero(t, calls)

	require.NoError(t, n.SendNotice("Unable to sync right now.", true))
	assert.Equal(t, 1, calls)

	n.SetEnabled(false)
	require.NoError(t, n.SendNotice("Unable to sync right now.", true))
	assert.Equal(t, 1, calls)
	assert.False(t, n.IsEnabled())
}
