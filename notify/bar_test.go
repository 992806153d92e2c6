package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftui/event"
	"draftui/view"
)

func TestNotifyReplacesByIdentifier(t *testing.T) {
	loop := view.NewLoop(context.Background())
	bar := NewBar(loop)

	bar.Notify(Notification{Identifier: "save-draft-0-eng-GB", Text: "Saving the draft", State: StateStarted})
	bar.Notify(Notification{Identifier: "other", Text: "Other", State: StateStarted})
	bar.Notify(Notification{Identifier: "save-draft-0-eng-GB", Text: "The draft was stored successfully", State: StateDone, Timeout: 5})

	got := bar.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, StateDone, got[0].State)
	assert.Equal(t, "The draft was stored successfully", got[0].Text)
	assert.Equal(t, "other", got[1].Identifier)
}

func TestStickyNotificationSchedulesNothing(t *testing.T) {
	loop := view.NewLoop(context.Background())
	bar := NewBar(loop)

	bar.Notify(Notification{Identifier: "a", State: StateError, Timeout: 0})
	assert.Equal(t, 0, loop.Pending())

	bar.Notify(Notification{Identifier: "a", State: StateDone, Timeout: 5})
	assert.Equal(t, 1, loop.Pending())
}

func TestExpireIgnoresReplacedNotification(t *testing.T) {
	loop := view.NewLoop(context.Background())
	bar := NewBar(loop)

	bar.Notify(Notification{Identifier: "a", State: StateDone, Timeout: 5})
	stale := bar.entries[0].generation
	bar.Notify(Notification{Identifier: "a", State: StateStarted})

	bar.expire("a", stale)
	require.Len(t, bar.Notifications(), 1)
	assert.Equal(t, StateStarted, bar.Notifications()[0].State)

	bar.expire("a", bar.entries[0].generation)
	assert.Empty(t, bar.Notifications())
}

func TestListenCatchesBubbledNotifications(t *testing.T) {
	loop := view.NewLoop(context.Background())
	bar := NewBar(loop)

	app := event.NewTarget("app", nil)
	bar.Listen(app)
	service := event.NewTarget("contentEditViewService", nil)
	service.AddTarget(app)

	service.Fire(Event, &event.Facade{Payload: Notification{Identifier: "x", Text: "hello", State: StateStarted}})

	require.Len(t, bar.Notifications(), 1)
	assert.Equal(t, "hello", bar.Notifications()[0].Text)
}

func TestDismissAndView(t *testing.T) {
	loop := view.NewLoop(context.Background())
	bar := NewBar(loop)
	assert.Equal(t, "", bar.View(40))

	bar.Notify(Notification{Identifier: "a", Text: "first", State: StateStarted})
	bar.Notify(Notification{Identifier: "b", Text: "second", State: StateError})
	assert.Contains(t, bar.View(40), "first")
	assert.Contains(t, bar.View(40), "second")

	bar.Dismiss("a")
	require.Len(t, bar.Notifications(), 1)
	bar.DismissAll()
	assert.Empty(t, bar.Notifications())
}
