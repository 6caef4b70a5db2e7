package handlers

import (
	"context"
	"testing"

	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/cyverse-de/notification-dispatcher/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHandlers returns a dispatcher and lifecycle handler that share a mock store.
func newTestHandlers() (*Dispatcher, *Lifecycle, *MockStore, *MockPublisher) {
	store := NewMockStore()
	publisher := NewMockPublisher()
	log, _ := newTestLog()
	return NewDispatcher(store, publisher, log), NewLifecycle(store, log), store, publisher
}

func TestNotificationLifecycle(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, _, publisher := newTestHandlers()

	// Create the notification.
	created, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
	require.NoError(t, err)
	assert.Equal("u1", created.UserID)
	assert.False(created.Read)

	// The user's notifications should include exactly that notification.
	notifications, err := lifecycle.Fetch(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(notifications, 1) {
		assert.Equal(created.ID, notifications[0].ID)
	}

	// Mark everything as read.
	result, err := lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(int64(1), result.Count)
	assert.Nil(result.Notification)

	notifications, err = lifecycle.Fetch(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(notifications, 1) {
		assert.True(notifications[0].Read)
	}

	// Delete the notification.
	err = lifecycle.Delete(ctx, model.DeleteInput{NotificationID: created.ID})
	require.NoError(t, err)

	_, err = lifecycle.FetchOne(ctx, "u1", created.ID)
	_, ok := err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError after deletion")

	_, err = lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: "u1", NotificationID: created.ID})
	_, ok = err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError after deletion")

	// Deletion is never published.
	assert.Len(publisher.Published, 1)
}

func TestFetch(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	_, lifecycle, store, _ := newTestHandlers()

	// An empty user ID is a validation failure and never reaches the store.
	_, err := lifecycle.Fetch(ctx, "")
	_, ok := err.(ValidationError)
	assert.True(ok, "expected a ValidationError")
	assert.Empty(store.Calls)

	// A user with no notifications is a success with an empty list.
	notifications, err := lifecycle.Fetch(ctx, "nobody")
	assert.NoError(err)
	assert.NotNil(notifications)
	assert.Empty(notifications)

	// Store failures are reported as such.
	store.Fail = true
	_, err = lifecycle.Fetch(ctx, "u1")
	_, ok = err.(StoreFailure)
	assert.True(ok, "expected a StoreFailure")
}

func TestUserIDIsTrimmed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, _, _ := newTestHandlers()

	in := getCreateInput()
	in.UserID = " u1 "
	created, err := dispatcher.CreateAndDispatch(ctx, in)
	require.NoError(t, err)
	assert.Equal("u1", created.UserID)

	// Every operation should resolve the padded user ID to the same notifications.
	notifications, err := lifecycle.Fetch(ctx, " u1 ")
	require.NoError(t, err)
	if assert.Len(notifications, 1) {
		assert.Equal(created.ID, notifications[0].ID)
	}

	found, err := lifecycle.FetchOne(ctx, "\tu1 ", " "+created.ID+" ")
	require.NoError(t, err)
	assert.Equal(created.ID, found.ID)

	result, err := lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: " u1 "})
	require.NoError(t, err)
	assert.Equal(int64(1), result.Count)
}

func TestFetchOne(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, store, _ := newTestHandlers()

	created, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
	require.NoError(t, err)

	found, err := lifecycle.FetchOne(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(*created, *found)

	// Another user's notification isn't visible.
	_, err = lifecycle.FetchOne(ctx, "u2", created.ID)
	_, ok := err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError for another user")

	_, err = lifecycle.FetchOne(ctx, "u1", "missing")
	_, ok = err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError")

	// Both IDs are required, and every problem is reported.
	store.Calls = nil
	_, err = lifecycle.FetchOne(ctx, " ", "")
	if verr, ok := err.(ValidationError); assert.True(ok, "expected a ValidationError") {
		assert.Equal([]string{validation.MsgUserIDRequired, validation.MsgNotificationIDRequired}, verr.Messages())
	}
	assert.Empty(store.Calls)

	store.Fail = true
	_, err = lifecycle.FetchOne(ctx, "u1", created.ID)
	_, ok = err.(StoreFailure)
	assert.True(ok, "expected a StoreFailure")
}

func TestMarkOneRead(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, _, _ := newTestHandlers()

	created, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
	require.NoError(t, err)
	other, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
	require.NoError(t, err)

	in := model.MarkReadInput{UserID: "u1", NotificationID: created.ID}
	result, err := lifecycle.MarkRead(ctx, in)
	require.NoError(t, err)
	if assert.NotNil(result.Notification) {
		assert.True(result.Notification.Read)
		assert.Equal(created.ID, result.Notification.ID)
	}

	// Marking the same notification again is not an error.
	result, err = lifecycle.MarkRead(ctx, in)
	require.NoError(t, err)
	assert.True(result.Notification.Read)

	// Only the requested notification was marked.
	notifications, err := lifecycle.Fetch(ctx, "u1")
	require.NoError(t, err)
	for _, n := range notifications {
		assert.Equal(n.ID != other.ID, n.Read, "unexpected read state for %s", n.ID)
	}
}

func TestMarkReadErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	_, lifecycle, store, _ := newTestHandlers()

	_, err := lifecycle.MarkRead(ctx, model.MarkReadInput{NotificationID: "abc"})
	_, ok := err.(ValidationError)
	assert.True(ok, "expected a ValidationError")

	_, err = lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: "u1", NotificationID: "missing"})
	_, ok = err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError")

	store.Fail = true
	_, err = lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: "u1"})
	_, ok = err.(StoreFailure)
	assert.True(ok, "expected a StoreFailure")
}

func TestMarkAllReadCount(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, _, _ := newTestHandlers()

	const unread = 5
	for i := 0; i < unread; i++ {
		_, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
		require.NoError(t, err)
	}

	result, err := lifecycle.MarkRead(ctx, model.MarkReadInput{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(int64(unread), result.Count)

	notifications, err := lifecycle.Fetch(ctx, "u1")
	require.NoError(t, err)
	for _, n := range notifications {
		assert.True(n.Read)
	}
}

func TestEditMessage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dispatcher, lifecycle, _, _ := newTestHandlers()

	created, err := dispatcher.CreateAndDispatch(ctx, getCreateInput())
	require.NoError(t, err)

	edited, err := lifecycle.EditMessage(ctx, model.EditInput{NotificationID: created.ID, NewMessage: "updated"})
	require.NoError(t, err)

	// Only the message may change.
	assert.Equal("updated", edited.Message)
	assert.Equal(created.ID, edited.ID)
	assert.Equal(created.UserID, edited.UserID)
	assert.Equal(created.Type, edited.Type)
	assert.Equal(created.Read, edited.Read)
	assert.True(created.CreatedAt.Equal(edited.CreatedAt))
}

func TestEditMessageErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	_, lifecycle, store, _ := newTestHandlers()

	_, err := lifecycle.EditMessage(ctx, model.EditInput{NotificationID: "abc", NewMessage: "  "})
	_, ok := err.(ValidationError)
	assert.True(ok, "expected a ValidationError")
	assert.Empty(store.Calls)

	_, err = lifecycle.EditMessage(ctx, model.EditInput{NotificationID: "missing", NewMessage: "updated"})
	_, ok = err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError")
}

func TestDeleteErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	_, lifecycle, store, _ := newTestHandlers()

	err := lifecycle.Delete(ctx, model.DeleteInput{})
	_, ok := err.(ValidationError)
	assert.True(ok, "expected a ValidationError")

	// Deleting something that doesn't exist is not a silent success.
	err = lifecycle.Delete(ctx, model.DeleteInput{NotificationID: "missing"})
	_, ok = err.(NotFoundError)
	assert.True(ok, "expected a NotFoundError")

	store.Fail = true
	err = lifecycle.Delete(ctx, model.DeleteInput{NotificationID: "anything"})
	_, ok = err.(StoreFailure)
	assert.True(ok, "expected a StoreFailure")
}
