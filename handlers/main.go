package handlers

import (
	"context"

	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/pkg/errors"
)

// Store describes the notification store operations used by the handlers. Implementations must make each operation
// atomic for a single notification, and MarkAllRead must be atomic as a whole. Lookups of notifications that don't
// exist must return model.ErrNotFound, optionally wrapped.
type Store interface {
	Create(ctx context.Context, userID, message string, channel model.Channel) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]model.Notification, error)
	Update(ctx context.Context, id string, mutation model.Mutation) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// Publisher describes the interface used to hand dispatch messages to the message broker. A nil error only means that
// the broker accepted the message, not that it was delivered.
type Publisher interface {
	Publish(ctx context.Context, msg *model.DispatchMessage) error
}

// isNotFound returns true if an error returned by the store indicates that a notification doesn't exist.
func isNotFound(err error) bool {
	return errors.Cause(err) == model.ErrNotFound
}

// storeError converts an error returned by the store into the error reported to callers.
func storeError(err error, id string) error {
	if isNotFound(err) {
		return NewNotFoundError("notification `%s` not found", id)
	}
	return NewStoreFailure("notification store failure: %s", err.Error())
}
