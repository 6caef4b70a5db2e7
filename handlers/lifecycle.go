package handlers

import (
	"context"

	"github.com/cyverse-de/notification-dispatcher/metrics"
	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/cyverse-de/notification-dispatcher/validation"
	"github.com/sirupsen/logrus"
)

// Lifecycle operation names used in logs and metrics.
const (
	OpFetch    = "fetch"
	OpFetchOne = "fetch_one"
	OpMarkRead = "mark_read"
	OpEdit     = "edit"
	OpDelete   = "delete"
)

// MarkReadResult describes the outcome of a mark-read request. Notification is set when a single notification was
// marked; otherwise Count holds the number of notifications that were marked.
type MarkReadResult struct {
	Notification *model.Notification
	Count        int64
}

// Lifecycle handles requests that read or modify existing notifications.
type Lifecycle struct {
	store Store
	log   *logrus.Entry
}

// NewLifecycle returns a new notification lifecycle handler.
func NewLifecycle(store Store, log *logrus.Entry) *Lifecycle {
	return &Lifecycle{store: store, log: log}
}

// record counts the outcome of an operation and logs unexpected failures.
func (l *Lifecycle) record(operation string, err error) {
	switch err.(type) {
	case nil:
		metrics.IncrementLifecycle(operation, metrics.OutcomeSucceeded)
	case ValidationError:
		metrics.IncrementLifecycle(operation, metrics.OutcomeValidationFailed)
	case NotFoundError:
		metrics.IncrementLifecycle(operation, metrics.OutcomeNotFound)
	default:
		metrics.IncrementLifecycle(operation, metrics.OutcomeStoreFailed)
		l.log.WithField("operation", operation).WithError(err).Error("notification store failure")
	}
}

// Fetch lists a user's notifications, most recent first. A user with no notifications gets an empty list.
func (l *Lifecycle) Fetch(ctx context.Context, userID string) (notifications []model.Notification, err error) {
	defer func() { l.record(OpFetch, err) }()

	userID, errs := validation.ValidateUserID(userID)
	if errs != nil {
		return nil, NewValidationError(errs)
	}

	notifications, err = l.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, NewStoreFailure("unable to list notifications: %s", err.Error())
	}

	return notifications, nil
}

// FetchOne looks up a single notification belonging to a user. A notification that belongs to someone else is
// reported as not found.
func (l *Lifecycle) FetchOne(ctx context.Context, userID, notificationID string) (notification *model.Notification, err error) {
	defer func() { l.record(OpFetchOne, err) }()

	userID, errs := validation.ValidateUserID(userID)
	if id, idErrs := validation.ValidateNotificationID(notificationID); idErrs != nil {
		errs = append(errs, idErrs...)
	} else {
		notificationID = id
	}
	if errs != nil {
		return nil, NewValidationError(errs)
	}

	notification, err = l.store.FindByID(ctx, notificationID)
	if err != nil {
		return nil, storeError(err, notificationID)
	}
	if notification.UserID != userID {
		return nil, NewNotFoundError("notification `%s` not found", notificationID)
	}

	return notification, nil
}

// MarkRead marks a single notification as read when a notification ID is given, or every unread notification for the
// user otherwise. Marking a notification that has already been read succeeds.
func (l *Lifecycle) MarkRead(ctx context.Context, in model.MarkReadInput) (result *MarkReadResult, err error) {
	defer func() { l.record(OpMarkRead, err) }()

	req, errs := validation.ValidateMarkRead(in)
	if errs != nil {
		return nil, NewValidationError(errs)
	}

	// Mark every unread notification for the user. The store makes this atomic.
	if req.All() {
		count, markErr := l.store.MarkAllRead(ctx, req.UserID)
		if markErr != nil {
			return nil, NewStoreFailure("unable to mark notifications as read: %s", markErr.Error())
		}
		return &MarkReadResult{Count: count}, nil
	}

	notification, err := l.store.Update(ctx, req.NotificationID, model.Mutation{MarkRead: true})
	if err != nil {
		return nil, storeError(err, req.NotificationID)
	}
	return &MarkReadResult{Notification: notification, Count: 1}, nil
}

// EditMessage replaces the message text of a notification. Nothing else about the notification changes.
func (l *Lifecycle) EditMessage(ctx context.Context, in model.EditInput) (notification *model.Notification, err error) {
	defer func() { l.record(OpEdit, err) }()

	req, errs := validation.ValidateEdit(in)
	if errs != nil {
		return nil, NewValidationError(errs)
	}

	notification, err = l.store.Update(ctx, req.NotificationID, model.Mutation{Message: &req.NewMessage})
	if err != nil {
		return nil, storeError(err, req.NotificationID)
	}

	return notification, nil
}

// Delete permanently removes a notification. Nothing is published when a notification is deleted.
func (l *Lifecycle) Delete(ctx context.Context, in model.DeleteInput) (err error) {
	defer func() { l.record(OpDelete, err) }()

	req, errs := validation.ValidateDelete(in)
	if errs != nil {
		return NewValidationError(errs)
	}

	if err = l.store.Delete(ctx, req.NotificationID); err != nil {
		return storeError(err, req.NotificationID)
	}

	return nil
}
