package handlers

import (
	"context"

	"github.com/cyverse-de/notification-dispatcher/common"
	"github.com/cyverse-de/notification-dispatcher/metrics"
	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/cyverse-de/notification-dispatcher/validation"
	"github.com/sirupsen/logrus"
)

// Dispatcher stores new notifications and hands them to the message broker for delivery.
type Dispatcher struct {
	store     Store
	publisher Publisher
	log       *logrus.Entry
}

// NewDispatcher returns a new notification dispatcher.
func NewDispatcher(store Store, publisher Publisher, log *logrus.Entry) *Dispatcher {
	return &Dispatcher{store: store, publisher: publisher, log: log}
}

// CreateAndDispatch validates a request, stores the notification and publishes it.
//
// The notification store is the durability boundary. Once the notification has been stored, a failure to publish it
// is logged and counted but not reported to the caller: the stored notification is neither removed nor republished.
// Callers must treat delivery on the channel as unconfirmed.
func (d *Dispatcher) CreateAndDispatch(ctx context.Context, in model.CreateInput) (*model.Notification, error) {

	// Validate the request.
	req, errs := validation.ValidateCreate(in)
	if errs != nil {
		metrics.IncrementDispatch("", metrics.OutcomeValidationFailed)
		return nil, NewValidationError(errs)
	}
	log := d.log.WithFields(logrus.Fields{"userId": req.UserID, "type": req.Type})

	// Store the notification. Nothing is published if this fails.
	notification, err := d.store.Create(ctx, req.UserID, req.Message, req.Type)
	if err != nil {
		log.WithError(err).Error("unable to store notification")
		metrics.IncrementDispatch(string(req.Type), metrics.OutcomeStoreFailed)
		return nil, NewStoreFailure("unable to store notification: %s", err.Error())
	}
	log = log.WithField("notificationId", notification.ID)
	metrics.IncrementDispatch(string(req.Type), metrics.OutcomeCreated)

	// Hand the notification to the broker. There is only ever one attempt.
	msg := &model.DispatchMessage{
		NotificationID: notification.ID,
		UserID:         req.UserID,
		Message:        req.Message,
		Type:           req.Type,
		Email:          req.Email,
		Phone:          req.Phone,
		Timestamp:      common.FormatTimestamp(notification.CreatedAt),
	}
	if err = d.publisher.Publish(ctx, msg); err != nil {
		publishErr := NewPublishFailure("unable to publish notification: %s", err.Error())
		log.WithError(publishErr).Warn("notification was stored but not published")
		metrics.IncrementPublishFailure(string(req.Type))
	} else {
		log.Debug("notification dispatched")
	}

	return notification, nil
}
