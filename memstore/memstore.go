// Package memstore provides a notification store that keeps everything in memory. It's used for local development and
// tests; nothing survives a restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is an in-memory notification store. All methods are safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	notifications map[string]*model.Notification
	now           func() time.Time
}

// New returns a new, empty in-memory notification store.
func New() *Store {
	return &Store{
		notifications: make(map[string]*model.Notification),
		now:           time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Create saves a new notification, assigning a random ID and the current time.
func (s *Store) Create(_ context.Context, userID, message string, channel model.Channel) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification := &model.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      channel,
		Read:      false,
		CreatedAt: s.now(),
	}
	s.notifications[notification.ID] = notification

	result := *notification
	return &result, nil
}

// FindByID looks up a single notification.
func (s *Store) FindByID(_ context.Context, id string) (*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[id]
	if !ok {
		return nil, errors.Wrap(model.ErrNotFound, fmt.Sprintf("unable to look up notification `%s`", id))
	}

	result := *notification
	return &result, nil
}

// FindByUser lists all of the notifications for a user, most recent first.
func (s *Store) FindByUser(_ context.Context, userID string) ([]model.Notification, error) {
	s.mu.RLock()
	notifications := make([]model.Notification, 0)
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			notifications = append(notifications, *notification)
		}
	}
	s.mu.RUnlock()

	sort.Slice(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return notifications, nil
}

// Update applies a mutation to a single notification and returns the updated notification.
func (s *Store) Update(_ context.Context, id string, mutation model.Mutation) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[id]
	if !ok {
		return nil, errors.Wrap(model.ErrNotFound, fmt.Sprintf("unable to update notification `%s`", id))
	}
	if mutation.Message != nil {
		notification.Message = *mutation.Message
	}
	if mutation.MarkRead {
		notification.Read = true
	}

	result := *notification
	return &result, nil
}

// MarkAllRead marks every unread notification for a user as read. The write lock is held for the entire pass, so
// concurrent readers see either none or all of the changes.
func (s *Store) MarkAllRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, notification := range s.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			count++
		}
	}

	return count, nil
}

// Delete permanently removes a notification.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return errors.Wrap(model.ErrNotFound, fmt.Sprintf("unable to delete notification `%s`", id))
	}
	delete(s.notifications, id)

	return nil
}
