package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/cyverse-de/notification-dispatcher/logging"
	"github.com/cyverse-de/notification-dispatcher/memstore"
	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// errUnavailable is returned by the mock clients when they're told to fail.
var errUnavailable = errors.New("connection refused")

// MockStore records calls to an in-memory notification store and can be told to fail.
type MockStore struct {
	*memstore.Store
	mu    sync.Mutex
	Calls []string
	Fail  bool
}

// NewMockStore creates a new mock notification store for testing.
func NewMockStore() *MockStore {
	return &MockStore{Store: memstore.New()}
}

func (s *MockStore) called(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, name)
	if s.Fail {
		return errUnavailable
	}
	return nil
}

// Create records the fact that it was called.
func (s *MockStore) Create(ctx context.Context, userID, message string, channel model.Channel) (*model.Notification, error) {
	if err := s.called("Create"); err != nil {
		return nil, err
	}
	return s.Store.Create(ctx, userID, message, channel)
}

// FindByID records the fact that it was called.
func (s *MockStore) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	if err := s.called("FindByID"); err != nil {
		return nil, err
	}
	return s.Store.FindByID(ctx, id)
}

// FindByUser records the fact that it was called.
func (s *MockStore) FindByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	if err := s.called("FindByUser"); err != nil {
		return nil, err
	}
	return s.Store.FindByUser(ctx, userID)
}

// Update records the fact that it was called.
func (s *MockStore) Update(ctx context.Context, id string, mutation model.Mutation) (*model.Notification, error) {
	if err := s.called("Update"); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, mutation)
}

// MarkAllRead records the fact that it was called.
func (s *MockStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if err := s.called("MarkAllRead"); err != nil {
		return 0, err
	}
	return s.Store.MarkAllRead(ctx, userID)
}

// Delete records the fact that it was called.
func (s *MockStore) Delete(ctx context.Context, id string) error {
	if err := s.called("Delete"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// MockPublisher stores copies of published dispatch messages for later inspection.
type MockPublisher struct {
	mu        sync.Mutex
	Published []*model.DispatchMessage
	Attempts  int
	Fail      bool
}

// NewMockPublisher creates a new mock publisher for testing.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish simply stores a copy of the dispatch message unless the publisher has been told to fail.
func (p *MockPublisher) Publish(_ context.Context, msg *model.DispatchMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Attempts++
	if p.Fail {
		return errUnavailable
	}
	p.Published = append(p.Published, msg)
	return nil
}

// newTestLog returns a log entry whose output is captured by the returned hook.
func newTestLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger.WithField("service", logging.ServiceName), hook
}
