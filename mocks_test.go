package board_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-board"
	"github.com/stretchr/testify/mock"
)

// MockUserFinder implements board.UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindUserByHandle(ctx context.Context, handle string) (*board.User, error) {
	args := m.Called(ctx, handle)
	user, _ := args.Get(0).(*board.User)
	return user, args.Error(1)
}

// MockLogger implements board.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.Called(msg, args)
}

// nopLogger drops everything
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// recordingSink keeps every activity event
type recordingSink struct {
	mu     sync.Mutex
	events []board.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event board.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Types() []board.ActivityEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]board.ActivityEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}
