package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tamarind/backend/internal/domain/shared"
)

// MockEventHandler records every event delivered to it. It stands in for
// the balance handler on the event bus and the outbox relay.
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewMockEventHandler subscribes to eventTypes, or to every type when none
// are given.
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event and returns the error set with SetError
func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the delivered events in delivery order
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError makes later deliveries fail with err; nil restores success
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForEventCount fails the test unless handler has seen at least count
// events within timeout.
func WaitForEventCount(t *testing.T, handler *MockEventHandler, count int, timeout time.Duration) {
	t.Helper()

	assert.Eventually(t, func() bool {
		return handler.HandledCount() >= count
	}, timeout, 10*time.Millisecond, "expected %d delivered events", count)
}
