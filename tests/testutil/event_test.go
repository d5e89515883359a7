package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/domain/shared"
)

func balanceEvent() shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent("CustomerBalanceChanged", "Customer", uuid.New())
}

func TestMockEventHandler_Records(t *testing.T) {
	h := NewMockEventHandler("CustomerBalanceChanged")
	assert.Equal(t, []string{"CustomerBalanceChanged"}, h.EventTypes())

	first, second := balanceEvent(), balanceEvent()
	require.NoError(t, h.Handle(context.Background(), &first))
	require.NoError(t, h.Handle(context.Background(), &second))

	handled := h.Handled()
	require.Len(t, handled, 2)
	assert.Equal(t, first.EventID(), handled[0].EventID())
	assert.Equal(t, 2, h.HandledCount())
}

func TestMockEventHandler_SetError(t *testing.T) {
	h := NewMockEventHandler()
	h.SetError(errors.New("metrics backend down"))

	e := balanceEvent()
	assert.EqualError(t, h.Handle(context.Background(), &e), "metrics backend down")
	assert.Equal(t, 1, h.HandledCount(), "failed deliveries are still recorded")

	h.SetError(nil)
	assert.NoError(t, h.Handle(context.Background(), &e))
}

func TestWaitForEventCount(t *testing.T) {
	h := NewMockEventHandler()
	go func() {
		time.Sleep(20 * time.Millisecond)
		e := balanceEvent()
		_ = h.Handle(context.Background(), &e)
	}()

	WaitForEventCount(t, h, 1, time.Second)
}
