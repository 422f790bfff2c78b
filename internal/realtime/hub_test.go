package realtime

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_DeliversOnlyToMatchingSession(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a, b := uuid.New(), uuid.New()

	subA := hub.Subscribe(a)
	defer subA.Cancel()
	subB := hub.Subscribe(b)
	defer subB.Cancel()

	hub.Notify(application.SessionUpdate{SessionID: a, Reason: application.ReasonOutcome})

	select {
	case got := <-subA.C:
		assert.Equal(t, application.ReasonOutcome, got.Reason)
	default:
		t.Fatal("expected update for session a")
	}
	assert.Empty(t, subB.C)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	id := uuid.New()
	sub := hub.Subscribe(id)
	defer sub.Cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Notify(application.SessionUpdate{SessionID: id})
	}
	assert.Len(t, sub.C, subscriberBuffer)
}

func TestSubscription_CancelClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	id := uuid.New()
	sub := hub.Subscribe(id)
	require.Equal(t, 1, hub.Subscribers(id))

	sub.Cancel()
	sub.Cancel()

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers(id))
}
