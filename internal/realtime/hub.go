// Package realtime pushes session updates to websocket subscribers.
package realtime

import (
	"sync"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Subscription receives the updates of one session until cancelled.
type Subscription struct {
	C <-chan application.SessionUpdate

	hub       *Hub
	sessionID uuid.UUID
	ch        chan application.SessionUpdate
	once      sync.Once
}

// Cancel stops delivery and closes C. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans session updates out to subscribers. A subscriber whose buffer is full
// misses the update instead of blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[*Subscription]struct{}
	logger      *zap.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*Subscription]struct{}),
		logger:      logger,
	}
}

// Subscribe registers for updates of one session.
func (h *Hub) Subscribe(sessionID uuid.UUID) *Subscription {
	ch := make(chan application.SessionUpdate, subscriberBuffer)
	sub := &Subscription{C: ch, hub: h, sessionID: sessionID, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[sessionID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.subscribers[sessionID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Notify implements application.Notifier.
func (h *Hub) Notify(update application.SessionUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[update.SessionID] {
		select {
		case sub.ch <- update:
		default:
			h.logger.Warn("dropping session update for slow subscriber",
				zap.String("session_id", update.SessionID.String()),
				zap.String("reason", update.Reason),
			)
		}
	}
}

// Subscribers returns the number of live subscriptions for a session.
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[sub.sessionID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, sub.sessionID)
		}
	}
	close(sub.ch)
}
