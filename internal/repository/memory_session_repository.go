package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/domain"
	"github.com/google/uuid"
)

// MemorySessionRepository keeps sessions in process memory. Used when the database is disabled.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*SessionModel
}

// NewMemorySessionRepository creates an empty MemorySessionRepository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[uuid.UUID]*SessionModel)}
}

// FindByID retrieves a session by its unique identifier.
func (r *MemorySessionRepository) FindByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	r.mu.RLock()
	model, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("Session", id.String())
	}
	return toDomainSession(model)
}

// Save persists a new session.
func (r *MemorySessionRepository) Save(_ context.Context, s *session.Session) error {
	model, err := toSessionModel(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[model.ID]; exists {
		return domain.NewConflictError("session already exists: " + model.ID.String())
	}
	r.sessions[model.ID] = model
	return nil
}

// Update persists changes with the same version check as the database repository.
func (r *MemorySessionRepository) Update(_ context.Context, s *session.Session) error {
	model, err := toSessionModel(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[model.ID]
	if !ok || current.Version != model.Version-1 {
		return domain.NewConflictError("session was modified by another request")
	}
	model.CreatedAt = current.CreatedAt
	r.sessions[model.ID] = model
	return nil
}

// Delete removes a session.
func (r *MemorySessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.NewNotFoundError("Session", id.String())
	}
	delete(r.sessions, id)
	return nil
}

// ListAll retrieves sessions newest first with pagination.
func (r *MemorySessionRepository) ListAll(_ context.Context, page, limit int) ([]*session.Session, int64, error) {
	r.mu.RLock()
	models := make([]*SessionModel, 0, len(r.sessions))
	for _, m := range r.sessions {
		models = append(models, m)
	}
	r.mu.RUnlock()

	sort.Slice(models, func(i, j int) bool { return models[i].CreatedAt.After(models[j].CreatedAt) })
	total := int64(len(models))

	offset := (page - 1) * limit
	if offset >= len(models) {
		return []*session.Session{}, total, nil
	}
	end := offset + limit
	if end > len(models) {
		end = len(models)
	}

	sessions := make([]*session.Session, 0, end-offset)
	for _, m := range models[offset:end] {
		s, err := toDomainSession(m)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, total, nil
}

// CountByTravelMode returns session counts grouped by selected travel mode.
func (r *MemorySessionRepository) CountByTravelMode(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, m := range r.sessions {
		counts[m.TravelMode]++
	}
	return counts, nil
}
