package session

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository defines the persistence contract for session selection state.
type SessionRepository interface {
	// FindByID retrieves a session by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Save persists a new session.
	Save(ctx context.Context, session *Session) error

	// Update persists changes to an existing session with optimistic locking.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAll retrieves sessions newest first with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Session, int64, error)

	// CountByTravelMode returns session counts grouped by selected travel mode.
	CountByTravelMode(ctx context.Context) (map[string]int64, error)
}
