package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionModel is the GORM model for the route_sessions table.
type SessionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Origin      json.RawMessage `gorm:"type:jsonb;not null"`
	Destination json.RawMessage `gorm:"type:jsonb;not null"`
	TravelMode  string          `gorm:"not null;size:20"`
	MapType     string          `gorm:"not null;size:20;default:'roadmap'"`
	Fullscreen  bool            `gorm:"not null;default:false"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (SessionModel) TableName() string {
	return "route_sessions"
}

// GormSessionRepository is the GORM-based implementation of SessionRepository.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID retrieves a session by its unique identifier.
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Session", id.String())
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return toDomainSession(&model)
}

// Save persists a new session.
func (r *GormSessionRepository) Save(ctx context.Context, s *session.Session) error {
	model, err := toSessionModel(s)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update persists changes with optimistic locking against the previous version.
func (r *GormSessionRepository) Update(ctx context.Context, s *session.Session) error {
	model, err := toSessionModel(s)
	if err != nil {
		return err
	}
	previousVersion := s.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("origin", "destination", "travel_mode", "map_type", "fullscreen", "version", "updated_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("session was modified by another request")
	}
	return nil
}

// Delete removes a session.
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Session", id.String())
	}
	return nil
}

// ListAll retrieves sessions newest first with pagination.
func (r *GormSessionRepository) ListAll(ctx context.Context, page, limit int) ([]*session.Session, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&SessionModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	var models []SessionModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*session.Session, len(models))
	for i := range models {
		s, err := toDomainSession(&models[i])
		if err != nil {
			return nil, 0, err
		}
		sessions[i] = s
	}
	return sessions, total, nil
}

// CountByTravelMode returns session counts grouped by selected travel mode.
func (r *GormSessionRepository) CountByTravelMode(ctx context.Context) (map[string]int64, error) {
	type modeCount struct {
		TravelMode string
		Count      int64
	}
	var results []modeCount
	if err := r.db.WithContext(ctx).Model(&SessionModel{}).
		Select("travel_mode, count(*) as count").
		Group("travel_mode").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by travel mode: %w", err)
	}

	counts := make(map[string]int64)
	for _, mc := range results {
		counts[mc.TravelMode] = mc.Count
	}
	return counts, nil
}

// --- Conversions ---

func toSessionModel(s *session.Session) (*SessionModel, error) {
	origin, err := json.Marshal(s.Origin())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal origin: %w", err)
	}
	destination, err := json.Marshal(s.Destination())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal destination: %w", err)
	}

	return &SessionModel{
		ID:          s.ID(),
		Origin:      origin,
		Destination: destination,
		TravelMode:  s.TravelMode().String(),
		MapType:     string(s.MapType()),
		Fullscreen:  s.Fullscreen(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}, nil
}

func toDomainSession(m *SessionModel) (*session.Session, error) {
	var origin, destination route.Endpoint
	if err := json.Unmarshal(m.Origin, &origin); err != nil {
		return nil, fmt.Errorf("failed to unmarshal origin: %w", err)
	}
	if err := json.Unmarshal(m.Destination, &destination); err != nil {
		return nil, fmt.Errorf("failed to unmarshal destination: %w", err)
	}

	mode, err := route.ParseTravelMode(m.TravelMode)
	if err != nil {
		mode = route.DefaultTravelMode
	}
	mapType := session.MapType(m.MapType)
	if !mapType.IsValid() {
		mapType = session.MapTypeRoadmap
	}

	return session.ReconstructSession(
		m.ID,
		origin,
		destination,
		mode,
		mapType,
		m.Fullscreen,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
