package application

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/overlay"
	"github.com/Kilat-Pet-Delivery/service-route/internal/panel"
	"github.com/google/uuid"
)

// CommitPlaceRequest commits an endpoint. PlaceID is resolved through the places
// provider; otherwise Lat/Lng (both required) resolve it directly; a bare Label stays unresolved.
type CommitPlaceRequest struct {
	PlaceID string   `json:"place_id"`
	Label   string   `json:"label"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// SelectModeRequest changes the travel mode.
type SelectModeRequest struct {
	TravelMode string `json:"travel_mode" binding:"required"`
}

// SessionDTO is the response representation of a session and its map.
type SessionDTO struct {
	ID          uuid.UUID      `json:"id"`
	Origin      route.Endpoint `json:"origin"`
	Destination route.Endpoint `json:"destination"`
	TravelMode  string         `json:"travel_mode"`
	MapType     string         `json:"map_type"`
	Fullscreen  bool           `json:"fullscreen"`
	State       string         `json:"state"`
	Sequence    uint64         `json:"sequence"`
	FormError   string         `json:"form_error,omitempty"`
	ErrorKind   string         `json:"error_kind,omitempty"`
	PanelHTML   string         `json:"panel_html"`
	Stats       *panel.Stats   `json:"stats,omitempty"`
	Scene       overlay.Scene  `json:"scene"`
	Version     int64          `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SessionUpdate is pushed to realtime subscribers after every state change.
type SessionUpdate struct {
	SessionID uuid.UUID  `json:"session_id"`
	Reason    string     `json:"reason"`
	Session   SessionDTO `json:"session"`
}

// Update reasons.
const (
	ReasonSelection = "selection"
	ReasonRequested = "requested"
	ReasonOutcome   = "outcome"
	ReasonMap       = "map"
)

func toSessionDTO(s *session.Session, canvas *overlay.Canvas) SessionDTO {
	dto := SessionDTO{
		ID:          s.ID(),
		Origin:      s.Origin(),
		Destination: s.Destination(),
		TravelMode:  s.TravelMode().String(),
		MapType:     string(s.MapType()),
		Fullscreen:  s.Fullscreen(),
		State:       s.State().String(),
		Sequence:    s.Sequence(),
		FormError:   s.FormError(),
		ErrorKind:   string(s.LastError()),
		PanelHTML:   s.Panel(),
		Scene:       canvas.Scene(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
	if res := s.Result(); res != nil {
		stats := panel.StatsFor(res)
		dto.Stats = &stats
	}
	return dto
}

// SessionSummaryDTO is the admin list representation of a stored session.
type SessionSummaryDTO struct {
	ID          uuid.UUID      `json:"id"`
	Origin      route.Endpoint `json:"origin"`
	Destination route.Endpoint `json:"destination"`
	TravelMode  string         `json:"travel_mode"`
	MapType     string         `json:"map_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SessionStatsDTO aggregates stored and live sessions.
type SessionStatsDTO struct {
	Total        int64            `json:"total"`
	Live         int              `json:"live"`
	ByTravelMode map[string]int64 `json:"by_travel_mode"`
}

func toSessionSummaryDTO(s *session.Session) SessionSummaryDTO {
	return SessionSummaryDTO{
		ID:          s.ID(),
		Origin:      s.Origin(),
		Destination: s.Destination(),
		TravelMode:  s.TravelMode().String(),
		MapType:     string(s.MapType()),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}
