package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicRouteEvents carries the lifecycle of route requests.
const TopicRouteEvents = "route.events"

// Event types published on TopicRouteEvents.
const (
	RouteRequested = "route.requested"
	RouteRendered  = "route.rendered"
	RouteFailed    = "route.failed"
)

// RouteRequestedEvent is published when a session issues a directions request.
type RouteRequestedEvent struct {
	SessionID  uuid.UUID `json:"session_id"`
	Sequence   uint64    `json:"sequence"`
	TravelMode string    `json:"travel_mode"`
	OriginLat  float64   `json:"origin_lat"`
	OriginLng  float64   `json:"origin_lng"`
	DestLat    float64   `json:"destination_lat"`
	DestLng    float64   `json:"destination_lng"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteRenderedEvent is published when the latest request produced a route.
type RouteRenderedEvent struct {
	SessionID       uuid.UUID `json:"session_id"`
	Sequence        uint64    `json:"sequence"`
	TravelMode      string    `json:"travel_mode"`
	DistanceText    string    `json:"distance_text"`
	DistanceMeters  int       `json:"distance_meters"`
	DurationText    string    `json:"duration_text"`
	DurationSeconds int       `json:"duration_seconds"`
	HasTraffic      bool      `json:"has_traffic"`
	PathPoints      int       `json:"path_points"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// RouteFailedEvent is published when the latest request did not produce a route.
type RouteFailedEvent struct {
	SessionID  uuid.UUID `json:"session_id"`
	Sequence   uint64    `json:"sequence"`
	TravelMode string    `json:"travel_mode"`
	ErrorKind  string    `json:"error_kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
