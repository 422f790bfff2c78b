package session

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/domain"
	"github.com/google/uuid"
)

// MapType is the base layer shown under the overlays.
type MapType string

const (
	MapTypeRoadmap   MapType = "roadmap"
	MapTypeSatellite MapType = "satellite"
)

// IsValid returns true if the map type is recognized.
func (m MapType) IsValid() bool {
	return m == MapTypeRoadmap || m == MapTypeSatellite
}

// Role says which endpoint a place selection is for.
type Role string

const (
	RoleOrigin      Role = "origin"
	RoleDestination Role = "destination"
)

// Session is the aggregate root holding one open map's UI state: the endpoint
// selections, travel mode, map view, and the route cycle's owned outputs.
type Session struct {
	id          uuid.UUID
	origin      route.Endpoint
	destination route.Endpoint
	mode        route.TravelMode
	mapType     MapType
	fullscreen  bool

	state     route.CycleState
	sequence  uint64
	formError string
	lastError route.ErrorKind
	panel     string
	result    *route.Result
	overlays  route.OverlaySet

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewSession creates an idle session with no selections and the default travel mode.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		id:        uuid.New(),
		mode:      route.DefaultTravelMode,
		mapType:   MapTypeRoadmap,
		state:     route.StateIdle,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructSession rebuilds a Session from persistence (no validation).
// Cycle outputs are not persisted, so a reconstructed session is idle.
func ReconstructSession(
	id uuid.UUID,
	origin route.Endpoint,
	destination route.Endpoint,
	mode route.TravelMode,
	mapType MapType,
	fullscreen bool,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Session {
	return &Session{
		id:          id,
		origin:      origin,
		destination: destination,
		mode:        mode,
		mapType:     mapType,
		fullscreen:  fullscreen,
		state:       route.StateIdle,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Origin returns the committed origin selection.
func (s *Session) Origin() route.Endpoint { return s.origin }

// Destination returns the committed destination selection.
func (s *Session) Destination() route.Endpoint { return s.destination }

// TravelMode returns the active travel mode.
func (s *Session) TravelMode() route.TravelMode { return s.mode }

// MapType returns the current base layer.
func (s *Session) MapType() MapType { return s.mapType }

// Fullscreen reports whether the map is in fullscreen.
func (s *Session) Fullscreen() bool { return s.fullscreen }

// State returns the route cycle state.
func (s *Session) State() route.CycleState { return s.state }

// Sequence returns the sequence number of the latest issued request.
func (s *Session) Sequence() uint64 { return s.sequence }

// FormError returns the message shown near the inputs, if any.
func (s *Session) FormError() string { return s.formError }

// LastError returns the kind of the last failure, if any.
func (s *Session) LastError() route.ErrorKind { return s.lastError }

// Panel returns the rendered results panel fragment.
func (s *Session) Panel() string { return s.panel }

// Result returns the displayed route, or nil.
func (s *Session) Result() *route.Result { return s.result }

// Overlays returns the overlays currently on the map.
func (s *Session) Overlays() route.OverlaySet { return s.overlays }

// Version returns the entity version for optimistic locking.
func (s *Session) Version() int64 { return s.version }

// CreatedAt returns the creation timestamp.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// --- Selection ---

// SelectPlace stores a committed place for role and re-checks that side only:
// an unresolved place sets the matching form error, a resolved one clears it.
func (s *Session) SelectPlace(role Role, ep route.Endpoint) error {
	switch role {
	case RoleOrigin:
		s.origin = ep
		s.formError = ""
		if !ep.Resolved() {
			s.formError = route.KindMissingOrigin.Message()
		}
	case RoleDestination:
		s.destination = ep
		s.formError = ""
		if !ep.Resolved() {
			s.formError = route.KindMissingDestination.Message()
		}
	default:
		return domain.NewValidationError("invalid endpoint role: " + string(role))
	}
	s.touch()
	return nil
}

// SelectTravelMode changes the active mode and reports whether a new route
// request should follow (mode changed and both endpoints are resolved).
func (s *Session) SelectTravelMode(mode route.TravelMode) (bool, error) {
	if !mode.IsValid() {
		return false, domain.NewValidationError("invalid travel mode: " + string(mode))
	}
	changed := mode != s.mode
	s.mode = mode
	s.touch()
	return changed && s.ReadyToRoute(), nil
}

// ReadyToRoute reports whether both endpoints are resolved.
func (s *Session) ReadyToRoute() bool {
	return s.origin.Resolved() && s.destination.Resolved()
}

// ToggleMapType flips between roadmap and satellite.
func (s *Session) ToggleMapType() MapType {
	if s.mapType == MapTypeSatellite {
		s.mapType = MapTypeRoadmap
	} else {
		s.mapType = MapTypeSatellite
	}
	s.touch()
	return s.mapType
}

// ToggleFullscreen flips the fullscreen flag.
func (s *Session) ToggleFullscreen() bool {
	s.fullscreen = !s.fullscreen
	s.touch()
	return s.fullscreen
}

// --- Route cycle ---

// BeginCycle moves the session to validating, passing through idle when a previous
// cycle is settled or still requesting.
func (s *Session) BeginCycle() error {
	if s.state != route.StateIdle {
		if err := s.transition(route.StateIdle); err != nil {
			return err
		}
	}
	return s.transition(route.StateValidating)
}

// FailValidation records a validation error near the inputs. Panel and overlays are untouched.
func (s *Session) FailValidation(kind route.ErrorKind) error {
	if err := s.transition(route.StateFailed); err != nil {
		return err
	}
	s.formError = kind.Message()
	s.lastError = kind
	return nil
}

// StartRequest enters requesting with a fresh sequence number. The caller must already
// have cleared the overlays it passes in as cleared.
func (s *Session) StartRequest(cleared route.OverlaySet, loadingPanel string) (uint64, error) {
	if err := s.transition(route.StateRequesting); err != nil {
		return 0, err
	}
	s.sequence++
	s.formError = ""
	s.lastError = ""
	s.overlays = cleared
	s.result = nil
	s.panel = loadingPanel
	return s.sequence, nil
}

// Supersede invalidates the request in flight, if any, so its outcome is never applied.
func (s *Session) Supersede() {
	s.sequence++
}

// SettlePanel replaces the panel left behind by an interrupted request.
func (s *Session) SettlePanel(panel string) {
	s.panel = panel
}

// IsLatest reports whether seq belongs to the most recently issued request.
func (s *Session) IsLatest(seq uint64) bool {
	return seq == s.sequence && s.state == route.StateRequesting
}

// Render stores a successful outcome.
func (s *Session) Render(result *route.Result, overlays route.OverlaySet, panel string) error {
	if err := s.transition(route.StateRendered); err != nil {
		return err
	}
	s.result = result
	s.overlays = overlays
	s.panel = panel
	return nil
}

// Fail stores a failed outcome. No overlays are drawn for a failed request.
func (s *Session) Fail(kind route.ErrorKind, panel string) error {
	if err := s.transition(route.StateFailed); err != nil {
		return err
	}
	s.lastError = kind
	s.result = nil
	s.panel = panel
	return nil
}

// ResetOverlays replaces the held overlay set, used after the surface has been cleared.
func (s *Session) ResetOverlays(overlays route.OverlaySet) {
	s.overlays = overlays
}

// IncrementVersion bumps the version for optimistic locking.
func (s *Session) IncrementVersion() {
	s.version++
	s.updatedAt = time.Now().UTC()
}

func (s *Session) transition(target route.CycleState) error {
	if !s.state.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(s.state), string(target))
	}
	s.state = target
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}
