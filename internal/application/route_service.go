package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/events"
	"github.com/Kilat-Pet-Delivery/service-route/internal/overlay"
	"github.com/Kilat-Pet-Delivery/service-route/internal/panel"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/domain"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds a directions request when none is configured.
const DefaultRequestTimeout = 10 * time.Second

const (
	eventSource    = "service-route"
	publishTimeout = 5 * time.Second
)

// EventPublisher publishes CloudEvents; satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// Notifier receives every session change, e.g. to push it over websockets.
type Notifier interface {
	Notify(update SessionUpdate)
}

// liveSession is a loaded session with its map surface. mu serializes all work on it.
type liveSession struct {
	mu       sync.Mutex
	session  *session.Session
	canvas   *overlay.Canvas
	renderer *overlay.Renderer
	cancel   context.CancelFunc
}

// RouteService is the application service running the route request/render cycle.
type RouteService struct {
	repo       session.SessionRepository
	directions route.DirectionsProvider
	places     route.PlaceResolver
	publisher  EventPublisher
	notifier   Notifier
	timeout    time.Duration
	topic      string
	logger     *zap.Logger

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession
}

// NewRouteService creates a new RouteService. notifier may be nil.
func NewRouteService(
	repo session.SessionRepository,
	directions route.DirectionsProvider,
	places route.PlaceResolver,
	publisher EventPublisher,
	notifier Notifier,
	timeout time.Duration,
	logger *zap.Logger,
) *RouteService {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RouteService{
		repo:       repo,
		directions: directions,
		places:     places,
		publisher:  publisher,
		notifier:   notifier,
		timeout:    timeout,
		topic:      events.TopicRouteEvents,
		logger:     logger,
		live:       make(map[uuid.UUID]*liveSession),
	}
}

// WithEventTopic overrides the topic route events are published to.
func (s *RouteService) WithEventTopic(topic string) *RouteService {
	if topic != "" {
		s.topic = topic
	}
	return s
}

// --- Session lifecycle ---

// CreateSession opens a new map session.
func (s *RouteService) CreateSession(ctx context.Context) (*SessionDTO, error) {
	sess := session.NewSession()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	ls := newLiveSession(sess)
	s.mu.Lock()
	s.live[sess.ID()] = ls
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session_id", sess.ID().String()))
	result := toSessionDTO(sess, ls.canvas)
	return &result, nil
}

// GetSession returns the current state of a session.
func (s *RouteService) GetSession(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	ls, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	result := toSessionDTO(ls.session, ls.canvas)
	return &result, nil
}

// DeleteSession cancels any pending request and forgets the session.
func (s *RouteService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	ls, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()

	if ok {
		ls.mu.Lock()
		s.abandon(ls)
		ls.mu.Unlock()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session_id", id.String()))
	return nil
}

// --- Place selection ---

// SuggestPlaces returns autocomplete predictions for input.
func (s *RouteService) SuggestPlaces(ctx context.Context, id uuid.UUID, input string) ([]route.PlaceSuggestion, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	suggestions, err := s.places.Suggest(ctx, input, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get place suggestions: %w", err)
	}
	return suggestions, nil
}

// CommitPlace stores the user's choice for one endpoint.
func (s *RouteService) CommitPlace(ctx context.Context, id uuid.UUID, role session.Role, req CommitPlaceRequest) (*SessionDTO, error) {
	ls, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ep, err := s.resolvePlace(ctx, id, req)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	if err := ls.session.SelectPlace(role, ep); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	if err := s.persist(ctx, ls); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	result := toSessionDTO(ls.session, ls.canvas)
	ls.mu.Unlock()

	s.notify(ReasonSelection, result)
	return &result, nil
}

func (s *RouteService) resolvePlace(ctx context.Context, id uuid.UUID, req CommitPlaceRequest) (route.Endpoint, error) {
	switch {
	case req.PlaceID != "":
		ep, err := s.places.Resolve(ctx, req.PlaceID, id.String())
		if err != nil {
			return route.Endpoint{}, fmt.Errorf("failed to resolve place: %w", err)
		}
		if ep.Label == "" {
			ep.Label = req.Label
		}
		return ep, nil
	case req.Lat != nil && req.Lng != nil:
		at := route.LatLng{Lat: *req.Lat, Lng: *req.Lng}
		if !at.IsValid() {
			return route.Endpoint{}, domain.NewValidationError("coordinates out of range")
		}
		return route.NewResolvedEndpoint(req.Label, "", at), nil
	case req.Lat != nil || req.Lng != nil:
		return route.Endpoint{}, domain.NewValidationError("both lat and lng are required")
	default:
		return route.NewUnresolvedEndpoint(req.Label), nil
	}
}

// --- Route cycle ---

// SelectTravelMode changes the mode. When it changed and both endpoints are resolved,
// exactly one new request is issued and its outcome awaited.
func (s *RouteService) SelectTravelMode(ctx context.Context, id uuid.UUID, rawMode string) (*SessionDTO, error) {
	mode, err := route.ParseTravelMode(rawMode)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	ls, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	reroute, err := ls.session.SelectTravelMode(mode)
	if err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	if err := s.persist(ctx, ls); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	if !reroute {
		result := toSessionDTO(ls.session, ls.canvas)
		ls.mu.Unlock()
		s.notify(ReasonSelection, result)
		return &result, nil
	}
	pending := s.trigger(ls)
	ls.mu.Unlock()

	if _, err := pending.Wait(ctx); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

// SubmitRoute runs the cycle for the current selections and waits for the outcome.
func (s *RouteService) SubmitRoute(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	pending, err := s.Trigger(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := pending.Wait(ctx); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

// Trigger starts a cycle without waiting. A validation failure is returned as an
// already completed Pending with Seq zero.
func (s *RouteService) Trigger(ctx context.Context, id uuid.UUID) (*Pending, error) {
	ls, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	pending := s.trigger(ls)
	view := toSessionDTO(ls.session, ls.canvas)
	ls.mu.Unlock()

	if pending.Seq == 0 {
		s.notify(ReasonSelection, view)
	}
	return pending, nil
}

// trigger runs Validating and, when valid, enters Requesting and launches the request.
// Caller holds ls.mu. A validation failure yields a completed Pending with Seq zero.
func (s *RouteService) trigger(ls *liveSession) *Pending {
	sess := ls.session
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
	interrupted := sess.State() == route.StateRequesting

	if err := sess.BeginCycle(); err != nil {
		s.logger.Error("failed to begin route cycle", zap.String("session_id", sess.ID().String()), zap.Error(err))
		return completedPending(Outcome{Err: route.NewError(route.KindUnexpected, err)})
	}

	valid, err := route.Validate(sess.Origin(), sess.Destination())
	if err != nil {
		kind := route.KindOf(err)
		if ferr := sess.FailValidation(kind); ferr != nil {
			s.logger.Error("failed to record validation failure", zap.Error(ferr))
		}
		if interrupted {
			// The cancelled request's loader must not outlive it.
			sess.SettlePanel(panel.RenderError(kind))
		}
		return completedPending(Outcome{Err: err})
	}

	overlays := sess.Overlays()
	ls.renderer.Clear(&overlays)
	seq, err := sess.StartRequest(overlays, panel.Loader())
	if err != nil {
		s.logger.Error("failed to start route request", zap.Error(err))
		return completedPending(Outcome{Err: route.NewError(route.KindUnexpected, err)})
	}

	query := route.DirectionsQuery{
		Origin:      valid.Origin,
		Destination: valid.Destination,
		Mode:        sess.TravelMode(),
	}
	reqCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	ls.cancel = cancel
	pending := newPending(seq)

	s.logger.Info("route requested",
		zap.String("session_id", sess.ID().String()),
		zap.Uint64("sequence", seq),
		zap.String("mode", query.Mode.String()),
	)
	requested := events.RouteRequestedEvent{
		SessionID:  sess.ID(),
		Sequence:   seq,
		TravelMode: query.Mode.String(),
		OriginLat:  query.Origin.Lat,
		OriginLng:  query.Origin.Lng,
		DestLat:    query.Destination.Lat,
		DestLng:    query.Destination.Lng,
		OccurredAt: time.Now().UTC(),
	}
	go s.run(reqCtx, cancel, ls, pending, query, requested)
	return pending
}

// run announces the request, performs the provider call off the session lock, and
// applies its outcome.
func (s *RouteService) run(ctx context.Context, cancel context.CancelFunc, ls *liveSession, pending *Pending, query route.DirectionsQuery, requested events.RouteRequestedEvent) {
	defer cancel()
	s.announce(ls, requested)

	resp, err := s.callProvider(ctx, query)
	if err == nil {
		var result *route.Result
		result, err = route.NewResult(resp, query.Mode, pending.Seq)
		s.apply(ls, pending, query.Mode, result, err)
		return
	}
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) && route.KindOf(err) != route.KindRequestTimeout {
		err = route.NewError(route.KindRequestTimeout, err)
	}
	s.apply(ls, pending, query.Mode, nil, err)
}

func (s *RouteService) callProvider(ctx context.Context, query route.DirectionsQuery) (resp *route.DirectionsResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = route.NewError(route.KindUnexpected, fmt.Errorf("directions provider panic: %v", r))
		}
	}()
	return s.directions.Route(ctx, query)
}

// apply writes an outcome into the session unless a newer request superseded it.
func (s *RouteService) apply(ls *liveSession, pending *Pending, mode route.TravelMode, result *route.Result, err error) {
	ls.mu.Lock()
	sess := ls.session
	if !sess.IsLatest(pending.Seq) {
		ls.mu.Unlock()
		s.logger.Debug("discarding stale route outcome",
			zap.String("session_id", sess.ID().String()),
			zap.Uint64("sequence", pending.Seq),
			zap.Uint64("latest", sess.Sequence()),
		)
		pending.complete(Outcome{Seq: pending.Seq, Result: result, Err: err, Stale: true})
		return
	}

	if err == nil {
		err = s.render(ls, result)
	}
	if err != nil {
		result = nil
		kind := classifyFailure(err)
		if ferr := sess.Fail(kind, panel.RenderError(kind)); ferr != nil {
			s.logger.Error("failed to record route failure", zap.Error(ferr))
		}
		s.logger.Warn("route failed",
			zap.String("session_id", sess.ID().String()),
			zap.Uint64("sequence", pending.Seq),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
	view := toSessionDTO(sess, ls.canvas)
	ls.mu.Unlock()

	pending.complete(Outcome{Seq: pending.Seq, Result: result, Err: err})
	s.notify(ReasonOutcome, view)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err != nil {
		s.publishEvent(ctx, events.RouteFailed, view.ID, events.RouteFailedEvent{
			SessionID:  view.ID,
			Sequence:   pending.Seq,
			TravelMode: mode.String(),
			ErrorKind:  view.ErrorKind,
			OccurredAt: time.Now().UTC(),
		})
		return
	}
	s.publishEvent(ctx, events.RouteRendered, view.ID, events.RouteRenderedEvent{
		SessionID:       view.ID,
		Sequence:        pending.Seq,
		TravelMode:      mode.String(),
		DistanceText:    result.DistanceText,
		DistanceMeters:  result.DistanceMeters,
		DurationText:    result.DurationText,
		DurationSeconds: result.DurationSeconds,
		HasTraffic:      result.HasTraffic(),
		PathPoints:      len(result.Path),
		OccurredAt:      time.Now().UTC(),
	})
}

// render draws a successful result. Caller holds ls.mu. A panic while drawing is
// turned into an unexpected failure.
func (s *RouteService) render(ls *liveSession, result *route.Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = route.NewError(route.KindUnexpected, fmt.Errorf("render panic: %v", r))
		}
	}()

	drawn, _, err := ls.renderer.Draw(result)
	if err != nil {
		return route.NewError(route.KindRouteNotFound, err)
	}
	if err := ls.session.Render(result, drawn, panel.RenderStats(panel.StatsFor(result))); err != nil {
		ls.renderer.Clear(&drawn)
		return route.NewError(route.KindUnexpected, err)
	}
	s.logger.Info("route rendered",
		zap.String("session_id", ls.session.ID().String()),
		zap.Uint64("sequence", result.Sequence),
		zap.String("distance", result.DistanceText),
		zap.String("duration", result.DurationText),
	)
	return nil
}

// classifyFailure maps any error to a user-facing kind. Unclassified errors came from
// the provider transport.
func classifyFailure(err error) route.ErrorKind {
	var re *route.Error
	if errors.As(err, &re) {
		return re.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return route.KindRequestTimeout
	}
	return route.KindProviderError
}

// --- Map controls ---

// Recenter fits the viewport to the displayed route line. No-op without a route.
func (s *RouteService) Recenter(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mapControl(ctx, id, false, func(ls *liveSession) {
		line, ok := ls.canvas.Polyline(ls.session.Overlays().RouteLine)
		if !ok {
			return
		}
		if bounds, ok := route.BoundsOf(line.Path); ok {
			ls.canvas.FitBounds(bounds)
		}
	})
}

// ToggleSatellite flips the base layer between roadmap and satellite.
func (s *RouteService) ToggleSatellite(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mapControl(ctx, id, true, func(ls *liveSession) {
		ls.session.ToggleMapType()
	})
}

// ToggleFullscreen flips the fullscreen flag.
func (s *RouteService) ToggleFullscreen(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mapControl(ctx, id, true, func(ls *liveSession) {
		ls.session.ToggleFullscreen()
	})
}

func (s *RouteService) mapControl(ctx context.Context, id uuid.UUID, persist bool, fn func(ls *liveSession)) (*SessionDTO, error) {
	ls, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	fn(ls)
	if persist {
		if err := s.persist(ctx, ls); err != nil {
			ls.mu.Unlock()
			return nil, err
		}
	}
	result := toSessionDTO(ls.session, ls.canvas)
	ls.mu.Unlock()

	s.notify(ReasonMap, result)
	return &result, nil
}

// --- Admin ---

// ListSessions returns stored sessions newest first.
func (s *RouteService) ListSessions(ctx context.Context, page, limit int) ([]SessionSummaryDTO, int64, error) {
	sessions, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]SessionSummaryDTO, len(sessions))
	for i, sess := range sessions {
		dtos[i] = toSessionSummaryDTO(sess)
	}
	return dtos, total, nil
}

// SessionStats returns session counts by travel mode plus the number loaded in memory.
func (s *RouteService) SessionStats(ctx context.Context) (*SessionStatsDTO, error) {
	counts, err := s.repo.CountByTravelMode(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}

	s.mu.Lock()
	live := len(s.live)
	s.mu.Unlock()

	return &SessionStatsDTO{Total: total, Live: live, ByTravelMode: counts}, nil
}

// --- Helpers ---

func newLiveSession(sess *session.Session) *liveSession {
	canvas := overlay.NewCanvas()
	return &liveSession{
		session:  sess,
		canvas:   canvas,
		renderer: overlay.NewRenderer(canvas),
	}
}

// load returns the live session, restoring it from the repository after a restart.
func (s *RouteService) load(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		return ls, nil
	}

	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.live[id]; ok {
		return existing, nil
	}
	ls = newLiveSession(sess)
	s.live[id] = ls
	return ls, nil
}

// persist saves the selection snapshot. Caller holds ls.mu. On failure the live
// session is evicted so the next load restores the stored state.
func (s *RouteService) persist(ctx context.Context, ls *liveSession) error {
	ls.session.IncrementVersion()
	if err := s.repo.Update(ctx, ls.session); err != nil {
		s.evict(ls)
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// evict forgets ls and abandons its request. Caller holds ls.mu.
func (s *RouteService) evict(ls *liveSession) {
	s.abandon(ls)
	id := ls.session.ID()
	s.mu.Lock()
	if s.live[id] == ls {
		delete(s.live, id)
	}
	s.mu.Unlock()
	s.logger.Warn("evicted live session after failed update", zap.String("session_id", id.String()))
}

// abandon supersedes and cancels the request in flight so its outcome is discarded.
// Caller holds ls.mu.
func (s *RouteService) abandon(ls *liveSession) {
	ls.session.Supersede()
	if ls.cancel != nil {
		ls.cancel()
		ls.cancel = nil
	}
}

func (s *RouteService) announce(ls *liveSession, requested events.RouteRequestedEvent) {
	ls.mu.Lock()
	view := toSessionDTO(ls.session, ls.canvas)
	ls.mu.Unlock()
	s.notify(ReasonRequested, view)

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	s.publishEvent(ctx, events.RouteRequested, requested.SessionID, requested)
}

func (s *RouteService) notify(reason string, view SessionDTO) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(SessionUpdate{SessionID: view.ID, Reason: reason, Session: view})
}

func (s *RouteService) publishEvent(ctx context.Context, eventType string, sessionID uuid.UUID, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = sessionID.String()

	if err := s.publisher.PublishEvent(ctx, s.topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
