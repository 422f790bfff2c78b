package directions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"
)

// Config holds settings for the Google Maps client.
type Config struct {
	APIKey    string
	BaseURL   string
	Language  string
	Region    string
	RateLimit float64
	RateBurst int
}

// GoogleProvider implements route.DirectionsProvider and route.PlaceResolver on the
// Google Maps Platform web services.
type GoogleProvider struct {
	client   *maps.Client
	limiter  *rate.Limiter
	language string
	region   string
	logger   *zap.Logger
}

// NewGoogleProvider creates a provider. A zero RateLimit disables client-side throttling.
func NewGoogleProvider(cfg Config, logger *zap.Logger) (*GoogleProvider, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &GoogleProvider{
		client:   client,
		limiter:  limiter,
		language: cfg.Language,
		region:   cfg.Region,
		logger:   logger,
	}, nil
}

var travelModes = map[route.TravelMode]maps.Mode{
	route.ModeDriving:   maps.TravelModeDriving,
	route.ModeWalking:   maps.TravelModeWalking,
	route.ModeTransit:   maps.TravelModeTransit,
	route.ModeBicycling: maps.TravelModeBicycling,
}

// Route implements route.DirectionsProvider.
func (g *GoogleProvider) Route(ctx context.Context, q route.DirectionsQuery) (*route.DirectionsResponse, error) {
	mode, ok := travelModes[q.Mode]
	if !ok {
		return nil, fmt.Errorf("unsupported travel mode: %s", q.Mode)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, classify(ctx, err)
	}

	req := &maps.DirectionsRequest{
		Origin:      q.Origin.String(),
		Destination: q.Destination.String(),
		Mode:        mode,
		Language:    g.language,
		Region:      g.region,
	}
	if q.Mode == route.ModeDriving {
		// Traffic durations are only returned when a departure time is given.
		req.DepartureTime = "now"
	}

	g.logger.Debug("directions request",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("mode", string(mode)),
	)

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		if status, ok := noRouteStatus(err); ok {
			return &route.DirectionsResponse{Status: status}, nil
		}
		return nil, classify(ctx, err)
	}

	resp := &route.DirectionsResponse{Status: route.StatusOK, Routes: make([]route.ProviderRoute, 0, len(routes))}
	for _, rt := range routes {
		converted, err := convertRoute(rt)
		if err != nil {
			return nil, route.NewError(route.KindProviderError, err)
		}
		resp.Routes = append(resp.Routes, converted)
	}
	if len(resp.Routes) == 0 {
		resp.Status = route.StatusZeroResults
	}
	return resp, nil
}

// Suggest implements route.PlaceResolver with geocode-type autocomplete.
func (g *GoogleProvider) Suggest(ctx context.Context, input string, token string) ([]route.PlaceSuggestion, error) {
	if strings.TrimSpace(input) == "" {
		return []route.PlaceSuggestion{}, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, classify(ctx, err)
	}

	resp, err := g.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:        input,
		Types:        maps.AutocompletePlaceTypeGeocode,
		Language:     g.language,
		SessionToken: sessionToken(token),
	})
	if err != nil {
		if _, ok := noRouteStatus(err); ok {
			return []route.PlaceSuggestion{}, nil
		}
		return nil, classify(ctx, err)
	}

	out := make([]route.PlaceSuggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, route.PlaceSuggestion{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// Resolve implements route.PlaceResolver. Places without geometry come back unresolved.
func (g *GoogleProvider) Resolve(ctx context.Context, placeID string, token string) (route.Endpoint, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return route.Endpoint{}, classify(ctx, err)
	}

	res, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: g.language,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskFormattedAddress,
		},
		SessionToken: sessionToken(token),
	})
	if err != nil {
		return route.Endpoint{}, classify(ctx, err)
	}

	label := res.FormattedAddress
	if label == "" {
		label = res.Name
	}
	loc := route.LatLng{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng}
	if loc == (route.LatLng{}) {
		return route.NewUnresolvedEndpoint(label), nil
	}
	return route.NewResolvedEndpoint(label, placeID, loc), nil
}

func convertRoute(rt maps.Route) (route.ProviderRoute, error) {
	points, err := rt.OverviewPolyline.Decode()
	if err != nil {
		return route.ProviderRoute{}, fmt.Errorf("failed to decode overview polyline: %w", err)
	}
	path := make([]route.LatLng, len(points))
	for i, p := range points {
		path[i] = route.LatLng{Lat: p.Lat, Lng: p.Lng}
	}

	out := route.ProviderRoute{Summary: rt.Summary, Path: path}
	for _, leg := range rt.Legs {
		if leg == nil {
			continue
		}
		pl := route.ProviderLeg{
			DistanceText:    leg.Distance.HumanReadable,
			DistanceMeters:  leg.Distance.Meters,
			DurationSeconds: int(leg.Duration / time.Second),
		}
		if leg.Duration > 0 {
			pl.DurationText = route.FormatDuration(leg.Duration)
		}
		if leg.DurationInTraffic > 0 {
			pl.DurationInTrafficText = route.FormatDuration(leg.DurationInTraffic)
		}
		out.Legs = append(out.Legs, pl)
	}
	return out, nil
}

// noRouteStatus recognizes the statuses that mean "no answer" rather than "failure".
// The maps client reports them as errors formatted "maps: STATUS - message"; only the
// status position is matched so messages of other statuses cannot be misread.
func noRouteStatus(err error) (string, bool) {
	msg := err.Error()
	for _, status := range []string{route.StatusZeroResults, route.StatusNotFound} {
		if strings.HasPrefix(msg, "maps: "+status+" -") {
			return status, true
		}
	}
	return "", false
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return route.NewError(route.KindRequestTimeout, err)
	}
	return route.NewError(route.KindProviderError, err)
}

func sessionToken(token string) maps.PlaceAutocompleteSessionToken {
	id, err := uuid.Parse(token)
	if err != nil {
		return maps.NewPlaceAutocompleteSessionToken()
	}
	return maps.PlaceAutocompleteSessionToken(id)
}
