package route

import "context"

// Provider status values for a directions response.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusNotFound    = "NOT_FOUND"
)

// DirectionsQuery is the one request the cycle issues per trigger.
type DirectionsQuery struct {
	Origin      LatLng
	Destination LatLng
	Mode        TravelMode
}

// DirectionsResponse is the provider's answer in provider-neutral form.
type DirectionsResponse struct {
	Status string
	Routes []ProviderRoute
}

// ProviderRoute is one candidate route. Path is the decoded overview polyline.
type ProviderRoute struct {
	Summary string
	Path    []LatLng
	Legs    []ProviderLeg
}

// ProviderLeg carries the statistics of one leg. Empty text means the provider omitted it.
type ProviderLeg struct {
	DistanceText          string
	DistanceMeters        int
	DurationText          string
	DurationSeconds       int
	DurationInTrafficText string
}

// DirectionsProvider computes routes. Implementations return a non-OK Status for
// "no route" answers and an error for transport or authorization failures.
type DirectionsProvider interface {
	Route(ctx context.Context, query DirectionsQuery) (*DirectionsResponse, error)
}

// PlaceSuggestion is one autocomplete prediction.
type PlaceSuggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// PlaceResolver offers autocomplete and resolves a chosen suggestion to an Endpoint.
// token groups the calls of one session for provider billing.
type PlaceResolver interface {
	Suggest(ctx context.Context, input string, token string) ([]PlaceSuggestion, error)
	Resolve(ctx context.Context, placeID string, token string) (Endpoint, error)
}
