package route

// Endpoint is one user-chosen origin or destination.
// An endpoint without coordinates is unresolved and cannot be routed.
type Endpoint struct {
	Label       string  `json:"label"`
	PlaceID     string  `json:"place_id,omitempty"`
	Coordinates *LatLng `json:"coordinates,omitempty"`
}

// NewResolvedEndpoint creates an endpoint with known coordinates.
func NewResolvedEndpoint(label, placeID string, at LatLng) Endpoint {
	return Endpoint{Label: label, PlaceID: placeID, Coordinates: &at}
}

// NewUnresolvedEndpoint creates an endpoint carrying only the text the user typed.
func NewUnresolvedEndpoint(label string) Endpoint {
	return Endpoint{Label: label}
}

// Resolved reports whether the endpoint carries coordinates.
func (e Endpoint) Resolved() bool {
	return e.Coordinates != nil
}
