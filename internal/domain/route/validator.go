package route

// ValidRequest is a pair of endpoints that both carry coordinates.
type ValidRequest struct {
	Origin      LatLng
	Destination LatLng
}

// Validate checks that both endpoints are resolved. Origin is checked first.
func Validate(origin, destination Endpoint) (ValidRequest, error) {
	if !origin.Resolved() {
		return ValidRequest{}, ErrMissingOrigin
	}
	if !destination.Resolved() {
		return ValidRequest{}, ErrMissingDestination
	}
	return ValidRequest{
		Origin:      *origin.Coordinates,
		Destination: *destination.Coordinates,
	}, nil
}
