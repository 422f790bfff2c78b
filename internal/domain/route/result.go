package route

import "errors"

// NotAvailable is shown for statistics the provider did not return.
const NotAvailable = "N/A"

// Result is the ephemeral outcome of one successful directions request.
type Result struct {
	Sequence              uint64     `json:"sequence"`
	Mode                  TravelMode `json:"travel_mode"`
	Path                  []LatLng   `json:"path"`
	DistanceText          string     `json:"distance_text"`
	DistanceMeters        int        `json:"distance_meters"`
	DurationText          string     `json:"duration_text"`
	DurationSeconds       int        `json:"duration_seconds"`
	DurationInTrafficText string     `json:"duration_in_traffic_text,omitempty"`
	Bounds                Bounds     `json:"bounds"`
}

// Start returns the first path point.
func (r *Result) Start() LatLng { return r.Path[0] }

// End returns the last path point.
func (r *Result) End() LatLng { return r.Path[len(r.Path)-1] }

// HasTraffic reports whether a traffic-adjusted duration is available.
func (r *Result) HasTraffic() bool { return r.DurationInTrafficText != "" }

// NewResult extracts the first route's first leg from resp. A non-OK status, an empty
// route list or a route without path points is a RouteNotFound error.
func NewResult(resp *DirectionsResponse, mode TravelMode, seq uint64) (*Result, error) {
	if resp == nil || resp.Status != StatusOK || len(resp.Routes) == 0 {
		return nil, ErrRouteNotFound
	}
	rt := resp.Routes[0]
	bounds, ok := BoundsOf(rt.Path)
	if !ok {
		return nil, NewError(KindRouteNotFound, errors.New("route has no path points"))
	}

	res := &Result{
		Sequence:     seq,
		Mode:         mode,
		Path:         rt.Path,
		DistanceText: NotAvailable,
		DurationText: NotAvailable,
		Bounds:       bounds,
	}
	if len(rt.Legs) > 0 {
		leg := rt.Legs[0]
		if leg.DistanceText != "" {
			res.DistanceText = leg.DistanceText
		}
		if leg.DurationText != "" {
			res.DurationText = leg.DurationText
		}
		res.DistanceMeters = leg.DistanceMeters
		res.DurationSeconds = leg.DurationSeconds
		res.DurationInTrafficText = leg.DurationInTrafficText
	}
	return res, nil
}
