package overlay

import (
	"errors"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
)

// ErrEmptyPath is returned when a result has no points to draw.
var ErrEmptyPath = errors.New("overlay: route path is empty")

const (
	outlineZ = 1
	routeZ   = 2
	haloZ    = 3
	markerZ  = 4
)

// Renderer draws route results onto a surface and removes them again.
type Renderer struct {
	surface Surface
}

// NewRenderer creates a renderer bound to one surface.
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Draw creates the route line, the outline beneath it, and start and end markers with
// their halos, then fits the surface viewport to the path. Every created object is
// tracked in the returned set.
func (r *Renderer) Draw(result *route.Result) (route.OverlaySet, route.Bounds, error) {
	if result == nil || len(result.Path) == 0 {
		return route.OverlaySet{}, route.Bounds{}, ErrEmptyPath
	}

	var set route.OverlaySet
	set.RouteLine = r.surface.AddPolyline(PolylineOptions{
		Path:          result.Path,
		StrokeColor:   RouteColor(result.Mode),
		StrokeOpacity: 0.8,
		StrokeWeight:  6,
		ZIndex:        routeZ,
	})
	set.OutlineLine = r.surface.AddPolyline(PolylineOptions{
		Path:          result.Path,
		StrokeColor:   OutlineColor,
		StrokeOpacity: 0.3,
		StrokeWeight:  8,
		ZIndex:        outlineZ,
	})
	set.StartMarker, set.StartHalo = r.addEndpoint(result.Start(), MarkerStart, MarkerStartHalo, StartColor, "Starting Point")
	set.EndMarker, set.EndHalo = r.addEndpoint(result.End(), MarkerEnd, MarkerEndHalo, EndColor, "Destination")

	bounds, _ := route.BoundsOf(result.Path)
	r.surface.FitBounds(bounds)
	return set, bounds, nil
}

// Clear removes every overlay in set and empties it. Safe on nil or empty sets.
func (r *Renderer) Clear(set *route.OverlaySet) {
	if set == nil {
		return
	}
	for _, h := range set.Handles() {
		r.surface.Remove(h)
	}
	*set = route.OverlaySet{}
}

func (r *Renderer) addEndpoint(at route.LatLng, kind, haloKind MarkerKind, color, title string) (route.OverlayHandle, route.OverlayHandle) {
	marker := r.surface.AddMarker(MarkerOptions{
		Kind:          kind,
		Position:      at,
		Title:         title,
		Scale:         12,
		FillColor:     color,
		FillOpacity:   1,
		StrokeColor:   OutlineColor,
		StrokeWeight:  3,
		StrokeOpacity: 1,
		ZIndex:        markerZ,
	})
	halo := r.surface.AddMarker(MarkerOptions{
		Kind:        haloKind,
		Position:    at,
		Scale:       20,
		FillColor:   color,
		FillOpacity: 0.2,
		ZIndex:      haloZ,
	})
	return marker, halo
}
