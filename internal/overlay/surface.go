package overlay

import "github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"

// MarkerKind distinguishes endpoint markers from their decorative halos.
type MarkerKind string

const (
	MarkerStart     MarkerKind = "start"
	MarkerEnd       MarkerKind = "end"
	MarkerStartHalo MarkerKind = "start_halo"
	MarkerEndHalo   MarkerKind = "end_halo"
)

// MarkerOptions describes a circle marker.
type MarkerOptions struct {
	Kind          MarkerKind   `json:"kind"`
	Position      route.LatLng `json:"position"`
	Title         string       `json:"title,omitempty"`
	Scale         float64      `json:"scale"`
	FillColor     string       `json:"fill_color"`
	FillOpacity   float64      `json:"fill_opacity"`
	StrokeColor   string       `json:"stroke_color,omitempty"`
	StrokeWeight  float64      `json:"stroke_weight"`
	StrokeOpacity float64      `json:"stroke_opacity"`
	ZIndex        int          `json:"z_index"`
}

// PolylineOptions describes a line along a path.
type PolylineOptions struct {
	Path          []route.LatLng `json:"path"`
	StrokeColor   string         `json:"stroke_color"`
	StrokeOpacity float64        `json:"stroke_opacity"`
	StrokeWeight  float64        `json:"stroke_weight"`
	ZIndex        int            `json:"z_index"`
}

// Surface is the map-drawing capability the renderer depends on.
type Surface interface {
	AddMarker(opts MarkerOptions) route.OverlayHandle
	AddPolyline(opts PolylineOptions) route.OverlayHandle
	Remove(h route.OverlayHandle)
	FitBounds(b route.Bounds)
}
