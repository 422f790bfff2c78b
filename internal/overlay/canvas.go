package overlay

import (
	"sort"
	"sync"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
)

// DefaultCenter and DefaultZoom frame the map before any route is shown.
var DefaultCenter = route.LatLng{Lat: 30.3753, Lng: 69.3451}

const DefaultZoom = 6

// Viewport is what the client should frame. Bounds, when set, wins over Center/Zoom.
type Viewport struct {
	Center route.LatLng  `json:"center"`
	Zoom   int           `json:"zoom"`
	Bounds *route.Bounds `json:"bounds,omitempty"`
}

// SceneMarker is a marker on the canvas.
type SceneMarker struct {
	Handle route.OverlayHandle `json:"handle"`
	MarkerOptions
}

// ScenePolyline is a line on the canvas.
type ScenePolyline struct {
	Handle route.OverlayHandle `json:"handle"`
	PolylineOptions
}

// Scene is the serializable state of a canvas for the browser to paint.
type Scene struct {
	Viewport  Viewport        `json:"viewport"`
	Markers   []SceneMarker   `json:"markers"`
	Polylines []ScenePolyline `json:"polylines"`
}

// Canvas is an in-memory Surface. Handles are never reused.
type Canvas struct {
	mu        sync.Mutex
	next      route.OverlayHandle
	markers   map[route.OverlayHandle]MarkerOptions
	polylines map[route.OverlayHandle]PolylineOptions
	viewport  Viewport
}

// NewCanvas creates an empty canvas framed on the default viewport.
func NewCanvas() *Canvas {
	return &Canvas{
		markers:   make(map[route.OverlayHandle]MarkerOptions),
		polylines: make(map[route.OverlayHandle]PolylineOptions),
		viewport:  Viewport{Center: DefaultCenter, Zoom: DefaultZoom},
	}
}

// AddMarker implements Surface.
func (c *Canvas) AddMarker(opts MarkerOptions) route.OverlayHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.markers[c.next] = opts
	return c.next
}

// AddPolyline implements Surface.
func (c *Canvas) AddPolyline(opts PolylineOptions) route.OverlayHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.polylines[c.next] = opts
	return c.next
}

// Remove implements Surface. Unknown handles are ignored.
func (c *Canvas) Remove(h route.OverlayHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, h)
	delete(c.polylines, h)
}

// FitBounds implements Surface.
func (c *Canvas) FitBounds(b route.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.Bounds = &b
	c.viewport.Center = b.Center()
}

// Polyline returns the options of a live line.
func (c *Canvas) Polyline(h route.OverlayHandle) (PolylineOptions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts, ok := c.polylines[h]
	return opts, ok
}

// Len returns the number of live objects.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.markers) + len(c.polylines)
}

// Scene snapshots the canvas, objects ordered by handle.
func (c *Canvas) Scene() Scene {
	c.mu.Lock()
	defer c.mu.Unlock()

	scene := Scene{
		Viewport:  c.viewport,
		Markers:   make([]SceneMarker, 0, len(c.markers)),
		Polylines: make([]ScenePolyline, 0, len(c.polylines)),
	}
	for h, m := range c.markers {
		scene.Markers = append(scene.Markers, SceneMarker{Handle: h, MarkerOptions: m})
	}
	for h, p := range c.polylines {
		scene.Polylines = append(scene.Polylines, ScenePolyline{Handle: h, PolylineOptions: p})
	}
	sort.Slice(scene.Markers, func(i, j int) bool { return scene.Markers[i].Handle < scene.Markers[j].Handle })
	sort.Slice(scene.Polylines, func(i, j int) bool { return scene.Polylines[i].Handle < scene.Polylines[j].Handle })
	return scene
}
