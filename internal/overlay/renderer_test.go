package overlay

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkingResult() *route.Result {
	path := []route.LatLng{
		{Lat: 31.52, Lng: 74.35},
		{Lat: 30.10, Lng: 72.90},
		{Lat: 24.86, Lng: 67.00},
	}
	bounds, _ := route.BoundsOf(path)
	return &route.Result{Mode: route.ModeWalking, Path: path, Bounds: bounds}
}

func TestDraw_CreatesOneOfEachOverlay(t *testing.T) {
	canvas := NewCanvas()
	r := NewRenderer(canvas)

	set, bounds, err := r.Draw(walkingResult())
	require.NoError(t, err)

	assert.Len(t, set.Handles(), 6)
	assert.Equal(t, 6, canvas.Len())

	scene := canvas.Scene()
	require.Len(t, scene.Polylines, 2)
	require.Len(t, scene.Markers, 4)

	line, ok := canvas.Polyline(set.RouteLine)
	require.True(t, ok)
	assert.Equal(t, "#10b981", line.StrokeColor)
	assert.Equal(t, 6.0, line.StrokeWeight)

	outline, ok := canvas.Polyline(set.OutlineLine)
	require.True(t, ok)
	assert.Equal(t, OutlineColor, outline.StrokeColor)
	assert.Less(t, outline.StrokeOpacity, line.StrokeOpacity)
	assert.Greater(t, outline.StrokeWeight, line.StrokeWeight)
	assert.Less(t, outline.ZIndex, line.ZIndex)

	byKind := map[MarkerKind]SceneMarker{}
	for _, m := range scene.Markers {
		byKind[m.Kind] = m
	}
	assert.Equal(t, StartColor, byKind[MarkerStart].FillColor)
	assert.Equal(t, route.LatLng{Lat: 31.52, Lng: 74.35}, byKind[MarkerStart].Position)
	assert.Equal(t, EndColor, byKind[MarkerEnd].FillColor)
	assert.Equal(t, route.LatLng{Lat: 24.86, Lng: 67.00}, byKind[MarkerEnd].Position)
	assert.Equal(t, byKind[MarkerStart].Position, byKind[MarkerStartHalo].Position)

	require.NotNil(t, scene.Viewport.Bounds)
	assert.Equal(t, bounds, *scene.Viewport.Bounds)
}

func TestDraw_MarkerColorsIgnoreMode(t *testing.T) {
	for _, mode := range []route.TravelMode{route.ModeDriving, route.ModeWalking, route.ModeTransit, route.ModeBicycling} {
		canvas := NewCanvas()
		res := walkingResult()
		res.Mode = mode
		_, _, err := NewRenderer(canvas).Draw(res)
		require.NoError(t, err)

		for _, m := range canvas.Scene().Markers {
			switch m.Kind {
			case MarkerStart, MarkerStartHalo:
				assert.Equal(t, StartColor, m.FillColor)
			case MarkerEnd, MarkerEndHalo:
				assert.Equal(t, EndColor, m.FillColor)
			}
		}
	}
}

func TestRouteColor_DistinctPerMode(t *testing.T) {
	seen := map[string]bool{}
	for _, mode := range []route.TravelMode{route.ModeDriving, route.ModeWalking, route.ModeTransit, route.ModeBicycling} {
		seen[RouteColor(mode)] = true
	}
	assert.Len(t, seen, 4)
}

func TestClear_RemovesEverythingAndIsSafeOnEmpty(t *testing.T) {
	canvas := NewCanvas()
	r := NewRenderer(canvas)

	r.Clear(nil)
	empty := route.OverlaySet{}
	r.Clear(&empty)

	set, _, err := r.Draw(walkingResult())
	require.NoError(t, err)
	r.Clear(&set)

	assert.Equal(t, 0, canvas.Len())
	assert.True(t, set.IsEmpty())

	r.Clear(&set)
	assert.Equal(t, 0, canvas.Len())
}

func TestDraw_RepeatedRunsDoNotAccumulate(t *testing.T) {
	canvas := NewCanvas()
	r := NewRenderer(canvas)

	set, _, err := r.Draw(walkingResult())
	require.NoError(t, err)
	first := canvas.Scene()

	r.Clear(&set)
	set, _, err = r.Draw(walkingResult())
	require.NoError(t, err)
	second := canvas.Scene()

	assert.Equal(t, 6, canvas.Len())
	assert.Equal(t, len(first.Markers), len(second.Markers))
	for i := range first.Markers {
		assert.Equal(t, first.Markers[i].MarkerOptions, second.Markers[i].MarkerOptions)
	}
	assert.Equal(t, first.Viewport, second.Viewport)
}

func TestDraw_EmptyPath(t *testing.T) {
	canvas := NewCanvas()
	_, _, err := NewRenderer(canvas).Draw(&route.Result{})
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.Equal(t, 0, canvas.Len())
}
