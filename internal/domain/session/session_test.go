package session

import (
	"testing"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lahore  = route.NewResolvedEndpoint("Lahore", "p1", route.LatLng{Lat: 31.5204, Lng: 74.3587})
	karachi = route.NewResolvedEndpoint("Karachi", "p2", route.LatLng{Lat: 24.8607, Lng: 67.0011})
)

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession()
	assert.Equal(t, route.ModeDriving, s.TravelMode())
	assert.Equal(t, MapTypeRoadmap, s.MapType())
	assert.Equal(t, route.StateIdle, s.State())
	assert.False(t, s.ReadyToRoute())
	assert.True(t, s.Overlays().IsEmpty())
}

func TestSelectPlace_SetsFormErrorForUnresolvedSide(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.SelectPlace(RoleOrigin, route.NewUnresolvedEndpoint("Lah")))
	assert.Equal(t, route.KindMissingOrigin.Message(), s.FormError())

	require.NoError(t, s.SelectPlace(RoleOrigin, lahore))
	assert.Empty(t, s.FormError())

	require.NoError(t, s.SelectPlace(RoleDestination, route.NewUnresolvedEndpoint("Kar")))
	assert.Equal(t, route.KindMissingDestination.Message(), s.FormError())

	assert.Error(t, s.SelectPlace(Role("waypoint"), karachi))
}

func TestSelectTravelMode_RequestsRerouteOnlyWhenReady(t *testing.T) {
	s := NewSession()

	reroute, err := s.SelectTravelMode(route.ModeWalking)
	require.NoError(t, err)
	assert.False(t, reroute, "no endpoints yet")

	require.NoError(t, s.SelectPlace(RoleOrigin, lahore))
	require.NoError(t, s.SelectPlace(RoleDestination, karachi))

	reroute, err = s.SelectTravelMode(route.ModeWalking)
	require.NoError(t, err)
	assert.False(t, reroute, "same mode")

	reroute, err = s.SelectTravelMode(route.ModeTransit)
	require.NoError(t, err)
	assert.True(t, reroute)

	_, err = s.SelectTravelMode(route.TravelMode("FLYING"))
	assert.Error(t, err)
}

func TestCycle_SequenceAndStaleness(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginCycle())
	first, err := s.StartRequest(route.OverlaySet{}, "loading")
	require.NoError(t, err)
	assert.True(t, s.IsLatest(first))

	require.NoError(t, s.BeginCycle())
	second, err := s.StartRequest(route.OverlaySet{}, "loading")
	require.NoError(t, err)
	assert.Greater(t, second, first)
	assert.False(t, s.IsLatest(first))
	assert.True(t, s.IsLatest(second))

	require.NoError(t, s.Fail(route.KindRouteNotFound, "not found"))
	assert.False(t, s.IsLatest(second), "settled sequences are no longer pending")
	assert.Equal(t, route.StateFailed, s.State())
	assert.Equal(t, route.KindRouteNotFound, s.LastError())
}

func TestCycle_ValidationFailureKeepsPanel(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginCycle())
	_, err := s.StartRequest(route.OverlaySet{}, "loading")
	require.NoError(t, err)
	require.NoError(t, s.Render(&route.Result{}, route.OverlaySet{RouteLine: 1}, "stats"))

	require.NoError(t, s.BeginCycle())
	require.NoError(t, s.FailValidation(route.KindMissingDestination))
	assert.Equal(t, "stats", s.Panel())
	assert.Equal(t, route.OverlaySet{RouteLine: 1}, s.Overlays())
	assert.Equal(t, route.KindMissingDestination.Message(), s.FormError())
}

func TestCycle_SupersedeDiscardsInFlightRequest(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginCycle())
	seq, err := s.StartRequest(route.OverlaySet{}, "loading")
	require.NoError(t, err)

	s.Supersede()
	assert.False(t, s.IsLatest(seq))
	assert.Equal(t, route.StateRequesting, s.State())
}

func TestCycle_RejectsInvalidTransition(t *testing.T) {
	s := NewSession()
	assert.Error(t, s.Render(&route.Result{}, route.OverlaySet{}, "stats"))
}

func TestToggles(t *testing.T) {
	s := NewSession()
	assert.Equal(t, MapTypeSatellite, s.ToggleMapType())
	assert.Equal(t, MapTypeRoadmap, s.ToggleMapType())
	assert.True(t, s.ToggleFullscreen())
	assert.False(t, s.ToggleFullscreen())
}
