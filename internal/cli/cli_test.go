package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-route/internal/config"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
)

type fakeProvider struct {
	queries []route.DirectionsQuery
	status  string
}

func (f *fakeProvider) Route(_ context.Context, q route.DirectionsQuery) (*route.DirectionsResponse, error) {
	f.queries = append(f.queries, q)
	if f.status != "" {
		return &route.DirectionsResponse{Status: f.status}, nil
	}
	return &route.DirectionsResponse{
		Status: route.StatusOK,
		Routes: []route.ProviderRoute{{
			Path: []route.LatLng{q.Origin, q.Destination},
			Legs: []route.ProviderLeg{{
				DistanceText:          "120 km",
				DurationText:          "2 hours",
				DurationInTrafficText: "2 hours 20 mins",
			}},
		}},
	}, nil
}

func (f *fakeProvider) Suggest(_ context.Context, input string, _ string) ([]route.PlaceSuggestion, error) {
	return []route.PlaceSuggestion{{PlaceID: "place-1", Description: input + ", Pakistan"}}, nil
}

func (f *fakeProvider) Resolve(context.Context, string, string) (route.Endpoint, error) {
	return route.Endpoint{}, nil
}

func execute(t *testing.T, p *fakeProvider, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(func(*config.ServiceConfig, *zap.Logger) (Provider, error) { return p, nil })
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRouteCommand_PrintsStats(t *testing.T) {
	p := &fakeProvider{}
	out, _, err := execute(t, p, "route", "--from", "31.52,74.35", "--to", "24.86,67.00", "--mode", "walking")
	require.NoError(t, err)

	require.Len(t, p.queries, 1)
	assert.Equal(t, route.ModeWalking, p.queries[0].Mode)
	assert.Contains(t, out, "120 km")
	assert.Contains(t, out, "2 hours 20 mins")
	assert.Contains(t, out, "walking")
}

func TestRouteCommand_JSON(t *testing.T) {
	out, _, err := execute(t, &fakeProvider{}, "route", "--from", "31.52,74.35", "--to", "24.86,67.00", "--json")
	require.NoError(t, err)

	var got routeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Stats)
	assert.Equal(t, "driving", got.Stats.TravelMode)
	assert.Empty(t, got.ErrorKind)
}

func TestRouteCommand_MissingOrigin(t *testing.T) {
	p := &fakeProvider{}
	_, errOut, err := execute(t, p, "route", "--to", "24.86,67.00")

	assert.ErrorIs(t, err, ErrRouteFailed)
	assert.Empty(t, p.queries)
	assert.Contains(t, errOut, route.KindMissingOrigin.Message())
}

func TestRouteCommand_NotFound(t *testing.T) {
	p := &fakeProvider{status: route.StatusZeroResults}
	out, _, err := execute(t, p, "route", "--from", "1,1", "--to", "2,2", "--json")

	assert.ErrorIs(t, err, ErrRouteFailed)
	var got routeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, string(route.KindRouteNotFound), got.ErrorKind)
	assert.Equal(t, route.KindRouteNotFound.Message(), got.Message)
}

func TestPlacesCommand(t *testing.T) {
	out, _, err := execute(t, &fakeProvider{}, "places", "Lahore")
	require.NoError(t, err)
	assert.Contains(t, out, "place-1")
	assert.Contains(t, out, "Lahore, Pakistan")
}
