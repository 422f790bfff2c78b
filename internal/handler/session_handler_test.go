package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/events"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/domain"
	"github.com/Kilat-Pet-Delivery/service-route/internal/realtime"
	"github.com/Kilat-Pet-Delivery/service-route/internal/repository"
)

type stubDirections struct{}

func (stubDirections) Route(context.Context, route.DirectionsQuery) (*route.DirectionsResponse, error) {
	return &route.DirectionsResponse{
		Status: route.StatusOK,
		Routes: []route.ProviderRoute{{
			Path: []route.LatLng{{Lat: 31.52, Lng: 74.35}, {Lat: 24.86, Lng: 67.00}},
			Legs: []route.ProviderLeg{{DistanceText: "1,210 km", DurationText: "14 hours 30 mins"}},
		}},
	}, nil
}

type stubPlaces struct{}

func (stubPlaces) Suggest(_ context.Context, input string, _ string) ([]route.PlaceSuggestion, error) {
	return []route.PlaceSuggestion{{PlaceID: "place-" + input, Description: input + ", Pakistan"}}, nil
}

func (stubPlaces) Resolve(_ context.Context, placeID string, _ string) (route.Endpoint, error) {
	switch placeID {
	case "place-lahore":
		return route.NewResolvedEndpoint("Lahore", placeID, route.LatLng{Lat: 31.52, Lng: 74.35}), nil
	case "place-karachi":
		return route.NewResolvedEndpoint("Karachi", placeID, route.LatLng{Lat: 24.86, Lng: 67.00}), nil
	}
	return route.Endpoint{}, domain.NewNotFoundError("Place", placeID)
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    application.SessionDTO `json:"data"`
	Error   string                 `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	hub := realtime.NewHub(log)
	svc := application.NewRouteService(
		repository.NewMemorySessionRepository(),
		stubDirections{},
		stubPlaces{},
		events.NewLogPublisher(log),
		hub,
		time.Second,
		log,
	)

	r := gin.New()
	NewSessionHandler(svc).RegisterRoutes(r.Group(""))
	NewWebSocketHandler(svc, hub, nil, log).RegisterRoutes(r.Group(""))
	return r, hub
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestSessionHandler_FullRouteFlow(t *testing.T) {
	r, _ := setupRouter(t)

	w, created := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/v1/sessions/" + created.Data.ID.String()

	w, _ = do(t, r, http.MethodPut, base+"/origin", map[string]string{"place_id": "place-lahore"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPut, base+"/destination", map[string]string{"place_id": "place-karachi"})
	require.Equal(t, http.StatusOK, w.Code)

	w, got := do(t, r, http.MethodPost, base+"/route", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, route.StateRendered.String(), got.Data.State)
	assert.Len(t, got.Data.Scene.Markers, 4)

	w, _ = do(t, r, http.MethodGet, base+"/panel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "1,210 km")
	assert.Contains(t, w.Body.String(), "14 hours 30 mins")

	w, got = do(t, r, http.MethodPost, base+"/map/satellite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "satellite", got.Data.MapType)

	w, _ = do(t, r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = do(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_ValidationFailureIsReportedInBody(t *testing.T) {
	r, _ := setupRouter(t)

	_, created := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	w, got := do(t, r, http.MethodPost, "/api/v1/sessions/"+created.Data.ID.String()+"/route", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(route.KindMissingOrigin), got.Data.ErrorKind)
	assert.Equal(t, route.KindMissingOrigin.Message(), got.Data.FormError)
}

func TestSessionHandler_BadInput(t *testing.T) {
	r, _ := setupRouter(t)
	_, created := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	base := "/api/v1/sessions/" + created.Data.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"invalid id", http.MethodGet, "/api/v1/sessions/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000001", nil, http.StatusNotFound},
		{"missing mode", http.MethodPut, base + "/mode", map[string]string{}, http.StatusBadRequest},
		{"unknown mode", http.MethodPut, base + "/mode", map[string]string{"travel_mode": "FLYING"}, http.StatusBadRequest},
		{"missing input", http.MethodGet, base + "/places", nil, http.StatusBadRequest},
		{"unknown place", http.MethodPut, base + "/origin", map[string]string{"place_id": "nowhere"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestWebSocketHandler_StreamsUpdates(t *testing.T) {
	r, hub := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	_, created := do(t, r, http.MethodPost, "/api/v1/sessions", nil)
	id := created.Data.ID

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + id.String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first application.SessionUpdate
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, id, first.SessionID)

	assert.Equal(t, 1, hub.Subscribers(id), "subscribed before the snapshot is sent")

	do(t, r, http.MethodPost, "/api/v1/sessions/"+id.String()+"/map/fullscreen", nil)

	var update application.SessionUpdate
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, application.ReasonMap, update.Reason)
	assert.True(t, update.Session.Fullscreen)
}

func TestWebSocketHandler_UnknownSessionLeavesNoSubscriber(t *testing.T) {
	r, hub := setupRouter(t)
	id := uuid.New()

	w, env := do(t, r, http.MethodGet, "/api/v1/sessions/"+id.String()+"/ws", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, 0, hub.Subscribers(id))
}
