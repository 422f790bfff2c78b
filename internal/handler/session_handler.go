package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/response"
)

// SessionHandler handles HTTP requests for map sessions and their route cycle.
type SessionHandler struct {
	service *application.RouteService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service *application.RouteService) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterRoutes registers all session routes.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)

		sessions.GET("/:id/places", h.SuggestPlaces)
		sessions.PUT("/:id/origin", h.CommitOrigin)
		sessions.PUT("/:id/destination", h.CommitDestination)
		sessions.PUT("/:id/mode", h.SelectTravelMode)
		sessions.POST("/:id/route", h.SubmitRoute)

		sessions.GET("/:id/panel", h.GetPanel)
		sessions.GET("/:id/scene", h.GetScene)

		sessions.POST("/:id/map/recenter", h.Recenter)
		sessions.POST("/:id/map/satellite", h.ToggleSatellite)
		sessions.POST("/:id/map/fullscreen", h.ToggleFullscreen)
	}
}

// CreateSession opens a new map session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	result, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetSession returns a session's full state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteSession closes a session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SuggestPlaces returns autocomplete predictions for the input query parameter.
func (h *SessionHandler) SuggestPlaces(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	input := c.Query("input")
	if input == "" {
		response.BadRequest(c, "input is required")
		return
	}
	result, err := h.service.SuggestPlaces(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CommitOrigin stores the starting location.
func (h *SessionHandler) CommitOrigin(c *gin.Context) {
	h.commitPlace(c, session.RoleOrigin)
}

// CommitDestination stores the destination.
func (h *SessionHandler) CommitDestination(c *gin.Context) {
	h.commitPlace(c, session.RoleDestination)
}

func (h *SessionHandler) commitPlace(c *gin.Context, role session.Role) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req application.CommitPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CommitPlace(c.Request.Context(), id, role, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SelectTravelMode changes the travel mode, rerouting when both endpoints are set.
func (h *SessionHandler) SelectTravelMode(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req application.SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SelectTravelMode(c.Request.Context(), id, req.TravelMode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SubmitRoute runs the route cycle. Route failures are reported in the session body, not
// as HTTP errors.
func (h *SessionHandler) SubmitRoute(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.SubmitRoute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetPanel returns the results panel as an HTML fragment.
func (h *SessionHandler) GetPanel(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.PanelHTML))
}

// GetScene returns the overlays and viewport for the browser to paint.
func (h *SessionHandler) GetScene(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result.Scene)
}

// Recenter fits the map to the current route.
func (h *SessionHandler) Recenter(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.Recenter(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ToggleSatellite switches between roadmap and satellite imagery.
func (h *SessionHandler) ToggleSatellite(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.ToggleSatellite(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ToggleFullscreen switches fullscreen on or off.
func (h *SessionHandler) ToggleFullscreen(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	result, err := h.service.ToggleFullscreen(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
