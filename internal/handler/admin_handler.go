package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/response"
)

// AdminSessionHandler handles operator requests for session inspection.
type AdminSessionHandler struct {
	service *application.RouteService
}

// NewAdminSessionHandler creates a new AdminSessionHandler.
func NewAdminSessionHandler(service *application.RouteService) *AdminSessionHandler {
	return &AdminSessionHandler{service: service}
}

// RegisterRoutes registers admin session routes.
func (h *AdminSessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/sessions", h.ListSessions)
		admin.GET("/stats/sessions", h.SessionStats)
	}
}

// ListSessions handles GET /api/v1/admin/sessions.
func (h *AdminSessionHandler) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, total, err := h.service.ListSessions(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, sessions, total, page, limit)
}

// SessionStats handles GET /api/v1/admin/stats/sessions.
func (h *AdminSessionHandler) SessionStats(c *gin.Context) {
	stats, err := h.service.SessionStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
