package overlay

import "github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"

// Marker colours do not depend on the travel mode.
const (
	StartColor   = "#10b981"
	EndColor     = "#ef4444"
	OutlineColor = "#ffffff"
	fallbackLine = "#6366f1"
)

var routeColors = map[route.TravelMode]string{
	route.ModeDriving:   "#6366f1",
	route.ModeWalking:   "#10b981",
	route.ModeTransit:   "#f59e0b",
	route.ModeBicycling: "#8b5cf6",
}

// RouteColor returns the line colour for mode.
func RouteColor(mode route.TravelMode) string {
	if c, ok := routeColors[mode]; ok {
		return c
	}
	return fallbackLine
}
