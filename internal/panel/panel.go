// Package panel renders the results panel fragments shown next to the map.
package panel

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
)

// Stats is the data shown in the stats panel.
type Stats struct {
	Distance          string `json:"distance"`
	Duration          string `json:"duration"`
	DurationInTraffic string `json:"duration_in_traffic,omitempty"`
	TravelMode        string `json:"travel_mode"`
}

// StatsFor extracts panel data from a result.
func StatsFor(res *route.Result) Stats {
	return Stats{
		Distance:          res.DistanceText,
		Duration:          res.DurationText,
		DurationInTraffic: res.DurationInTrafficText,
		TravelMode:        res.Mode.Label(),
	}
}

var templates = template.Must(template.New("panel").Parse(`
{{define "loader"}}<div class="loader-container"><div class="spinner"></div><div class="loader-text">Calculating optimal route...</div></div>{{end}}
{{define "stats"}}<div class="info-content"><div class="route-stats">
<div class="stat-item"><span class="stat-label">Distance</span><span class="stat-value">{{.Distance}}</span></div>
<div class="stat-item"><span class="stat-label">Duration</span><span class="stat-value">{{.Duration}}</span></div>
{{- if .DurationInTraffic}}
<div class="stat-item"><span class="stat-label">With Traffic</span><span class="stat-value">{{.DurationInTraffic}}</span></div>
{{- end}}
<div class="stat-item"><span class="stat-label">Travel Mode</span><span class="stat-value">{{.TravelMode}}</span></div>
</div></div>{{end}}
{{define "error"}}<div class="info-content"><div class="panel-error" data-kind="{{.Kind}}">{{.Message}}</div></div>{{end}}
`))

// Loader renders the loading indicator shown while a request is in flight.
func Loader() string {
	return mustRender("loader", nil)
}

// RenderStats renders the stats panel. The traffic row appears only when present.
func RenderStats(s Stats) string {
	return mustRender("stats", s)
}

// RenderError renders the message for a failure kind.
func RenderError(kind route.ErrorKind) string {
	return mustRender("error", struct {
		Kind    route.ErrorKind
		Message string
	}{kind, kind.Message()})
}

// Templates are parsed at init and only receive plain strings, so execution errors are programming errors.
func mustRender(name string, data interface{}) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		panic(fmt.Sprintf("panel: render %s: %v", name, err))
	}
	return buf.String()
}
