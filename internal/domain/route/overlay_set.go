package route

// OverlayHandle identifies one object drawn on a map surface. Zero means absent.
type OverlayHandle uint64

// OverlaySet is every overlay belonging to the currently displayed route.
type OverlaySet struct {
	RouteLine   OverlayHandle `json:"route_line,omitempty"`
	OutlineLine OverlayHandle `json:"outline_line,omitempty"`
	StartMarker OverlayHandle `json:"start_marker,omitempty"`
	StartHalo   OverlayHandle `json:"start_halo,omitempty"`
	EndMarker   OverlayHandle `json:"end_marker,omitempty"`
	EndHalo     OverlayHandle `json:"end_halo,omitempty"`
}

// Handles returns the present handles in draw order.
func (s OverlaySet) Handles() []OverlayHandle {
	var out []OverlayHandle
	for _, h := range []OverlayHandle{s.RouteLine, s.OutlineLine, s.StartMarker, s.StartHalo, s.EndMarker, s.EndHalo} {
		if h != 0 {
			out = append(out, h)
		}
	}
	return out
}

// IsEmpty reports whether no overlay is held.
func (s OverlaySet) IsEmpty() bool {
	return len(s.Handles()) == 0
}
