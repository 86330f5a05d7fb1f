package quake

// Marker colors from deepest to shallowest.
const (
	ColorDepth90 = "#b30000"
	ColorDepth70 = "#e34a33"
	ColorDepth50 = "#fc8d59"
	ColorDepth30 = "#fdbb84"
	ColorDepth10 = "#fdd49e"
	ColorShallow = "#fef0d9"
)

// MarkerStyle holds Leaflet circle marker options.
type MarkerStyle struct {
	FillColor   string  `json:"fillColor" yaml:"fillColor"`
	Color       string  `json:"color" yaml:"color"`
	Radius      float64 `json:"radius" yaml:"radius"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fillOpacity"`
}

// MarkerSize returns the circle radius for a magnitude.
// Negative magnitudes are passed through as is.
func MarkerSize(mag float64) float64 {
	return mag * 5
}

// MarkerColor picks the fill color for a depth in km.
func MarkerColor(depth float64) string {
	switch {
	case depth > 90:
		return ColorDepth90
	case depth > 70:
		return ColorDepth70
	case depth > 50:
		return ColorDepth50
	case depth > 30:
		return ColorDepth30
	case depth > 10:
		return ColorDepth10
	default:
		return ColorShallow
	}
}

// Style returns the marker options for an event.
func Style(ev Event) MarkerStyle {
	return MarkerStyle{
		Radius:      MarkerSize(ev.Mag),
		FillColor:   MarkerColor(ev.Depth),
		Color:       "#000",
		Weight:      1,
		Opacity:     1,
		FillOpacity: 0.8,
	}
}
