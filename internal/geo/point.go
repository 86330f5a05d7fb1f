package geo

import (
	"fmt"
	"strings"
)

// Point returns the position of a Point geometry.
// A missing third coordinate yields alt 0.
func (g GeoJSONGeometry) Point() (lon, lat, alt float64, err error) {
	if !strings.EqualFold(g.Type, "Point") {
		return 0, 0, 0, fmt.Errorf("geometry type %q is not a point", g.Type)
	}
	if len(g.Coordinates) < 2 {
		return 0, 0, 0, fmt.Errorf("point has %d coordinates, need at least 2", len(g.Coordinates))
	}

	lon, lat = g.Coordinates[0], g.Coordinates[1]
	if len(g.Coordinates) > 2 {
		alt = g.Coordinates[2]
	}

	return lon, lat, alt, nil
}

// Number reads a numeric property. JSON null and absent keys yield 0, false.
func (f GeoJSONFeature) Number(key string) (float64, bool) {
	switch v := f.Properties[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String reads a text property. JSON null and absent keys yield "".
func (f GeoJSONFeature) String(key string) string {
	s, _ := f.Properties[key].(string)
	return s
}
