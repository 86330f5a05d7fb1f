// Package quake turns earthquake feed records into styled map markers and
// builds the depth legend that goes with them.
package quake

import (
	"fmt"
	"time"

	"github.com/woozymasta/quakemap/internal/geo"
)

// Event is one earthquake as published by the feed.
type Event struct {
	Time  time.Time `json:"time" yaml:"time"`
	ID    string    `json:"id" yaml:"id"`
	Place string    `json:"place" yaml:"place"`
	Mag   float64   `json:"mag" yaml:"mag"`
	Lon   float64   `json:"lon" yaml:"lon"`
	Lat   float64   `json:"lat" yaml:"lat"`
	Depth float64   `json:"depth" yaml:"depth"` // km
}

// FromFeature reads an event from a feed feature.
// A null magnitude is read as 0.
func FromFeature(f geo.GeoJSONFeature) (Event, error) {
	lon, lat, depth, err := f.Geometry.Point()
	if err != nil {
		return Event{}, fmt.Errorf("feature %q: %w", f.ID, err)
	}

	mag, _ := f.Number("mag")
	ms, _ := f.Number("time")

	return Event{
		ID:    f.ID,
		Place: f.String("place"),
		Mag:   mag,
		Time:  time.UnixMilli(int64(ms)).UTC(),
		Lon:   lon,
		Lat:   lat,
		Depth: depth,
	}, nil
}
