package quake

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Render converts events into the marker layer collection. Every feature
// carries its marker style and popup next to the source values.
func Render(events []Event) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(events))

	for _, ev := range events {
		f := geojson.NewFeature(orb.Point{ev.Lon, ev.Lat})
		if ev.ID != "" {
			f.ID = ev.ID
		}
		f.Properties["place"] = ev.Place
		f.Properties["mag"] = ev.Mag
		f.Properties["depth"] = ev.Depth
		f.Properties["time"] = ev.Time.UnixMilli()
		f.Properties["style"] = Style(ev)
		f.Properties["popup"] = Popup(ev)

		fc.Append(f)
	}

	return fc
}
