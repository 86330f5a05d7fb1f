// Package mapview composes the map handed to the page: base tile layers,
// overlays, initial viewport and the depth legend.
package mapview

import (
	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/quake"
	"github.com/woozymasta/quakemap/internal/tiles"
)

// Overlay names shown in the layer switcher.
const (
	OverlayEarthquakes = "Earthquakes"
	OverlayPlates      = "Tectonic Plates"
)

// View is everything the page needs to build the Leaflet map.
type View struct {
	Legend     LegendControl    `json:"legend"`
	Overlays   Overlays         `json:"overlays"`
	Control    LayerControl     `json:"control"`
	PlateStyle config.LineStyle `json:"plateStyle"`
	BaseLayers []TileLayer      `json:"baseLayers"`
	Center     [2]float64       `json:"center"` // [Lat, Lon]
	Zoom       int              `json:"zoom"`
}

// TileLayer holds Leaflet tile layer options.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	TileSize    int    `json:"tileSize,omitempty"`
	ZoomOffset  int    `json:"zoomOffset,omitempty"`
	MaxZoom     int    `json:"maxZoom"`
	Default     bool   `json:"default,omitempty"`
}

// Overlays names the data layers and where the page loads them from.
type Overlays struct {
	Earthquakes    string `json:"earthquakes"`
	Plates         string `json:"plates"`
	EarthquakesURL string `json:"earthquakesUrl"`
	PlatesURL      string `json:"platesUrl"`
}

// LayerControl holds the layer switcher options. The page registers it once
// the plate layer has loaded.
type LayerControl struct {
	Collapsed bool `json:"collapsed"`
}

// LegendControl is the static legend box.
type LegendControl struct {
	Position string            `json:"position"`
	HTML     string            `json:"html"`
	Rows     []quake.LegendRow `json:"rows"`
}

// Compose builds the view from cfg. With tile proxying enabled, base layer
// URLs point at tilePrefix instead of the provider and carry no token.
func Compose(cfg *config.Config, tilePrefix string) View {
	layers := make([]TileLayer, 0, len(cfg.BaseLayers))
	for _, layer := range cfg.BaseLayers {
		url := tiles.LayerURL(layer, cfg.MapboxToken)
		if cfg.ProxyTiles {
			url = tilePrefix + "/" + layer.Key + "/{z}/{x}/{y}"
		}

		layers = append(layers, TileLayer{
			Name:        layer.Name,
			URL:         url,
			Attribution: layer.Attribution,
			TileSize:    layer.TileSize,
			ZoomOffset:  layer.ZoomOffset,
			MaxZoom:     layer.MaxZoom,
			Default:     layer.Default,
		})
	}

	legend := quake.NewLegend(cfg.LegendGrades)

	return View{
		Center:     [2]float64{cfg.Center[0], cfg.Center[1]},
		Zoom:       cfg.Zoom,
		BaseLayers: layers,
		Overlays: Overlays{
			Earthquakes:    OverlayEarthquakes,
			Plates:         OverlayPlates,
			EarthquakesURL: "/api/earthquakes",
			PlatesURL:      "/api/plates",
		},
		PlateStyle: cfg.Plates,
		Control:    LayerControl{Collapsed: false},
		Legend: LegendControl{
			Position: "bottomright",
			HTML:     legend.HTML(),
			Rows:     legend.Rows,
		},
	}
}
