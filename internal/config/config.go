// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Upstream feeds and tile provider defaults.
const (
	DefaultEarthquakesURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson"
	DefaultPlatesURL      = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
	DefaultTileURL        = "https://api.mapbox.com/styles/v1/{id}/tiles/{z}/{x}/{y}?access_token={accessToken}"
	DefaultTileCacheSize  = 2048

	mapboxAttribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`
	satelliteAttribution = `© <a href='https://www.mapbox.com/about/maps/'>Mapbox</a> ` +
		`© <a href='http://www.openstreetmap.org/copyright'>OpenStreetMap</a> ` +
		`<strong><a href='https://www.mapbox.com/map-feedback/' target='_blank'>Improve this map</a></strong>`
)

// Config represents the root configuration file structure.
type Config struct {
	EarthquakesURL string      `yaml:"earthquakes_url,omitempty"`
	PlatesURL      string      `yaml:"plates_url,omitempty"`
	TileURL        string      `yaml:"tile_url,omitempty"`
	MapboxToken    string      `yaml:"mapbox_token,omitempty"`
	UserAgent      string      `yaml:"user_agent,omitempty"`
	Center         []float64   `yaml:"center,omitempty"` // [Lat, Lon]
	BaseLayers     []BaseLayer `yaml:"base_layers,omitempty"`
	LegendGrades   []float64   `yaml:"legend_grades,omitempty"`
	Plates         LineStyle   `yaml:"plates,omitempty"`
	Zoom           int         `yaml:"zoom,omitempty"`
	TileCacheSize  int         `yaml:"tile_cache_size,omitempty"`
	ProxyTiles     bool        `yaml:"proxy_tiles,omitempty"`
}

// BaseLayer describes one switchable background tile layer.
type BaseLayer struct {
	Name        string `yaml:"name"`
	Key         string `yaml:"key,omitempty"` // URL-safe name used by the tile proxy
	StyleID     string `yaml:"style"`
	URL         string `yaml:"url,omitempty"` // overrides Config.TileURL
	Attribution string `yaml:"attribution,omitempty"`
	TileSize    int    `yaml:"tile_size,omitempty"`
	ZoomOffset  int    `yaml:"zoom_offset,omitempty"`
	MaxZoom     int    `yaml:"max_zoom,omitempty"`
	Default     bool   `yaml:"default,omitempty"`
}

// LineStyle is the stroke used for plate boundaries.
type LineStyle struct {
	Color  string  `yaml:"color,omitempty" json:"color"`
	Weight float64 `yaml:"weight,omitempty" json:"weight"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// DefaultBaseLayers returns the Outdoors, Grayscale and Satellite Mapbox styles.
func DefaultBaseLayers() []BaseLayer {
	return []BaseLayer{
		{Name: "Outdoors", StyleID: "mapbox/outdoors-v11", Attribution: mapboxAttribution, MaxZoom: 18, Default: true},
		{Name: "Grayscale", StyleID: "mapbox/light-v10", Attribution: mapboxAttribution, MaxZoom: 18},
		{Name: "Satellite", StyleID: "mapbox/satellite-v9", Attribution: satelliteAttribution, MaxZoom: 18, TileSize: 512, ZoomOffset: -1},
	}
}

// DefaultLegendGrades returns the depth thresholds shown in the legend.
func DefaultLegendGrades() []float64 {
	return []float64{-10, 10, 30, 50, 70, 90}
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return &cfg, nil
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	if c.EarthquakesURL == "" {
		c.EarthquakesURL = DefaultEarthquakesURL
	}
	if c.PlatesURL == "" {
		c.PlatesURL = DefaultPlatesURL
	}
	if c.TileURL == "" {
		c.TileURL = DefaultTileURL
	}
	if len(c.Center) == 0 {
		c.Center = []float64{38.09, -95.71}
	}
	if c.Zoom <= 0 {
		c.Zoom = 5
	}
	if len(c.BaseLayers) == 0 {
		c.BaseLayers = DefaultBaseLayers()
	}
	if len(c.LegendGrades) == 0 {
		c.LegendGrades = DefaultLegendGrades()
	}
	if c.Plates.Color == "" {
		c.Plates.Color = "yellow"
	}
	if c.Plates.Weight <= 0 {
		c.Plates.Weight = 2
	}
	if c.TileCacheSize <= 0 {
		c.TileCacheSize = DefaultTileCacheSize
	}

	hasDefault := false
	for i := range c.BaseLayers {
		layer := &c.BaseLayers[i]
		if layer.Key == "" {
			layer.Key = strings.ToLower(strings.ReplaceAll(layer.Name, " ", "-"))
		}
		if layer.URL == "" {
			layer.URL = c.TileURL
		}
		if layer.MaxZoom <= 0 {
			layer.MaxZoom = 18
		}
		hasDefault = hasDefault || layer.Default
	}
	if !hasDefault {
		c.BaseLayers[0].Default = true
	}
}

// Validate reports configuration that cannot produce a usable map.
func (c *Config) Validate() error {
	if len(c.Center) != 2 {
		return errors.New("center must be [lat, lon]")
	}

	seen := make(map[string]bool, len(c.BaseLayers))
	for _, layer := range c.BaseLayers {
		if layer.Name == "" {
			return errors.New("base layer without name")
		}
		if seen[layer.Key] {
			return fmt.Errorf("duplicate base layer key %q", layer.Key)
		}
		seen[layer.Key] = true
	}

	return nil
}

// Layer returns the base layer registered under key.
func (c *Config) Layer(key string) (BaseLayer, bool) {
	for _, layer := range c.BaseLayers {
		if layer.Key == key {
			return layer, true
		}
	}
	return BaseLayer{}, false
}
