package server

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/quakemap/assets"
	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/mapview"
	"github.com/woozymasta/quakemap/internal/observability"
	"github.com/woozymasta/quakemap/internal/quake"
	"github.com/woozymasta/quakemap/internal/tiles"
)

// TilePrefix is the route under which proxied tiles are served.
const TilePrefix = "/tiles"

// FeedSource provides the two upstream data layers.
type FeedSource interface {
	Earthquakes(ctx context.Context) ([]quake.Event, error)
	Plates(ctx context.Context) (*geojson.FeatureCollection, error)
}

// TileSource provides proxied base layer tiles.
type TileSource interface {
	Tile(ctx context.Context, layer string, c tiles.TileCoordinate) ([]byte, error)
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Feeds           FeedSource
	Tiles           TileSource // nil when tiles are not proxied
	Metrics         *observability.Metrics
	Clock           clockwork.Clock
	View            mapview.View
	IndexHTML       []byte
	Favicon         []byte
	TransparentTile []byte
}

// NewServerContext composes the map view and wires the handler dependencies.
func NewServerContext(cfg *config.Config, feeds FeedSource, tileSource TileSource, metrics *observability.Metrics, clock clockwork.Clock) *ServerContext {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	view := mapview.Compose(cfg, TilePrefix)

	var transparent []byte
	if tileSource != nil {
		var err error
		transparent, err = tiles.TransparentTile(256)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to encode transparent tile")
		}
	}

	if cfg.MapboxToken == "" {
		log.Warn().Msg("Mapbox token is empty, base layers will not load")
	}

	log.Info().
		Int("base_layers", len(view.BaseLayers)).
		Bool("proxy_tiles", tileSource != nil).
		Str("earthquakes_url", cfg.EarthquakesURL).
		Str("plates_url", cfg.PlatesURL).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Feeds:           feeds,
		Tiles:           tileSource,
		Metrics:         metrics,
		Clock:           clock,
		View:            view,
		IndexHTML:       assets.Index,
		Favicon:         assets.Favicon,
		TransparentTile: transparent,
	}
}
