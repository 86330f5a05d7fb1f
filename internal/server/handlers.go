// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/quakemap/internal/quake"
	"github.com/woozymasta/quakemap/internal/tiles"
)

// HandleMap serves the composed map view as JSON.
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "application/json", s.View)
}

// HandleEarthquakes fetches the earthquake feed and serves the styled marker layer.
func (s *ServerContext) HandleEarthquakes(w http.ResponseWriter, r *http.Request) {
	events, err := s.Feeds.Earthquakes(r.Context())
	if err != nil {
		s.feedError(w, "earthquakes", err)
		return
	}

	fc := quake.Render(events)
	fc.ExtraMembers = map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated": s.Clock.Now().UnixMilli(),
			"count":     len(fc.Features),
		},
	}

	writeJSON(w, http.StatusOK, "application/geo+json", fc)
}

// HandlePlates fetches the plate boundary feed and serves it as a line layer.
func (s *ServerContext) HandlePlates(w http.ResponseWriter, r *http.Request) {
	fc, err := s.Feeds.Plates(r.Context())
	if err != nil {
		s.feedError(w, "plates", err)
		return
	}

	writeJSON(w, http.StatusOK, "application/geo+json", fc)
}

// HandleTile serves a proxied base layer tile.
// Path: /tiles/{layer}/{z}/{x}/{y}
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	coord, err := parseTile(chi.URLParam(r, "z"), chi.URLParam(r, "x"), chi.URLParam(r, "y"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	layer := chi.URLParam(r, "layer")
	data, err := s.Tiles.Tile(r.Context(), layer, coord)
	if errors.Is(err, tiles.ErrUnknownLayer) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Debug().
			Err(err).
			Str("layer", layer).
			Int("z", coord.Z).Int("x", coord.X).Int("y", coord.Y).
			Msg("Tile unavailable, serving transparent tile")

		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=60")
		_, _ = w.Write(s.TransparentTile)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "application/json", map[string]string{"status": "healthy"})
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

func (s *ServerContext) feedError(w http.ResponseWriter, feed string, err error) {
	log.Error().Err(err).Str("feed", feed).Msg("Failed to fetch feed")
	writeJSON(w, http.StatusBadGateway, "application/json", map[string]string{
		"error": feed + " feed unavailable",
	})
}

func parseTile(zs, xs, ys string) (tiles.TileCoordinate, error) {
	z, err := strconv.Atoi(zs)
	if err != nil {
		return tiles.TileCoordinate{}, err
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return tiles.TileCoordinate{}, err
	}
	y, err := strconv.Atoi(strings.TrimSuffix(ys, ".webp"))
	if err != nil {
		return tiles.TileCoordinate{}, err
	}

	c := tiles.TileCoordinate{Z: z, X: x, Y: y}
	if !c.Valid() {
		return tiles.TileCoordinate{}, fmt.Errorf("tile %d/%d/%d out of range", z, x, y)
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
