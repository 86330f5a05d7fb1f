package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/mapview"
	"github.com/woozymasta/quakemap/internal/observability"
	"github.com/woozymasta/quakemap/internal/quake"
	"github.com/woozymasta/quakemap/internal/tiles"
)

type mockFeeds struct {
	events    []quake.Event
	plates    *geojson.FeatureCollection
	quakeErr  error
	plateErr  error
	quakeHits int
}

func (m *mockFeeds) Earthquakes(_ context.Context) ([]quake.Event, error) {
	m.quakeHits++
	return m.events, m.quakeErr
}

func (m *mockFeeds) Plates(_ context.Context) (*geojson.FeatureCollection, error) {
	return m.plates, m.plateErr
}

type mockTiles struct {
	data []byte
	err  error
}

func (m *mockTiles) Tile(_ context.Context, layer string, _ tiles.TileCoordinate) ([]byte, error) {
	if layer != "outdoors" {
		return nil, fmt.Errorf("%w: %q", tiles.ErrUnknownLayer, layer)
	}
	return m.data, m.err
}

var generated = time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, feeds FeedSource, tileSource TileSource) (http.Handler, *ServerContext) {
	t.Helper()
	cfg := config.Default()
	cfg.MapboxToken = "pk.test"
	cfg.ProxyTiles = tileSource != nil

	s := NewServerContext(cfg, feeds, tileSource, observability.NewMetricsForTesting(), clockwork.NewFakeClockAt(generated))
	return s.Routes(), s
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleMap(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, nil)

	rec := serve(h, "/api/map")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v mapview.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, [2]float64{38.09, -95.71}, v.Center)
	assert.Len(t, v.BaseLayers, 3)
	assert.Equal(t, "Tectonic Plates", v.Overlays.Plates)
	assert.Contains(t, v.Legend.HTML, "90+")
}

func TestHandleEarthquakes(t *testing.T) {
	feeds := &mockFeeds{events: []quake.Event{
		{ID: "a", Place: "Deep one", Mag: 4, Depth: 95, Lon: 1, Lat: 2, Time: generated},
	}}
	h, _ := newTestServer(t, feeds, nil)

	rec := serve(h, "/api/earthquakes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var body struct {
		Type     string `json:"type"`
		Metadata struct {
			Generated int64 `json:"generated"`
			Count     int   `json:"count"`
		} `json:"metadata"`
		Features []struct {
			ID         string `json:"id"`
			Properties struct {
				Style quake.MarkerStyle `json:"style"`
				Popup string            `json:"popup"`
			} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "FeatureCollection", body.Type)
	assert.Equal(t, generated.UnixMilli(), body.Metadata.Generated)
	assert.Equal(t, 1, body.Metadata.Count)
	require.Len(t, body.Features, 1)
	assert.Equal(t, "a", body.Features[0].ID)
	assert.Equal(t, 20.0, body.Features[0].Properties.Style.Radius)
	assert.Equal(t, "#b30000", body.Features[0].Properties.Style.FillColor)
	assert.Contains(t, body.Features[0].Properties.Popup, "<h3>Deep one</h3>")
}

func TestHandleEarthquakes_FreshPerRequest(t *testing.T) {
	feeds := &mockFeeds{}
	h, _ := newTestServer(t, feeds, nil)

	serve(h, "/api/earthquakes")
	serve(h, "/api/earthquakes")

	assert.Equal(t, 2, feeds.quakeHits)
}

func TestHandleEarthquakes_FeedError(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{quakeErr: errors.New("boom")}, nil)

	rec := serve(h, "/api/earthquakes")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "earthquakes feed unavailable")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandlePlates(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}}))
	h, _ := newTestServer(t, &mockFeeds{plates: fc}, nil)

	rec := serve(h, "/api/plates")
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Features, 1)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}}, got.Features[0].Geometry)
}

func TestHandlePlates_FeedError(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{plateErr: errors.New("boom")}, nil)

	rec := serve(h, "/api/plates")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleTile(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, &mockTiles{data: []byte("RIFFtile")})

	rec := serve(h, "/tiles/outdoors/2/1/3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "RIFFtile", rec.Body.String())
}

func TestHandleTile_UnknownLayer(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, &mockTiles{})

	assert.Equal(t, http.StatusNotFound, serve(h, "/tiles/nope/0/0/0").Code)
}

func TestHandleTile_BadCoordinates(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, &mockTiles{})

	assert.Equal(t, http.StatusNotFound, serve(h, "/tiles/outdoors/a/0/0").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "/tiles/outdoors/1/5/0").Code)
}

func TestHandleTile_UpstreamFailureServesTransparent(t *testing.T) {
	h, s := newTestServer(t, &mockFeeds{}, &mockTiles{err: errors.New("status code 500")})

	rec := serve(h, "/tiles/outdoors/0/0/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, s.TransparentTile)
	assert.Equal(t, s.TransparentTile, rec.Body.Bytes())
}

func TestTileRouteAbsentWithoutProxy(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, nil)

	rec := serve(h, "/tiles/outdoors/0/0/0")
	assert.NotEqual(t, "image/webp", rec.Header().Get("Content-Type"))
}

func TestHandleIndex(t *testing.T) {
	h, s := newTestServer(t, &mockFeeds{}, nil)

	rec := serve(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, s.IndexHTML, rec.Body.Bytes())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusNotModified, rec2.Code)

	assert.Equal(t, http.StatusNotFound, serve(h, "/missing.js").Code)
}

func TestHandleFavicon(t *testing.T) {
	h, _ := newTestServer(t, &mockFeeds{}, nil)

	rec := serve(h, "/favicon.ico")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestHealthAndMetrics(t *testing.T) {
	h, s := newTestServer(t, &mockFeeds{}, nil)

	rec := serve(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = serve(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics.HTTPRequests.WithLabelValues(http.MethodGet, "200")))
}
