// Package feed downloads the earthquake and plate boundary GeoJSON documents.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/geo"
	"github.com/woozymasta/quakemap/internal/observability"
	"github.com/woozymasta/quakemap/internal/quake"
)

// Feed names used in logs and metrics.
const (
	Earthquakes = "earthquakes"
	Plates      = "plates"
)

// StatusError is returned when a feed answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return "feed " + e.URL + ": status " + strconv.Itoa(e.StatusCode)
}

// Client fetches the upstream feeds. Every call is a single GET without retry.
type Client struct {
	http           *http.Client
	metrics        *observability.Metrics
	clock          clockwork.Clock
	userAgent      string
	earthquakesURL string
	platesURL      string
}

// NewClient creates a feed client for the URLs in cfg.
func NewClient(httpClient *http.Client, cfg *config.Config, metrics *observability.Metrics, clock clockwork.Clock) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Client{
		http:           httpClient,
		metrics:        metrics,
		clock:          clock,
		userAgent:      cfg.UserAgent,
		earthquakesURL: cfg.EarthquakesURL,
		platesURL:      cfg.PlatesURL,
	}
}

// Earthquakes fetches the earthquake feed. Features without a usable point
// geometry are skipped.
func (c *Client) Earthquakes(ctx context.Context) ([]quake.Event, error) {
	var fc geo.GeoJSONFeatureCollection
	err := c.fetch(ctx, Earthquakes, c.earthquakesURL, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&fc)
	})
	if err != nil {
		return nil, err
	}

	events := make([]quake.Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		ev, err := quake.FromFeature(f)
		if err != nil {
			log.Debug().Err(err).Str("feed", Earthquakes).Msg("Skipping feature")
			continue
		}
		events = append(events, ev)
	}

	c.observeCount(Earthquakes, len(events))
	log.Debug().
		Int("features", len(fc.Features)).
		Int("events", len(events)).
		Msg("Earthquake feed decoded")

	return events, nil
}

// Plates fetches the plate boundary feed. Properties are dropped, only the
// line geometry is kept.
func (c *Client) Plates(ctx context.Context) (*geojson.FeatureCollection, error) {
	var fc *geojson.FeatureCollection
	err := c.fetch(ctx, Plates, c.platesURL, func(r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		fc, err = geojson.UnmarshalFeatureCollection(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, f := range fc.Features {
		f.Properties = geojson.Properties{}
	}

	c.observeCount(Plates, len(fc.Features))
	log.Debug().Int("features", len(fc.Features)).Msg("Plate feed decoded")

	return fc, nil
}

func (c *Client) fetch(ctx context.Context, name, url string, decode func(io.Reader) error) (err error) {
	start := c.clock.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		if c.metrics != nil {
			c.metrics.FeedRequests.WithLabelValues(name, outcome).Inc()
			c.metrics.FeedDuration.WithLabelValues(name).Observe(c.clock.Since(start).Seconds())
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug().Str("feed", name).Str("url", url).Msg("Fetching feed")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", name, err)
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	return nil
}

func (c *Client) observeCount(name string, n int) {
	if c.metrics != nil {
		c.metrics.FeedFeatures.WithLabelValues(name).Set(float64(n))
	}
}
