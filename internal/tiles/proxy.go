// Package tiles proxies base layer tiles from the tile provider and
// re-encodes them as WebP, so the access token never reaches the browser.
package tiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/observability"
)

// ErrUnknownLayer is returned for a layer key absent from the configuration.
var ErrUnknownLayer = errors.New("unknown tile layer")

// Quality is the lossy WebP quality of proxied tiles.
const Quality = 80

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

// Valid reports whether the coordinate exists in the tile pyramid.
func (c TileCoordinate) Valid() bool {
	if c.Z < 0 || c.Z > 30 {
		return false
	}
	n := 1 << c.Z
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// Proxy fetches, transcodes and caches tiles of the configured base layers.
type Proxy struct {
	client  *http.Client
	metrics *observability.Metrics
	cache   *lru.Cache[string, []byte]
	layers  map[string]config.BaseLayer
	token   string
}

// NewProxy creates a tile proxy for the base layers in cfg.
func NewProxy(client *http.Client, cfg *config.Config, metrics *observability.Metrics) (*Proxy, error) {
	if client == nil {
		client = http.DefaultClient
	}

	cache, err := lru.New[string, []byte](cfg.TileCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create tile cache: %w", err)
	}

	layers := make(map[string]config.BaseLayer, len(cfg.BaseLayers))
	for _, layer := range cfg.BaseLayers {
		layers[layer.Key] = layer
	}

	return &Proxy{
		client:  client,
		metrics: metrics,
		cache:   cache,
		layers:  layers,
		token:   cfg.MapboxToken,
	}, nil
}

// Tile returns the WebP encoded tile of layer at c.
func (p *Proxy) Tile(ctx context.Context, layerKey string, c TileCoordinate) ([]byte, error) {
	layer, ok := p.layers[layerKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layerKey)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("tile %d/%d/%d out of range", c.Z, c.X, c.Y)
	}

	key := layerKey + "/" + strconv.Itoa(c.Z) + "/" + strconv.Itoa(c.X) + "/" + strconv.Itoa(c.Y)
	if data, ok := p.cache.Get(key); ok {
		p.count(layerKey, "hit")
		return data, nil
	}

	data, err := p.download(ctx, buildURL(LayerURL(layer, p.token), c))
	if err != nil {
		p.count(layerKey, "error")
		return nil, err
	}

	p.cache.Add(key, data)
	p.count(layerKey, "miss")

	return data, nil
}

func (p *Proxy) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("decode tile: %w", err)
	}
	if format == "webp" {
		return bodyBytes, nil
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	log.Trace().Str("url", redact(url)).Str("format", format).Int("bytes", buf.Len()).Msg("Tile transcoded")

	return buf.Bytes(), nil
}

func (p *Proxy) count(layer, result string) {
	if p.metrics != nil {
		p.metrics.TileRequests.WithLabelValues(layer, result).Inc()
	}
}

// TransparentTile encodes an empty tile served when the provider fails.
func TransparentTile(size int) ([]byte, error) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LayerURL fills the style and token placeholders of the layer template,
// leaving {z}, {x} and {y} for the map client or buildURL.
func LayerURL(layer config.BaseLayer, token string) string {
	return strings.NewReplacer(
		"{id}", layer.StyleID,
		"{accessToken}", token,
	).Replace(layer.URL)
}

func buildURL(tpl string, c TileCoordinate) string {
	s := strings.ReplaceAll(tpl, "{z}", strconv.Itoa(c.Z))
	s = strings.ReplaceAll(s, "{x}", strconv.Itoa(c.X))
	s = strings.ReplaceAll(s, "{y}", strconv.Itoa(c.Y))

	if strings.Contains(s, "{tms_y}") {
		maxCoord := (1 << c.Z) - 1
		tmsY := maxCoord - c.Y
		s = strings.ReplaceAll(s, "{tms_y}", strconv.Itoa(tmsY))
	}

	return s
}

// redact hides the access token in logged URLs.
func redact(url string) string {
	i := strings.Index(url, "access_token=")
	if i < 0 {
		return url
	}
	rest := url[i+len("access_token="):]
	if j := strings.IndexByte(rest, '&'); j >= 0 {
		return url[:i] + "access_token=***" + rest[j:]
	}
	return url[:i] + "access_token=***"
}
