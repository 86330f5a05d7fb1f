package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryPoint(t *testing.T) {
	t.Run("with depth", func(t *testing.T) {
		lon, lat, alt, err := GeoJSONGeometry{Type: "Point", Coordinates: []float64{-116.8, 33.5, 12.4}}.Point()
		require.NoError(t, err)
		assert.Equal(t, -116.8, lon)
		assert.Equal(t, 33.5, lat)
		assert.Equal(t, 12.4, alt)
	})

	t.Run("without depth", func(t *testing.T) {
		_, _, alt, err := GeoJSONGeometry{Type: "Point", Coordinates: []float64{1, 2}}.Point()
		require.NoError(t, err)
		assert.Zero(t, alt)
	})

	t.Run("too few coordinates", func(t *testing.T) {
		_, _, _, err := GeoJSONGeometry{Type: "Point", Coordinates: []float64{1}}.Point()
		require.Error(t, err)
	})

	t.Run("not a point", func(t *testing.T) {
		_, _, _, err := GeoJSONGeometry{Type: "LineString"}.Point()
		require.Error(t, err)
	})
}

func TestFeatureProperties(t *testing.T) {
	var f GeoJSONFeature
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "Feature",
		"id": "ci40000001",
		"properties": {"place": "10 km N of Somewhere", "mag": 4.5, "time": 1700000000000, "tsunami": null},
		"geometry": {"type": "Point", "coordinates": [-117.1, 34.2, 8]}
	}`), &f))

	assert.Equal(t, "ci40000001", f.ID)
	assert.Equal(t, "10 km N of Somewhere", f.String("place"))

	mag, ok := f.Number("mag")
	assert.True(t, ok)
	assert.Equal(t, 4.5, mag)

	ms, ok := f.Number("time")
	assert.True(t, ok)
	assert.Equal(t, float64(1700000000000), ms)

	_, ok = f.Number("tsunami")
	assert.False(t, ok)
	assert.Empty(t, f.String("missing"))
}
