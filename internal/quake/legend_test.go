package quake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultGrades = []float64{-10, 10, 30, 50, 70, 90}

func TestNewLegend(t *testing.T) {
	legend := NewLegend(defaultGrades)

	require.Len(t, legend.Rows, 6)
	for i, row := range legend.Rows {
		assert.Equal(t, MarkerColor(defaultGrades[i]), row.Color, "row %d", i)
		assert.Equal(t, defaultGrades[i], row.From)
	}

	assert.Equal(t, "-10&ndash;10", legend.Rows[0].Label)
	assert.Equal(t, "70&ndash;90", legend.Rows[4].Label)
	assert.Equal(t, "90+", legend.Rows[5].Label)
	assert.True(t, legend.Rows[5].Last)
	assert.False(t, legend.Rows[4].Last)
}

func TestLegendHTML(t *testing.T) {
	want := `<i style="background:#fef0d9"></i> -10&ndash;10<br>` +
		`<i style="background:#fef0d9"></i> 10&ndash;30<br>` +
		`<i style="background:#fdd49e"></i> 30&ndash;50<br>` +
		`<i style="background:#fdbb84"></i> 50&ndash;70<br>` +
		`<i style="background:#fc8d59"></i> 70&ndash;90<br>` +
		`<i style="background:#e34a33"></i> 90+`

	got := NewLegend(defaultGrades).HTML()
	assert.Equal(t, want, got)
	assert.Equal(t, 6, strings.Count(got, "<i "))
	assert.Equal(t, got, NewLegend(defaultGrades).HTML(), "legend is idempotent")
}

func TestLegend_ZeroGrade(t *testing.T) {
	legend := NewLegend([]float64{-5, 0, 5})

	assert.Equal(t, "-5&ndash;0", legend.Rows[0].Label)
	assert.Equal(t, "0&ndash;5", legend.Rows[1].Label)
	assert.Equal(t, "5+", legend.Rows[2].Label)
}

func TestLegend_Empty(t *testing.T) {
	assert.Empty(t, NewLegend(nil).Rows)
	assert.Empty(t, NewLegend(nil).HTML())
}
