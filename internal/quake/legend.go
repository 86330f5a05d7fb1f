package quake

import "strings"

// LegendRow is one swatch of the depth legend.
type LegendRow struct {
	Color string  `json:"color"`
	Label string  `json:"label"`
	From  float64 `json:"from"`
	Last  bool    `json:"last,omitempty"`
}

// Legend lists depth grades with their marker colors.
type Legend struct {
	Rows []LegendRow `json:"rows"`
}

// NewLegend builds legend rows for ascending grades. Each row is colored
// with MarkerColor of its own grade; the last one is open ended.
func NewLegend(grades []float64) Legend {
	rows := make([]LegendRow, 0, len(grades))
	for i, grade := range grades {
		row := LegendRow{
			Color: MarkerColor(grade),
			From:  grade,
		}
		if i+1 < len(grades) {
			row.Label = formatNumber(grade) + "&ndash;" + formatNumber(grades[i+1])
		} else {
			row.Label = formatNumber(grade) + "+"
			row.Last = true
		}
		rows = append(rows, row)
	}

	return Legend{Rows: rows}
}

// HTML renders the legend body placed inside the map control.
func (l Legend) HTML() string {
	var b strings.Builder
	for _, row := range l.Rows {
		b.WriteString(`<i style="background:`)
		b.WriteString(row.Color)
		b.WriteString(`"></i> `)
		b.WriteString(row.Label)
		if !row.Last {
			b.WriteString("<br>")
		}
	}
	return b.String()
}
