package quake

import (
	"html"
	"strconv"
	"strings"
)

// TimeLayout mimics the browser Date string.
const TimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Popup builds the HTML shown when a marker is clicked.
func Popup(ev Event) string {
	var b strings.Builder

	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(ev.Place))
	b.WriteString("</h3><hr><p>Magnitude: ")
	b.WriteString(formatNumber(ev.Mag))
	b.WriteString("<br>Depth: ")
	b.WriteString(formatNumber(ev.Depth))
	b.WriteString("<br>Time: ")
	b.WriteString(ev.Time.UTC().Format(TimeLayout))
	b.WriteString("</p>")

	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
