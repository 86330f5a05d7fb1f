// Package assets embeds the static web page of the map.
package assets

import _ "embed"

// Index is the page built by cmd/minify from index.html.tpl.
//
//go:embed index.html
var Index []byte

//go:embed favicon.svg
var Favicon []byte
