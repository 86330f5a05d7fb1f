package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the HTTP handler of the map service.
func (s *ServerContext) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.RequestLogger)

	r.Get("/api/map", s.HandleMap)
	r.Get("/api/earthquakes", s.HandleEarthquakes)
	r.Get("/api/plates", s.HandlePlates)
	if s.Tiles != nil {
		r.Get(TilePrefix+"/{layer}/{z}/{x}/{y}", s.HandleTile)
	}

	r.Get("/healthz", s.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/favicon.ico", s.HandleFavicon)
	r.Get("/*", s.HandleIndex)

	return r
}
