package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/feed"
	"github.com/woozymasta/quakemap/internal/logger"
	"github.com/woozymasta/quakemap/internal/observability"
	"github.com/woozymasta/quakemap/internal/server"
	"github.com/woozymasta/quakemap/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string        `short:"c" long:"config"       env:"CONFIG_FILE"    description:"Path to configuration file (built-in defaults if empty)"`
	Addr        string        `short:"a" long:"addr"         env:"LISTEN_ADDRESS" description:"Address to listen on"                   default:"0.0.0.0"`
	MapboxToken string        `short:"k" long:"mapbox-token" env:"MAPBOX_TOKEN"   description:"Mapbox access token for base layers"`
	UserAgent   string        `long:"user-agent"             env:"USER_AGENT"     description:"User-Agent sent to upstream feeds"     default:"quakemap"`
	Timeout     time.Duration `short:"t" long:"timeout"      env:"FETCH_TIMEOUT"  description:"Upstream request timeout"               default:"30s"`
	Shutdown    time.Duration `long:"shutdown-timeout"       env:"SHUTDOWN_TIMEOUT" description:"Graceful shutdown timeout"           default:"10s"`
	Port        int           `short:"p" long:"port"         env:"LISTEN_PORT"    description:"Port to listen on"                      default:"8080"`
	ProxyTiles  bool          `short:"P" long:"proxy-tiles"  env:"PROXY_TILES"    description:"Serve base layer tiles through this server"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.MapboxToken != "" {
		cfg.MapboxToken = opts.MapboxToken
	}
	if opts.UserAgent != "" && cfg.UserAgent == "" {
		cfg.UserAgent = opts.UserAgent
	}
	cfg.ProxyTiles = cfg.ProxyTiles || opts.ProxyTiles

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: opts.Timeout,
	}

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	feeds := feed.NewClient(client, cfg, metrics, clock)

	var tileSource server.TileSource
	if cfg.ProxyTiles {
		proxy, err := tiles.NewProxy(client, cfg, metrics)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create tile proxy")
		}
		tileSource = proxy
	}

	srvCtx := server.NewServerContext(cfg, feeds, tileSource, metrics, clock)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", listenAddr).
			Bool("proxy_tiles", cfg.ProxyTiles).
			Msg("Web server started")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
