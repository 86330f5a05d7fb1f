package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/quakemap/internal/config"
	"github.com/woozymasta/quakemap/internal/feed"
	"github.com/woozymasta/quakemap/internal/logger"
	"github.com/woozymasta/quakemap/internal/quake"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"   description:"Path to configuration file (built-in defaults if empty)"`
	Feed       string        `short:"u" long:"url"     env:"FEED_URL"      description:"Earthquake feed URL, overrides configuration"`
	Output     string        `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format     string        `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FETCH_TIMEOUT" description:"Upstream request timeout" default:"30s"`
	Legend     bool          `short:"l" long:"legend"  description:"Include the depth legend"`
}

// output is the rendered marker layer with an optional legend.
type output struct {
	Markers any           `json:"markers" yaml:"markers"`
	Legend  *quake.Legend `json:"legend,omitempty" yaml:"legend,omitempty"`
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

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Feed != "" {
		cfg.EarthquakesURL = opts.Feed
	}

	client := feed.NewClient(&http.Client{Timeout: opts.Timeout}, cfg, nil, nil)

	events, err := client.Earthquakes(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch earthquake feed")
	}

	fc := quake.Render(events)

	// round-trip through JSON so YAML keeps the GeoJSON member layout
	raw, err := json.Marshal(fc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal markers")
	}
	var markers any
	if err := json.Unmarshal(raw, &markers); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal markers")
	}

	out := output{Markers: markers}
	if opts.Legend {
		legend := quake.NewLegend(cfg.LegendGrades)
		out.Legend = &legend
	}

	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(out)
	} else {
		outputData, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal output")
	}

	if opts.Output == "" {
		fmt.Println(string(outputData))
		return
	}

	if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
	}

	log.Info().
		Int("markers", len(fc.Features)).
		Str("path", opts.Output).
		Str("format", opts.Format).
		Msg("Markers rendered")
}
