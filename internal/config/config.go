package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/geoquiz.db"`
	WebDir   string     `env:"WEB_DIR" envDefault:"web"`

	// GeoJSONPath is re-read on every new game.
	GeoJSONPath string `env:"GEOJSON_PATH" envDefault:"static/data/world-countries.geojson"`
	// RequireCountryCode drops features that carry no ISO alpha-2 code.
	RequireCountryCode bool `env:"REQUIRE_COUNTRY_CODE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
