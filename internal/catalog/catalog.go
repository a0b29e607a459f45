// Package catalog turns a GeoJSON FeatureCollection of country boundaries
// into the flat list of countries a game is played over.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// geohashPrecision of 5 gives roughly 5 km cells.
const geohashPrecision = 5

// Property keys tried in order; the first non-empty string wins.
var (
	nameKeys = []string{"name", "ADMIN", "NAME", "Country", "country"}
	codeKeys = []string{"ISO3166-1-Alpha-2", "ISO_A2", "iso_a2", "ISO2", "ISO", "code"}
)

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *geometry      `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Loader reads the country catalog from a GeoJSON file. It is re-read on
// every Load so a new game always sees the file as it is on disk.
type Loader struct {
	Path string
	// RequireCode drops features without an ISO code instead of keeping
	// them with an empty one.
	RequireCode bool
	Logger      *slog.Logger
}

func NewLoader(path string, requireCode bool, logger *slog.Logger) *Loader {
	return &Loader{Path: path, RequireCode: requireCode, Logger: logger}
}

// Load opens Path and parses it. An empty result is not an error here.
func (l *Loader) Load(ctx context.Context) ([]geoquiz.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	return l.Parse(f)
}

// Parse decodes a FeatureCollection from r. Features without a usable name
// (or code, when required) are logged and skipped.
func (l *Loader) Parse(r io.Reader) ([]geoquiz.Country, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}

	logger := l.logger()
	countries := make([]geoquiz.Country, 0, len(fc.Features))
	for i, feat := range fc.Features {
		name := firstString(feat.Properties, nameKeys)
		if name == "" {
			logger.Warn("skipping feature with missing name", "index", i)
			continue
		}
		code := firstString(feat.Properties, codeKeys)
		if code == "" && l.RequireCode {
			logger.Warn("skipping feature with missing code", "index", i, "name", name)
			continue
		}

		lat, lng, err := representativePoint(feat.Geometry)
		if err != nil {
			logger.Debug("centroid failed, using coordinate mean", "name", name, "error", err)
		}

		countries = append(countries, geoquiz.Country{
			Name:    name,
			Code:    code,
			Lat:     lat,
			Lng:     lng,
			Geohash: geohash.EncodeWithPrecision(lat, lng, geohashPrecision),
		})
	}

	if len(countries) == 0 {
		logger.Warn("no valid countries found", "features", len(fc.Features))
	} else {
		logger.Info("loaded countries", "count", len(countries), "example", examples(countries, 3))
	}
	return countries, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// firstString returns the first non-empty string value among keys.
// "-99" is Natural Earth's placeholder for a missing code.
func firstString(props map[string]any, keys []string) string {
	for _, k := range keys {
		s, ok := props[k].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" && s != "-99" {
			return s
		}
	}
	return ""
}

func examples(countries []geoquiz.Country, n int) []string {
	n = min(n, len(countries))
	names := make([]string, n)
	for i := range n {
		names[i] = countries[i].Name
	}
	return names
}
