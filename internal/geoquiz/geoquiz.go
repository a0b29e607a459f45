// Package geoquiz defines the core domain types and sentinel errors shared by
// the catalog loader, the game manager and the HTTP layer.
// It has zero external dependencies.
package geoquiz

import "errors"

var (
	// ErrEmptyCatalog is returned when a catalog load yields no usable countries.
	ErrEmptyCatalog = errors.New("no valid countries found in GeoJSON")

	// ErrNoActiveSession is returned when a game is queried or answered before
	// one was started, or after it has finished.
	ErrNoActiveSession = errors.New("no active game")

	// ErrMalformedGeometry marks a feature whose centroid could not be computed.
	// The loader recovers from it; callers never see it.
	ErrMalformedGeometry = errors.New("malformed geometry")
)

// Country is one playable record of the catalog. Name is the answer key.
type Country struct {
	Name    string
	Code    string
	Lat     float64
	Lng     float64
	Geohash string
}
