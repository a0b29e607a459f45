package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// representativePoint returns the centroid of g on the sphere. When that
// fails it falls back to the mean of all coordinate pairs, and to (0, 0)
// when there are none; the centroid error is returned alongside so the
// caller can log it.
func representativePoint(g *geometry) (lat, lng float64, err error) {
	lat, lng, err = centroid(g)
	if err == nil {
		return lat, lng, nil
	}
	lat, lng = meanPoint(g)
	return lat, lng, err
}

func centroid(g *geometry) (lat, lng float64, err error) {
	if g == nil {
		return 0, 0, fmt.Errorf("%w: no geometry", geoquiz.ErrMalformedGeometry)
	}

	// s2 panics on some degenerate loops rather than failing validation.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", geoquiz.ErrMalformedGeometry, r)
		}
	}()

	var polygons [][][][]float64
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return 0, 0, fmt.Errorf("%w: %v", geoquiz.ErrMalformedGeometry, err)
		}
		polygons = [][][][]float64{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return 0, 0, fmt.Errorf("%w: %v", geoquiz.ErrMalformedGeometry, err)
		}
	default:
		return 0, 0, fmt.Errorf("%w: unsupported type %q", geoquiz.ErrMalformedGeometry, g.Type)
	}

	// Loop.Centroid is already scaled by the loop area, so summing outer
	// rings and subtracting holes yields the area-weighted centroid.
	var sum r3.Vector
	for _, rings := range polygons {
		for i, ring := range rings {
			loop, err := loopFromRing(ring)
			if err != nil {
				return 0, 0, err
			}
			c := loop.Centroid().Vector
			if i == 0 {
				sum = sum.Add(c)
			} else {
				sum = sum.Sub(c)
			}
		}
	}
	if sum.Norm() == 0 {
		return 0, 0, fmt.Errorf("%w: zero area", geoquiz.ErrMalformedGeometry)
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return ll.Lat.Degrees(), ll.Lng.Degrees(), nil
}

// loopFromRing builds an s2 loop from a GeoJSON linear ring. The closing
// vertex is dropped and the loop is normalized so that winding order does
// not matter.
func loopFromRing(ring [][]float64) (*s2.Loop, error) {
	if len(ring) > 1 && samePosition(ring[0], ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}

	pts := make([]s2.Point, 0, len(ring))
	for _, pos := range ring {
		if len(pos) < 2 {
			return nil, fmt.Errorf("%w: position with %d values", geoquiz.ErrMalformedGeometry, len(pos))
		}
		lng, lat := pos[0], pos[1]
		if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
			return nil, fmt.Errorf("%w: position out of range (%g, %g)", geoquiz.ErrMalformedGeometry, lng, lat)
		}
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
		if n := len(pts); n > 0 && pts[n-1].ApproxEqual(p) {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: ring with %d distinct vertices", geoquiz.ErrMalformedGeometry, len(pts))
	}

	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	if err := loop.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", geoquiz.ErrMalformedGeometry, err)
	}
	return loop, nil
}

func samePosition(a, b []float64) bool {
	return len(a) >= 2 && len(b) >= 2 && a[0] == b[0] && a[1] == b[1]
}

// meanPoint averages every [lng, lat] pair found in g's coordinates,
// however deeply nested.
func meanPoint(g *geometry) (lat, lng float64) {
	if g == nil || len(g.Coordinates) == 0 {
		return 0, 0
	}
	var raw any
	if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
		return 0, 0
	}

	var pairs [][2]float64
	flatten(raw, &pairs)
	if len(pairs) == 0 {
		return 0, 0
	}

	var sumLat, sumLng float64
	for _, p := range pairs {
		sumLng += p[0]
		sumLat += p[1]
	}
	n := float64(len(pairs))
	return sumLat / n, sumLng / n
}

func flatten(v any, out *[][2]float64) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return
	}
	if lng, ok := arr[0].(float64); ok {
		if len(arr) < 2 {
			return
		}
		if lat, ok := arr[1].(float64); ok {
			*out = append(*out, [2]float64{lng, lat})
		}
		return
	}
	for _, part := range arr {
		flatten(part, out)
	}
}
