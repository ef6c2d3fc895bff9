// Package mapper converts stored coordinate encodings into geographic
// coordinates and frames the park region.
package mapper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/records"
)

var ErrMalformedCoordinate = errors.New("malformed coordinate")

// ParsePoint decodes the packed "{x, y}" format: x is latitude, y longitude.
func ParsePoint(s string) (model.GeoCoordinate, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "{")
	t = strings.TrimSuffix(t, "}")
	parts := strings.Split(t, ",")
	if len(parts) != 2 {
		return model.GeoCoordinate{}, fmt.Errorf("%w: %q: want two components", ErrMalformedCoordinate, s)
	}
	lat, err := parseDegrees(parts[0])
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("%w: %q: x: %v", ErrMalformedCoordinate, s, err)
	}
	lon, err := parseDegrees(parts[1])
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("%w: %q: y: %v", ErrMalformedCoordinate, s, err)
	}
	return model.GeoCoordinate{Lat: lat, Lon: lon}, nil
}

// ParseCoordinate extracts a coordinate stored under field, either packed in
// one string or split across <field>_lat and <field>_lon (falling back to
// latitude and longitude).
func ParseCoordinate(rec records.Record, field string) (model.GeoCoordinate, error) {
	if packed, ok := rec[field]; ok && strings.TrimSpace(packed) != "" {
		return ParsePoint(packed)
	}

	latRaw, latOK := rec[field+"_lat"]
	lonRaw, lonOK := rec[field+"_lon"]
	if !latOK && !lonOK {
		latRaw, latOK = rec["latitude"]
		lonRaw, lonOK = rec["longitude"]
	}
	if !latOK || !lonOK {
		return model.GeoCoordinate{}, fmt.Errorf("%w: field %q not present", ErrMalformedCoordinate, field)
	}
	lat, err := parseDegrees(latRaw)
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("%w: %s_lat: %v", ErrMalformedCoordinate, field, err)
	}
	lon, err := parseDegrees(lonRaw)
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("%w: %s_lon: %v", ErrMalformedCoordinate, field, err)
	}
	return model.GeoCoordinate{Lat: lat, Lon: lon}, nil
}

// ParsePoints decodes points in order, skipping malformed entries.
func ParsePoints(points []string) (coords []model.GeoCoordinate, skipped int) {
	coords = make([]model.GeoCoordinate, 0, len(points))
	for _, p := range points {
		c, err := ParsePoint(p)
		if err != nil {
			skipped++
			continue
		}
		coords = append(coords, c)
	}
	return coords, skipped
}

// ComputeRegion centers on the raster overlay. The longitude span is left at
// zero; the map view derives it from its viewport aspect ratio.
func ComputeRegion(g model.ParkGeometry) model.Region {
	return model.Region{
		Center: g.OverlayRect().Center(),
		Span: model.Span{
			LatDelta: math.Abs(g.TopLeft.Lat - g.BottomRight.Lat),
			LonDelta: 0,
		},
	}
}

func parseDegrees(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", v)
	}
	return f, nil
}
