// Package model defines core domain types shared across the service.
package model

import (
	"errors"
	"fmt"
)

var ErrInvalidGeometry = errors.New("invalid park geometry")

// GeoCoordinate is a WGS-84 position in decimal degrees.
type GeoCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c GeoCoordinate) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("{%.6f,%.6f}", c.Lat, c.Lon)
}

// ParkGeometry is the static description of one park. Boundary is a closed
// ring: the last point implicitly connects back to the first.
type ParkGeometry struct {
	Name        string          `json:"name"`
	Boundary    []GeoCoordinate `json:"boundary"`
	TopLeft     GeoCoordinate   `json:"top_left"`
	BottomRight GeoCoordinate   `json:"bottom_right"`
}

func (g ParkGeometry) Validate() error {
	if len(g.Boundary) == 0 {
		return fmt.Errorf("%w: park %q has an empty boundary", ErrInvalidGeometry, g.Name)
	}
	if !(g.TopLeft.Lat > g.BottomRight.Lat) {
		return fmt.Errorf("%w: park %q top-left lat %.6f must be north of bottom-right lat %.6f",
			ErrInvalidGeometry, g.Name, g.TopLeft.Lat, g.BottomRight.Lat)
	}
	if !(g.TopLeft.Lon < g.BottomRight.Lon) {
		return fmt.Errorf("%w: park %q top-left lon %.6f must be west of bottom-right lon %.6f",
			ErrInvalidGeometry, g.Name, g.TopLeft.Lon, g.BottomRight.Lon)
	}
	return nil
}

// OverlayRect is the geographic footprint of the raster overlay image.
func (g ParkGeometry) OverlayRect() Rect {
	return Rect{
		MinLat: g.BottomRight.Lat,
		MinLon: g.TopLeft.Lon,
		MaxLat: g.TopLeft.Lat,
		MaxLon: g.BottomRight.Lon,
	}
}

// Span is an angular extent in degrees.
type Span struct {
	LatDelta float64 `json:"lat_delta"`
	LonDelta float64 `json:"lon_delta"`
}

// Region frames the map viewport.
type Region struct {
	Center GeoCoordinate `json:"center"`
	Span   Span          `json:"span"`
}

type Rect struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

func (r Rect) Contains(c GeoCoordinate) bool {
	return c.Lat >= r.MinLat && c.Lat <= r.MaxLat &&
		c.Lon >= r.MinLon && c.Lon <= r.MaxLon
}

func (r Rect) Center() GeoCoordinate {
	return GeoCoordinate{
		Lat: (r.MinLat + r.MaxLat) / 2,
		Lon: (r.MinLon + r.MaxLon) / 2,
	}
}

// RectOf returns the smallest rect containing all points.
func RectOf(points []GeoCoordinate) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		r.MinLat = min(r.MinLat, p.Lat)
		r.MaxLat = max(r.MaxLat, p.Lat)
		r.MinLon = min(r.MinLon, p.Lon)
		r.MaxLon = max(r.MaxLon, p.Lon)
	}
	return r
}
