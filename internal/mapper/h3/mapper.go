// Package h3mapper covers park geometry with H3 cells.
package h3mapper

import (
	"errors"
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
)

// CellsForBoundary returns the sorted, de-duplicated cells whose centers fall
// inside the park ring. Parks smaller than one cell still report the cell of
// their first vertex so the coverage is never empty.
func CellsForBoundary(boundary []model.GeoCoordinate, res int) ([]string, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	loop := toLoop(boundary)
	if len(loop) < 3 {
		return nil, errors.New("boundary ring has < 3 distinct vertices")
	}

	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}
	if len(cells) == 0 {
		c, err := h3.LatLngToCell(loop[0], res)
		if err != nil {
			return nil, fmt.Errorf("h3 cell for vertex: %w", err)
		}
		cells = []h3.Cell{c}
	}

	out := make([]string, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		s := c.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

func CellForCoordinate(c model.GeoCoordinate, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	cell, err := h3.LatLngToCell(h3.LatLng{Lat: c.Lat, Lng: c.Lon}, res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return cell.String(), nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// drops an explicit closing vertex; the ring is implicitly closed
func toLoop(coords []model.GeoCoordinate) h3.GeoLoop {
	loop := make(h3.GeoLoop, 0, len(coords))
	for _, c := range coords {
		loop = append(loop, h3.LatLng{Lat: c.Lat, Lng: c.Lon})
	}
	if len(loop) >= 2 {
		last, first := loop[len(loop)-1], loop[0]
		if last.Lat == first.Lat && last.Lng == first.Lng {
			loop = loop[:len(loop)-1]
		}
	}
	return loop
}
