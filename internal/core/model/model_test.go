package model

import (
	"errors"
	"testing"
)

func validPark() ParkGeometry {
	return ParkGeometry{
		Name:        "test",
		Boundary:    []GeoCoordinate{{34.43, -118.60}, {34.43, -118.59}, {34.42, -118.59}},
		TopLeft:     GeoCoordinate{Lat: 34.4311, Lon: -118.6012},
		BottomRight: GeoCoordinate{Lat: 34.4194, Lon: -118.5912},
	}
}

func TestValidate_AcceptsNorthWestTopLeft(t *testing.T) {
	if err := validPark().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_RejectsSwappedCorners(t *testing.T) {
	g := validPark()
	g.TopLeft, g.BottomRight = g.BottomRight, g.TopLeft
	if err := g.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("err=%v want ErrInvalidGeometry", err)
	}

	g = validPark()
	g.TopLeft.Lon, g.BottomRight.Lon = g.BottomRight.Lon, g.TopLeft.Lon
	if err := g.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("lon swap err=%v want ErrInvalidGeometry", err)
	}

	g = validPark()
	g.Boundary = nil
	if err := g.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("empty boundary err=%v want ErrInvalidGeometry", err)
	}
}

func TestOverlayRect_MatchesCorners(t *testing.T) {
	g := validPark()
	r := g.OverlayRect()
	if r.MaxLat != g.TopLeft.Lat || r.MinLat != g.BottomRight.Lat {
		t.Fatalf("lat extent mismatch: %+v", r)
	}
	if r.MinLon != g.TopLeft.Lon || r.MaxLon != g.BottomRight.Lon {
		t.Fatalf("lon extent mismatch: %+v", r)
	}
	if !r.Contains(r.Center()) {
		t.Fatalf("rect must contain its own center")
	}
}

func TestRectOf(t *testing.T) {
	if got := RectOf(nil); got != (Rect{}) {
		t.Fatalf("RectOf(nil)=%+v want zero", got)
	}
	r := RectOf([]GeoCoordinate{{1, 5}, {-2, 3}, {4, -1}})
	want := Rect{MinLat: -2, MinLon: -1, MaxLat: 4, MaxLon: 5}
	if r != want {
		t.Fatalf("RectOf=%+v want %+v", r, want)
	}
}
