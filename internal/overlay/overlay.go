// Package overlay defines the closed set of overlay and annotation kinds that
// can live on the map surface, and the pure builders that produce them.
package overlay

import (
	"github.com/mohammed-shakir/parkmap/internal/core/model"
)

type Kind int

const (
	KindRaster Kind = iota
	KindPolyline
	KindPolygon
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindRaster:
		return "raster"
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Overlay is a geographically anchored shape or image. The set of
// implementations is closed to this package.
type Overlay interface {
	Kind() Kind
	Accept(v Visitor)
	Bounds() model.Rect
	sealed()
}

// Visitor has one method per overlay kind. Adding a kind adds a method here,
// so every visitor stops compiling until it handles the new kind.
type Visitor interface {
	VisitRaster(o *RasterOverlay)
	VisitPolyline(o *RoutePath)
	VisitPolygon(o *BoundaryShape)
	VisitCircle(o *CharacterMarker)
}

// Annotation is a point-anchored marker with a callout.
type Annotation interface {
	Coordinate() model.GeoCoordinate
	Title() string
	Subtitle() string
	sealedAnnotation()
}

// RasterOverlay is the park image drawn over its geographic rectangle. The
// image itself is resolved by the renderer.
type RasterOverlay struct {
	Footprint model.Rect
	Image     string
}

func (o *RasterOverlay) Kind() Kind         { return KindRaster }
func (o *RasterOverlay) Accept(v Visitor)   { v.VisitRaster(o) }
func (o *RasterOverlay) Bounds() model.Rect { return o.Footprint }
func (o *RasterOverlay) sealed()            {}

// RoutePath is an ordered polyline; it may hold zero points.
type RoutePath struct {
	Points []model.GeoCoordinate
}

func (o *RoutePath) Kind() Kind         { return KindPolyline }
func (o *RoutePath) Accept(v Visitor)   { v.VisitPolyline(o) }
func (o *RoutePath) Bounds() model.Rect { return model.RectOf(o.Points) }
func (o *RoutePath) sealed()            {}

// BoundaryShape is the closed park polygon.
type BoundaryShape struct {
	Ring []model.GeoCoordinate
}

func (o *BoundaryShape) Kind() Kind         { return KindPolygon }
func (o *BoundaryShape) Accept(v Visitor)   { v.VisitPolygon(o) }
func (o *BoundaryShape) Bounds() model.Rect { return model.RectOf(o.Ring) }
func (o *BoundaryShape) sealed()            {}

// CharacterMarker is a circle around a randomly chosen recent sighting.
// A marker built from a missing trace is degenerate: it was never placed and
// has no center or radius.
type CharacterMarker struct {
	Name    string
	Color   Color
	Center  model.GeoCoordinate
	RadiusM float64

	placed bool
}

// NewCharacterMarker returns a placed marker. A zero radius is allowed.
func NewCharacterMarker(name string, col Color, center model.GeoCoordinate, radiusM float64) *CharacterMarker {
	return &CharacterMarker{Name: name, Color: col, Center: center, RadiusM: radiusM, placed: true}
}

func (o *CharacterMarker) Kind() Kind       { return KindCircle }
func (o *CharacterMarker) Accept(v Visitor) { v.VisitCircle(o) }
func (o *CharacterMarker) sealed()          {}

func (o *CharacterMarker) Degenerate() bool { return !o.placed }

func (o *CharacterMarker) Bounds() model.Rect {
	if o.Degenerate() {
		return model.Rect{}
	}
	const metresPerDegree = 111320.0
	d := o.RadiusM / metresPerDegree
	return model.Rect{
		MinLat: o.Center.Lat - d, MaxLat: o.Center.Lat + d,
		MinLon: o.Center.Lon - d, MaxLon: o.Center.Lon + d,
	}
}

// AttractionMarker is one point of interest. Immutable once built.
type AttractionMarker struct {
	coord    model.GeoCoordinate
	title    string
	subtitle string
	category Category
}

func NewAttractionMarker(c model.GeoCoordinate, title, subtitle string, cat Category) *AttractionMarker {
	return &AttractionMarker{coord: c, title: title, subtitle: subtitle, category: cat}
}

func (a *AttractionMarker) Coordinate() model.GeoCoordinate { return a.coord }
func (a *AttractionMarker) Title() string                   { return a.title }
func (a *AttractionMarker) Subtitle() string                { return a.subtitle }
func (a *AttractionMarker) Category() Category              { return a.category }
func (a *AttractionMarker) sealedAnnotation()               {}
