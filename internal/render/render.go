// Package render resolves the visual treatment of live overlays and
// annotations.
package render

import (
	"fmt"
	"log/slog"

	"github.com/mohammed-shakir/parkmap/internal/assets"
	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/core/observability"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
)

type RendererKind int

const (
	RendererEmpty RendererKind = iota
	RendererImage
	RendererStroke
)

func (k RendererKind) String() string {
	switch k {
	case RendererImage:
		return "image"
	case RendererStroke:
		return "stroke"
	default:
		return "empty"
	}
}

// Renderer describes how one overlay is drawn. Fill is always false for the
// stroke renderers produced here.
type Renderer struct {
	Kind      RendererKind
	Stroke    overlay.Color
	Fill      bool
	Image     assets.Handle
	Footprint model.Rect
}

func (r Renderer) IsEmpty() bool { return r.Kind == RendererEmpty }

// Marker is the visual for an annotation.
type Marker struct {
	Image       assets.Handle
	Category    overlay.Category
	ShowCallout bool
}

var (
	RouteStroke    = overlay.Green
	BoundaryStroke = overlay.Magenta
)

// ImageResolver is satisfied by *assets.Resolver.
type ImageResolver interface {
	Resolve(name string) assets.Handle
}

var markerImages = [...]string{
	overlay.CategoryGeneric:  "star",
	overlay.CategoryRide:     "ride",
	overlay.CategoryFood:     "food",
	overlay.CategoryFirstAid: "firstaid",
}

// ImageFor maps a category to its marker image name.
func ImageFor(c overlay.Category) string {
	if c < 0 || int(c) >= len(markerImages) {
		return markerImages[overlay.CategoryGeneric]
	}
	return markerImages[c]
}

type Dispatcher struct {
	images ImageResolver
	logger *slog.Logger
}

func NewDispatcher(images ImageResolver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if images == nil {
		images = assets.New("", 0)
	}
	return &Dispatcher{images: images, logger: logger}
}

// RendererFor never fails; an overlay it cannot classify gets an empty
// renderer.
func (d *Dispatcher) RendererFor(o overlay.Overlay) Renderer {
	if o == nil {
		d.logger.Warn("no renderer for overlay", "overlay", "nil")
		observability.IncRenderUnresolved()
		return Renderer{}
	}
	v := rendererVisitor{images: d.images}
	o.Accept(&v)
	observability.IncRenderDispatch(o.Kind().String())
	return v.out
}

func (d *Dispatcher) MarkerFor(a overlay.Annotation) Marker {
	switch t := a.(type) {
	case *overlay.AttractionMarker:
		observability.IncRenderDispatch("attraction")
		return Marker{
			Image:       d.images.Resolve(ImageFor(t.Category())),
			Category:    t.Category(),
			ShowCallout: true,
		}
	default:
		d.logger.Warn("no marker for annotation", "type", fmt.Sprintf("%T", a))
		observability.IncRenderUnresolved()
		return Marker{Image: d.images.Resolve(ImageFor(overlay.CategoryGeneric)), ShowCallout: true}
	}
}

type rendererVisitor struct {
	images ImageResolver
	out    Renderer
}

var _ overlay.Visitor = (*rendererVisitor)(nil)

func (v *rendererVisitor) VisitRaster(o *overlay.RasterOverlay) {
	v.out = Renderer{
		Kind:      RendererImage,
		Image:     v.images.Resolve(o.Image),
		Footprint: o.Footprint,
	}
}

func (v *rendererVisitor) VisitPolyline(*overlay.RoutePath) {
	v.out = Renderer{Kind: RendererStroke, Stroke: RouteStroke}
}

func (v *rendererVisitor) VisitPolygon(*overlay.BoundaryShape) {
	v.out = Renderer{Kind: RendererStroke, Stroke: BoundaryStroke}
}

func (v *rendererVisitor) VisitCircle(o *overlay.CharacterMarker) {
	v.out = Renderer{Kind: RendererStroke, Stroke: o.Color}
}
