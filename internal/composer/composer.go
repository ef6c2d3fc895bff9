// Package composer turns the live map set into a GeoJSON FeatureCollection
// with simplestyle properties.
package composer

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
	"github.com/mohammed-shakir/parkmap/internal/render"
)

const strokeWidth = 3

// Compose emits overlays in live-set order followed by annotations. Overlays
// with an empty renderer, degenerate character markers and empty routes
// produce no feature.
func Compose(overlays []overlay.Overlay, annotations []overlay.Annotation, d *render.Dispatcher) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var bound orb.Bound
	var bounded bool
	add := func(f *geojson.Feature) {
		fc.Append(f)
		b := f.Geometry.Bound()
		if !bounded {
			bound, bounded = b, true
			return
		}
		bound = bound.Union(b)
	}

	for _, o := range overlays {
		r := d.RendererFor(o)
		if r.IsEmpty() {
			continue
		}
		fb := featureBuilder{r: r}
		o.Accept(&fb)
		if fb.out != nil {
			add(fb.out)
		}
	}

	for _, a := range annotations {
		m := d.MarkerFor(a)
		f := geojson.NewFeature(point(a.Coordinate()))
		f.Properties["kind"] = "annotation"
		f.Properties["title"] = a.Title()
		f.Properties["description"] = a.Subtitle()
		f.Properties["category"] = m.Category.String()
		f.Properties["marker-symbol"] = m.Image.Name
		f.Properties["marker-url"] = m.Image.URL
		f.Properties["callout"] = m.ShowCallout
		add(f)
	}

	if bounded {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

type featureBuilder struct {
	r   render.Renderer
	out *geojson.Feature
}

var _ overlay.Visitor = (*featureBuilder)(nil)

func (b *featureBuilder) VisitRaster(o *overlay.RasterOverlay) {
	f := geojson.NewFeature(rectPolygon(b.r.Footprint))
	f.Properties["kind"] = o.Kind().String()
	f.Properties["image"] = b.r.Image.Name
	f.Properties["image-url"] = b.r.Image.URL
	if b.r.Image.Missing {
		f.Properties["image-missing"] = true
	}
	b.out = f
}

func (b *featureBuilder) VisitPolyline(o *overlay.RoutePath) {
	if len(o.Points) == 0 {
		return
	}
	ls := make(orb.LineString, 0, len(o.Points))
	for _, p := range o.Points {
		ls = append(ls, point(p))
	}
	b.out = b.stroked(geojson.NewFeature(ls), o.Kind())
}

func (b *featureBuilder) VisitPolygon(o *overlay.BoundaryShape) {
	if len(o.Ring) == 0 {
		return
	}
	ring := make(orb.Ring, 0, len(o.Ring)+1)
	for _, p := range o.Ring {
		ring = append(ring, point(p))
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	b.out = b.stroked(geojson.NewFeature(orb.Polygon{ring}), o.Kind())
}

func (b *featureBuilder) VisitCircle(o *overlay.CharacterMarker) {
	if o.Degenerate() {
		return
	}
	f := b.stroked(geojson.NewFeature(point(o.Center)), o.Kind())
	f.Properties["title"] = o.Name
	f.Properties["radius"] = o.RadiusM
	b.out = f
}

func (b *featureBuilder) stroked(f *geojson.Feature, k overlay.Kind) *geojson.Feature {
	f.Properties["kind"] = k.String()
	f.Properties["stroke"] = b.r.Stroke.Hex()
	f.Properties["stroke-width"] = strokeWidth
	if !b.r.Fill {
		f.Properties["fill-opacity"] = 0
	}
	return f
}

func point(c model.GeoCoordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

func rectPolygon(r model.Rect) orb.Polygon {
	return orb.Bound{
		Min: orb.Point{r.MinLon, r.MinLat},
		Max: orb.Point{r.MaxLon, r.MaxLat},
	}.ToPolygon()
}

// ETag is a strong validator over the encoded body.
func ETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

type Result struct {
	Body        []byte
	ContentType string
	ETag        string
	Features    int
}

// Encode marshals fc for the negotiated content type.
func Encode(fc *geojson.FeatureCollection, neg Negotiation) (Result, error) {
	body, err := fc.MarshalJSON()
	if err != nil {
		return Result{}, fmt.Errorf("marshal FeatureCollection: %w", err)
	}
	return Result{
		Body:        body,
		ContentType: neg.ContentType,
		ETag:        ETag(body),
		Features:    len(fc.Features),
	}, nil
}
