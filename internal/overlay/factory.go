package overlay

import (
	"math/rand/v2"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/mapper"
	"github.com/mohammed-shakir/parkmap/internal/records"
)

const (
	fieldName     = "name"
	fieldSubtitle = "subtitle"
	fieldType     = "type"
	fieldLocation = "location"

	// ParkImage is the asset name of the raster park overlay.
	ParkImage = "overlay_park"
)

// Rand is the randomness consumed by character markers. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG source seeded from the runtime when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

type CharacterOptions struct {
	// center is drawn from the first CenterCandidates trace points
	CenterCandidates int
	RadiusMin        int
	RadiusMax        int
}

func DefaultCharacterOptions() CharacterOptions {
	return CharacterOptions{CenterCandidates: 4, RadiusMin: 5, RadiusMax: 39}
}

func BuildRasterOverlay(g model.ParkGeometry) *RasterOverlay {
	return &RasterOverlay{Footprint: g.OverlayRect(), Image: ParkImage}
}

func BuildBoundary(g model.ParkGeometry) *BoundaryShape {
	ring := make([]model.GeoCoordinate, len(g.Boundary))
	copy(ring, g.Boundary)
	return &BoundaryShape{Ring: ring}
}

// BuildAttractionMarkers builds one marker per record. Records without a
// usable location are skipped and counted; a bad category is not an error.
func BuildAttractionMarkers(recs []records.Record) (markers []*AttractionMarker, skipped int) {
	markers = make([]*AttractionMarker, 0, len(recs))
	for _, r := range recs {
		c, err := mapper.ParseCoordinate(r, fieldLocation)
		if err != nil {
			skipped++
			continue
		}
		markers = append(markers, NewAttractionMarker(c, r[fieldName], r[fieldSubtitle], ParseCategory(r[fieldType])))
	}
	return markers, skipped
}

// BuildRoute keeps point order; an empty list yields an empty path.
func BuildRoute(points []string) (route *RoutePath, skipped int) {
	coords, skipped := mapper.ParsePoints(points)
	return &RoutePath{Points: coords}, skipped
}

// BuildCharacterMarker picks a center among the first opts.CenterCandidates
// trace points and a whole-metre radius in [RadiusMin, RadiusMax]. Every call
// draws again. With no usable points the marker is degenerate. A nil rng
// draws from a runtime-seeded source.
func BuildCharacterMarker(name string, col Color, points []string, rng Rand, opts CharacterOptions) (*CharacterMarker, int) {
	coords, skipped := mapper.ParsePoints(points)
	if len(coords) == 0 {
		return &CharacterMarker{Name: name, Color: col}, skipped
	}
	if rng == nil {
		rng = NewRand(0)
	}

	n := min(max(opts.CenterCandidates, 1), len(coords))
	center := coords[rng.IntN(n)]

	lo, hi := opts.RadiusMin, opts.RadiusMax
	if hi < lo {
		lo, hi = hi, lo
	}
	radius := float64(lo + rng.IntN(hi-lo+1))
	return NewCharacterMarker(name, col, center, radius), skipped
}
