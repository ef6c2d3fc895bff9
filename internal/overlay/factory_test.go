package overlay

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/records"
)

// scripted returns queued values, each reduced modulo n.
type scripted struct{ vals []int }

func (s *scripted) IntN(n int) int {
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v % n
}

var testPark = model.ParkGeometry{
	Name:        "test",
	Boundary:    []model.GeoCoordinate{{Lat: 34.43, Lon: -118.60}, {Lat: 34.43, Lon: -118.59}, {Lat: 34.42, Lon: -118.59}, {Lat: 34.42, Lon: -118.60}},
	TopLeft:     model.GeoCoordinate{Lat: 34.4311, Lon: -118.6012},
	BottomRight: model.GeoCoordinate{Lat: 34.4194, Lon: -118.5912},
}

var trace = []string{"{1,1}", "{2,2}", "{3,3}", "{4,4}", "{5,5}", "{6,6}"}

func TestBuildRasterOverlay_FootprintIsParkRectangle(t *testing.T) {
	o := BuildRasterOverlay(testPark)
	if o.Kind() != KindRaster || o.Image != ParkImage {
		t.Fatalf("unexpected overlay %+v", o)
	}
	if o.Bounds() != testPark.OverlayRect() {
		t.Fatalf("footprint=%+v want %+v", o.Bounds(), testPark.OverlayRect())
	}
}

func TestBuildBoundary_CopiesRing(t *testing.T) {
	g := testPark
	g.Boundary = slices.Clone(testPark.Boundary)
	b := BuildBoundary(g)
	if !slices.Equal(b.Ring, g.Boundary) {
		t.Fatalf("ring=%v", b.Ring)
	}
	g.Boundary[0] = model.GeoCoordinate{}
	if b.Ring[0].IsZero() {
		t.Fatalf("boundary shape must not alias park geometry")
	}
}

func TestBuildAttractionMarkers_Categories(t *testing.T) {
	recs := []records.Record{
		{"name": "Food", "location": "{1,2}", "type": "2", "subtitle": "eat"},
		{"name": "Bogus", "location": "{1,2}", "type": "bogus"},
		{"name": "Absent", "location": "{1,2}"},
		{"name": "Range", "location": "{1,2}", "type": "9"},
		{"name": "Split", "location_lat": "3", "location_lon": "4", "type": "3"},
		{"name": "NoLocation", "type": "1"},
	}
	markers, skipped := BuildAttractionMarkers(recs)
	if skipped != 1 || len(markers) != 5 {
		t.Fatalf("markers=%d skipped=%d", len(markers), skipped)
	}
	want := []Category{CategoryFood, CategoryGeneric, CategoryGeneric, CategoryGeneric, CategoryFirstAid}
	for i, m := range markers {
		if m.Category() != want[i] {
			t.Fatalf("marker %d (%s) category=%v want %v", i, m.Title(), m.Category(), want[i])
		}
	}
	if markers[0].Subtitle() != "eat" || markers[0].Coordinate() != (model.GeoCoordinate{Lat: 1, Lon: 2}) {
		t.Fatalf("marker 0=%+v", markers[0])
	}
	if markers[4].Coordinate() != (model.GeoCoordinate{Lat: 3, Lon: 4}) {
		t.Fatalf("split-field marker=%+v", markers[4].Coordinate())
	}
}

func TestBuildRoute_EmptyAndOrdered(t *testing.T) {
	r, skipped := BuildRoute(nil)
	if len(r.Points) != 0 || skipped != 0 || r.Kind() != KindPolyline {
		t.Fatalf("empty route=%+v skipped=%d", r, skipped)
	}

	r, _ = BuildRoute(trace)
	if len(r.Points) != len(trace) {
		t.Fatalf("len=%d want %d", len(r.Points), len(trace))
	}
	for i, p := range r.Points {
		if p.Lat != float64(i+1) {
			t.Fatalf("point %d out of order: %+v", i, p)
		}
	}
}

func TestBuildCharacterMarker_DeterministicSource(t *testing.T) {
	rng := &scripted{vals: []int{2, 30}}
	m, _ := BuildCharacterMarker("Batman", Blue, trace, rng, DefaultCharacterOptions())
	if m.Center != (model.GeoCoordinate{Lat: 3, Lon: 3}) {
		t.Fatalf("center=%+v want third point", m.Center)
	}
	if m.RadiusM != 35 {
		t.Fatalf("radius=%v want 5+30", m.RadiusM)
	}
	if m.Color != Blue || m.Name != "Batman" || m.Kind() != KindCircle {
		t.Fatalf("marker=%+v", m)
	}
}

func TestBuildCharacterMarker_AlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	firstFour := []model.GeoCoordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}, {Lat: 4, Lon: 4}}
	for range 500 {
		m, _ := BuildCharacterMarker("Taz", Orange, trace, rng, DefaultCharacterOptions())
		if !slices.Contains(firstFour, m.Center) {
			t.Fatalf("center %+v not among first four points", m.Center)
		}
		if m.RadiusM < 5 || m.RadiusM > 39 {
			t.Fatalf("radius %v outside [5,39]", m.RadiusM)
		}
	}
}

func TestBuildCharacterMarker_ShortAndMissingTraces(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	m, _ := BuildCharacterMarker("Tweety", Yellow, []string{"{9,9}"}, rng, DefaultCharacterOptions())
	if m.Center != (model.GeoCoordinate{Lat: 9, Lon: 9}) {
		t.Fatalf("single-point trace center=%+v", m.Center)
	}

	m, skipped := BuildCharacterMarker("Ghost", Red, []string{"junk"}, rng, DefaultCharacterOptions())
	if !m.Degenerate() || skipped != 1 {
		t.Fatalf("expected degenerate marker, got %+v skipped=%d", m, skipped)
	}
	if m.Color != Red || m.Name != "Ghost" {
		t.Fatalf("degenerate marker must keep name and color: %+v", m)
	}
	if m.Bounds() != (model.Rect{}) {
		t.Fatalf("degenerate bounds=%+v", m.Bounds())
	}

	m, _ = BuildCharacterMarker("Nobody", Red, nil, rng, DefaultCharacterOptions())
	if !m.Degenerate() {
		t.Fatalf("nil trace must be degenerate")
	}
}

func TestBuildCharacterMarker_NilRandStillPlaces(t *testing.T) {
	m, _ := BuildCharacterMarker("Batman", Blue, trace, nil, DefaultCharacterOptions())
	if m.Degenerate() {
		t.Fatalf("valid trace with nil rng must be placed: %+v", m)
	}
	if m.RadiusM < 5 || m.RadiusM > 39 {
		t.Fatalf("radius %v outside [5,39]", m.RadiusM)
	}
}

func TestCharacterMarker_ZeroRadiusDrawIsPlaced(t *testing.T) {
	opts := CharacterOptions{CenterCandidates: 4, RadiusMin: 0, RadiusMax: 0}
	m, _ := BuildCharacterMarker("Taz", Orange, []string{"{0,0}"}, &scripted{vals: []int{0, 0}}, opts)
	if m.Degenerate() {
		t.Fatalf("a drawn marker is never degenerate, even at radius 0 on {0,0}")
	}
	if !(&CharacterMarker{Name: "Ghost"}).Degenerate() {
		t.Fatalf("an unplaced marker is degenerate")
	}
}

type kindCounter struct{ seen []Kind }

func (k *kindCounter) VisitRaster(*RasterOverlay)   { k.seen = append(k.seen, KindRaster) }
func (k *kindCounter) VisitPolyline(*RoutePath)     { k.seen = append(k.seen, KindPolyline) }
func (k *kindCounter) VisitPolygon(*BoundaryShape)  { k.seen = append(k.seen, KindPolygon) }
func (k *kindCounter) VisitCircle(*CharacterMarker) { k.seen = append(k.seen, KindCircle) }

func TestAccept_DispatchesToMatchingVisitorMethod(t *testing.T) {
	route, _ := BuildRoute(trace)
	char, _ := BuildCharacterMarker("c", Blue, trace, &scripted{vals: []int{0, 0}}, DefaultCharacterOptions())
	live := []Overlay{BuildRasterOverlay(testPark), route, BuildBoundary(testPark), char}

	v := &kindCounter{}
	for _, o := range live {
		o.Accept(v)
	}
	for i, o := range live {
		if v.seen[i] != o.Kind() {
			t.Fatalf("overlay %d visited as %v, Kind()=%v", i, v.seen[i], o.Kind())
		}
	}
}
