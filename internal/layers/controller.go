package layers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/core/observability"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
	"github.com/mohammed-shakir/parkmap/internal/records"
	"github.com/mohammed-shakir/parkmap/internal/toggleevents"
)

// Surface is the map surface the controller writes to. The controller is
// its only writer.
type Surface interface {
	AddOverlay(o overlay.Overlay)
	AddAnnotation(a overlay.Annotation)
	RemoveOverlays(os []overlay.Overlay)
	RemoveAnnotations(as []overlay.Annotation)
	Overlays() []overlay.Overlay
	Annotations() []overlay.Annotation
}

// Trace is one character sighting collection and its circle color.
type Trace struct {
	Collection string
	Color      overlay.Color
}

type Collections struct {
	Attractions string
	Route       string
	Characters  []Trace
}

func DefaultCollections(park string) Collections {
	return Collections{
		Attractions: park + "Attractions",
		Route:       "EntranceToGoliathRoute",
		Characters: []Trace{
			{Collection: "BatmanLocations", Color: overlay.Blue},
			{Collection: "TazLocations", Color: overlay.Orange},
			{Collection: "TweetyBirdLocations", Color: overlay.Yellow},
		},
	}
}

// Stats describes the live set produced by one rebuild.
type Stats struct {
	Overlays    map[string]int `json:"overlays"`
	Annotations int            `json:"annotations"`
	Skipped     int            `json:"skipped"`
	Degraded    []string       `json:"degraded,omitempty"`
	Duration    time.Duration  `json:"duration_ns"`
}

func (s Stats) OverlayCount() int {
	n := 0
	for _, v := range s.Overlays {
		n += v
	}
	return n
}

// Snapshot is a consistent view of the controller between rebuilds.
type Snapshot struct {
	State       State
	Overlays    []overlay.Overlay
	Annotations []overlay.Annotation
	Stats       Stats
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRand sets the randomness for character markers. The default is a
// runtime-seeded PCG source.
func WithRand(r overlay.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

func WithCollections(cols Collections) Option {
	return func(c *Controller) { c.cols = cols }
}

func WithEvents(s toggleevents.Sink) Option {
	return func(c *Controller) {
		if s != nil {
			c.events = s
		}
	}
}

func WithCharacterOptions(o overlay.CharacterOptions) Option {
	return func(c *Controller) { c.charOpts = o }
}

// WithEventCell tags published events with the park's H3 cell.
func WithEventCell(cell string) Option {
	return func(c *Controller) { c.cell = cell }
}

type Controller struct {
	mu sync.RWMutex

	park     model.ParkGeometry
	store    records.Store
	surface  Surface
	logger   *slog.Logger
	rng      overlay.Rand
	cols     Collections
	charOpts overlay.CharacterOptions
	events   toggleevents.Sink
	cell     string

	state State
	last  Stats
}

func New(park model.ParkGeometry, store records.Store, surface Surface, opts ...Option) (*Controller, error) {
	if err := park.Validate(); err != nil {
		return nil, fmt.Errorf("layers: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("layers: record store is required")
	}
	if surface == nil {
		return nil, fmt.Errorf("layers: map surface is required")
	}
	c := &Controller{
		park:     park,
		store:    store,
		surface:  surface,
		logger:   slog.Default(),
		cols:     DefaultCollections(park.Name),
		charOpts: overlay.DefaultCharacterOptions(),
		events:   toggleevents.Noop{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.rng == nil {
		c.rng = overlay.NewRand(0)
	}
	c.logger = c.logger.With("park", park.Name)
	return c, nil
}

func (c *Controller) Park() model.ParkGeometry { return c.park }

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Set stores the flag and rebuilds, even when the value is unchanged.
func (c *Controller) Set(l Layer, on bool) (Stats, error) {
	if !l.Valid() {
		return Stats{}, fmt.Errorf("%w: %d", ErrUnknownLayer, int(l))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.With(l, on)
	return c.rebuildLocked("set", l.String(), on), nil
}

// Toggle flips one flag and returns its new value.
func (c *Controller) Toggle(l Layer) (bool, Stats, error) {
	if !l.Valid() {
		return false, Stats{}, fmt.Errorf("%w: %d", ErrUnknownLayer, int(l))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	on := !c.state.Get(l)
	c.state = c.state.With(l, on)
	return on, c.rebuildLocked("toggle", l.String(), on), nil
}

// Apply replaces all five flags at once with a single rebuild.
func (c *Controller) Apply(s State) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	return c.rebuildLocked("apply", "", false)
}

func (c *Controller) Rebuild() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildLocked("rebuild", "", false)
}

// View runs fn with no rebuild in progress. fn must not call back into the
// controller's mutating methods.
func (c *Controller) View(fn func(Snapshot)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(Snapshot{
		State:       c.state,
		Overlays:    c.surface.Overlays(),
		Annotations: c.surface.Annotations(),
		Stats:       c.last,
	})
}

func (c *Controller) rebuildLocked(trigger, layer string, on bool) Stats {
	start := time.Now()

	c.surface.RemoveOverlays(c.surface.Overlays())
	c.surface.RemoveAnnotations(c.surface.Annotations())

	var st Stats
	if c.state.Boundary {
		c.surface.AddOverlay(overlay.BuildBoundary(c.park))
	}
	if c.state.Overlay {
		c.surface.AddOverlay(overlay.BuildRasterOverlay(c.park))
	}
	if c.state.Pins {
		c.addPins(&st)
	}
	if c.state.Characters {
		c.addCharacters(&st)
	}
	if c.state.Route {
		c.addRoute(&st)
	}

	st.Overlays = make(map[string]int)
	for _, o := range c.surface.Overlays() {
		st.Overlays[o.Kind().String()]++
	}
	st.Annotations = len(c.surface.Annotations())
	st.Duration = time.Since(start)
	c.last = st

	observability.ObserveRebuild(trigger, st.Duration.Seconds())
	observability.SetLiveObjects(liveCounts(st))

	c.logger.Debug("layers rebuilt",
		"trigger", trigger,
		"overlays", st.OverlayCount(),
		"annotations", st.Annotations,
		"skipped", st.Skipped,
		"duration", st.Duration,
	)

	c.events.Publish(toggleevents.Event{
		Park:        c.park.Name,
		Layer:       layer,
		On:          on,
		Trigger:     trigger,
		State:       c.state.Map(),
		Overlays:    st.OverlayCount(),
		Annotations: st.Annotations,
		Cell:        c.cell,
		TS:          time.Now().UTC(),
	})
	return st
}

func (c *Controller) addPins(st *Stats) {
	coll, ok := c.load(Pins, c.cols.Attractions, st)
	if !ok {
		return
	}
	markers, skipped := overlay.BuildAttractionMarkers(coll.Records)
	c.skipped(Pins, c.cols.Attractions, skipped, st)
	for _, m := range markers {
		c.surface.AddAnnotation(m)
	}
}

func (c *Controller) addCharacters(st *Stats) {
	for _, tr := range c.cols.Characters {
		// a missing trace still yields a degenerate marker with its name and color
		coll, _ := c.load(Characters, tr.Collection, st)
		m, skipped := overlay.BuildCharacterMarker(tr.Collection, tr.Color, coll.Points, c.rng, c.charOpts)
		c.skipped(Characters, tr.Collection, skipped, st)
		c.surface.AddOverlay(m)
	}
}

func (c *Controller) addRoute(st *Stats) {
	coll, _ := c.load(Route, c.cols.Route, st)
	route, skipped := overlay.BuildRoute(coll.Points)
	c.skipped(Route, c.cols.Route, skipped, st)
	c.surface.AddOverlay(route)
}

func (c *Controller) load(l Layer, name string, st *Stats) (records.Collection, bool) {
	coll, ok := c.store.Load(name)
	if !ok {
		st.Degraded = append(st.Degraded, l.String())
		observability.IncDegradedLayer(l.String(), "missing_collection")
		c.logger.Warn("layer collection missing", "layer", l.String(), "collection", name)
		return records.Collection{}, false
	}
	return coll, true
}

func (c *Controller) skipped(l Layer, name string, n int, st *Stats) {
	if n == 0 {
		return
	}
	st.Skipped += n
	observability.IncDegradedLayer(l.String(), "malformed_record")
	c.logger.Warn("skipped malformed records", "layer", l.String(), "collection", name, "skipped", n)
}

func liveCounts(st Stats) map[string]int {
	counts := map[string]int{
		overlay.KindRaster.String():   0,
		overlay.KindPolyline.String(): 0,
		overlay.KindPolygon.String():  0,
		overlay.KindCircle.String():   0,
		"annotation":                  st.Annotations,
	}
	for k, n := range st.Overlays {
		counts[k] = n
	}
	return counts
}
