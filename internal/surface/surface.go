// Package surface is an in-memory map surface. It keeps overlays and
// annotations in insertion order and indexes annotations for hit-testing.
package surface

import (
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/mapper"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
)

// point annotations need a non-zero extent in the tree (~11 m)
const pointEpsilon = 0.0001

type indexedAnnotation struct {
	a overlay.Annotation
}

func (e *indexedAnnotation) Bounds() rtreego.Rect {
	c := e.a.Coordinate()
	r, _ := rtreego.NewRect(rtreego.Point{c.Lon, c.Lat}, []float64{pointEpsilon, pointEpsilon})
	return r
}

type Memory struct {
	mu          sync.RWMutex
	overlays    []overlay.Overlay
	annotations []overlay.Annotation
	index       map[overlay.Annotation]*indexedAnnotation
	tree        *rtreego.Rtree
}

func NewMemory() *Memory {
	return &Memory{
		index: make(map[overlay.Annotation]*indexedAnnotation),
		tree:  rtreego.NewTree(2, 25, 50),
	}
}

func (m *Memory) AddOverlay(o overlay.Overlay) {
	if o == nil {
		return
	}
	m.mu.Lock()
	m.overlays = append(m.overlays, o)
	m.mu.Unlock()
}

func (m *Memory) AddAnnotation(a overlay.Annotation) {
	if a == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[a]; ok {
		return
	}
	e := &indexedAnnotation{a: a}
	m.index[a] = e
	m.annotations = append(m.annotations, a)
	m.tree.Insert(e)
}

// RemoveOverlays removes each listed overlay that is present. Unknown
// overlays are ignored.
func (m *Memory) RemoveOverlays(os []overlay.Overlay) {
	if len(os) == 0 {
		return
	}
	m.mu.Lock()
	m.overlays = slices.DeleteFunc(m.overlays, func(o overlay.Overlay) bool {
		return slices.Contains(os, o)
	})
	m.mu.Unlock()
}

func (m *Memory) RemoveAnnotations(as []overlay.Annotation) {
	if len(as) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range as {
		e, ok := m.index[a]
		if !ok {
			continue
		}
		m.tree.Delete(e)
		delete(m.index, a)
	}
	m.annotations = slices.DeleteFunc(m.annotations, func(a overlay.Annotation) bool {
		_, live := m.index[a]
		return !live
	})
}

// Overlays returns a snapshot in insertion order.
func (m *Memory) Overlays() []overlay.Overlay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.overlays)
}

func (m *Memory) Annotations() []overlay.Annotation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.annotations)
}

// Nearest returns the annotation closest to c within maxMetres.
func (m *Memory) Nearest(c model.GeoCoordinate, maxMetres float64) (overlay.Annotation, float64, bool) {
	if maxMetres <= 0 {
		return nil, 0, false
	}
	dLat, dLon := mapper.DegreesAround(c, maxMetres)
	query, err := rtreego.NewRect(
		rtreego.Point{c.Lon - dLon, c.Lat - dLat},
		[]float64{2 * dLon, 2 * dLat},
	)
	if err != nil {
		return nil, 0, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best     overlay.Annotation
		bestDist = maxMetres
		found    bool
	)
	for _, s := range m.tree.SearchIntersect(query) {
		a := s.(*indexedAnnotation).a
		d := mapper.Haversine(c, a.Coordinate())
		if d <= bestDist {
			best, bestDist, found = a, d, true
		}
	}
	return best, bestDist, found
}
