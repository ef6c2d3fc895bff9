// Package records reads named geographic record collections from a static
// declarative store.
package records

import (
	"maps"
	"slices"

	"github.com/mohammed-shakir/parkmap/internal/core/observability"
)

// Record is an untyped key/value record, e.g. one attraction.
type Record map[string]string

// Collection is either a list of records or a list of packed point strings.
type Collection struct {
	Records []Record
	Points  []string
}

func (c Collection) Len() int { return len(c.Records) + len(c.Points) }

func (c Collection) IsEmpty() bool { return c.Len() == 0 }

// Store looks collections up by logical name. ok is false when the collection
// is absent or was malformed at load time; callers render zero items.
type Store interface {
	Load(name string) (c Collection, ok bool)
}

// Static is an immutable in-memory Store.
// The map is copied on construction and never written again, so reads need
// no lock.
type Static struct {
	colls map[string]Collection
}

var _ Store = (*Static)(nil)

func NewStatic(colls map[string]Collection) *Static {
	cp := make(map[string]Collection, len(colls))
	maps.Copy(cp, colls)
	return &Static{colls: cp}
}

func (s *Static) Load(name string) (Collection, bool) {
	c, ok := s.colls[name]
	observability.IncRecordLoad(ok)
	return c, ok
}

// Names returns the stored collection names, sorted.
func (s *Static) Names() []string {
	return slices.Sorted(maps.Keys(s.colls))
}
